package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts catalog endpoints on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/services", listServicesHandler(store))
	r.Get("/api/services/{id}", getServiceHandler(store))
	r.Get("/api/services/{id}/items", listItemsHandler(store))
	r.Post("/api/services", upsertServiceHandler(store))
	r.Post("/api/services/{id}/items", upsertItemHandler(store))
}

func listServicesHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := store.ListServices(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if services == nil {
			services = []Service{}
		}
		writeJSON(w, http.StatusOK, services)
	}
}

func getServiceHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, err := store.GetService(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "service not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

func listItemsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		kind := Kind(r.URL.Query().Get("kind"))
		if kind != "" && kind != KindAction && kind != KindReaction {
			http.Error(w, "kind must be action or reaction", http.StatusBadRequest)
			return
		}

		// 404 for unknown services, empty list for known-but-empty ones.
		if _, err := store.GetService(r.Context(), id); errors.Is(err, ErrNotFound) {
			http.Error(w, "service not found", http.StatusNotFound)
			return
		} else if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		items, err := store.ListItems(r.Context(), id, kind)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []Item{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func upsertServiceHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var svc Service
		if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if svc.ID == "" || svc.Name == "" {
			http.Error(w, "id and name are required", http.StatusBadRequest)
			return
		}
		if err := store.UpsertService(r.Context(), svc); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, svc)
	}
}

func upsertItemHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID := chi.URLParam(r, "id")
		var item Item
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if item.ID == "" || item.Name == "" {
			http.Error(w, "id and name are required", http.StatusBadRequest)
			return
		}
		if item.Kind != KindAction && item.Kind != KindReaction {
			http.Error(w, "kind must be action or reaction", http.StatusBadRequest)
			return
		}

		existing, err := store.ListItems(r.Context(), serviceID, "")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := store.UpsertItem(r.Context(), serviceID, item, len(existing)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
