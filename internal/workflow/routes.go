package workflow

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts workflow endpoints on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/workflows", listWorkflowsHandler(store))
	r.Get("/api/workflows/{id}", getWorkflowHandler(store))
	r.Post("/api/workflows", createWorkflowHandler(store))
	r.Put("/api/workflows/{id}", updateWorkflowHandler(store))
	r.Post("/api/workflows/{id}/toggle", toggleWorkflowHandler(store))
	r.Delete("/api/workflows/{id}", deleteWorkflowHandler(store))
}

func listWorkflowsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workflows, err := store.List(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if workflows == nil {
			workflows = []Workflow{}
		}
		writeJSON(w, http.StatusOK, workflows)
	}
}

func getWorkflowHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wf, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "workflow not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, wf)
	}
}

func createWorkflowHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var wf Workflow
		if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if wf.Trigger.ServiceID == "" || wf.Trigger.ActionID == "" {
			http.Error(w, "trigger is required", http.StatusBadRequest)
			return
		}
		if err := store.Create(r.Context(), &wf); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, wf)
	}
}

func updateWorkflowHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var wf Workflow
		if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		wf.ID = id
		if err := store.Update(r.Context(), &wf); err != nil {
			http.Error(w, "workflow not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, wf)
	}
}

func toggleWorkflowHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req struct {
			Toggle bool `json:"toggle"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := store.SetToggle(r.Context(), id, req.Toggle); err != nil {
			http.Error(w, "workflow not found", http.StatusNotFound)
			return
		}
		wf, err := store.Get(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, wf)
	}
}

func deleteWorkflowHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			http.Error(w, "workflow not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
