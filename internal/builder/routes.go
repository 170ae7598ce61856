package builder

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the builder editor endpoint on the given router.
func RegisterRoutes(r chi.Router, gw *Gateway) {
	r.Get("/ws/builder", gw.HandleWebSocket)
}
