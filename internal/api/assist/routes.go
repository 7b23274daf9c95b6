package assist

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers assist routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/process", h.Process)
}
