package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the health and solve routes onto a gorilla/mux router.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/solve", h.Solve).Methods(http.MethodPost)

	return r
}
