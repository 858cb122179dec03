package routes

import (
	"steelintel/internal/handlers"

	"github.com/gorilla/mux"
)

// Handlers groups everything the router needs
type Handlers struct {
	Chat      *handlers.ChatHandler
	Documents *handlers.DocumentsHandler
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(router *mux.Router, h *Handlers) {
	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")
	router.HandleFunc("/", handlers.HomeHandler).Methods("GET")

	router.HandleFunc("/api/chat", h.Chat.Chat).Methods("POST")
	router.HandleFunc("/api/documents", h.Documents.List).Methods("GET")
}
