package handlers

import (
	"fmt"
	"net/http"

	"steelintel/internal/models"
)

// Version is the API version reported by the health endpoint
const Version = "1.0.0"

// HealthHandler reports static health status. No dependency check is
// performed here.
// HealthHandler godoc
// @Summary Health check
// @Description Returns a static OK status
// @Tags general
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HomeHandler godoc
// @Summary Home page
// @Description Returns a welcome message for the API server
// @Tags general
// @Produce text/plain
// @Success 200 {string} string "SteelIntel API"
// @Router / [get]
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	fmt.Fprintln(w, "SteelIntel API - AI-powered knowledge retrieval for steel specifications and O&G compliance")
}
