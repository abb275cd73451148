// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fortunecookie/fortunecookie/internal/frame"
)

// Version is reported by the index endpoint.
const Version = "1.0.0"

// Handler serves the index and routing fallbacks.
type Handler struct {
	resolver frame.Resolver
}

// New creates a new Handler instance.
func New(resolver frame.Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// IndexResponse describes the service and its frame entry points.
type IndexResponse struct {
	Name     string            `json:"name"`
	Version  string            `json:"version"`
	Frames   map[string]string `json:"frames"`
	Manifest string            `json:"manifest"`
	API      map[string]string `json:"api"`
}

// Index lists the frame links for sharing.
// GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	base := h.resolver.BaseURL(r)
	writeJSON(w, http.StatusOK, IndexResponse{
		Name:    frame.AppName,
		Version: Version,
		Frames: map[string]string{
			"main":    base + "/frame",
			"minimal": base + "/minimal-frame",
		},
		Manifest: base + "/.well-known/warpcast.json",
		API: map[string]string{
			"status": base + "/api/fortune/status",
			"new":    frame.PostURL(base),
		},
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "resource not found",
		"code":  "NOT_FOUND",
	})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
		"code":  "METHOD_NOT_ALLOWED",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeHTML writes an HTML document.
func writeHTML(w http.ResponseWriter, status int, doc string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(doc))
}
