package handler

import (
	"log/slog"
	"net/http"

	"github.com/fortunecookie/fortunecookie/internal/frame"
)

// FrameHandler serves frame documents and the client manifest.
type FrameHandler struct {
	resolver frame.Resolver
	logger   *slog.Logger
}

// NewFrameHandler creates a new FrameHandler.
func NewFrameHandler(resolver frame.Resolver, logger *slog.Logger) *FrameHandler {
	return &FrameHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// mainFrame and minimalFrame are the two published frame variants.
var (
	mainFrame = frame.HTMLOptions{
		Title:       frame.AppName,
		Description: "Get your daily humorous drunk fortune with a wobbling text effect",
		ButtonText:  "Get My Fortune",
	}
	minimalFrame = frame.HTMLOptions{
		Title:       frame.AppName + " (Minimal)",
		Description: "Simple test frame for Farcaster",
		ButtonText:  "Break Cookie",
		AspectRatio: "1.91:1",
	}
)

// Manifest handles GET /.well-known/warpcast.json and GET /warpcast.json.
func (h *FrameHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, frame.NewManifest(h.resolver.BaseURL(r)))
}

// Frame handles GET /frame.
func (h *FrameHandler) Frame(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, mainFrame)
}

// MinimalFrame handles GET /minimal-frame.
func (h *FrameHandler) MinimalFrame(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, minimalFrame)
}

func (h *FrameHandler) render(w http.ResponseWriter, r *http.Request, opts frame.HTMLOptions) {
	doc, err := frame.GenerateFrameHTML(h.resolver.BaseURL(r), opts)
	if err != nil {
		h.logger.Error("frame_render_failed", "error", err)
		captureError(r, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to render frame",
			"code":  "INTERNAL_ERROR",
		})
		return
	}
	writeHTML(w, http.StatusOK, doc)
}
