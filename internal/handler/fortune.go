package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"

	"github.com/fortunecookie/fortunecookie/internal/frame"
	"github.com/fortunecookie/fortunecookie/internal/handler/dto"
	"github.com/fortunecookie/fortunecookie/internal/middleware"
	"github.com/fortunecookie/fortunecookie/internal/service"
)

// Client facing messages.
const (
	msgMissingUserID = "Missing userId parameter"
	msgCooldown      = "You've already received your fortune today. Come back tomorrow!"
	msgInvalidBody   = "Invalid request body"
	msgStatusFailed  = "Failed to check fortune status"
	msgNewFailed     = "Failed to generate fortune"
)

// RateLimiter decides whether a client IP may make another request.
type RateLimiter interface {
	Allow(ip string) (bool, time.Duration)
}

// FortuneHandler handles the fortune API.
type FortuneHandler struct {
	svc      *service.FortuneService
	resolver frame.Resolver
	validate *validator.Validate
	limiter  RateLimiter
	logger   *slog.Logger
}

// NewFortuneHandler creates a new FortuneHandler.
func NewFortuneHandler(svc *service.FortuneService, resolver frame.Resolver, logger *slog.Logger) *FortuneHandler {
	return &FortuneHandler{
		svc:      svc,
		resolver: resolver,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// WithRateLimit throttles plain fortune requests on POST /api/fortune/new.
// Frame requests are never limited.
func (h *FortuneHandler) WithRateLimit(l RateLimiter) *FortuneHandler {
	h.limiter = l
	return h
}

// Status handles GET /api/fortune/status.
func (h *FortuneHandler) Status(w http.ResponseWriter, r *http.Request) {
	q := dto.StatusQuery{UserID: r.URL.Query().Get("userId")}
	if err := h.validate.Struct(q); err != nil {
		writeMessage(w, http.StatusBadRequest, msgMissingUserID)
		return
	}

	status, err := h.svc.Status(r.Context(), q.UserID)
	if err != nil {
		h.handleServiceError(w, r, err, msgStatusFailed)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStatusResponse(status))
}

// New handles POST /api/fortune/new.
// Frame clients receive frame metadata; everyone else gets a fortune subject
// to the cooldown.
func (h *FortuneHandler) New(w http.ResponseWriter, r *http.Request) {
	body, err := frame.ParseBody(r)
	if err != nil {
		if frame.IsFrameRequest(r.UserAgent(), nil) {
			h.logger.Error("frame_body_invalid", "error", err, "request_id", middleware.GetRequestID(r.Context()))
			h.writeDefaultFrame(w, r)
			return
		}
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	h.logger.Debug("fortune_request",
		"request_id", middleware.GetRequestID(r.Context()),
		"body", map[string]any(body),
		"headers", middleware.RedactHeaders(r.Header),
	)

	if frame.IsFrameRequest(r.UserAgent(), body) {
		h.frameFortune(w, r)
		return
	}

	if !h.allow(w, r) {
		return
	}

	req := dto.NewFortuneRequest{UserID: body.String("userId")}
	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgMissingUserID)
		return
	}

	uf, err := h.svc.NewFortune(r.Context(), req.UserID)
	if err != nil {
		h.handleServiceError(w, r, err, msgNewFailed)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToFortuneResponse(uf))
}

// frameFortune always answers 200 so the frame client can render a card.
func (h *FortuneHandler) frameFortune(w http.ResponseWriter, r *http.Request) {
	uf, err := h.svc.FrameFortune(r.Context())
	if err != nil {
		h.logger.Error("frame_fortune_failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		captureError(r, err)
		h.writeDefaultFrame(w, r)
		return
	}

	base := h.resolver.BaseURL(r)
	writeJSON(w, http.StatusOK, frame.CreateFrameMetadata(base, frame.MetadataOptions{
		FortuneText: uf.FortuneText,
	}))
}

// allow applies the per-IP limit and writes a 429 when it is exceeded.
func (h *FortuneHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.limiter == nil {
		return true
	}

	ip := middleware.ClientIP(r)
	ok, retryAfter := h.limiter.Allow(ip)
	if !ok {
		h.logger.Warn("rate_limit_exceeded",
			"ip", ip,
			"endpoint", r.Method+" "+r.URL.Path,
			"retry_after_seconds", retryAfter.Seconds(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		middleware.WriteRateLimitError(w, retryAfter)
	}
	return ok
}

func (h *FortuneHandler) writeDefaultFrame(w http.ResponseWriter, r *http.Request) {
	base := h.resolver.BaseURL(r)
	writeJSON(w, http.StatusOK, frame.CreateFrameMetadata(base, frame.MetadataOptions{}))
}

// handleServiceError maps service errors to HTTP responses.
func (h *FortuneHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrMissingUserID):
		writeMessage(w, http.StatusBadRequest, msgMissingUserID)
	case errors.Is(err, service.ErrCooldownActive):
		writeMessage(w, http.StatusForbidden, msgCooldown)
	default:
		h.logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		captureError(r, err)
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}

// writeMessage writes a {"message": ...} error body.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.MessageResponse{Message: message})
}

// captureError reports err to Sentry, tagged with the request id.
// No-op when Sentry is not initialised.
func captureError(r *http.Request, err error) {
	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if id := middleware.GetRequestID(r.Context()); id != "" {
			scope.SetTag("request_id", id)
		}
		scope.SetRequest(r)
		hub.CaptureException(err)
	})
}
