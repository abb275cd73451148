// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/fortunecookie/fortunecookie/internal/model"
	"github.com/fortunecookie/fortunecookie/internal/service"
)

// StatusQuery holds query parameters for the status endpoint.
type StatusQuery struct {
	UserID string `validate:"required"`
}

// NewFortuneRequest is the body of a plain fortune request.
type NewFortuneRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// StatusResponse reports fortune eligibility.
// LastFortuneAt is epoch milliseconds.
type StatusResponse struct {
	CanGetFortune  bool    `json:"canGetFortune"`
	CurrentFortune *string `json:"currentFortune"`
	LastFortuneAt  *int64  `json:"lastFortuneAt"`
}

// FortuneResponse carries a freshly granted fortune.
type FortuneResponse struct {
	Fortune   string    `json:"fortune"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageResponse is the error body used by the fortune API.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents a routing level API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToStatusResponse converts a service status to its wire form.
func ToStatusResponse(s *service.Status) *StatusResponse {
	resp := &StatusResponse{
		CanGetFortune:  s.CanGetFortune,
		CurrentFortune: s.CurrentFortune,
	}
	if s.LastFortuneAt != nil {
		ms := s.LastFortuneAt.UnixMilli()
		resp.LastFortuneAt = &ms
	}
	return resp
}

// ToFortuneResponse converts a stored fortune to its wire form.
func ToFortuneResponse(uf *model.UserFortune) *FortuneResponse {
	return &FortuneResponse{
		Fortune:   uf.FortuneText,
		Timestamp: uf.CreatedAt.UTC(),
	}
}
