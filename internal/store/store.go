// Package store defines fortune persistence and provides the in-memory backend.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/fortunecookie/fortunecookie/internal/model"
)

// ErrNotFound is returned when no record exists for a user.
var ErrNotFound = errors.New("not found")

// DefaultCooldown is the time a user must wait between fortunes.
const DefaultCooldown = 24 * time.Hour

// Store persists users and their latest fortune.
//
// CreateUserFortune does not check the cooldown; callers that must honor it
// either call CanUserGetFortune first or use GrantFortune, which performs the
// check and the write as one atomic step.
type Store interface {
	CanUserGetFortune(ctx context.Context, userID string) (bool, error)
	CreateUserFortune(ctx context.Context, userID, fortuneText string) (*model.UserFortune, error)
	GrantFortune(ctx context.Context, userID, fortuneText string) (*model.UserFortune, bool, error)
	GetUserFortune(ctx context.Context, userID string) (*model.UserFortune, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	Ping(ctx context.Context) error
	Close() error
}

// CooldownFromHours converts a real-valued hour threshold to a duration.
func CooldownFromHours(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
