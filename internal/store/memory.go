package store

import (
	"context"
	"sync"
	"time"

	"github.com/fortunecookie/fortunecookie/internal/model"
)

// Memory keeps users and fortunes in process memory.
// Data lives for the lifetime of the process only.
type Memory struct {
	mu       sync.Mutex
	users    map[string]*model.User
	fortunes map[string]*model.UserFortune
	cooldown time.Duration
	now      func() time.Time
}

var _ Store = (*Memory)(nil)

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates an empty in-memory store.
func NewMemory(cooldown time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{
		users:    make(map[string]*model.User),
		fortunes: make(map[string]*model.UserFortune),
		cooldown: cooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CanUserGetFortune reports whether userID is outside its cooldown window.
func (m *Memory) CanUserGetFortune(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.users[userID].CanGetFortune(m.now(), m.cooldown), nil
}

// CreateUserFortune overwrites the user's fortune and refreshes LastFortuneAt.
func (m *Memory) CreateUserFortune(_ context.Context, userID, fortuneText string) (*model.UserFortune, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writeLocked(userID, fortuneText, m.now()), nil
}

// GrantFortune writes a new fortune only if the cooldown has elapsed.
func (m *Memory) GrantFortune(_ context.Context, userID, fortuneText string) (*model.UserFortune, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !m.users[userID].CanGetFortune(now, m.cooldown) {
		return nil, false, nil
	}
	return m.writeLocked(userID, fortuneText, now), true, nil
}

// GetUserFortune returns the user's latest fortune.
func (m *Memory) GetUserFortune(_ context.Context, userID string) (*model.UserFortune, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.fortunes[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return f.Clone(), nil
}

// GetUser returns the user record.
func (m *Memory) GetUser(_ context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

// Len returns the number of known users.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// writeLocked stores the fortune and user with the same timestamp.
// Caller must hold m.mu.
func (m *Memory) writeLocked(userID, fortuneText string, now time.Time) *model.UserFortune {
	f := &model.UserFortune{
		UserID:      userID,
		FortuneText: fortuneText,
		CreatedAt:   now,
	}
	m.fortunes[userID] = f

	last := now
	if u, ok := m.users[userID]; ok {
		u.LastFortuneAt = &last
	} else {
		m.users[userID] = &model.User{
			UserID:        userID,
			LastFortuneAt: &last,
			CreatedAt:     now,
		}
	}

	return f.Clone()
}
