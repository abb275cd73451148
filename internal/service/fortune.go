// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fortunecookie/fortunecookie/internal/metrics"
	"github.com/fortunecookie/fortunecookie/internal/model"
	"github.com/fortunecookie/fortunecookie/internal/store"
)

// Service errors.
var (
	ErrMissingUserID  = errors.New("missing userId parameter")
	ErrCooldownActive = errors.New("fortune cooldown active")
)

// frameUserPrefix marks anonymous users created from frame interactions.
const frameUserPrefix = "farcaster_"

// Picker chooses fortune messages.
type Picker interface {
	Random() string
}

// Status describes a user's fortune eligibility.
type Status struct {
	CanGetFortune  bool
	CurrentFortune *string
	LastFortuneAt  *time.Time
}

// FortuneService handles fortune business logic.
type FortuneService struct {
	store   store.Store
	picker  Picker
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewFortuneService creates a new FortuneService.
func NewFortuneService(st store.Store, picker Picker, recorder metrics.Recorder, logger *slog.Logger) *FortuneService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FortuneService{
		store:   st,
		picker:  picker,
		metrics: recorder,
		logger:  logger,
	}
}

// Status reports whether userID may receive a fortune now.
// The current fortune is only revealed while the cooldown is active.
func (s *FortuneService) Status(ctx context.Context, userID string) (*Status, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	var can bool
	err := s.observe("can_get", func() (err error) {
		can, err = s.store.CanUserGetFortune(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("check eligibility: %w", err)
	}

	status := &Status{CanGetFortune: can}

	if !can {
		var uf *model.UserFortune
		err := s.observe("get_fortune", func() (err error) {
			uf, err = s.store.GetUserFortune(ctx, userID)
			return err
		})
		switch {
		case err == nil:
			text := uf.FortuneText
			status.CurrentFortune = &text
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("get fortune: %w", err)
		}
	}

	var user *model.User
	err = s.observe("get_user", func() (err error) {
		user, err = s.store.GetUser(ctx, userID)
		return err
	})
	switch {
	case err == nil:
		status.LastFortuneAt = user.LastFortuneAt
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("get user: %w", err)
	}

	return status, nil
}

// NewFortune grants a fresh fortune to userID.
// Returns ErrCooldownActive when the user already received one within the cooldown.
func (s *FortuneService) NewFortune(ctx context.Context, userID string) (*model.UserFortune, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	text := s.picker.Random()

	var (
		uf      *model.UserFortune
		granted bool
	)
	err := s.observe("grant", func() (err error) {
		uf, granted, err = s.store.GrantFortune(ctx, userID, text)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("grant fortune: %w", err)
	}
	if !granted {
		s.metrics.IncFortuneRejected()
		s.logger.Info("fortune rejected, cooldown active", "user_id", userID)
		return nil, ErrCooldownActive
	}

	s.metrics.IncFortuneGranted()
	s.logger.Debug("fortune granted", "user_id", userID)
	return uf, nil
}

// FrameFortune picks a fortune for an anonymous frame interaction.
// Frame users are recorded under a fresh id and are never rate limited
// by the cooldown.
func (s *FortuneService) FrameFortune(ctx context.Context) (*model.UserFortune, error) {
	userID := frameUserPrefix + ulid.Make().String()
	text := s.picker.Random()

	var uf *model.UserFortune
	err := s.observe("create", func() (err error) {
		uf, err = s.store.CreateUserFortune(ctx, userID, text)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("record frame fortune: %w", err)
	}

	s.metrics.IncFrameFortune()
	s.logger.Info("frame fortune served", "user_id", userID)
	return uf, nil
}

// Ping checks the backing store.
func (s *FortuneService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *FortuneService) observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveStoreDuration(op, time.Since(start))
	// a missing record is a normal miss, not a backend fault
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.metrics.IncStoreError(op)
	}
	return err
}
