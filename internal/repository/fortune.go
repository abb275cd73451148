package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fortunecookie/fortunecookie/internal/model"
	"github.com/fortunecookie/fortunecookie/internal/store"
)

// FortuneRepository implements store.Store on the user_fortunes table.
type FortuneRepository struct {
	repo     *Repository
	cooldown time.Duration
	now      func() time.Time
}

var _ store.Store = (*FortuneRepository)(nil)

// NewFortuneRepository creates a PostgreSQL-backed fortune store.
func NewFortuneRepository(repo *Repository, cooldown time.Duration) *FortuneRepository {
	return &FortuneRepository{
		repo:     repo,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// SetClock overrides the time source.
func (r *FortuneRepository) SetClock(now func() time.Time) {
	r.now = now
}

// CanUserGetFortune reports whether userID is outside its cooldown window.
func (r *FortuneRepository) CanUserGetFortune(ctx context.Context, userID string) (bool, error) {
	user, err := r.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return user.CanGetFortune(r.now(), r.cooldown), nil
}

// CreateUserFortune overwrites the user's fortune and refreshes last_fortune_at.
func (r *FortuneRepository) CreateUserFortune(ctx context.Context, userID, fortuneText string) (*model.UserFortune, error) {
	query := `
		INSERT INTO user_fortunes (user_id, fortune_text, fortune_created_at, last_fortune_at, created_at)
		VALUES ($1, $2, $3, $3, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET fortune_text = EXCLUDED.fortune_text,
		    fortune_created_at = EXCLUDED.fortune_created_at,
		    last_fortune_at = EXCLUDED.last_fortune_at
	`

	now := r.now().UTC()
	if _, err := r.repo.pool.Exec(ctx, query, userID, fortuneText, now); err != nil {
		return nil, fmt.Errorf("failed to create user fortune: %w", err)
	}

	return &model.UserFortune{
		UserID:      userID,
		FortuneText: fortuneText,
		CreatedAt:   now,
	}, nil
}

// GrantFortune writes the fortune only if the cooldown has elapsed.
// The conditional upsert holds the row lock, so concurrent grants serialize
// and the loser sees the winner's last_fortune_at.
func (r *FortuneRepository) GrantFortune(ctx context.Context, userID, fortuneText string) (*model.UserFortune, bool, error) {
	query := `
		INSERT INTO user_fortunes (user_id, fortune_text, fortune_created_at, last_fortune_at, created_at)
		VALUES ($1, $2, $3, $3, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET fortune_text = EXCLUDED.fortune_text,
		    fortune_created_at = EXCLUDED.fortune_created_at,
		    last_fortune_at = EXCLUDED.last_fortune_at
		WHERE user_fortunes.last_fortune_at IS NULL
		   OR user_fortunes.last_fortune_at <= $4
		RETURNING fortune_created_at
	`

	now := r.now().UTC()
	threshold := now.Add(-r.cooldown)

	var createdAt time.Time
	err := r.repo.pool.QueryRow(ctx, query, userID, fortuneText, now, threshold).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to grant user fortune: %w", err)
	}

	return &model.UserFortune{
		UserID:      userID,
		FortuneText: fortuneText,
		CreatedAt:   createdAt,
	}, true, nil
}

// GetUserFortune returns the user's latest fortune.
func (r *FortuneRepository) GetUserFortune(ctx context.Context, userID string) (*model.UserFortune, error) {
	query := `
		SELECT user_id, fortune_text, fortune_created_at
		FROM user_fortunes
		WHERE user_id = $1 AND fortune_text IS NOT NULL
	`

	var f model.UserFortune
	err := r.repo.pool.QueryRow(ctx, query, userID).Scan(
		&f.UserID,
		&f.FortuneText,
		&f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user fortune: %w", err)
	}

	return &f, nil
}

// GetUser returns the user record.
func (r *FortuneRepository) GetUser(ctx context.Context, userID string) (*model.User, error) {
	query := `
		SELECT user_id, last_fortune_at, created_at
		FROM user_fortunes
		WHERE user_id = $1
	`

	var u model.User
	err := r.repo.pool.QueryRow(ctx, query, userID).Scan(
		&u.UserID,
		&u.LastFortuneAt,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// Ping checks database connectivity.
func (r *FortuneRepository) Ping(ctx context.Context) error {
	return r.repo.Ping(ctx)
}

// Close closes the connection pool.
func (r *FortuneRepository) Close() error {
	r.repo.Close()
	return nil
}
