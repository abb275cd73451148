package cache

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/fortunecookie/fortunecookie/internal/model"
	"github.com/fortunecookie/fortunecookie/internal/store"
)

// fortuneKeyPrefix is the Redis key prefix for per-user fortune hashes.
const fortuneKeyPrefix = "fortune:user:"

// cachedFortune is the hash layout stored per user.
// Timestamps are Unix milliseconds.
type cachedFortune struct {
	UserID        string `redis:"user_id"`
	FortuneText   string `redis:"fortune"`
	CreatedAt     string `redis:"created_at"`
	LastFortuneAt string `redis:"last_fortune_at"`
	UserCreatedAt string `redis:"user_created_at"`
}

// grantScript writes a fortune only when the cooldown has elapsed.
// Check and write happen in one script so concurrent grants cannot both pass.
var grantScript = redis.NewScript(`
	local key = KEYS[1]
	local user_id = ARGV[1]
	local fortune = ARGV[2]
	local now = tonumber(ARGV[3])       -- unix ms
	local cooldown = tonumber(ARGV[4])  -- ms

	local last = tonumber(redis.call('HGET', key, 'last_fortune_at'))
	if last and (now - last) < cooldown then
		return 0
	end

	redis.call('HSET', key, 'user_id', user_id, 'fortune', fortune, 'created_at', now, 'last_fortune_at', now)
	redis.call('HSETNX', key, 'user_created_at', now)
	return 1
`)

// FortuneStore implements store.Store on Redis hashes.
type FortuneStore struct {
	cache    *Cache
	cooldown time.Duration
	now      func() time.Time
}

var _ store.Store = (*FortuneStore)(nil)

// NewFortuneStore creates a Redis-backed fortune store.
func NewFortuneStore(c *Cache, cooldown time.Duration) *FortuneStore {
	return &FortuneStore{
		cache:    c,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// SetClock overrides the time source.
func (s *FortuneStore) SetClock(now func() time.Time) {
	s.now = now
}

// CanUserGetFortune reports whether userID is outside its cooldown window.
func (s *FortuneStore) CanUserGetFortune(ctx context.Context, userID string) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return user.CanGetFortune(s.now(), s.cooldown), nil
}

// CreateUserFortune overwrites the user's fortune and refreshes LastFortuneAt.
func (s *FortuneStore) CreateUserFortune(ctx context.Context, userID, fortuneText string) (*model.UserFortune, error) {
	now := s.now()
	ms := now.UnixMilli()
	key := fortuneKey(userID)

	pipe := s.cache.client.TxPipeline()
	pipe.HSet(ctx, key,
		"user_id", userID,
		"fortune", fortuneText,
		"created_at", ms,
		"last_fortune_at", ms,
	)
	pipe.HSetNX(ctx, key, "user_created_at", ms)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("write fortune: %w", err)
	}

	return &model.UserFortune{
		UserID:      userID,
		FortuneText: fortuneText,
		CreatedAt:   time.UnixMilli(ms),
	}, nil
}

// GrantFortune atomically checks the cooldown and writes the fortune.
func (s *FortuneStore) GrantFortune(ctx context.Context, userID, fortuneText string) (*model.UserFortune, bool, error) {
	ms := s.now().UnixMilli()

	res, err := grantScript.Run(ctx, s.cache.client,
		[]string{fortuneKey(userID)},
		userID, fortuneText, ms, s.cooldown.Milliseconds(),
	).Int64()
	if err != nil {
		return nil, false, fmt.Errorf("grant fortune: %w", err)
	}

	if res == 0 {
		return nil, false, nil
	}

	return &model.UserFortune{
		UserID:      userID,
		FortuneText: fortuneText,
		CreatedAt:   time.UnixMilli(ms),
	}, true, nil
}

// GetUserFortune returns the user's latest fortune.
func (s *FortuneStore) GetUserFortune(ctx context.Context, userID string) (*model.UserFortune, error) {
	cached, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	createdAt, err := parseMillis(cached.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt fortune record: %w", err)
	}

	return &model.UserFortune{
		UserID:      cached.UserID,
		FortuneText: cached.FortuneText,
		CreatedAt:   createdAt,
	}, nil
}

// GetUser returns the user record.
func (s *FortuneStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	cached, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	user := &model.User{UserID: cached.UserID}

	if cached.LastFortuneAt != "" {
		last, err := parseMillis(cached.LastFortuneAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt user record: %w", err)
		}
		user.LastFortuneAt = &last
	}

	if cached.UserCreatedAt != "" {
		created, err := parseMillis(cached.UserCreatedAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt user record: %w", err)
		}
		user.CreatedAt = created
	}

	return user, nil
}

// Ping checks Redis connectivity.
func (s *FortuneStore) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

// Close closes the Redis client.
func (s *FortuneStore) Close() error {
	return s.cache.Close()
}

func (s *FortuneStore) load(ctx context.Context, userID string) (*cachedFortune, error) {
	res := s.cache.client.HGetAll(ctx, fortuneKey(userID))
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("read fortune: %w", err)
	}
	if len(res.Val()) == 0 {
		return nil, store.ErrNotFound
	}

	var cached cachedFortune
	if err := res.Scan(&cached); err != nil {
		return nil, fmt.Errorf("decode fortune: %w", err)
	}
	return &cached, nil
}

// fortuneKey builds the Redis key for a user.
func fortuneKey(userID string) string {
	return fortuneKeyPrefix + hashUserID(userID)
}

// hashUserID maps an arbitrary user id to a fixed-size key component.
// Uses a 128-bit BLAKE2b digest, encoded as 32 hex chars.
func hashUserID(userID string) string {
	h, _ := blake2b.New(16, nil) // only fails for invalid size or key
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

func parseMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
