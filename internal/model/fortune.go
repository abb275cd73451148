// Package model defines domain entities for the application.
package model

import "time"

// User tracks when a user last received a fortune.
type User struct {
	UserID        string     `json:"user_id"`
	LastFortuneAt *time.Time `json:"last_fortune_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// UserFortune is the most recent fortune granted to a user.
// Only one exists per user; a new grant overwrites it.
type UserFortune struct {
	UserID      string    `json:"user_id"`
	FortuneText string    `json:"fortune_text"`
	CreatedAt   time.Time `json:"created_at"`
}

// CanGetFortune reports whether the cooldown has elapsed at now.
// A user that never received a fortune is always eligible.
func (u *User) CanGetFortune(now time.Time, cooldown time.Duration) bool {
	if u == nil || u.LastFortuneAt == nil {
		return true
	}
	return now.Sub(*u.LastFortuneAt) >= cooldown
}

// Clone returns a copy that shares no memory with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.LastFortuneAt != nil {
		t := *u.LastFortuneAt
		c.LastFortuneAt = &t
	}
	return &c
}

// Clone returns a copy of the fortune record.
func (f *UserFortune) Clone() *UserFortune {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}
