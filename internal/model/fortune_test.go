package model

import (
	"testing"
	"time"
)

func TestUser_CanGetFortune(t *testing.T) {
	t.Parallel()

	last := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cooldown := 24 * time.Hour

	tests := []struct {
		name string
		user *User
		now  time.Time
		want bool
	}{
		{"nil user", nil, last, true},
		{"never granted", &User{UserID: "u1"}, last, true},
		{"just granted", &User{UserID: "u1", LastFortuneAt: &last}, last, false},
		{"23.9 hours later", &User{UserID: "u1", LastFortuneAt: &last}, last.Add(23*time.Hour + 54*time.Minute), false},
		{"exactly at cooldown", &User{UserID: "u1", LastFortuneAt: &last}, last.Add(cooldown), true},
		{"24.1 hours later", &User{UserID: "u1", LastFortuneAt: &last}, last.Add(24*time.Hour + 6*time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.user.CanGetFortune(tt.now, cooldown); got != tt.want {
				t.Errorf("CanGetFortune() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_Clone(t *testing.T) {
	t.Parallel()

	last := time.Now()
	u := &User{UserID: "u1", LastFortuneAt: &last}
	c := u.Clone()

	*c.LastFortuneAt = last.Add(time.Hour)
	if !u.LastFortuneAt.Equal(last) {
		t.Error("mutating clone changed original LastFortuneAt")
	}
}
