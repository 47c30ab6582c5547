package domain

import "time"

// User is a chat participant known to the marketplace.
type User struct {
	ID            int64
	Username      string
	FirstName     string
	LastName      string
	IsBanned      bool
	BanReason     string
	IsWhitelisted bool
	// DailyLimit overrides the global quota when positive.
	DailyLimit   int
	RegisteredAt time.Time
}

// Profile is the self-reported part of a user, refreshed on every session start.
type Profile struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// DisplayName prefers the @handle and falls back to names, then the id.
func (u *User) DisplayName() string {
	switch {
	case u.Username != "":
		return "@" + u.Username
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	}
	return "user " + itoa(u.ID)
}

// EffectiveLimit returns the user's own quota or the global default.
func (u *User) EffectiveLimit(defaultLimit int) int {
	if u.DailyLimit > 0 {
		return u.DailyLimit
	}
	return defaultLimit
}
