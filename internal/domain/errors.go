package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("invalid input data")
	// ErrNotFound indicates that a requested entity or queue item was not found.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden indicates that the caller may not perform the action.
	ErrForbidden = errors.New("action forbidden")
	// ErrBanned indicates that a banned user attempted a gated action.
	ErrBanned = errors.New("user is banned")
	// ErrQuotaExceeded indicates that the daily listing quota is used up.
	ErrQuotaExceeded = errors.New("daily listing quota exceeded")
	// ErrCooldown indicates that a renewal was attempted too early.
	ErrCooldown = errors.New("renewal cooldown in effect")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)

// BanError carries the reason recorded by the admin who banned the user.
type BanError struct {
	Reason string
}

func (e *BanError) Error() string {
	if e.Reason == "" {
		return ErrBanned.Error()
	}
	return fmt.Sprintf("%s: %s", ErrBanned, e.Reason)
}

func (e *BanError) Is(target error) bool { return target == ErrBanned || target == ErrForbidden }

// QuotaError reports how many listings were created in the trailing window.
type QuotaError struct {
	Count int
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s: %d of %d used", ErrQuotaExceeded, e.Count, e.Limit)
}

func (e *QuotaError) Is(target error) bool { return target == ErrQuotaExceeded || target == ErrForbidden }

// Remaining is always zero for a denied request but is kept explicit for
// the user-facing message.
func (e *QuotaError) Remaining() int {
	if e.Count >= e.Limit {
		return 0
	}
	return e.Limit - e.Count
}

// CooldownError tells the caller how long to wait before renewing again.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: try again in %d hours", ErrCooldown, e.RemainingHours())
}

func (e *CooldownError) Is(target error) bool { return target == ErrCooldown }

// RemainingHours rounds the wait up so "0 hours" is never shown for a
// denied renewal.
func (e *CooldownError) RemainingHours() int {
	h := int(e.Remaining / time.Hour)
	if e.Remaining%time.Hour > 0 {
		h++
	}
	return h
}
