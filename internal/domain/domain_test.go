package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListing_TitleLength(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	_, err := NewListing(1, strings.Repeat("я", MaxTitleLength+1), "d", "p", "c", now, 72*time.Hour)
	require.ErrorIs(t, err, ErrValidation)

	l, err := NewListing(1, strings.Repeat("я", MaxTitleLength), "d", "p", "@seller1", now, 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "seller1", l.Contact)
	assert.Equal(t, now.Add(72*time.Hour), l.ExpiresAt)
	assert.Equal(t, now, l.LastCheckedAt)
	assert.True(t, l.ExpiresAt.After(l.CreatedAt))
}

func TestListing_IsActive(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := &Listing{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, l.IsActive(now))
	assert.False(t, l.IsActive(now.Add(time.Hour)))
}

func TestNewReview_RatingBounds(t *testing.T) {
	now := time.Now()
	for _, r := range []int{0, 6, -1} {
		_, err := NewReview(1, 2, nil, r, "", now)
		assert.ErrorIs(t, err, ErrValidation, "rating %d", r)
	}
	rv, err := NewReview(1, 2, nil, 5, "great", now)
	require.NoError(t, err)
	assert.False(t, rv.IsModerated)

	_, err = NewReview(1, 1, nil, 5, "", now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRating(t *testing.T) {
	assert.Equal(t, "none", NewRating(0, 0).String())

	r := NewRating(14, 3)
	assert.Equal(t, 4.7, r.Average)
	assert.Equal(t, "4.7 (3 reviews)", r.String())

	assert.Equal(t, Rating{Average: 5, Count: 1}, NewRating(5, 1))
}

func TestModerationCursor(t *testing.T) {
	c := &ModerationCursor{IDs: []int64{10, 20, 30}}

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, int64(10), cur)
	_, ok = c.Prev()
	assert.False(t, ok)
	next, ok := c.Next()
	assert.True(t, ok)
	assert.Equal(t, int64(20), next)

	assert.False(t, c.Seek(99))
	assert.True(t, c.Seek(30))
	_, ok = c.Next()
	assert.False(t, ok)

	// removing the last item clamps back onto the new tail
	assert.True(t, c.Remove(30))
	cur, _ = c.Current()
	assert.Equal(t, int64(20), cur)

	// removing an earlier item keeps the cursor on the same review
	assert.True(t, c.Remove(10))
	cur, _ = c.Current()
	assert.Equal(t, int64(20), cur)

	assert.False(t, c.Remove(10))
	assert.True(t, c.Remove(20))
	_, ok = c.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestModerationCursor_StaleIndexClamped(t *testing.T) {
	c := &ModerationCursor{IDs: []int64{1, 2}, Index: 7}
	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, int64(2), cur)
}

func TestTypedErrors(t *testing.T) {
	var err error = &BanError{Reason: "fraud"}
	assert.True(t, errors.Is(err, ErrBanned))
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.Contains(t, err.Error(), "fraud")

	q := &QuotaError{Count: 6, Limit: 6}
	assert.True(t, errors.Is(q, ErrQuotaExceeded))
	assert.Equal(t, 0, q.Remaining())

	c := &CooldownError{Remaining: 90 * time.Minute}
	assert.Equal(t, 2, c.RemainingHours())
	assert.True(t, errors.Is(c, ErrCooldown))
}

func TestUser_DisplayNameAndLimit(t *testing.T) {
	u := &User{ID: 7}
	assert.Equal(t, "user 7", u.DisplayName())
	u.FirstName = "Ann"
	assert.Equal(t, "Ann", u.DisplayName())
	u.Username = "ann"
	assert.Equal(t, "@ann", u.DisplayName())

	assert.Equal(t, 6, u.EffectiveLimit(6))
	u.DailyLimit = 2
	assert.Equal(t, 2, u.EffectiveLimit(6))
}

func TestCallbackRoundTrip(t *testing.T) {
	for _, cb := range []Callback{
		{Action: CbRenew, ID: 12},
		{Action: CbReview, ID: 5, Arg: 77},
		{Action: CbBackToSeller},
	} {
		got, err := ParseCallback(cb.String())
		require.NoError(t, err)
		assert.Equal(t, cb, got)
	}

	for _, bad := range []string{"", "renew", "renew:x", ":1", "a:1:2:3", "a:1:z"} {
		_, err := ParseCallback(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}

	b := InlineButton("Renew", CbRenew, 3)
	assert.Equal(t, "renew:3", b.Data)
}
