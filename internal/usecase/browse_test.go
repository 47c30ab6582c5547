package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowse_NextVisitsEachOnceThenWraps(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	var ids []int64
	for _, title := range []string{"a", "b", "c", "d"} {
		ids = append(ids, env.listing(t, 1, title).ID)
	}

	var seen []int64
	for range ids {
		item, err := env.Browse.Next(ctx, 42)
		require.NoError(t, err)
		seen = append(seen, item.Listing.ID)
	}
	assert.Equal(t, ids, seen)

	item, err := env.Browse.Next(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, ids[0], item.Listing.ID)
	assert.Equal(t, 1, item.Position)
	assert.Equal(t, 4, item.Total)
}

func TestBrowse_EmptyNeverMutatesCursor(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	require.NoError(t, env.sessions.SetBrowsePosition(ctx, 42, 3))

	for i := 0; i < 3; i++ {
		_, err := env.Browse.Next(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	pos, err := env.sessions.BrowsePosition(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 3, pos)

	_, err = env.Browse.Enter(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBrowse_EnterShowsFirstWithoutAdvancing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	first := env.listing(t, 1, "first")
	env.listing(t, 1, "second")

	_, err := env.Browse.Next(ctx, 42)
	require.NoError(t, err)

	item, err := env.Browse.Enter(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, first.ID, item.Listing.ID)

	item, err = env.Browse.Next(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, first.ID, item.Listing.ID)
}

func TestBrowse_StaleCursorClamped(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.listing(t, 1, "a")
	env.listing(t, 1, "b")
	c := env.listing(t, 1, "c")

	for i := 0; i < 2; i++ {
		_, err := env.Browse.Next(ctx, 42)
		require.NoError(t, err)
	}
	// cursor now points at c; remove it so the offset is out of range
	_, err := env.Listings.Delete(ctx, 1, c.ID)
	require.NoError(t, err)

	item, err := env.Browse.Next(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, a.ID, item.Listing.ID)
}

func TestBrowse_ExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	l := env.listing(t, 1, "Sword")

	env.clock.Advance(48 * time.Hour)
	item, err := env.Browse.Enter(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, l.ID, item.Listing.ID)

	env.clock.Advance(24*time.Hour + time.Second)
	_, err = env.Browse.Enter(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBrowse_IncludesApprovedSellerRating(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.listing(t, 1, "a")

	rv, err := env.Reviews.Submit(ctx, SubmitInput{SellerID: 1, BuyerID: 2, Rating: 4})
	require.NoError(t, err)
	_, err = env.Reviews.Approve(ctx, adminA, rv.ID)
	require.NoError(t, err)

	item, err := env.Browse.Enter(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.Rating{Average: 4, Count: 1}, item.SellerRating)
}
