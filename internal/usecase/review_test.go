package usecase

import (
	"context"
	"testing"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_InvalidRatingNeverStored(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, r := range []int{0, 6} {
		_, err := env.Reviews.Submit(ctx, SubmitInput{SellerID: 1, BuyerID: 2, Rating: r})
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	ids, err := env.reviews.ListPendingIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, env.sender.to(adminA))
}

func TestSubmitApprove_RatingAndSellerNotified(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	rv, err := env.Reviews.Submit(ctx, SubmitInput{SellerID: 1, BuyerID: 2, Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.Len(t, env.sender.to(adminA), 1)
	assert.Len(t, env.sender.to(adminB), 1)

	rating, err := env.Reviews.SellerRating(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "none", rating.String())

	view, err := env.Reviews.Approve(ctx, adminA, rv.ID)
	require.NoError(t, err)
	assert.True(t, view.Done)
	assert.False(t, view.Stale)

	rating, err = env.Reviews.SellerRating(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Rating{Average: 5, Count: 1}, rating)

	msgs := env.sender.to(1)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "5")
	assert.Contains(t, msgs[0], "great")

	actions, err := env.actions.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, domain.ActionApproveReview, actions[0].ActionType)
}

func TestModerationQueue_NavigationAndClamp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	var ids []int64
	for buyer := int64(2); buyer <= 4; buyer++ {
		rv, err := env.Reviews.Submit(ctx, SubmitInput{SellerID: 1, BuyerID: buyer, Rating: 3})
		require.NoError(t, err)
		ids = append(ids, rv.ID)
	}

	view, err := env.Reviews.OpenQueue(ctx, adminA)
	require.NoError(t, err)
	assert.Equal(t, ids[0], view.Review.ID)
	assert.Equal(t, 3, view.Total)
	assert.False(t, view.HasPrev)
	assert.True(t, view.HasNext)
	assert.Equal(t, ids[1], view.NextID)

	view, err = env.Reviews.Navigate(ctx, adminA, ids[2])
	require.NoError(t, err)
	assert.Equal(t, ids[2], view.Review.ID)
	assert.True(t, view.HasPrev)
	assert.False(t, view.HasNext)

	// resolving the last item clamps back onto the new tail
	view, err = env.Reviews.Reject(ctx, adminA, ids[2])
	require.NoError(t, err)
	require.NotNil(t, view.Review)
	assert.Equal(t, ids[1], view.Review.ID)
	assert.Equal(t, 2, view.Total)

	_, err = env.reviews.GetByID(ctx, ids[2])
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, env.sender.to(4), 1)

	// unknown id leaves the cursor alone
	view, err = env.Reviews.Navigate(ctx, adminA, 4242)
	require.NoError(t, err)
	assert.Equal(t, ids[1], view.Review.ID)
}

func TestModerationQueue_ResolutionRemovedFromEveryAdmin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	r1, err := env.Reviews.Submit(ctx, SubmitInput{SellerID: 1, BuyerID: 2, Rating: 4})
	require.NoError(t, err)
	r2, err := env.Reviews.Submit(ctx, SubmitInput{SellerID: 1, BuyerID: 3, Rating: 2})
	require.NoError(t, err)

	_, err = env.Reviews.OpenQueue(ctx, adminA)
	require.NoError(t, err)
	_, err = env.Reviews.OpenQueue(ctx, adminB)
	require.NoError(t, err)

	_, err = env.Reviews.Approve(ctx, adminA, r1.ID)
	require.NoError(t, err)

	cursor, err := env.sessions.Moderation(ctx, adminB)
	require.NoError(t, err)
	assert.Equal(t, []int64{r2.ID}, cursor.IDs)

	// a stale decision from the other admin is a harmless no-op
	view, err := env.Reviews.Reject(ctx, adminB, r1.ID)
	require.NoError(t, err)
	assert.True(t, view.Stale)
	assert.Equal(t, r2.ID, view.Review.ID)

	rating, err := env.Reviews.SellerRating(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, rating.Count)
}

func TestModerationQueue_EmptyAndForbidden(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.Reviews.OpenQueue(ctx, adminA)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.Reviews.OpenQueue(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = env.Reviews.Approve(ctx, 1, 1)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRequestEvidence_KeepsReviewPending(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	rv, err := env.Reviews.Submit(ctx, SubmitInput{SellerID: 1, BuyerID: 2, Rating: 1, Comment: "scam"})
	require.NoError(t, err)
	_, err = env.Reviews.OpenQueue(ctx, adminA)
	require.NoError(t, err)

	view, err := env.Reviews.RequestEvidence(ctx, adminA, rv.ID, "Please send a screenshot")
	require.NoError(t, err)
	assert.Equal(t, rv.ID, view.Review.ID)

	msgs := env.sender.to(2)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Please send a screenshot")

	stored, err := env.reviews.GetByID(ctx, rv.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsModerated)

	_, err = env.Reviews.RequestEvidence(ctx, adminA, rv.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
