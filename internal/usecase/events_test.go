package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, subject string, data any) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type mockAlerter struct {
	mock.Mock
}

func (m *mockAlerter) Alert(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

func TestListingLifecycle_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	pub := new(mockPublisher)
	alerter := new(mockAlerter)

	d := Deps{
		Listings: env.listings, Users: env.users, Reviews: env.reviews, Actions: env.actions,
		Sessions: env.sessions, Sender: env.sender, Publisher: pub, Alerter: alerter,
		Metrics: env.metrics, Admins: NewAdminSet([]int64{adminA}), Clock: env.clock.Now, Logger: logger.NewNop(),
	}
	uc := New(d, DefaultSettings())

	pub.On("Publish", mock.Anything, SubjectListingCreated, mock.MatchedBy(func(e ListingEvent) bool {
		return e.SellerID == 1 && e.Title == "Sword" && e.ExpiresAt.Equal(t0.Add(DefaultSettings().ListingTTL))
	})).Return(nil).Once()
	pub.On("Publish", mock.Anything, SubjectListingDeleted, mock.MatchedBy(func(e ListingEvent) bool {
		return e.Reason == DeletedSold
	})).Return(errors.New("nats: connection closed")).Once()
	alerter.On("Alert", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil).Once()

	res, err := uc.Listings.Create(ctx, CreateInput{SellerID: 1, Title: "Sword", Contact: "@seller"})
	require.NoError(t, err)
	assert.Equal(t, "seller", res.Listing.Contact)

	// A failed publish is logged; the sale still goes through.
	_, err = uc.Lifecycle.MarkSold(ctx, 1, res.Listing.ID)
	require.NoError(t, err)
	assert.Len(t, env.sender.to(adminA), 1)

	pub.AssertExpectations(t)
	alerter.AssertExpectations(t)
}
