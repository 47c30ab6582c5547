package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/adapter/repository/sqldb"
	"github.com/gget5897-gif/brainrot-bot/internal/adapter/session/memory"
	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/metrics"
	"github.com/stretchr/testify/require"
)

const (
	adminA int64 = 9001
	adminB int64 = 9002
)

var t0 = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []domain.Message
	fail map[int64]bool
}

func (s *recordingSender) Send(_ context.Context, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[msg.ChatID] {
		return errors.New("bot was blocked by the user")
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *recordingSender) AnswerCallback(context.Context, string, string) error { return nil }

// to returns the texts delivered to chatID.
func (s *recordingSender) to(chatID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, m := range s.msgs {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

func (s *recordingSender) reset() {
	s.mu.Lock()
	s.msgs = nil
	s.mu.Unlock()
}

type testEnv struct {
	*Usecases
	clock    *fakeClock
	sender   *recordingSender
	sessions *memory.Store
	listings *sqldb.ListingRepository
	users    *sqldb.UserRepository
	reviews  *sqldb.ReviewRepository
	actions  *sqldb.AdminActionRepository
	metrics  *metrics.MetricsManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewNop()
	db, err := sqldb.Connect(context.Background(), filepath.Join(t.TempDir(), "uc.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		clock:    &fakeClock{now: t0},
		sender:   &recordingSender{fail: map[int64]bool{}},
		sessions: memory.NewStore(),
		listings: sqldb.NewListingRepository(db, log),
		users:    sqldb.NewUserRepository(db, log),
		reviews:  sqldb.NewReviewRepository(db, log),
		actions:  sqldb.NewAdminActionRepository(db, log),
		metrics:  metrics.NewNopMetricsManager(),
	}
	env.Usecases = New(Deps{
		Listings: env.listings,
		Users:    env.users,
		Reviews:  env.reviews,
		Actions:  env.actions,
		Sessions: env.sessions,
		Sender:   env.sender,
		Metrics:  env.metrics,
		Admins:   NewAdminSet([]int64{adminA, adminB}),
		Clock:    env.clock.Now,
		Logger:   log,
	}, DefaultSettings())
	return env
}

func (e *testEnv) user(t *testing.T, id int64) {
	t.Helper()
	_, err := e.Users.Touch(context.Background(), domain.Profile{ID: id, Username: "u" + strings.Repeat("x", int(id%3))})
	require.NoError(t, err)
}

func (e *testEnv) listing(t *testing.T, seller int64, title string) *domain.Listing {
	t.Helper()
	res, err := e.Listings.Create(context.Background(), CreateInput{
		SellerID: seller, Title: title, Description: "desc", Price: "100 Robux", Contact: "seller1",
	})
	require.NoError(t, err)
	return res.Listing
}
