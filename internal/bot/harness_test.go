package bot

import (
	"context"
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
	"github.com/gget5897-gif/brainrot-bot/internal/usecase"
	"github.com/stretchr/testify/require"
)

const (
	admin  int64 = 9001
	seller int64 = 100
	buyer  int64 = 200
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
	mu       sync.Mutex
	msgs     []domain.Message
	answered []string
}

func (s *recordingSender) Send(_ context.Context, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *recordingSender) AnswerCallback(_ context.Context, callbackID, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answered = append(s.answered, callbackID)
	return nil
}

func (s *recordingSender) to(chatID int64) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Message
	for _, m := range s.msgs {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

// last returns the newest message sent to chatID.
func (s *recordingSender) last(t *testing.T, chatID int64) domain.Message {
	t.Helper()
	msgs := s.to(chatID)
	require.NotEmpty(t, msgs, "no message sent to %d", chatID)
	return msgs[len(msgs)-1]
}

// joined concatenates every text sent to chatID, for substring checks.
func (s *recordingSender) joined(chatID int64) string {
	var b strings.Builder
	for _, m := range s.to(chatID) {
		b.WriteString(m.Text)
		b.WriteString("\n---\n")
	}
	return b.String()
}

func (s *recordingSender) reset() {
	s.mu.Lock()
	s.msgs = nil
	s.mu.Unlock()
}

type harness struct {
	bot      *Bot
	uc       *usecase.Usecases
	clock    *fakeClock
	sender   *recordingSender
	sessions *memory.Store
	metrics  *metrics.MetricsManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.NewNop()
	db, err := sqldb.Connect(context.Background(), filepath.Join(t.TempDir(), "bot.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &harness{
		clock:    &fakeClock{now: t0},
		sender:   &recordingSender{},
		sessions: memory.NewStore(),
		metrics:  metrics.NewNopMetricsManager(),
	}
	h.uc = usecase.New(usecase.Deps{
		Listings: sqldb.NewListingRepository(db, log),
		Users:    sqldb.NewUserRepository(db, log),
		Reviews:  sqldb.NewReviewRepository(db, log),
		Actions:  sqldb.NewAdminActionRepository(db, log),
		Sessions: h.sessions,
		Sender:   h.sender,
		Metrics:  h.metrics,
		Admins:   usecase.NewAdminSet([]int64{admin}),
		Clock:    h.clock.Now,
		Logger:   log,
	}, usecase.DefaultSettings())
	h.bot = New(Config{
		Usecases: h.uc,
		Sender:   h.sender,
		Sessions: h.sessions,
		Metrics:  h.metrics,
		Clock:    h.clock.Now,
		Logger:   log,
	})
	return h
}

func profile(id int64) domain.Profile {
	return domain.Profile{ID: id, Username: "user" + itoa(id), FirstName: "User"}
}

func (h *harness) cmd(from int64, command, args string) {
	h.bot.Dispatch(context.Background(), Event{Kind: EventCommand, From: profile(from), Command: command, Args: args})
}

func (h *harness) text(from int64, text string) {
	h.bot.Dispatch(context.Background(), Event{Kind: EventText, From: profile(from), Text: text})
}

func (h *harness) press(from int64, data string) {
	h.bot.Dispatch(context.Background(), Event{Kind: EventCallback, From: profile(from), CallbackID: "cb-" + data, Data: data})
}

// addListing walks the add-listing form.
func (h *harness) addListing(from int64, title, description, price, contact string) {
	h.text(from, btnAdd)
	h.text(from, title)
	h.text(from, description)
	h.text(from, price)
	h.text(from, contact)
}
