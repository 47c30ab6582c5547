package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/metrics"
	"go.uber.org/zap"
)

// QuotaWindow is the trailing window the daily quota is counted over.
const QuotaWindow = 24 * time.Hour

// Allowance describes what the gate permitted.
type Allowance struct {
	Unlimited bool
	Count     int
	Limit     int
}

// Remaining is the number of listings still allowed in the window.
func (a Allowance) Remaining() int {
	if a.Unlimited || a.Count >= a.Limit {
		return 0
	}
	return a.Limit - a.Count
}

// Gate decides whether a user may create a listing. Ban takes precedence
// over whitelist; the quota is recounted on every call.
type Gate struct {
	users        domain.UserRepository
	listings     domain.ListingRepository
	defaultLimit int
	metrics      *metrics.MetricsManager
	now          Clock
	logger       *logger.Logger
}

func NewGate(d Deps, defaultLimit int) *Gate {
	return &Gate{
		users:        d.Users,
		listings:     d.Listings,
		defaultLimit: defaultLimit,
		metrics:      d.Metrics,
		now:          d.clock(),
		logger:       d.Logger.Named("Gate"),
	}
}

// CanCreate returns *domain.BanError or *domain.QuotaError on denial.
func (g *Gate) CanCreate(ctx context.Context, userID int64) (Allowance, error) {
	user, err := g.user(ctx, userID)
	if err != nil {
		return Allowance{}, err
	}
	if user.IsBanned {
		g.deny("banned", userID)
		return Allowance{}, &domain.BanError{Reason: user.BanReason}
	}
	a, err := g.usage(ctx, user)
	if err != nil {
		return Allowance{}, err
	}
	if !a.Unlimited && a.Count >= a.Limit {
		g.deny("quota", userID)
		return a, &domain.QuotaError{Count: a.Count, Limit: a.Limit}
	}
	return a, nil
}

// Usage reports the user's quota usage without making a decision; the
// seller menu shows it.
func (g *Gate) Usage(ctx context.Context, userID int64) (Allowance, error) {
	user, err := g.user(ctx, userID)
	if err != nil {
		return Allowance{}, err
	}
	return g.usage(ctx, user)
}

func (g *Gate) user(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := g.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.User{ID: userID}, nil
	}
	return user, err
}

func (g *Gate) usage(ctx context.Context, user *domain.User) (Allowance, error) {
	if user.IsWhitelisted {
		return Allowance{Unlimited: true}, nil
	}
	limit := user.EffectiveLimit(g.defaultLimit)
	count, err := g.listings.CountCreatedSince(ctx, user.ID, g.now().Add(-QuotaWindow))
	if err != nil {
		return Allowance{}, err
	}
	return Allowance{Count: count, Limit: limit}, nil
}

func (g *Gate) deny(reason string, userID int64) {
	g.logger.Info("Listing creation denied", zap.Int64("user_id", userID), zap.String("reason", reason))
	if g.metrics != nil {
		g.metrics.GateDeniedTotal.WithLabelValues(reason).Inc()
	}
}
