package usecase

import (
	"context"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/metrics"
)

// EventPublisher emits domain events. The NATS publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data any) error
}

// Alerter sends out-of-band alerts to administrators, e.g. by e-mail.
type Alerter interface {
	Alert(ctx context.Context, subject, body string) error
}

// Clock returns the current time.
type Clock func() time.Time

// Settings are the marketplace rules.
type Settings struct {
	ListingTTL          time.Duration
	RenewalCooldown     time.Duration
	ExpiryWarningWindow time.Duration
	RelevanceMaxAge     time.Duration
	DailyListingLimit   int
}

// DefaultSettings returns 3-day validity and cooldown, a 6h warning
// window and 6 listings per day.
func DefaultSettings() Settings {
	return Settings{
		ListingTTL:          72 * time.Hour,
		RenewalCooldown:     72 * time.Hour,
		ExpiryWarningWindow: 6 * time.Hour,
		RelevanceMaxAge:     72 * time.Hour,
		DailyListingLimit:   6,
	}
}

// Deps are the collaborators shared by the usecases. Publisher and
// Alerter may be nil; Clock defaults to time.Now.
type Deps struct {
	Listings  domain.ListingRepository
	Users     domain.UserRepository
	Reviews   domain.ReviewRepository
	Actions   domain.AdminActionRepository
	Sessions  domain.SessionStore
	Sender    domain.Sender
	Publisher EventPublisher
	Alerter   Alerter
	Metrics   *metrics.MetricsManager
	Admins    AdminSet
	Clock     Clock
	Logger    *logger.Logger
}

func (d Deps) clock() Clock {
	if d.Clock == nil {
		return time.Now
	}
	return d.Clock
}

// Usecases bundles every usecase built from one Deps.
type Usecases struct {
	Users     *UserUsecase
	Gate      *Gate
	Listings  *ListingUsecase
	Browse    *BrowseUsecase
	Lifecycle *LifecycleUsecase
	Reviews   *ReviewUsecase
	Admin     *AdminUsecase
	Notifier  *Notifier
}

// New wires all usecases together.
func New(d Deps, s Settings) *Usecases {
	notifier := NewNotifier(d.Sender, d.Metrics, d.Logger)
	gate := NewGate(d, s.DailyListingLimit)
	listings := NewListingUsecase(d, notifier, gate, s.ListingTTL)
	return &Usecases{
		Users:     NewUserUsecase(d),
		Gate:      gate,
		Listings:  listings,
		Browse:    NewBrowseUsecase(d),
		Lifecycle: NewLifecycleUsecase(d, notifier, listings, s),
		Reviews:   NewReviewUsecase(d, notifier),
		Admin:     NewAdminUsecase(d, notifier, listings),
		Notifier:  notifier,
	}
}
