package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/metrics"
	"go.uber.org/zap"
)

// BatchResult summarises one background pass.
type BatchResult struct {
	Selected int
	Notified int
	Failed   int
}

// LifecycleUsecase drives listing expiry warnings, renewals and the
// periodic "still selling?" check.
type LifecycleUsecase struct {
	listings  domain.ListingRepository
	sales     *ListingUsecase
	notifier  *Notifier
	publisher EventPublisher
	metrics   *metrics.MetricsManager
	settings  Settings
	now       Clock
	logger    *logger.Logger
}

func NewLifecycleUsecase(d Deps, notifier *Notifier, sales *ListingUsecase, s Settings) *LifecycleUsecase {
	return &LifecycleUsecase{
		listings:  d.Listings,
		sales:     sales,
		notifier:  notifier,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		settings:  s,
		now:       d.clock(),
		logger:    d.Logger.Named("LifecycleUsecase"),
	}
}

// NotifyExpiring prompts owners of listings expiring within the warning
// window. A listing is flagged only after a successful send, so an
// unreachable owner is retried on the next pass.
func (uc *LifecycleUsecase) NotifyExpiring(ctx context.Context) (BatchResult, error) {
	now := uc.now()
	due, err := uc.listings.ListExpiring(ctx, now, now.Add(uc.settings.ExpiryWarningWindow))
	if err != nil {
		return BatchResult{}, err
	}
	res := BatchResult{Selected: len(due)}
	for _, l := range due {
		hours := hoursUntil(now, l.ExpiresAt)
		text := fmt.Sprintf("⏳ Your listing #%d %q expires in about %d h.\nRenew it to keep it visible for another %d days.",
			l.ID, l.Title, hours, int(uc.settings.ListingTTL/(24*time.Hour)))
		markup := &domain.Markup{Inline: [][]domain.Button{{domain.InlineButton("🔄 Renew", domain.CbRenew, l.ID)}}}

		if d := uc.notifier.Notify(ctx, KindExpiryPrompt, l.SellerID, text, markup); !d.OK() {
			res.Failed++
			continue
		}
		if err := uc.listings.MarkExpiryNotified(ctx, l.ID); err != nil {
			uc.logger.Error("Failed to flag listing as notified", zap.Int64("listing_id", l.ID), zap.Error(err))
			res.Failed++
			continue
		}
		res.Notified++
	}
	if res.Selected > 0 {
		uc.logger.Info("Expiry pass finished", zap.Int("selected", res.Selected), zap.Int("notified", res.Notified), zap.Int("failed", res.Failed))
	}
	return res, nil
}

// Renew extends the owner's listing by the validity window unless the
// previous renewal is younger than the cooldown.
func (uc *LifecycleUsecase) Renew(ctx context.Context, actorID, id int64) (*domain.Listing, error) {
	l, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.SellerID != actorID {
		return nil, fmt.Errorf("%w: only the owner can renew listing %d", domain.ErrForbidden, id)
	}
	now := uc.now()
	if l.LastExtendedAt != nil {
		if elapsed := now.Sub(*l.LastExtendedAt); elapsed < uc.settings.RenewalCooldown {
			return nil, &domain.CooldownError{Remaining: uc.settings.RenewalCooldown - elapsed}
		}
	}
	expiresAt := now.Add(uc.settings.ListingTTL)
	if err := uc.listings.Renew(ctx, id, expiresAt, now); err != nil {
		return nil, err
	}
	l.ExpiresAt = expiresAt
	l.LastExtendedAt = &now
	l.ExpiryNotified = false

	uc.logger.Info("Listing renewed", zap.Int64("listing_id", id), zap.Time("expires_at", expiresAt))
	if uc.metrics != nil {
		uc.metrics.ListingsRenewedTotal.Inc()
	}
	publish(ctx, uc.publisher, uc.logger, SubjectListingRenewed, ListingEvent{
		ListingID: l.ID, SellerID: l.SellerID, Title: l.Title, ExpiresAt: expiresAt, At: now,
	})
	return l, nil
}

// CheckRelevance asks owners of listings not checked within
// RelevanceMaxAge whether they are still selling. The check time is
// stamped before the prompt is sent so a listing is never re-selected on
// the next pass, even if the prompt fails.
func (uc *LifecycleUsecase) CheckRelevance(ctx context.Context) (BatchResult, error) {
	now := uc.now()
	stale, err := uc.listings.ListUnchecked(ctx, now, now.Add(-uc.settings.RelevanceMaxAge))
	if err != nil {
		return BatchResult{}, err
	}
	res := BatchResult{Selected: len(stale)}
	for _, l := range stale {
		if err := uc.listings.TouchChecked(ctx, l.ID, now); err != nil {
			uc.logger.Error("Failed to stamp relevance check", zap.Int64("listing_id", l.ID), zap.Error(err))
			res.Failed++
			continue
		}
		text := fmt.Sprintf("🤔 Is listing #%d %q still for sale?", l.ID, l.Title)
		markup := &domain.Markup{Inline: [][]domain.Button{{
			domain.InlineButton("✅ Still selling", domain.CbStillSelling, l.ID),
			domain.InlineButton("💸 Sold", domain.CbSold, l.ID),
		}}}
		if d := uc.notifier.Notify(ctx, KindRelevancePrompt, l.SellerID, text, markup); !d.OK() {
			res.Failed++
			continue
		}
		res.Notified++
	}
	if res.Selected > 0 {
		uc.logger.Info("Relevance pass finished", zap.Int("selected", res.Selected), zap.Int("notified", res.Notified), zap.Int("failed", res.Failed))
	}
	return res, nil
}

// ConfirmRelevant is the "still selling" answer. The check was already
// stamped when the prompt went out, so only ownership is verified.
func (uc *LifecycleUsecase) ConfirmRelevant(ctx context.Context, actorID, id int64) (*domain.Listing, error) {
	l, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.SellerID != actorID {
		return nil, fmt.Errorf("%w: listing %d belongs to another user", domain.ErrForbidden, id)
	}
	return l, nil
}

// MarkSold is the "sold" answer: the listing is deleted and admins told.
func (uc *LifecycleUsecase) MarkSold(ctx context.Context, actorID, id int64) (*domain.Listing, error) {
	return uc.sales.MarkSold(ctx, actorID, id)
}

// RenewalAvailableIn reports how long until l may be renewed; zero means now.
func (uc *LifecycleUsecase) RenewalAvailableIn(l *domain.Listing) time.Duration {
	if l.LastExtendedAt == nil {
		return 0
	}
	if wait := uc.settings.RenewalCooldown - uc.now().Sub(*l.LastExtendedAt); wait > 0 {
		return wait
	}
	return 0
}

func hoursUntil(now, t time.Time) int {
	d := t.Sub(now)
	h := int(d / time.Hour)
	if d%time.Hour > 0 {
		h++
	}
	return h
}
