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

// Deletion reasons, used for metrics and events.
const (
	DeletedByOwner = "owner"
	DeletedSold    = "sold"
	DeletedByAdmin = "admin"
)

// ListingUsecase implements the listing store operations with ownership
// checks, the creation gate and owner/admin notifications.
type ListingUsecase struct {
	listings  domain.ListingRepository
	actions   domain.AdminActionRepository
	gate      *Gate
	notifier  *Notifier
	publisher EventPublisher
	alerter   Alerter
	metrics   *metrics.MetricsManager
	admins    AdminSet
	ttl       time.Duration
	locks     *userLocks
	now       Clock
	logger    *logger.Logger
}

func NewListingUsecase(d Deps, notifier *Notifier, gate *Gate, ttl time.Duration) *ListingUsecase {
	return &ListingUsecase{
		listings:  d.Listings,
		actions:   d.Actions,
		gate:      gate,
		notifier:  notifier,
		publisher: d.Publisher,
		alerter:   d.Alerter,
		metrics:   d.Metrics,
		admins:    d.Admins,
		ttl:       ttl,
		locks:     newUserLocks(),
		now:       d.clock(),
		logger:    d.Logger.Named("ListingUsecase"),
	}
}

// CreateInput is the completed add-listing form.
type CreateInput struct {
	SellerID    int64
	Title       string
	Description string
	Price       string
	Contact     string
}

// CreateResult carries the stored listing and the allowance left after it.
type CreateResult struct {
	Listing   *domain.Listing
	Allowance Allowance
}

// Create runs the gate and the insert under the seller's lock, so two
// concurrent attempts cannot both pass the quota check.
func (uc *ListingUsecase) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	unlock := uc.locks.Lock(in.SellerID)
	defer unlock()

	allowance, err := uc.gate.CanCreate(ctx, in.SellerID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	listing, err := domain.NewListing(in.SellerID, in.Title, in.Description, in.Price, in.Contact, now, uc.ttl)
	if err != nil {
		return nil, err
	}
	if err := uc.listings.Create(ctx, listing); err != nil {
		uc.logger.Error("Failed to save listing", zap.Int64("seller_id", in.SellerID), zap.Error(err))
		return nil, err
	}
	if !allowance.Unlimited {
		allowance.Count++
	}

	uc.logger.Info("Listing created", zap.Int64("listing_id", listing.ID), zap.Int64("seller_id", in.SellerID))
	if uc.metrics != nil {
		uc.metrics.ListingsCreatedTotal.Inc()
	}
	publish(ctx, uc.publisher, uc.logger, SubjectListingCreated, ListingEvent{
		ListingID: listing.ID, SellerID: listing.SellerID, Title: listing.Title, ExpiresAt: listing.ExpiresAt, At: now,
	})
	return &CreateResult{Listing: listing, Allowance: allowance}, nil
}

func (uc *ListingUsecase) Get(ctx context.Context, id int64) (*domain.Listing, error) {
	return uc.listings.GetByID(ctx, id)
}

// ListBySeller returns the seller's listings, newest first, expired included.
func (uc *ListingUsecase) ListBySeller(ctx context.Context, sellerID int64) ([]*domain.Listing, error) {
	return uc.listings.ListBySeller(ctx, sellerID)
}

func (uc *ListingUsecase) CountActive(ctx context.Context) (int, error) {
	n, err := uc.listings.CountActive(ctx, uc.now())
	if err == nil && uc.metrics != nil {
		uc.metrics.ActiveListingsLastCheck.Set(float64(n))
	}
	return n, err
}

// GetOwned returns the listing if actorID owns it or is an admin.
func (uc *ListingUsecase) GetOwned(ctx context.Context, actorID, id int64) (*domain.Listing, error) {
	l, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.SellerID != actorID && !uc.admins.IsAdmin(actorID) {
		return nil, fmt.Errorf("%w: listing %d belongs to another user", domain.ErrForbidden, id)
	}
	return l, nil
}

// UpdateField changes one field; admins bypass the ownership check.
func (uc *ListingUsecase) UpdateField(ctx context.Context, actorID, id int64, field domain.ListingField, value string) (*domain.Listing, error) {
	if !field.IsValid() {
		return nil, fmt.Errorf("%w: unknown field %q", domain.ErrValidation, field)
	}
	if _, err := uc.GetOwned(ctx, actorID, id); err != nil {
		return nil, err
	}
	if field == domain.FieldContact {
		value = domain.NormalizeContact(value)
	}
	if err := uc.listings.UpdateField(ctx, id, field, value); err != nil {
		return nil, err
	}
	uc.logger.Info("Listing updated", zap.Int64("listing_id", id), zap.String("field", string(field)), zap.Int64("actor_id", actorID))
	return uc.listings.GetByID(ctx, id)
}

// Delete removes the owner's own listing.
func (uc *ListingUsecase) Delete(ctx context.Context, actorID, id int64) (*domain.Listing, error) {
	l, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.SellerID != actorID {
		return nil, fmt.Errorf("%w: listing %d belongs to another user", domain.ErrForbidden, id)
	}
	if err := uc.remove(ctx, l, DeletedByOwner, ""); err != nil {
		return nil, err
	}
	return l, nil
}

// MarkSold deletes the owner's listing after a sale and tells the admins.
func (uc *ListingUsecase) MarkSold(ctx context.Context, actorID, id int64) (*domain.Listing, error) {
	l, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.SellerID != actorID {
		return nil, fmt.Errorf("%w: listing %d belongs to another user", domain.ErrForbidden, id)
	}
	if err := uc.remove(ctx, l, DeletedSold, ""); err != nil {
		return nil, err
	}
	text := fmt.Sprintf("✅ Listing #%d %q was marked as sold by its owner (id %d).", l.ID, l.Title, l.SellerID)
	uc.notifier.NotifyAll(ctx, KindListingSold, uc.admins.IDs(), text, nil)
	alert(ctx, uc.alerter, uc.logger, fmt.Sprintf("Listing #%d sold", l.ID), text)
	return l, nil
}

// AdminDelete removes any listing, records the reason in the audit log
// and tells the owner why.
func (uc *ListingUsecase) AdminDelete(ctx context.Context, adminID, id int64, reason string) (*domain.Listing, error) {
	if !uc.admins.IsAdmin(adminID) {
		return nil, fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: a reason is required", domain.ErrValidation)
	}
	l, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.remove(ctx, l, DeletedByAdmin, reason); err != nil {
		return nil, err
	}
	recordAction(ctx, uc.actions, uc.logger, &domain.AdminAction{
		AdminID:    adminID,
		ActionType: domain.ActionDeleteListing,
		TargetID:   &l.ID,
		TargetType: domain.TargetListing,
		Reason:     reason,
		Details:    l.Title,
		CreatedAt:  uc.now(),
	})
	uc.notifier.Notify(ctx, KindListingRemoved, l.SellerID,
		fmt.Sprintf("🗑️ Your listing #%d %q was removed by an administrator.\nReason: %s", l.ID, l.Title, reason), nil)
	return l, nil
}

func (uc *ListingUsecase) remove(ctx context.Context, l *domain.Listing, why, reason string) error {
	existed, err := uc.listings.Delete(ctx, l.ID)
	if err != nil {
		uc.logger.Error("Failed to delete listing", zap.Int64("listing_id", l.ID), zap.Error(err))
		return err
	}
	if !existed {
		return domain.ErrNotFound
	}
	uc.logger.Info("Listing deleted", zap.Int64("listing_id", l.ID), zap.String("why", why))
	if uc.metrics != nil {
		uc.metrics.ListingsDeletedTotal.WithLabelValues(why).Inc()
	}
	publish(ctx, uc.publisher, uc.logger, SubjectListingDeleted, ListingEvent{
		ListingID: l.ID, SellerID: l.SellerID, Title: l.Title, Reason: why, At: uc.now(),
	})
	return nil
}
