package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/metrics"
	"go.uber.org/zap"
)

// QueueView is what an admin sees in the moderation queue.
type QueueView struct {
	Review *domain.Review
	// Index is 0-based within the admin's cursor.
	Index   int
	Total   int
	PrevID  int64
	NextID  int64
	HasPrev bool
	HasNext bool
	// Done means the admin's cursor is empty.
	Done bool
	// Stale is set when the resolved review had already been handled,
	// typically by another admin.
	Stale bool
}

// ReviewUsecase implements review submission, seller ratings and the
// per-admin moderation queue.
type ReviewUsecase struct {
	reviews   domain.ReviewRepository
	users     domain.UserRepository
	actions   domain.AdminActionRepository
	sessions  domain.SessionStore
	notifier  *Notifier
	publisher EventPublisher
	alerter   Alerter
	metrics   *metrics.MetricsManager
	admins    AdminSet
	now       Clock
	logger    *logger.Logger
}

func NewReviewUsecase(d Deps, notifier *Notifier) *ReviewUsecase {
	return &ReviewUsecase{
		reviews:   d.Reviews,
		users:     d.Users,
		actions:   d.Actions,
		sessions:  d.Sessions,
		notifier:  notifier,
		publisher: d.Publisher,
		alerter:   d.Alerter,
		metrics:   d.Metrics,
		admins:    d.Admins,
		now:       d.clock(),
		logger:    d.Logger.Named("ReviewUsecase"),
	}
}

// SubmitInput is a completed review form.
type SubmitInput struct {
	SellerID  int64
	BuyerID   int64
	ListingID *int64
	Rating    int
	Comment   string
}

// Submit stores a pending review and notifies every admin. Invalid
// ratings never reach storage.
func (uc *ReviewUsecase) Submit(ctx context.Context, in SubmitInput) (*domain.Review, error) {
	rv, err := domain.NewReview(in.SellerID, in.BuyerID, in.ListingID, in.Rating, in.Comment, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.reviews.Create(ctx, rv); err != nil {
		uc.logger.Error("Failed to save review", zap.Int64("seller_id", in.SellerID), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("Review submitted", zap.Int64("review_id", rv.ID), zap.Int64("seller_id", rv.SellerID), zap.Int("rating", rv.Rating))
	if uc.metrics != nil {
		uc.metrics.ReviewsSubmittedTotal.Inc()
	}

	text := fmt.Sprintf("📝 New review #%d awaits moderation.\nSeller: %d\nRating: %d/5\nComment: %s",
		rv.ID, rv.SellerID, rv.Rating, orDash(rv.Comment))
	markup := &domain.Markup{Inline: [][]domain.Button{{domain.InlineButton("🔍 Open", domain.CbModShow, rv.ID)}}}
	uc.notifier.NotifyAll(ctx, KindReviewPending, uc.admins.IDs(), text, markup)
	alert(ctx, uc.alerter, uc.logger, fmt.Sprintf("Review #%d pending moderation", rv.ID), text)
	publish(ctx, uc.publisher, uc.logger, SubjectReviewSubmitted, ReviewEvent{
		ReviewID: rv.ID, SellerID: rv.SellerID, BuyerID: rv.BuyerID, Rating: rv.Rating, At: rv.CreatedAt,
	})
	return rv, nil
}

// SellerRating aggregates approved reviews only.
func (uc *ReviewUsecase) SellerRating(ctx context.Context, sellerID int64) (domain.Rating, error) {
	return uc.reviews.SellerRating(ctx, sellerID)
}

// OpenQueue snapshots the pending reviews into the admin's cursor.
func (uc *ReviewUsecase) OpenQueue(ctx context.Context, adminID int64) (*QueueView, error) {
	if err := uc.requireAdmin(adminID); err != nil {
		return nil, err
	}
	ids, err := uc.reviews.ListPendingIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		_ = uc.sessions.SetModeration(ctx, adminID, nil)
		return nil, domain.ErrNotFound
	}
	cursor := &domain.ModerationCursor{IDs: ids}
	return uc.render(ctx, adminID, cursor)
}

// Navigate moves the admin's cursor to reviewID. If the id is not in the
// snapshot the cursor stays where it is. Opening from a notification with
// no cursor yet opens the queue first.
func (uc *ReviewUsecase) Navigate(ctx context.Context, adminID, reviewID int64) (*QueueView, error) {
	if err := uc.requireAdmin(adminID); err != nil {
		return nil, err
	}
	cursor, err := uc.sessions.Moderation(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if cursor == nil || cursor.Len() == 0 {
		ids, err := uc.reviews.ListPendingIDs(ctx)
		if err != nil {
			return nil, err
		}
		cursor = &domain.ModerationCursor{IDs: ids}
	}
	if cursor.Len() == 0 {
		return nil, domain.ErrNotFound
	}
	cursor.Seek(reviewID)
	return uc.render(ctx, adminID, cursor)
}

// Approve makes the review count towards the seller's rating and tells
// the seller. Approving an already-resolved review is a no-op.
func (uc *ReviewUsecase) Approve(ctx context.Context, adminID, reviewID int64) (*QueueView, error) {
	if err := uc.requireAdmin(adminID); err != nil {
		return nil, err
	}
	rv, err := uc.reviews.GetByID(ctx, reviewID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	stale := rv == nil || rv.IsModerated
	if !stale {
		ok, err := uc.reviews.Approve(ctx, reviewID)
		if err != nil {
			return nil, err
		}
		stale = !ok
	}
	if !stale {
		uc.resolved(ctx, adminID, rv, "approved", domain.ActionApproveReview)
		uc.notifier.Notify(ctx, KindReviewApproved, rv.SellerID,
			fmt.Sprintf("⭐ You received a new review: %d/5\n💬 %s", rv.Rating, orDash(rv.Comment)), nil)
	}
	return uc.afterDecision(ctx, adminID, reviewID, stale)
}

// Reject deletes the review permanently and tells the buyer.
func (uc *ReviewUsecase) Reject(ctx context.Context, adminID, reviewID int64) (*QueueView, error) {
	if err := uc.requireAdmin(adminID); err != nil {
		return nil, err
	}
	rv, err := uc.reviews.GetByID(ctx, reviewID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	stale := rv == nil || rv.IsModerated
	if !stale {
		ok, err := uc.reviews.Delete(ctx, reviewID)
		if err != nil {
			return nil, err
		}
		stale = !ok
	}
	if !stale {
		uc.resolved(ctx, adminID, rv, "rejected", domain.ActionRejectReview)
		uc.notifier.Notify(ctx, KindReviewRejected, rv.BuyerID,
			fmt.Sprintf("❌ Your review of seller %d was rejected by moderation.", rv.SellerID), nil)
	}
	return uc.afterDecision(ctx, adminID, reviewID, stale)
}

// RequestEvidence forwards an admin's question to the review's author.
// The review stays pending.
func (uc *ReviewUsecase) RequestEvidence(ctx context.Context, adminID, reviewID int64, text string) (*QueueView, error) {
	if err := uc.requireAdmin(adminID); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", domain.ErrValidation)
	}
	rv, err := uc.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	d := uc.notifier.Notify(ctx, KindEvidence, rv.BuyerID,
		fmt.Sprintf("📎 A moderator has a question about your review #%d of seller %d:\n\n%s", rv.ID, rv.SellerID, text), nil)
	if !d.OK() {
		return nil, d.Err
	}
	return uc.Navigate(ctx, adminID, reviewID)
}

// CloseQueue drops the admin's cursor.
func (uc *ReviewUsecase) CloseQueue(ctx context.Context, adminID int64) error {
	return uc.sessions.SetModeration(ctx, adminID, nil)
}

func (uc *ReviewUsecase) resolved(ctx context.Context, adminID int64, rv *domain.Review, decision string, action domain.ActionType) {
	uc.logger.Info("Review moderated", zap.Int64("review_id", rv.ID), zap.String("decision", decision), zap.Int64("admin_id", adminID))
	if uc.metrics != nil {
		uc.metrics.ReviewsModeratedTotal.WithLabelValues(decision).Inc()
	}
	recordAction(ctx, uc.actions, uc.logger, &domain.AdminAction{
		AdminID:    adminID,
		ActionType: action,
		TargetID:   &rv.ID,
		TargetType: domain.TargetReview,
		Details:    fmt.Sprintf("seller=%d buyer=%d rating=%d", rv.SellerID, rv.BuyerID, rv.Rating),
		CreatedAt:  uc.now(),
	})
	publish(ctx, uc.publisher, uc.logger, SubjectReviewModerated, ReviewEvent{
		ReviewID: rv.ID, SellerID: rv.SellerID, BuyerID: rv.BuyerID, Rating: rv.Rating,
		Decision: decision, AdminID: adminID, At: uc.now(),
	})
}

// afterDecision removes the review from every admin's cursor and renders
// the acting admin's next item.
func (uc *ReviewUsecase) afterDecision(ctx context.Context, adminID, reviewID int64, stale bool) (*QueueView, error) {
	var own *domain.ModerationCursor
	for _, id := range uc.admins.IDs() {
		cursor, err := uc.sessions.Moderation(ctx, id)
		if err != nil {
			uc.logger.Warn("Failed to load moderation cursor", zap.Int64("admin_id", id), zap.Error(err))
			continue
		}
		if cursor == nil {
			continue
		}
		if cursor.Remove(reviewID) {
			if err := uc.sessions.SetModeration(ctx, id, cursor); err != nil {
				uc.logger.Warn("Failed to save moderation cursor", zap.Int64("admin_id", id), zap.Error(err))
			}
		}
		if id == adminID {
			own = cursor
		}
	}
	if own == nil || own.Len() == 0 {
		return &QueueView{Done: true, Stale: stale}, nil
	}
	view, err := uc.render(ctx, adminID, own)
	if err != nil {
		return nil, err
	}
	view.Stale = stale
	return view, nil
}

// render loads the review under the cursor, silently dropping ids that
// no longer exist, and saves the cursor.
func (uc *ReviewUsecase) render(ctx context.Context, adminID int64, cursor *domain.ModerationCursor) (*QueueView, error) {
	for {
		id, ok := cursor.Current()
		if !ok {
			if err := uc.sessions.SetModeration(ctx, adminID, cursor); err != nil {
				return nil, err
			}
			return &QueueView{Done: true}, nil
		}
		rv, err := uc.reviews.GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && rv.IsModerated) {
			cursor.Remove(id)
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := uc.sessions.SetModeration(ctx, adminID, cursor); err != nil {
			return nil, err
		}
		view := &QueueView{Review: rv, Index: cursor.Index, Total: cursor.Len()}
		view.PrevID, view.HasPrev = cursor.Prev()
		view.NextID, view.HasNext = cursor.Next()
		return view, nil
	}
}

func (uc *ReviewUsecase) requireAdmin(id int64) error {
	if !uc.admins.IsAdmin(id) {
		return fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
