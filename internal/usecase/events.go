package usecase

import (
	"context"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"go.uber.org/zap"
)

const (
	SubjectListingCreated  = "marketplace.listing.created"
	SubjectListingDeleted  = "marketplace.listing.deleted"
	SubjectListingRenewed  = "marketplace.listing.renewed"
	SubjectReviewSubmitted = "marketplace.review.submitted"
	SubjectReviewModerated = "marketplace.review.moderated"
	SubjectUserModerated   = "marketplace.user.moderated"
)

type ListingEvent struct {
	ListingID int64     `json:"listing_id"`
	SellerID  int64     `json:"seller_id"`
	Title     string    `json:"title,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	At        time.Time `json:"at"`
}

type ReviewEvent struct {
	ReviewID int64     `json:"review_id"`
	SellerID int64     `json:"seller_id"`
	BuyerID  int64     `json:"buyer_id"`
	Rating   int       `json:"rating"`
	Decision string    `json:"decision,omitempty"`
	AdminID  int64     `json:"admin_id,omitempty"`
	At       time.Time `json:"at"`
}

type UserEvent struct {
	UserID  int64     `json:"user_id"`
	AdminID int64     `json:"admin_id"`
	Action  string    `json:"action"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

// publish is best effort: the state change has already happened.
func publish(ctx context.Context, p EventPublisher, log *logger.Logger, subject string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, data); err != nil {
		log.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

// alert is best effort like publish.
func alert(ctx context.Context, a Alerter, log *logger.Logger, subject, body string) {
	if a == nil {
		return
	}
	if err := a.Alert(ctx, subject, body); err != nil {
		log.Warn("Failed to send admin alert", zap.String("subject", subject), zap.Error(err))
	}
}
