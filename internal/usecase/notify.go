package usecase

import (
	"context"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/metrics"
	"go.uber.org/zap"
)

// Notification kinds, used as a metric label and log field.
const (
	KindExpiryPrompt    = "expiry_prompt"
	KindRelevancePrompt = "relevance_prompt"
	KindListingSold     = "listing_sold"
	KindListingRemoved  = "listing_removed"
	KindReviewPending   = "review_pending"
	KindReviewApproved  = "review_approved"
	KindReviewRejected  = "review_rejected"
	KindEvidence        = "evidence_request"
	KindBan             = "ban"
	KindUnban           = "unban"
)

// Delivery is the outcome of one notification.
type Delivery struct {
	UserID int64
	Kind   string
	Err    error
}

func (d Delivery) OK() bool { return d.Err == nil }

// Notifier sends fire-and-forget notifications. Failures are logged and
// counted but never returned as errors to the caller's main path.
type Notifier struct {
	sender  domain.Sender
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

func NewNotifier(sender domain.Sender, m *metrics.MetricsManager, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, metrics: m, logger: log.Named("Notifier")}
}

func (n *Notifier) Notify(ctx context.Context, kind string, userID int64, text string, markup *domain.Markup) Delivery {
	d := Delivery{UserID: userID, Kind: kind}
	if n.sender == nil {
		return d
	}
	d.Err = n.sender.Send(ctx, domain.Message{ChatID: userID, Text: text, Markup: markup})
	if d.Err != nil {
		n.logger.Warn("Notification not delivered",
			zap.String("kind", kind), zap.Int64("recipient", userID), zap.Error(d.Err))
		if n.metrics != nil {
			n.metrics.NotificationsFailed.WithLabelValues(kind).Inc()
		}
	}
	return d
}

// NotifyAll sends the same text to every recipient; one failure does not
// stop the others.
func (n *Notifier) NotifyAll(ctx context.Context, kind string, userIDs []int64, text string, markup *domain.Markup) []Delivery {
	out := make([]Delivery, 0, len(userIDs))
	for _, id := range userIDs {
		out = append(out, n.Notify(ctx, kind, id, text, markup))
	}
	return out
}
