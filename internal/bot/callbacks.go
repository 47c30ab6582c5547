package bot

import (
	"context"
	"fmt"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/usecase"
	"go.uber.org/zap"
)

func (b *Bot) onCallback(ctx context.Context, ev Event) error {
	cb, err := domain.ParseCallback(ev.Data)
	if err != nil {
		b.logger.Warn("Unparseable callback", zap.String("data", ev.Data), zap.Error(err))
		b.answer(ctx, ev, "❌ Unknown action")
		return nil
	}
	b.answer(ctx, ev, "")

	user := ev.UserID()
	switch cb.Action {
	case domain.CbRenew:
		l, err := b.uc.Lifecycle.Renew(ctx, user, cb.ID)
		if err != nil {
			return err
		}
		b.reply(ctx, ev, fmt.Sprintf("🔄 Listing #%d %q renewed until %s.", l.ID, l.Title, l.ExpiresAt.UTC().Format(timeLayout)), nil)

	case domain.CbStillSelling:
		l, err := b.uc.Lifecycle.ConfirmRelevant(ctx, user, cb.ID)
		if err != nil {
			return err
		}
		b.reply(ctx, ev, fmt.Sprintf("👍 Listing #%d %q stays up.", l.ID, l.Title), nil)

	case domain.CbSold:
		l, err := b.uc.Lifecycle.MarkSold(ctx, user, cb.ID)
		if err != nil {
			return err
		}
		b.reply(ctx, ev, fmt.Sprintf("💸 Listing #%d %q marked as sold and removed. Congratulations!", l.ID, l.Title), nil)

	case domain.CbEdit:
		l, err := b.uc.Listings.GetOwned(ctx, user, cb.ID)
		if err != nil {
			return err
		}
		return b.setForm(ctx, ev, domain.FormState{Kind: domain.FormEditField, ListingID: l.ID},
			fmt.Sprintf("✏️ Editing listing #%d\n\n%s\n\nChoose what to change:", l.ID, renderListing(l)), editFieldMenu())

	case domain.CbDelete:
		l, err := b.uc.Listings.Delete(ctx, user, cb.ID)
		if err != nil {
			return err
		}
		b.reply(ctx, ev, fmt.Sprintf("✅ Listing deleted: %s", l.Title), nil)
		return b.manageListings(ctx, ev)

	case domain.CbBackToSeller:
		return b.sellerHome(ctx, ev)

	case domain.CbReview:
		if cb.ID == user {
			return fmt.Errorf("%w: you cannot review yourself", domain.ErrValidation)
		}
		return b.setForm(ctx, ev, domain.FormState{Kind: domain.FormReviewRating, SellerID: cb.ID, ListingID: cb.Arg},
			"⭐ Rate the seller from 1 to 5:", ratingMenu())

	case domain.CbModShow:
		view, err := b.uc.Reviews.Navigate(ctx, user, cb.ID)
		if err != nil {
			return err
		}
		b.reply(ctx, ev, renderQueueView(view), queueMarkup(view))

	case domain.CbApprove:
		view, err := b.uc.Reviews.Approve(ctx, user, cb.ID)
		if err != nil {
			return err
		}
		b.decision(ctx, ev, "✅ Review #"+itoa(cb.ID)+" approved.", view)

	case domain.CbReject:
		view, err := b.uc.Reviews.Reject(ctx, user, cb.ID)
		if err != nil {
			return err
		}
		b.decision(ctx, ev, "❌ Review #"+itoa(cb.ID)+" rejected and deleted.", view)

	case domain.CbEvidence:
		if !b.isAdmin(user) {
			return fmt.Errorf("%w: admin only", domain.ErrForbidden)
		}
		return b.setForm(ctx, ev, domain.FormState{Kind: domain.FormEvidence, ReviewID: cb.ID},
			"✍️ Write the question for the buyer of review #"+itoa(cb.ID)+":", cancelMenu())

	case domain.CbModClose:
		if !b.isAdmin(user) {
			return fmt.Errorf("%w: admin only", domain.ErrForbidden)
		}
		if err := b.uc.Reviews.CloseQueue(ctx, user); err != nil {
			return err
		}
		b.reply(ctx, ev, "✖️ Moderation queue closed.", adminMenu())

	default:
		b.logger.Warn("Unhandled callback action", zap.String("action", string(cb.Action)))
		b.reply(ctx, ev, "🤔 This button is no longer supported.", nil)
	}
	return nil
}

func (b *Bot) decision(ctx context.Context, ev Event, done string, view *usecase.QueueView) {
	if !view.Stale {
		b.reply(ctx, ev, done, nil)
	}
	b.reply(ctx, ev, renderQueueView(view), queueMarkup(view))
}
