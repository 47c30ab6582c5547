package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/usecase"
)

// setForm stores the next form step and shows its prompt.
func (b *Bot) setForm(ctx context.Context, ev Event, form domain.FormState, prompt string, markup *domain.Markup) error {
	if err := b.sessions.SetForm(ctx, ev.UserID(), form); err != nil {
		return err
	}
	b.reply(ctx, ev, prompt, markup)
	return nil
}

func (b *Bot) clearForm(ctx context.Context, ev Event) error {
	return b.sessions.ClearForm(ctx, ev.UserID())
}

// retry keeps the form where it is and tells the user what was wrong
// with the input.
func (b *Bot) retry(ctx context.Context, ev Event, err error) error {
	if !errors.Is(err, domain.ErrValidation) {
		return err
	}
	b.reply(ctx, ev, errorText(err), nil)
	return nil
}

func (b *Bot) cancelForm(ctx context.Context, ev Event) error {
	form, err := b.sessions.Form(ctx, ev.UserID())
	if err != nil {
		return err
	}
	if err := b.clearForm(ctx, ev); err != nil {
		return err
	}
	markup := mainMenu(b.isAdmin(ev.UserID()))
	if form != nil {
		switch form.Kind {
		case domain.FormAddTitle, domain.FormAddDescription, domain.FormAddPrice, domain.FormAddContact,
			domain.FormEditField, domain.FormEditValue:
			markup = sellerMenu()
		case domain.FormReviewRating, domain.FormReviewComment:
			markup = buyerMenu()
		case domain.FormBanTarget, domain.FormBanReason, domain.FormEvidence:
			markup = adminMenu()
		}
	}
	b.reply(ctx, ev, "❌ Cancelled.", markup)
	return nil
}

func (b *Bot) onFormInput(ctx context.Context, ev Event, form domain.FormState) error {
	text := strings.TrimSpace(ev.Text)
	switch form.Kind {
	case domain.FormAddTitle:
		if err := domain.ValidateTitle(text); err != nil {
			return b.retry(ctx, ev, err)
		}
		form.Kind, form.Title = domain.FormAddDescription, text
		return b.setForm(ctx, ev, form, "📝 Enter a description:", nil)

	case domain.FormAddDescription:
		form.Kind, form.Description = domain.FormAddPrice, text
		return b.setForm(ctx, ev, form, "💰 Enter the price (for example: 100 Robux):", nil)

	case domain.FormAddPrice:
		form.Kind, form.Price = domain.FormAddContact, text
		return b.setForm(ctx, ev, form, "👤 Enter your username for contact (without @):", nil)

	case domain.FormAddContact:
		return b.finishAdd(ctx, ev, form, text)

	case domain.FormEditField:
		field, ok := fieldByLabel(text)
		if !ok {
			b.reply(ctx, ev, "❌ Please choose a field from the list.", editFieldMenu())
			return nil
		}
		l, err := b.uc.Listings.GetOwned(ctx, ev.UserID(), form.ListingID)
		if err != nil {
			_ = b.clearForm(ctx, ev)
			return err
		}
		form.Kind, form.Field = domain.FormEditValue, field
		return b.setForm(ctx, ev, form,
			fmt.Sprintf("✏️ Editing %s of #%d\n\nCurrent value: %s\n\nEnter the new value:", field, l.ID, currentValue(l, field)),
			cancelMenu())

	case domain.FormEditValue:
		return b.finishEdit(ctx, ev, form, text)

	case domain.FormReviewRating:
		rating, err := strconv.Atoi(text)
		if err != nil || domain.ValidateRating(rating) != nil {
			b.reply(ctx, ev, "❌ Send a number from 1 to 5.", ratingMenu())
			return nil
		}
		form.Kind, form.Rating = domain.FormReviewComment, rating
		return b.setForm(ctx, ev, form, "💬 Add a comment, or send - to skip:", cancelMenu())

	case domain.FormReviewComment:
		return b.finishReview(ctx, ev, form, text)

	case domain.FormBanTarget:
		targetID, err := parseID(text)
		if err != nil {
			return b.retry(ctx, ev, err)
		}
		if _, err := b.uc.Users.Get(ctx, targetID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				b.reply(ctx, ev, "🔍 No user with id "+itoa(targetID)+". Send another id:", nil)
				return nil
			}
			return err
		}
		form.Kind, form.TargetID = domain.FormBanReason, targetID
		return b.setForm(ctx, ev, form, "✍️ Reason for banning user "+itoa(targetID)+":", cancelMenu())

	case domain.FormBanReason:
		if text == "" {
			b.reply(ctx, ev, "❌ The reason cannot be empty.", nil)
			return nil
		}
		if err := b.clearForm(ctx, ev); err != nil {
			return err
		}
		return b.ban(ctx, ev, form.TargetID, text)

	case domain.FormEvidence:
		if text == "" {
			b.reply(ctx, ev, "❌ The message cannot be empty.", nil)
			return nil
		}
		if err := b.clearForm(ctx, ev); err != nil {
			return err
		}
		view, err := b.uc.Reviews.RequestEvidence(ctx, ev.UserID(), form.ReviewID, text)
		if err != nil {
			return err
		}
		b.reply(ctx, ev, "📨 Sent to the buyer.", adminMenu())
		b.reply(ctx, ev, renderQueueView(view), queueMarkup(view))
		return nil
	}

	// Unknown kind, e.g. left over from an older version in redis.
	if err := b.clearForm(ctx, ev); err != nil {
		return err
	}
	b.unknown(ctx, ev)
	return nil
}

func (b *Bot) startAddForm(ctx context.Context, ev Event) error {
	if _, err := b.uc.Gate.CanCreate(ctx, ev.UserID()); err != nil {
		return err
	}
	return b.setForm(ctx, ev, domain.FormState{Kind: domain.FormAddTitle},
		"📝 New listing\n\nEnter the title (up to 100 characters):", cancelMenu())
}

func (b *Bot) finishAdd(ctx context.Context, ev Event, form domain.FormState, contact string) error {
	if err := b.clearForm(ctx, ev); err != nil {
		return err
	}
	res, err := b.uc.Listings.Create(ctx, usecase.CreateInput{
		SellerID:    ev.UserID(),
		Title:       form.Title,
		Description: form.Description,
		Price:       form.Price,
		Contact:     contact,
	})
	if err != nil {
		return err
	}
	b.reply(ctx, ev, renderCreated(res), sellerMenu())
	return nil
}

func (b *Bot) finishEdit(ctx context.Context, ev Event, form domain.FormState, value string) error {
	l, err := b.uc.Listings.UpdateField(ctx, ev.UserID(), form.ListingID, form.Field, value)
	if errors.Is(err, domain.ErrValidation) {
		return b.retry(ctx, ev, err)
	}
	if cerr := b.clearForm(ctx, ev); cerr != nil && err == nil {
		return cerr
	}
	if err != nil {
		return err
	}
	b.reply(ctx, ev, "✅ Listing #"+itoa(l.ID)+" updated.\n\n"+renderListing(l), sellerMenu())
	return nil
}

func (b *Bot) finishReview(ctx context.Context, ev Event, form domain.FormState, comment string) error {
	if comment == "-" {
		comment = ""
	}
	if err := b.clearForm(ctx, ev); err != nil {
		return err
	}
	var listingID *int64
	if form.ListingID != 0 {
		id := form.ListingID
		listingID = &id
	}
	rv, err := b.uc.Reviews.Submit(ctx, usecase.SubmitInput{
		SellerID:  form.SellerID,
		BuyerID:   ev.UserID(),
		ListingID: listingID,
		Rating:    form.Rating,
		Comment:   comment,
	})
	if err != nil {
		return err
	}
	b.reply(ctx, ev, fmt.Sprintf("✅ Thanks! Review #%d was sent for moderation.", rv.ID), buyerMenu())
	return nil
}

func currentValue(l *domain.Listing, field domain.ListingField) string {
	switch field {
	case domain.FieldTitle:
		return l.Title
	case domain.FieldDescription:
		return orDash(l.Description)
	case domain.FieldPrice:
		return orDash(l.Price)
	case domain.FieldContact:
		return contact(l.Contact)
	}
	return "-"
}
