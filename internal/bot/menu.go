package bot

import (
	"context"
	"errors"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"go.uber.org/zap"
)

// onText routes menu buttons first; any other text feeds the form in
// progress, if there is one.
func (b *Bot) onText(ctx context.Context, ev Event) error {
	if ev.Text == btnCancel {
		return b.cancelForm(ctx, ev)
	}
	if handler, ok := b.menuHandler(ev.Text); ok {
		if err := b.sessions.ClearForm(ctx, ev.UserID()); err != nil {
			b.logger.Warn("Failed to clear form", zap.Int64("user_id", ev.UserID()), zap.Error(err))
		}
		return handler(ctx, ev)
	}

	form, err := b.sessions.Form(ctx, ev.UserID())
	if err != nil {
		return err
	}
	if form != nil {
		return b.onFormInput(ctx, ev, *form)
	}
	b.unknown(ctx, ev)
	return nil
}

func (b *Bot) menuHandler(text string) (func(context.Context, Event) error, bool) {
	switch text {
	case btnBuyer:
		return b.buyerHome, true
	case btnNext:
		return b.nextListing, true
	case btnBuy:
		return b.buy, true
	case btnSeller:
		return b.sellerHome, true
	case btnAdd:
		return b.startAddForm, true
	case btnMine:
		return b.myListings, true
	case btnManage:
		return b.manageListings, true
	case btnAbout:
		return b.about, true
	case btnMainMenu:
		return b.mainMenu, true
	case btnAdmin:
		return b.adminHome, true
	case btnQueue:
		return b.openQueue, true
	case btnStats:
		return b.cmdStats, true
	case btnLog:
		return b.cmdLog, true
	case btnBan:
		return b.startBanForm, true
	}
	return nil, false
}

func (b *Bot) mainMenu(ctx context.Context, ev Event) error {
	if err := b.uc.Browse.Reset(ctx, ev.UserID()); err != nil {
		return err
	}
	b.welcome(ctx, ev)
	return nil
}

func (b *Bot) about(ctx context.Context, ev Event) error {
	b.reply(ctx, ev, aboutText, nil)
	return nil
}

func (b *Bot) buyerHome(ctx context.Context, ev Event) error {
	item, err := b.uc.Browse.Enter(ctx, ev.UserID())
	if errors.Is(err, domain.ErrNotFound) {
		b.reply(ctx, ev, "😔 No listings yet.\n\nAsk your friends to add some!", mainMenu(b.isAdmin(ev.UserID())))
		return nil
	}
	if err != nil {
		return err
	}
	b.reply(ctx, ev, "🛍️ Buyer mode", buyerMenu())
	b.reply(ctx, ev, renderBrowseItem(item), browseButtons(item.Listing))
	return nil
}

func (b *Bot) nextListing(ctx context.Context, ev Event) error {
	item, err := b.uc.Browse.Next(ctx, ev.UserID())
	if errors.Is(err, domain.ErrNotFound) {
		b.reply(ctx, ev, "😔 No more listings.", nil)
		return nil
	}
	if err != nil {
		return err
	}
	b.reply(ctx, ev, renderBrowseItem(item), browseButtons(item.Listing))
	return nil
}

func (b *Bot) buy(ctx context.Context, ev Event) error {
	b.reply(ctx, ev, buyAdvice, nil)
	return nil
}

func (b *Bot) sellerHome(ctx context.Context, ev Event) error {
	listings, err := b.uc.Listings.ListBySeller(ctx, ev.UserID())
	if err != nil {
		return err
	}
	usage, err := b.uc.Gate.Usage(ctx, ev.UserID())
	if err != nil {
		return err
	}
	b.reply(ctx, ev, renderSellerMenu(listings, b.now(), usage), sellerMenu())
	return nil
}

func (b *Bot) myListings(ctx context.Context, ev Event) error {
	listings, err := b.uc.Listings.ListBySeller(ctx, ev.UserID())
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		b.reply(ctx, ev, "📭 You have no listings yet.\n\nAdd one with \""+btnAdd+"\".", sellerMenu())
		return nil
	}
	b.reply(ctx, ev, renderMyListings(listings, b.now()), sellerMenu())
	return nil
}

func (b *Bot) manageListings(ctx context.Context, ev Event) error {
	listings, err := b.uc.Listings.ListBySeller(ctx, ev.UserID())
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		b.reply(ctx, ev, "📭 You have no listings to manage.", sellerMenu())
		return nil
	}
	b.reply(ctx, ev, renderManage(listings), manageButtons(listings))
	return nil
}

func (b *Bot) openQueue(ctx context.Context, ev Event) error {
	view, err := b.uc.Reviews.OpenQueue(ctx, ev.UserID())
	if errors.Is(err, domain.ErrNotFound) {
		b.reply(ctx, ev, "🎉 No reviews are waiting for moderation.", nil)
		return nil
	}
	if err != nil {
		return err
	}
	b.reply(ctx, ev, renderQueueView(view), queueMarkup(view))
	return nil
}
