package bot

import "github.com/gget5897-gif/brainrot-bot/internal/domain"

// Reply keyboard labels. Incoming text equal to a label is treated as
// the corresponding menu action.
const (
	btnBuyer    = "🛍️ Buyer"
	btnSeller   = "💰 Seller"
	btnAbout    = "ℹ️ About"
	btnMainMenu = "🏠 Main menu"
	btnAdmin    = "🛡️ Admin"

	btnNext = "⏭️ Next listing"
	btnBuy  = "✅ Buy"

	btnAdd    = "➕ Add listing"
	btnMine   = "📋 My listings"
	btnManage = "✏️ Manage listings"

	btnQueue = "📝 Review queue"
	btnStats = "📊 Stats"
	btnLog   = "📜 Action log"
	btnBan   = "🚫 Ban user"

	btnCancel = "❌ Cancel"
)

var fieldButtons = []struct {
	label string
	field domain.ListingField
}{
	{"📌 Title", domain.FieldTitle},
	{"📝 Description", domain.FieldDescription},
	{"💰 Price", domain.FieldPrice},
	{"👤 Contact", domain.FieldContact},
}

func fieldByLabel(label string) (domain.ListingField, bool) {
	for _, b := range fieldButtons {
		if b.label == label {
			return b.field, true
		}
	}
	return "", false
}

func mainMenu(isAdmin bool) *domain.Markup {
	rows := [][]string{{btnBuyer, btnSeller}, {btnAbout}}
	if isAdmin {
		rows[1] = append(rows[1], btnAdmin)
	}
	return &domain.Markup{Reply: rows}
}

func buyerMenu() *domain.Markup {
	return &domain.Markup{Reply: [][]string{{btnNext, btnBuy}, {btnMainMenu}}}
}

func sellerMenu() *domain.Markup {
	return &domain.Markup{Reply: [][]string{{btnAdd}, {btnMine, btnManage}, {btnMainMenu}}}
}

func adminMenu() *domain.Markup {
	return &domain.Markup{Reply: [][]string{{btnQueue, btnStats}, {btnLog, btnBan}, {btnMainMenu}}}
}

func cancelMenu() *domain.Markup {
	return &domain.Markup{Reply: [][]string{{btnCancel}}}
}

func editFieldMenu() *domain.Markup {
	rows := [][]string{
		{fieldButtons[0].label, fieldButtons[1].label},
		{fieldButtons[2].label, fieldButtons[3].label},
		{btnCancel},
	}
	return &domain.Markup{Reply: rows}
}

func ratingMenu() *domain.Markup {
	return &domain.Markup{Reply: [][]string{{"1", "2", "3", "4", "5"}, {btnCancel}}}
}

// browseButtons is attached to every listing shown to a buyer.
func browseButtons(l *domain.Listing) *domain.Markup {
	return &domain.Markup{Inline: [][]domain.Button{{
		{Text: "⭐ Leave review", Data: domain.Callback{Action: domain.CbReview, ID: l.SellerID, Arg: l.ID}.String()},
	}}}
}

// manageButtons lists edit/renew/sold/delete actions per listing.
func manageButtons(listings []*domain.Listing) *domain.Markup {
	rows := make([][]domain.Button, 0, len(listings)+1)
	for _, l := range listings {
		rows = append(rows, []domain.Button{
			domain.InlineButton("✏️ #"+itoa(l.ID), domain.CbEdit, l.ID),
			domain.InlineButton("🔄", domain.CbRenew, l.ID),
			domain.InlineButton("💸", domain.CbSold, l.ID),
			domain.InlineButton("🗑️", domain.CbDelete, l.ID),
		})
	}
	rows = append(rows, []domain.Button{domain.InlineButton("⬅️ Back", domain.CbBackToSeller, 0)})
	return &domain.Markup{Inline: rows}
}

func queueButtons(reviewID int64, prevID, nextID int64, hasPrev, hasNext bool) *domain.Markup {
	nav := make([]domain.Button, 0, 2)
	if hasPrev {
		nav = append(nav, domain.InlineButton("⬅️ Prev", domain.CbModShow, prevID))
	}
	if hasNext {
		nav = append(nav, domain.InlineButton("Next ➡️", domain.CbModShow, nextID))
	}
	rows := [][]domain.Button{
		{
			domain.InlineButton("✅ Approve", domain.CbApprove, reviewID),
			domain.InlineButton("❌ Reject", domain.CbReject, reviewID),
		},
		{domain.InlineButton("📎 Ask for evidence", domain.CbEvidence, reviewID)},
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, []domain.Button{domain.InlineButton("✖️ Close", domain.CbModClose, 0)})
	return &domain.Markup{Inline: rows}
}
