package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/usecase"
)

const timeLayout = "2006-01-02 15:04 MST"

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func contact(c string) string {
	if c == "" {
		return "-"
	}
	return "@" + c
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func renderListing(l *domain.Listing) string {
	return fmt.Sprintf("📌 Title: %s\n📝 Description: %s\n💰 Price: %s\n👤 Contact: %s",
		l.Title, orDash(l.Description), orDash(l.Price), contact(l.Contact))
}

func renderBrowseItem(it *usecase.BrowseItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 Listing #%d (%d/%d)\n\n", it.Listing.ID, it.Position, it.Total)
	b.WriteString(renderListing(it.Listing))
	fmt.Fprintf(&b, "\n⭐ Seller rating: %s", it.SellerRating)
	fmt.Fprintf(&b, "\n⏳ Active until: %s", it.Listing.ExpiresAt.UTC().Format(timeLayout))
	return b.String()
}

func renderCreated(res *usecase.CreateResult) string {
	var b strings.Builder
	b.WriteString("✅ Listing added!\n\n")
	b.WriteString(renderListing(res.Listing))
	fmt.Fprintf(&b, "\n⏳ Active until: %s", res.Listing.ExpiresAt.UTC().Format(timeLayout))
	if !res.Allowance.Unlimited {
		fmt.Fprintf(&b, "\n\n📊 %s", quotaLine(res.Allowance))
	}
	return b.String()
}

func quotaLine(a usecase.Allowance) string {
	if a.Unlimited {
		return "No daily limit for you."
	}
	return fmt.Sprintf("Listings today: %d of %d (%d left)", a.Count, a.Limit, a.Remaining())
}

func renderSellerMenu(listings []*domain.Listing, now time.Time, a usecase.Allowance) string {
	active := 0
	for _, l := range listings {
		if l.IsActive(now) {
			active++
		}
	}
	return fmt.Sprintf("💰 Seller mode\n\n📦 Your listings: %d (%d active)\n📊 %s\n\nChoose an action:",
		len(listings), active, quotaLine(a))
}

func renderMyListings(listings []*domain.Listing, now time.Time) string {
	var b strings.Builder
	b.WriteString("📋 Your listings:\n")
	for i, l := range listings {
		status := "⏳ until " + l.ExpiresAt.UTC().Format(timeLayout)
		if !l.IsActive(now) {
			status = "⌛ expired"
		}
		fmt.Fprintf(&b, "\n%d. #%d %s\n   💰 %s | 👤 %s | %s\n", i+1, l.ID, l.Title, orDash(l.Price), contact(l.Contact), status)
	}
	return b.String()
}

func renderManage(listings []*domain.Listing) string {
	var b strings.Builder
	b.WriteString("🛠 Manage listings\n\n✏️ edit · 🔄 renew · 💸 sold · 🗑️ delete\n")
	for _, l := range listings {
		fmt.Fprintf(&b, "\n#%d %s (%s)", l.ID, l.Title, orDash(l.Price))
	}
	return b.String()
}

func renderQueueView(v *usecase.QueueView) string {
	var b strings.Builder
	if v.Stale {
		b.WriteString("ℹ️ That review was already handled by another admin.\n\n")
	}
	if v.Done {
		b.WriteString("🎉 All reviews are moderated.")
		return b.String()
	}
	rv := v.Review
	fmt.Fprintf(&b, "📝 Review #%d (%d/%d)\n\n", rv.ID, v.Index+1, v.Total)
	fmt.Fprintf(&b, "Seller: %d\nBuyer: %d\n", rv.SellerID, rv.BuyerID)
	if rv.ListingID != nil {
		fmt.Fprintf(&b, "Listing: #%d\n", *rv.ListingID)
	}
	fmt.Fprintf(&b, "Rating: %s %d/5\nComment: %s\nSubmitted: %s",
		strings.Repeat("⭐", rv.Rating), rv.Rating, orDash(rv.Comment), rv.CreatedAt.UTC().Format(timeLayout))
	return b.String()
}

func queueMarkup(v *usecase.QueueView) *domain.Markup {
	if v.Done {
		return nil
	}
	return queueButtons(v.Review.ID, v.PrevID, v.NextID, v.HasPrev, v.HasNext)
}

func renderActions(actions []*domain.AdminAction) string {
	if len(actions) == 0 {
		return "📜 No admin actions recorded yet."
	}
	var b strings.Builder
	b.WriteString("📜 Recent admin actions:\n")
	for _, a := range actions {
		fmt.Fprintf(&b, "\n%s admin %d: %s", a.CreatedAt.UTC().Format(timeLayout), a.AdminID, a.ActionType)
		if a.TargetID != nil {
			fmt.Fprintf(&b, " %s #%d", a.TargetType, *a.TargetID)
		}
		if a.Reason != "" {
			fmt.Fprintf(&b, " (%s)", a.Reason)
		}
		if a.Details != "" {
			fmt.Fprintf(&b, " [%s]", a.Details)
		}
	}
	return b.String()
}

func renderUser(u *domain.User) string {
	status := "active"
	if u.IsBanned {
		status = "banned: " + orDash(u.BanReason)
	}
	limit := "default"
	if u.DailyLimit > 0 {
		limit = strconv.Itoa(u.DailyLimit)
	}
	return fmt.Sprintf("👤 %s (id %d)\nStatus: %s\nWhitelisted: %t\nDaily limit: %s",
		u.DisplayName(), u.ID, status, u.IsWhitelisted, limit)
}

const helpText = `🆘 Help

/start - main menu
/help - this help
/status - bot status
/cancel - abandon the current form

Use the menu buttons to browse and sell.`

const adminHelpText = `🛡️ Admin commands

/reviews - moderation queue
/ban <user_id> [reason] - ban (asks for the reason if omitted)
/unban <user_id>
/whitelist <user_id> - remove the daily limit
/unwhitelist <user_id>
/setlimit <user_id> <n> - per-user daily limit, 0 restores the default
/dellisting <listing_id> <reason>
/log - recent admin actions
/stats - totals`

const aboutText = `🤖 Steal A Brainrot Shop Bot

🎮 Game: Brainrot (Roblox)

Features:
• 🛍️ Browse listings
• 💰 Sell items
• ✏️ Edit, renew and remove your listings
• ⭐ Seller reviews

Rules:
• 🚫 No scams
• 💬 Be polite
• ✅ Double-check every deal

Good luck! 🎮`

const buyAdvice = `🎉 Great choice!

📞 Contact the seller using the handle shown on the listing.

⚠️ Stay safe:
• Never pay in advance
• Agree on a safe way to trade

Good luck! 🎮`
