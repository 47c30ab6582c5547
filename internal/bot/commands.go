package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"go.uber.org/zap"
)

// onCommand handles slash commands. Any command abandons the form the
// user was filling in.
func (b *Bot) onCommand(ctx context.Context, ev Event) error {
	if err := b.sessions.ClearForm(ctx, ev.UserID()); err != nil {
		b.logger.Warn("Failed to clear form", zap.Int64("user_id", ev.UserID()), zap.Error(err))
	}

	switch strings.ToLower(ev.Command) {
	case "start":
		return b.cmdStart(ctx, ev)
	case "help":
		text := helpText
		if b.isAdmin(ev.UserID()) {
			text += "\n\n" + adminHelpText
		}
		b.reply(ctx, ev, text, nil)
		return nil
	case "status":
		return b.cmdStatus(ctx, ev)
	case "cancel":
		b.reply(ctx, ev, "❌ Cancelled.", mainMenu(b.isAdmin(ev.UserID())))
		return nil
	case "admin":
		return b.adminHome(ctx, ev)
	case "ban":
		return b.cmdBan(ctx, ev)
	case "unban":
		return b.cmdUnban(ctx, ev)
	case "whitelist":
		return b.cmdWhitelist(ctx, ev, true)
	case "unwhitelist":
		return b.cmdWhitelist(ctx, ev, false)
	case "setlimit":
		return b.cmdSetLimit(ctx, ev)
	case "dellisting":
		return b.cmdDelListing(ctx, ev)
	case "reviews":
		return b.openQueue(ctx, ev)
	case "log":
		return b.cmdLog(ctx, ev)
	case "stats":
		return b.cmdStats(ctx, ev)
	}
	b.unknown(ctx, ev)
	return nil
}

func (b *Bot) unknown(ctx context.Context, ev Event) {
	b.reply(ctx, ev, "🤔 I didn't understand that.\n\nUse the menu buttons or /start.", mainMenu(b.isAdmin(ev.UserID())))
}

func (b *Bot) cmdStart(ctx context.Context, ev Event) error {
	if _, err := b.uc.Users.StartSession(ctx, ev.From); err != nil {
		return err
	}
	if err := b.uc.Browse.Reset(ctx, ev.UserID()); err != nil {
		return err
	}
	b.welcome(ctx, ev)
	return nil
}

func (b *Bot) cmdStatus(ctx context.Context, ev Event) error {
	st, err := b.uc.Admin.Status(ctx)
	if err != nil {
		return err
	}
	sessions := "-"
	if c, ok := b.sessions.(sessionCounter); ok {
		if n, err := c.TrackedSessions(ctx); err == nil {
			sessions = strconv.Itoa(n)
		}
	}
	b.reply(ctx, ev, fmt.Sprintf("🤖 Bot status\n\n✅ Online\n🕒 Server time: %s\n📦 Active listings: %d\n👥 Users: %d\n🧭 Tracked sessions: %s",
		st.ServerTime.UTC().Format("15:04:05 MST"), st.ActiveListings, st.Users, sessions), nil)
	return nil
}

func (b *Bot) adminHome(ctx context.Context, ev Event) error {
	if !b.isAdmin(ev.UserID()) {
		return fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	b.reply(ctx, ev, adminHelpText, adminMenu())
	return nil
}

// cmdBan accepts "/ban <id> <reason>" or walks through the ban form for
// whatever is missing.
func (b *Bot) cmdBan(ctx context.Context, ev Event) error {
	if !b.isAdmin(ev.UserID()) {
		return fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	idArg, reason, _ := strings.Cut(strings.TrimSpace(ev.Args), " ")
	if idArg == "" {
		return b.startBanForm(ctx, ev)
	}
	targetID, err := parseID(idArg)
	if err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		if _, err := b.uc.Users.Get(ctx, targetID); err != nil {
			return err
		}
		return b.setForm(ctx, ev, domain.FormState{Kind: domain.FormBanReason, TargetID: targetID},
			"✍️ Reason for banning user "+itoa(targetID)+":", cancelMenu())
	}
	return b.ban(ctx, ev, targetID, reason)
}

func (b *Bot) startBanForm(ctx context.Context, ev Event) error {
	if !b.isAdmin(ev.UserID()) {
		return fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	return b.setForm(ctx, ev, domain.FormState{Kind: domain.FormBanTarget}, "🚫 Send the id of the user to ban:", cancelMenu())
}

func (b *Bot) ban(ctx context.Context, ev Event, targetID int64, reason string) error {
	u, err := b.uc.Admin.Ban(ctx, ev.UserID(), targetID, reason)
	if err != nil {
		return err
	}
	b.reply(ctx, ev, fmt.Sprintf("🚫 %s banned.\nReason: %s", u.DisplayName(), reason), adminMenu())
	return nil
}

func (b *Bot) cmdUnban(ctx context.Context, ev Event) error {
	targetID, err := b.adminTarget(ev)
	if err != nil {
		return err
	}
	u, err := b.uc.Admin.Unban(ctx, ev.UserID(), targetID)
	if err != nil {
		return err
	}
	b.reply(ctx, ev, "✅ "+u.DisplayName()+" unbanned.", nil)
	return nil
}

func (b *Bot) cmdWhitelist(ctx context.Context, ev Event, on bool) error {
	targetID, err := b.adminTarget(ev)
	if err != nil {
		return err
	}
	u, err := b.uc.Admin.SetWhitelist(ctx, ev.UserID(), targetID, on)
	if err != nil {
		return err
	}
	b.reply(ctx, ev, "✅ Updated.\n\n"+renderUser(u), nil)
	return nil
}

func (b *Bot) cmdSetLimit(ctx context.Context, ev Event) error {
	if !b.isAdmin(ev.UserID()) {
		return fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	args := strings.Fields(ev.Args)
	if len(args) != 2 {
		return fmt.Errorf("%w: usage: /setlimit <user_id> <n>", domain.ErrValidation)
	}
	targetID, err := parseID(args[0])
	if err != nil {
		return err
	}
	limit, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: limit must be a number", domain.ErrValidation)
	}
	u, err := b.uc.Admin.SetLimit(ctx, ev.UserID(), targetID, limit)
	if err != nil {
		return err
	}
	b.reply(ctx, ev, "✅ Updated.\n\n"+renderUser(u), nil)
	return nil
}

func (b *Bot) cmdDelListing(ctx context.Context, ev Event) error {
	if !b.isAdmin(ev.UserID()) {
		return fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	idArg, reason, _ := strings.Cut(strings.TrimSpace(ev.Args), " ")
	if idArg == "" {
		return fmt.Errorf("%w: usage: /dellisting <listing_id> <reason>", domain.ErrValidation)
	}
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	l, err := b.uc.Admin.DeleteListing(ctx, ev.UserID(), id, strings.TrimSpace(reason))
	if err != nil {
		return err
	}
	b.reply(ctx, ev, fmt.Sprintf("🗑️ Listing #%d %q removed. The owner was notified.", l.ID, l.Title), nil)
	return nil
}

func (b *Bot) cmdLog(ctx context.Context, ev Event) error {
	limit := 10
	if arg := strings.TrimSpace(ev.Args); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: usage: /log [count]", domain.ErrValidation)
		}
		limit = n
	}
	actions, err := b.uc.Admin.RecentActions(ctx, ev.UserID(), limit)
	if err != nil {
		return err
	}
	b.reply(ctx, ev, renderActions(actions), nil)
	return nil
}

func (b *Bot) cmdStats(ctx context.Context, ev Event) error {
	st, err := b.uc.Admin.Stats(ctx, ev.UserID())
	if err != nil {
		return err
	}
	b.reply(ctx, ev, fmt.Sprintf("📊 Stats\n\n👥 Users: %d\n📦 Active listings: %d\n📝 Pending reviews: %d",
		st.Users, st.ActiveListings, st.PendingReviews), nil)
	return nil
}

// adminTarget parses the single user id argument of an admin command.
func (b *Bot) adminTarget(ev Event) (int64, error) {
	if !b.isAdmin(ev.UserID()) {
		return 0, fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	args := strings.Fields(ev.Args)
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: usage: /%s <user_id>", domain.ErrValidation, ev.Command)
	}
	return parseID(args[0])
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a valid id", domain.ErrValidation, s)
	}
	return id, nil
}
