package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"go.uber.org/zap"
)

const (
	msgInternal  = "⚠️ Something went wrong. Please try again later."
	msgNotFound  = "🔍 Nothing found. It may have been removed already."
	msgForbidden = "⛔ You are not allowed to do that."
)

// errorText maps a usecase error to the short message shown to the user.
func errorText(err error) string {
	var (
		ban      *domain.BanError
		quota    *domain.QuotaError
		cooldown *domain.CooldownError
	)
	switch {
	case errors.As(err, &ban):
		return "🚫 You are banned and cannot post listings.\nReason: " + orDash(ban.Reason)
	case errors.As(err, &quota):
		return fmt.Sprintf("⛔ Daily limit reached: %d of %d listings in the last 24 hours, %d left.\nTry again later.",
			quota.Count, quota.Limit, quota.Remaining())
	case errors.As(err, &cooldown):
		return fmt.Sprintf("⏳ This listing was renewed recently. Try again in %d hours.", cooldown.RemainingHours())
	case errors.Is(err, domain.ErrValidation):
		return "❌ " + validationDetail(err)
	case errors.Is(err, domain.ErrNotFound):
		return msgNotFound
	case errors.Is(err, domain.ErrForbidden):
		return msgForbidden
	}
	return msgInternal
}

// validationDetail strips the sentinel prefix so only the specific
// problem is shown.
func validationDetail(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		msg = msg[i+len(domain.ErrValidation.Error())+2:]
	}
	if msg == "" {
		return "Invalid input."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

// isExpected reports whether err is a normal, user-caused outcome.
func isExpected(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrCooldown)
}

func (b *Bot) fail(ctx context.Context, log *logger.Logger, ev Event, err error) {
	if isExpected(err) {
		log.Info("Request rejected", zap.Error(err))
	} else {
		log.Error("Failed to handle event", zap.Error(err))
	}
	b.reply(ctx, ev, errorText(err), nil)
}
