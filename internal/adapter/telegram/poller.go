package telegram

import (
	"context"

	"github.com/gget5897-gif/brainrot-bot/internal/bot"
	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// pollTimeout is the long-polling timeout in seconds.
const pollTimeout = 60

// SubmitFunc hands a decoded event to the dispatcher.
type SubmitFunc func(ctx context.Context, ev bot.Event) error

// Run long-polls for updates and submits each one until ctx is done.
func (c *Client) Run(ctx context.Context, submit SubmitFunc) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := c.api.GetUpdatesChan(u)
	c.logger.Info("Polling for updates")

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			c.logger.Info("Stopped polling for updates")
			return
		case update, ok := <-updates:
			if !ok {
				c.logger.Warn("Update channel closed")
				return
			}
			ev, ok := toEvent(update)
			if !ok {
				c.logger.Debug("Ignoring update", zap.Int("update_id", update.UpdateID))
				continue
			}
			if err := submit(ctx, ev); err != nil {
				c.logger.Warn("Failed to submit update", zap.Int("update_id", update.UpdateID), zap.Error(err))
			}
		}
	}
}

// toEvent decodes the update kinds the bot handles: messages with text
// and callback queries.
func toEvent(u tgbotapi.Update) (bot.Event, bool) {
	switch {
	case u.CallbackQuery != nil && u.CallbackQuery.From != nil:
		cq := u.CallbackQuery
		ev := bot.Event{
			Kind:       bot.EventCallback,
			From:       profile(cq.From),
			CallbackID: cq.ID,
			Data:       cq.Data,
		}
		if cq.Message != nil && cq.Message.Chat != nil {
			ev.ChatID = cq.Message.Chat.ID
		}
		return ev, true

	case u.Message != nil && u.Message.From != nil && u.Message.Text != "":
		m := u.Message
		ev := bot.Event{From: profile(m.From)}
		if m.Chat != nil {
			ev.ChatID = m.Chat.ID
		}
		if m.IsCommand() {
			ev.Kind = bot.EventCommand
			ev.Command = m.Command()
			ev.Args = m.CommandArguments()
		} else {
			ev.Kind = bot.EventText
			ev.Text = m.Text
		}
		return ev, true
	}
	return bot.Event{}, false
}

func profile(u *tgbotapi.User) domain.Profile {
	return domain.Profile{
		ID:        u.ID,
		Username:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
