package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// maxRetryAfter caps how long Send waits when Telegram rate-limits it.
const maxRetryAfter = 30 * time.Second

// botAPI is the subset of *tgbotapi.BotAPI the client uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Client is the Telegram transport: it implements domain.Sender and
// polls for updates.
type Client struct {
	api    botAPI
	logger *logger.Logger
}

// NewClient authenticates with the Bot API.
func NewClient(token string, debug bool, log *logger.Logger) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = debug
	log.Info("Telegram bot authorized", zap.String("username", api.Self.UserName))
	return newClient(api, log), nil
}

func newClient(api botAPI, log *logger.Logger) *Client {
	return &Client{api: api, logger: log.Named("TelegramClient")}
}

// Send delivers msg, retrying once if Telegram asks the bot to slow down.
func (c *Client) Send(ctx context.Context, msg domain.Message) error {
	out := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	if markup := toMarkup(msg.Markup); markup != nil {
		out.ReplyMarkup = markup
	}

	err := c.send(ctx, out)
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
		wait := time.Duration(tgErr.RetryAfter) * time.Second
		if wait > maxRetryAfter {
			return err
		}
		c.logger.Warn("Rate limited by Telegram, retrying", zap.Int64("chat_id", msg.ChatID), zap.Duration("retry_after", wait))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		err = c.send(ctx, out)
	}
	return err
}

func (c *Client) send(ctx context.Context, out tgbotapi.MessageConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.Send(out); err != nil {
		return fmt.Errorf("telegram send to %d: %w", out.ChatID, err)
	}
	return nil
}

// AnswerCallback stops the button's loading spinner, optionally with a
// short toast.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("telegram answer callback: %w", err)
	}
	return nil
}

func toMarkup(m *domain.Markup) any {
	switch {
	case m == nil:
		return nil
	case len(m.Inline) > 0:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(m.Inline))
		for _, row := range m.Inline {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
		}
		return tgbotapi.NewInlineKeyboardMarkup(rows...)
	case len(m.Reply) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(m.Reply))
		for _, row := range m.Reply {
			buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
		}
		return tgbotapi.NewReplyKeyboard(rows...)
	case m.RemoveReply:
		return tgbotapi.NewRemoveKeyboard(false)
	}
	return nil
}
