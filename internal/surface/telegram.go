package surface

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"drainwatch/internal/config"
	"drainwatch/internal/logging"
	"drainwatch/internal/models"
)

// Telegram renders alerts as bot messages for operators who keep no
// dashboard tab open. A failed send drops the event; no retry and no
// alternate channel is attempted.
type Telegram struct {
	bot     *bot.Bot
	chatID  int64
	limiter *rate.Limiter
	logger  *logging.Logger
}

func NewTelegram(cfg config.Config, logger *logging.Logger) (*Telegram, error) {
	b, err := bot.New(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}
	return &Telegram{
		bot:     b,
		chatID:  cfg.Telegram.ChatID,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.Telegram.RateLimit)), cfg.Telegram.RateLimit),
		logger:  logger,
	}, nil
}

// Show sends the alert as a Markdown message with the descriptor's actions
// as an inline keyboard.
func (t *Telegram) Show(ctx context.Context, d models.Descriptor) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n%s", d.Title, d.Body)
	if d.RequireInteraction {
		sb.WriteString("\n\n_Acknowledge required._")
	}

	var buttons []tgmodels.InlineKeyboardButton
	for _, a := range d.Actions {
		buttons = append(buttons, tgmodels.InlineKeyboardButton{
			Text:         a.Label,
			CallbackData: fmt.Sprintf("%s:%s", a.ID, d.Tag),
		})
	}

	params := &bot.SendMessageParams{
		ChatID:    t.chatID,
		Text:      sb.String(),
		ParseMode: "Markdown",
		ReplyMarkup: &tgmodels.InlineKeyboardMarkup{
			InlineKeyboard: [][]tgmodels.InlineKeyboardButton{buttons},
		},
	}
	if _, err := t.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send telegram alert to chat %d: %w", t.chatID, err)
	}
	t.logger.Debugf("Telegram alert sent: tag=%s level=%s", d.Tag, d.Payload.Level)
	return nil
}
