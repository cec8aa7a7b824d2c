package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
)

// Notifier delivers reminder messages to a fixed chat. It implements
// reminder.Notifier; the underlying bot client is safe for concurrent use, so
// multiple timers can deliver through one Notifier without extra locking.
type Notifier struct {
	bot    *bot.Bot
	chatID int64
	log    *slog.Logger
}

// NewNotifier creates a Notifier that sends to chatID.
func NewNotifier(b *bot.Bot, chatID int64, logger *slog.Logger) *Notifier {
	return &Notifier{
		bot:    b,
		chatID: chatID,
		log:    logger.With("component", "telegram_notifier", "chat_id", chatID),
	}
}

// Send delivers a single notification message. Any failure reason is returned
// as-is; the caller decides whether and when to retry.
func (n *Notifier) Send(ctx context.Context, message string) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   message,
	})
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	n.log.DebugContext(ctx, "Notification sent")
	return nil
}
