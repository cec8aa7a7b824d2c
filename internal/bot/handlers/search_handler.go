package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSearchHandler returns a handler for the /search command.
func NewSearchHandler(deps HandlerDeps) bot.HandlerFunc {
	return searchHandler{deps}.Handle
}

type searchHandler struct {
	deps HandlerDeps
}

func (h searchHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "search")

	msg := update.Message
	if msg == nil || msg.From == nil {
		log.WarnContext(ctx, "Search handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := msg.Chat.ID
	query := commandArgs(msg)
	if query == "" {
		sendReply(ctx, b, deps, chatID, deps.Config.Messages.ProvideMessage)
		return
	}

	log.InfoContext(ctx, "Handling /search command", "chat_id", chatID, "user_id", msg.From.ID)

	reqCtx, cancel := context.WithTimeout(ctx, apiRequestTimeout)
	defer cancel()

	result, err := deps.SearchClient.Instant(reqCtx, query)
	if err != nil {
		log.ErrorContext(ctx, "Search request failed", "error", err, "chat_id", chatID)
		sendReply(ctx, b, deps, chatID, deps.Config.Messages.GeneralError)
		return
	}
	if result.Text == "" {
		sendReply(ctx, b, deps, chatID, deps.Config.Messages.NoResults)
		return
	}

	reply := result.Text
	if result.Source != "" {
		reply = fmt.Sprintf("%s\n\n%s", result.Text, result.Source)
	}
	sendReply(ctx, b, deps, chatID, reply)
}
