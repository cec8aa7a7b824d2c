package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/nagbot/internal/database"
)

// NewChatHandler returns a handler for the /chat command. It forwards the
// prompt plus recent chat history to the AI client and replies with the
// generated text.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatHandler{deps}.Handle
}

type chatHandler struct {
	deps HandlerDeps
}

func (h chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "chat")

	msg := update.Message
	if msg == nil || msg.From == nil {
		log.WarnContext(ctx, "Chat handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := msg.Chat.ID
	prompt := commandArgs(msg)
	if prompt == "" {
		sendReply(ctx, b, deps, chatID, deps.Config.Messages.ProvideMessage)
		return
	}

	log.InfoContext(ctx, "Handling /chat command", "chat_id", chatID, "user_id", msg.From.ID)

	incoming := &database.Message{
		ChatID:    chatID,
		UserID:    msg.From.ID,
		Content:   prompt,
		Timestamp: time.Unix(int64(msg.Date), 0).UTC(),
	}
	SaveMessageWithRetry(ctx, deps, incoming, "incoming message")

	maxHistory := deps.Config.Database.MaxHistoryMessages
	history, err := deps.Store.GetRecentMessagesInChat(ctx, chatID, maxHistory)
	if err != nil {
		log.ErrorContext(ctx, "Failed to retrieve message history", "error", err, "chat_id", chatID)
		history = []*database.Message{incoming}
	}

	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	defer cancel()

	reply, err := deps.GeminiClient.GenerateReply(aiCtx, history, deps.Config.Telegram.BotInfo.ID)
	if err != nil {
		log.ErrorContext(ctx, "AI generation failed", "error", err, "chat_id", chatID)
		sendReply(ctx, b, deps, chatID, deps.Config.Messages.AIError)
		return
	}
	if reply == "" {
		log.WarnContext(ctx, "Empty AI response received, using fallback", "chat_id", chatID)
		reply = deps.Config.Messages.GeneralError
	}

	outgoing := &database.Message{
		ChatID:    chatID,
		UserID:    deps.Config.Telegram.BotInfo.ID,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	}
	SaveMessageWithRetry(ctx, deps, outgoing, "bot reply")

	sendReply(ctx, b, deps, chatID, reply)
}
