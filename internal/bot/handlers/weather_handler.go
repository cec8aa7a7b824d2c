package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewWeatherHandler returns a handler for the /weather command.
func NewWeatherHandler(deps HandlerDeps) bot.HandlerFunc {
	return weatherHandler{deps}.Handle
}

type weatherHandler struct {
	deps HandlerDeps
}

func (h weatherHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "weather")

	msg := update.Message
	if msg == nil || msg.From == nil {
		log.WarnContext(ctx, "Weather handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := msg.Chat.ID
	city := commandArgs(msg)
	if city == "" {
		sendReply(ctx, b, deps, chatID, deps.Config.Messages.ProvideMessage)
		return
	}

	log.InfoContext(ctx, "Handling /weather command", "chat_id", chatID, "user_id", msg.From.ID, "city", city)

	reqCtx, cancel := context.WithTimeout(ctx, apiRequestTimeout)
	defer cancel()

	cond, err := deps.WeatherClient.Current(reqCtx, city)
	if err != nil {
		log.ErrorContext(ctx, "Weather request failed", "error", err, "chat_id", chatID, "city", city)
		sendReply(ctx, b, deps, chatID, deps.Config.Messages.WeatherError)
		return
	}

	reply := fmt.Sprintf("%s: %s, %.1f°C (feels like %.1f°C), humidity %d%%",
		cond.Location, cond.Description, cond.Temperature, cond.FeelsLike, cond.Humidity)
	sendReply(ctx, b, deps, chatID, reply)
}
