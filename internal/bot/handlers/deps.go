package handlers

import (
	"log/slog"

	"github.com/edgard/nagbot/internal/config"
	"github.com/edgard/nagbot/internal/database"
	"github.com/edgard/nagbot/internal/gemini"
	"github.com/edgard/nagbot/internal/search"
	"github.com/edgard/nagbot/internal/weather"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger        *slog.Logger
	Config        *config.Config
	Store         database.Store
	GeminiClient  gemini.Client
	WeatherClient *weather.Client
	SearchClient  *search.Client
}
