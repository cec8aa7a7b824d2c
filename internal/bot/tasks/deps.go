// Package tasks implements background maintenance tasks for the NagBot
// Telegram bot, along with their registration mechanism.
package tasks

import (
	"log/slog"

	"github.com/edgard/nagbot/internal/config"
	"github.com/edgard/nagbot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
