// Package main contains the entrypoint for the Telegram bot application.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/nagbot/internal/bot"
	"github.com/edgard/nagbot/internal/bot/handlers"
	"github.com/edgard/nagbot/internal/bot/tasks"
	"github.com/edgard/nagbot/internal/config"
	"github.com/edgard/nagbot/internal/database"
	"github.com/edgard/nagbot/internal/gemini"
	"github.com/edgard/nagbot/internal/logger"
	"github.com/edgard/nagbot/internal/reminder"
	"github.com/edgard/nagbot/internal/search"
	"github.com/edgard/nagbot/internal/telegram"
	"github.com/edgard/nagbot/internal/weather"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// API clients, bot, scheduler, reminder supervisor), handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger:        log,
		Config:        cfg,
		Store:         store,
		GeminiClient:  gemClient,
		WeatherClient: weather.NewClient(cfg.Weather, log),
		SearchClient:  search.NewClient(cfg.Search, log),
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	// Retrieve bot info and store it in the config for runtime use
	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	specs := make([]reminder.Spec, 0, len(cfg.Reminders))
	for _, r := range cfg.Reminders {
		specs = append(specs, reminder.Spec{Hour: r.Hour, Minute: r.Minute, Message: r.Message})
	}
	notifier := telegram.NewNotifier(tg, cfg.Telegram.ReminderChatID, log)
	supervisor, err := reminder.NewSupervisor(specs, notifier, reminder.NewSystemClock(), log)
	if err != nil {
		log.Error("Failed to create reminder supervisor", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, store, tg, sched, supervisor)

	log.Info("Starting bot")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully")
	time.Sleep(time.Second)
	return 0
}
