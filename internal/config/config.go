// Package config provides configuration loading, validation, and defaults for
// the NagBot application. Values come from defaults, an optional YAML file,
// and BOT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all components:
// logging, Telegram transport, storage, the outbound provider clients, the
// reminder schedule, and the background maintenance scheduler.
type Config struct {
	Logger    LoggerConfig     `mapstructure:"logger"`
	Telegram  TelegramConfig   `mapstructure:"telegram"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Gemini    GeminiConfig     `mapstructure:"gemini"`
	Weather   WeatherConfig    `mapstructure:"weather"`
	Search    SearchConfig     `mapstructure:"search"`
	Scheduler SchedulerConfig  `mapstructure:"scheduler"`
	Reminders []ReminderConfig `mapstructure:"reminders" validate:"dive"`
	Messages  MessagesConfig   `mapstructure:"messages"`
}

// LoggerConfig controls the process logger.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot credentials and routing targets. BotInfo is filled
// at startup from GetMe and is not read from the config file.
type TelegramConfig struct {
	Token          string `mapstructure:"token"            validate:"required"`
	AdminUserID    int64  `mapstructure:"admin_user_id"    validate:"required,gt=0"`
	ReminderChatID int64  `mapstructure:"reminder_chat_id" validate:"required"`

	BotInfo *models.User `mapstructure:"-"`
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	Path               string `mapstructure:"path"                 validate:"required"`
	MaxHistoryMessages int    `mapstructure:"max_history_messages" validate:"min=1,max=1000"`
}

// GeminiConfig holds settings for the Gemini AI client.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key"             validate:"required"`
	ModelName         string  `mapstructure:"model_name"          validate:"required"`
	Temperature       float32 `mapstructure:"temperature"         validate:"min=0,max=2"`
	SystemInstruction string  `mapstructure:"system_instruction"`
	MaxRetries        int     `mapstructure:"max_retries"         validate:"min=0,max=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"min=1,max=300"`
}

// WeatherConfig holds settings for the weather provider client.
type WeatherConfig struct {
	APIKey  string        `mapstructure:"api_key"  validate:"required"`
	BaseURL string        `mapstructure:"base_url" validate:"url"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"min=1s,max=1m"`
}

// SearchConfig holds settings for the search provider client.
type SearchConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"url"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"min=1s,max=1m"`
}

// SchedulerConfig configures the background maintenance scheduler and how
// long the reminder supervisor waits for its timers at shutdown.
type SchedulerConfig struct {
	ShutdownTimeout time.Duration         `mapstructure:"shutdown_timeout" validate:"min=1s,max=5m"`
	Tasks           map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named maintenance task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// ReminderConfig describes one daily reminder. The list is fixed for the life
// of a run; there is no mechanism to mutate it while running.
type ReminderConfig struct {
	Hour    int    `mapstructure:"hour"    validate:"min=0,max=23"`
	Minute  int    `mapstructure:"minute"  validate:"min=0,max=59"`
	Message string `mapstructure:"message" validate:"required"`
}

// MessagesConfig holds the user-facing reply texts.
type MessagesConfig struct {
	Welcome        string `mapstructure:"welcome"`
	Help           string `mapstructure:"help"`
	NotAuthorized  string `mapstructure:"not_authorized"`
	ProvideMessage string `mapstructure:"provide_message"`
	GeneralError   string `mapstructure:"general_error"`
	AIError        string `mapstructure:"ai_error"`
	NoResults      string `mapstructure:"no_results"`
	WeatherError   string `mapstructure:"weather_error"`
	HistoryReset   string `mapstructure:"history_reset"`
}

// LoadConfig loads and validates configuration from defaults, the YAML file at
// path (optional), and BOT_* environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing config file is fine, everything can come from env.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("database.path", "storage.db")
	v.SetDefault("database.max_history_messages", 50)

	v.SetDefault("gemini.model_name", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 1.0)
	v.SetDefault("gemini.max_retries", 2)
	v.SetDefault("gemini.retry_delay_seconds", 5)

	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.timeout", 10*time.Second)

	v.SetDefault("search.base_url", "https://api.duckduckgo.com")
	v.SetDefault("search.timeout", 10*time.Second)

	v.SetDefault("scheduler.shutdown_timeout", 10*time.Second)

	v.SetDefault("messages.welcome", "Hi! I can chat, search the web, check the weather, and nag you on schedule. Send /help for the command list.")
	v.SetDefault("messages.help", "Commands:\n/chat <message> - talk to the AI\n/search <query> - web search\n/weather <city> - current weather\n/reset - clear chat history (admin only)")
	v.SetDefault("messages.not_authorized", "You are not authorized to use this command.")
	v.SetDefault("messages.provide_message", "Please provide a message with your command.")
	v.SetDefault("messages.general_error", "An error occurred. Please try again later.")
	v.SetDefault("messages.ai_error", "The AI service is unavailable right now. Please try again later.")
	v.SetDefault("messages.no_results", "No results found.")
	v.SetDefault("messages.weather_error", "Could not fetch the weather for that location.")
	v.SetDefault("messages.history_reset", "Chat history has been cleared.")
}
