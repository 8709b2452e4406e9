package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Kafka struct {
		Broker  string
		Topic   string
		GroupID string
	}
	API struct {
		Port string
	}
	Logging struct {
		Dir   string
		Level string
	}
	Surface struct {
		Kind string // "websocket" or "telegram"
	}
	Telegram struct {
		BotToken  string
		ChatID    int64
		RateLimit int // messages per second
	}
	Dashboard struct {
		URL string // navigation target for the "view" action
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	// Kafka settings
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")

	// Logging settings
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Notification surface settings
	cfg.Surface.Kind = os.Getenv("SURFACE")
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if id, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		cfg.Telegram.ChatID = id
	}
	if rl, err := strconv.Atoi(os.Getenv("TELEGRAM_RATE_LIMIT")); err == nil {
		cfg.Telegram.RateLimit = rl
	}

	cfg.Dashboard.URL = os.Getenv("DASHBOARD_URL")

	// Validate required settings
	missing := []string{}
	if cfg.Kafka.Broker == "" {
		missing = append(missing, "KAFKA_BROKER")
	}
	if cfg.Kafka.Topic == "" {
		missing = append(missing, "KAFKA_TOPIC")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "drainwatch-agent"
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Surface.Kind == "" {
		cfg.Surface.Kind = "websocket"
	}
	if cfg.Telegram.RateLimit == 0 {
		cfg.Telegram.RateLimit = 1
	}
	if cfg.Dashboard.URL == "" {
		cfg.Dashboard.URL = "/"
	}

	// Telegram surface needs credentials up front
	if cfg.Surface.Kind == "telegram" {
		if cfg.Telegram.BotToken == "" {
			return Config{}, fmt.Errorf("SURFACE=telegram requires TELEGRAM_BOT_TOKEN")
		}
		if cfg.Telegram.ChatID == 0 {
			return Config{}, fmt.Errorf("SURFACE=telegram requires TELEGRAM_CHAT_ID")
		}
	}

	return cfg, nil
}
