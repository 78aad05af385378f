package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Engines selectable through PHENO_ENGINE.
const (
	EngineRaster = "raster"
	EngineGoCV   = "gocv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel string
	Engine   string
	Workers  int

	TelegramToken  string
	TelegramChatID int64

	AzureAccount string
	AzureKey     string
}

// NotifyEnabled reports whether run summaries go to Telegram.
func (c *Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:      os.Getenv("LOG_LEVEL"),
		Engine:        strings.ToLower(strings.TrimSpace(os.Getenv("PHENO_ENGINE"))),
		Workers:       runtime.NumCPU(),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		AzureAccount:  os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureKey:      os.Getenv("AZURE_STORAGE_KEY"),
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineRaster
	}

	if v := os.Getenv("PHENO_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("PHENO_WORKERS=%q: %w", v, ErrInvalidConfig)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID=%q: %w", v, ErrInvalidConfig)
		}
		cfg.TelegramChatID = id
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Engine != EngineRaster && c.Engine != EngineGoCV {
		return fmt.Errorf("PHENO_ENGINE=%q, want %s or %s: %w", c.Engine, EngineRaster, EngineGoCV, ErrInvalidConfig)
	}
	if (c.AzureAccount == "") != (c.AzureKey == "") {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together: %w", ErrInvalidConfig)
	}
	return nil
}
