package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/agriaid/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"AGRIAID_RUNTIME_PATH" envDefault:".agriaid"`

	// Default geographic scope appended to queries without a location
	Region string `env:"AGRIAID_REGION" envDefault:"Cordillera Administrative Region"`

	// Transport flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`

	// Conversation window K and prompt budget
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"10"`
	PromptTokenBudget int `env:"PROMPT_TOKEN_BUDGET" envDefault:"6000"`

	// Default TTL for cached resolver payloads
	CacheTTLSeconds int `env:"CACHE_TTL_SECONDS" envDefault:"3600"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetCacheDir() string {
	return filepath.Join(c.RuntimePath, "cache")
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "agriaid.db")
}

func (c AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
