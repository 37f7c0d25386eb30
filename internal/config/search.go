package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/agriaid/pkg/log"
)

// SearchConfig carries the Serper settings. APIKey is optional: without it
// every search degrades to the uniform empty result shape.
type SearchConfig struct {
	APIKey          string `env:"SERPER_API_KEY"`
	BaseURL         string `env:"SERPER_BASE_URL" envDefault:"https://google.serper.dev/search"`
	TimeoutSeconds  int    `env:"SEARCH_TIMEOUT_SECONDS" envDefault:"10"`
	Geolocation     string `env:"SEARCH_GEOLOCATION" envDefault:"ph"`
	Language        string `env:"SEARCH_LANGUAGE" envDefault:"en"`
	CacheTTLSeconds int    `env:"SEARCH_CACHE_TTL_SECONDS" envDefault:"1800"`
}

func NewSearchConfig(ctx context.Context) *SearchConfig {
	c := &SearchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Search config")
	}
	return c
}

func (c SearchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c SearchConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
