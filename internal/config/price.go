package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/agriaid/pkg/log"
)

type PriceConfig struct {
	PSABaseURL     string `env:"PSA_BASE_URL" envDefault:"https://openstat.psa.gov.ph"`
	DABaseURL      string `env:"DA_BASE_URL" envDefault:"https://www.da.gov.ph"`
	TimeoutSeconds int    `env:"PRICE_TIMEOUT_SECONDS" envDefault:"15"`
	RetryCount     int    `env:"PRICE_RETRY_COUNT" envDefault:"0"`
	Year           int    `env:"PRICE_DATA_YEAR" envDefault:"2024"`
}

func NewPriceConfig(ctx context.Context) *PriceConfig {
	c := &PriceConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Price config")
	}
	return c
}

func (c PriceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
