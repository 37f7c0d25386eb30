package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/agriaid/pkg/log"
)

// WeatherConfig carries the keyed provider settings. APIKey is optional:
// when empty the structured tier is skipped, not failed.
type WeatherConfig struct {
	APIKey         string `env:"WEATHERAPI_KEY"`
	BaseURL        string `env:"WEATHERAPI_BASE_URL" envDefault:"http://api.weatherapi.com/v1"`
	TimeoutSeconds int    `env:"WEATHER_TIMEOUT_SECONDS" envDefault:"10"`
	ForecastDays   int    `env:"WEATHER_FORECAST_DAYS" envDefault:"7"`
}

func NewWeatherConfig(ctx context.Context) *WeatherConfig {
	c := &WeatherConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Weather config")
	}
	return c
}

func (c WeatherConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
