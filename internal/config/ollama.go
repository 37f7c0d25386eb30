package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/agriaid/pkg/log"
)

type OllamaConfig struct {
	BaseURL     string  `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	Model       string  `env:"OLLAMA_MODEL" envDefault:"llama3.1:8b"`
	Temperature float64 `env:"OLLAMA_TEMPERATURE" envDefault:"0.7"`
}

func NewOllamaConfig(ctx context.Context) *OllamaConfig {
	c := &OllamaConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Ollama config")
	}
	return c
}
