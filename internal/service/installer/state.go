package installer

import "github.com/sandevgo/agriaid/internal/config"

// InstallState accumulates the configuration the wizard collects. The typed
// sections are rendered to .env via their `env` tags; zero-valued fields are
// omitted so compiled defaults stay in charge.
type InstallState struct {
	App      config.AppConfig
	Search   config.SearchConfig
	Weather  config.WeatherConfig
	Ollama   config.OllamaConfig
	Telegram config.TelegramConfig
}

func NewInstallState() *InstallState {
	return &InstallState{}
}
