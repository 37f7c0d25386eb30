package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/pkg/env"
)

// SaveEnvStep writes the collected configuration to the runtime .env file.
type SaveEnvStep struct {
	err   error
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	path := config.GetRuntimePath()

	if err := os.MkdirAll(path, 0755); err != nil {
		s.err = fmt.Errorf("failed to create runtime directory: %w", err)
		return s, nil
	}

	envPath := filepath.Join(path, ".env")

	if _, err := os.Stat(envPath); err == nil {
		s.err = fmt.Errorf(".env file already exists at %s", envPath)
		return s, nil
	}

	content, err := renderEnv(state)
	if err != nil {
		s.err = err
		return s, nil
	}

	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

func renderEnv(state *InstallState) (string, error) {
	var b strings.Builder

	for _, section := range []any{
		&state.App,
		&state.Search,
		&state.Weather,
		&state.Ollama,
		&state.Telegram,
	} {
		content, err := env.MarshalEnv(section)
		if err != nil {
			return "", fmt.Errorf("failed to render env section: %w", err)
		}
		b.WriteString(content)
	}

	// MarshalEnv drops zero values, so going Telegram-only needs the CLI
	// default overridden explicitly.
	if state.App.EnableTelegram && !state.App.EnableCLI {
		b.WriteString("ENABLE_CLI=false\n")
	}

	return b.String(), nil
}
