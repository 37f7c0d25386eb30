package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// OllamaStep collects the Ollama base URL and model in two sub-inputs.
type OllamaStep struct {
	urlInput   textinput.Model
	modelInput textinput.Model
	onModel    bool
}

func NewOllamaStep() Step {
	urlInput := textinput.New()
	urlInput.Placeholder = "http://localhost:11434"
	urlInput.Focus()
	urlInput.CharLimit = 255
	urlInput.Width = 40

	modelInput := textinput.New()
	modelInput.Placeholder = "llama3.1:8b"
	modelInput.CharLimit = 120
	modelInput.Width = 40

	return &OllamaStep{urlInput: urlInput, modelInput: modelInput}
}

func (s *OllamaStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *OllamaStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	if s.onModel {
		s.modelInput, cmd = s.modelInput.Update(msg)
	} else {
		s.urlInput, cmd = s.urlInput.Update(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			if !s.onModel {
				state.Ollama.BaseURL = strings.TrimSpace(s.urlInput.Value())
				s.onModel = true
				s.urlInput.Blur()
				s.modelInput.Focus()
				return s, textinput.Blink
			}
			state.Ollama.Model = strings.TrimSpace(s.modelInput.Value())
			return nil, nil
		}
	}
	return s, cmd
}

func (s *OllamaStep) View(state *InstallState) string {
	if s.onModel {
		return fmt.Sprintf("Ollama model to answer with:\n\n%s\n\n(press enter to accept, empty keeps the default)\n",
			s.modelInput.View())
	}
	return fmt.Sprintf("Ollama base URL:\n\n%s\n\n(press enter to accept, empty keeps the default)\n",
		s.urlInput.View())
}
