package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SerperKeyStep collects the optional Serper API key. Without it web search
// degrades to empty results instead of failing.
type SerperKeyStep struct {
	input textinput.Model
}

func NewSerperKeyStep() Step {
	input := textinput.New()
	input.Placeholder = "Optional - press Enter to skip"
	input.Focus()
	input.CharLimit = 255
	input.Width = 40
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return &SerperKeyStep{input: input}
}

func (s *SerperKeyStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *SerperKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			state.Search.APIKey = strings.TrimSpace(s.input.Value())
			return nil, nil
		}
	}
	return s, cmd
}

func (s *SerperKeyStep) View(state *InstallState) string {
	return fmt.Sprintf("Serper API key for web search (optional):\n\n%s\n\n(press enter to confirm)\n",
		s.input.View())
}
