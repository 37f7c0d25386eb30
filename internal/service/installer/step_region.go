package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RegionStep sets the default geographic scope for questions without an
// explicit location.
type RegionStep struct {
	input textinput.Model
}

func NewRegionStep() Step {
	input := textinput.New()
	input.Placeholder = "Cordillera Administrative Region"
	input.Focus()
	input.CharLimit = 120
	input.Width = 50
	return &RegionStep{input: input}
}

func (s *RegionStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *RegionStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			// Empty keeps the compiled default
			state.App.Region = strings.TrimSpace(s.input.Value())
			return nil, nil
		}
	}
	return s, cmd
}

func (s *RegionStep) View(state *InstallState) string {
	return fmt.Sprintf("Default region for questions without a location:\n\n%s\n\n(press enter to accept, empty keeps the default)\n",
		s.input.View())
}
