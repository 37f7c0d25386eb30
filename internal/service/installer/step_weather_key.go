package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// WeatherKeyStep collects the optional WeatherAPI key. Without it the
// structured weather tier is skipped and the resolver falls back to search.
type WeatherKeyStep struct {
	input textinput.Model
}

func NewWeatherKeyStep() Step {
	input := textinput.New()
	input.Placeholder = "Optional - press Enter to skip"
	input.Focus()
	input.CharLimit = 255
	input.Width = 40
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return &WeatherKeyStep{input: input}
}

func (s *WeatherKeyStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *WeatherKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			state.Weather.APIKey = strings.TrimSpace(s.input.Value())
			return nil, nil
		}
	}
	return s, cmd
}

func (s *WeatherKeyStep) View(state *InstallState) string {
	return fmt.Sprintf("WeatherAPI key for live forecasts (optional):\n\n%s\n\n(press enter to confirm)\n",
		s.input.View())
}
