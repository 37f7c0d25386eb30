package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TelegramTokenStep collects the bot token. Skipped when the Telegram
// channel was not selected.
type TelegramTokenStep struct {
	input textinput.Model
}

func NewTelegramTokenStep() Step {
	input := textinput.New()
	input.Placeholder = "123456:ABC-DEF..."
	input.Focus()
	input.CharLimit = 255
	input.Width = 40
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return &TelegramTokenStep{input: input}
}

func (s *TelegramTokenStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TelegramTokenStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.App.EnableTelegram {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			token := strings.TrimSpace(s.input.Value())
			if token == "" {
				return s, cmd
			}
			state.Telegram.Token = token
			return nil, nil
		}
	}
	return s, cmd
}

func (s *TelegramTokenStep) View(state *InstallState) string {
	return fmt.Sprintf("Enter your Telegram bot token:\n\n%s\n\n(press enter to confirm)\n",
		s.input.View())
}

// TelegramOwnerStep collects the numeric owner id the bot answers to.
type TelegramOwnerStep struct {
	input   textinput.Model
	invalid bool
}

func NewTelegramOwnerStep() Step {
	input := textinput.New()
	input.Placeholder = "123456789"
	input.Focus()
	input.CharLimit = 20
	input.Width = 40
	return &TelegramOwnerStep{input: input}
}

func (s *TelegramOwnerStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TelegramOwnerStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.App.EnableTelegram {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			id, err := strconv.ParseInt(strings.TrimSpace(s.input.Value()), 10, 64)
			if err != nil || id == 0 {
				s.invalid = true
				return s, cmd
			}
			state.Telegram.OwnerID = id
			return nil, nil
		}
	}
	return s, cmd
}

func (s *TelegramOwnerStep) View(state *InstallState) string {
	hint := ""
	if s.invalid {
		hint = errorStyle.Render("Owner id must be a non-zero integer") + "\n\n"
	}
	return fmt.Sprintf("Enter your Telegram user id (the bot answers only you):\n\n%s\n\n%s(press enter to confirm)\n",
		s.input.View(), hint)
}
