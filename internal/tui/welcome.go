package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/tokenchat/internal/session"
	"github.com/naveenspark/tokenchat/pkg/domain"
)

// welcomeModel asks for the user's display name.
type welcomeModel struct {
	input textinput.Model
	err   string
}

func newWelcomeModel() welcomeModel {
	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = domain.MaxUserNameLen
	ti.Width = domain.MaxUserNameLen + 1
	ti.Prompt = "> "
	ti.PromptStyle = inputPromptStyle
	ti.PlaceholderStyle = inputPlaceholderStyle
	ti.TextStyle = selectedStyle
	ti.Focus()
	return welcomeModel{input: ti}
}

func (m welcomeModel) Update(msg tea.Msg, s *session.Machine) (welcomeModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "enter" {
			if err := s.SubmitName(m.input.Value()); err != nil {
				m.err = session.Describe(err)
				return m, nil
			}
			m.err = ""
			m.input.Blur()
			return m, nil
		}
		m.err = ""
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m welcomeModel) View(width int, version string) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centerLine(normalStyle.Render("Welcome. What should we call you?"), width) + "\n\n")
	b.WriteString(centerLine(m.input.View(), width) + "\n")
	if m.err != "" {
		b.WriteString("\n" + centerLine(errorStyle.Render(m.err), width) + "\n")
	}
	if version != "" {
		b.WriteString("\n\n" + centerLine(metaStyle.Render(version), width) + "\n")
	}
	return b.String()
}
