package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/tokenchat/internal/session"
	"github.com/naveenspark/tokenchat/pkg/domain"
)

const (
	menuStartChat = iota
	menuJoinChat
)

var menuItems = []string{"Start New Chat", "Join Chat"}

// menuModel is the start/join chooser plus the token modal.
type menuModel struct {
	cursor int
	token  textinput.Model
}

func newMenuModel() menuModel {
	ti := textinput.New()
	ti.Placeholder = "AB12CD"
	ti.CharLimit = domain.TokenLen
	ti.Width = domain.TokenLen + 1
	ti.Prompt = "> "
	ti.PromptStyle = inputPromptStyle
	ti.PlaceholderStyle = inputPlaceholderStyle
	ti.TextStyle = tokenStyle
	return menuModel{token: ti}
}

func (m menuModel) Update(msg tea.Msg, s *session.Machine) (menuModel, tea.Cmd) {
	if s.ModalOpen() {
		return m.updateModal(msg, s)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok || s.Pending() != session.PendingNone {
		return m, nil
	}
	switch key.String() {
	case "j", "down":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor == menuStartChat {
			return m, s.StartChat()
		}
		s.OpenTokenModal()
		if s.ModalOpen() {
			m.token.SetValue("")
			return m, m.token.Focus()
		}
	}
	return m, nil
}

func (m menuModel) updateModal(msg tea.Msg, s *session.Machine) (menuModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			s.CancelTokenModal()
			m.token.Blur()
			return m, nil
		case "enter":
			return m, s.SubmitToken(m.token.Value())
		}
		if s.Pending() == session.PendingValidate {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.token, cmd = m.token.Update(msg)
	// Tokens are case-insensitive; show them the way the server issues them.
	if v := m.token.Value(); strings.ToUpper(v) != v {
		m.token.SetValue(strings.ToUpper(v))
	}
	return m, cmd
}

func (m menuModel) View(s *session.Machine, spin string, width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centerLine(normalStyle.Render("Hi, ")+selectedStyle.Render(s.UserName()), width) + "\n\n")

	for i, item := range menuItems {
		line := "  " + dimStyle.Render(item)
		if i == m.cursor {
			line = accentStyle.Render("> ") + selectedStyle.Render(item)
		}
		b.WriteString(centerLine(line, width) + "\n")
	}

	if s.Pending() == session.PendingGenerate {
		b.WriteString("\n" + centerLine(spin+" "+dimStyle.Render("creating room..."), width) + "\n")
	}

	if s.ModalOpen() {
		b.WriteString("\n")
		for _, line := range strings.Split(m.modalView(s, spin), "\n") {
			b.WriteString(centerLine(line, width) + "\n")
		}
	}
	return b.String()
}

func (m menuModel) modalView(s *session.Machine, spin string) string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("Join a chat") + "\n\n")
	b.WriteString(dimStyle.Render("Enter the room token") + "\n")
	b.WriteString(m.token.View())
	switch {
	case s.Pending() == session.PendingValidate:
		b.WriteString("\n\n" + spin + " " + dimStyle.Render("checking..."))
	case s.ModalError() != "":
		b.WriteString("\n\n" + errorStyle.Render(s.ModalError()))
	}
	return modalStyle.Render(b.String())
}
