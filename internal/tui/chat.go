package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/tokenchat/internal/session"
	"github.com/naveenspark/tokenchat/pkg/domain"
)

// emojis is the palette offered by ctrl+e.
var emojis = []string{
	"😀", "😂", "😊", "😍", "🤔", "😎", "😢", "😮",
	"👍", "👎", "👋", "🙏", "🎉", "🔥", "🚀", "✅",
}

// counterThreshold is the draft length at which the rune counter appears.
const counterThreshold = maxInputLen - 100

// copyResultMsg carries the result of copying the room token.
type copyResultMsg struct {
	err error
}

// chatModel renders the active room: header, participant line, message log,
// and the inline input. The draft itself lives in the session.
type chatModel struct {
	width       int
	height      int
	scroll      int // lines scrolled up from bottom (0 = at bottom)
	emojiOpen   bool
	emojiCursor int
	status      string

	copyText func(string) error
}

// reset clears per-room view state after leaving a room.
func (m chatModel) reset() chatModel {
	m.scroll = 0
	m.emojiOpen = false
	m.emojiCursor = 0
	m.status = ""
	return m
}

func (m chatModel) Update(msg tea.Msg, s *session.Machine) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case copyResultMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = "token copied to clipboard"
		}
		return m, nil

	case tea.KeyMsg:
		if m.emojiOpen {
			return m.updateEmoji(msg, s), nil
		}
		return m.updateInput(msg, s)
	}
	return m, nil
}

func (m chatModel) updateInput(msg tea.KeyMsg, s *session.Machine) (chatModel, tea.Cmd) {
	key := msg.String()
	switch key {
	case "enter":
		s.SendMessage()
		m.scroll = 0
		m.status = ""
	case "esc":
		s.Back()
	case "ctrl+e":
		m.emojiOpen = true
	case "ctrl+y":
		token := s.Token().String()
		if token == "" || m.copyText == nil {
			return m, nil
		}
		copyText := m.copyText
		return m, func() tea.Msg {
			return copyResultMsg{err: copyText(token)}
		}
	case "up", "pgup":
		m.scroll++
	case "down", "pgdown":
		if m.scroll > 0 {
			m.scroll--
		}
	default:
		s.SetDraft(editRune(s.Draft(), key))
	}
	return m, nil
}

func (m chatModel) updateEmoji(msg tea.KeyMsg, s *session.Machine) chatModel {
	switch msg.String() {
	case "esc", "ctrl+e":
		m.emojiOpen = false
	case "left", "h", "shift+tab":
		if m.emojiCursor > 0 {
			m.emojiCursor--
		}
	case "right", "l", "tab":
		if m.emojiCursor < len(emojis)-1 {
			m.emojiCursor++
		}
	case "enter":
		s.AppendToDraft(emojis[m.emojiCursor])
		m.emojiOpen = false
	}
	return m
}

func (m chatModel) View(s *session.Machine, frame int, now time.Time) string {
	var b strings.Builder

	b.WriteString(m.renderHeader(s) + "\n")
	b.WriteString(m.renderUsers(s) + "\n")

	// Reserve lines: header(1) + users(1) + input(1) + palette/status.
	chrome := 3
	if m.emojiOpen {
		chrome++
	}
	if m.status != "" {
		chrome++
	}
	viewportHeight := m.height - chrome
	if viewportHeight < 2 {
		viewportHeight = 2
	}

	messages := s.Messages()
	switch {
	case !s.Connected():
		padLines(viewportHeight-1, &b)
		b.WriteString(" " + dimStyle.Render("connecting...") + "\n")
	case len(messages) == 0:
		padLines(viewportHeight-1, &b)
		b.WriteString(" " + dimStyle.Render("no messages yet · share the token so others can join") + "\n")
	default:
		b.WriteString(m.renderMessages(messages, s.UserName(), viewportHeight, now))
	}

	if m.emojiOpen {
		b.WriteString(m.renderPalette() + "\n")
	}
	b.WriteString(renderChatInput(s.UserName(), s.Draft(), "type a message...", frame))
	if n := utf8.RuneCountInString(s.Draft()); n >= counterThreshold {
		b.WriteString("  " + metaStyle.Render(fmt.Sprintf("%d/%d", n, maxInputLen)))
	}
	b.WriteByte('\n')
	if m.status != "" {
		b.WriteString(" " + dimStyle.Render(m.status))
	}
	return b.String()
}

func (m chatModel) renderHeader(s *session.Machine) string {
	sep := chatSepStyle.Render(" · ")
	parts := []string{
		dimStyle.Render("room ") + tokenStyle.Render(s.Token().String()),
		presenceDotStyle.Render("●") + " " + dimStyle.Render(fmt.Sprintf("%d online", len(s.Users()))),
		metaStyle.Render(s.Role().String()),
	}
	return " " + strings.Join(parts, sep)
}

func (m chatModel) renderUsers(s *session.Machine) string {
	users := s.Users()
	if len(users) == 0 {
		return ""
	}
	line := strings.Join(users, ", ")
	if m.width > 4 {
		line = truncStr(line, m.width-2)
	}
	return " " + metaStyle.Render(line)
}

func (m chatModel) renderPalette() string {
	var parts []string
	for i, e := range emojis {
		if i == m.emojiCursor {
			parts = append(parts, accentStyle.Render("[")+e+accentStyle.Render("]"))
			continue
		}
		parts = append(parts, " "+e+" ")
	}
	return " " + strings.Join(parts, "")
}

// renderMessages renders the message log clipped to viewportHeight lines,
// respecting the scroll offset. Newest messages appear at the bottom.
func (m chatModel) renderMessages(messages []domain.Message, self string, viewportHeight int, now time.Time) string {
	var allLines []string
	for _, msg := range messages {
		allLines = append(allLines, strings.Split(m.renderMessage(msg, self, now), "\n")...)
	}

	total := len(allLines)
	maxScroll := total - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	scroll := m.scroll
	if scroll > maxScroll {
		scroll = maxScroll
	}

	end := total - scroll
	start := end - viewportHeight
	if start < 0 {
		start = 0
	}
	visible := allLines[start:end]

	var b strings.Builder
	padLines(viewportHeight-len(visible), &b)
	for _, line := range visible {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// renderMessage renders a single message, wrapping text to the terminal width.
func (m chatModel) renderMessage(msg domain.Message, self string, now time.Time) string {
	if msg.IsSystem() {
		return " " + chatSysStyle.Render(fmt.Sprintf("— %s —", msg.Text))
	}

	timePart := metaStyle.Render(fmt.Sprintf("%8s", formatChatTime(msg.Timestamp.Time, now)))
	sep := chatSepStyle.Render(" · ")

	isSelf := msg.UserName == self
	namePart := nameStyle(msg.UserName).Render(msg.UserName)
	textStyle := chatTextStyle
	if isSelf {
		namePart = chatSelfNameStyle.Render(msg.UserName)
		textStyle = chatSelfTextStyle
	}

	// Visual width = 1 + 8 + 2 + len(name) + 3
	prefixWidth := 1 + 8 + 2 + lipgloss.Width(namePart) + 3
	bodyWidth := m.width - prefixWidth
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	wrapped := hardWrap(lipgloss.NewStyle().Width(bodyWidth).Render(msg.Text), bodyWidth)
	lines := strings.Split(wrapped, "\n")

	result := " " + timePart + "  " + namePart + sep + textStyle.Render(lines[0])
	if len(lines) > 1 {
		indent := strings.Repeat(" ", prefixWidth)
		for _, line := range lines[1:] {
			result += "\n" + indent + textStyle.Render(line)
		}
	}
	return result
}
