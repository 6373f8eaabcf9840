package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/tokenchat/internal/session"
	"github.com/naveenspark/tokenchat/pkg/domain"
)

const logoText = "TOKENCHAT"

// App is the root Bubbletea model. It renders whatever the session exposes
// and forwards key presses to it as user intent.
type App struct {
	session  *session.Machine
	version  string
	welcome  welcomeModel
	menu     menuModel
	chat     chatModel
	spinner  spinner.Model
	spinning bool
	lastView domain.View
	width    int
	height   int
	frame    int // logo shimmer and cursor blink
	now      func() time.Time
}

// NewApp creates a new TUI application driving s.
func NewApp(s *session.Machine, version string) App {
	return App{
		session:  s,
		version:  version,
		welcome:  newWelcomeModel(),
		menu:     newMenuModel(),
		chat:     chatModel{copyText: clipboard.WriteAll},
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		lastView: s.View(),
		now:      time.Now,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, shimmerTickCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + help(1) = 3 lines
		a.chat.width = msg.Width
		a.chat.height = msg.Height - 3
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case spinner.TickMsg:
		if a.session.Pending() == session.PendingNone {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case copyResultMsg:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg, a.session)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.session.Shutdown()
			return a, tea.Quit
		}
		// The notice captures all keys until dismissed.
		if a.session.Notice() != nil {
			switch msg.String() {
			case "enter", "esc", " ":
				a.session.DismissNotice()
			}
			return a, nil
		}
		if a.session.View() == domain.ViewMenu && !a.session.ModalOpen() && msg.String() == "q" {
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a, cmd = a.updateView(msg)
		return a.settle(cmd)
	}

	cmd := a.session.Update(msg)
	var viewCmd tea.Cmd
	a, viewCmd = a.updateView(msg)
	return a.settle(tea.Batch(cmd, viewCmd))
}

// updateView routes msg to the model for the session's current view.
func (a App) updateView(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.session.View() {
	case domain.ViewWelcome:
		a.welcome, cmd = a.welcome.Update(msg, a.session)
	case domain.ViewMenu:
		a.menu, cmd = a.menu.Update(msg, a.session)
	case domain.ViewChat:
		a.chat, cmd = a.chat.Update(msg, a.session)
	}
	return a, cmd
}

// settle reacts to session changes caused by the last update: it resets
// per-room view state on leaving a room and keeps the spinner running while
// an async step is pending.
func (a App) settle(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if v := a.session.View(); v != a.lastView {
		if a.lastView == domain.ViewChat {
			a.chat = a.chat.reset()
		}
		a.lastView = v
	}
	if !a.session.ModalOpen() && a.menu.token.Focused() {
		a.menu.token.Blur()
	}
	if a.session.Pending() != session.PendingNone && !a.spinning {
		a.spinning = true
		cmd = tea.Batch(cmd, a.spinner.Tick)
	}
	return a, cmd
}

func (a App) View() string {
	header := centerLine(renderShimmerLogo(logoText, a.frame), a.width) + "\n"

	var body, help string
	switch {
	case a.session.Notice() != nil:
		body = a.noticeView()
		help = " " + helpEntry("enter", "continue")
	case a.session.View() == domain.ViewWelcome:
		body = a.welcome.View(a.width, a.version)
		help = " " + helpEntry("enter", "continue") + "  " + helpEntry("ctrl+c", "quit")
	case a.session.View() == domain.ViewMenu && a.session.ModalOpen():
		body = a.menu.View(a.session, a.spinner.View(), a.width)
		help = " " + helpEntry("enter", "join") + "  " + helpEntry("esc", "cancel")
	case a.session.View() == domain.ViewMenu:
		body = a.menu.View(a.session, a.spinner.View(), a.width)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "select") + "  " + helpEntry("q", "quit")
	case a.chat.emojiOpen:
		body = a.chat.View(a.session, a.frame, a.now())
		help = " " + helpEntry("←/→", "pick") + "  " + helpEntry("enter", "insert") + "  " + helpEntry("esc", "close")
	default:
		body = a.chat.View(a.session, a.frame, a.now())
		help = " " + helpEntry("enter", "send") + "  " + helpEntry("ctrl+e", "emoji") + "  " + helpEntry("ctrl+y", "copy token") + "  " + helpEntry("↑/↓", "scroll") + "  " + helpEntry("esc", "leave")
	}

	chrome := 3
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s", header, body, help)
}

// noticeView renders the blocking notice shown after the session was ended
// from the other side.
func (a App) noticeView() string {
	notice := a.session.Notice()
	title := "Disconnected"
	if errors.Is(notice, session.ErrSessionExpired) {
		title = "Session expired"
	}
	content := goldStyle.Bold(true).Render(title) + "\n\n" +
		normalStyle.Render(session.Describe(notice)) + "\n\n" +
		metaStyle.Render("press enter to continue")

	var b strings.Builder
	b.WriteString("\n\n")
	for _, line := range strings.Split(noticeStyle.Render(content), "\n") {
		b.WriteString(centerLine(line, a.width) + "\n")
	}
	return b.String()
}
