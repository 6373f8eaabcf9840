// Package session holds the chat client's state machine: the current view,
// the user's identity, the room they are in, and the realtime channel that
// backs it. Presentation code reads state through accessors and forwards
// user intent through methods; async results come back as tea messages.
package session

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/naveenspark/tokenchat/pkg/domain"
	"github.com/naveenspark/tokenchat/pkg/realtime"
)

// Gateway issues and validates room tokens.
type Gateway interface {
	GenerateToken(ctx context.Context) (domain.RoomToken, error)
	ValidateToken(ctx context.Context, candidate string) (bool, error)
}

// Channel is a realtime connection to one room.
type Channel interface {
	ID() string
	Join(token domain.RoomToken, userName string, role domain.Role) error
	Send(token domain.RoomToken, userName, text string) error
	Events() <-chan realtime.Event
	Close() error
}

// Dialer opens a new realtime channel.
type Dialer func(ctx context.Context) (Channel, error)

// Pending names the async step the machine is waiting on.
type Pending int

const (
	PendingNone Pending = iota
	PendingGenerate
	PendingValidate
	PendingConnect
)

func (p Pending) String() string {
	switch p {
	case PendingGenerate:
		return "generating"
	case PendingValidate:
		return "validating"
	case PendingConnect:
		return "connecting"
	default:
		return "idle"
	}
}

// Async results. Each carries the epoch it was started in; results from an
// older epoch are dropped.
type (
	tokenGeneratedMsg struct {
		epoch uint64
		token domain.RoomToken
		err   error
	}
	tokenValidatedMsg struct {
		epoch uint64
		token domain.RoomToken
		valid bool
		err   error
	}
	channelOpenedMsg struct {
		epoch uint64
		ch    Channel
		err   error
	}
	channelEventMsg struct {
		channelID string
		event     realtime.Event
		closed    bool
	}
)

// Options configures New.
type Options struct {
	Logger zerolog.Logger
	// Now stamps locally minted system messages. Defaults to time.Now.
	Now func() time.Time
}

// Machine is the session state machine. It is not safe for concurrent use;
// the tea runtime calls it from a single goroutine.
type Machine struct {
	gateway Gateway
	dial    Dialer
	log     zerolog.Logger
	now     func() time.Time

	view     domain.View
	userName string
	token    domain.RoomToken
	role     domain.Role

	modalOpen bool
	modalErr  error

	pending Pending
	epoch   uint64

	channel Channel
	feed    Feed
	users   []string
	draft   string
	notice  error

	localSeq uint64
}

// New returns a machine in the Welcome view.
func New(gw Gateway, dial Dialer, opts Options) *Machine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Machine{
		gateway: gw,
		dial:    dial,
		log:     opts.Logger,
		now:     now,
		view:    domain.ViewWelcome,
	}
}

func (m *Machine) View() domain.View { return m.view }
func (m *Machine) UserName() string { return m.userName }
func (m *Machine) Token() domain.RoomToken { return m.token }
func (m *Machine) Role() domain.Role { return m.role }
func (m *Machine) Pending() Pending { return m.pending }
func (m *Machine) Draft() string { return m.draft }
func (m *Machine) ModalOpen() bool { return m.modalOpen }
func (m *Machine) Messages() []domain.Message { return m.feed.Messages() }

// Users returns the participants from the last room snapshot.
func (m *Machine) Users() []string { return append([]string(nil), m.users...) }

// Connected reports whether a realtime channel is held.
func (m *Machine) Connected() bool { return m.channel != nil }

// ModalError is the token form's error text, empty when there is none.
func (m *Machine) ModalError() string { return Describe(m.modalErr) }

// Notice returns the blocking notice, if any.
func (m *Machine) Notice() error { return m.notice }

// DismissNotice clears the blocking notice.
func (m *Machine) DismissNotice() { m.notice = nil }

// SubmitName confirms the user's display name and moves Welcome to Menu.
// It does nothing outside Welcome.
func (m *Machine) SubmitName(raw string) error {
	if m.view != domain.ViewWelcome {
		return nil
	}
	name, err := domain.NormalizeUserName(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	m.userName = name
	m.view = domain.ViewMenu
	m.log.Info().Str("user", name).Msg("name set")
	return nil
}

// StartChat requests a fresh room token. On success the user enters the room
// as its creator. A failure is logged and leaves the menu as it was.
func (m *Machine) StartChat() tea.Cmd {
	if m.view != domain.ViewMenu || m.modalOpen || m.pending != PendingNone {
		return nil
	}
	m.pending = PendingGenerate
	epoch := m.bump()
	gw := m.gateway
	return func() tea.Msg {
		token, err := gw.GenerateToken(context.Background())
		return tokenGeneratedMsg{epoch: epoch, token: token, err: err}
	}
}

// OpenTokenModal shows the join form.
func (m *Machine) OpenTokenModal() {
	if m.view != domain.ViewMenu || m.pending != PendingNone {
		return
	}
	m.modalOpen = true
	m.modalErr = nil
}

// CancelTokenModal closes the join form. An in-flight validation is abandoned.
func (m *Machine) CancelTokenModal() {
	if !m.modalOpen {
		return
	}
	m.modalOpen = false
	m.modalErr = nil
	if m.pending == PendingValidate {
		m.pending = PendingNone
		m.bump()
	}
}

// SubmitToken validates raw as a room token. Blank input is rejected locally.
func (m *Machine) SubmitToken(raw string) tea.Cmd {
	if !m.modalOpen || m.pending != PendingNone {
		return nil
	}
	token := domain.NewRoomToken(raw)
	if token == "" {
		m.modalErr = errEmptyToken
		return nil
	}
	m.modalErr = nil
	m.pending = PendingValidate
	epoch := m.bump()
	gw := m.gateway
	return func() tea.Msg {
		valid, err := gw.ValidateToken(context.Background(), token.String())
		return tokenValidatedMsg{epoch: epoch, token: token, valid: valid, err: err}
	}
}

// SetDraft replaces the message being composed.
func (m *Machine) SetDraft(text string) {
	if m.view != domain.ViewChat {
		return
	}
	m.draft = text
}

// AppendToDraft adds text (typically an emoji) to the end of the draft.
func (m *Machine) AppendToDraft(text string) {
	if m.view != domain.ViewChat {
		return
	}
	m.draft += text
}

// SendMessage emits the draft and clears it. Blank or oversized drafts are
// left in place and nothing is sent. The feed only changes when the server
// echoes the message back.
func (m *Machine) SendMessage() {
	if m.view != domain.ViewChat || m.channel == nil {
		return
	}
	if _, ok := domain.SendableText(m.draft); !ok {
		return
	}
	if err := m.channel.Send(m.token, m.userName, m.draft); err != nil {
		m.log.Warn().Err(err).Str("channel", m.channel.ID()).Msg("send failed")
		return
	}
	m.draft = ""
}

// Back leaves the room and returns to Menu.
func (m *Machine) Back() {
	if m.view != domain.ViewChat {
		return
	}
	m.log.Info().Str("token", m.token.String()).Msg("left room")
	m.leaveChat(nil)
}

// Shutdown releases the realtime channel, if any. Call it before exiting.
func (m *Machine) Shutdown() {
	if m.view == domain.ViewChat {
		m.leaveChat(nil)
	}
}

// Update applies an async result and returns any follow-up command.
// Messages it does not own are ignored.
func (m *Machine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tokenGeneratedMsg:
		return m.handleGenerated(msg)
	case tokenValidatedMsg:
		return m.handleValidated(msg)
	case channelOpenedMsg:
		return m.handleOpened(msg)
	case channelEventMsg:
		return m.handleEvent(msg)
	}
	return nil
}

func (m *Machine) handleGenerated(msg tokenGeneratedMsg) tea.Cmd {
	if msg.epoch != m.epoch || m.pending != PendingGenerate {
		return nil
	}
	m.pending = PendingNone
	if msg.err != nil {
		m.log.Error().Err(msg.err).Msg("generate token failed")
		return nil
	}
	m.token = msg.token
	m.role = domain.RoleCreator
	return m.enterChat()
}

func (m *Machine) handleValidated(msg tokenValidatedMsg) tea.Cmd {
	if msg.epoch != m.epoch || m.pending != PendingValidate {
		return nil
	}
	m.pending = PendingNone
	switch {
	case msg.err != nil:
		m.log.Warn().Err(msg.err).Msg("validate token failed")
		m.modalErr = fmt.Errorf("%w: %v", ErrNetwork, msg.err)
		return nil
	case !msg.valid:
		m.log.Info().Str("token", msg.token.String()).Msg("token rejected")
		m.modalErr = ErrInvalidToken
		return nil
	}
	m.modalOpen = false
	m.modalErr = nil
	m.token = msg.token
	m.role = domain.RoleJoiner
	return m.enterChat()
}

func (m *Machine) enterChat() tea.Cmd {
	m.view = domain.ViewChat
	m.feed.Reset()
	m.users = nil
	m.draft = ""
	m.pending = PendingConnect
	epoch := m.bump()
	m.log.Info().Str("token", m.token.String()).Stringer("role", m.role).Msg("entering room")

	dial := m.dial
	return func() tea.Msg {
		ch, err := dial(context.Background())
		return channelOpenedMsg{epoch: epoch, ch: ch, err: err}
	}
}

func (m *Machine) handleOpened(msg channelOpenedMsg) tea.Cmd {
	if msg.epoch != m.epoch || m.view != domain.ViewChat || m.channel != nil {
		if msg.ch != nil {
			msg.ch.Close() //nolint:errcheck // stale channel
		}
		return nil
	}
	m.pending = PendingNone
	if msg.err != nil {
		m.log.Error().Err(msg.err).Msg("open channel failed")
		m.leaveChat(ErrConnectFailed)
		return nil
	}

	m.channel = msg.ch
	if err := m.channel.Join(m.token, m.userName, m.role); err != nil {
		m.log.Error().Err(err).Str("channel", m.channel.ID()).Msg("join failed")
		m.leaveChat(ErrConnectFailed)
		return nil
	}
	return waitForEvent(m.channel)
}

func (m *Machine) handleEvent(msg channelEventMsg) tea.Cmd {
	if m.channel == nil || msg.channelID != m.channel.ID() {
		return nil
	}
	if msg.closed {
		m.leaveChat(ErrConnectionLost)
		return nil
	}

	switch ev := msg.event.(type) {
	case realtime.RoomJoined:
		m.feed.Replace(ev.Messages)
		m.users = append([]string(nil), ev.Users...)
	case realtime.NewMessage:
		m.feed.Append(ev.Message)
	case realtime.UserConnected:
		m.feed.Append(domain.NewSystemMessage(m.nextLocalID(), domain.KindConnected, ev.UserName, m.now()))
	case realtime.UserDisconnected:
		m.feed.Append(domain.NewSystemMessage(m.nextLocalID(), domain.KindDisconnected, ev.UserName, m.now()))
	case realtime.SessionExpired:
		m.log.Info().Str("token", m.token.String()).Msg("session expired")
		m.leaveChat(ErrSessionExpired)
		return nil
	case realtime.Disconnected:
		m.log.Warn().Err(ev.Err).Str("channel", msg.channelID).Msg("connection lost")
		m.leaveChat(ErrConnectionLost)
		return nil
	}
	return waitForEvent(m.channel)
}

// leaveChat releases the channel, clears room state, and returns to Menu.
// The name is kept.
func (m *Machine) leaveChat(notice error) {
	if m.channel != nil {
		if err := m.channel.Close(); err != nil {
			m.log.Warn().Err(err).Str("channel", m.channel.ID()).Msg("close channel")
		}
		m.channel = nil
	}
	m.token = ""
	m.role = domain.RoleNone
	m.feed.Reset()
	m.users = nil
	m.draft = ""
	m.pending = PendingNone
	m.modalOpen = false
	m.modalErr = nil
	m.bump()
	m.view = domain.ViewMenu
	m.notice = notice
}

func (m *Machine) bump() uint64 {
	m.epoch++
	return m.epoch
}

func (m *Machine) nextLocalID() domain.MessageID {
	m.localSeq++
	return domain.LocalID(m.localSeq)
}

// waitForEvent reads the next event from ch. It is re-armed after every
// event so exactly one read is outstanding per channel.
func waitForEvent(ch Channel) tea.Cmd {
	id := ch.ID()
	events := ch.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return channelEventMsg{channelID: id, closed: true}
		}
		return channelEventMsg{channelID: id, event: ev}
	}
}
