package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/naveenspark/tokenchat/pkg/domain"
)

const (
	writeWait   = 10 * time.Second
	sendBuffer  = 16
	eventBuffer = 64
)

var (
	// ErrClosed is returned when emitting on a channel that has been closed.
	ErrClosed = errors.New("channel closed")
	// ErrSendQueueFull is returned when the outbound queue cannot take another frame.
	ErrSendQueueFull = errors.New("send queue full")
)

// Options configures Open.
type Options struct {
	DialTimeout time.Duration
	Header      http.Header
	Logger      zerolog.Logger
}

// Channel is one realtime connection to the chat server. Inbound events are
// delivered on Events in the order the server sent them; the stream is
// closed once the connection ends.
type Channel struct {
	id   string
	conn *websocket.Conn
	log  zerolog.Logger

	send   chan []byte
	events chan Event
	done   chan struct{}

	closeOnce sync.Once
}

// Open dials url and starts the read and write loops. It must succeed before
// Join or Send can be used.
func Open(ctx context.Context, url string, opts Options) (*Channel, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.DialTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, url, opts.Header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close() //nolint:errcheck // handshake body is not used
	}
	if err != nil {
		return nil, fmt.Errorf("realtime.Open: %w", err)
	}

	id := uuid.NewString()
	c := &Channel{
		id:     id,
		conn:   conn,
		log:    opts.Logger.With().Str("channel", id).Logger(),
		send:   make(chan []byte, sendBuffer),
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	c.log.Debug().Str("url", url).Msg("channel opened")
	go c.writeLoop()
	go c.readLoop()
	return c, nil
}

// ID returns the channel's correlation id.
func (c *Channel) ID() string { return c.id }

// Events returns the inbound event stream.
func (c *Channel) Events() <-chan Event { return c.events }

// Join asks the server to associate this connection with the room.
func (c *Channel) Join(token domain.RoomToken, userName string, role domain.Role) error {
	return c.emit(EventJoinRoom, JoinRoomPayload{
		Token:     token.String(),
		UserName:  userName,
		IsCreator: role.IsCreator(),
	})
}

// Send emits a chat message. Text that is blank after trimming or longer than
// domain.MaxMessageLen is dropped without error. Delivery is confirmed only by
// the server echoing the message back as a NewMessage event.
func (c *Channel) Send(token domain.RoomToken, userName, text string) error {
	body, ok := domain.SendableText(text)
	if !ok {
		return nil
	}
	return c.emit(EventSendMessage, SendMessagePayload{
		Token:    token.String(),
		Message:  body,
		UserName: userName,
	})
}

// Close releases the connection. It is safe to call more than once.
func (c *Channel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)) //nolint:errcheck // peer may already be gone
		err = c.conn.Close()
		c.log.Debug().Msg("channel closed")
	})
	return err
}

func (c *Channel) emit(event string, data any) error {
	payload, err := EncodeFrame(event, data)
	if err != nil {
		return fmt.Errorf("realtime.%s: %w", event, err)
	}
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return ErrClosed
	default:
		return ErrSendQueueFull
	}
}

func (c *Channel) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Channel) readLoop() {
	defer close(c.events)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.closed() {
				return
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn().Err(err).Msg("read failed")
			}
			c.deliver(Disconnected{Err: err})
			c.Close() //nolint:errcheck // already disconnected
			return
		}

		ev, err := DecodeEvent(data)
		if err != nil {
			c.log.Warn().Err(err).Msg("skipping frame")
			continue
		}
		if !c.deliver(ev) {
			return
		}
	}
}

// deliver hands ev to the consumer, giving up once the channel is closed.
func (c *Channel) deliver(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.done:
		return false
	}
}

func (c *Channel) writeLoop() {
	for {
		select {
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.Warn().Err(err).Msg("set write deadline")
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Warn().Err(err).Msg("write failed")
				c.conn.Close() //nolint:errcheck // readLoop reports the disconnect
				return
			}
		case <-c.done:
			return
		}
	}
}
