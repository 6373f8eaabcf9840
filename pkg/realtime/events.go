package realtime

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/naveenspark/tokenchat/pkg/domain"
)

// Wire event names.
const (
	EventJoinRoom         = "joinRoom"
	EventSendMessage      = "sendMessage"
	EventRoomJoined       = "roomJoined"
	EventNewMessage       = "newMessage"
	EventUserConnected    = "userConnected"
	EventUserDisconnected = "userDisconnected"
	EventSessionExpired   = "sessionExpired"
)

// Frame is one websocket text message in either direction.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinRoomPayload is the client's request to enter a room.
type JoinRoomPayload struct {
	Token     string `json:"token"`
	UserName  string `json:"userName"`
	IsCreator bool   `json:"isCreator"`
}

// SendMessagePayload carries one outbound chat message.
type SendMessagePayload struct {
	Token    string `json:"token"`
	Message  string `json:"message"`
	UserName string `json:"userName"`
}

// Event is an inbound server event, or Disconnected when the transport drops.
type Event interface {
	eventName() string
}

// RoomJoined is the snapshot delivered after a successful join.
type RoomJoined struct {
	Users    []string         `json:"users"`
	Messages []domain.Message `json:"messages"`
}

// NewMessage carries one chat message, including echoes of our own sends.
type NewMessage struct {
	Message domain.Message `json:"message"`
}

// UserConnected reports a participant entering the room.
type UserConnected struct {
	UserName string `json:"userName"`
}

// UserDisconnected reports a participant leaving the room.
type UserDisconnected struct {
	UserName string `json:"userName"`
}

// SessionExpired reports that the server closed the room for inactivity.
type SessionExpired struct{}

// Disconnected is synthesized locally when the connection ends without Close.
type Disconnected struct {
	Err error
}

func (RoomJoined) eventName() string       { return EventRoomJoined }
func (NewMessage) eventName() string       { return EventNewMessage }
func (UserConnected) eventName() string    { return EventUserConnected }
func (UserDisconnected) eventName() string { return EventUserDisconnected }
func (SessionExpired) eventName() string   { return EventSessionExpired }
func (Disconnected) eventName() string     { return "disconnected" }

// ErrUnknownEvent is returned by DecodeEvent for event names it does not handle.
var ErrUnknownEvent = errors.New("unknown event")

// EncodeFrame marshals an outbound event.
func EncodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event, err)
	}
	out, err := json.Marshal(Frame{Event: event, Data: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}
	return out, nil
}

// DecodeEvent parses an inbound frame into its typed event.
func DecodeEvent(raw []byte) (Event, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	var ev Event
	switch f.Event {
	case EventRoomJoined:
		var p RoomJoined
		if err := decodeData(f, &p); err != nil {
			return nil, err
		}
		ev = p
	case EventNewMessage:
		var p NewMessage
		if err := decodeData(f, &p); err != nil {
			return nil, err
		}
		ev = p
	case EventUserConnected:
		var p UserConnected
		if err := decodeData(f, &p); err != nil {
			return nil, err
		}
		ev = p
	case EventUserDisconnected:
		var p UserDisconnected
		if err := decodeData(f, &p); err != nil {
			return nil, err
		}
		ev = p
	case EventSessionExpired:
		ev = SessionExpired{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, f.Event)
	}
	return ev, nil
}

func decodeData(f Frame, out any) error {
	if len(f.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(f.Data, out); err != nil {
		return fmt.Errorf("decode %s: %w", f.Event, err)
	}
	return nil
}
