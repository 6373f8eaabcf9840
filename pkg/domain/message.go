package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// MessageKind distinguishes user-authored messages from system entries.
type MessageKind string

const (
	KindUser         MessageKind = "user"
	KindSystem       MessageKind = "system" // system note sent by the server
	KindConnected    MessageKind = "connected"
	KindDisconnected MessageKind = "disconnected"
)

// MessageID identifies a message within a feed. Server-assigned ids and ids
// minted locally for system messages live in separate namespaces and never
// compare equal, even when their text is the same.
type MessageID struct {
	value string
	local bool
}

// RemoteID wraps a server-assigned message id.
func RemoteID(v string) MessageID { return MessageID{value: v} }

// LocalID returns the n-th locally minted id.
func LocalID(n uint64) MessageID {
	return MessageID{value: strconv.FormatUint(n, 10), local: true}
}

// IsLocal reports whether the id was minted by this client.
func (id MessageID) IsLocal() bool { return id.local }

// IsZero reports whether the id is unset.
func (id MessageID) IsZero() bool { return id.value == "" }

func (id MessageID) String() string {
	if id.local {
		return "local:" + id.value
	}
	return id.value
}

// MarshalJSON encodes the id as a string.
func (id MessageID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts a string or a number; the result is always a remote id.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = MessageID{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("message id: %w", err)
		}
		*id = RemoteID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("message id: %w", err)
		}
		*id = RemoteID(n.String())
		return nil
	}
}

// Timestamp is a message time that decodes from RFC 3339 strings or unix milliseconds.
// It is informational only; feeds never order by it.
type Timestamp struct {
	time.Time
}

// MarshalJSON encodes the time as RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts RFC 3339 strings, unix millisecond numbers, or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		t.Time = parsed
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = time.UnixMilli(ms)
	return nil
}

// Message is one entry in a room's feed: either a user message or a system entry.
type Message struct {
	ID        MessageID   `json:"id"`
	Kind      MessageKind `json:"type,omitempty"`
	UserName  string      `json:"userName,omitempty"`
	Text      string      `json:"text"`
	Timestamp Timestamp   `json:"timestamp"`
}

// IsSystem reports whether the message was not authored by a user.
func (m Message) IsSystem() bool {
	return m.Kind != "" && m.Kind != KindUser
}

// NewSystemMessage builds a presence entry for userName. Only KindConnected
// and KindDisconnected produce presence text; any other kind yields a generic note.
func NewSystemMessage(id MessageID, kind MessageKind, userName string, at time.Time) Message {
	var text string
	switch kind {
	case KindConnected:
		text = userName + " is connected"
	case KindDisconnected:
		text = userName + " has disconnected"
	default:
		text = userName
	}
	return Message{
		ID:        id,
		Kind:      kind,
		Text:      text,
		Timestamp: Timestamp{Time: at},
	}
}
