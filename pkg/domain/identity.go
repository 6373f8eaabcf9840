package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	// MaxUserNameLen is the maximum display name length in runes.
	MaxUserNameLen = 20
	// TokenLen is the length of a room token.
	TokenLen = 6
	// MaxMessageLen is the maximum chat message length in runes.
	MaxMessageLen = 500
)

var (
	// ErrEmptyUserName is returned when a display name is blank after trimming.
	ErrEmptyUserName = errors.New("user name is empty")
	// ErrUserNameTooLong is returned when a display name exceeds MaxUserNameLen.
	ErrUserNameTooLong = errors.New("user name is too long")
)

// NormalizeUserName trims raw and checks it against the display name rules.
func NormalizeUserName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrEmptyUserName
	}
	if utf8.RuneCountInString(name) > MaxUserNameLen {
		return "", ErrUserNameTooLong
	}
	return name, nil
}

// RoomToken is the short shared code that gates membership in one room.
type RoomToken string

// NewRoomToken normalizes user or server input into token form (trimmed, uppercase).
func NewRoomToken(raw string) RoomToken {
	return RoomToken(strings.ToUpper(strings.TrimSpace(raw)))
}

// String returns the token text.
func (t RoomToken) String() string { return string(t) }

// Role records how the session obtained its room token.
type Role int

const (
	RoleNone Role = iota
	RoleCreator
	RoleJoiner
)

// IsCreator reports whether the session generated the room token.
func (r Role) IsCreator() bool { return r == RoleCreator }

func (r Role) String() string {
	switch r {
	case RoleCreator:
		return "creator"
	case RoleJoiner:
		return "joiner"
	default:
		return "none"
	}
}

// View is the top-level screen of a session. The token modal is an overlay, not a view.
type View int

const (
	ViewWelcome View = iota
	ViewMenu
	ViewChat
)

func (v View) String() string {
	switch v {
	case ViewWelcome:
		return "welcome"
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	default:
		return "unknown"
	}
}

// SendableText trims text and reports whether it can be sent as a chat message.
func SendableText(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxMessageLen {
		return "", false
	}
	return trimmed, true
}
