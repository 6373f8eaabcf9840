package session

import (
	"errors"
	"fmt"

	"github.com/naveenspark/tokenchat/pkg/client"
	"github.com/naveenspark/tokenchat/pkg/domain"
)

// Error taxonomy. Every error ends only the operation that raised it; the
// session always settles in Menu or in Chat with its feed unchanged.
var (
	// ErrValidation covers input rejected locally and never sent.
	ErrValidation = errors.New("validation error")
	// ErrNetwork covers transport and parse failures of gateway calls.
	ErrNetwork = client.ErrNetwork
	// ErrInvalidToken means the server explicitly rejected a room token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSessionExpired means the server ended the room for inactivity.
	ErrSessionExpired = errors.New("session expired")
	// ErrConnectFailed means the realtime channel could not be opened or joined.
	ErrConnectFailed = errors.New("could not connect")
	// ErrConnectionLost means the realtime channel dropped while in chat.
	ErrConnectionLost = errors.New("connection lost")

	errEmptyToken = fmt.Errorf("%w: empty token", ErrValidation)
)

// User-facing text for the errors above.
const (
	MsgEmptyName        = "Please enter your name"
	MsgNameTooLong      = "Name is too long"
	MsgEmptyToken       = "Please enter a token"
	MsgInvalidToken     = "Invalid token. Please check and try again."
	MsgValidationFailed = "Error validating token. Please try again."
	MsgSessionExpired   = "Your chat session has expired due to inactivity."
	MsgConnectFailed    = "Could not connect to chat."
	MsgConnectionLost   = "Connection lost."
)

// Describe maps an error from this package to the text shown to the user.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errEmptyToken):
		return MsgEmptyToken
	case errors.Is(err, ErrInvalidToken):
		return MsgInvalidToken
	case errors.Is(err, ErrSessionExpired):
		return MsgSessionExpired
	case errors.Is(err, ErrConnectFailed):
		return MsgConnectFailed
	case errors.Is(err, ErrConnectionLost):
		return MsgConnectionLost
	case errors.Is(err, ErrNetwork):
		return MsgValidationFailed
	case errors.Is(err, domain.ErrUserNameTooLong):
		return MsgNameTooLong
	case errors.Is(err, ErrValidation):
		return MsgEmptyName
	default:
		return err.Error()
	}
}
