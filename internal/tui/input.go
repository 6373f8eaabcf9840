package tui

import (
	"unicode/utf8"

	"github.com/naveenspark/tokenchat/pkg/domain"
)

// maxInputLen is the maximum number of runes allowed in the chat input.
const maxInputLen = domain.MaxMessageLen

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderChatInput renders the inline text input under the message log.
func renderChatInput(name, input, placeholder string, frame int) string {
	const timeIndent = "           " // lines up with " " + 8-char time + "  "

	sep := chatSepStyle.Render(" · ")
	namePart := chatInputNameStyle.Render(name)
	cursor := " "
	if (frame/4)%2 == 0 {
		cursor = accentStyle.Render("█")
	}
	if input == "" {
		return timeIndent + namePart + sep + cursor + inputPlaceholderStyle.Render(placeholder)
	}
	return timeIndent + namePart + sep + chatComposingStyle.Render(input) + cursor
}
