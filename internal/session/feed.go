package session

import "github.com/naveenspark/tokenchat/pkg/domain"

// Feed is the append-only message log of the active room. Entries keep
// insertion order and are never edited, re-sorted, or de-duplicated.
type Feed struct {
	messages []domain.Message
}

// Append adds msg to the end of the feed.
func (f *Feed) Append(msg domain.Message) {
	f.messages = append(f.messages, msg)
}

// Replace discards every entry and installs a copy of msgs.
func (f *Feed) Replace(msgs []domain.Message) {
	f.messages = append([]domain.Message(nil), msgs...)
}

// Reset empties the feed.
func (f *Feed) Reset() {
	f.messages = nil
}

// Len returns the number of entries.
func (f *Feed) Len() int { return len(f.messages) }

// Messages returns a copy of the entries in append order.
func (f *Feed) Messages() []domain.Message {
	return append([]domain.Message(nil), f.messages...)
}
