package session

import (
	"testing"
	"time"

	"github.com/naveenspark/tokenchat/pkg/domain"
)

func userMsg(id, name, text string, at time.Time) domain.Message {
	return domain.Message{
		ID:        domain.RemoteID(id),
		Kind:      domain.KindUser,
		UserName:  name,
		Text:      text,
		Timestamp: domain.Timestamp{Time: at},
	}
}

func TestFeedKeepsAppendOrder(t *testing.T) {
	var f Feed
	now := time.Now()
	// Timestamps run backwards; order must still follow appends.
	f.Append(userMsg("a", "Ann", "first", now))
	f.Append(userMsg("b", "Bo", "second", now.Add(-time.Hour)))
	f.Append(domain.NewSystemMessage(domain.LocalID(1), domain.KindConnected, "Cy", now.Add(-2*time.Hour)))

	got := f.Messages()
	want := []string{"first", "second", "Cy is connected"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Text != want[i] {
			t.Errorf("messages[%d].Text = %q, want %q", i, got[i].Text, want[i])
		}
	}
}

func TestFeedReplaceDiscardsOldEntries(t *testing.T) {
	var f Feed
	f.Append(userMsg("old", "Ann", "from the previous room", time.Now()))

	snapshot := []domain.Message{userMsg("n1", "Bo", "hello", time.Now())}
	f.Replace(snapshot)

	got := f.Messages()
	if len(got) != 1 || got[0].ID != domain.RemoteID("n1") {
		t.Fatalf("messages = %+v, want only n1", got)
	}

	// The feed owns its copy of the snapshot.
	snapshot[0].Text = "mutated"
	if f.Messages()[0].Text != "hello" {
		t.Error("Replace() kept a reference to the caller's slice")
	}
}

func TestFeedReplaceWithEmptySnapshot(t *testing.T) {
	var f Feed
	f.Append(userMsg("x", "Ann", "stale", time.Now()))
	f.Replace(nil)
	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0", f.Len())
	}
}

func TestFeedMessagesReturnsCopy(t *testing.T) {
	var f Feed
	f.Append(userMsg("a", "Ann", "hi", time.Now()))
	got := f.Messages()
	got[0].Text = "changed"
	if f.Messages()[0].Text != "hi" {
		t.Error("Messages() exposed internal storage")
	}
}

func TestFeedReset(t *testing.T) {
	var f Feed
	f.Append(userMsg("a", "Ann", "hi", time.Now()))
	f.Reset()
	if f.Len() != 0 {
		t.Errorf("Len() = %d after Reset, want 0", f.Len())
	}
}
