package model

import (
	"testing"
	"time"
)

func TestConversationLogAppendKeepsOrder(t *testing.T) {
	log := NewConversationLog()
	log.Append(Entry{Role: RoleUser, Content: "first"})
	log.Append(Entry{Role: RoleAssistant, Content: "second"})
	log.Append(Entry{Role: RoleUser, Content: "third"})

	entries := log.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"first", "second", "third"} {
		if entries[i].Content != want {
			t.Errorf("entry %d: expected %q, got %q", i, want, entries[i].Content)
		}
	}
}

func TestConversationLogAppendDefaults(t *testing.T) {
	log := NewConversationLog()
	log.Append(Entry{Role: RoleUser, Content: "hello"})

	e := log.At(0)
	if e.Kind != KindChat {
		t.Errorf("expected default kind %q, got %q", KindChat, e.Kind)
	}
	if e.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	log.Append(Entry{Role: RoleUser, Kind: KindVideoUpload, Content: "clip", Timestamp: ts})
	if got := log.At(1); got.Kind != KindVideoUpload || !got.Timestamp.Equal(ts) {
		t.Errorf("explicit kind/timestamp not preserved: %+v", got)
	}
}

func TestConversationLogVersionTracksChanges(t *testing.T) {
	log := NewConversationLog()
	v0 := log.Version()

	log.Append(Entry{Role: RoleUser, Content: "hello"})
	v1 := log.Version()
	if v1 == v0 {
		t.Error("append did not bump version")
	}

	log.SetRendered(0, "rendered hello")
	v2 := log.Version()
	if v2 == v1 {
		t.Error("SetRendered did not bump version")
	}

	log.Clear()
	if log.Version() == v2 {
		t.Error("clear did not bump version")
	}
	if log.Len() != 0 {
		t.Errorf("expected empty log after clear, got %d entries", log.Len())
	}
}

func TestConversationLogAllReturnsCopy(t *testing.T) {
	log := NewConversationLog()
	log.Append(Entry{Role: RoleUser, Content: "original"})

	entries := log.All()
	entries[0].Content = "mutated"

	if log.At(0).Content != "original" {
		t.Error("All() exposed internal storage")
	}
}

func TestConversationLogSetRenderedBounds(t *testing.T) {
	log := NewConversationLog()
	log.Append(Entry{Role: RoleUser, Content: "hello"})

	log.SetRendered(-1, "x")
	log.SetRendered(5, "x")

	if log.At(0).Rendered != "" {
		t.Error("out-of-bounds SetRendered touched an entry")
	}
}
