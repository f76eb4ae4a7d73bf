package model

import "time"

// ConversationLog is the append-only record of one coaching session.
// Entries keep their insertion order; nothing ever rewrites or removes
// a single entry, the only bulk operation is Clear. Version increments
// on every change so views can cheaply detect that a re-render is due.
type ConversationLog struct {
	entries []Entry
	version uint64
}

func NewConversationLog() *ConversationLog {
	return &ConversationLog{}
}

// Append adds one entry to the end of the log. Zero-value fields get
// defaults: kind chat, timestamp now.
func (l *ConversationLog) Append(e Entry) {
	if e.Kind == "" {
		e.Kind = KindChat
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	l.entries = append(l.entries, e)
	l.version++
}

// All returns a copy of the entries in insertion order.
func (l *ConversationLog) All() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// At returns the entry at index i.
func (l *ConversationLog) At(i int) Entry {
	return l.entries[i]
}

func (l *ConversationLog) Len() int {
	return len(l.entries)
}

// Clear removes every entry.
func (l *ConversationLog) Clear() {
	l.entries = nil
	l.version++
}

// SetRendered stores a markdown render for the entry at index i. It
// only touches the render cache, never the entry's content or order.
func (l *ConversationLog) SetRendered(i int, rendered string) {
	if i < 0 || i >= len(l.entries) {
		return
	}
	l.entries[i].Rendered = rendered
	l.version++
}

// Version increments whenever the log changes in any way.
func (l *ConversationLog) Version() uint64 {
	return l.version
}
