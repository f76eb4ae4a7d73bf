package model

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tctui/config"
)

const (
	chatRequestTimeout  = 2 * time.Minute
	resetRequestTimeout = 10 * time.Second

	chatErrorText = "Sorry, I encountered an error. Please try again."
)

// MaxMessageLength bounds a single chat message.
const MaxMessageLength = 500

// SendMessage starts one chat turn. It returns nil when the message is
// empty after trimming or another turn is still in flight; in that case
// nothing is appended and no request goes out. Otherwise the user entry
// is appended immediately and the returned command resolves to a
// ChatReplyMsg or ChatErrorMsg.
func (m *Model) SendMessage(text string) tea.Cmd {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || m.ChatInFlight {
		return nil
	}
	if runes := []rune(trimmed); len(runes) > MaxMessageLength {
		trimmed = string(runes[:MaxMessageLength])
	}

	m.Log.Append(Entry{Role: RoleUser, Kind: KindChat, Content: trimmed})
	m.ChatInFlight = true
	m.ShowWelcome = false
	m.SessionDirty = true

	backend := m.Backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatRequestTimeout)
		defer cancel()

		resp, err := backend.Chat(ctx, trimmed)
		if err != nil {
			return ChatErrorMsg{Err: err}
		}
		return ChatReplyMsg{Response: resp.Response, Videos: resp.Videos}
	}
}

// HandleChatReply settles a successful chat turn: append the reply and,
// when the backend recommended videos, replace the sidebar list.
func (m *Model) HandleChatReply(msg ChatReplyMsg) {
	m.ChatInFlight = false
	m.Log.Append(Entry{Role: RoleAssistant, Kind: KindChat, Content: msg.Response})
	if len(msg.Videos) > 0 {
		m.RecommendedVideos = msg.Videos
	}
	m.SessionDirty = true
}

// HandleChatError settles a failed chat turn with the standing apology
// so the turn still produces exactly one assistant entry.
func (m *Model) HandleChatError(msg ChatErrorMsg) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("chat request failed: %v", msg.Err)
	}
	m.ChatInFlight = false
	m.Log.Append(Entry{Role: RoleAssistant, Kind: KindError, Content: chatErrorText})
	m.SessionDirty = true
}

// ResetConversation asks the backend to clear its state. The local
// clear happens in ApplyReset when the result arrives, whether or not
// the call succeeded.
func (m *Model) ResetConversation() tea.Cmd {
	backend := m.Backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resetRequestTimeout)
		defer cancel()
		return ResetDoneMsg{Err: backend.Reset(ctx)}
	}
}

// ApplyReset wipes the conversation: log, sidebar, analysis state, and
// the active poll job all go at once. A poll result already in flight
// carries the old generation and will be discarded on arrival. The
// persisted session file is deleted too, so the next launch does not
// resurrect a conversation the backend has already forgotten.
func (m *Model) ApplyReset(msg ResetDoneMsg) {
	if msg.Err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("backend reset failed, clearing local state anyway: %v", msg.Err)
	}
	if m.SessionStorage != nil && m.CurrentSession != nil {
		if err := m.SessionStorage.DeleteSession(m.CurrentSession.ID); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("failed to delete session %s on reset: %v", m.CurrentSession.ID, err)
		}
	}
	m.Log.Clear()
	m.RecommendedVideos = nil
	m.ActiveAnalysis = nil
	m.AbandonPoll()
	m.CurrentSession = nil
	m.SessionDirty = false
	m.ShowWelcome = m.Config == nil || m.Config.WelcomeEnabled
}
