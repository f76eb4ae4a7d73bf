package ui

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"tctui/config"
	appmodel "tctui/model"
)

const autosaveInterval = 30 * time.Second

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		contentWidth := msg.Width
		if a.showVideoSidebar && len(a.dataModel.RecommendedVideos) > 0 {
			contentWidth -= videoSidebarWidth
		}
		// Title(1) + blank(1) + activity(1) + input(3) + status(1)
		a.viewport.Width = contentWidth
		a.viewport.Height = msg.Height - 7
		if a.viewport.Height < 3 {
			a.viewport.Height = 3
		}
		a.textarea.SetWidth(msg.Width - 2)
		a.uploadProgress.Width = msg.Width / 3

		if !a.ready {
			a.ready = true
		}
		if a.needsInitialRender {
			a.needsInitialRender = false
			for i := 0; i < a.dataModel.Log.Len(); i++ {
				if cmd := a.renderEntryAsync(i); cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		}
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case chatReplyMsg:
		a.dataModel.HandleChatReply(msg)
		cmds = append(cmds, a.renderEntryAsync(a.dataModel.Log.Len()-1))
		if len(msg.Videos) > 0 {
			// Sidebar width may change the viewport width
			a.resizeForSidebar()
		}
		a.updateViewportContent(true)
		cmds = append(cmds, a.dataModel.SaveCurrentSession())
		return a, tea.Batch(cmds...)

	case chatErrorMsg:
		a.dataModel.HandleChatError(msg)
		cmds = append(cmds, a.renderEntryAsync(a.dataModel.Log.Len()-1))
		a.updateViewportContent(true)
		cmds = append(cmds, a.dataModel.SaveCurrentSession())
		return a, tea.Batch(cmds...)

	case uploadDoneMsg:
		pollCmd := a.dataModel.HandleUploadDone(msg)
		cmds = append(cmds, a.renderEntryAsync(a.dataModel.Log.Len()-1))
		a.updateViewportContent(true)
		cmds = append(cmds, pollCmd, a.dataModel.SaveCurrentSession())
		return a, tea.Batch(cmds...)

	case uploadTickMsg:
		if a.dataModel.Uploading {
			cmds = append(cmds, a.dataModel.UploadTick())
		}
		return a, tea.Batch(cmds...)

	case pollTickMsg:
		return a, a.dataModel.HandlePollTick(msg)

	case pollStatusMsg:
		next := a.dataModel.HandlePollStatus(msg)
		if a.dataModel.Poll != nil && a.dataModel.Poll.Terminal() && a.dataModel.Poll.Generation == msg.Generation {
			cmds = append(cmds, a.renderEntryAsync(a.dataModel.Log.Len()-1))
			a.updateViewportContent(true)
			cmds = append(cmds, a.dataModel.SaveCurrentSession())
		}
		cmds = append(cmds, next)
		return a, tea.Batch(cmds...)

	case resetDoneMsg:
		a.dataModel.ApplyReset(msg)
		a.highlightedEntryIdx = -1
		a.textarea.Reset()
		a.resizeForSidebar()
		a.updateViewportContent(true)
		return a, nil

	case sessionSavedMsg:
		a.dataModel.HandleSessionSaved(msg)
		return a, nil

	case analysisRecordedMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("failed to record analysis history: %v", msg.Err)
		}
		return a, nil

	case analysisHistoryMsg:
		if msg.err != nil {
			a.openErrorModal("Analysis History", msg.err.Error(), ModalTypeError)
			return a, nil
		}
		a.closeAllModals()
		a.analysisHistory = msg.records
		a.analysisHistoryCount = msg.count
		a.showAnalysisHistory = true
		return a, nil

	case entryRenderedMsg:
		a.dataModel.HandleEntryRendered(msg)
		a.updateViewportContent(true)
		return a, nil

	case clipboardCopiedMsg:
		if msg.err != nil {
			a.openErrorModal("Copy Failed", msg.err.Error(), ModalTypeError)
		}
		return a, nil

	case autosaveTickMsg:
		cmds = append(cmds, a.dataModel.SaveCurrentSession(), a.autosaveTick())
		return a, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		return a, cmd

	case progress.FrameMsg:
		pm, cmd := a.uploadProgress.Update(msg)
		a.uploadProgress = pm.(progress.Model)
		return a, cmd
	}

	// File picker consumes its own message stream while active
	if a.videoPicker.Active {
		var cmd tea.Cmd
		a.videoPicker.Picker, cmd = a.videoPicker.Picker.Update(msg)
		cmds = append(cmds, cmd)

		if didSelect, path := a.videoPicker.Picker.DidSelectFile(msg); didSelect {
			a.videoPicker.Reset()
			cmds = append(cmds, a.beginUpload(path)...)
		}
		return a, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal key routing comes first
	if a.showHelp || a.showAbout || a.showAnalysisHistory || a.showErrorModal {
		switch msg.String() {
		case "enter", "esc", "q":
			a.showHelp = false
			a.showAbout = false
			a.showAnalysisHistory = false
			a.showErrorModal = false
		}
		return a, nil
	}

	if a.confirmReset {
		switch msg.String() {
		case "y", "Y", "enter":
			a.confirmReset = false
			return a, a.dataModel.ResetConversation()
		case "n", "N", "esc":
			a.confirmReset = false
		}
		return a, nil
	}

	if a.videoPicker.Active {
		if msg.String() == "esc" {
			a.videoPicker.Reset()
			return a, nil
		}
		var cmd tea.Cmd
		a.videoPicker.Picker, cmd = a.videoPicker.Picker.Update(msg)
		if didSelect, path := a.videoPicker.Picker.DidSelectFile(msg); didSelect {
			a.videoPicker.Reset()
			return a, tea.Batch(append(a.beginUpload(path), cmd)...)
		}
		return a, cmd
	}

	if a.showMessageSearch {
		return a.handleMessageSearchKey(msg)
	}

	switch msg.String() {
	case "alt+q", "ctrl+c":
		return a, tea.Sequence(a.dataModel.SaveCurrentSession(), tea.Quit)

	case "enter":
		return a.sendCurrentInput()

	case "alt+u":
		if a.dataModel.Busy() {
			a.openErrorModal("Upload In Progress",
				"A video is already being uploaded or analyzed. Wait for it to finish before uploading another one.",
				ModalTypeWarning)
			return a, nil
		}
		a.closeAllModals()
		a.videoPicker.Activate()
		return a, a.videoPicker.Picker.Init()

	case "alt+r":
		a.closeAllModals()
		a.confirmReset = true
		return a, nil

	case "alt+f":
		a.closeAllModals()
		a.showMessageSearch = true
		a.messageSearchInput.SetValue("")
		a.messageSearchInput.Focus()
		a.messageSearchResults = nil
		a.selectedSearchIdx = 0
		a.messageSearchScrollIdx = 0
		return a, nil

	case "alt+v":
		a.showVideoSidebar = !a.showVideoSidebar
		a.resizeForSidebar()
		a.updateViewportContent(false)
		return a, nil

	case "alt+y":
		return a, a.copyLastReply()

	case "alt+s":
		return a, a.loadAnalysisHistory()

	case "alt+h":
		a.closeAllModals()
		a.showHelp = true
		return a, nil

	case "alt+a":
		a.closeAllModals()
		a.showAbout = true
		return a, nil
	}

	// Welcome quick questions: number keys send canned prompts while
	// the banner is up and the input is empty
	if a.dataModel.ShowWelcome && strings.TrimSpace(a.textarea.Value()) == "" {
		if q, ok := quickQuestionForKey(msg.String()); ok {
			return a.sendText(q)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) sendCurrentInput() (tea.Model, tea.Cmd) {
	return a.sendText(a.textarea.Value())
}

func (a AppView) sendText(text string) (tea.Model, tea.Cmd) {
	cmd := a.dataModel.SendMessage(text)
	if cmd == nil {
		// Empty after trimming or a turn already in flight
		return a, nil
	}

	a.textarea.Reset()
	renderCmd := a.renderEntryAsync(a.dataModel.Log.Len() - 1)
	a.updateViewportContent(true)
	return a, tea.Batch(cmd, renderCmd, a.dataModel.SaveCurrentSession())
}

// beginUpload validates and starts the transfer of the picked file.
func (a *AppView) beginUpload(path string) []tea.Cmd {
	uploadCmd, err := a.dataModel.UploadVideo(path)
	if err != nil {
		a.openErrorModal("Cannot Upload Video", err.Error(), ModalTypeError)
		return nil
	}

	renderCmd := a.renderEntryAsync(a.dataModel.Log.Len() - 1)
	a.updateViewportContent(true)
	return []tea.Cmd{uploadCmd, a.dataModel.UploadTick(), renderCmd, a.dataModel.SaveCurrentSession()}
}

// copyLastReply puts the most recent coach reply on the system
// clipboard.
func (a AppView) copyLastReply() tea.Cmd {
	entries := a.dataModel.Log.All()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Role == appmodel.RoleAssistant {
			content := entries[i].Content
			return func() tea.Msg {
				return clipboardCopiedMsg{err: clipboard.WriteAll(content)}
			}
		}
	}
	return nil
}

func (a *AppView) resizeForSidebar() {
	if a.width == 0 {
		return
	}
	contentWidth := a.width
	if a.showVideoSidebar && len(a.dataModel.RecommendedVideos) > 0 {
		contentWidth -= videoSidebarWidth
	}
	a.viewport.Width = contentWidth
}

func (a AppView) autosaveTick() tea.Cmd {
	return tea.Tick(autosaveInterval, func(time.Time) tea.Msg {
		return autosaveTickMsg{}
	})
}
