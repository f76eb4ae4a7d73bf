package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tctui/config"
	appmodel "tctui/model"
	"tctui/storage"
)

const videoSidebarWidth = 34

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	// Loading spinner (bubbles/spinner)
	loadingSpinner spinner.Model

	// Upload progress bar (bubbles/progress)
	uploadProgress progress.Model

	// Modal toggles
	showHelp  bool
	showAbout bool

	// Analysis history modal
	showAnalysisHistory  bool
	analysisHistory      []*storage.AnalysisRecord
	analysisHistoryCount int

	// Recommended video sidebar
	showVideoSidebar bool

	// Video file picker
	videoPicker FilePickerState

	// Message search state
	showMessageSearch      bool
	messageSearchInput     textinput.Model
	messageSearchResults   []EntryMatch
	selectedSearchIdx      int
	messageSearchScrollIdx int

	// Acknowledge modal (errors and notices)
	showErrorModal  bool
	errorModalTitle string
	errorModalMsg   string
	errorModalType  ModalType

	// Reset confirmation
	confirmReset bool

	highlightedEntryIdx int
	entryLineOffsets    []int
	needsInitialRender  bool
}

func NewAppView(cfg *config.Config, backend appmodel.Backend, sessionStorage *storage.SessionStorage, analysisStore *storage.AnalysisStore, lastSession *storage.Session, version string) AppView {
	dataModel := appmodel.NewModel(cfg, backend, sessionStorage, analysisStore, lastSession, version)

	ta := textarea.New()
	ta.Placeholder = "Ask me anything about tennis technique, strategy, or training..."
	ta.Focus()
	ta.CharLimit = appmodel.MaxMessageLength
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Custom KeyMap: Alt+Enter for newline, Enter alone sends
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	// Dynamic prompt: "> " for first line, "| " for subsequent lines
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	pb := progress.New(progress.WithDefaultGradient())
	pb.Width = 40

	videoPicker := NewFilePickerState(FilePickerConfig{
		Title:          "Upload Video for Analysis",
		AllowedTypes:   appmodel.VideoExtensions,
		StartDirectory: "",
		ShowHidden:     false,
	})

	messageSearchInput := textinput.New()
	messageSearchInput.Prompt = "Search: "
	messageSearchInput.CharLimit = 100

	return AppView{
		dataModel:           dataModel,
		textarea:            ta,
		viewport:            vp,
		loadingSpinner:      sp,
		uploadProgress:      pb,
		videoPicker:         videoPicker,
		messageSearchInput:  messageSearchInput,
		showVideoSidebar:    true,
		highlightedEntryIdx: -1,
		needsInitialRender:  dataModel.Log.Len() > 0,
	}
}

func (a AppView) Init() tea.Cmd {
	// Markdown rendering waits for the first WindowSizeMsg so the
	// render width is correct.
	return tea.Batch(
		textarea.Blink,
		a.loadingSpinner.Tick,
		a.autosaveTick(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading TCTUI..."
	}

	// Modal rendering order (top to bottom layers):
	// 1. Help (always on top - can peek while in other modals)
	// 2. Error/notice modal
	// 3. Reset confirmation
	// 4. Video picker
	// 5. Message search
	// 6. Analysis history
	// 7. About

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showErrorModal {
		return RenderAcknowledgeModal(a.errorModalTitle, a.errorModalMsg, a.errorModalType, a.width, a.height)
	}

	if a.confirmReset {
		return renderResetConfirmModal(a.width, a.height)
	}

	if a.videoPicker.Active {
		return RenderFilePickerModal(a.videoPicker, a.width, a.height)
	}

	if a.showMessageSearch {
		return renderMessageSearch(a.messageSearchInput, a.messageSearchResults, a.selectedSearchIdx, a.messageSearchScrollIdx, a.width, a.height)
	}

	if a.showAnalysisHistory {
		return renderAnalysisHistoryModal(a.analysisHistory, a.analysisHistoryCount, a.width, a.height)
	}

	if a.showAbout {
		return renderAboutModal(a.width, a.height, a.dataModel.Version)
	}

	// Title bar - "TCTUI - Tennis Coach - Session Name"
	appText := CoachStyle.Render("TCTUI")
	coachText := TitleStyle.Render(" - Tennis Coach")
	sessionName := "New Session"
	if a.dataModel.CurrentSession != nil && a.dataModel.CurrentSession.Name != "" {
		sessionName = a.dataModel.CurrentSession.Name
	}
	sessionText := UserStyle.Render(fmt.Sprintf(" - %s", sessionName))
	title := appText + coachText + sessionText

	if n := len(a.dataModel.RecommendedVideos); n > 0 && !a.showVideoSidebar {
		title += DimStyle.Render(fmt.Sprintf(" | 📺 %d videos (Alt+V)", n))
	}

	// Main content: conversation viewport, optionally joined with the
	// video sidebar
	mainView := a.viewport.View()
	if a.showVideoSidebar && len(a.dataModel.RecommendedVideos) > 0 {
		sidebar := a.renderVideoSidebar(a.viewport.Height)
		mainView = lipgloss.JoinHorizontal(lipgloss.Top, mainView, sidebar)
	}

	statusLine := a.renderActivityLine()
	inputView := a.textarea.View()

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("Alt+Q %s  Enter %s  Alt+Enter %s  Alt+U %s  Alt+R %s  Alt+F %s  Alt+V %s  Alt+Y %s  Alt+H %s",
		descStyle.Render("Quit"),
		descStyle.Render("Send"),
		descStyle.Render("New Line"),
		descStyle.Render("Upload"),
		descStyle.Render("Reset"),
		descStyle.Render("Search"),
		descStyle.Render("Videos"),
		descStyle.Render("Copy"),
		descStyle.Render("Help"),
	)
	statusBar = StatusStyle.Render(statusBar)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		mainView,
		statusLine,
		inputView,
		statusBar,
	)
}

// renderActivityLine shows what the app is waiting on: the upload
// progress bar, the analysis spinner, or the thinking spinner. Empty
// line when idle so the layout height stays stable.
func (a AppView) renderActivityLine() string {
	switch {
	case a.dataModel.Uploading:
		sent, total := a.dataModel.UploadBytes()
		pct := a.dataModel.UploadProgress()
		bar := a.uploadProgress.ViewAs(float64(pct) / 100)
		return fmt.Sprintf(" 📤 %s %s %s", a.dataModel.UploadName, bar,
			DimStyle.Render(fmt.Sprintf("%d%% (%.1f/%.1f MB)",
				pct, float64(sent)/1024/1024, float64(total)/1024/1024)))
	case a.dataModel.Poll != nil && !a.dataModel.Poll.Terminal():
		return fmt.Sprintf(" %s Analyzing video... %s", a.loadingSpinner.View(),
			DimStyle.Render(fmt.Sprintf("(check %d/%d)", a.dataModel.Poll.Attempt+1, a.dataModel.Poll.MaxAttempts)))
	case a.dataModel.ChatInFlight:
		return fmt.Sprintf(" %s Coach is thinking...", a.loadingSpinner.View())
	}
	return ""
}

func (a *AppView) closeAllModals() {
	a.showHelp = false
	a.showAbout = false
	a.showAnalysisHistory = false
	a.showErrorModal = false
	a.showMessageSearch = false
	a.confirmReset = false
	a.videoPicker.Reset()

	if a.messageSearchInput.Focused() {
		a.messageSearchInput.Blur()
	}
}

func (a *AppView) openErrorModal(title, msg string, modalType ModalType) {
	a.showErrorModal = true
	a.errorModalTitle = title
	a.errorModalMsg = msg
	a.errorModalType = modalType
}
