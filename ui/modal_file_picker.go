package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/lipgloss"

	tctuiconfig "tctui/config"
)

type FilePickerConfig struct {
	Title          string
	AllowedTypes   []string
	StartDirectory string
	ShowHidden     bool
}

type FilePickerState struct {
	Active bool
	Picker filepicker.Model
	Config FilePickerConfig
}

func NewFilePickerState(config FilePickerConfig) FilePickerState {
	fp := filepicker.New()
	fp.AllowedTypes = config.AllowedTypes
	fp.Height = 10
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.ShowHidden = config.ShowHidden

	startDir := config.StartDirectory
	if startDir == "" {
		startDir = tctuiconfig.GetHomeDir()
	}
	fp.CurrentDirectory = startDir

	fp.Styles.Directory = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)
	fp.Styles.File = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15"))
	fp.Styles.Selected = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)
	fp.Styles.Cursor = lipgloss.NewStyle().
		Foreground(successColor)

	return FilePickerState{
		Active: false,
		Picker: fp,
		Config: config,
	}
}

func (fps *FilePickerState) Activate() {
	fps.Active = true
}

func (fps *FilePickerState) Reset() {
	fps.Active = false
}

func RenderFilePickerModal(state FilePickerState, width, height int) string {
	// Guard clause: prevent rendering in tiny terminals
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := width - 10
	if modalWidth < 10 {
		modalWidth = 10
	}
	if modalWidth > 80 {
		modalWidth = 80
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(state.Config.Title)

	subtitle := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Supported formats: " + strings.Join(state.Config.AllowedTypes, ", "))

	contentStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Align(lipgloss.Left)

	var lines []string
	lines = append(lines, title, subtitle, "")
	for _, line := range strings.Split(state.Picker.View(), "\n") {
		lines = append(lines, contentStyle.Render("  "+strings.TrimRight(line, " ")))
	}
	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Cancel")))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
