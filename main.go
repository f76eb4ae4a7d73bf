package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tctui/coach"
	"tctui/config"
	"tctui/storage"
	"tctui/ui"
)

const Version = "v0.1.0"

func main() {
	// Validate environment variables first
	if config.HasAnyEnvVar() && !config.HasAllEnvVars() {
		missingVar := config.GetMissingEnvVar()
		errorMsg := fmt.Sprintf("Missing environment variable: %s\n\n"+
			"When using environment variables, both must be set:\n"+
			"  • TCTUI_SERVER_URL\n"+
			"  • TCTUI_DATA_DIR\n\n"+
			"Set the missing variable(s) before launching tctui.",
			missingVar)

		errorModal := ui.NewErrorModal("Configuration Error", errorMsg)
		p := tea.NewProgram(
			errorModal,
			tea.WithAltScreen(),
		)

		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	backend, err := coach.NewClient(cfg.CoachURL())
	if err != nil {
		fmt.Printf("Invalid coach server URL: %v\n", err)
		os.Exit(1)
	}

	// Reachability check is informational only; the UI surfaces
	// request failures as they happen
	go func() {
		if err := backend.Ping(context.Background()); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("coach server not reachable at %s: %v", cfg.CoachURL(), err)
		}
	}()

	sessionStorage, err := storage.NewSessionStorage(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize session storage: %v\n", err)
		os.Exit(1)
	}

	analysisStore, err := storage.NewAnalysisStore(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize analysis history: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := analysisStore.Close(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to close analysis history: %v", err)
		}
	}()

	// Resume the most recent session, if any
	lastSession, err := sessionStorage.LatestSession()
	if err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("Warning: could not load last session: %v", err)
	}

	p := tea.NewProgram(
		ui.NewAppView(cfg, backend, sessionStorage, analysisStore, lastSession, Version),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running tctui: %v\n", err)
		os.Exit(1)
	}
}
