package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type CoachConfig struct {
	ServerURL string `toml:"server_url"`
}

type UserConfig struct {
	Coach          CoachConfig `toml:"coach"`
	WelcomeEnabled bool        `toml:"welcome_enabled"`
}

type Config struct {
	DataDirectory  string
	ServerURL      string
	WelcomeEnabled bool
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) CoachURL() string {
	return c.ServerURL
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("TCTUI_SERVER_URL"); url != "" {
		c.ServerURL = url
	}
	if dataDir := os.Getenv("TCTUI_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("TCTUI_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// Create debug log with secure permissions (0600 - may contain sensitive debug info)
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (TCTUI_DEBUG=%s) ===", os.Getenv("TCTUI_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func HasAllEnvVars() bool {
	return os.Getenv("TCTUI_SERVER_URL") != "" &&
		os.Getenv("TCTUI_DATA_DIR") != ""
}

func HasAnyEnvVar() bool {
	return os.Getenv("TCTUI_SERVER_URL") != "" ||
		os.Getenv("TCTUI_DATA_DIR") != ""
}

func GetMissingEnvVar() string {
	if os.Getenv("TCTUI_SERVER_URL") == "" {
		return "TCTUI_SERVER_URL"
	}
	if os.Getenv("TCTUI_DATA_DIR") == "" {
		return "TCTUI_DATA_DIR"
	}
	return ""
}

func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory:  GetDefaultDataDir(),
		ServerURL:      "http://localhost:5000",
		WelcomeEnabled: true,
	}

	settingsPath := GetSettingsFilePath()
	settingsExist := FileExists(settingsPath)

	if !settingsExist && HasAllEnvVars() {
		cfg.applyEnvOverrides()
	} else {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		dataDir := cfg.DataDir()
		userCfg, err := LoadUserConfig(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		cfg.ServerURL = userCfg.Coach.ServerURL
		cfg.WelcomeEnabled = userCfg.WelcomeEnabled

		cfg.applyEnvOverrides()
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Ensure data directory has correct permissions (fix if needed)
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}
