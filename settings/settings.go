package settings

import (
	"copkg/logging"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
)

const (
	// DefaultSettingsFile is read when no path is given
	DefaultSettingsFile = "copkg.toml"
	// DefaultConfigFile is the package manager configuration used when no path is given
	DefaultConfigFile = "copkg.json"

	SettingsPathEnv = "COPKG_SETTINGS_PATH"
	ConfigPathEnv   = "COPKG_CONFIG_PATH"
)

// GeneralSettings holds client-side behaviour that is not part of the
// package manager configuration itself
type GeneralSettings struct {
	LogLevel   string `toml:"log_level"`
	LogPath    string `toml:"log_path"`
	JSONLogs   bool   `toml:"json_logs"`
	ConfigFile string `toml:"config_file"`
}

// Settings represents the copkg.toml structure
type Settings struct {
	General GeneralSettings `toml:"general"`
}

// Default returns settings used when no settings file exists
func Default() *Settings {
	return &Settings{
		General: GeneralSettings{
			LogLevel:   "INFO",
			ConfigFile: DefaultConfigFile,
		},
	}
}

// ExpandTilde expands a leading ~ or ~/ to the current user's home
// directory. ~name forms are returned unchanged.
func ExpandTilde(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Load loads and parses the settings file.
// Priority: cliPath > COPKG_SETTINGS_PATH env var > ./copkg.toml
// Only the default file may be missing; defaults are used then.
func Load(cliPath string) (*Settings, error) {
	settingsPath := cliPath
	explicit := true
	if settingsPath == "" {
		settingsPath = os.Getenv(SettingsPathEnv)
	}
	if settingsPath == "" {
		settingsPath = DefaultSettingsFile
		explicit = false
	}

	settingsPath, err := ExpandTilde(settingsPath)
	if err != nil {
		return nil, err
	}

	logging.PreLog("DEBUG", "📂 Loading settings from: %s", settingsPath)

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			logging.PreLog("DEBUG", "No %s found, using default settings", settingsPath)
			return Default(), nil
		}
		logging.PreLog("ERROR", "❌ Failed to read settings file: %v", err)
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		logging.PreLog("ERROR", "❌ Failed to parse settings file: %v", err)
		return nil, fmt.Errorf("failed to parse settings file %s: %w", settingsPath, err)
	}
	s.applyDefaults()

	logging.SetPreLogLevel(s.General.LogLevel)

	if err := s.Validate(); err != nil {
		logging.PreLog("ERROR", "❌ Settings validation failed: %v", err)
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	logging.PreLog("DEBUG", "✅ Settings successfully loaded and validated.")
	return &s, nil
}

func (s *Settings) applyDefaults() {
	defaults := Default()
	if s.General.LogLevel == "" {
		s.General.LogLevel = defaults.General.LogLevel
	}
	if s.General.ConfigFile == "" {
		s.General.ConfigFile = defaults.General.ConfigFile
	}
}

// Validate checks the settings validity
func (s *Settings) Validate() error {
	if _, err := logging.ParseLevel(s.General.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if s.General.LogPath != "" {
		expanded, err := ExpandTilde(s.General.LogPath)
		if err != nil {
			return fmt.Errorf("failed to expand log_path: %w", err)
		}
		s.General.LogPath = expanded
	}
	return nil
}

// ConfigPath resolves the package manager configuration file.
// Priority: cliPath > COPKG_CONFIG_PATH env var > general.config_file > ./copkg.json
func (s *Settings) ConfigPath(cliPath string) (string, error) {
	path := cliPath
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path == "" {
		path = s.General.ConfigFile
	}
	if path == "" {
		path = DefaultConfigFile
	}
	return ExpandTilde(path)
}
