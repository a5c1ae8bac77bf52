package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors Config with pointer fields so we can distinguish
// "not set" from zero values when merging TOML.
type fileConfig struct {
	DocsPath       *string           `toml:"docs_path"`
	Include        []string          `toml:"include,omitempty"`
	Listen         *string           `toml:"listen"`
	HTTPListen     *string           `toml:"http_listen"`
	Theme          *string           `toml:"theme"`
	ColorMode      *string           `toml:"color_mode"`
	Colors         map[string]string `toml:"colors,omitempty"`
	SearchShortcut *string           `toml:"search_shortcut"`
	FocusDelayMs   *int              `toml:"focus_delay_ms"`
	ResultLimit    *int              `toml:"result_limit"`
	AnchorOffset   *int              `toml:"anchor_offset"`
	LeaderKey      *string           `toml:"leader_key"`
	LeaderTimeout  *int              `toml:"leader_timeout"`
	LogLevel       *string           `toml:"log_level"`
	LogFile        *string           `toml:"log_file"`
}

// ConfigDir returns the lore config directory, respecting XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lore")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lore")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadFile reads config.toml and merges non-nil fields into cfg.
// Returns true if the file existed, false otherwise.
func LoadFile(cfg *Config) (bool, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return true, err
	}

	setString(&cfg.DocsPath, fc.DocsPath)
	if fc.DocsPath != nil {
		cfg.DocsPath = ExpandHome(cfg.DocsPath)
	}
	if len(fc.Include) > 0 {
		cfg.Include = fc.Include
	}
	if len(fc.Colors) > 0 {
		cfg.Colors = fc.Colors
	}
	setString(&cfg.Listen, fc.Listen)
	setString(&cfg.HTTPListen, fc.HTTPListen)
	setString(&cfg.Theme, fc.Theme)
	setString(&cfg.ColorMode, fc.ColorMode)
	setString(&cfg.SearchShortcut, fc.SearchShortcut)
	setInt(&cfg.FocusDelayMs, fc.FocusDelayMs)
	setInt(&cfg.ResultLimit, fc.ResultLimit)
	setInt(&cfg.AnchorOffset, fc.AnchorOffset)
	setString(&cfg.LeaderKey, fc.LeaderKey)
	setInt(&cfg.LeaderTimeout, fc.LeaderTimeout)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFile, fc.LogFile)
	if fc.LogFile != nil {
		cfg.LogFile = ExpandHome(cfg.LogFile)
	}

	return true, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// SaveFile writes a minimal config.toml with the given docs path.
func SaveFile(docsPath string) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Store with ~ for readability if under home dir.
	home, _ := os.UserHomeDir()
	display := docsPath
	if home != "" && strings.HasPrefix(docsPath, home+string(os.PathSeparator)) {
		display = "~" + docsPath[len(home):]
	}

	fc := fileConfig{DocsPath: &display}
	f, err := os.Create(filepath.Join(dir, "config.toml"))
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(fc)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, _ := os.UserHomeDir()
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
