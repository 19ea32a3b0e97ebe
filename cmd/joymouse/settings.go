package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"joymouse/internal/core/joymouse"

	"github.com/BurntSushi/toml"
)

const defaultDevicePath = "/dev/input/js0"

type fileSettings struct {
	Device        string          `toml:"device"`
	Source        string          `toml:"source"`
	Backend       string          `toml:"backend"`
	Display       string          `toml:"display"`
	LogLevel      string          `toml:"log_level"`
	MaxReadErrors int             `toml:"max_read_errors"`
	Translation   joymouse.Config `toml:"translation"`
}

func defaultSettings() fileSettings {
	return fileSettings{
		Device:        defaultDevicePath,
		Source:        "auto",
		Backend:       "auto",
		LogLevel:      "info",
		MaxReadErrors: 50,
		Translation:   joymouse.DefaultConfig(),
	}
}

func settingsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil || configDir == "" {
		return filepath.Join(".", ".joymouse.toml"), nil
	}
	return filepath.Join(configDir, "joymouse", "config.toml"), nil
}

// loadSettings decodes path over the defaults. A missing file yields the
// defaults unless required is set. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func loadSettings(path string, required bool) (fileSettings, error) {
	settings := defaultSettings()

	md, err := toml.DecodeFile(path, &settings)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return defaultSettings(), nil
		}
		return settings, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return settings, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return settings, nil
}

func saveSettings(path string, settings fileSettings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}
