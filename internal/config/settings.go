package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Settings is the persisted column selection for tabular output and export.
// An empty column list means "use the built-in default column set".
type Settings struct {
	Columns []string `json:"columns"`
}

const (
	settingsDir  = ".mlcli"
	settingsFile = "settings.json"
)

// SettingsPath returns where settings live under a work directory.
func SettingsPath(workdir string) string {
	return filepath.Join(workdir, settingsDir, settingsFile)
}

// LoadSettings reads the settings file. A missing file is not an error; it
// yields empty settings.
func LoadSettings(workdir string) (Settings, error) {
	data, err := os.ReadFile(SettingsPath(workdir))
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// SaveSettings persists the settings atomically.
func SaveSettings(workdir string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Join(workdir, settingsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, SettingsPath(workdir)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// ParseColumns splits a comma-separated column flag into a clean list.
func ParseColumns(value string) []string {
	var cols []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cols = append(cols, trimmed)
		}
	}
	return cols
}
