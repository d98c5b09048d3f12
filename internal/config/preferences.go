// Package config persists user preferences for the TUI under the user
// config directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LastSessionInfo remembers the most recently active session so the
// TUI can reopen it on startup.
type LastSessionInfo struct {
	SessionID  string    `json:"sessionId"`
	Name       string    `json:"name"`
	LastActive time.Time `json:"lastActive"`
}

// Preferences stores user preferences for the TUI.
type Preferences struct {
	// SeenOnboarding suppresses the first-run hint once the user has
	// completed a build.
	SeenOnboarding bool             `json:"seenOnboarding"`
	BackendURL     string           `json:"backendUrl,omitempty"`
	LastSession    *LastSessionInfo `json:"lastSession,omitempty"`
}

func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "buildtui"), nil
}

func getPreferencesPath() (string, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "preferences.json"), nil
}

// LoadPreferences loads preferences from disk; a missing file yields
// defaults, not an error.
func LoadPreferences() (*Preferences, error) {
	prefPath, err := getPreferencesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(prefPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Preferences{}, nil
		}
		return nil, fmt.Errorf("read preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		// A corrupt file should not brick the TUI.
		return &Preferences{}, nil
	}
	return &prefs, nil
}

// Save writes the preferences to disk.
func (p *Preferences) Save() error {
	configDir, err := getConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	prefPath, err := getPreferencesPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := os.WriteFile(prefPath, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// RememberSession records the active session for the next startup.
func (p *Preferences) RememberSession(sessionID, name string) {
	p.LastSession = &LastSessionInfo{
		SessionID:  sessionID,
		Name:       name,
		LastActive: time.Now(),
	}
}
