// Where: internal/config/state.go
// What: Launcher state persistence.
// Why: Remember the last-used mode so the menu preselects it next run.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// StateFile is the well-known name of the launcher state file.
const StateFile = ".agentbox-state.json"

// State holds per-project launcher state.
type State struct {
	LastMode string `json:"last_mode,omitempty"`
}

// LoadState reads the state file from projectDir. A missing or unreadable
// state file yields the zero state; state is a convenience, never a gate.
func LoadState(projectDir string) State {
	payload, err := os.ReadFile(filepath.Join(projectDir, StateFile))
	if err != nil {
		return State{}
	}
	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}
	}
	return state
}

// SaveState writes the state file to projectDir.
func SaveState(projectDir string, state State) error {
	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(projectDir, StateFile), payload, 0o644)
}

// RemoveState deletes the state file, tolerating absence.
func RemoveState(projectDir string) error {
	err := os.Remove(filepath.Join(projectDir, StateFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
