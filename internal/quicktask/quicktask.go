// Package quicktask manages the user's saved quick-task presets: task names
// with a pre-assigned category, stored at ~/.config/punchclock/quicktasks.json
// so frequent tasks can be started without retyping.
package quicktask

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fakeyudi/punchclock/internal/task"
)

// QuickTask is a saved task preset.
type QuickTask struct {
	Name     string        `json:"name"`
	Category task.Category `json:"category"`
}

// quickTaskPath returns the path to the presets file.
func quickTaskPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "punchclock", "quicktasks.json"), nil
}

// Load reads the saved presets. An absent file means no presets, not an
// error.
func Load() ([]QuickTask, error) {
	p, err := quickTaskPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var qts []QuickTask
	if err := json.Unmarshal(data, &qts); err != nil {
		return nil, fmt.Errorf("malformed quick tasks at %s: %w", p, err)
	}
	return qts, nil
}

// Save writes the presets to disk, creating the config directory if needed.
func Save(qts []QuickTask) error {
	p, err := quickTaskPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(qts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// Add appends a preset, replacing an existing one with the same name.
func Add(qt QuickTask) error {
	qts, err := Load()
	if err != nil {
		return err
	}
	for i, existing := range qts {
		if strings.EqualFold(existing.Name, qt.Name) {
			qts[i] = qt
			return Save(qts)
		}
	}
	return Save(append(qts, qt))
}

// Remove deletes the preset with the given name. Removing a name that is not
// saved is not an error.
func Remove(name string) error {
	qts, err := Load()
	if err != nil {
		return err
	}
	kept := qts[:0]
	for _, qt := range qts {
		if !strings.EqualFold(qt.Name, name) {
			kept = append(kept, qt)
		}
	}
	return Save(kept)
}

// Find returns the preset matching name case-insensitively, or nil.
func Find(name string) (*QuickTask, error) {
	qts, err := Load()
	if err != nil {
		return nil, err
	}
	for _, qt := range qts {
		if strings.EqualFold(qt.Name, name) {
			q := qt
			return &q, nil
		}
	}
	return nil, nil
}
