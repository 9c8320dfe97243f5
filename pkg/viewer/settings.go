// Package viewer holds the state shared by the interactive preview tool:
// persisted viewer settings and the camera projection used to draw the 3D
// simulation onto the 2D screen.
package viewer

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Settings are the viewer preferences persisted between runs.
type Settings struct {
	LastEffect string  `yaml:"lastEffect"` // effect preset selected on exit
	AutoPlay   bool    `yaml:"autoPlay"`   // start the effect immediately
	CameraDist float64 `yaml:"cameraDist"` // camera distance in scene units
}

// DefaultSettings returns the out-of-the-box viewer settings.
func DefaultSettings() *Settings {
	return &Settings{
		AutoPlay:   true,
		CameraDist: 6,
	}
}

// SettingsManager loads and saves viewer settings through gdata. A nil
// gdata manager degrades gracefully to in-memory settings, so the viewer
// still runs on platforms without a writable data directory.
type SettingsManager struct {
	gdataManager *gdata.Manager
	settings     *Settings
}

const (
	settingsObject   = "viewer"
	settingsProperty = "settings"
)

// NewSettingsManager creates a manager and loads any previously saved
// settings. A load failure is not fatal: the defaults are used and the
// error is logged.
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[Viewer] Warning: failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load reads settings from gdata, falling back to defaults when nothing
// has been saved yet or the manager is nil.
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load viewer settings: %w", err)
	}

	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal viewer settings: %w", err)
	}
	if loaded.CameraDist <= 0 {
		loaded.CameraDist = DefaultSettings().CameraDist
	}
	sm.settings = &loaded
	return nil
}

// Save persists the current settings. A nil manager saves nothing and
// reports no error.
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal viewer settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save viewer settings: %w", err)
	}
	return nil
}

// GetSettings returns the live settings instance. Mutations require Save
// to persist.
func (sm *SettingsManager) GetSettings() *Settings {
	return sm.settings
}
