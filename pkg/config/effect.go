// Package config loads particle effect presets from YAML files and applies
// them to emitters. The YAML schema uses author-friendly units: angles in
// degrees and colors as 0-255 channels; Apply converts to the radians and
// normalized [0,1] colors the engine works in.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// EffectConfig is one particle effect preset.
type EffectConfig struct {
	Name      string                     `yaml:"name"`
	Emitter   EmitterConfig              `yaml:"emitter"`
	Spawn     SpawnConfig                `yaml:"spawn"`
	Explosion *ExplosionConfig           `yaml:"explosion,omitempty"`
	Modifiers map[string]*ModifierConfig `yaml:"modifiers,omitempty"` // keyed by channel name
}

// EmitterConfig holds the emission timing and rate settings.
type EmitterConfig struct {
	DurationMs      float64       `yaml:"durationMs"`
	DelayMs         float64       `yaml:"delayMs"`
	Loop            bool          `yaml:"loop"`
	FixedToEmitter  bool          `yaml:"fixedToEmitter"`
	MaxParticles    int           `yaml:"maxParticles"`
	LifetimeMs      RangeConfig   `yaml:"lifetimeMs"`
	RatePerSecond   RangeConfig   `yaml:"ratePerSecond"`
	RatePerDistance RangeConfig   `yaml:"ratePerDistance"`
	Bursts          []BurstConfig `yaml:"bursts,omitempty"`
}

// RangeConfig is an inclusive integer min/max pair.
type RangeConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// BurstConfig schedules a discrete spawn event.
type BurstConfig struct {
	Factor   string      `yaml:"factor"` // "time" or "distance", default time
	Start    float64     `yaml:"start"`
	Interval float64     `yaml:"interval"`
	Cycles   int         `yaml:"cycles"`
	Count    RangeConfig `yaml:"count"`
}

// SpawnConfig selects the spawn volume.
type SpawnConfig struct {
	Shape   string    `yaml:"shape"` // "point", "box" or "sphere"; empty means point
	Params  []float64 `yaml:"params,omitempty"`
	Surface bool      `yaml:"surface"`
}

// ExplosionConfig configures the initial explosive impulse.
type ExplosionConfig struct {
	Center         [3]float64 `yaml:"center"`
	Impulse        float64    `yaml:"impulse"`
	DecelerationMs float64    `yaml:"decelerationMs"`
}

// ModifierConfig describes one channel's randomized initial range and its
// interpolation curve. Initial must hold exactly two endpoints; each
// endpoint (and each interval target) is either one component, broadcast
// to all three, or three components.
type ModifierConfig struct {
	Factor    string           `yaml:"factor"` // "time" or "distance", default time
	Initial   [][]float64      `yaml:"initial"`
	Intervals []IntervalConfig `yaml:"intervals,omitempty"`
}

// IntervalConfig is one piecewise-linear segment of a modifier curve.
type IntervalConfig struct {
	Start  float64   `yaml:"start"`
	End    float64   `yaml:"end"`
	Target []float64 `yaml:"target"`
}

// LoadEffect reads and validates one effect preset from a YAML file.
func LoadEffect(filePath string) (*EffectConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect file: %w", err)
	}

	var effect EffectConfig
	if err := yaml.Unmarshal(data, &effect); err != nil {
		return nil, fmt.Errorf("failed to parse effect YAML: %w", err)
	}

	if effect.Name == "" {
		effect.Name = trimExt(filepath.Base(filePath))
	}
	if err := validateEffect(&effect); err != nil {
		return nil, fmt.Errorf("invalid effect %q: %w", effect.Name, err)
	}
	return &effect, nil
}

// LoadEffectDir loads every *.yaml and *.yml preset in a directory, sorted
// by file name. A directory without presets is an error.
func LoadEffectDir(dir string) ([]*EffectConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read effects directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("no effect presets found in %s", dir)
	}

	effects := make([]*EffectConfig, 0, len(names))
	for _, name := range names {
		effect, err := LoadEffect(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
		effects = append(effects, effect)
	}
	return effects, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

// validateEffect checks everything that is cheaper to reject at load time
// than to let the emitter setters reject later: enum strings, endpoint
// arity and component counts.
func validateEffect(effect *EffectConfig) error {
	em := &effect.Emitter
	if em.MaxParticles < 0 {
		return fmt.Errorf("maxParticles must not be negative, got %d", em.MaxParticles)
	}
	if err := validateRangeConfig("lifetimeMs", em.LifetimeMs); err != nil {
		return err
	}
	if err := validateRangeConfig("ratePerSecond", em.RatePerSecond); err != nil {
		return err
	}
	if err := validateRangeConfig("ratePerDistance", em.RatePerDistance); err != nil {
		return err
	}
	for i, b := range em.Bursts {
		if _, err := parseFactor(b.Factor); err != nil {
			return fmt.Errorf("burst %d: %w", i, err)
		}
		if b.Cycles < 1 {
			return fmt.Errorf("burst %d: cycles must be at least 1, got %d", i, b.Cycles)
		}
		if err := validateRangeConfig(fmt.Sprintf("burst %d count", i), b.Count); err != nil {
			return err
		}
	}

	switch effect.Spawn.Shape {
	case "", "point", "box", "sphere":
	default:
		return fmt.Errorf("unknown spawn shape %q", effect.Spawn.Shape)
	}

	for channel, mod := range effect.Modifiers {
		if _, err := parseChannel(channel); err != nil {
			return err
		}
		if mod == nil {
			continue
		}
		if _, err := parseFactor(mod.Factor); err != nil {
			return fmt.Errorf("modifier %s: %w", channel, err)
		}
		if len(mod.Initial) != 2 {
			return fmt.Errorf("modifier %s: initial needs exactly 2 endpoints, got %d", channel, len(mod.Initial))
		}
		for i, endpoint := range mod.Initial {
			if err := validateComponents(endpoint); err != nil {
				return fmt.Errorf("modifier %s: initial endpoint %d: %w", channel, i, err)
			}
		}
		for i, iv := range mod.Intervals {
			if err := validateComponents(iv.Target); err != nil {
				return fmt.Errorf("modifier %s: interval %d target: %w", channel, i, err)
			}
		}
	}

	if effect.Explosion != nil && effect.Explosion.Impulse < 0 {
		return fmt.Errorf("explosion impulse must not be negative, got %v", effect.Explosion.Impulse)
	}
	return nil
}

func validateRangeConfig(what string, r RangeConfig) error {
	if r.Min < 0 {
		return fmt.Errorf("%s must not be negative, got min %d", what, r.Min)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%s range inverted: [%d %d]", what, r.Min, r.Max)
	}
	return nil
}

func validateComponents(v []float64) error {
	if len(v) != 1 && len(v) != 3 {
		return fmt.Errorf("value needs 1 or 3 components, got %d", len(v))
	}
	return nil
}
