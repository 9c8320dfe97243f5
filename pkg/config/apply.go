package config

import (
	"fmt"
	"math"

	"github.com/decker502/pfx/pkg/particle"
	"github.com/decker502/pfx/pkg/vmath"
)

// Apply configures an emitter from the preset. All settings are applied;
// the first rejected setting aborts with its error, so apply presets
// before starting the emitter rather than mid-effect.
func (effect *EffectConfig) Apply(e *particle.Emitter) error {
	em := &effect.Emitter

	if em.MaxParticles > 0 {
		if err := e.SetMaxParticles(em.MaxParticles); err != nil {
			return err
		}
	}
	e.SetDuration(em.DurationMs)
	e.SetDelay(em.DelayMs)
	e.SetLoop(em.Loop)
	e.SetFixedToEmitter(em.FixedToEmitter)
	if em.LifetimeMs != (RangeConfig{}) {
		if err := e.SetParticleLifetime(toRange(em.LifetimeMs)); err != nil {
			return err
		}
	}
	if err := e.SetEmissionRatePerSecond(toRange(em.RatePerSecond)); err != nil {
		return err
	}
	if err := e.SetEmissionRatePerDistance(toRange(em.RatePerDistance)); err != nil {
		return err
	}

	bursts := make([]particle.Burst, 0, len(em.Bursts))
	for _, b := range em.Bursts {
		factor, err := parseFactor(b.Factor)
		if err != nil {
			return err
		}
		bursts = append(bursts, particle.Burst{
			Factor:   factor,
			Start:    b.Start,
			Interval: b.Interval,
			Cycles:   b.Cycles,
			Count:    toRange(b.Count),
		})
	}
	if err := e.SetBursts(bursts); err != nil {
		return err
	}

	volume, err := effect.Spawn.toVolume()
	if err != nil {
		return err
	}
	if err := e.SetSpawnVolume(volume); err != nil {
		return err
	}

	if ex := effect.Explosion; ex != nil {
		center := vmath.Vector3{X: ex.Center[0], Y: ex.Center[1], Z: ex.Center[2]}
		e.SetExplosiveImpulse(center, ex.Impulse, ex.DecelerationMs)
	}

	for name, mod := range effect.Modifiers {
		channel, err := parseChannel(name)
		if err != nil {
			return err
		}
		if mod == nil {
			if err := e.SetModifier(channel, nil); err != nil {
				return err
			}
			continue
		}
		built, err := mod.build(channel)
		if err != nil {
			return fmt.Errorf("modifier %s: %w", name, err)
		}
		if err := e.SetModifier(channel, built); err != nil {
			return err
		}
	}
	return nil
}

// build converts one modifier config into an engine modifier, applying the
// channel's unit conversion to the initial endpoints and interval targets.
func (mod *ModifierConfig) build(channel particle.Channel) (*particle.Modifier, error) {
	factor, err := parseFactor(mod.Factor)
	if err != nil {
		return nil, err
	}
	if len(mod.Initial) != 2 {
		return nil, fmt.Errorf("initial needs exactly 2 endpoints, got %d", len(mod.Initial))
	}
	min := convertValue(channel, mod.Initial[0])
	max := convertValue(channel, mod.Initial[1])

	intervals := make([]particle.Interval, 0, len(mod.Intervals))
	for _, iv := range mod.Intervals {
		intervals = append(intervals, particle.Interval{
			Start:  iv.Start,
			End:    iv.End,
			Target: convertValue(channel, iv.Target),
		})
	}
	return particle.NewModifier(factor, min, max, intervals)
}

// convertValue broadcasts a 1-component value to all three axes and maps
// the preset's units onto the engine's: color channels 0-255 -> [0,1],
// rotation degrees -> radians.
func convertValue(channel particle.Channel, v []float64) vmath.Vector3 {
	var out vmath.Vector3
	switch len(v) {
	case 1:
		out = vmath.Vector3{X: v[0], Y: v[0], Z: v[0]}
	case 3:
		out = vmath.Vector3{X: v[0], Y: v[1], Z: v[2]}
	}
	switch channel {
	case particle.ChannelColor:
		out = out.Scale(1.0 / 255.0)
	case particle.ChannelRotation:
		out = out.Scale(math.Pi / 180.0)
	}
	return out
}

func (spawn SpawnConfig) toVolume() (particle.SpawnVolume, error) {
	switch spawn.Shape {
	case "", "point":
		return particle.PointVolume(), nil
	case "box":
		return particle.SpawnVolume{
			Shape:          particle.ShapeBox,
			Params:         spawn.Params,
			SpawnOnSurface: spawn.Surface,
		}, nil
	case "sphere":
		return particle.SpawnVolume{
			Shape:          particle.ShapeSphere,
			Params:         spawn.Params,
			SpawnOnSurface: spawn.Surface,
		}, nil
	}
	return particle.SpawnVolume{}, fmt.Errorf("unknown spawn shape %q", spawn.Shape)
}

func parseFactor(s string) (particle.Factor, error) {
	switch s {
	case "", "time":
		return particle.FactorTime, nil
	case "distance":
		return particle.FactorDistance, nil
	}
	return 0, fmt.Errorf("unknown factor %q", s)
}

func parseChannel(s string) (particle.Channel, error) {
	switch s {
	case "opacity":
		return particle.ChannelOpacity, nil
	case "color":
		return particle.ChannelColor, nil
	case "scale":
		return particle.ChannelScale, nil
	case "rotation":
		return particle.ChannelRotation, nil
	case "velocity":
		return particle.ChannelVelocity, nil
	case "acceleration":
		return particle.ChannelAcceleration, nil
	}
	return 0, fmt.Errorf("unknown modifier channel %q", s)
}

func toRange(r RangeConfig) particle.Range {
	return particle.Range{Min: r.Min, Max: r.Max}
}
