// Package particle implements a real-time particle emission and simulation
// engine. An Emitter owns a fixed-size Pool of recycled particle records,
// an emission Scheduler (continuous rates plus discrete bursts), a
// SpawnVolume sampler and one Modifier per animated channel. The host scene
// graph drives the engine with exactly one Update call per rendered frame
// and reads the live particle records back to draw them; the engine itself
// never touches the renderer.
//
// All engine time values are milliseconds. Angles are radians and colors
// are normalized [0,1] channels inside the engine; conversion from degrees
// and 0-255 color values happens at the configuration boundary (see
// pkg/config).
package particle

import "github.com/decker502/pfx/pkg/vmath"

// Factor selects the quantity that drives a modifier curve or a burst
// schedule: time elapsed or distance traveled.
type Factor int

const (
	// FactorTime drives by elapsed milliseconds (particle age for
	// modifiers, emission-cycle time for bursts).
	FactorTime Factor = iota
	// FactorDistance drives by distance traveled in scene units
	// (the particle's own path length for modifiers, the emitter's
	// travel since cycle start for bursts).
	FactorDistance
)

// Channel identifies one animated particle property. The channels form a
// closed set so per-channel code can switch exhaustively instead of
// juggling six near-identical fields.
type Channel int

const (
	ChannelOpacity Channel = iota
	ChannelColor
	ChannelScale
	ChannelRotation
	ChannelVelocity
	ChannelAcceleration

	// NumChannels is the number of animated channels.
	NumChannels
)

// String returns the channel name used in logs and config errors.
func (c Channel) String() string {
	switch c {
	case ChannelOpacity:
		return "opacity"
	case ChannelColor:
		return "color"
	case ChannelScale:
		return "scale"
	case ChannelRotation:
		return "rotation"
	case ChannelVelocity:
		return "velocity"
	case ChannelAcceleration:
		return "acceleration"
	}
	return "unknown"
}

// Range is an inclusive integer min/max pair. A single random draw from
// the range fixes a per-particle or per-cycle value.
type Range struct {
	Min, Max int
}

// Particle is one recycled simulation record. Records are owned
// exclusively by the Pool; the host may read them between Update calls
// but must re-fetch by index every frame because slots are recycled.
type Particle struct {
	// Position is emitter-local when LocalBasis is true (the emitter was
	// fixedToEmitter at spawn time), otherwise world space.
	Position     vmath.Vector3
	Velocity     vmath.Vector3
	Acceleration vmath.Vector3

	Opacity  float64
	Color    vmath.Vector3 // normalized RGB
	Scale    vmath.Vector3
	Rotation vmath.Vector3 // radians per axis

	// SpawnedAt is the engine time (ms) the slot was last activated.
	SpawnedAt float64
	// SpawnedDistance is the emitter's cycle travel at spawn time.
	SpawnedDistance float64
	// Lifetime is this particle's randomized time to live in ms.
	Lifetime float64
	// Traveled is the length of the particle's own path since spawn,
	// used as the factor for distance-driven modifiers.
	Traveled float64
	// LocalBasis records the position basis captured at spawn: true means
	// the host composes Position with the emitter node's transform, so a
	// moving emitter carries its particles along.
	LocalBasis bool

	// Per-channel values sampled once at spawn. Modifiers interpolate
	// away from these; a particle never re-randomizes mid-life.
	initial [NumChannels]vmath.Vector3

	alive  bool
	diedAt float64
}

// Alive reports whether the record is live (not free, not zombie).
func (p *Particle) Alive() bool { return p.alive }

// Age returns the particle's age in ms at the given engine time.
func (p *Particle) Age(now float64) float64 { return now - p.SpawnedAt }
