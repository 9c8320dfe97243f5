package particle

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/decker502/pfx/pkg/vmath"
)

// Default emitter configuration, applied by NewEmitter.
const (
	DefaultMaxParticles = 500
	DefaultDurationMs   = 2000
	DefaultLifetimeMs   = 2000
)

// NodeRef is a non-owning handle to the scene-graph node that positions an
// emitter. The node's lifetime belongs to the host; WorldPosition reports
// ok=false once the node has been removed, which parks the emitter without
// corrupting its state.
type NodeRef interface {
	WorldPosition() (vmath.Vector3, bool)
}

// emitterState is the emitter's lifecycle state machine:
//
//	Idle -> Delaying -> Emitting -> Finished
//
// with Emitting -> Delaying on loop rollover. Idle is entered whenever the
// run flag is deasserted; resuming continues the accumulated delay and
// elapsed time rather than restarting them.
type emitterState int

const (
	stateIdle emitterState = iota
	stateDelaying
	stateEmitting
	stateFinished
)

// Emitter orchestrates one particle effect: it owns the pool, the
// scheduler, the spawn volume and the per-channel modifiers, and advances
// the whole simulation in a single Update call per rendered frame.
//
// An emitter is single-writer and non-reentrant: the host must not call
// setters concurrently with an in-flight Update on the same instance.
// Setters called between frames take effect on the next Update.
type Emitter struct {
	node  NodeRef
	pool  *Pool
	sched *Scheduler
	rng   *rand.Rand

	duration       float64 // ms; <= 0 emits until stopped
	delay          float64 // ms before each cycle's emission starts
	loop           bool
	fixedToEmitter bool
	lifetime       Range // particle lifetime range, ms

	volume    SpawnVolume
	modifiers [NumChannels]*Modifier

	explosionCenter  vmath.Vector3
	explosionImpulse float64 // initial impulse magnitude; <= 0 disables
	explosionDecelMs float64 // linear decay period; <= 0 means no decay

	// requestRun defers run-flag changes to the next Update so a state
	// transition never happens between the host's compute passes.
	requestRun bool
	run        bool
	started    bool

	state          emitterState
	delayRemaining float64
	elapsed        float64 // ms of active emission this cycle
	distance       float64 // emitter travel this cycle

	lastPos    vmath.Vector3
	havePos    bool
	lastUpdate float64
	haveTime   bool
}

// NewEmitter creates an emitter positioned by node. A nil node pins the
// emitter to the origin. The emitter starts idle; call SetRun(true) to
// begin the first emission cycle on the next Update.
func NewEmitter(node NodeRef) *Emitter {
	return &Emitter{
		node:     node,
		pool:     NewPool(DefaultMaxParticles),
		sched:    NewScheduler(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		duration: DefaultDurationMs,
		lifetime: Range{Min: DefaultLifetimeMs, Max: DefaultLifetimeMs},
		volume:   PointVolume(),
	}
}

// SetSeed reseeds the emitter's random source. All per-particle
// randomization flows through this source, so a fixed seed makes a run
// reproducible.
func (e *Emitter) SetSeed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// SetRun starts or pauses emission. Pausing freezes the accumulated
// delay, elapsed time and distance; resuming continues them. The change
// is applied at the start of the next Update.
func (e *Emitter) SetRun(run bool) { e.requestRun = run }

// SetDuration sets how long each emission cycle actively emits, in ms.
// A non-positive duration emits until explicitly stopped.
func (e *Emitter) SetDuration(ms float64) { e.duration = ms }

// SetDelay sets the pause before each cycle's emission starts, in ms.
// It is not counted against the duration.
func (e *Emitter) SetDelay(ms float64) {
	e.delay = ms
	if !e.started {
		e.delayRemaining = ms
	}
}

// SetLoop makes the emission cycle repeat after its duration elapses.
func (e *Emitter) SetLoop(loop bool) { e.loop = loop }

// SetFixedToEmitter selects the position basis captured at spawn time.
// When true, particles live in emitter-local space and follow the node;
// when false, spawned particles keep their world position regardless of
// later emitter moves.
func (e *Emitter) SetFixedToEmitter(fixed bool) { e.fixedToEmitter = fixed }

// SetMaxParticles rebuilds the pool with the given capacity, dropping any
// existing particles. The pool is sized once here and never resized
// during steady-state frames.
func (e *Emitter) SetMaxParticles(max int) error {
	if max < 1 {
		return fmt.Errorf("max particles must be positive, got %d", max)
	}
	e.pool = NewPool(max)
	return nil
}

// SetParticleLifetime sets the randomized per-particle lifetime range, ms.
func (e *Emitter) SetParticleLifetime(r Range) error {
	if err := validateRange("particle lifetime", r); err != nil {
		return err
	}
	e.lifetime = r
	return nil
}

// SetEmissionRatePerSecond sets the continuous time-driven emission range.
func (e *Emitter) SetEmissionRatePerSecond(r Range) error {
	if err := validateRange("emission rate per second", r); err != nil {
		return err
	}
	e.sched.SetRatePerSecond(r)
	return nil
}

// SetEmissionRatePerDistance sets the continuous distance-driven emission
// range, in particles per scene unit of emitter travel.
func (e *Emitter) SetEmissionRatePerDistance(r Range) error {
	if err := validateRange("emission rate per distance", r); err != nil {
		return err
	}
	e.sched.SetRatePerDistance(r)
	return nil
}

// SetBursts replaces the scheduled burst list. On validation failure the
// previous list is kept and the error describes the offending burst.
func (e *Emitter) SetBursts(bursts []Burst) error {
	return e.sched.SetBursts(bursts)
}

// SetSpawnVolume replaces the spawn volume. A malformed volume is
// rejected here so it can never be sampled mid-frame.
func (e *Emitter) SetSpawnVolume(v SpawnVolume) error {
	if err := v.Validate(); err != nil {
		return err
	}
	e.volume = v
	return nil
}

// SetExplosiveImpulse configures an initial explosive force: each spawned
// particle gains velocity directed away from center (emitter-local) with
// the given magnitude. When decelMs is positive the impulse decays
// linearly to zero over that period of cycle time, and a matching
// counter-acceleration bleeds the impulse off each particle; decelMs <= 0
// leaves the impulse undamped. An impulse <= 0 disables the effect.
func (e *Emitter) SetExplosiveImpulse(center vmath.Vector3, impulse, decelMs float64) {
	e.explosionCenter = center
	e.explosionImpulse = impulse
	e.explosionDecelMs = decelMs
}

// SetModifier binds a modifier to one animated channel. A nil modifier
// clears the channel back to its default.
func (e *Emitter) SetModifier(ch Channel, m *Modifier) error {
	if ch < 0 || ch >= NumChannels {
		return fmt.Errorf("unknown modifier channel %d", ch)
	}
	e.modifiers[ch] = m
	return nil
}

// FinishedEmissionCycle reports whether the emitter has completed its
// cycle for good: duration elapsed and loop off.
func (e *Emitter) FinishedEmissionCycle() bool {
	return e.state == stateFinished && !e.loop
}

// ResetEmissionCycle rewinds the emitter to the beginning of its emission
// cycle: elapsed time and distance zero out, every burst re-arms and the
// continuous rates re-roll. When resetParticles is set the pool is also
// cleared. An Update immediately after behaves exactly like a fresh
// emitter's first Update.
func (e *Emitter) ResetEmissionCycle(resetParticles bool) {
	e.resetCycle()
	if resetParticles {
		e.pool.Reset()
	}
	e.haveTime = false
	e.havePos = false
}

// resetCycle rewinds cycle-scoped state. Shared by ResetEmissionCycle and
// the loop rollover inside Update.
func (e *Emitter) resetCycle() {
	e.elapsed = 0
	e.distance = 0
	e.delayRemaining = e.delay
	e.sched.ResetCycle(e.rng)
	if e.run {
		if e.delayRemaining > 0 {
			e.state = stateDelaying
		} else {
			e.state = stateEmitting
		}
	} else {
		e.state = stateIdle
		e.started = false
	}
}

// LiveCount returns the number of live particles.
func (e *Emitter) LiveCount() int { return e.pool.LiveCount() }

// MaxParticles returns the pool capacity.
func (e *Emitter) MaxParticles() int { return e.pool.Capacity() }

// ForEachLive calls fn for every live particle. The host's render stage
// uses this to read positions and appearance each frame; the pointers
// must not be retained across frames.
func (e *Emitter) ForEachLive(fn func(p *Particle)) {
	for _, slot := range e.pool.live {
		fn(&e.pool.slots[slot])
	}
}

func validateRange(what string, r Range) error {
	if r.Min < 0 {
		return fmt.Errorf("%s must not be negative, got min %d", what, r.Min)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%s range inverted: [%d %d]", what, r.Min, r.Max)
	}
	return nil
}
