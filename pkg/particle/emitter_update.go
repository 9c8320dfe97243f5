package particle

import (
	"math/rand"

	"github.com/decker502/pfx/pkg/vmath"
)

// Update advances the whole effect to the given engine time (ms). One call
// per rendered frame drives everything: the run flag and delay bookkeeping,
// the emission scheduler, spawning, per-particle physics and appearance,
// lifetime kills and zombie aging. The first Update after construction or
// after ResetEmissionCycle sees a zero dt.
func (e *Emitter) Update(now float64) {
	dt := 0.0
	if e.haveTime {
		dt = now - e.lastUpdate
		if dt < 0 {
			dt = 0
		}
	}
	e.lastUpdate = now
	e.haveTime = true

	e.applyRunRequest()

	pos, nodeAlive := e.nodePosition()
	moved := 0.0
	if nodeAlive {
		if e.havePos {
			moved = pos.Distance(e.lastPos)
		}
		e.lastPos = pos
		e.havePos = true
	}

	if e.run && nodeAlive {
		e.advanceCycle(dt, moved)
	}

	if e.run && nodeAlive && e.state == stateEmitting {
		due := e.sched.Due(e.rng, e.elapsed, e.distance)
		for _, slot := range e.pool.Spawn(due, now) {
			e.initParticle(e.pool.At(slot), now)
		}
	}

	// Live particles keep animating after emission finishes, but freeze
	// while paused or while a cycle is still delaying.
	if e.run && nodeAlive && (e.state == stateEmitting || e.state == stateFinished) {
		e.updateParticles(now, dt/1000.0)
	}

	// Zombie aging runs unconditionally so slots are reclaimed even while
	// the emitter is paused or its node is gone.
	e.pool.AgeZombies(now)
}

// applyRunRequest folds a deferred SetRun into the state machine.
func (e *Emitter) applyRunRequest() {
	if e.requestRun == e.run {
		return
	}
	e.run = e.requestRun
	if !e.run {
		if e.state == stateDelaying || e.state == stateEmitting {
			e.state = stateIdle
		}
		return
	}
	if !e.started {
		e.started = true
		e.delayRemaining = e.delay
		e.sched.ResetCycle(e.rng)
	}
	if e.state == stateIdle {
		if e.delayRemaining > 0 {
			e.state = stateDelaying
		} else {
			e.state = stateEmitting
		}
	}
}

// advanceCycle burns dt against the remaining delay, accumulates the
// cycle's elapsed time and distance while emitting, and handles duration
// expiry: loop back into a fresh delayed cycle, or finish.
func (e *Emitter) advanceCycle(dt, moved float64) {
	switch e.state {
	case stateDelaying:
		e.delayRemaining -= dt
		if e.delayRemaining <= 0 {
			// The part of the frame past the delay already counts as
			// emission time.
			e.elapsed += -e.delayRemaining
			e.delayRemaining = 0
			e.state = stateEmitting
		}
	case stateEmitting:
		e.elapsed += dt
		e.distance += moved
	}

	if e.state == stateEmitting && e.duration > 0 && e.elapsed >= e.duration {
		if e.loop {
			e.resetCycle()
		} else {
			e.state = stateFinished
		}
	}
}

// initParticle initializes a freshly spawned slot: spawn position from the
// volume, lifetime and per-channel initial values drawn once from their
// ranges, and the explosive impulse if one is configured.
func (e *Emitter) initParticle(p *Particle, now float64) {
	local := e.volume.Sample(e.rng)

	p.LocalBasis = e.fixedToEmitter
	if p.LocalBasis {
		p.Position = local
	} else {
		p.Position = e.lastPos.Add(local)
	}
	p.SpawnedAt = now
	p.SpawnedDistance = e.distance
	p.Lifetime = float64(randomInIntRange(e.rng, e.lifetime))

	for ch := Channel(0); ch < NumChannels; ch++ {
		if m := e.modifiers[ch]; m != nil {
			p.initial[ch] = m.SampleInitial(e.rng)
		} else {
			p.initial[ch] = defaultChannelValue(ch)
		}
	}
	// Opacity and color clamp at spawn just as they do on every later
	// evaluation, so an out-of-range initial range never surfaces.
	p.Opacity = vmath.Clamp01(p.initial[ChannelOpacity]).X
	p.Color = vmath.Clamp01(p.initial[ChannelColor])
	p.Scale = p.initial[ChannelScale]
	p.Rotation = p.initial[ChannelRotation]
	p.Velocity = p.initial[ChannelVelocity]
	p.Acceleration = p.initial[ChannelAcceleration]

	if e.explosionImpulse > 0 {
		e.applyImpulse(p, local)
	}
}

// applyImpulse adds the explosive burst velocity to a spawned particle.
// The impulse pushes away from the explosion center; particles spawned
// later in the cycle receive a linearly weaker push when a deceleration
// period is set, and the counter-acceleration bleeds the impulse off over
// that same period.
func (e *Emitter) applyImpulse(p *Particle, local vmath.Vector3) {
	dir := local.Sub(e.explosionCenter)
	if dir.Length() == 0 {
		dir = randomUnit(e.rng)
	} else {
		dir = dir.Normalize()
	}

	mag := e.explosionImpulse
	if e.explosionDecelMs > 0 {
		falloff := 1 - e.elapsed/e.explosionDecelMs
		if falloff < 0 {
			falloff = 0
		}
		mag *= falloff
		// The counter-acceleration bleeds off exactly the push this
		// particle received, so a late, weak push is not overpowered
		// into a reversal through the center.
		p.Acceleration = p.Acceleration.Add(dir.Scale(-mag / (e.explosionDecelMs / 1000.0)))
	}
	p.Velocity = p.Velocity.Add(dir.Scale(mag))
}

// updateParticles integrates physics and evaluates the appearance channels
// for every live particle, killing those past their lifetime. Kills use
// swap-remove, so the index only advances when the current slot survives.
func (e *Emitter) updateParticles(now, dtSec float64) {
	for i := 0; i < len(e.pool.live); {
		slot := e.pool.live[i]
		p := &e.pool.slots[slot]

		age := now - p.SpawnedAt
		if age >= p.Lifetime {
			e.pool.Kill(slot, now)
			continue
		}

		// An animated velocity or acceleration curve drives the value
		// directly; otherwise the spawn-time value integrates freely.
		if m := e.modifiers[ChannelVelocity]; m != nil && m.Animated() {
			p.Velocity = m.Evaluate(p.initial[ChannelVelocity], e.channelFactor(m, p, age))
		}
		if m := e.modifiers[ChannelAcceleration]; m != nil && m.Animated() {
			p.Acceleration = m.Evaluate(p.initial[ChannelAcceleration], e.channelFactor(m, p, age))
		}

		// Semi-implicit Euler: velocity first, then position.
		prev := p.Position
		p.Velocity = p.Velocity.Add(p.Acceleration.Scale(dtSec))
		p.Position = p.Position.Add(p.Velocity.Scale(dtSec))
		p.Traveled += p.Position.Distance(prev)

		if m := e.modifiers[ChannelOpacity]; m != nil {
			v := m.Evaluate(p.initial[ChannelOpacity], e.channelFactor(m, p, age))
			p.Opacity = vmath.Clamp01(v).X
		}
		if m := e.modifiers[ChannelColor]; m != nil {
			v := m.Evaluate(p.initial[ChannelColor], e.channelFactor(m, p, age))
			p.Color = vmath.Clamp01(v)
		}
		if m := e.modifiers[ChannelScale]; m != nil {
			p.Scale = m.Evaluate(p.initial[ChannelScale], e.channelFactor(m, p, age))
		}
		if m := e.modifiers[ChannelRotation]; m != nil {
			p.Rotation = m.Evaluate(p.initial[ChannelRotation], e.channelFactor(m, p, age))
		}

		i++
	}
}

// channelFactor returns the driving factor value for one particle: its age
// in ms, or the distance it has traveled since spawn.
func (e *Emitter) channelFactor(m *Modifier, p *Particle, ageMs float64) float64 {
	if m.Factor() == FactorDistance {
		return p.Traveled
	}
	return ageMs
}

// nodePosition resolves the emitter's world position. A nil node pins the
// emitter to the origin and is always considered alive.
func (e *Emitter) nodePosition() (vmath.Vector3, bool) {
	if e.node == nil {
		return vmath.Vector3{}, true
	}
	return e.node.WorldPosition()
}

// defaultChannelValue is the value a channel holds when no modifier is
// bound: fully opaque white at unit scale, at rest.
func defaultChannelValue(ch Channel) vmath.Vector3 {
	switch ch {
	case ChannelOpacity:
		return vmath.Vector3{X: 1}
	case ChannelColor:
		return vmath.Vector3{X: 1, Y: 1, Z: 1}
	case ChannelScale:
		return vmath.Vector3{X: 1, Y: 1, Z: 1}
	default:
		return vmath.Vector3{}
	}
}

// randomUnit returns a uniformly distributed direction on the unit sphere.
func randomUnit(rng *rand.Rand) vmath.Vector3 {
	for {
		v := vmath.Vector3{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		if v.Length() > 0 {
			return v.Normalize()
		}
	}
}
