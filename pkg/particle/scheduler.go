package particle

import (
	"fmt"
	"math/rand"
)

// Burst is a discrete, schedulable spawn event keyed to a reference
// factor. The k-th occurrence (k starting at 0) fires once the factor
// crosses Start + k*Interval; after Cycles occurrences the burst retires
// for the rest of the emission cycle. The whole burst list re-arms at the
// start of every new cycle.
type Burst struct {
	// Factor is the reference quantity: cycle time in ms or cycle
	// distance in scene units.
	Factor Factor
	// Start is the factor value at which the first occurrence fires.
	Start float64
	// Interval is the cooldown between occurrences, in the factor's unit.
	Interval float64
	// Cycles is how many occurrences fire before the burst retires.
	Cycles int
	// Count is the randomized particle count per occurrence.
	Count Range
}

// Validate rejects burst configurations that could never terminate or
// that would draw from an inverted count range.
func (b Burst) Validate() error {
	if b.Cycles < 1 {
		return fmt.Errorf("burst cycles must be at least 1, got %d", b.Cycles)
	}
	if b.Cycles > 1 && b.Interval <= 0 {
		return fmt.Errorf("repeating burst needs a positive interval, got %v", b.Interval)
	}
	if b.Count.Min > b.Count.Max {
		return fmt.Errorf("burst count range inverted: [%d %d]", b.Count.Min, b.Count.Max)
	}
	if b.Count.Min < 0 {
		return fmt.Errorf("burst count must not be negative, got %d", b.Count.Min)
	}
	return nil
}

// burstState tracks one armed burst within the current emission cycle.
// The next occurrence index is re-derived from the elapsed factor value
// on every tick, so a slow frame that covers several boundaries still
// fires the correct cumulative count.
type burstState struct {
	burst Burst
	fired int
}

// Scheduler decides, once per frame, how many particles to spawn this
// tick: a continuous per-second rate, a continuous per-distance rate and
// the scheduled bursts all contribute. Both rates are randomized once per
// emission cycle from their configured ranges.
//
// The continuous rates use exact integer accumulators: the count due is
// floor(elapsed * rate) minus what was already spawned, so fractional
// remainders persist across ticks and the long-run average rate is exact.
type Scheduler struct {
	perSecond   Range
	perDistance Range
	bursts      []Burst

	ratePerSecond   float64
	ratePerDistance float64
	scheduled       []burstState

	spawnedByTime     int
	spawnedByDistance int
}

// NewScheduler returns a scheduler with no rates and no bursts.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// SetRatePerSecond configures the continuous time-driven emission range.
// The effective rate is re-rolled at the next cycle reset.
func (s *Scheduler) SetRatePerSecond(r Range) { s.perSecond = r }

// SetRatePerDistance configures the continuous distance-driven emission
// range, in particles per scene unit traveled.
func (s *Scheduler) SetRatePerDistance(r Range) { s.perDistance = r }

// SetBursts replaces the configured burst list. The bursts are validated
// here so a malformed burst can never fire mid-frame; on error the
// previous list is kept.
func (s *Scheduler) SetBursts(bursts []Burst) error {
	for i, b := range bursts {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("burst %d: %w", i, err)
		}
	}
	s.bursts = append(s.bursts[:0:0], bursts...)
	s.rearmBursts()
	return nil
}

// ResetCycle re-arms every burst, re-rolls both continuous rates from
// their ranges and zeroes the spawn accumulators. Called at the start of
// every emission cycle.
func (s *Scheduler) ResetCycle(rng *rand.Rand) {
	s.ratePerSecond = float64(randomInIntRange(rng, s.perSecond))
	s.ratePerDistance = float64(randomInIntRange(rng, s.perDistance))
	s.spawnedByTime = 0
	s.spawnedByDistance = 0
	s.rearmBursts()
}

func (s *Scheduler) rearmBursts() {
	s.scheduled = s.scheduled[:0]
	for _, b := range s.bursts {
		s.scheduled = append(s.scheduled, burstState{burst: b})
	}
}

// Due returns the number of particles owed this tick given the emission
// cycle's elapsed time (ms) and distance traveled. It advances the
// accumulators and burst states, so call it exactly once per frame.
func (s *Scheduler) Due(rng *rand.Rand, elapsedMs, distance float64) int {
	count := 0

	if s.ratePerSecond > 0 {
		target := int(elapsedMs / 1000.0 * s.ratePerSecond)
		count += target - s.spawnedByTime
		s.spawnedByTime = target
	}
	if s.ratePerDistance > 0 {
		target := int(distance * s.ratePerDistance)
		count += target - s.spawnedByDistance
		s.spawnedByDistance = target
	}

	for i := range s.scheduled {
		st := &s.scheduled[i]
		ref := elapsedMs
		if st.burst.Factor == FactorDistance {
			ref = distance
		}
		for st.fired < st.burst.Cycles && ref >= st.burst.Start+float64(st.fired)*st.burst.Interval {
			count += randomInIntRange(rng, st.burst.Count)
			st.fired++
		}
	}

	return count
}
