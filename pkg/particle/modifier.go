package particle

import (
	"fmt"
	"math/rand"

	"github.com/decker502/pfx/pkg/vmath"
)

// Interval maps a [Start,End] span of the driving factor to a Target value
// reached by the interval's end. Within the span the value interpolates
// linearly, component-wise, from the value held at the previous interval's
// end (or from the particle's randomized initial value for the first
// interval).
type Interval struct {
	Start  float64
	End    float64
	Target vmath.Vector3
}

// Modifier is an immutable piecewise-linear interpolation curve for one
// particle channel. It is configured once with a driving factor, an
// initial min/max range (randomized once per particle at spawn) and an
// ordered, non-overlapping interval list.
//
// Evaluate is a pure function of the configuration, a sampled initial
// value and the current factor value: a factor before the first interval's
// start yields the initial value, a factor past the last interval holds
// the final target.
type Modifier struct {
	factor     Factor
	initialMin vmath.Vector3
	initialMax vmath.Vector3
	intervals  []Interval
}

// NewModifier builds a modifier, validating that the interval list is
// ascending and non-overlapping. An empty interval list is legal: the
// value then never changes from its randomized initial value.
func NewModifier(factor Factor, initialMin, initialMax vmath.Vector3, intervals []Interval) (*Modifier, error) {
	for i, iv := range intervals {
		if iv.End < iv.Start {
			return nil, fmt.Errorf("modifier interval %d: end %v before start %v", i, iv.End, iv.Start)
		}
		if i > 0 && iv.Start < intervals[i-1].End {
			return nil, fmt.Errorf("modifier interval %d: overlaps previous interval ending at %v", i, intervals[i-1].End)
		}
	}
	m := &Modifier{
		factor:     factor,
		initialMin: initialMin,
		initialMax: initialMax,
	}
	if len(intervals) > 0 {
		m.intervals = append([]Interval(nil), intervals...)
	}
	return m, nil
}

// ConstantModifier returns a modifier that always yields v: the initial
// range collapses to a single point and there are no intervals.
func ConstantModifier(v vmath.Vector3) *Modifier {
	return &Modifier{factor: FactorTime, initialMin: v, initialMax: v}
}

// Factor returns the quantity driving this modifier's curve.
func (m *Modifier) Factor() Factor { return m.factor }

// Animated reports whether the modifier carries interpolation intervals,
// i.e. whether its value changes after spawn at all.
func (m *Modifier) Animated() bool { return len(m.intervals) > 0 }

// SampleInitial draws a particle's starting value uniformly from the
// configured min/max range, component-wise. It is called exactly once per
// particle, at spawn; the result is held fixed for the particle's life.
func (m *Modifier) SampleInitial(rng *rand.Rand) vmath.Vector3 {
	return vmath.Vector3{
		X: randomInRange(rng, m.initialMin.X, m.initialMax.X),
		Y: randomInRange(rng, m.initialMin.Y, m.initialMax.Y),
		Z: randomInRange(rng, m.initialMin.Z, m.initialMax.Z),
	}
}

// Evaluate returns the channel value at the given factor value, starting
// from the initial value sampled for this particle at spawn.
func (m *Modifier) Evaluate(initial vmath.Vector3, factor float64) vmath.Vector3 {
	if len(m.intervals) == 0 || factor < m.intervals[0].Start {
		return initial
	}
	prev := initial
	for _, iv := range m.intervals {
		if factor < iv.Start {
			// Gap between intervals: hold the last reached target.
			return prev
		}
		if factor <= iv.End {
			span := iv.End - iv.Start
			if span <= 0 {
				return iv.Target
			}
			return vmath.Lerp(prev, iv.Target, (factor-iv.Start)/span)
		}
		prev = iv.Target
	}
	// Past the last interval: hold its end value.
	return prev
}

// randomInRange returns a uniform draw from [min,max]. min >= max yields
// min, so a collapsed range is deterministic.
func randomInRange(rng *rand.Rand, min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + rng.Float64()*(max-min)
}

// randomInIntRange returns a uniform integer draw from the inclusive range.
func randomInIntRange(rng *rand.Rand, r Range) int {
	if r.Min >= r.Max {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}
