package particle

import (
	"math/rand"
	"testing"
)

func TestSchedulerRatePerSecondExact(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler()
	s.SetRatePerSecond(Range{Min: 30, Max: 30})
	s.ResetCycle(rng)

	// 60 uneven ticks covering exactly one second.
	total := 0
	elapsed := 0.0
	steps := []float64{16, 17, 16, 17, 16, 18}
	for i := 0; i < 60; i++ {
		elapsed += steps[i%len(steps)]
		total += s.Due(rng, elapsed, 0)
	}
	want := int(elapsed / 1000.0 * 30)
	if total != want {
		t.Errorf("spawned %d over %vms at 30/s, want %d", total, elapsed, want)
	}
}

func TestSchedulerRatePerDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler()
	s.SetRatePerDistance(Range{Min: 4, Max: 4})
	s.ResetCycle(rng)

	if got := s.Due(rng, 0, 0.2); got != 0 {
		t.Errorf("Due at 0.2 units = %d, want 0", got)
	}
	if got := s.Due(rng, 0, 0.5); got != 2 {
		t.Errorf("Due at 0.5 units = %d, want 2", got)
	}
	if got := s.Due(rng, 0, 2.0); got != 6 {
		t.Errorf("Due at 2.0 units = %d, want 6 (8 total)", got)
	}
}

func TestSchedulerBurstOccurrences(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler()
	err := s.SetBursts([]Burst{{
		Factor:   FactorTime,
		Start:    500,
		Interval: 1000,
		Cycles:   3,
		Count:    Range{Min: 5, Max: 5},
	}})
	if err != nil {
		t.Fatalf("SetBursts: %v", err)
	}
	s.ResetCycle(rng)

	if got := s.Due(rng, 400, 0); got != 0 {
		t.Errorf("before start: got %d, want 0", got)
	}
	if got := s.Due(rng, 500, 0); got != 5 {
		t.Errorf("first occurrence: got %d, want 5", got)
	}
	if got := s.Due(rng, 1400, 0); got != 0 {
		t.Errorf("between occurrences: got %d, want 0", got)
	}
	if got := s.Due(rng, 1500, 0); got != 5 {
		t.Errorf("second occurrence: got %d, want 5", got)
	}
	// A slow frame that jumps past the last boundary still fires it once.
	if got := s.Due(rng, 9000, 0); got != 5 {
		t.Errorf("final occurrence after long frame: got %d, want 5", got)
	}
	// Retired for the rest of the cycle.
	if got := s.Due(rng, 20000, 0); got != 0 {
		t.Errorf("retired burst fired again: got %d", got)
	}
}

func TestSchedulerSlowFrameFiresCumulativeBursts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler()
	if err := s.SetBursts([]Burst{{
		Factor:   FactorTime,
		Start:    0,
		Interval: 100,
		Cycles:   4,
		Count:    Range{Min: 2, Max: 2},
	}}); err != nil {
		t.Fatalf("SetBursts: %v", err)
	}
	s.ResetCycle(rng)

	// One frame spanning all four boundaries fires all four occurrences.
	if got := s.Due(rng, 1000, 0); got != 8 {
		t.Errorf("cumulative burst count = %d, want 8", got)
	}
}

func TestSchedulerResetCycleRearms(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewScheduler()
	s.SetRatePerSecond(Range{Min: 10, Max: 10})
	if err := s.SetBursts([]Burst{{
		Factor: FactorTime, Start: 0, Cycles: 1, Count: Range{Min: 3, Max: 3},
	}}); err != nil {
		t.Fatalf("SetBursts: %v", err)
	}
	s.ResetCycle(rng)

	first := s.Due(rng, 1000, 0)
	if first != 13 {
		t.Fatalf("first cycle total = %d, want 13 (10 rate + 3 burst)", first)
	}

	s.ResetCycle(rng)
	second := s.Due(rng, 1000, 0)
	if second != 13 {
		t.Errorf("after reset total = %d, want 13 again", second)
	}
}

func TestBurstValidate(t *testing.T) {
	tests := []struct {
		name    string
		burst   Burst
		wantErr bool
	}{
		{"single shot", Burst{Cycles: 1, Count: Range{Min: 1, Max: 5}}, false},
		{"repeating", Burst{Cycles: 3, Interval: 100, Count: Range{Min: 1, Max: 1}}, false},
		{"zero cycles", Burst{Cycles: 0, Count: Range{Min: 1, Max: 1}}, true},
		{"repeating without interval", Burst{Cycles: 2, Count: Range{Min: 1, Max: 1}}, true},
		{"inverted count", Burst{Cycles: 1, Count: Range{Min: 5, Max: 1}}, true},
		{"negative count", Burst{Cycles: 1, Count: Range{Min: -1, Max: 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.burst.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
