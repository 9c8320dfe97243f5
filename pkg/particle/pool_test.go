package particle

import "testing"

func TestPoolSpawnClampsAtCapacity(t *testing.T) {
	p := NewPool(10)
	got := p.Spawn(25, 0)
	if len(got) != 10 {
		t.Fatalf("Spawn over capacity: got %d slots, want 10", len(got))
	}
	if p.LiveCount() != 10 {
		t.Errorf("LiveCount = %d, want 10", p.LiveCount())
	}
	// Full pool: further spawns yield nothing.
	if extra := p.Spawn(5, 1); len(extra) != 0 {
		t.Errorf("Spawn on full pool: got %d slots, want 0", len(extra))
	}
}

func TestPoolKillAndRecycle(t *testing.T) {
	p := NewPool(3)
	slots := p.Spawn(3, 0)

	p.Kill(slots[0], 100)
	if p.LiveCount() != 2 || p.ZombieCount() != 1 {
		t.Fatalf("after kill: live=%d zombies=%d, want 2/1", p.LiveCount(), p.ZombieCount())
	}

	// The zombie slot is recycled before the grace period expires.
	reused := p.Spawn(1, 200)
	if len(reused) != 1 {
		t.Fatalf("Spawn after kill: got %d slots, want 1", len(reused))
	}
	if reused[0] != slots[0] {
		t.Errorf("recycled slot = %d, want zombie slot %d", reused[0], slots[0])
	}
	if p.ZombieCount() != 0 {
		t.Errorf("ZombieCount = %d, want 0 after recycle", p.ZombieCount())
	}
}

func TestPoolRecyclesOldestZombieFirst(t *testing.T) {
	p := NewPool(4)
	slots := p.Spawn(4, 0)

	p.Kill(slots[2], 50)
	p.Kill(slots[0], 60)

	reused := p.Spawn(2, 100)
	if len(reused) != 2 {
		t.Fatalf("Spawn: got %d slots, want 2", len(reused))
	}
	if reused[0] != slots[2] || reused[1] != slots[0] {
		t.Errorf("recycle order = %v, want [%d %d]", reused, slots[2], slots[0])
	}
}

func TestPoolZombieAging(t *testing.T) {
	p := NewPool(2)
	slots := p.Spawn(2, 0)
	p.Kill(slots[0], 100)

	p.AgeZombies(100 + ZombieGraceMs - 1)
	if p.ZombieCount() != 1 {
		t.Errorf("zombie freed before grace elapsed")
	}
	p.AgeZombies(100 + ZombieGraceMs)
	if p.ZombieCount() != 0 {
		t.Errorf("zombie not freed after grace elapsed")
	}
}

func TestPoolKillSwapRemove(t *testing.T) {
	p := NewPool(5)
	p.Spawn(5, 0)

	// Kill the middle of the live list; the list stays dense.
	victim := p.Live()[2]
	p.Kill(victim, 10)
	if p.LiveCount() != 4 {
		t.Fatalf("LiveCount = %d, want 4", p.LiveCount())
	}
	for _, slot := range p.Live() {
		if slot == victim {
			t.Errorf("killed slot %d still in live list", victim)
		}
		if !p.At(slot).Alive() {
			t.Errorf("live slot %d not marked alive", slot)
		}
	}

	// Killing it again is a no-op.
	p.Kill(victim, 20)
	if p.LiveCount() != 4 || p.ZombieCount() != 1 {
		t.Errorf("double kill changed counts: live=%d zombies=%d", p.LiveCount(), p.ZombieCount())
	}
}

func TestPoolReset(t *testing.T) {
	p := NewPool(4)
	slots := p.Spawn(4, 0)
	p.Kill(slots[1], 10)

	p.Reset()
	if p.LiveCount() != 0 || p.ZombieCount() != 0 {
		t.Errorf("after reset: live=%d zombies=%d, want 0/0", p.LiveCount(), p.ZombieCount())
	}
	if got := p.Spawn(4, 20); len(got) != 4 {
		t.Errorf("Spawn after reset: got %d slots, want 4", len(got))
	}
}
