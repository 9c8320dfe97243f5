package particle

// ZombieGraceMs is how long a dead particle is retained as a zombie before
// its slot returns to the free list. Zombies are the preferred source for
// recycling so steady-state frames never allocate.
const ZombieGraceMs = 2000

type slotState uint8

const (
	slotFree slotState = iota
	slotLive
	slotZombie
)

// Pool owns a fixed arena of particle slots. Every slot is in exactly one
// of three states: free, live, or zombie (recently dead, reusable). The
// arena is sized once at construction and never reallocated; Spawn, Kill
// and AgeZombies all run in O(1) per particle with no allocation.
//
// Nothing outside the pool may retain a particle pointer across frames:
// consumers iterate the indices returned by Live and re-fetch with At.
type Pool struct {
	slots []Particle
	state []slotState

	live    []int // live slot indices, order unspecified
	liveIdx []int // slot -> position in live, -1 when not live

	free []int // free slot indices (LIFO)

	// zombie FIFO: oldest dead first, so recycling prefers the slots
	// that have been waiting longest.
	zombies []int
}

// NewPool creates a pool with capacity max slots. max must be positive.
func NewPool(max int) *Pool {
	if max < 1 {
		max = 1
	}
	p := &Pool{
		slots:   make([]Particle, max),
		state:   make([]slotState, max),
		live:    make([]int, 0, max),
		liveIdx: make([]int, max),
		free:    make([]int, 0, max),
		zombies: make([]int, 0, max),
	}
	for i := max - 1; i >= 0; i-- {
		p.free = append(p.free, i)
		p.liveIdx[i] = -1
	}
	return p
}

// Capacity returns the fixed slot count (the configured particle maximum).
func (p *Pool) Capacity() int { return len(p.slots) }

// LiveCount returns the number of live particles.
func (p *Pool) LiveCount() int { return len(p.live) }

// ZombieCount returns the number of slots awaiting reuse or aging out.
func (p *Pool) ZombieCount() int { return len(p.zombies) }

// Live returns the live slot indices. The slice is owned by the pool and
// is invalidated by Spawn and Kill; callers must not hold it across calls.
func (p *Pool) Live() []int { return p.live }

// At returns the particle record in the given slot. Valid only for
// indices obtained from Live or Spawn this frame.
func (p *Pool) At(i int) *Particle { return &p.slots[i] }

// Spawn activates up to n slots and returns their indices, recycling the
// oldest zombies before drawing from the free list. Requests beyond the
// remaining capacity are silently clamped; capacity is a soft ceiling,
// not a fault. Activated records are zeroed; the caller initializes them.
func (p *Pool) Spawn(n int, now float64) []int {
	start := len(p.live)
	for i := 0; i < n; i++ {
		var slot int
		switch {
		case len(p.zombies) > 0:
			slot = p.zombies[0]
			p.zombies = p.zombies[:copy(p.zombies, p.zombies[1:])]
		case len(p.free) > 0:
			slot = p.free[len(p.free)-1]
			p.free = p.free[:len(p.free)-1]
		default:
			// Soft ceiling: the arena is full of live particles.
			return p.live[start:]
		}
		p.slots[slot] = Particle{SpawnedAt: now, alive: true}
		p.state[slot] = slotLive
		p.liveIdx[slot] = len(p.live)
		p.live = append(p.live, slot)
	}
	return p.live[start:]
}

// Kill demotes a live slot to zombie, stamping its death time. Killing a
// slot that is not live is a no-op.
func (p *Pool) Kill(slot int, now float64) {
	if slot < 0 || slot >= len(p.slots) || p.state[slot] != slotLive {
		return
	}
	// Swap-remove from the live list.
	at := p.liveIdx[slot]
	last := p.live[len(p.live)-1]
	p.live[at] = last
	p.liveIdx[last] = at
	p.live = p.live[:len(p.live)-1]
	p.liveIdx[slot] = -1

	p.state[slot] = slotZombie
	p.slots[slot].alive = false
	p.slots[slot].diedAt = now
	p.zombies = append(p.zombies, slot)
}

// AgeZombies permanently frees zombies whose death time plus the grace
// period has elapsed. Freed slots carry no valid particle data.
func (p *Pool) AgeZombies(now float64) {
	for len(p.zombies) > 0 {
		slot := p.zombies[0]
		if p.slots[slot].diedAt+ZombieGraceMs > now {
			break
		}
		p.zombies = p.zombies[:copy(p.zombies, p.zombies[1:])]
		p.state[slot] = slotFree
		p.free = append(p.free, slot)
	}
}

// Reset returns every slot to the free state, dropping all live and
// zombie particles.
func (p *Pool) Reset() {
	p.live = p.live[:0]
	p.zombies = p.zombies[:0]
	p.free = p.free[:0]
	for i := len(p.slots) - 1; i >= 0; i-- {
		p.state[i] = slotFree
		p.liveIdx[i] = -1
		p.free = append(p.free, i)
	}
}
