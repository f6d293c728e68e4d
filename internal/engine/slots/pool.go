// Package slots reproduces the fixed-size actor, projectile and effect tables
// of the classic game. Every transient entity of those kinds holds a slot
// index; systems that depend on the classic memory layout iterate entities
// in slot order.
package slots

import "container/heap"

// Pool capacities, matching the classic fixed-size arrays.
const (
	ActorCapacity      = 448
	ProjectileCapacity = 6
	EffectCapacity     = 18
)

// Pool hands out indices in [0, capacity), always the smallest free one.
// It never grows.
type Pool struct {
	capacity int
	free     indexHeap
}

// NewPool creates a pool with every index free.
func NewPool(capacity int) *Pool {
	p := &Pool{capacity: capacity, free: make(indexHeap, capacity)}
	for i := range p.free {
		p.free[i] = i
	}
	// Ascending order already satisfies the heap property.
	return p
}

// Acquire takes the smallest free index. It returns false when the pool is
// exhausted.
func (p *Pool) Acquire() (int, bool) {
	if len(p.free) == 0 {
		return 0, false
	}
	return heap.Pop(&p.free).(int), true
}

// Release returns index to the pool. Releasing an index that is already free
// corrupts the pool; callers release exactly once per Acquire.
func (p *Pool) Release(index int) {
	heap.Push(&p.free, index)
}

// HasFree reports whether Acquire would succeed.
func (p *Pool) HasFree() bool {
	return len(p.free) > 0
}

// Capacity returns the fixed size of the pool.
func (p *Pool) Capacity() int {
	return p.capacity
}

// InUse returns how many indices are currently held.
func (p *Pool) InUse() int {
	return p.capacity - len(p.free)
}

// indexHeap is a min-heap of free indices.
type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *indexHeap) Push(x any) {
	*h = append(*h, x.(int))
}

func (h *indexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
