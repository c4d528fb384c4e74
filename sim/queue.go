// Implements the pending-event arena and the min-heap over it.
// Cancelled entries stay in the heap and are skipped when popped.

package sim

// scheduledEvent is one arena slot.
type scheduledEvent struct {
	event     Event
	seq       uint64 // insertion order, tie-break for equal times
	gen       uint64 // bumped every time the slot is released
	cancelled bool
	live      bool
}

// EventQueue implements heap.Interface over indices into the arena.
// Ordering: time, then insertion sequence.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue struct {
	arena []scheduledEvent
	free  []int
	heap  []int
}

func (eq *EventQueue) Len() int { return len(eq.heap) }

func (eq *EventQueue) Less(i, j int) bool {
	a, b := &eq.arena[eq.heap[i]], &eq.arena[eq.heap[j]]
	if a.event.Time != b.event.Time {
		return a.event.Time < b.event.Time
	}
	return a.seq < b.seq
}

func (eq *EventQueue) Swap(i, j int) { eq.heap[i], eq.heap[j] = eq.heap[j], eq.heap[i] }

func (eq *EventQueue) Push(x any) {
	eq.heap = append(eq.heap, x.(int))
}

func (eq *EventQueue) Pop() any {
	old := eq.heap
	n := len(old)
	item := old[n-1]
	eq.heap = old[0 : n-1]
	return item
}

// alloc stores ev in a free arena slot and returns its index.
func (eq *EventQueue) alloc(ev Event, seq uint64) int {
	var slot int
	if n := len(eq.free); n > 0 {
		slot = eq.free[n-1]
		eq.free = eq.free[:n-1]
	} else {
		eq.arena = append(eq.arena, scheduledEvent{})
		slot = len(eq.arena) - 1
	}
	s := &eq.arena[slot]
	s.event = ev
	s.seq = seq
	s.gen++
	s.cancelled = false
	s.live = true
	return slot
}

// release returns a slot to the free list. Handles to it become stale.
func (eq *EventQueue) release(slot int) {
	s := &eq.arena[slot]
	s.live = false
	s.gen++
	eq.free = append(eq.free, slot)
}

// lookup returns the live slot a handle refers to, or nil if the handle is stale.
func (eq *EventQueue) lookup(h EventHandle) *scheduledEvent {
	if h.IsZero() || h.slot < 0 || h.slot >= len(eq.arena) {
		return nil
	}
	s := &eq.arena[h.slot]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return s
}

// peek returns the arena slot at the top of the heap.
func (eq *EventQueue) peek() (int, bool) {
	if len(eq.heap) == 0 {
		return 0, false
	}
	return eq.heap[0], true
}
