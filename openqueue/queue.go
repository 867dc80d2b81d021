// Package openqueue implements the open set of the sbarrt search: an indirect
// d-ary min-heap over integer vertex handles with O(log n) push, pop, update
// and remove.
//
// Ordering is total and deterministic. Entries compare by key, then by
// cost-to-come, then by insertion sequence (first in, first out). Update keeps
// the original sequence number, so a decreased key never loses its FIFO slot.
//
// The queue is not safe for concurrent use.
package openqueue

import "math"

// DefaultArity is the branching factor used when New receives arity < 2.
const DefaultArity = 4

type entry[ID ~int32] struct {
	id   ID
	key  float64
	cost float64
	seq  uint64
}

// Queue is an indirect d-ary min-heap keyed by float64 priorities.
type Queue[ID ~int32] struct {
	arity int
	items []entry[ID]
	// pos[id] is the heap index of id, or -1 when id is not queued.
	pos []int
	seq uint64
}

// New returns an empty queue with the given branching factor.
func New[ID ~int32](arity int) *Queue[ID] {
	if arity < 2 {
		arity = DefaultArity
	}

	return &Queue[ID]{arity: arity}
}

// Arity returns the branching factor.
func (q *Queue[ID]) Arity() int { return q.arity }

// Len returns the number of queued ids.
func (q *Queue[ID]) Len() int { return len(q.items) }

// Contains reports whether id is queued.
func (q *Queue[ID]) Contains(id ID) bool {
	return id >= 0 && int(id) < len(q.pos) && q.pos[id] >= 0
}

// Key returns the queued key of id, or +Inf when id is not queued.
func (q *Queue[ID]) Key(id ID) float64 {
	if !q.Contains(id) {
		return math.Inf(1)
	}

	return q.items[q.pos[id]].key
}

// Push inserts id. If id is already queued Push behaves like Update.
// Negative ids are ignored.
func (q *Queue[ID]) Push(id ID, key, cost float64) {
	if id < 0 {
		return
	}
	if q.Contains(id) {
		q.Update(id, key, cost)

		return
	}
	for int(id) >= len(q.pos) {
		q.pos = append(q.pos, -1)
	}
	q.seq++
	q.items = append(q.items, entry[ID]{id: id, key: key, cost: cost, seq: q.seq})
	i := len(q.items) - 1
	q.pos[id] = i
	q.siftUp(i)
}

// Update changes the priority of a queued id in either direction and reports
// whether id was queued.
func (q *Queue[ID]) Update(id ID, key, cost float64) bool {
	if !q.Contains(id) {
		return false
	}
	i := q.pos[id]
	q.items[i].key = key
	q.items[i].cost = cost
	q.fix(i)

	return true
}

// PushOrUpdate queues id or changes its priority.
func (q *Queue[ID]) PushOrUpdate(id ID, key, cost float64) {
	if !q.Update(id, key, cost) {
		q.Push(id, key, cost)
	}
}

// Top returns the minimum id without removing it.
func (q *Queue[ID]) Top() (ID, bool) {
	if len(q.items) == 0 {
		return -1, false
	}

	return q.items[0].id, true
}

// Pop removes and returns the minimum id.
func (q *Queue[ID]) Pop() (ID, bool) {
	if len(q.items) == 0 {
		return -1, false
	}
	id := q.items[0].id
	q.removeAt(0)

	return id, true
}

// Remove drops id from the queue and reports whether it was queued.
func (q *Queue[ID]) Remove(id ID) bool {
	if !q.Contains(id) {
		return false
	}
	q.removeAt(q.pos[id])

	return true
}

// Clear empties the queue, keeping the allocated storage.
func (q *Queue[ID]) Clear() {
	for _, it := range q.items {
		q.pos[it.id] = -1
	}
	q.items = q.items[:0]
}

// Rekey recomputes every priority with fn and rebuilds the heap in O(n).
// Sequence numbers are preserved.
func (q *Queue[ID]) Rekey(fn func(id ID) (key, cost float64)) {
	for i := range q.items {
		q.items[i].key, q.items[i].cost = fn(q.items[i].id)
	}
	for i := q.parent(len(q.items) - 1); i >= 0; i-- {
		q.siftDown(i)
	}
}

func (q *Queue[ID]) removeAt(i int) {
	last := len(q.items) - 1
	q.pos[q.items[i].id] = -1
	if i != last {
		q.items[i] = q.items[last]
		q.pos[q.items[i].id] = i
	}
	q.items = q.items[:last]
	if i < last {
		q.fix(i)
	}
}

func (q *Queue[ID]) fix(i int) {
	if i > 0 && q.less(i, q.parent(i)) {
		q.siftUp(i)

		return
	}
	q.siftDown(i)
}

func (q *Queue[ID]) parent(i int) int {
	if i <= 0 {
		return -1
	}

	return (i - 1) / q.arity
}

func (q *Queue[ID]) less(i, j int) bool {
	a, b := &q.items[i], &q.items[j]
	if a.key != b.key {
		return a.key < b.key
	}
	if a.cost != b.cost {
		return a.cost < b.cost
	}

	return a.seq < b.seq
}

func (q *Queue[ID]) swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.pos[q.items[i].id] = i
	q.pos[q.items[j].id] = j
}

func (q *Queue[ID]) siftUp(i int) {
	for i > 0 {
		p := q.parent(i)
		if !q.less(i, p) {
			return
		}
		q.swap(i, p)
		i = p
	}
}

func (q *Queue[ID]) siftDown(i int) {
	n := len(q.items)
	for {
		first := q.arity*i + 1
		if first >= n {
			return
		}
		best := first
		for c := first + 1; c < first+q.arity && c < n; c++ {
			if q.less(c, best) {
				best = c
			}
		}
		if !q.less(best, i) {
			return
		}
		q.swap(i, best)
		i = best
	}
}
