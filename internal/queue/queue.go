// Package queue provides the bounded heap used for top-k selection.
package queue

import (
	"cmp"
	"slices"
)

// Item is a scored candidate row.
type Item struct {
	Row   uint32  // Row is the candidate position the score belongs to.
	Score float32 // Score is the priority of the item; higher is better.
}

// Better reports whether a ranks ahead of b: higher score first, then lower
// row. NaN scores rank below every number.
func Better(a, b Item) bool {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c > 0
	}
	return a.Row < b.Row
}

// PriorityQueue is a min-heap over Better: the top is the worst item kept.
// Value-based storage, no container/heap indirection.
type PriorityQueue struct {
	items []Item
}

// NewMin initializes a queue whose top is the lowest-ranked item.
func NewMin(capacity int) *PriorityQueue {
	return &PriorityQueue{
		items: make([]Item, 0, capacity),
	}
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue) Len() int { return len(pq.items) }

// TopItem returns the lowest-ranked element.
func (pq *PriorityQueue) TopItem() (Item, bool) {
	if len(pq.items) == 0 {
		return Item{}, false
	}
	return pq.items[0], true
}

// PushItem inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue) PushItem(item Item) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PopItem removes and returns the lowest-ranked element.
func (pq *PriorityQueue) PopItem() (Item, bool) {
	n := len(pq.items)
	if n == 0 {
		return Item{}, false
	}
	root := pq.items[0]
	last := pq.items[n-1]
	pq.items = pq.items[:n-1]
	if n-1 > 0 {
		pq.items[0] = last
		pq.siftDown(0)
	}
	return root, true
}

// ReplaceTop overwrites the lowest-ranked element and restores the heap.
func (pq *PriorityQueue) ReplaceTop(item Item) {
	pq.items[0] = item
	pq.siftDown(0)
}

// Reset clears the priority queue for reuse.
func (pq *PriorityQueue) Reset() {
	pq.items = pq.items[:0]
}

// less orders the heap so the worst item sits on top.
func (pq *PriorityQueue) less(i, j int) bool {
	return Better(pq.items[j], pq.items[i])
}

func (pq *PriorityQueue) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !pq.less(i, p) {
			return
		}
		pq.items[i], pq.items[p] = pq.items[p], pq.items[i]
		i = p
	}
}

func (pq *PriorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && pq.less(r, l) {
			best = r
		}
		if !pq.less(best, i) {
			return
		}
		pq.items[i], pq.items[best] = pq.items[best], pq.items[i]
		i = best
	}
}

// TopK returns the k best items for scores, best first. scores[i] belongs
// to row i. When len(scores) <= k every row is returned fully sorted;
// otherwise a k-sized heap selects the best rows and only those are sorted.
func TopK(scores []float32, k int) []Item {
	if k <= 0 || len(scores) == 0 {
		return nil
	}

	if len(scores) <= k {
		items := make([]Item, len(scores))
		for i, s := range scores {
			items[i] = Item{Row: uint32(i), Score: s}
		}
		sortBest(items)
		return items
	}

	pq := NewMin(k)
	for i, s := range scores {
		item := Item{Row: uint32(i), Score: s}
		if pq.Len() < k {
			pq.PushItem(item)
			continue
		}
		if top, _ := pq.TopItem(); Better(item, top) {
			pq.ReplaceTop(item)
		}
	}

	items := pq.items
	sortBest(items)
	return items
}

func sortBest(items []Item) {
	slices.SortFunc(items, func(a, b Item) int {
		switch {
		case Better(a, b):
			return -1
		case Better(b, a):
			return 1
		default:
			return 0
		}
	})
}
