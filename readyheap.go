package greenthreads

import "container/heap"

// readyHeap is a growable min-heap over runnable fibers keyed on pass.
// Ties are broken arbitrarily: container/heap gives no stability
// guarantee, so fibers with equal pass may come out in either order.
//
// Built on top of container/heap, the same way a timer heap would be;
// no third-party binary heap in the dependency set improves on the
// standard library for this use (see DESIGN.md).
type readyHeap struct {
	items []*Fiber
}

func (h *readyHeap) Len() int { return len(h.items) }
func (h *readyHeap) Less(i, j int) bool {
	return h.items[i].pass < h.items[j].pass
}
func (h *readyHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].heapIndex = i
	h.items[j].heapIndex = j
}
func (h *readyHeap) Push(x any) {
	f := x.(*Fiber)
	f.heapIndex = len(h.items)
	h.items = append(h.items, f)
}
func (h *readyHeap) Pop() any {
	old := h.items
	n := len(old)
	f := old[n-1]
	old[n-1] = nil
	f.heapIndex = -1
	h.items = old[:n-1]
	return f
}

// push inserts f, keyed on its current pass value.
func (h *readyHeap) push(f *Fiber) {
	heap.Push(h, f)
}

// pop removes and returns the fiber with the minimum pass, or nil if
// the heap is empty.
func (h *readyHeap) pop() *Fiber {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(*Fiber)
}

// fix re-establishes the heap property for f after its pass or stride
// changed while it was already on the heap (SetTickets).
func (h *readyHeap) fix(f *Fiber) {
	if f.heapIndex >= 0 && f.heapIndex < len(h.items) && h.items[f.heapIndex] == f {
		heap.Fix(h, f.heapIndex)
	}
}

// strideFor computes stride = C / max(tickets, 1)
func strideFor(tickets int) uint64 {
	if tickets < 1 {
		tickets = 1
	}
	return strideConstant / uint64(tickets)
}
