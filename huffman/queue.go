package huffman

import "container/heap"

// PriorityQueue is a min-queue ordered by the comparator it was created with.
// Pop returns the element for which less reports true against every other.
type PriorityQueue[T any] struct {
	items itemHeap[T]
}

func NewPriorityQueue[T any](less func(a, b T) bool) *PriorityQueue[T] {
	return &PriorityQueue[T]{items: itemHeap[T]{less: less}}
}

func (pq *PriorityQueue[T]) Len() int { return len(pq.items.data) }

func (pq *PriorityQueue[T]) Push(x T) { heap.Push(&pq.items, x) }

func (pq *PriorityQueue[T]) Pop() T { return heap.Pop(&pq.items).(T) }

type itemHeap[T any] struct {
	data []T
	less func(a, b T) bool
}

func (h itemHeap[T]) Len() int            { return len(h.data) }
func (h itemHeap[T]) Less(i, j int) bool  { return h.less(h.data[i], h.data[j]) }
func (h itemHeap[T]) Swap(i, j int)       { h.data[i], h.data[j] = h.data[j], h.data[i] }
func (h *itemHeap[T]) Push(x interface{}) { h.data = append(h.data, x.(T)) }
func (h *itemHeap[T]) Pop() interface{} {
	old := h.data
	n := len(old)
	item := old[n-1]
	var zero T
	old[n-1] = zero
	h.data = old[0 : n-1]
	return item
}
