package utils

import (
	"iter"

	"github.com/sentinel-ac/sentinel/serror"
)

// CircularQueue is a fixed-capacity ring used for the rolling sample histories
// kept on a player: once full, appending overwrites the oldest entry. Growth is
// bounded by construction rather than by periodic cleanup.
type CircularQueue[T any] struct {
	items []T
	head  int
	tail  int
	size  int
}

func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	return &CircularQueue[T]{items: make([]T, capacity)}
}

// Len returns the number of items currently held.
func (q *CircularQueue[T]) Len() int {
	return q.size
}

// Cap returns the maximum number of items the queue can hold.
func (q *CircularQueue[T]) Cap() int {
	return len(q.items)
}

// Get returns the element at logical position index (0 = oldest), or an error if out of range.
func (q *CircularQueue[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= q.size {
		return zero, serror.New("circularqueue: get out of range")
	}
	return q.items[(q.head+index)%len(q.items)], nil
}

// Iter iterates the queue from oldest to newest.
func (q *CircularQueue[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range q.size {
			if !yield(q.items[(q.head+index)%len(q.items)]) {
				return
			}
		}
	}
}

// Values copies the queue contents, oldest first.
func (q *CircularQueue[T]) Values() []T {
	out := make([]T, 0, q.size)
	for v := range q.Iter() {
		out = append(out, v)
	}
	return out
}

// Tail returns up to n of the newest items, oldest of those first.
func (q *CircularQueue[T]) Tail(n int) []T {
	if n > q.size {
		n = q.size
	}
	out := make([]T, 0, n)
	for index := q.size - n; index < q.size; index++ {
		out = append(out, q.items[(q.head+index)%len(q.items)])
	}
	return out
}

// Pop removes and returns the oldest element. The boolean ok is false if the
// queue is empty.
func (q *CircularQueue[T]) Pop() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	item = q.items[q.head]
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return item, true
}

// Append appends an item or returns an error if the queue has zero capacity.
func (q *CircularQueue[T]) Append(item T) error {
	if len(q.items) == 0 {
		return serror.New("circularqueue: append on zero-capacity queue")
	}

	// Write the new item at the current tail position.
	q.items[q.tail] = item

	// Advance tail first. If the queue is already full, we also need to
	// advance head to overwrite the oldest element.
	if q.size == len(q.items) {
		// Buffer is full, drop the oldest element located at head.
		q.head = (q.head + 1) % len(q.items)
	} else {
		q.size++
	}
	q.tail = (q.tail + 1) % len(q.items)
	return nil
}

// PruneWhile pops elements from the oldest end for as long as stale returns
// true. Used to expire samples past their rolling window on each insert.
func (q *CircularQueue[T]) PruneWhile(stale func(item T) bool) {
	for q.size > 0 {
		if !stale(q.items[q.head]) {
			return
		}
		q.Pop()
	}
}
