package internal

import "sync"

// --------------------------------------------------------------------------
// Queue (one double-ended queue)
// --------------------------------------------------------------------------

// Queue is a single double-ended queue. Index 0 is the front.
type Queue struct {
	mu    sync.Mutex
	items []string
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// PushFront prepends values one at a time, so the last value ends up at the
// front. Returns the new size.
func (q *Queue) PushFront(values ...string) int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, v := range values {
		q.items = append([]string{v}, q.items...)
	}
	return int64(len(q.items))
}

// PushBack appends values in order and returns the new size
func (q *Queue) PushBack(values ...string) int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, values...)
	return int64(len(q.items))
}

// Size returns the number of elements
func (q *Queue) Size() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items))
}

// Range returns elements in [offset, offset+limit) from the front
func (q *Queue) Range(offset, limit int) []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(q.items) {
		return nil
	}
	end := len(q.items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]string, end-offset)
	copy(out, q.items[offset:end])
	return out
}

// PopFront removes and returns up to n elements from the front, in pop order
func (q *Queue) PopFront(n int) []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n <= 0 || len(q.items) == 0 {
		return nil
	}
	if n > len(q.items) {
		n = len(q.items)
	}
	out := make([]string, n)
	copy(out, q.items[:n])
	q.items = q.items[n:]
	return out
}

// PopBack removes and returns up to n elements from the back, in pop order
// (last element first)
func (q *Queue) PopBack(n int) []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n <= 0 || len(q.items) == 0 {
		return nil
	}
	if n > len(q.items) {
		n = len(q.items)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = q.items[len(q.items)-1-i]
	}
	q.items = q.items[:len(q.items)-n]
	return out
}

// TrimFront removes up to n elements from the front and returns the number
// removed
func (q *Queue) TrimFront(n int) int64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n <= 0 {
		return 0
	}
	if n > len(q.items) {
		n = len(q.items)
	}
	q.items = q.items[n:]
	return int64(n)
}

// Bytes returns the approximate stored size in bytes
func (q *Queue) Bytes() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	var size int64
	for _, item := range q.items {
		size += int64(len(item))
	}
	return size
}

// TrimBack removes up to n elements from the back and returns the number
// removed
func (q *Queue) TrimBack(n int) int64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n <= 0 {
		return 0
	}
	if n > len(q.items) {
		n = len(q.items)
	}
	q.items = q.items[:len(q.items)-n]
	return int64(n)
}
