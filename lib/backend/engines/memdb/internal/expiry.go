package internal

import "container/heap"

// --------------------------------------------------------------------------
// Expiry Heap
// --------------------------------------------------------------------------

// expiryItem is one scheduled expiry with its position in the heap
type expiryItem struct {
	key   string // Flat key-value key
	at    int64  // Expiry time, unix nanoseconds
	index int    // Index in the heap, maintained by the heap package
}

// ExpiryHeap is a min-heap of scheduled key expiries combined with a map for
// O(1) key lookup, so expiries can be rescheduled or cancelled when keys are
// overwritten. Peek returns the next key due.
//
// The heap does not synchronize itself; the engine guards it together with
// its flat key-value writes.
type ExpiryHeap struct {
	items []*expiryItem
	byKey map[string]*expiryItem
}

// NewExpiryHeap creates an empty expiry heap
func NewExpiryHeap() *ExpiryHeap {
	return &ExpiryHeap{
		byKey: make(map[string]*expiryItem),
	}
}

// Len returns the number of scheduled expiries (part of heap.Interface)
func (eh *ExpiryHeap) Len() int { return len(eh.items) }

// Less compares by expiry time, soonest first (part of heap.Interface)
func (eh *ExpiryHeap) Less(i, j int) bool {
	return eh.items[i].at < eh.items[j].at
}

// Swap exchanges items at positions i and j (part of heap.Interface)
func (eh *ExpiryHeap) Swap(i, j int) {
	eh.items[i], eh.items[j] = eh.items[j], eh.items[i]
	eh.items[i].index = i
	eh.items[j].index = j
}

// Push adds an item to the heap (part of heap.Interface)
func (eh *ExpiryHeap) Push(x interface{}) {
	n := len(eh.items)
	item := x.(*expiryItem)
	item.index = n
	eh.items = append(eh.items, item)
	eh.byKey[item.key] = item
}

// Pop removes and returns the soonest item (part of heap.Interface)
func (eh *ExpiryHeap) Pop() interface{} {
	old := eh.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // Avoid memory leak
	item.index = -1 // For safety
	eh.items = old[:n-1]
	delete(eh.byKey, item.key)
	return item
}

// Schedule adds an expiry for key or moves an existing one
func (eh *ExpiryHeap) Schedule(key string, at int64) {
	if item, exists := eh.byKey[key]; exists {
		item.at = at
		heap.Fix(eh, item.index)
		return
	}
	heap.Push(eh, &expiryItem{key: key, at: at})
}

// Cancel removes the scheduled expiry for key, if any
func (eh *ExpiryHeap) Cancel(key string) {
	if item, exists := eh.byKey[key]; exists {
		heap.Remove(eh, item.index)
	}
}

// Peek returns the soonest scheduled expiry without removing it
func (eh *ExpiryHeap) Peek() (key string, at int64, ok bool) {
	if len(eh.items) == 0 {
		return "", 0, false
	}
	return eh.items[0].key, eh.items[0].at, true
}

// PopDue removes and returns the soonest expiry if it is due at now
func (eh *ExpiryHeap) PopDue(now int64) (string, bool) {
	if len(eh.items) == 0 || eh.items[0].at > now {
		return "", false
	}
	item := heap.Pop(eh).(*expiryItem)
	return item.key, true
}
