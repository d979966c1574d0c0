package kv

import (
	"context"

	"github.com/ValentinKolb/bKV/lib/codec"
)

// --------------------------------------------------------------------------
// Queues
// --------------------------------------------------------------------------

// QPushFront encodes and prepends items to the named queue, returning its
// new size (zero on failure)
func (a *Adapter) QPushFront(ctx context.Context, queue string, items ...any) int64 {
	if queue == "" || len(items) == 0 || !a.ready("qpush_front") {
		return 0
	}
	size, err := a.conn.QPushFront(ctx, queue, a.encodeItems(items)...)
	if err != nil {
		a.fail("qpush_front", err)
		return 0
	}
	return size
}

// QPushBack encodes and appends items to the named queue, returning its new
// size (zero on failure)
func (a *Adapter) QPushBack(ctx context.Context, queue string, items ...any) int64 {
	if queue == "" || len(items) == 0 || !a.ready("qpush_back") {
		return 0
	}
	size, err := a.conn.QPushBack(ctx, queue, a.encodeItems(items)...)
	if err != nil {
		a.fail("qpush_back", err)
		return 0
	}
	return size
}

// QSize returns the number of items in the named queue
func (a *Adapter) QSize(ctx context.Context, queue string) int64 {
	if queue == "" || !a.ready("qsize") {
		return 0
	}
	n, err := a.conn.QSize(ctx, queue)
	if err != nil {
		a.fail("qsize", err)
		return 0
	}
	return n
}

// QRange returns decoded queue items in [offset, offset+limit)
func (a *Adapter) QRange(ctx context.Context, queue string, offset, limit int) []codec.Value {
	if queue == "" || !a.ready("qrange") {
		return nil
	}
	raw, err := a.conn.QRange(ctx, queue, offset, limit)
	if err != nil {
		a.fail("qrange", err)
		return nil
	}
	return a.decodeItems(raw)
}

// QTrimFront removes up to size items from the front of the queue and
// returns the number removed
func (a *Adapter) QTrimFront(ctx context.Context, queue string, size int) int64 {
	if queue == "" || size <= 0 || !a.ready("qtrim_front") {
		return 0
	}
	n, err := a.conn.QTrimFront(ctx, queue, size)
	if err != nil {
		a.fail("qtrim_front", err)
		return 0
	}
	return n
}

// QTrimBack removes up to size items from the back of the queue and returns
// the number removed
func (a *Adapter) QTrimBack(ctx context.Context, queue string, size int) int64 {
	if queue == "" || size <= 0 || !a.ready("qtrim_back") {
		return 0
	}
	n, err := a.conn.QTrimBack(ctx, queue, size)
	if err != nil {
		a.fail("qtrim_back", err)
		return 0
	}
	return n
}

// QPopFront removes up to size items from the front of the queue and
// returns them decoded. Whatever reply shape the backend produces (no
// items, a single item or a list), the result is a uniform slice; popping
// from a missing queue yields an empty one.
func (a *Adapter) QPopFront(ctx context.Context, queue string, size int) []codec.Value {
	if queue == "" || size <= 0 || !a.ready("qpop_front") {
		return nil
	}
	raw, err := a.conn.QPopFront(ctx, queue, size)
	if err != nil {
		a.fail("qpop_front", err)
		return nil
	}
	return a.decodeItems(raw)
}

// QPopBack removes up to size items from the back of the queue and returns
// them decoded, normalized the same way as QPopFront
func (a *Adapter) QPopBack(ctx context.Context, queue string, size int) []codec.Value {
	if queue == "" || size <= 0 || !a.ready("qpop_back") {
		return nil
	}
	raw, err := a.conn.QPopBack(ctx, queue, size)
	if err != nil {
		a.fail("qpop_back", err)
		return nil
	}
	return a.decodeItems(raw)
}

// QClear removes the named queue and all its items
func (a *Adapter) QClear(ctx context.Context, queue string) bool {
	if queue == "" || !a.ready("qclear") {
		return false
	}
	if err := a.conn.QClear(ctx, queue); err != nil {
		a.fail("qclear", err)
		return false
	}
	return true
}

// encodeItems encodes queue items for the wire
func (a *Adapter) encodeItems(items []any) []string {
	wire := make([]string, len(items))
	for i, item := range items {
		wire[i] = a.codec.Encode(item)
	}
	return wire
}

// decodeItems decodes raw queue items
func (a *Adapter) decodeItems(raw []string) []codec.Value {
	if len(raw) == 0 {
		return nil
	}
	items := make([]codec.Value, len(raw))
	for i, r := range raw {
		items[i] = a.codec.Decode(r)
	}
	return items
}
