package boltdb

import (
	"context"

	bolt "go.etcd.io/bbolt"
)

// --------------------------------------------------------------------------
// Conn Interface - Queues
// --------------------------------------------------------------------------

// queueBounds returns the index of the first and last entry. ok is false for
// an empty queue.
func queueBounds(bkt *bolt.Bucket) (head, tail uint64, ok bool) {
	c := bkt.Cursor()
	first, _ := c.First()
	if first == nil {
		return 0, 0, false
	}
	last, _ := c.Last()
	return decodeQueueIndex(first), decodeQueueIndex(last), true
}

// queueDropIfEmpty removes the queue bucket when its last entry is gone
func queueDropIfEmpty(tx *bolt.Tx, name string, bkt *bolt.Bucket) error {
	if k, _ := bkt.Cursor().First(); k == nil {
		return tx.Bucket(rootQueues).DeleteBucket([]byte(name))
	}
	return nil
}

func (b *boltImpl) QPushFront(_ context.Context, queue string, values ...string) (int64, error) {
	if err := b.op(); err != nil {
		return 0, err
	}
	var size int64
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := namespaceOrCreate(tx, rootQueues, queue)
		if err != nil {
			return err
		}
		head, _, ok := queueBounds(bkt)
		if !ok {
			head = queueIndexCenter
		}
		// Values are prepended one at a time, so the last value ends up at
		// the front
		for _, v := range values {
			head--
			if err := bkt.Put(encodeQueueIndex(head), []byte(v)); err != nil {
				return err
			}
		}
		size = countKeys(bkt)
		return nil
	})
	return size, err
}

func (b *boltImpl) QPushBack(_ context.Context, queue string, values ...string) (int64, error) {
	if err := b.op(); err != nil {
		return 0, err
	}
	var size int64
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := namespaceOrCreate(tx, rootQueues, queue)
		if err != nil {
			return err
		}
		_, tail, ok := queueBounds(bkt)
		if !ok {
			tail = queueIndexCenter - 1
		}
		for _, v := range values {
			tail++
			if err := bkt.Put(encodeQueueIndex(tail), []byte(v)); err != nil {
				return err
			}
		}
		size = countKeys(bkt)
		return nil
	})
	return size, err
}

func (b *boltImpl) QSize(_ context.Context, queue string) (int64, error) {
	if err := b.op(); err != nil {
		return 0, err
	}
	var size int64
	err := b.db.View(func(tx *bolt.Tx) error {
		if bkt := namespace(tx, rootQueues, queue); bkt != nil {
			size = countKeys(bkt)
		}
		return nil
	})
	return size, err
}

func (b *boltImpl) QRange(_ context.Context, queue string, offset, limit int) ([]string, error) {
	if err := b.op(); err != nil {
		return nil, err
	}
	var items []string
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := namespace(tx, rootQueues, queue)
		if bkt == nil {
			return nil
		}
		c := bkt.Cursor()
		pos := 0
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if pos >= offset {
				items = append(items, string(v))
				if limit > 0 && len(items) >= limit {
					break
				}
			}
			pos++
		}
		return nil
	})
	return items, err
}

func (b *boltImpl) QTrimFront(_ context.Context, queue string, size int) (int64, error) {
	return b.qTrim(queue, size, true, nil)
}

func (b *boltImpl) QTrimBack(_ context.Context, queue string, size int) (int64, error) {
	return b.qTrim(queue, size, false, nil)
}

func (b *boltImpl) QPopFront(_ context.Context, queue string, size int) ([]string, error) {
	var items []string
	_, err := b.qTrim(queue, size, true, &items)
	return items, err
}

func (b *boltImpl) QPopBack(_ context.Context, queue string, size int) ([]string, error) {
	var items []string
	_, err := b.qTrim(queue, size, false, &items)
	return items, err
}

// qTrim removes up to n entries from the front or back of the queue. When
// collect is non-nil the removed values are appended to it in removal order,
// which makes pops and trims the same operation.
func (b *boltImpl) qTrim(queue string, n int, front bool, collect *[]string) (int64, error) {
	if err := b.op(); err != nil {
		return 0, err
	}
	var removed int64
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := namespace(tx, rootQueues, queue)
		if bkt == nil || n <= 0 {
			return nil
		}
		for i := 0; i < n; i++ {
			c := bkt.Cursor()
			var k, v []byte
			if front {
				k, v = c.First()
			} else {
				k, v = c.Last()
			}
			if k == nil {
				break
			}
			if collect != nil {
				*collect = append(*collect, string(v))
			}
			if err := bkt.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return queueDropIfEmpty(tx, queue, bkt)
	})
	return removed, err
}

func (b *boltImpl) QClear(_ context.Context, queue string) error {
	if err := b.op(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket(rootQueues).DeleteBucket([]byte(queue))
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}
