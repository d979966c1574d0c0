package memdb

import (
	"context"

	"github.com/ValentinKolb/bKV/lib/backend/engines/memdb/internal"
)

// --------------------------------------------------------------------------
// Conn Interface - Queues
// --------------------------------------------------------------------------

// queueOrCreate returns the named queue, creating it on first write
func (m *memdbImpl) queueOrCreate(name string) *internal.Queue {
	q, _ := m.queues.LoadOrCompute(name, internal.NewQueue)
	return q
}

func (m *memdbImpl) QPushFront(_ context.Context, queue string, values ...string) (int64, error) {
	if err := m.op(); err != nil {
		return 0, err
	}
	return m.queueOrCreate(queue).PushFront(values...), nil
}

func (m *memdbImpl) QPushBack(_ context.Context, queue string, values ...string) (int64, error) {
	if err := m.op(); err != nil {
		return 0, err
	}
	return m.queueOrCreate(queue).PushBack(values...), nil
}

func (m *memdbImpl) QSize(_ context.Context, queue string) (int64, error) {
	if err := m.op(); err != nil {
		return 0, err
	}
	q, ok := m.queues.Load(queue)
	if !ok {
		return 0, nil
	}
	return q.Size(), nil
}

func (m *memdbImpl) QRange(_ context.Context, queue string, offset, limit int) ([]string, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	q, ok := m.queues.Load(queue)
	if !ok {
		return nil, nil
	}
	return q.Range(offset, limit), nil
}

func (m *memdbImpl) QTrimFront(_ context.Context, queue string, size int) (int64, error) {
	if err := m.op(); err != nil {
		return 0, err
	}
	q, ok := m.queues.Load(queue)
	if !ok {
		return 0, nil
	}
	return q.TrimFront(size), nil
}

func (m *memdbImpl) QTrimBack(_ context.Context, queue string, size int) (int64, error) {
	if err := m.op(); err != nil {
		return 0, err
	}
	q, ok := m.queues.Load(queue)
	if !ok {
		return 0, nil
	}
	return q.TrimBack(size), nil
}

func (m *memdbImpl) QPopFront(_ context.Context, queue string, size int) ([]string, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	q, ok := m.queues.Load(queue)
	if !ok {
		return nil, nil
	}
	return q.PopFront(size), nil
}

func (m *memdbImpl) QPopBack(_ context.Context, queue string, size int) ([]string, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	q, ok := m.queues.Load(queue)
	if !ok {
		return nil, nil
	}
	return q.PopBack(size), nil
}

func (m *memdbImpl) QClear(_ context.Context, queue string) error {
	if err := m.op(); err != nil {
		return err
	}
	m.queues.Delete(queue)
	return nil
}
