package memdb

import (
	"context"

	"github.com/ValentinKolb/bKV/lib/backend"
	"github.com/ValentinKolb/bKV/lib/backend/engines/memdb/internal"
)

// --------------------------------------------------------------------------
// Conn Interface - Sorted Sets
// --------------------------------------------------------------------------

// zsetOrCreate returns the named sorted set, creating it on first write
func (m *memdbImpl) zsetOrCreate(ns string) *internal.ZSet {
	z, _ := m.zsets.LoadOrCompute(ns, internal.NewZSet)
	return z
}

func (m *memdbImpl) ZSet(_ context.Context, ns, key string, score int64) error {
	if err := m.op(); err != nil {
		return err
	}
	m.zsetOrCreate(ns).Set(key, score)
	return nil
}

func (m *memdbImpl) ZGet(_ context.Context, ns, key string) (int64, bool, error) {
	if err := m.op(); err != nil {
		return 0, false, err
	}
	z, ok := m.zsets.Load(ns)
	if !ok {
		return 0, false, nil
	}
	score, ok := z.Get(key)
	return score, ok, nil
}

func (m *memdbImpl) ZDel(_ context.Context, ns, key string) error {
	if err := m.op(); err != nil {
		return err
	}
	if z, ok := m.zsets.Load(ns); ok {
		z.Del(key)
	}
	return nil
}

func (m *memdbImpl) ZIncr(_ context.Context, ns, key string, delta int64) (int64, error) {
	if err := m.op(); err != nil {
		return 0, err
	}
	return m.zsetOrCreate(ns).Incr(key, delta), nil
}

func (m *memdbImpl) ZSize(_ context.Context, ns string) (int64, error) {
	if err := m.op(); err != nil {
		return 0, err
	}
	z, ok := m.zsets.Load(ns)
	if !ok {
		return 0, nil
	}
	return z.Size(), nil
}

func (m *memdbImpl) ZClear(_ context.Context, ns string) error {
	if err := m.op(); err != nil {
		return err
	}
	m.zsets.Delete(ns)
	return nil
}

func (m *memdbImpl) ZCount(_ context.Context, ns string, start, end backend.Score) (int64, error) {
	if err := m.op(); err != nil {
		return 0, err
	}
	z, ok := m.zsets.Load(ns)
	if !ok {
		return 0, nil
	}
	return z.Count(start, end), nil
}

func (m *memdbImpl) ZList(_ context.Context, start, end string, limit int) ([]string, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	names := make([]string, 0, m.zsets.Size())
	m.zsets.Range(func(ns string, z *internal.ZSet) bool {
		if z.Size() > 0 {
			names = append(names, ns)
		}
		return true
	})
	return listNames(names, start, end, limit), nil
}

func (m *memdbImpl) ZScan(_ context.Context, ns, keyStart string, scoreStart, scoreEnd backend.Score, limit int) ([]backend.ScoredEntry, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	z, ok := m.zsets.Load(ns)
	if !ok {
		return nil, nil
	}
	return z.Scan(keyStart, scoreStart, scoreEnd, limit), nil
}

func (m *memdbImpl) ZRScan(_ context.Context, ns, keyStart string, scoreStart, scoreEnd backend.Score, limit int) ([]backend.ScoredEntry, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	z, ok := m.zsets.Load(ns)
	if !ok {
		return nil, nil
	}
	return z.RScan(keyStart, scoreStart, scoreEnd, limit), nil
}

func (m *memdbImpl) ZRange(_ context.Context, ns string, offset, limit int) ([]backend.ScoredEntry, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	z, ok := m.zsets.Load(ns)
	if !ok {
		return nil, nil
	}
	return z.Range(offset, limit), nil
}

func (m *memdbImpl) ZRRange(_ context.Context, ns string, offset, limit int) ([]backend.ScoredEntry, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	z, ok := m.zsets.Load(ns)
	if !ok {
		return nil, nil
	}
	return z.RRange(offset, limit), nil
}
