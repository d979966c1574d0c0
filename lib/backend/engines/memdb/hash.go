package memdb

import (
	"context"

	"github.com/ValentinKolb/bKV/lib/backend"
	"github.com/ValentinKolb/bKV/lib/backend/engines/memdb/internal"
)

// --------------------------------------------------------------------------
// Conn Interface - Hash Namespaces
// --------------------------------------------------------------------------

// hashOrCreate returns the named hash, creating it on first write
func (m *memdbImpl) hashOrCreate(ns string) *internal.Hash {
	h, _ := m.hashes.LoadOrCompute(ns, internal.NewHash)
	return h
}

func (m *memdbImpl) HSet(_ context.Context, ns, key, value string) error {
	if err := m.op(); err != nil {
		return err
	}
	m.hashOrCreate(ns).Set(key, value)
	return nil
}

func (m *memdbImpl) HGet(_ context.Context, ns, key string) (string, bool, error) {
	if err := m.op(); err != nil {
		return "", false, err
	}
	h, ok := m.hashes.Load(ns)
	if !ok {
		return "", false, nil
	}
	v, ok := h.Get(key)
	return v, ok, nil
}

func (m *memdbImpl) HDel(_ context.Context, ns, key string) error {
	if err := m.op(); err != nil {
		return err
	}
	if h, ok := m.hashes.Load(ns); ok {
		h.Del(key)
	}
	return nil
}

func (m *memdbImpl) HDelMany(_ context.Context, ns string, keys []string) error {
	if err := m.op(); err != nil {
		return err
	}
	if h, ok := m.hashes.Load(ns); ok {
		h.DelMany(keys)
	}
	return nil
}

func (m *memdbImpl) HIncr(_ context.Context, ns, key string, delta int64) (int64, error) {
	if err := m.op(); err != nil {
		return 0, err
	}
	return m.hashOrCreate(ns).Incr(key, delta)
}

func (m *memdbImpl) HExists(_ context.Context, ns, key string) (bool, error) {
	if err := m.op(); err != nil {
		return false, err
	}
	h, ok := m.hashes.Load(ns)
	if !ok {
		return false, nil
	}
	return h.Exists(key), nil
}

func (m *memdbImpl) HSize(_ context.Context, ns string) (int64, error) {
	if err := m.op(); err != nil {
		return 0, err
	}
	h, ok := m.hashes.Load(ns)
	if !ok {
		return 0, nil
	}
	return h.Size(), nil
}

func (m *memdbImpl) HClear(_ context.Context, ns string) error {
	if err := m.op(); err != nil {
		return err
	}
	m.hashes.Delete(ns)
	return nil
}

func (m *memdbImpl) HGetAll(_ context.Context, ns string) ([]backend.Entry, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	h, ok := m.hashes.Load(ns)
	if !ok {
		return nil, nil
	}
	return h.All(), nil
}

func (m *memdbImpl) HKeys(_ context.Context, ns, start, end string, limit int) ([]string, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	h, ok := m.hashes.Load(ns)
	if !ok {
		return nil, nil
	}
	return h.Keys(start, end, limit), nil
}

func (m *memdbImpl) HScan(_ context.Context, ns, start, end string, limit int) ([]backend.Entry, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	h, ok := m.hashes.Load(ns)
	if !ok {
		return nil, nil
	}
	return h.Scan(start, end, limit), nil
}

func (m *memdbImpl) HRScan(_ context.Context, ns, start, end string, limit int) ([]backend.Entry, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	h, ok := m.hashes.Load(ns)
	if !ok {
		return nil, nil
	}
	return h.RScan(start, end, limit), nil
}

func (m *memdbImpl) HList(_ context.Context, start, end string, limit int) ([]string, error) {
	if err := m.op(); err != nil {
		return nil, err
	}
	names := make([]string, 0, m.hashes.Size())
	m.hashes.Range(func(ns string, h *internal.Hash) bool {
		if h.Size() > 0 {
			names = append(names, ns)
		}
		return true
	})
	return listNames(names, start, end, limit), nil
}
