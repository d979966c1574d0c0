package scope

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// --------------------------------------------------------------------------
// Scope
// --------------------------------------------------------------------------

// Scope carries the state shared between components while one inbound
// request is handled: the bucket the request is bound to and an opaque
// key-value slot used for request-lifetime memoization. A fresh scope is
// created when a request starts and dropped with it; nothing stored here
// survives the request.
//
// All methods are safe on a nil receiver, so callers can use the result of
// FromContext without checking it first.
type Scope struct {
	id string

	mu     sync.RWMutex
	bucket string
	values map[any]any
}

// New creates an empty scope with a unique id
func New() *Scope {
	return &Scope{
		id:     uuid.New().String(),
		values: make(map[any]any),
	}
}

// ID returns the unique id of the scope, or "" for a nil scope
func (s *Scope) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Bucket returns the bucket the request is bound to, or "" when unbound
func (s *Scope) Bucket() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bucket
}

// SetBucket binds the request to a bucket
func (s *Scope) SetBucket(bucket string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucket = bucket
}

// Value returns the value stored under key, or nil
func (s *Scope) Value(key any) any {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// SetValue stores a value under key for the lifetime of the scope
func (s *Scope) SetValue(key, value any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// DeleteValue removes the value stored under key
func (s *Scope) DeleteValue(key any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// --------------------------------------------------------------------------
// Context Carriage
// --------------------------------------------------------------------------

// ctxKey is the private key under which the scope travels in a context
type ctxKey struct{}

// NewContext returns a context carrying the scope
func NewContext(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the scope carried by ctx, or nil if there is none
func FromContext(ctx context.Context) *Scope {
	s, _ := ctx.Value(ctxKey{}).(*Scope)
	return s
}
