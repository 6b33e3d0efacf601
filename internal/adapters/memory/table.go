// Package memory is an in-process document store. Every read returns a copy
// and every write stores a copy, so callers never share state through it.
package memory

import (
	"sync"

	"github.com/google/uuid"
)

type table[T any] struct {
	mu    sync.RWMutex
	rows  map[uuid.UUID]*T
	order []uuid.UUID
	clone func(*T) *T
}

func newTable[T any](clone func(*T) *T) *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]*T), clone: clone}
}

func (t *table[T]) insert(id uuid.UUID, v *T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.rows[id]; exists {
		return false
	}
	t.rows[id] = t.clone(v)
	t.order = append(t.order, id)
	return true
}

func (t *table[T]) get(id uuid.UUID) (*T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return t.clone(v), true
}

// replace overwrites a row when check accepts the stored value
func (t *table[T]) replace(id uuid.UUID, v *T, check func(stored *T) error) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored, ok := t.rows[id]
	if !ok {
		return false, nil
	}
	if check != nil {
		if err := check(stored); err != nil {
			return true, err
		}
	}
	t.rows[id] = t.clone(v)
	return true, nil
}

func (t *table[T]) mutate(id uuid.UUID, fn func(stored *T)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored, ok := t.rows[id]
	if !ok {
		return false
	}
	fn(stored)
	return true
}

func (t *table[T]) remove(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// filter returns copies of matching rows in insertion order
func (t *table[T]) filter(match func(*T) bool) []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*T, 0)
	for _, id := range t.order {
		v := t.rows[id]
		if match == nil || match(v) {
			out = append(out, t.clone(v))
		}
	}
	return out
}
