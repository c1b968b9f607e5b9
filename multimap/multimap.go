package multimap

import "sync"

// Map associates each key with a de-duplicated set of values, preserving
// per-key insertion order. All methods are safe for concurrent use.
type Map[K comparable, V comparable] struct {
	mu    sync.Mutex
	items map[K][]V
}

// New creates an empty Map.
func New[K comparable, V comparable]() *Map[K, V] {
	return &Map[K, V]{
		items: make(map[K][]V),
	}
}

// Put adds the (key, value) pair. It returns false when the pair is
// already present: duplicates are dropped silently, never treated as an
// error.
func (m *Map[K, V]) Put(key K, value V) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range m.items[key] {
		if v == value {
			return false
		}
	}
	m.items[key] = append(m.items[key], value)
	return true
}

// Remove deletes the (key, value) pair. It returns false when the pair was
// not present. A key whose last value is removed disappears entirely, so a
// subsequent Contains reports false.
func (m *Map[K, V]) Remove(key K, value V) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	values, ok := m.items[key]
	if !ok {
		return false
	}
	for i, v := range values {
		if v == value {
			if len(values) == 1 {
				delete(m.items, key)
			} else {
				m.items[key] = append(values[:i], values[i+1:]...)
			}
			return true
		}
	}
	return false
}

// Values returns an independent snapshot of the values stored under key, in
// insertion order. Later mutation of the Map never affects a previously
// returned snapshot. A missing key yields a nil slice.
func (m *Map[K, V]) Values(key K) []V {
	m.mu.Lock()
	defer m.mu.Unlock()

	values, ok := m.items[key]
	if !ok {
		return nil
	}
	out := make([]V, len(values))
	copy(out, values)
	return out
}

// Contains reports whether at least one value is stored under key.
func (m *Map[K, V]) Contains(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.items[key]
	return ok
}

// Count returns the number of values stored under key.
func (m *Map[K, V]) Count(key K) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.items[key])
}

// Len returns the total number of pairs across all keys.
func (m *Map[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, values := range m.items {
		n += len(values)
	}
	return n
}

// Clear removes every pair from the Map.
func (m *Map[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.items)
}
