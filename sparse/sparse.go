// Package sparse provides sparse-set collections keyed by small uint32
// indices (entity indices, component ids). Membership tests and removal are
// O(1); iteration walks a dense slice with no gaps.
package sparse

// Set is a sparse set of uint32 keys. The zero value is ready to use.
type Set struct {
	dense  []uint32
	sparse []uint32
}

// Add inserts key into the set. Adding an existing key is a no-op.
func (s *Set) Add(key uint32) {
	if s.Contains(key) {
		return
	}
	s.ensure(key)
	s.sparse[key] = uint32(len(s.dense))
	s.dense = append(s.dense, key)
}

// Remove deletes key, swapping the last dense element into its slot.
// Returns false when the key was absent.
func (s *Set) Remove(key uint32) bool {
	if !s.Contains(key) {
		return false
	}
	slot := s.sparse[key]
	last := s.dense[len(s.dense)-1]
	s.dense[slot] = last
	s.sparse[last] = slot
	s.dense = s.dense[:len(s.dense)-1]
	return true
}

// Contains reports whether key is in the set.
func (s *Set) Contains(key uint32) bool {
	if int(key) >= len(s.sparse) {
		return false
	}
	slot := s.sparse[key]
	return int(slot) < len(s.dense) && s.dense[slot] == key
}

// Len returns the number of keys held.
func (s *Set) Len() int {
	return len(s.dense)
}

// Clear empties the set without releasing capacity.
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Range calls fn for every key until fn returns false. Order is insertion
// order, disturbed by removals.
func (s *Set) Range(fn func(key uint32) bool) {
	for _, key := range s.dense {
		if !fn(key) {
			return
		}
	}
}

func (s *Set) ensure(key uint32) {
	if int(key) < len(s.sparse) {
		return
	}
	grown := make([]uint32, int(key)+1)
	copy(grown, s.sparse)
	s.sparse = grown
}

// Map pairs a sparse set with a parallel value column.
type Map[T any] struct {
	keys   Set
	values []T
}

// Set stores value under key, overwriting any existing entry.
func (m *Map[T]) Set(key uint32, value T) {
	if m.keys.Contains(key) {
		m.values[m.keys.sparse[key]] = value
		return
	}
	m.keys.Add(key)
	m.values = append(m.values, value)
}

// Get returns the value stored under key.
func (m *Map[T]) Get(key uint32) (T, bool) {
	if !m.keys.Contains(key) {
		var zero T
		return zero, false
	}
	return m.values[m.keys.sparse[key]], true
}

// Remove deletes key and its value. Returns false when the key was absent.
func (m *Map[T]) Remove(key uint32) bool {
	if !m.keys.Contains(key) {
		return false
	}
	slot := m.keys.sparse[key]
	lastSlot := len(m.values) - 1
	m.values[slot] = m.values[lastSlot]
	m.values = m.values[:lastSlot]
	m.keys.Remove(key)
	return true
}

// Contains reports whether key is present.
func (m *Map[T]) Contains(key uint32) bool {
	return m.keys.Contains(key)
}

// Len returns the number of entries held.
func (m *Map[T]) Len() int {
	return m.keys.Len()
}

// Clear empties the map without releasing capacity.
func (m *Map[T]) Clear() {
	m.keys.Clear()
	m.values = m.values[:0]
}

// Range calls fn for every key/value pair until fn returns false.
func (m *Map[T]) Range(fn func(key uint32, value T) bool) {
	for slot, key := range m.keys.dense {
		if !fn(key, m.values[slot]) {
			return
		}
	}
}
