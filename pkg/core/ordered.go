package core

import "iter"

// OrderedMap is a string-keyed map that remembers insertion order.
// Setting an existing key replaces its value in place; the key keeps its
// original position.
type OrderedMap[V any] struct {
	keys   []string
	values []V
	index  map[string]int
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{index: make(map[string]int)}
}

// Set inserts or replaces the value stored under key.
func (m *OrderedMap[V]) Set(key string, value V) {
	if i, ok := m.index[key]; ok {
		m.values[i] = value
		return
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

// Get returns the value stored under key.
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	if m != nil {
		if i, ok := m.index[key]; ok {
			return m.values[i], true
		}
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (m *OrderedMap[V]) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[key]
	return ok
}

// Len returns the number of keys.
func (m *OrderedMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[V]) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates over key/value pairs in insertion order.
func (m *OrderedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m == nil {
			return
		}
		for i, k := range m.keys {
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}

// Clone returns a copy of the map, passing every value through cloneValue.
// A nil cloneValue copies values as-is.
func (m *OrderedMap[V]) Clone(cloneValue func(V) V) *OrderedMap[V] {
	if m == nil {
		return nil
	}
	out := &OrderedMap[V]{
		keys:   make([]string, len(m.keys)),
		values: make([]V, len(m.values)),
		index:  make(map[string]int, len(m.index)),
	}
	copy(out.keys, m.keys)
	for k, i := range m.index {
		out.index[k] = i
	}
	for i, v := range m.values {
		if cloneValue != nil {
			v = cloneValue(v)
		}
		out.values[i] = v
	}
	return out
}
