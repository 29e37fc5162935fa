package types

import (
	"github.com/cockroachdb/errors"

	errs "github.com/chaisql/llsd/errors"
)

var _ Value = NewMapValue()

// MapValue is a string keyed map of values. Keys are unique and iterated in
// the order of their first insertion.
type MapValue struct {
	keys   []string
	values map[string]Value
}

// NewMapValue returns an empty map.
func NewMapValue() *MapValue {
	return &MapValue{
		values: make(map[string]Value),
	}
}

// NewMapValueWithCapacity returns an empty map sized for n entries.
func NewMapValueWithCapacity(n int) *MapValue {
	return &MapValue{
		keys:   make([]string, 0, n),
		values: make(map[string]Value, n),
	}
}

func (m *MapValue) V() any {
	return m
}

func (m *MapValue) Type() Type {
	return TypeMap
}

func (m *MapValue) String() string {
	return string(MarshalTextIndent(m, "", ""))
}

// Len returns the number of entries of the map.
func (m *MapValue) Len() int {
	return len(m.keys)
}

// Set associates key with x. An existing entry is overwritten but keeps
// its position.
func (m *MapValue) Set(key string, x Value) *MapValue {
	if m.values == nil {
		m.values = make(map[string]Value)
	}

	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = x
	return m
}

// Get returns the value associated with key.
func (m *MapValue) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// GetByField returns the value associated with key or a MissingField error.
func (m *MapValue) GetByField(key string) (Value, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, errs.NewMissingField(key)
	}

	return v, nil
}

// Has returns true if key is present.
func (m *MapValue) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Delete removes key from the map and reports whether it was present.
func (m *MapValue) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}

	delete(m.values, key)
	for i := range m.keys {
		if m.keys[i] == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}

	return true
}

// Keys returns the keys in iteration order.
func (m *MapValue) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Iterate goes through all the entries of the map and calls fn for each
// of them. If fn returns an error, the iteration stops.
func (m *MapValue) Iterate(fn func(key string, value Value) error) error {
	for _, k := range m.keys {
		if err := fn(k, m.values[k]); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}
