package executor

import (
	"bytes"
	"encoding/json"
)

// OrderedMap is a response object: a string-keyed map whose entries marshal
// in insertion order, per the GraphQL requirement that response maps preserve
// the order fields were requested in.
type OrderedMap struct {
	m     map[string]interface{}
	order []string
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{m: map[string]interface{}{}}
}

// Set assigns value to key, appending key to the iteration order the first
// time it's used.
func (m *OrderedMap) Set(key string, value interface{}) {
	if _, ok := m.m[key]; !ok {
		m.order = append(m.order, key)
	}
	m.m[key] = value
}

// Get returns the value at key, and whether it was present.
func (m *OrderedMap) Get(key string) (interface{}, bool) {
	v, ok := m.m[key]
	return v, ok
}

// Len returns the number of entries in the map.
func (m *OrderedMap) Len() int { return len(m.m) }

// Keys returns the keys of the map in insertion order.
func (m *OrderedMap) Keys() []string { return m.order }

// MarshalJSON renders the map as a JSON object with keys in insertion order,
// since encoding/json always sorts map[string]interface{} keys alphabetically.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	pairs := make([][]byte, len(m.order))
	for i, key := range m.order {
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		valueJSON, err := json.Marshal(m.m[key])
		if err != nil {
			return nil, err
		}
		pairs[i] = bytes.Join([][]byte{keyJSON, valueJSON}, []byte{':'})
	}
	return append(append([]byte{'{'}, bytes.Join(pairs, []byte{','})...), '}'), nil
}
