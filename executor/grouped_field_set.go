package executor

import "github.com/relaygo/gqlengine/ast"

// GroupedFieldSetItem pairs a response key with every field node (from
// possibly multiple fragments) that contributed to it.
type GroupedFieldSetItem struct {
	Key    string
	Fields []*ast.Field
}

// GroupedFieldSet holds the result of field collection (spec.md §4.3):
// fields destined for the same response key, grouped together, in the order
// each key was first encountered.
type GroupedFieldSet struct {
	indexByKey map[string]int
	items      []GroupedFieldSetItem
}

// NewGroupedFieldSetWithCapacity allocates a GroupedFieldSet with room for n
// distinct response keys, to cut down on reallocation during collection.
func NewGroupedFieldSetWithCapacity(n int) *GroupedFieldSet {
	return &GroupedFieldSet{
		indexByKey: make(map[string]int, n),
		items:      make([]GroupedFieldSetItem, 0, n),
	}
}

// Append adds a field to the group for the given response key.
func (s *GroupedFieldSet) Append(key string, field *ast.Field) {
	if idx, ok := s.indexByKey[key]; ok {
		s.items[idx].Fields = append(s.items[idx].Fields, field)
		return
	}
	s.indexByKey[key] = len(s.items)
	s.items = append(s.items, GroupedFieldSetItem{Key: key, Fields: []*ast.Field{field}})
}

// Len returns the number of distinct response keys.
func (s *GroupedFieldSet) Len() int { return len(s.items) }

// Items returns the groups, in the order their keys were first encountered.
func (s *GroupedFieldSet) Items() []GroupedFieldSetItem { return s.items }
