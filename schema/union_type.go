package schema

import "fmt"

// UnionType represents a GraphQL union.
type UnionType struct {
	Name        string
	Description string
	Directives  []*Directive
	MemberTypes []*ObjectType

	// ResolveType, if given, determines the concrete object type for a
	// resolved value directly, bypassing IsTypeOf probing (spec.md §4.5).
	ResolveType func(value interface{}, ctx FieldContext) *ObjectType
}

func (t *UnionType) String() string { return t.Name }

func (t *UnionType) IsInputType() bool  { return false }
func (t *UnionType) IsOutputType() bool { return true }

func (t *UnionType) IsSubTypeOf(other Type) bool { return t.IsSameType(other) }
func (t *UnionType) IsSameType(other Type) bool   { return t == other }

func (t *UnionType) TypeName() string { return t.Name }

func (t *UnionType) shallowValidate() error {
	if len(t.MemberTypes) == 0 {
		return fmt.Errorf("%v must define at least one member type", t.Name)
	}
	seen := map[string]struct{}{}
	for _, member := range t.MemberTypes {
		if _, ok := seen[member.Name]; ok {
			return fmt.Errorf("union member types must be unique: %v", member.Name)
		}
		seen[member.Name] = struct{}{}
		if member.IsTypeOf == nil && t.ResolveType == nil {
			return fmt.Errorf("union member %v must define IsTypeOf (or the union must define ResolveType)", member.Name)
		}
	}
	return nil
}

// IsUnionType reports whether t is a union type.
func IsUnionType(t Type) bool {
	_, ok := t.(*UnionType)
	return ok
}
