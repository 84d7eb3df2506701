package executor

import (
	"github.com/relaygo/gqlengine/schema"
)

// typenameHint is implemented by a resolved value that wants to name its own
// concrete object type, short-circuiting possibleTypes probing (spec.md
// §4.5).
type typenameHint interface {
	Typename() string
}

// resolveAbstractType determines the concrete object type for a value
// resolved at a field typed as an interface or union, per spec.md §4.5: the
// abstract type's own ResolveType hook wins if present; otherwise a
// `typenameHint` is honored; otherwise every candidate's IsTypeOf is probed,
// in order, for the first match.
func (e *executor) resolveAbstractType(fieldType schema.Type, value interface{}, ctx schema.FieldContext) *schema.ObjectType {
	switch fieldType := fieldType.(type) {
	case *schema.InterfaceType:
		if fieldType.ResolveType != nil {
			return fieldType.ResolveType(value, ctx)
		}
		if hint, ok := value.(typenameHint); ok {
			return e.objectTypeByName(hint.Typename())
		}
		for _, candidate := range e.schema.InterfaceImplementations(fieldType.Name) {
			if candidate.IsTypeOf != nil && candidate.IsTypeOf(value) {
				return candidate
			}
		}
	case *schema.UnionType:
		if fieldType.ResolveType != nil {
			return fieldType.ResolveType(value, ctx)
		}
		if hint, ok := value.(typenameHint); ok {
			return e.objectTypeByName(hint.Typename())
		}
		for _, candidate := range fieldType.MemberTypes {
			if candidate.IsTypeOf != nil && candidate.IsTypeOf(value) {
				return candidate
			}
		}
	}
	return nil
}

func (e *executor) objectTypeByName(name string) *schema.ObjectType {
	obj, _ := e.schema.NamedType(name).(*schema.ObjectType)
	return obj
}

// isPossibleType reports whether objectType may legally be the runtime type
// of a value at an abstract-typed field, the post-condition spec.md §4.5
// requires the executor enforce.
func isPossibleType(s *schema.Schema, abstractTypeName string, objectType *schema.ObjectType) bool {
	for _, t := range s.PossibleTypes(abstractTypeName) {
		if t.IsSameType(objectType) {
			return true
		}
	}
	return false
}

func abstractTypeName(t schema.Type) string {
	switch t := t.(type) {
	case *schema.InterfaceType:
		return t.Name
	case *schema.UnionType:
		return t.Name
	default:
		return ""
	}
}
