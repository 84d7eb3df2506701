package schema

import (
	"fmt"
	"strings"
)

// InterfaceType represents a GraphQL interface.
type InterfaceType struct {
	Name        string
	Description string
	Directives  []*Directive
	Fields      map[string]*FieldDefinition

	// ResolveType, if given, determines the concrete object type for a
	// resolved value directly, bypassing IsTypeOf probing (spec.md §4.5).
	ResolveType func(value interface{}, ctx FieldContext) *ObjectType
}

func (t *InterfaceType) String() string { return t.Name }

func (t *InterfaceType) IsInputType() bool  { return false }
func (t *InterfaceType) IsOutputType() bool { return true }

func (t *InterfaceType) IsSubTypeOf(other Type) bool { return t.IsSameType(other) }
func (t *InterfaceType) IsSameType(other Type) bool   { return t == other }

func (t *InterfaceType) TypeName() string { return t.Name }

func (t *InterfaceType) shallowValidate() error {
	if len(t.Fields) == 0 {
		return fmt.Errorf("%v must define at least one field", t.Name)
	}
	for name := range t.Fields {
		if !isName(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("illegal field name: %v", name)
		}
	}
	return nil
}

// IsInterfaceType reports whether t is an interface type.
func IsInterfaceType(t Type) bool {
	_, ok := t.(*InterfaceType)
	return ok
}
