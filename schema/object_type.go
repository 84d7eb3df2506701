package schema

import (
	"fmt"
	"strings"
)

// ObjectType represents a concrete GraphQL object type.
type ObjectType struct {
	Name                  string
	Description           string
	ImplementedInterfaces []*InterfaceType
	Directives            []*Directive
	Fields                map[string]*FieldDefinition

	// IsTypeOf determines, at runtime, whether a resolved value is an
	// instance of this object type. Required for any object type that is a
	// union member or implements an interface, since abstract-type
	// resolution may need to probe candidates (spec.md §4.5).
	IsTypeOf func(interface{}) bool
}

func (t *ObjectType) String() string { return t.Name }

func (t *ObjectType) IsInputType() bool  { return false }
func (t *ObjectType) IsOutputType() bool { return true }

func (t *ObjectType) IsSubTypeOf(other Type) bool {
	if t.IsSameType(other) {
		return true
	}
	if union, ok := other.(*UnionType); ok {
		for _, member := range union.MemberTypes {
			if t.IsSameType(member) {
				return true
			}
		}
		return false
	}
	if iface, ok := other.(*InterfaceType); ok {
		for _, impl := range t.ImplementedInterfaces {
			if impl.IsSameType(iface) {
				return true
			}
		}
	}
	return false
}

func (t *ObjectType) IsSameType(other Type) bool { return t == other }

func (t *ObjectType) TypeName() string { return t.Name }

// SatisfyInterface checks that t implements every field (and argument) that
// iface requires.
func (t *ObjectType) SatisfyInterface(iface *InterfaceType) error {
	for name, ifaceField := range iface.Fields {
		field, ok := t.Fields[name]
		if !ok {
			return fmt.Errorf("missing field named %v", name)
		}
		if !field.Type.IsSubTypeOf(ifaceField.Type) {
			return fmt.Errorf("field %v is not a subtype of the interface's field", name)
		}
		for argName, ifaceArg := range ifaceField.Arguments {
			arg, ok := field.Arguments[argName]
			if !ok {
				return fmt.Errorf("field %v is missing argument %v", name, argName)
			}
			if !arg.Type.IsSameType(ifaceArg.Type) {
				return fmt.Errorf("field %v argument %v is not the same type as the interface's", name, argName)
			}
		}
		for argName, arg := range field.Arguments {
			if _, ok := ifaceField.Arguments[argName]; !ok && IsNonNullType(arg.Type) {
				return fmt.Errorf("field %v argument %v cannot be non-null; it isn't present on the interface", name, argName)
			}
		}
	}
	return nil
}

func (t *ObjectType) shallowValidate() error {
	if len(t.Fields) == 0 {
		return fmt.Errorf("%v must define at least one field", t.Name)
	}
	for name, field := range t.Fields {
		if !isName(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("illegal field name: %v", name)
		}
		if !field.Type.IsOutputType() {
			return fmt.Errorf("field %v must have an output type", name)
		}
	}
	if (len(t.ImplementedInterfaces) > 0) && t.IsTypeOf == nil {
		return fmt.Errorf("%v implements an interface but does not define IsTypeOf", t.Name)
	}
	return nil
}
