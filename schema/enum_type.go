package schema

import (
	"fmt"

	"github.com/relaygo/gqlengine/ast"
)

// EnumValueDefinition defines a single legal value of an enum type.
type EnumValueDefinition struct {
	Description string
	Directives  []*Directive

	// DeprecationReason, if set, marks the value deprecated for introspection.
	DeprecationReason string

	// Value is the internal representation this external name maps to. If
	// nil, the external name itself is used as the internal value.
	Value interface{}
}

// EnumType represents a GraphQL enum, mapping external names to internal
// values.
type EnumType struct {
	Name        string
	Description string
	Directives  []*Directive
	Values      map[string]*EnumValueDefinition
}

func (t *EnumType) String() string { return t.Name }

func (t *EnumType) IsInputType() bool  { return true }
func (t *EnumType) IsOutputType() bool { return true }

func (t *EnumType) IsSubTypeOf(other Type) bool { return t.IsSameType(other) }
func (t *EnumType) IsSameType(other Type) bool   { return t == other }

func (t *EnumType) TypeName() string { return t.Name }

func (t *EnumType) internalValue(name string) (interface{}, bool) {
	def, ok := t.Values[name]
	if !ok {
		return nil, false
	}
	if def.Value != nil {
		return def.Value, true
	}
	return name, true
}

// CoerceLiteral resolves an enum literal (a bare name) to its internal value.
func (t *EnumType) CoerceLiteral(v ast.Value) (interface{}, error) {
	ev, ok := v.(*ast.EnumValue)
	if !ok {
		return nil, fmt.Errorf("%v is not a valid %v value", v, t.Name)
	}
	value, ok := t.internalValue(ev.Value)
	if !ok {
		return nil, fmt.Errorf("%v is not a valid %v value", ev.Value, t.Name)
	}
	return value, nil
}

// CoerceVariableValue resolves an external enum name (a string, when decoded
// from JSON) to its internal value.
func (t *EnumType) CoerceVariableValue(v interface{}) (interface{}, error) {
	name, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%v is not a valid %v value", v, t.Name)
	}
	value, ok := t.internalValue(name)
	if !ok {
		return nil, fmt.Errorf("%v is not a valid %v value", name, t.Name)
	}
	return value, nil
}

// CoerceResult serializes an internal value back to its external name.
func (t *EnumType) CoerceResult(v interface{}) (interface{}, error) {
	for name, def := range t.Values {
		if def.Value != nil {
			if def.Value == v {
				return name, nil
			}
		} else if name == v {
			return name, nil
		}
	}
	return nil, fmt.Errorf("%#v is not a valid %v value", v, t.Name)
}

func (t *EnumType) shallowValidate() error {
	if len(t.Values) == 0 {
		return fmt.Errorf("%v must define at least one value", t.Name)
	}
	for name := range t.Values {
		if !isName(name) || name == "true" || name == "false" || name == "null" {
			return fmt.Errorf("illegal enum value name: %v", name)
		}
	}
	return nil
}

// IsEnumType reports whether t is an enum type.
func IsEnumType(t Type) bool {
	_, ok := t.(*EnumType)
	return ok
}
