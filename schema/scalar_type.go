package schema

import "github.com/relaygo/gqlengine/ast"

// ScalarType represents a leaf GraphQL scalar. The three functions below are
// the spec's serialize/parseValue/parseLiteral, named to match this module's
// coercion entry points (CoerceResult/CoerceVariableValue/CoerceLiteral).
type ScalarType struct {
	Name        string
	Description string
	Directives  []*Directive

	// ParseLiteral converts an AST literal to an internal value. Return nil
	// to indicate the literal is not a legal value for this scalar.
	ParseLiteral func(ast.Value) interface{}

	// ParseValue converts an externally supplied value (e.g. decoded JSON) to
	// an internal value. Return nil to indicate the value is illegal.
	ParseValue func(interface{}) interface{}

	// Serialize converts an internal value to one suitable for the response.
	// Return (nil, false) if the value cannot be represented.
	Serialize func(interface{}) (interface{}, bool)

	// InvalidValueDescription customizes the noun phrase used in a
	// CoerceVariableValue error, e.g. "non-integer value" for Int. Defaults
	// to "value".
	InvalidValueDescription string
}

func (t *ScalarType) invalidValueDescription() string {
	if t.InvalidValueDescription != "" {
		return t.InvalidValueDescription
	}
	return "value"
}

func (t *ScalarType) String() string { return t.Name }

func (t *ScalarType) IsInputType() bool  { return true }
func (t *ScalarType) IsOutputType() bool { return true }

func (t *ScalarType) IsSubTypeOf(other Type) bool { return t.IsSameType(other) }
func (t *ScalarType) IsSameType(other Type) bool   { return t == other }

func (t *ScalarType) TypeName() string { return t.Name }

// CoerceLiteral converts an AST literal node to an internal value.
func (t *ScalarType) CoerceLiteral(v ast.Value) (interface{}, error) {
	if t.ParseLiteral == nil {
		return nil, errScalarCannotParseLiteral(t.Name)
	}
	result := t.ParseLiteral(v)
	if result == nil {
		return nil, errScalarCannotParseLiteral(t.Name)
	}
	return result, nil
}

// CoerceVariableValue converts an externally supplied value to an internal
// value.
func (t *ScalarType) CoerceVariableValue(v interface{}) (interface{}, error) {
	if t.ParseValue == nil {
		return nil, errScalarCannotParseValue(t.Name, t.invalidValueDescription(), v)
	}
	result := t.ParseValue(v)
	if result == nil {
		return nil, errScalarCannotParseValue(t.Name, t.invalidValueDescription(), v)
	}
	return result, nil
}

// CoerceResult serializes a resolved value for the response.
func (t *ScalarType) CoerceResult(v interface{}) (interface{}, error) {
	if t.Serialize == nil {
		return nil, errScalarCannotSerialize(t.Name, v)
	}
	result, ok := t.Serialize(v)
	if !ok {
		return nil, errScalarCannotSerialize(t.Name, v)
	}
	return result, nil
}

// IsScalarType reports whether t is a scalar type.
func IsScalarType(t Type) bool {
	_, ok := t.(*ScalarType)
	return ok
}
