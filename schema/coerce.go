package schema

import (
	"fmt"

	"github.com/relaygo/gqlengine/ast"
)

// CoerceVariableValue converts an externally supplied value (e.g. JSON
// decoded into Go's dynamic types) into an internal value of type t,
// recursing into lists and input objects per spec.md §4.2.
func CoerceVariableValue(value interface{}, t Type) (interface{}, error) {
	if value == nil {
		if IsNonNullType(t) {
			return nil, fmt.Errorf("a value is required")
		}
		return nil, nil
	}

	switch t := t.(type) {
	case *ScalarType:
		return t.CoerceVariableValue(value)
	case *EnumType:
		return t.CoerceVariableValue(value)
	case *InputObjectType:
		return t.CoerceVariableValue(value)
	case *ListType:
		return coerceVariableValueToList(value, t)
	case *NonNullType:
		return CoerceVariableValue(value, t.Type)
	default:
		return nil, fmt.Errorf("%v is not an input type", t)
	}
}

func coerceVariableValueToList(value interface{}, t *ListType) (interface{}, error) {
	if slice, ok := value.([]interface{}); ok {
		result := make([]interface{}, len(slice))
		for i, item := range slice {
			coerced, err := CoerceVariableValue(item, t.Type)
			if err != nil {
				return nil, fmt.Errorf("index %v: %w", i, err)
			}
			result[i] = coerced
		}
		return result, nil
	}
	// A non-list value is coerced as a single-item list, per the GraphQL spec.
	coerced, err := CoerceVariableValue(value, t.Type)
	if err != nil {
		return nil, err
	}
	return []interface{}{coerced}, nil
}

// CoerceLiteral converts an AST value literal into an internal value of type
// t, substituting variableValues for any `$var` references. Per spec.md
// §4.2, a variable reference that is absent from variableValues propagates
// as "intentionally no value" rather than an error (the caller is
// responsible for rejecting that case when the position is non-null).
func CoerceLiteral(from ast.Value, to Type, variableValues map[string]interface{}) (interface{}, error) {
	if ast.IsNullValue(from) {
		if IsNonNullType(to) {
			return nil, fmt.Errorf("cannot coerce null to non-null type %v", to)
		}
		return nil, nil
	}
	if variable, ok := from.(*ast.Variable); ok {
		if value, ok := variableValues[variable.Name.Name]; ok {
			return value, nil
		}
		return nil, nil
	}

	switch to := to.(type) {
	case *ScalarType:
		return to.CoerceLiteral(from)
	case *EnumType:
		return to.CoerceLiteral(from)
	case *InputObjectType:
		obj, ok := from.(*ast.ObjectValue)
		if !ok {
			return nil, fmt.Errorf("expected an object literal for %v", to)
		}
		return to.CoerceLiteral(obj, variableValues)
	case *ListType:
		return coerceLiteralToList(from, to, variableValues)
	case *NonNullType:
		return CoerceLiteral(from, to.Type, variableValues)
	default:
		return nil, fmt.Errorf("%v is not an input type", to)
	}
}

func coerceLiteralToList(from ast.Value, t *ListType, variableValues map[string]interface{}) (interface{}, error) {
	if list, ok := from.(*ast.ListValue); ok {
		result := make([]interface{}, len(list.Values))
		for i, v := range list.Values {
			coerced, err := CoerceLiteral(v, t.Type, variableValues)
			if err != nil {
				return nil, fmt.Errorf("index %v: %w", i, err)
			}
			result[i] = coerced
		}
		return result, nil
	}
	coerced, err := CoerceLiteral(from, t.Type, variableValues)
	if err != nil {
		return nil, err
	}
	return []interface{}{coerced}, nil
}
