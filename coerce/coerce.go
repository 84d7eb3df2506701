// Package coerce implements spec.md §4.2's value-coercion algorithms at the
// document level: turning an operation's raw (e.g. JSON-decoded) variable
// values into the schema's internal representation, and turning a field or
// directive's argument list (literals plus variable references) into a
// resolved argument map. The per-type dispatch rules live in schema.CoerceLiteral
// and schema.CoerceVariableValue; this package only handles the variable- and
// argument-definition bookkeeping (defaults, required-ness, unknown values).
package coerce

import (
	"fmt"

	"github.com/relaygo/gqlengine/ast"
	"github.com/relaygo/gqlengine/schema"
)

// Location is the position of a single source character, used to point
// coercion errors back at the query document.
type Location struct {
	Line   int
	Column int
}

// Error is a coercion failure, always tied to the document node responsible.
type Error struct {
	Message   string
	Locations []Location
}

func (err *Error) Error() string { return err.Message }

func newError(node ast.Node, message string, args ...interface{}) *Error {
	ret := &Error{Message: fmt.Sprintf(message, args...)}
	if node != nil {
		pos := node.Position()
		ret.Locations = []Location{{Line: pos.Line, Column: pos.Column}}
	}
	return ret
}

// SchemaType resolves a document-level type reference to the schema's
// runtime Type, or nil if it names an unknown type.
func SchemaType(t ast.Type, s *schema.Schema) schema.Type {
	switch t := t.(type) {
	case *ast.NamedType:
		named := s.NamedType(t.Name.Name)
		if named == nil {
			return nil
		}
		return named
	case *ast.ListType:
		elem := SchemaType(t.Type, s)
		if elem == nil {
			return nil
		}
		return schema.NewListType(elem)
	case *ast.NonNullType:
		elem := SchemaType(t.Type, s)
		if elem == nil {
			return nil
		}
		return schema.NewNonNullType(elem)
	default:
		return nil
	}
}

// VariableValues coerces an operation's externally supplied variable values
// (e.g. a JSON object decoded into Go's dynamic types) into the schema's
// internal representation, applying declared defaults and rejecting missing
// non-null variables, per spec.md §4.2.
func VariableValues(s *schema.Schema, operation *ast.OperationDefinition, variableValues map[string]interface{}) (map[string]interface{}, *Error) {
	coercedValues := map[string]interface{}{}
	for _, def := range operation.VariableDefinitions {
		variableName := def.Variable.Name.Name
		variableType := SchemaType(def.Type, s)
		if variableType == nil || !variableType.IsInputType() {
			return nil, newError(def.Type, "Invalid variable type.")
		}
		value, hasValue := variableValues[variableName]

		if !hasValue && def.DefaultValue != nil {
			coerced, err := schema.CoerceLiteral(def.DefaultValue, variableType, variableValues)
			if err != nil {
				return nil, newError(def.DefaultValue, "Invalid default value for $%v: %v", variableName, err.Error())
			}
			coercedValues[variableName] = coerced
		} else if schema.IsNonNullType(variableType) && !hasValue {
			return nil, newError(def.Variable, "The %v variable is required.", variableName)
		} else if hasValue {
			coerced, err := schema.CoerceVariableValue(value, variableType)
			if err != nil {
				return nil, newError(def.Variable, "Variable \"$%v\" got invalid value %#v; %v", variableName, value, err.Error())
			}
			coercedValues[variableName] = coerced
		}
	}
	return coercedValues, nil
}

// ArgumentValues coerces a field or directive's argument list into a resolved
// map, substituting variableValues for variable references and applying
// argument defaults, per spec.md §4.2. node is used only to locate the
// "argument is required" error when no value or default is available.
func ArgumentValues(node ast.Node, argumentDefinitions map[string]*schema.InputValueDefinition, arguments []*ast.Argument, variableValues map[string]interface{}) (map[string]interface{}, *Error) {
	coercedValues := map[string]interface{}{}

	argumentValues := map[string]ast.Value{}
	for _, arg := range arguments {
		argumentValues[arg.Name.Name] = arg.Value
	}

	for argumentName, argumentDefinition := range argumentDefinitions {
		argumentType := argumentDefinition.Type
		defaultValue := argumentDefinition.DefaultValue

		argumentValue, hasValue := argumentValues[argumentName]
		if variable, ok := argumentValue.(*ast.Variable); ok {
			_, hasValue = variableValues[variable.Name.Name]
		}

		if !hasValue && defaultValue != nil {
			if defaultValue == schema.Null {
				defaultValue = nil
			}
			coercedValues[argumentName] = defaultValue
		} else if schema.IsNonNullType(argumentType) && !hasValue {
			return nil, newError(node, "The %v argument is required.", argumentName)
		} else if hasValue {
			if variable, ok := argumentValue.(*ast.Variable); ok {
				coercedValues[argumentName] = variableValues[variable.Name.Name]
			} else if coerced, err := schema.CoerceLiteral(argumentValue, argumentType, variableValues); err != nil {
				return nil, newError(argumentValue, "Invalid value for argument %v: %v", argumentName, err.Error())
			} else {
				coercedValues[argumentName] = coerced
			}
		}
	}

	return coercedValues, nil
}
