package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relaygo/gqlengine/ast"
)

// InputObjectType represents a GraphQL input object.
type InputObjectType struct {
	Name        string
	Description string
	Directives  []*Directive
	Fields      map[string]*InputValueDefinition

	// InputCoercion, if given, converts the coerced field map into another
	// representation (e.g. a Go struct). Called after every field is
	// individually coerced.
	InputCoercion func(map[string]interface{}) (interface{}, error)

	// ResultCoercion is the inverse of InputCoercion, needed only to
	// serialize a default value of this type for introspection.
	ResultCoercion func(interface{}) (map[string]interface{}, error)
}

func (t *InputObjectType) String() string { return t.Name }

func (t *InputObjectType) IsInputType() bool  { return true }
func (t *InputObjectType) IsOutputType() bool { return false }

func (t *InputObjectType) IsSubTypeOf(other Type) bool { return t.IsSameType(other) }
func (t *InputObjectType) IsSameType(other Type) bool   { return t == other }

func (t *InputObjectType) TypeName() string { return t.Name }

// CoerceVariableValue coerces an externally supplied map (e.g. decoded JSON)
// into this input object's internal representation.
func (t *InputObjectType) CoerceVariableValue(v interface{}) (interface{}, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%v must be an object", t.Name)
	}

	result := map[string]interface{}{}
	for name, field := range t.Fields {
		if fieldValue, ok := m[name]; ok {
			coerced, err := CoerceVariableValue(fieldValue, field.Type)
			if err != nil {
				return nil, fmt.Errorf("field %v: %w", name, err)
			}
			result[name] = coerced
		} else if field.DefaultValue != nil {
			result[name] = derefNull(field.DefaultValue)
		} else if IsNonNullType(field.Type) {
			return nil, fmt.Errorf("field %v is required", name)
		}
	}
	for name := range m {
		if _, ok := t.Fields[name]; !ok {
			return nil, fmt.Errorf("unknown field %v%v", name, suggestField(name, t.Fields))
		}
	}

	if t.InputCoercion != nil {
		return t.InputCoercion(result)
	}
	return result, nil
}

// CoerceLiteral coerces an AST object literal to this input object's internal
// representation, substituting variableValues for any `$var` field values.
func (t *InputObjectType) CoerceLiteral(node *ast.ObjectValue, variableValues map[string]interface{}) (interface{}, error) {
	result := map[string]interface{}{}

	for _, field := range node.Fields {
		name := field.Name.Name
		fieldDef, ok := t.Fields[name]
		if !ok {
			return nil, fmt.Errorf("unknown field %v%v", name, suggestField(name, t.Fields))
		}
		if variable, ok := field.Value.(*ast.Variable); ok {
			if _, ok := variableValues[variable.Name.Name]; !ok {
				continue
			}
		}
		coerced, err := CoerceLiteral(field.Value, fieldDef.Type, variableValues)
		if err != nil {
			return nil, fmt.Errorf("field %v: %w", name, err)
		}
		result[name] = coerced
	}
	for name, field := range t.Fields {
		if v, ok := result[name]; !ok && field.DefaultValue != nil {
			result[name] = derefNull(field.DefaultValue)
		} else if (!ok || v == nil) && IsNonNullType(field.Type) {
			return nil, fmt.Errorf("field %v is required", name)
		}
	}

	if t.InputCoercion != nil {
		return t.InputCoercion(result)
	}
	return result, nil
}

func derefNull(v interface{}) interface{} {
	if v == Null {
		return nil
	}
	return v
}

func (t *InputObjectType) shallowValidate() error {
	if len(t.Fields) == 0 {
		return fmt.Errorf("%v must define at least one field", t.Name)
	}
	for name, field := range t.Fields {
		if !isName(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("illegal field name: %v", name)
		}
		if !field.Type.IsInputType() {
			return fmt.Errorf("field %v must have an input type", name)
		}
	}
	return nil
}

// suggestField returns a parenthesized suggestion for the closest legal field
// name to an unknown one, by Levenshtein distance, or "" if nothing is close.
func suggestField(name string, fields map[string]*InputValueDefinition) string {
	type candidate struct {
		name string
		dist int
	}
	var candidates []candidate
	for f := range fields {
		d := levenshtein(name, f)
		if d <= 2 && d < len(f) {
			candidates = append(candidates, candidate{f, d})
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return " (did you mean " + strings.Join(names, ", ") + "?)"
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
