package introspection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/relaygo/gqlengine/schema"
)

// MarshalValue renders an internal value of the given type as a GraphQL
// literal string, used only to print default values for introspection
// (`__InputValue.defaultValue`). It is the inverse of schema.CoerceLiteral
// for the small subset of values default values can take.
func MarshalValue(t schema.Type, v interface{}) (string, error) {
	if v == nil {
		return "null", nil
	}

	switch t := t.(type) {
	case *schema.NonNullType:
		return MarshalValue(t.Type, v)
	case *schema.ListType:
		slice, ok := v.([]interface{})
		if !ok {
			return "", fmt.Errorf("expected a list for %v", t)
		}
		parts := make([]string, len(slice))
		for i, item := range slice {
			s, err := MarshalValue(t.Type, item)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *schema.ScalarType:
		serialized, ok := t.Serialize(v)
		if !ok {
			return "", fmt.Errorf("value is not valid for %v", t)
		}
		switch serialized := serialized.(type) {
		case string:
			return strconv.Quote(serialized), nil
		case bool:
			return strconv.FormatBool(serialized), nil
		case int:
			return strconv.Itoa(serialized), nil
		case float64:
			return strconv.FormatFloat(serialized, 'g', -1, 64), nil
		default:
			return fmt.Sprintf("%v", serialized), nil
		}
	case *schema.EnumType:
		for name, def := range t.Values {
			if def.Value == v {
				return name, nil
			}
		}
		return "", fmt.Errorf("value is not a member of %v", t)
	case *schema.InputObjectType:
		m, ok := v.(map[string]interface{})
		if t.ResultCoercion != nil {
			var err error
			m, err = t.ResultCoercion(v)
			if err != nil {
				return "", err
			}
		} else if !ok {
			return "", fmt.Errorf("expected an object for %v", t)
		}
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			field, ok := t.Fields[name]
			if !ok {
				continue
			}
			s, err := MarshalValue(field.Type, m[name])
			if err != nil {
				return "", err
			}
			parts = append(parts, name+": "+s)
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", fmt.Errorf("%v is not an input type", t)
	}
}
