package schema

import (
	"math"
	"strconv"

	"github.com/relaygo/gqlengine/ast"
)

func coerceInt(v interface{}) interface{} {
	switch v := v.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return v
		}
	case int32:
		return int(v)
	case int64:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return int(v)
		}
	case float64:
		if n := math.Trunc(v); n == v && n >= math.MinInt32 && n <= math.MaxInt32 {
			return int(n)
		}
	}
	return nil
}

// IntType implements the Int scalar as defined by the GraphQL spec.
var IntType = &ScalarType{
	Name: "Int",
	ParseLiteral: func(v ast.Value) interface{} {
		if iv, ok := v.(*ast.IntValue); ok {
			if n, err := strconv.ParseInt(iv.Value, 10, 32); err == nil {
				return int(n)
			}
		}
		return nil
	},
	ParseValue: coerceInt,
	Serialize: func(v interface{}) (interface{}, bool) {
		r := coerceInt(v)
		return r, r != nil
	},
	InvalidValueDescription: "non-integer value",
}

func coerceFloat(v interface{}) interface{} {
	switch v := v.(type) {
	case bool:
		if v {
			return 1.0
		}
		return 0.0
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	}
	return nil
}

// FloatType implements the Float scalar as defined by the GraphQL spec.
var FloatType = &ScalarType{
	Name: "Float",
	ParseLiteral: func(v ast.Value) interface{} {
		switch v := v.(type) {
		case *ast.IntValue:
			if n, err := strconv.ParseFloat(v.Value, 64); err == nil {
				return n
			}
		case *ast.FloatValue:
			if n, err := strconv.ParseFloat(v.Value, 64); err == nil {
				return n
			}
		}
		return nil
	},
	ParseValue: coerceFloat,
	Serialize: func(v interface{}) (interface{}, bool) {
		r := coerceFloat(v)
		return r, r != nil
	},
	InvalidValueDescription: "non numeric value",
}

func coerceString(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return s
	}
	return nil
}

// StringType implements the String scalar as defined by the GraphQL spec.
var StringType = &ScalarType{
	Name: "String",
	ParseLiteral: func(v ast.Value) interface{} {
		if sv, ok := v.(*ast.StringValue); ok {
			return sv.Value
		}
		return nil
	},
	ParseValue: coerceString,
	Serialize: func(v interface{}) (interface{}, bool) {
		r := coerceString(v)
		return r, r != nil
	},
	InvalidValueDescription: "non-string value",
}

func coerceBoolean(v interface{}) interface{} {
	if b, ok := v.(bool); ok {
		return b
	}
	return nil
}

// BooleanType implements the Boolean scalar as defined by the GraphQL spec.
var BooleanType = &ScalarType{
	Name: "Boolean",
	ParseLiteral: func(v ast.Value) interface{} {
		if bv, ok := v.(*ast.BooleanValue); ok {
			return bv.Value
		}
		return nil
	},
	ParseValue: coerceBoolean,
	Serialize: func(v interface{}) (interface{}, bool) {
		if b, ok := v.(bool); ok {
			return b, true
		}
		return nil, false
	},
	InvalidValueDescription: "non-boolean value",
}

// IDType implements the ID scalar. It accepts strings or integers, and
// always serializes to a string.
var IDType = &ScalarType{
	Name: "ID",
	ParseLiteral: func(v ast.Value) interface{} {
		switch v := v.(type) {
		case *ast.IntValue:
			if n, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
				return strconv.FormatInt(n, 10)
			}
		case *ast.StringValue:
			return v.Value
		}
		return nil
	},
	ParseValue: func(v interface{}) interface{} {
		switch v := v.(type) {
		case string:
			return v
		case int:
			return strconv.Itoa(v)
		case float64:
			if n := int64(math.Trunc(v)); float64(n) == v {
				return strconv.FormatInt(n, 10)
			}
		}
		return nil
	},
	Serialize: func(v interface{}) (interface{}, bool) {
		switch v := v.(type) {
		case string:
			return v, true
		case int:
			return strconv.Itoa(v), true
		case int32:
			return strconv.FormatInt(int64(v), 10), true
		case int64:
			return strconv.FormatInt(v, 10), true
		}
		return nil, false
	},
}

// BuiltInTypes are the five scalar types every schema implicitly defines.
var BuiltInTypes = map[string]*ScalarType{
	"Int":     IntType,
	"Float":   FloatType,
	"String":  StringType,
	"Boolean": BooleanType,
	"ID":      IDType,
}

var builtins = func() map[string]NamedType {
	m := map[string]NamedType{}
	for name, t := range BuiltInTypes {
		m[name] = t
	}
	return m
}()
