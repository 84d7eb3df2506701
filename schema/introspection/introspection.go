// Package introspection provides the built-in `__schema`/`__type`/`__typename`
// meta-fields and the object-type graph (`__Schema`, `__Type`, `__Field`, ...)
// that answers them, per spec.md §4.7. No user-defined resolver can shadow
// these three field names; the executor routes to them directly.
package introspection

import (
	"github.com/relaygo/gqlengine/schema"
)

// NamedTypes are the introspection system's own types, made visible to
// CoerceLiteral/field lookups the same way user-defined types are.
var NamedTypes = map[string]schema.NamedType{
	"__Schema":            SchemaType,
	"__Type":              TypeType,
	"__Field":             FieldType,
	"__InputValue":        InputValueType,
	"__EnumValue":         EnumValueType,
	"__TypeKind":          TypeKindType,
	"__Directive":         DirectiveType,
	"__DirectiveLocation": DirectiveLocationType,
}

// MetaFields are the __schema and __type fields, which the executor looks up
// here when the query root type has no field of that name (spec.md §4.7).
// __typename is not in this map; see TypenameMetaField.
var MetaFields = map[string]*schema.FieldDefinition{
	"__schema": {
		Type: schema.NewNonNullType(SchemaType),
		Resolve: func(ctx schema.FieldContext) (interface{}, error) {
			return ctx.Schema, nil
		},
	},
	"__type": {
		Type: TypeType,
		Arguments: map[string]*schema.InputValueDefinition{
			"name": {Type: schema.NewNonNullType(schema.StringType)},
		},
		Resolve: func(ctx schema.FieldContext) (interface{}, error) {
			name := ctx.Arguments["name"].(string)
			if t := ctx.Schema.NamedType(name); t != nil {
				return t, nil
			}
			if t, ok := NamedTypes[name]; ok {
				return t, nil
			}
			return nil, nil
		},
	},
}

// TypenameMetaField is the per-composite-type `__typename` field. Unlike
// __schema/__type it isn't looked up by name on the query root; the executor
// resolves it directly from the runtime object type (spec.md §4.7), but it's
// exposed here so introspection of the meta-field itself is possible.
var TypenameMetaField = &schema.FieldDefinition{
	Description: "The name of the current Object type at runtime.",
	Type:        schema.NewNonNullType(schema.StringType),
}

type kind string

const (
	kindScalar      kind = "SCALAR"
	kindObject      kind = "OBJECT"
	kindInterface   kind = "INTERFACE"
	kindUnion       kind = "UNION"
	kindEnum        kind = "ENUM"
	kindInputObject kind = "INPUT_OBJECT"
	kindList        kind = "LIST"
	kindNonNull     kind = "NON_NULL"
)

func typeKind(t schema.Type) kind {
	switch t.(type) {
	case *schema.ScalarType:
		return kindScalar
	case *schema.ObjectType:
		return kindObject
	case *schema.InterfaceType:
		return kindInterface
	case *schema.UnionType:
		return kindUnion
	case *schema.EnumType:
		return kindEnum
	case *schema.InputObjectType:
		return kindInputObject
	case *schema.ListType:
		return kindList
	case *schema.NonNullType:
		return kindNonNull
	default:
		panic("unknown type kind")
	}
}

func nullableString(s string) (interface{}, error) {
	if s == "" {
		return nil, nil
	}
	return s, nil
}

// inputValue pairs an argument/input-field name with its definition, the unit
// introspection walks to build __InputValue lists.
type inputValue struct {
	Name       string
	Definition *schema.InputValueDefinition
}

func inputValuesOf(values map[string]*schema.InputValueDefinition) []inputValue {
	ret := make([]inputValue, 0, len(values))
	for name, def := range values {
		ret = append(ret, inputValue{Name: name, Definition: def})
	}
	return ret
}

// field pairs a field name with its definition, the unit introspection walks
// to build __Field lists.
type field struct {
	Name       string
	Definition *schema.FieldDefinition
}

func fieldsOf(fields map[string]*schema.FieldDefinition) []field {
	ret := make([]field, 0, len(fields))
	for name, def := range fields {
		ret = append(ret, field{Name: name, Definition: def})
	}
	return ret
}

// directive pairs a directive name with its definition.
type directive struct {
	Name       string
	Definition *schema.DirectiveDefinition
}

func self(ctx schema.FieldContext) (interface{}, error) { return ctx.Object, nil }

func fieldCtx(resolve func(schema.FieldContext) (interface{}, error)) *schema.FieldDefinition {
	return &schema.FieldDefinition{Resolve: resolve}
}

// TypeKindType is the __TypeKind enum.
var TypeKindType = &schema.EnumType{
	Name: "__TypeKind",
	Values: map[string]*schema.EnumValueDefinition{
		"SCALAR":       {Value: kindScalar},
		"OBJECT":       {Value: kindObject},
		"INTERFACE":    {Value: kindInterface},
		"UNION":        {Value: kindUnion},
		"ENUM":         {Value: kindEnum},
		"INPUT_OBJECT": {Value: kindInputObject},
		"LIST":         {Value: kindList},
		"NON_NULL":     {Value: kindNonNull},
	},
}

// DirectiveLocationType is the __DirectiveLocation enum.
var DirectiveLocationType = &schema.EnumType{
	Name: "__DirectiveLocation",
	Values: map[string]*schema.EnumValueDefinition{
		"QUERY":               {Value: schema.DirectiveLocationQuery},
		"MUTATION":            {Value: schema.DirectiveLocationMutation},
		"SUBSCRIPTION":        {Value: schema.DirectiveLocationSubscription},
		"FIELD":               {Value: schema.DirectiveLocationField},
		"FRAGMENT_DEFINITION": {Value: schema.DirectiveLocationFragmentDefinition},
		"FRAGMENT_SPREAD":     {Value: schema.DirectiveLocationFragmentSpread},
		"INLINE_FRAGMENT":     {Value: schema.DirectiveLocationInlineFragment},
	},
}

// SchemaType is the __Schema object type, the value of the __schema field.
var SchemaType = &schema.ObjectType{
	Name: "__Schema",
	IsTypeOf: func(v interface{}) bool {
		_, ok := v.(*schema.Schema)
		return ok
	},
}

// TypeType is the __Type object type.
var TypeType = &schema.ObjectType{
	Name: "__Type",
	IsTypeOf: func(v interface{}) bool {
		_, ok := v.(schema.Type)
		return ok
	},
}

// FieldType is the __Field object type.
var FieldType = &schema.ObjectType{
	Name: "__Field",
	IsTypeOf: func(v interface{}) bool {
		_, ok := v.(field)
		return ok
	},
}

// InputValueType is the __InputValue object type.
var InputValueType = &schema.ObjectType{
	Name: "__InputValue",
	IsTypeOf: func(v interface{}) bool {
		_, ok := v.(inputValue)
		return ok
	},
}

// EnumValueType is the __EnumValue object type.
var EnumValueType = &schema.ObjectType{
	Name: "__EnumValue",
	IsTypeOf: func(v interface{}) bool {
		type named struct {
			Name string
			Def  *schema.EnumValueDefinition
		}
		_, ok := v.(named)
		return ok
	},
}

// DirectiveType is the __Directive object type.
var DirectiveType = &schema.ObjectType{
	Name: "__Directive",
	IsTypeOf: func(v interface{}) bool {
		_, ok := v.(directive)
		return ok
	},
}

func init() {
	SchemaType.Fields = map[string]*schema.FieldDefinition{
		"types": fieldCtx(func(ctx schema.FieldContext) (interface{}, error) {
			named := ctx.Schema.NamedTypes()
			ret := make([]schema.Type, 0, len(named)+len(NamedTypes)+len(schema.BuiltInTypes))
			for _, t := range named {
				ret = append(ret, t)
			}
			for _, t := range NamedTypes {
				ret = append(ret, t)
			}
			for _, t := range schema.BuiltInTypes {
				ret = append(ret, t)
			}
			return ret, nil
		}),
		"queryType": fieldCtx(func(ctx schema.FieldContext) (interface{}, error) {
			return ctx.Schema.QueryType(), nil
		}),
		"mutationType": fieldCtx(func(ctx schema.FieldContext) (interface{}, error) {
			if ctx.Schema.MutationType() == nil {
				return nil, nil
			}
			return ctx.Schema.MutationType(), nil
		}),
		"subscriptionType": fieldCtx(func(ctx schema.FieldContext) (interface{}, error) {
			if ctx.Schema.SubscriptionType() == nil {
				return nil, nil
			}
			return ctx.Schema.SubscriptionType(), nil
		}),
		"directives": fieldCtx(func(ctx schema.FieldContext) (interface{}, error) {
			return []directive{}, nil
		}),
	}
	SchemaType.Fields["types"].Type = schema.NewNonNullType(schema.NewListType(schema.NewNonNullType(TypeType)))
	SchemaType.Fields["queryType"].Type = schema.NewNonNullType(TypeType)
	SchemaType.Fields["mutationType"].Type = TypeType
	SchemaType.Fields["subscriptionType"].Type = TypeType
	SchemaType.Fields["directives"].Type = schema.NewNonNullType(schema.NewListType(schema.NewNonNullType(DirectiveType)))

	TypeType.Fields = map[string]*schema.FieldDefinition{
		"kind": {
			Type: schema.NewNonNullType(TypeKindType),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				return typeKind(ctx.Object.(schema.Type)), nil
			},
		},
		"name": {
			Type: schema.StringType,
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				if named, ok := ctx.Object.(schema.NamedType); ok {
					return named.TypeName(), nil
				}
				return nil, nil
			},
		},
		"description": {
			Type: schema.StringType,
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				switch t := ctx.Object.(type) {
				case *schema.ObjectType:
					return nullableString(t.Description)
				case *schema.InterfaceType:
					return nullableString(t.Description)
				case *schema.UnionType:
					return nullableString(t.Description)
				case *schema.EnumType:
					return nullableString(t.Description)
				case *schema.InputObjectType:
					return nullableString(t.Description)
				case *schema.ScalarType:
					return nullableString(t.Description)
				}
				return nil, nil
			},
		},
		"fields": {
			Type: schema.NewListType(schema.NewNonNullType(FieldType)),
			Arguments: map[string]*schema.InputValueDefinition{
				"includeDeprecated": {Type: schema.BooleanType, DefaultValue: false},
			},
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				includeDeprecated, _ := ctx.Arguments["includeDeprecated"].(bool)
				var defs map[string]*schema.FieldDefinition
				switch t := ctx.Object.(type) {
				case *schema.ObjectType:
					defs = t.Fields
				case *schema.InterfaceType:
					defs = t.Fields
				default:
					return nil, nil
				}
				ret := []field{}
				for _, f := range fieldsOf(defs) {
					if f.Definition.DeprecationReason != "" && !includeDeprecated {
						continue
					}
					ret = append(ret, f)
				}
				return ret, nil
			},
		},
		"interfaces": {
			Type: schema.NewListType(schema.NewNonNullType(TypeType)),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				obj, ok := ctx.Object.(*schema.ObjectType)
				if !ok {
					return nil, nil
				}
				ret := make([]schema.Type, len(obj.ImplementedInterfaces))
				for i, iface := range obj.ImplementedInterfaces {
					ret[i] = iface
				}
				return ret, nil
			},
		},
		"possibleTypes": {
			Type: schema.NewListType(schema.NewNonNullType(TypeType)),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				var names []*schema.ObjectType
				switch t := ctx.Object.(type) {
				case *schema.InterfaceType:
					names = ctx.Schema.PossibleTypes(t.Name)
				case *schema.UnionType:
					names = t.MemberTypes
				default:
					return nil, nil
				}
				ret := make([]schema.Type, len(names))
				for i, t := range names {
					ret[i] = t
				}
				return ret, nil
			},
		},
		"enumValues": {
			Type: schema.NewListType(schema.NewNonNullType(EnumValueType)),
			Arguments: map[string]*schema.InputValueDefinition{
				"includeDeprecated": {Type: schema.BooleanType, DefaultValue: false},
			},
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				enum, ok := ctx.Object.(*schema.EnumType)
				if !ok {
					return nil, nil
				}
				includeDeprecated, _ := ctx.Arguments["includeDeprecated"].(bool)
				type named struct {
					Name string
					Def  *schema.EnumValueDefinition
				}
				ret := []named{}
				for name, def := range enum.Values {
					if def.DeprecationReason != "" && !includeDeprecated {
						continue
					}
					ret = append(ret, named{name, def})
				}
				return ret, nil
			},
		},
		"inputFields": {
			Type: schema.NewListType(schema.NewNonNullType(InputValueType)),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				obj, ok := ctx.Object.(*schema.InputObjectType)
				if !ok {
					return nil, nil
				}
				return inputValuesOf(obj.Fields), nil
			},
		},
		"ofType": {
			Type: TypeType,
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				if w, ok := ctx.Object.(schema.WrappedType); ok {
					return w.Unwrap(), nil
				}
				return nil, nil
			},
		},
	}

	FieldType.Fields = map[string]*schema.FieldDefinition{
		"name": {
			Type:    schema.NewNonNullType(schema.StringType),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) { return ctx.Object.(field).Name, nil },
		},
		"description": {
			Type: schema.StringType,
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				return nullableString(ctx.Object.(field).Definition.Description)
			},
		},
		"args": {
			Type: schema.NewNonNullType(schema.NewListType(schema.NewNonNullType(InputValueType))),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				return inputValuesOf(ctx.Object.(field).Definition.Arguments), nil
			},
		},
		"type": {
			Type:    schema.NewNonNullType(TypeType),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) { return ctx.Object.(field).Definition.Type, nil },
		},
		"isDeprecated": {
			Type: schema.NewNonNullType(schema.BooleanType),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				return ctx.Object.(field).Definition.DeprecationReason != "", nil
			},
		},
		"deprecationReason": {
			Type: schema.StringType,
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				return nullableString(ctx.Object.(field).Definition.DeprecationReason)
			},
		},
	}

	InputValueType.Fields = map[string]*schema.FieldDefinition{
		"name": {
			Type:    schema.NewNonNullType(schema.StringType),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) { return ctx.Object.(inputValue).Name, nil },
		},
		"description": {
			Type: schema.StringType,
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				return nullableString(ctx.Object.(inputValue).Definition.Description)
			},
		},
		"type": {
			Type:    schema.NewNonNullType(TypeType),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) { return ctx.Object.(inputValue).Definition.Type, nil },
		},
		"defaultValue": {
			Type: schema.StringType,
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				def := ctx.Object.(inputValue).Definition
				if def.DefaultValue == nil {
					return nil, nil
				}
				s, err := MarshalValue(def.Type, def.DefaultValue)
				if err != nil {
					return nil, err
				}
				return s, nil
			},
		},
	}

	EnumValueType.Fields = map[string]*schema.FieldDefinition{
		"name": {
			Type: schema.NewNonNullType(schema.StringType),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				type named struct {
					Name string
					Def  *schema.EnumValueDefinition
				}
				return ctx.Object.(named).Name, nil
			},
		},
		"description": {
			Type: schema.StringType,
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				type named struct {
					Name string
					Def  *schema.EnumValueDefinition
				}
				return nullableString(ctx.Object.(named).Def.Description)
			},
		},
		"isDeprecated": {
			Type: schema.NewNonNullType(schema.BooleanType),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				type named struct {
					Name string
					Def  *schema.EnumValueDefinition
				}
				return ctx.Object.(named).Def.DeprecationReason != "", nil
			},
		},
		"deprecationReason": {
			Type: schema.StringType,
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				type named struct {
					Name string
					Def  *schema.EnumValueDefinition
				}
				return nullableString(ctx.Object.(named).Def.DeprecationReason)
			},
		},
	}

	DirectiveType.Fields = map[string]*schema.FieldDefinition{
		"name": {
			Type:    schema.NewNonNullType(schema.StringType),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) { return ctx.Object.(directive).Name, nil },
		},
		"description": {
			Type: schema.StringType,
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				return nullableString(ctx.Object.(directive).Definition.Description)
			},
		},
		"locations": {
			Type: schema.NewNonNullType(schema.NewListType(schema.NewNonNullType(DirectiveLocationType))),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				locs := ctx.Object.(directive).Definition.Locations
				ret := make([]interface{}, len(locs))
				for i, l := range locs {
					ret[i] = l
				}
				return ret, nil
			},
		},
		"args": {
			Type: schema.NewNonNullType(schema.NewListType(schema.NewNonNullType(InputValueType))),
			Resolve: func(ctx schema.FieldContext) (interface{}, error) {
				return inputValuesOf(ctx.Object.(directive).Definition.Arguments), nil
			},
		},
	}
}
