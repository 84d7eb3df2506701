package schema

import (
	"fmt"
	"strings"
)

// DirectiveLocation names a place a directive may legally be used.
type DirectiveLocation string

const (
	DirectiveLocationQuery              DirectiveLocation = "QUERY"
	DirectiveLocationMutation           DirectiveLocation = "MUTATION"
	DirectiveLocationSubscription       DirectiveLocation = "SUBSCRIPTION"
	DirectiveLocationField              DirectiveLocation = "FIELD"
	DirectiveLocationFragmentDefinition DirectiveLocation = "FRAGMENT_DEFINITION"
	DirectiveLocationFragmentSpread     DirectiveLocation = "FRAGMENT_SPREAD"
	DirectiveLocationInlineFragment     DirectiveLocation = "INLINE_FRAGMENT"
)

// DirectiveDefinition defines a directive and, where relevant, its effect on
// field collection.
type DirectiveDefinition struct {
	Description string
	Arguments   map[string]*InputValueDefinition
	Locations   []DirectiveLocation

	// FieldCollectionFilter, if set, is invoked during field collection
	// (spec.md §4.3) for every selection carrying this directive. Returning
	// false excludes the selection. Only @skip and @include define this.
	FieldCollectionFilter func(arguments map[string]interface{}) bool
}

func (d *DirectiveDefinition) shallowValidate() error {
	for name := range d.Arguments {
		if !isName(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("illegal directive argument name: %v", name)
		}
	}
	return nil
}

// Directive is a directive instance attached to a schema element (as opposed
// to one appearing in a query document, which is an ast.Directive).
type Directive struct {
	Definition *DirectiveDefinition
	Arguments  []Argument
}

// Argument is a resolved name/value pair.
type Argument struct {
	Name  string
	Value interface{}
}

// SkipDirective implements @skip as defined by the GraphQL spec.
var SkipDirective = &DirectiveDefinition{
	Description: "Excludes a selection during execution when `if` is true.",
	Arguments: map[string]*InputValueDefinition{
		"if": {Type: NewNonNullType(BooleanType)},
	},
	Locations: []DirectiveLocation{DirectiveLocationField, DirectiveLocationFragmentSpread, DirectiveLocationInlineFragment},
	FieldCollectionFilter: func(arguments map[string]interface{}) bool {
		return !arguments["if"].(bool)
	},
}

// IncludeDirective implements @include as defined by the GraphQL spec.
var IncludeDirective = &DirectiveDefinition{
	Description: "Includes a selection during execution when `if` is true.",
	Arguments: map[string]*InputValueDefinition{
		"if": {Type: NewNonNullType(BooleanType)},
	},
	Locations: []DirectiveLocation{DirectiveLocationField, DirectiveLocationFragmentSpread, DirectiveLocationInlineFragment},
	FieldCollectionFilter: func(arguments map[string]interface{}) bool {
		return arguments["if"].(bool)
	},
}

// DeprecatedDirective implements @deprecated. It never affects execution
// (spec.md §4.8); it only informs introspection.
var DeprecatedDirective = &DirectiveDefinition{
	Description: "Marks a field or enum value as deprecated.",
	Arguments: map[string]*InputValueDefinition{
		"reason": {Type: StringType, DefaultValue: "No longer supported"},
	},
	Locations: []DirectiveLocation{"FIELD_DEFINITION", "ENUM_VALUE"},
}
