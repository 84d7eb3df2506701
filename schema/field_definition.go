package schema

import (
	"context"
	"fmt"
	"strings"
)

// FieldContext is passed to a field's Resolve (and, for subscription root
// fields, Subscribe) function.
type FieldContext struct {
	Context   context.Context
	Schema    *Schema
	Object    interface{}
	Arguments map[string]interface{}

	// IsSubscribe is true when this invocation is the root subscription
	// field's subscribe call (producing the source stream) rather than a
	// per-event resolve call.
	IsSubscribe bool
}

// FieldCostContext is passed to a field's Cost function.
type FieldCostContext struct {
	Context   context.Context
	Arguments map[string]interface{}
}

// FieldCost describes the cost of resolving a field for the purpose of
// pre-execution cost estimation (coerce.EstimateCost).
type FieldCost struct {
	// Resolver is the cost of invoking this field's resolver. Typically 1.
	Resolver int

	// Multiplier scales the cost of this field's sub-selections, e.g. the
	// expected page size of a connection field. Defaults to 1.
	Multiplier int
}

// FieldResolverCost returns a cost function with a constant resolver cost and
// no multiplier.
func FieldResolverCost(n int) func(FieldCostContext) FieldCost {
	return func(FieldCostContext) FieldCost {
		return FieldCost{Resolver: n}
	}
}

// FieldDefinition defines a single field on an object or interface type.
type FieldDefinition struct {
	Description       string
	Arguments         map[string]*InputValueDefinition
	Type              Type
	Directives        []*Directive
	DeprecationReason string

	// Cost, if set, is used by coerce.EstimateCost to calculate an
	// operation's total cost before execution.
	Cost func(FieldCostContext) FieldCost

	// Resolve produces the field's value. For subscription root fields, this
	// is invoked once per event, with Object set to the event.
	Resolve func(FieldContext) (interface{}, error)

	// Subscribe, only meaningful on subscription root fields, produces the
	// source event stream. FieldContext.IsSubscribe is true during this call.
	Subscribe func(FieldContext) (interface{}, error)
}

func (d *FieldDefinition) shallowValidate() error {
	if d.Type == nil {
		return fmt.Errorf("field is missing a type")
	}
	if !d.Type.IsOutputType() {
		return fmt.Errorf("%v cannot be used as a field type", d.Type)
	}
	for name := range d.Arguments {
		if !isName(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("illegal field argument name: %v", name)
		}
	}
	return nil
}
