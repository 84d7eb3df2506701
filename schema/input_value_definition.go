package schema

import "fmt"

// InputValueDefinition defines an input value, such as a field argument or an
// input object field.
type InputValueDefinition struct {
	Description string
	Type        Type

	// DefaultValue is the value used when the input is omitted. Set it to
	// Null for an explicit null default; leave it nil for no default.
	DefaultValue interface{}

	Directives []*Directive
}

type explicitNull struct{}

// Null specifies an explicit null default value for an InputValueDefinition
// or InputObjectType field, distinguishing "no default" (nil) from "defaults
// to null."
var Null = (*explicitNull)(nil)

func (d *InputValueDefinition) shallowValidate() error {
	if d.Type == nil {
		return fmt.Errorf("input value is missing a type")
	}
	if !d.Type.IsInputType() {
		return fmt.Errorf("%v cannot be used as an input value type", d.Type)
	}
	if d.DefaultValue != nil && d.DefaultValue != Null {
		if obj, ok := d.Type.(*InputObjectType); ok && obj.ResultCoercion == nil {
			return fmt.Errorf("assigning a default value to a %v requires it to define ResultCoercion", d.Type)
		}
	}
	return nil
}
