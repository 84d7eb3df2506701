// Package ast defines the GraphQL document AST consumed by the executor.
//
// This package intentionally has no parser: a document is produced by an
// external lexer/parser/validator pipeline and handed to the executor as an
// already-valid, immutable tree. Tests in this module build trees directly
// with these constructors.
package ast

import "github.com/relaygo/gqlengine/token"

// Node is implemented by every AST element.
type Node interface {
	Position() token.Position
}

// Document is the root of a parsed (and, by the time the executor sees it,
// validated) GraphQL request.
type Document struct {
	Definitions []Definition
}

func (*Document) Position() token.Position { return token.Position{Line: 1, Column: 1} }

// Definition is an OperationDefinition or a FragmentDefinition.
type Definition interface {
	Node
}

// OperationKind enumerates the three operation types.
type OperationKind string

const (
	OperationKindQuery        OperationKind = "query"
	OperationKindMutation     OperationKind = "mutation"
	OperationKindSubscription OperationKind = "subscription"
)

// OperationDefinition is a query, mutation, or subscription.
type OperationDefinition struct {
	// Kind defaults to OperationKindQuery when Name and an explicit keyword
	// are both absent, per the GraphQL spec's query shorthand.
	Kind                OperationKind
	KindPosition        token.Position
	Name                *Name
	VariableDefinitions []*VariableDefinition
	Directives          []*Directive
	SelectionSet        *SelectionSet
}

func (n *OperationDefinition) Position() token.Position {
	if n.KindPosition != (token.Position{}) {
		return n.KindPosition
	}
	return n.SelectionSet.Position()
}

// FragmentDefinition defines a named fragment.
type FragmentDefinition struct {
	At            token.Position
	Name          *Name
	TypeCondition *NamedType
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

func (n *FragmentDefinition) Position() token.Position { return n.At }

// VariableDefinition declares an operation variable and its type/default.
type VariableDefinition struct {
	Variable     *Variable
	Type         Type
	DefaultValue Value
	Directives   []*Directive
}

func (n *VariableDefinition) Position() token.Position { return n.Variable.Position() }

// Type is a NamedType, ListType, or NonNullType appearing in the AST (as
// opposed to schema.Type, which is the resolved type-system object).
type Type interface {
	Node
	isType()
}

// NamedType references a type by name.
type NamedType struct {
	Name *Name
}

func (n *NamedType) Position() token.Position { return n.Name.Position() }
func (*NamedType) isType()                    {}

// ListType wraps an element type in a list.
type ListType struct {
	Type    Type
	Opening token.Position
}

func (n *ListType) Position() token.Position { return n.Opening }
func (*ListType) isType()                    {}

// NonNullType wraps a type to forbid null.
type NonNullType struct {
	Type Type
	Bang token.Position
}

func (n *NonNullType) Position() token.Position { return n.Bang }
func (*NonNullType) isType()                    {}

// Directive is a single `@name(args)` annotation.
type Directive struct {
	Name      *Name
	Arguments []*Argument
	At        token.Position
}

func (n *Directive) Position() token.Position { return n.At }

// SelectionSet is a `{ ... }` block of selections.
type SelectionSet struct {
	Selections []Selection
	Opening    token.Position
}

func (n *SelectionSet) Position() token.Position { return n.Opening }

// Selection is a Field, FragmentSpread, or InlineFragment.
type Selection interface {
	Node
	SelectionDirectives() []*Directive
}

// Field is a single field selection, with an optional alias and sub-selection.
type Field struct {
	Alias        *Name
	Name         *Name
	Arguments    []*Argument
	Directives   []*Directive
	SelectionSet *SelectionSet
}

func (n *Field) Position() token.Position {
	if n.Alias != nil {
		return n.Alias.Position()
	}
	return n.Name.Position()
}

func (n *Field) SelectionDirectives() []*Directive { return n.Directives }

// ResponseKey is the field's alias if present, else its name.
func (n *Field) ResponseKey() string {
	if n.Alias != nil {
		return n.Alias.Name
	}
	return n.Name.Name
}

// FragmentSpread is a `...Name` selection.
type FragmentSpread struct {
	FragmentName *Name
	Directives   []*Directive
	Ellipsis     token.Position
}

func (n *FragmentSpread) Position() token.Position          { return n.Ellipsis }
func (n *FragmentSpread) SelectionDirectives() []*Directive { return n.Directives }

// InlineFragment is a `... on Type { }` or bare `... { }` selection.
type InlineFragment struct {
	TypeCondition *NamedType
	Directives    []*Directive
	SelectionSet  *SelectionSet
	Ellipsis      token.Position
}

func (n *InlineFragment) Position() token.Position          { return n.Ellipsis }
func (n *InlineFragment) SelectionDirectives() []*Directive { return n.Directives }

// Argument is a single `name: value` pair, used both for field/directive
// arguments and for object-value fields.
type Argument struct {
	Name  *Name
	Value Value
}

func (n *Argument) Position() token.Position { return n.Name.Position() }

// Name is an identifier token.
type Name struct {
	Name         string
	NamePosition token.Position
}

func (n *Name) Position() token.Position { return n.NamePosition }

// Value is a Variable, IntValue, FloatValue, StringValue, BooleanValue,
// NullValue, EnumValue, ListValue, or ObjectValue.
type Value interface {
	Node
	isValue()
}

// Variable is a `$name` reference.
type Variable struct {
	Name   *Name
	Dollar token.Position
}

func (*Variable) isValue()                  {}
func (n *Variable) Position() token.Position { return n.Dollar }

// IntValue is an integer literal, held as its raw text.
type IntValue struct {
	Value   string
	Literal token.Position
}

func (*IntValue) isValue()                  {}
func (n *IntValue) Position() token.Position { return n.Literal }

// FloatValue is a floating point literal, held as its raw text.
type FloatValue struct {
	Value   string
	Literal token.Position
}

func (*FloatValue) isValue()                  {}
func (n *FloatValue) Position() token.Position { return n.Literal }

// StringValue is a string literal with escapes already resolved.
type StringValue struct {
	Value   string
	Literal token.Position
}

func (*StringValue) isValue()                  {}
func (n *StringValue) Position() token.Position { return n.Literal }

// BooleanValue is `true` or `false`.
type BooleanValue struct {
	Value   bool
	Literal token.Position
}

func (*BooleanValue) isValue()                  {}
func (n *BooleanValue) Position() token.Position { return n.Literal }

// NullValue is the literal `null`.
type NullValue struct {
	Literal token.Position
}

func (*NullValue) isValue()                  {}
func (n *NullValue) Position() token.Position { return n.Literal }

// IsNullValue reports whether a value node is the `null` literal.
func IsNullValue(v Value) bool {
	_, ok := v.(*NullValue)
	return ok
}

// EnumValue is a bare name used where an enum value is expected.
type EnumValue struct {
	Value   string
	Literal token.Position
}

func (*EnumValue) isValue()                  {}
func (n *EnumValue) Position() token.Position { return n.Literal }

// ListValue is a `[ ... ]` literal.
type ListValue struct {
	Values  []Value
	Opening token.Position
}

func (*ListValue) isValue()                  {}
func (n *ListValue) Position() token.Position { return n.Opening }

// ObjectValue is a `{ ... }` literal.
type ObjectValue struct {
	Fields  []*ObjectField
	Opening token.Position
}

func (*ObjectValue) isValue()                  {}
func (n *ObjectValue) Position() token.Position { return n.Opening }

// ObjectField is a single `name: value` pair within an ObjectValue.
type ObjectField struct {
	Name  *Name
	Value Value
}

func (n *ObjectField) Position() token.Position { return n.Name.Position() }
