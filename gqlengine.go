// Package gqlengine is a GraphQL execution engine: given an already-parsed,
// already-validated query document and a schema, it resolves fields,
// coerces values, and produces a spec-shaped response. It deliberately does
// not include a lexer, parser, static validator, or schema-construction
// language (SDL) — those are external collaborators that hand this package
// an ast.Document and a schema.Schema.
package gqlengine

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/relaygo/gqlengine/ast"
	"github.com/relaygo/gqlengine/coerce"
	"github.com/relaygo/gqlengine/executor"
	"github.com/relaygo/gqlengine/executor/internal/stream"
	"github.com/relaygo/gqlengine/schema"
)

// Type aliases re-export the schema package's type system so that callers
// building a schema only need to import this package.
type (
	Type                 = schema.Type
	NamedType            = schema.NamedType
	ObjectType           = schema.ObjectType
	InterfaceType        = schema.InterfaceType
	UnionType            = schema.UnionType
	EnumType             = schema.EnumType
	EnumValueDefinition  = schema.EnumValueDefinition
	ScalarType           = schema.ScalarType
	InputObjectType      = schema.InputObjectType
	InputValueDefinition = schema.InputValueDefinition
	NonNullType          = schema.NonNullType
	ListType             = schema.ListType
	FieldDefinition      = schema.FieldDefinition
	FieldContext         = schema.FieldContext
	FieldCostContext     = schema.FieldCostContext
	FieldCost            = schema.FieldCost
	Directive            = schema.Directive
	DirectiveDefinition  = schema.DirectiveDefinition
	Schema               = schema.Schema
	SchemaDefinition      = schema.Definition
)

// NewSchema validates a schema definition and builds an immutable Schema
// from it.
func NewSchema(def *SchemaDefinition) (*Schema, error) { return schema.New(def) }

// NewNonNullType wraps t so that a resolved null is a non-null violation.
func NewNonNullType(t Type) *NonNullType { return schema.NewNonNullType(t) }

// NewListType wraps t as the element type of a list.
func NewListType(t Type) *ListType { return schema.NewListType(t) }

// FieldResolverCost returns a field cost function with a constant resolver
// cost and no sub-selection multiplier.
func FieldResolverCost(n int) func(FieldCostContext) FieldCost { return schema.FieldResolverCost(n) }

// Built-in scalars, re-exported for convenience when building a schema.
var (
	IDType      = schema.IDType
	StringType  = schema.StringType
	IntType     = schema.IntType
	FloatType   = schema.FloatType
	BooleanType = schema.BooleanType
)

// SkipDirective and IncludeDirective implement @skip/@include as defined by
// the GraphQL spec; include them in a schema's DirectiveDefinitions to
// support them.
var (
	SkipDirective      = schema.SkipDirective
	IncludeDirective   = schema.IncludeDirective
	DeprecatedDirective = schema.DeprecatedDirective
)

// ResolveResult is the result a resolver reports back through a
// ResolvePromise.
type ResolveResult = executor.ResolveResult

// ResolvePromise lets a resolver produce its value asynchronously. See
// executor.ResolvePromise for the contract.
type ResolvePromise = executor.ResolvePromise

// Location is the position of a single source character, used in an Error's
// Locations.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is a GraphQL response error, spec-shaped per spec.md §7: only
// Message, Locations, Path, and a non-empty Extensions are ever serialized.
type Error struct {
	Message    string                 `json:"message"`
	Locations  []Location             `json:"locations,omitempty"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

func (err *Error) Error() string { return err.Message }

// ExtendedError lets a resolver's error populate the response error's
// extensions. Implement it on any error type a resolver returns.
type ExtendedError = executor.ExtendedError

func newError(err *executor.Error) *Error {
	locations := make([]Location, len(err.Locations))
	for i, loc := range err.Locations {
		locations[i] = Location{Line: loc.Line, Column: loc.Column}
	}
	return &Error{
		Message:    err.Message,
		Locations:  locations,
		Path:       err.Path,
		Extensions: err.Extensions,
	}
}

func convertCoerceLocations(locs []coerce.Location) []Location {
	ret := make([]Location, len(locs))
	for i, loc := range locs {
		ret[i] = Location{Line: loc.Line, Column: loc.Column}
	}
	return ret
}

func newErrors(errs []*executor.Error) []*Error {
	if len(errs) == 0 {
		return nil
	}
	ret := make([]*Error, len(errs))
	for i, err := range errs {
		ret[i] = newError(err)
	}
	return ret
}

// Request bundles the inputs to an execution, per spec.md §6.
type Request struct {
	Context context.Context

	// Document is the already-parsed, already-validated query document. An
	// upstream parser/validator is expected to have produced it.
	Document *ast.Document

	Schema         *Schema
	OperationName  string
	VariableValues map[string]interface{}
	InitialValue   interface{}

	// IdleHandler is required if any resolver in this request may return a
	// ResolvePromise.
	IdleHandler func()

	// Logger receives structured entries for internal engine faults. A nil
	// Logger is always valid.
	Logger logrus.FieldLogger
}

func (r *Request) executorRequest() *executor.Request {
	return &executor.Request{
		Document:       r.Document,
		Schema:         r.Schema,
		OperationName:  r.OperationName,
		VariableValues: r.VariableValues,
		InitialValue:   r.InitialValue,
		IdleHandler:    r.IdleHandler,
		Logger:         r.Logger,
	}
}

// Response is the result of executing a query or mutation, spec-shaped per
// spec.md §6. Errors is non-nil only when non-empty. Data is nil both when
// execution stops before it starts (e.g. a variable coercion error) and when
// a non-null violation propagates to the root; a nil Data is omitted from
// the JSON encoding, so neither case produces a "data": null member.
type Response struct {
	Data   *executor.OrderedMap `json:"data,omitempty"`
	Errors []*Error             `json:"errors,omitempty"`
}

// IsSubscription reports whether the named (or sole) operation in doc is a
// subscription.
func IsSubscription(doc *ast.Document, operationName string) bool {
	return executor.IsSubscription(doc, operationName)
}

// Execute runs a query or mutation request to completion.
func Execute(r *Request) *Response {
	ctx := r.Context
	if ctx == nil {
		ctx = context.Background()
	}
	data, errs := executor.Execute(ctx, r.executorRequest())
	return &Response{Data: data, Errors: newErrors(errs)}
}

// Subscribe resolves a subscription request's source event stream and
// returns an iterator of per-event responses. A per-event execution error
// does not terminate the stream; it is yielded as an errored Response.
func Subscribe(r *Request) (stream.Iterator[*Response], []*Error) {
	ctx := r.Context
	if ctx == nil {
		ctx = context.Background()
	}
	it, errs := executor.Subscribe(ctx, r.executorRequest())
	if errs != nil {
		return nil, newErrors(errs)
	}
	return stream.Map(it, func(r *executor.Response) (*Response, error) {
		return &Response{Data: r.Data, Errors: newErrors(r.Errors)}, nil
	}), nil
}

// CreateSourceEventStream resolves a subscription request's root field to
// its source event stream without mapping events through execution. Most
// callers should use Subscribe instead; this is exposed for transports that
// want to multiplex many subscriptions over the same source.
func CreateSourceEventStream(r *Request) (stream.Iterator[interface{}], []*Error) {
	ctx := r.Context
	if ctx == nil {
		ctx = context.Background()
	}
	it, errs := executor.CreateSourceEventStream(ctx, r.executorRequest())
	if errs != nil {
		return nil, newErrors(errs)
	}
	return it, nil
}

// EstimateCost sums the declared Cost of every field an operation would
// resolve, without executing it. Pass a positive maxCost to reject
// operations whose estimated cost exceeds it before execution begins
// (spec.md §7's Coercion category); pass 0 to only compute the total.
func EstimateCost(r *Request, maxCost int) (int, []*Error) {
	operation, err := executor.GetOperation(r.Document, r.OperationName)
	if err != nil {
		return 0, newErrors([]*executor.Error{err})
	}
	fragments := map[string]*ast.FragmentDefinition{}
	for _, def := range r.Document.Definitions {
		if def, ok := def.(*ast.FragmentDefinition); ok {
			fragments[def.Name.Name] = def
		}
	}
	cost, cerr := coerce.EstimateCost(r.Schema, operation, r.VariableValues, fragments, maxCost)
	if cerr != nil {
		return cost, []*Error{{Message: cerr.Message, Locations: convertCoerceLocations(cerr.Locations)}}
	}
	return cost, nil
}
