package executor

import (
	"context"

	"github.com/relaygo/gqlengine/ast"
	"github.com/relaygo/gqlengine/coerce"
	"github.com/relaygo/gqlengine/executor/internal/stream"
	"github.com/relaygo/gqlengine/schema"
)

// rootSubscriptionField locates the subscription operation's single root
// field selection and its definition, per spec.md §4.6 ("Subscriptions must
// contain exactly one root field selection.").
func (e *executor) rootSubscriptionField() (*GroupedFieldSetItem, *schema.FieldDefinition, *Error) {
	subscriptionType := e.schema.SubscriptionType()
	if subscriptionType == nil {
		return nil, nil, newSystemFaultError(e.operation, "This schema cannot perform subscriptions.")
	}

	groupedFieldSet := e.collectFields(subscriptionType, e.operation.SelectionSet.Selections)
	if groupedFieldSet.Len() != 1 {
		return nil, nil, newError(e.operation.SelectionSet, "Subscriptions must contain exactly one root field selection.")
	}

	item := groupedFieldSet.Items()[0]
	fieldDef := subscriptionType.Fields[item.Fields[0].Name.Name]
	if fieldDef == nil {
		return nil, nil, newError(item.Fields[0], "Undefined root subscription field.")
	}
	return &item, fieldDef, nil
}

// CreateSourceEventStream resolves the subscription's root field's Subscribe
// function to obtain the source event stream, per spec.md §4.6. The stream's
// values are raw event payloads, not yet executed against the selection set.
func CreateSourceEventStream(ctx context.Context, r *Request) (stream.Iterator[interface{}], []*Error) {
	e, err := newExecutor(ctx, r)
	if err != nil {
		return nil, []*Error{err}
	}
	if e.operation.Kind != ast.OperationKindSubscription {
		return nil, []*Error{newError(e.operation, "A subscription operation is required.")}
	}

	item, fieldDef, err := e.rootSubscriptionField()
	if err != nil {
		return nil, []*Error{err}
	}
	if fieldDef.Subscribe == nil {
		return nil, []*Error{newError(item.Fields[0], "This field does not support subscriptions.")}
	}

	field := item.Fields[0]
	arguments, cerr := coerce.ArgumentValues(field, fieldDef.Arguments, field.Arguments, e.variableValues)
	if cerr != nil {
		return nil, []*Error{newErrorWithCoerceError(cerr)}
	}

	value, resolveErr := fieldDef.Subscribe(schema.FieldContext{
		Context:     ctx,
		Schema:      e.schema,
		Object:      r.InitialValue,
		Arguments:   arguments,
		IsSubscribe: true,
	})
	if !isNilError(resolveErr) {
		return nil, []*Error{locatedErrorForField(field, item.Key, resolveErr)}
	}

	it, ok := value.(stream.Iterator[interface{}])
	if !ok {
		p := (*path)(nil).WithStringComponent(item.Key, "")
		return nil, []*Error{newErrorWithPath(field, p, "Subscription field must return an async event stream.")}
	}
	return it, nil
}

func locatedErrorForField(field *ast.Field, key string, cause error) *Error {
	ret := locatedError(field, nil, cause)
	if ret.Path == nil {
		ret.Path = []interface{}{key}
	}
	return ret
}

// Subscribe implements spec.md §4.6's `subscribe` operation: it creates the
// source event stream, then returns an iterator that maps each source event
// through a fresh execution (same schema/document/variables/context) with
// the event as the root value. A per-event execution error does not
// terminate the outer stream; it's yielded as an errored response instead.
func Subscribe(ctx context.Context, r *Request) (stream.Iterator[*Response], []*Error) {
	source, errs := CreateSourceEventStream(ctx, r)
	if errs != nil {
		return nil, errs
	}

	mapped := stream.Map(source, func(event interface{}) (*Response, error) {
		data, errs := Execute(ctx, &Request{
			Document:       r.Document,
			Schema:         r.Schema,
			OperationName:  r.OperationName,
			VariableValues: r.VariableValues,
			InitialValue:   event,
			IdleHandler:    r.IdleHandler,
		})
		return &Response{Data: data, Errors: errs}, nil
	})
	return mapped, nil
}

// Response is a single result of the subscription pipeline: one
// {data, errors} payload per source event.
type Response struct {
	Data   *OrderedMap
	Errors []*Error
}
