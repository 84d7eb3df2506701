// Package executor implements the GraphQL execution algorithm: field
// collection, parallel (query/subscription) or serial (mutation) field
// resolution, value completion with non-null propagation, abstract-type
// resolution, and the two-phase subscription pipeline. It consumes an
// already-parsed, already-validated ast.Document and a read-only
// schema.Schema; it does not parse or statically validate anything itself.
package executor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/relaygo/gqlengine/ast"
	"github.com/relaygo/gqlengine/coerce"
	"github.com/relaygo/gqlengine/executor/internal/future"
	"github.com/relaygo/gqlengine/schema"
	"github.com/relaygo/gqlengine/schema/introspection"
)

// ResolveResult is the result a resolver reports back through a
// ResolvePromise.
type ResolveResult struct {
	Value interface{}
	Error error
}

// ResolvePromise lets a resolver return its value asynchronously: return a
// ResolvePromise from Resolve instead of a value, and send exactly one
// ResolveResult to it once ready. Any request using this must set
// Request.IdleHandler, which the executor calls whenever it has no
// synchronous work left to do and is waiting on at least one promise.
type ResolvePromise chan ResolveResult

// Request bundles the inputs to a single execution (spec.md §4.4).
type Request struct {
	Document       *ast.Document
	Schema         *schema.Schema
	OperationName  string
	VariableValues map[string]interface{}
	InitialValue   interface{}

	// IdleHandler is invoked whenever execution can't proceed without a
	// pending ResolvePromise being resolved. Required if any resolver
	// returns a ResolvePromise.
	IdleHandler func()

	// Logger, if set, receives a structured Error-level entry for every
	// SystemFault-category error this execution produces. The subscription
	// pipeline does not log. A nil Logger is always valid.
	Logger logrus.FieldLogger
}

// Execute runs a query or mutation request to completion, per spec.md §4.4.
func Execute(ctx context.Context, r *Request) (*OrderedMap, []*Error) {
	e, err := newExecutor(ctx, r)
	if err != nil {
		logSystemFault(r.Logger, r.OperationName, err)
		return nil, []*Error{err}
	}
	var data *OrderedMap
	var errs []*Error
	switch e.operation.Kind {
	case ast.OperationKindMutation:
		data, errs = e.executeMutation(r.InitialValue)
	case ast.OperationKindSubscription:
		data, errs = e.executeSubscriptionEvent(r.InitialValue)
	default:
		data, errs = e.executeQuery(r.InitialValue)
	}
	for _, err := range errs {
		logSystemFault(r.Logger, r.OperationName, err)
	}
	return data, errs
}

// logSystemFault logs category-4 errors (spec.md §7) at Error level, with the
// operation name and path depth as fields, when a logger is configured.
func logSystemFault(logger logrus.FieldLogger, operationName string, err *Error) {
	if logger == nil || err == nil || !err.systemFault {
		return
	}
	logger.WithFields(logrus.Fields{
		"operationName": operationName,
		"pathDepth":     len(err.Path),
	}).Error(err.Message)
}

// GetOperation picks the operation a request names, or the document's sole
// operation if operationName is empty, per spec.md §4.4.
func GetOperation(doc *ast.Document, operationName string) (*ast.OperationDefinition, *Error) {
	var found *ast.OperationDefinition
	count := 0
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		count++
		if operationName == "" {
			found = op
		} else if op.Name != nil && op.Name.Name == operationName {
			found = op
		}
	}
	if operationName != "" {
		if found == nil {
			return nil, newSystemFaultError(doc, "Unknown operation: %v", operationName)
		}
		return found, nil
	}
	if count != 1 {
		return nil, newSystemFaultError(doc, "An operation name is required when a document contains more than one operation.")
	}
	return found, nil
}

// IsSubscription reports whether the named (or sole) operation in doc is a
// subscription.
func IsSubscription(doc *ast.Document, operationName string) bool {
	op, err := GetOperation(doc, operationName)
	return err == nil && op.Kind == ast.OperationKindSubscription
}

type executor struct {
	context             context.Context
	schema              *schema.Schema
	fragmentDefinitions map[string]*ast.FragmentDefinition
	variableValues      map[string]interface{}
	errors              []*Error
	operation           *ast.OperationDefinition
	idleHandler         func()

	groupedFieldSetCache map[string]*GroupedFieldSet

	// catchError is used to handle errors for nullable fields: it records
	// the error on the executor and turns the field's result into a plain
	// nil, rather than failing the whole response (spec.md §4.4).
	catchError func(future.Result[any]) future.Result[any]
}

func newExecutor(ctx context.Context, r *Request) (*executor, *Error) {
	if r.Document == nil {
		return nil, newSystemFaultError(nil, "A document is required.")
	}
	operation, err := GetOperation(r.Document, r.OperationName)
	if err != nil {
		return nil, err
	}

	variableValues := r.VariableValues
	if variableValues == nil {
		variableValues = map[string]interface{}{}
	}
	coercedVariableValues, cerr := coerce.VariableValues(r.Schema, operation, variableValues)
	if cerr != nil {
		return nil, newErrorWithCoerceError(cerr)
	}

	e := &executor{
		context:              ctx,
		schema:               r.Schema,
		fragmentDefinitions:  map[string]*ast.FragmentDefinition{},
		variableValues:       coercedVariableValues,
		operation:            operation,
		idleHandler:          r.IdleHandler,
		groupedFieldSetCache: map[string]*GroupedFieldSet{},
	}
	e.catchError = func(r future.Result[any]) future.Result[any] {
		if r.IsErr() {
			e.errors = append(e.errors, r.Error.(*Error))
			r.Error = nil
		}
		return r
	}
	for _, def := range r.Document.Definitions {
		if def, ok := def.(*ast.FragmentDefinition); ok {
			e.fragmentDefinitions[def.Name.Name] = def
		}
	}
	return e, nil
}

func (e *executor) executeQuery(initialValue interface{}) (*OrderedMap, []*Error) {
	queryType := e.schema.QueryType()
	data, err := wait(e, e.executeSelections(e.operation.SelectionSet.Selections, queryType, initialValue, nil, false))
	if err != nil {
		e.errors = append(e.errors, err.(*Error))
		return nil, e.errors
	}
	return data, e.errors
}

func (e *executor) executeMutation(initialValue interface{}) (*OrderedMap, []*Error) {
	mutationType := e.schema.MutationType()
	if mutationType == nil {
		return nil, []*Error{newSystemFaultError(e.operation, "This schema cannot perform mutations.")}
	}
	// Mutation root fields execute strictly in source order, one at a time,
	// per spec.md §5: forceSerial is true.
	data, err := wait(e, e.executeSelections(e.operation.SelectionSet.Selections, mutationType, initialValue, nil, true))
	if err != nil {
		e.errors = append(e.errors, err.(*Error))
		return nil, e.errors
	}
	return data, e.errors
}

func (e *executor) executeSubscriptionEvent(initialValue interface{}) (*OrderedMap, []*Error) {
	subscriptionType := e.schema.SubscriptionType()
	if subscriptionType == nil {
		return nil, []*Error{newSystemFaultError(e.operation, "This schema cannot perform subscriptions.")}
	}
	data, err := wait(e, e.executeSelections(e.operation.SelectionSet.Selections, subscriptionType, initialValue, nil, false))
	if err != nil {
		e.errors = append(e.errors, err.(*Error))
		return nil, e.errors
	}
	return data, e.errors
}

// wait drives f's cooperative scheduler, calling the request's IdleHandler
// whenever there's nothing left to poll synchronously, until f resolves.
func wait[T any](e *executor, f future.Future[T]) (T, error) {
	var result future.Result[T]
	done := false
	f = future.Map(f, func(r future.Result[T]) future.Result[T] {
		result, done = r, true
		return r
	})
	f.Poll()
	for !done {
		if e.idleHandler == nil {
			var zero T
			return zero, newError(nil, "Execution stalled on an asynchronous resolver with no idle handler defined.")
		}
		e.idleHandler()
		f.Poll()
	}
	return result.Value, result.Error
}

func isNilError(err error) bool {
	if err == nil {
		return true
	}
	rv := reflect.ValueOf(err)
	return (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil()
}

// executeSelections implements ExecuteSelectionSet from spec.md §4.4: collect
// fields, then resolve each one, either concurrently (the cooperative
// scheduler interleaves their futures) or strictly one at a time when
// forceSerial is set (mutation root fields).
func (e *executor) executeSelections(selections []ast.Selection, objectType *schema.ObjectType, objectValue interface{}, p *path, forceSerial bool) future.Future[*OrderedMap] {
	groupedFieldSet := e.collectFields(objectType, selections)
	resultMap := NewOrderedMap()
	pending := make([]future.Future[any], 0, groupedFieldSet.Len())

	for _, item := range groupedFieldSet.Items() {
		responseKey := item.Key
		fields := item.Fields
		fieldName := fields[0].Name.Name

		if fieldName == "__typename" {
			resultMap.Set(responseKey, objectType.Name)
			continue
		}

		fieldDef := objectType.Fields[fieldName]
		if fieldDef == nil && objectType == e.schema.QueryType() {
			fieldDef = introspection.MetaFields[fieldName]
		}
		if fieldDef == nil {
			continue
		}

		fieldPath := p.WithStringComponent(responseKey, objectType.Name)
		f := e.catchErrorIfNullable(fieldDef.Type, e.executeField(objectValue, fields, fieldDef, fieldPath))

		if forceSerial {
			value, err := wait(e, f)
			if err != nil {
				return future.Err[*OrderedMap](err)
			}
			resultMap.Set(responseKey, value)
			continue
		}

		pending = append(pending, future.MapOk(f, func(value any) any {
			resultMap.Set(responseKey, value)
			return nil
		}))
	}

	return future.MapOk(future.After(pending...), func(struct{}) *OrderedMap {
		return resultMap
	})
}

func newFieldResolveError(fields []*ast.Field, err error, p *path) *Error {
	locations := make([]Location, len(fields))
	for i, field := range fields {
		pos := field.Position()
		locations[i] = Location{Line: pos.Line, Column: pos.Column}
	}
	if already, ok := err.(*Error); ok {
		return already
	}
	wrapped := errors.Wrap(err, "field resolver error")
	ret := &Error{Message: err.Error(), Locations: locations, Path: p.Slice(), originalError: wrapped}
	if ext, ok := err.(ExtendedError); ok {
		ret.Extensions = ext.Extensions()
	}
	return ret
}

// executeField resolves a single field (spec.md §4.4): coerce its arguments,
// call its resolver (following a ResolvePromise if one is returned), then
// complete the resolved value against the field's declared type.
func (e *executor) executeField(objectValue interface{}, fields []*ast.Field, fieldDef *schema.FieldDefinition, p *path) future.Future[any] {
	field := fields[0]
	arguments, cerr := coerce.ArgumentValues(field, fieldDef.Arguments, field.Arguments, e.variableValues)
	if cerr != nil {
		return future.Err[any](newErrorWithCoerceError(cerr))
	}
	if err := e.context.Err(); err != nil {
		return future.Err[any](newFieldResolveError(fields, err, p))
	}

	value, err := fieldDef.Resolve(schema.FieldContext{
		Context:   e.context,
		Schema:    e.schema,
		Object:    objectValue,
		Arguments: arguments,
	})
	if !isNilError(err) {
		return future.Err[any](newFieldResolveError(fields, err, p))
	}

	if promise, ok := value.(ResolvePromise); ok {
		pending := future.New(func() (future.Result[any], bool) {
			select {
			case r := <-promise:
				if !isNilError(r.Error) {
					return future.Result[any]{Error: r.Error}, true
				}
				return future.Result[any]{Value: r.Value}, true
			default:
				return future.Result[any]{}, false
			}
		})
		return future.Then(pending, func(r future.Result[any]) future.Future[any] {
			if r.IsErr() {
				return future.Err[any](newFieldResolveError(fields, r.Error, p))
			}
			return e.completeValue(fieldDef.Type, fields, r.Value, p)
		})
	}

	return e.completeValue(fieldDef.Type, fields, value, p)
}

// catchErrorIfNullable turns an error future into an always-ok future when
// the field's type is nullable, recording the error and yielding nil instead
// (spec.md §4.4's non-null propagation rule only kicks in for NonNullType).
func (e *executor) catchErrorIfNullable(t schema.Type, f future.Future[any]) future.Future[any] {
	if schema.IsNonNullType(t) {
		return f
	}
	return future.Map(f, e.catchError)
}

// completeValue implements CompleteValue from spec.md §4.4: recursively
// dispatches on the field's type (non-null, list, leaf, or
// object/interface/union) and resolves abstract types via resolveAbstractType.
func (e *executor) completeValue(fieldType schema.Type, fields []*ast.Field, result interface{}, p *path) future.Future[any] {
	if nonNull, ok := fieldType.(*schema.NonNullType); ok {
		return future.Map(e.completeValue(nonNull.Type, fields, result, p), func(r future.Result[any]) future.Result[any] {
			if r.IsOk() && r.Value == nil {
				r.Error = newErrorWithPath(fields[0], p, "Cannot return null for non-nullable field %s.%s.", p.Typename, fields[0].Name.Name)
			}
			return r
		})
	}

	if isNilValue(result) {
		return future.Ok[any](nil)
	}

	switch fieldType := fieldType.(type) {
	case *schema.ListType:
		rv := reflect.ValueOf(result)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return future.Err[any](newErrorWithPath(fields[0], p, "Result is not a list."))
		}
		innerType := fieldType.Type
		items := make([]future.Future[any], rv.Len())
		for i := range items {
			itemPath := p.WithIntComponent(i, p.Typename)
			items[i] = e.catchErrorIfNullable(innerType, e.completeValue(innerType, fields, rv.Index(i).Interface(), itemPath))
		}
		return future.MapOk(future.Join(items...), func(values []interface{}) interface{} { return values })

	case *schema.ScalarType:
		coerced, err := fieldType.CoerceResult(result)
		if err != nil {
			return future.Err[any](newErrorWithPath(fields[0], p, "Unexpected result: %v", err))
		}
		return future.Ok[any](coerced)

	case *schema.EnumType:
		coerced, err := fieldType.CoerceResult(result)
		if err != nil {
			return future.Err[any](newErrorWithPath(fields[0], p, "Unexpected result: %v", err))
		}
		return future.Ok[any](coerced)

	case *schema.ObjectType, *schema.InterfaceType, *schema.UnionType:
		objectType, err := e.resolveObjectType(fieldType, result, fields, p)
		if err != nil {
			return future.Err[any](err)
		}
		selections := mergeSelectionSets(fields)
		return future.MapOk(e.executeSelections(selections, objectType, result, p, false), func(m *OrderedMap) interface{} {
			return m
		})
	}
	panic(fmt.Sprintf("unexpected field type: %T", fieldType))
}

func (e *executor) resolveObjectType(fieldType schema.Type, result interface{}, fields []*ast.Field, p *path) (*schema.ObjectType, *Error) {
	objectType, ok := fieldType.(*schema.ObjectType)
	if ok {
		return objectType, nil
	}

	resolved := e.resolveAbstractType(fieldType, result, schema.FieldContext{Context: e.context, Schema: e.schema, Object: result})
	if resolved == nil {
		return nil, newErrorWithPath(fields[0], p, "Unable to determine the object type for this value.")
	}
	if !isPossibleType(e.schema, abstractTypeName(fieldType), resolved) {
		return nil, newErrorWithPath(fields[0], p, "%v is not a possible type of %v.", resolved.Name, abstractTypeName(fieldType))
	}
	return resolved, nil
}

func isNilValue(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
