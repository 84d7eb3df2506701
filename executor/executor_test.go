package executor_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaygo/gqlengine/ast"
	"github.com/relaygo/gqlengine/executor"
	"github.com/relaygo/gqlengine/executor/internal/stream"
	"github.com/relaygo/gqlengine/schema"
	"github.com/relaygo/gqlengine/token"
)

func name(n string) *ast.Name { return &ast.Name{Name: n} }

func field(responseName string, sel *ast.SelectionSet) *ast.Field {
	return &ast.Field{Name: name(responseName), SelectionSet: sel}
}

func selectionSet(selections ...ast.Selection) *ast.SelectionSet {
	return &ast.SelectionSet{Selections: selections}
}

func queryDocument(selections ...ast.Selection) *ast.Document {
	return &ast.Document{
		Definitions: []ast.Definition{
			&ast.OperationDefinition{Kind: ast.OperationKindQuery, SelectionSet: selectionSet(selections...)},
		},
	}
}

func mutationDocument(selections ...ast.Selection) *ast.Document {
	return &ast.Document{
		Definitions: []ast.Definition{
			&ast.OperationDefinition{Kind: ast.OperationKindMutation, SelectionSet: selectionSet(selections...)},
		},
	}
}

// idleHandlerFor returns a handler that sleeps for a millisecond per call;
// the executor keeps calling it until a pending ResolvePromise resolves.
// Tests don't need true blocking semantics, just forward progress without
// busy-looping too hard.
func idleHandlerFor() func() {
	return func() { time.Sleep(time.Millisecond) }
}

func TestParallelQueryFields(t *testing.T) {
	queryType := &schema.ObjectType{
		Name: "Query",
		Fields: map[string]*schema.FieldDefinition{
			"a": {
				Type: schema.IntType,
				Resolve: func(ctx schema.FieldContext) (interface{}, error) {
					promise := make(executor.ResolvePromise, 1)
					go func() {
						time.Sleep(50 * time.Millisecond)
						promise <- executor.ResolveResult{Value: 1}
					}()
					return promise, nil
				},
			},
			"b": {
				Type: schema.IntType,
				Resolve: func(ctx schema.FieldContext) (interface{}, error) {
					return 2, nil
				},
			},
		},
	}
	s, err := schema.New(&schema.Definition{Query: queryType})
	require.NoError(t, err)

	doc := queryDocument(field("a", nil), field("b", nil))

	start := time.Now()
	data, errs := executor.Execute(context.Background(), &executor.Request{
		Document:    doc,
		Schema:      s,
		IdleHandler: idleHandlerFor(),
	})
	elapsed := time.Since(start)

	require.Empty(t, errs)
	require.NotNil(t, data)
	a, _ := data.Get("a")
	b, _ := data.Get("b")
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Less(t, elapsed, 200*time.Millisecond, "b should not wait on a's 50ms sleep")
}

func TestSerialMutationsRunInSourceOrder(t *testing.T) {
	var counter int32
	mutationType := &schema.ObjectType{
		Name: "Mutation",
		Fields: map[string]*schema.FieldDefinition{
			"inc": {
				Type: schema.IntType,
				Resolve: func(ctx schema.FieldContext) (interface{}, error) {
					return int(atomic.AddInt32(&counter, 1)), nil
				},
			},
		},
	}
	s, err := schema.New(&schema.Definition{
		Query:    &schema.ObjectType{Name: "Query", Fields: map[string]*schema.FieldDefinition{"x": {Type: schema.StringType}}},
		Mutation: mutationType,
	})
	require.NoError(t, err)

	doc := mutationDocument(
		&ast.Field{Alias: name("a"), Name: name("inc")},
		&ast.Field{Alias: name("b"), Name: name("inc")},
		&ast.Field{Alias: name("c"), Name: name("inc")},
	)

	data, errs := executor.Execute(context.Background(), &executor.Request{Document: doc, Schema: s})
	require.Empty(t, errs)
	a, _ := data.Get("a")
	b, _ := data.Get("b")
	c, _ := data.Get("c")
	assert.Equal(t, []interface{}{"a", "b", "c"}, toInterfaceSlice(data.Keys()))
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 3, c)
}

func toInterfaceSlice(keys []string) []interface{} {
	ret := make([]interface{}, len(keys))
	for i, k := range keys {
		ret[i] = k
	}
	return ret
}

func TestNonNullPropagationBubblesToNearestNullableAncestor(t *testing.T) {
	childType := &schema.ObjectType{
		Name: "Child",
		Fields: map[string]*schema.FieldDefinition{
			"name": {
				Type: schema.NewNonNullType(schema.StringType),
				Resolve: func(ctx schema.FieldContext) (interface{}, error) {
					return nil, nil
				},
			},
		},
	}
	parentType := &schema.ObjectType{
		Name: "Parent",
		Fields: map[string]*schema.FieldDefinition{
			"child": {
				Type: schema.NewNonNullType(childType),
				Resolve: func(ctx schema.FieldContext) (interface{}, error) {
					return struct{}{}, nil
				},
			},
		},
	}
	queryType := &schema.ObjectType{
		Name: "Query",
		Fields: map[string]*schema.FieldDefinition{
			"parent": {
				Type: parentType,
				Resolve: func(ctx schema.FieldContext) (interface{}, error) {
					return struct{}{}, nil
				},
			},
		},
	}
	s, err := schema.New(&schema.Definition{Query: queryType})
	require.NoError(t, err)

	doc := queryDocument(field("parent", selectionSet(field("child", selectionSet(field("name", nil))))))

	data, errs := executor.Execute(context.Background(), &executor.Request{Document: doc, Schema: s})
	require.Len(t, errs, 1)
	parent, ok := data.Get("parent")
	require.True(t, ok)
	assert.Nil(t, parent)
	assert.Equal(t, "Cannot return null for non-nullable field Child.name.", errs[0].Message)
	assert.Equal(t, []interface{}{"parent", "child", "name"}, errs[0].Path)
}

func TestListCompletionReportsIndexInPath(t *testing.T) {
	queryType := &schema.ObjectType{
		Name: "Query",
		Fields: map[string]*schema.FieldDefinition{
			"items": {
				Type: schema.NewListType(schema.NewNonNullType(schema.IntType)),
				Resolve: func(ctx schema.FieldContext) (interface{}, error) {
					return []interface{}{10, 20, nil}, nil
				},
			},
		},
	}
	s, err := schema.New(&schema.Definition{Query: queryType})
	require.NoError(t, err)

	doc := queryDocument(field("items", nil))
	data, errs := executor.Execute(context.Background(), &executor.Request{Document: doc, Schema: s})
	require.Len(t, errs, 1)
	items, _ := data.Get("items")
	assert.Nil(t, items)
	assert.Equal(t, []interface{}{"items", 2}, errs[0].Path)
}

func TestVariableCoercionFailureShortCircuitsExecution(t *testing.T) {
	queryType := &schema.ObjectType{
		Name: "Query",
		Fields: map[string]*schema.FieldDefinition{
			"important": {
				Type: schema.StringType,
				Arguments: map[string]*schema.InputValueDefinition{
					"priority": {Type: schema.IntType},
				},
				Resolve: func(ctx schema.FieldContext) (interface{}, error) {
					return "urgent", nil
				},
			},
		},
	}
	s, err := schema.New(&schema.Definition{Query: queryType})
	require.NoError(t, err)

	variablePos := token.Position{Line: 1, Column: 11}
	doc := &ast.Document{
		Definitions: []ast.Definition{
			&ast.OperationDefinition{
				Kind: ast.OperationKindQuery,
				VariableDefinitions: []*ast.VariableDefinition{
					{
						Variable: &ast.Variable{Name: &ast.Name{Name: "p", NamePosition: variablePos}, Dollar: variablePos},
						Type:     &ast.NamedType{Name: name("Int")},
					},
				},
				SelectionSet: selectionSet(&ast.Field{
					Name: name("important"),
					Arguments: []*ast.Argument{
						{Name: name("priority"), Value: &ast.Variable{Name: name("p")}},
					},
				}),
			},
		},
	}

	data, errs := executor.Execute(context.Background(), &executor.Request{
		Document:       doc,
		Schema:         s,
		VariableValues: map[string]interface{}{"p": "meow"},
	})
	require.Nil(t, data)
	require.Len(t, errs, 1)
	assert.Equal(t, `Variable "$p" got invalid value "meow"; Int cannot represent non-integer value: "meow"`, errs[0].Message)
	assert.Equal(t, []Location{{Line: 1, Column: 11}}, toLocations(errs[0].Locations))
}

type Location = struct{ Line, Column int }

func toLocations(locs []executor.Location) []Location {
	ret := make([]Location, len(locs))
	for i, l := range locs {
		ret[i] = Location{Line: l.Line, Column: l.Column}
	}
	return ret
}

func TestSubscriptionHappyPath(t *testing.T) {
	subscriptionType := &schema.ObjectType{
		Name: "Subscription",
		Fields: map[string]*schema.FieldDefinition{
			"messages": {
				Type: schema.StringType,
				Subscribe: func(ctx schema.FieldContext) (interface{}, error) {
					return stream.FromSlice[interface{}]([]interface{}{"hello", "world"}), nil
				},
				Resolve: func(ctx schema.FieldContext) (interface{}, error) {
					return ctx.Object, nil
				},
			},
		},
	}
	s, err := schema.New(&schema.Definition{
		Query:        &schema.ObjectType{Name: "Query", Fields: map[string]*schema.FieldDefinition{"x": {Type: schema.StringType}}},
		Subscription: subscriptionType,
	})
	require.NoError(t, err)

	doc := &ast.Document{
		Definitions: []ast.Definition{
			&ast.OperationDefinition{Kind: ast.OperationKindSubscription, SelectionSet: selectionSet(field("messages", nil))},
		},
	}

	it, errs := executor.Subscribe(context.Background(), &executor.Request{Document: doc, Schema: s})
	require.Nil(t, errs)

	ctx := context.Background()
	var got []interface{}
	for {
		resp, ok, err := it.Next(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		require.Empty(t, resp.Errors)
		v, _ := resp.Data.Get("messages")
		got = append(got, v)
	}
	assert.Equal(t, []interface{}{"hello", "world"}, got)
}

func TestSubscriptionPerEventErrorDoesNotTerminateStream(t *testing.T) {
	subscriptionType := &schema.ObjectType{
		Name: "Subscription",
		Fields: map[string]*schema.FieldDefinition{
			"messages": {
				Type: schema.NewNonNullType(schema.StringType),
				Subscribe: func(ctx schema.FieldContext) (interface{}, error) {
					return stream.FromSlice[interface{}]([]interface{}{"one", nil, "three"}), nil
				},
				Resolve: func(ctx schema.FieldContext) (interface{}, error) {
					return ctx.Object, nil
				},
			},
		},
	}
	s, err := schema.New(&schema.Definition{
		Query:        &schema.ObjectType{Name: "Query", Fields: map[string]*schema.FieldDefinition{"x": {Type: schema.StringType}}},
		Subscription: subscriptionType,
	})
	require.NoError(t, err)

	doc := &ast.Document{
		Definitions: []ast.Definition{
			&ast.OperationDefinition{Kind: ast.OperationKindSubscription, SelectionSet: selectionSet(field("messages", nil))},
		},
	}

	it, errs := executor.Subscribe(context.Background(), &executor.Request{Document: doc, Schema: s})
	require.Nil(t, errs)

	ctx := context.Background()
	var responses []*executor.Response
	for {
		resp, ok, err := it.Next(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		responses = append(responses, resp)
	}

	require.Len(t, responses, 3)
	assert.Empty(t, responses[0].Errors)
	assert.NotEmpty(t, responses[1].Errors)
	assert.Empty(t, responses[2].Errors)
}

func TestIntrospectionTypenameIsRoutedByExecutor(t *testing.T) {
	queryType := &schema.ObjectType{
		Name: "Query",
		Fields: map[string]*schema.FieldDefinition{
			"x": {Type: schema.StringType, Resolve: func(ctx schema.FieldContext) (interface{}, error) { return "y", nil }},
		},
	}
	s, err := schema.New(&schema.Definition{Query: queryType})
	require.NoError(t, err)

	doc := queryDocument(&ast.Field{Name: name("__typename")})
	data, errs := executor.Execute(context.Background(), &executor.Request{Document: doc, Schema: s})
	require.Empty(t, errs)
	v, _ := data.Get("__typename")
	assert.Equal(t, "Query", v)
}

func TestUnknownOperationNameIsAnError(t *testing.T) {
	s, err := schema.New(&schema.Definition{
		Query: &schema.ObjectType{Name: "Query", Fields: map[string]*schema.FieldDefinition{"x": {Type: schema.StringType}}},
	})
	require.NoError(t, err)

	doc := queryDocument(field("x", nil))
	_, errs := executor.Execute(context.Background(), &executor.Request{Document: doc, Schema: s, OperationName: "DoesNotExist"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "DoesNotExist")
}
