package gqlengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaygo/gqlengine"
	"github.com/relaygo/gqlengine/ast"
)

func name(n string) *ast.Name { return &ast.Name{Name: n} }

func TestExecuteReturnsSpecShapedResponse(t *testing.T) {
	queryType := &gqlengine.ObjectType{
		Name: "Query",
		Fields: map[string]*gqlengine.FieldDefinition{
			"greeting": {
				Type: gqlengine.StringType,
				Resolve: func(ctx gqlengine.FieldContext) (interface{}, error) {
					return "hello", nil
				},
			},
		},
	}
	schema, err := gqlengine.NewSchema(&gqlengine.SchemaDefinition{Query: queryType})
	require.NoError(t, err)

	doc := &ast.Document{
		Definitions: []ast.Definition{
			&ast.OperationDefinition{
				Kind: ast.OperationKindQuery,
				SelectionSet: &ast.SelectionSet{
					Selections: []ast.Selection{&ast.Field{Name: name("greeting")}},
				},
			},
		},
	}

	resp := gqlengine.Execute(&gqlengine.Request{Document: doc, Schema: schema})
	require.Empty(t, resp.Errors)
	greeting, ok := resp.Data.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", greeting)
}

func TestExecuteSurfacesResolverErrorWithPath(t *testing.T) {
	queryType := &gqlengine.ObjectType{
		Name: "Query",
		Fields: map[string]*gqlengine.FieldDefinition{
			"boom": {
				Type: gqlengine.NewNonNullType(gqlengine.StringType),
				Resolve: func(ctx gqlengine.FieldContext) (interface{}, error) {
					return nil, assertError{"kaboom"}
				},
			},
		},
	}
	schema, err := gqlengine.NewSchema(&gqlengine.SchemaDefinition{Query: queryType})
	require.NoError(t, err)

	doc := &ast.Document{
		Definitions: []ast.Definition{
			&ast.OperationDefinition{
				Kind: ast.OperationKindQuery,
				SelectionSet: &ast.SelectionSet{
					Selections: []ast.Selection{&ast.Field{Name: name("boom")}},
				},
			},
		},
	}

	resp := gqlengine.Execute(&gqlengine.Request{Document: doc, Schema: schema})
	require.Nil(t, resp.Data)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, []interface{}{"boom"}, resp.Errors[0].Path)
	assert.Equal(t, "kaboom", resp.Errors[0].Message)
}

func TestExecuteHonorsExtendedErrorExtensions(t *testing.T) {
	queryType := &gqlengine.ObjectType{
		Name: "Query",
		Fields: map[string]*gqlengine.FieldDefinition{
			"boom": {
				Type: gqlengine.StringType,
				Resolve: func(ctx gqlengine.FieldContext) (interface{}, error) {
					return nil, extendedError{assertError{"not found"}, map[string]interface{}{"code": "NOT_FOUND"}}
				},
			},
		},
	}
	schema, err := gqlengine.NewSchema(&gqlengine.SchemaDefinition{Query: queryType})
	require.NoError(t, err)

	doc := &ast.Document{
		Definitions: []ast.Definition{
			&ast.OperationDefinition{
				Kind: ast.OperationKindQuery,
				SelectionSet: &ast.SelectionSet{
					Selections: []ast.Selection{&ast.Field{Name: name("boom")}},
				},
			},
		},
	}

	resp := gqlengine.Execute(&gqlengine.Request{Document: doc, Schema: schema})
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "NOT_FOUND", resp.Errors[0].Extensions["code"])
}

func TestIsSubscriptionDetectsSubscriptionOperations(t *testing.T) {
	doc := &ast.Document{
		Definitions: []ast.Definition{
			&ast.OperationDefinition{Kind: ast.OperationKindSubscription, SelectionSet: &ast.SelectionSet{}},
		},
	}
	assert.True(t, gqlengine.IsSubscription(doc, ""))

	doc2 := &ast.Document{
		Definitions: []ast.Definition{
			&ast.OperationDefinition{Kind: ast.OperationKindQuery, SelectionSet: &ast.SelectionSet{}},
		},
	}
	assert.False(t, gqlengine.IsSubscription(doc2, ""))
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }

type extendedError struct {
	assertError
	extensions map[string]interface{}
}

func (e extendedError) Extensions() map[string]interface{} { return e.extensions }
