package coerce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaygo/gqlengine/ast"
	"github.com/relaygo/gqlengine/coerce"
	"github.com/relaygo/gqlengine/schema"
	"github.com/relaygo/gqlengine/token"
)

func name(n string) *ast.Name { return &ast.Name{Name: n} }

func TestVariableValuesAppliesDefault(t *testing.T) {
	op := &ast.OperationDefinition{
		VariableDefinitions: []*ast.VariableDefinition{
			{
				Variable:     &ast.Variable{Name: name("limit")},
				Type:         &ast.NamedType{Name: name("Int")},
				DefaultValue: &ast.IntValue{Value: "10"},
			},
		},
	}

	s, err := schema.New(&schema.Definition{
		Query: &schema.ObjectType{
			Name:   "Query",
			Fields: map[string]*schema.FieldDefinition{"x": {Type: schema.StringType}},
		},
	})
	require.NoError(t, err)

	values, cerr := coerce.VariableValues(s, op, map[string]interface{}{})
	require.Nil(t, cerr)
	assert.Equal(t, 10, values["limit"])
}

func TestVariableValuesRequiresNonNull(t *testing.T) {
	op := &ast.OperationDefinition{
		VariableDefinitions: []*ast.VariableDefinition{
			{
				Variable: &ast.Variable{Name: name("id")},
				Type:     &ast.NonNullType{Type: &ast.NamedType{Name: name("ID")}},
			},
		},
	}
	s, err := schema.New(&schema.Definition{
		Query: &schema.ObjectType{
			Name:   "Query",
			Fields: map[string]*schema.FieldDefinition{"x": {Type: schema.StringType}},
		},
	})
	require.NoError(t, err)

	_, cerr := coerce.VariableValues(s, op, map[string]interface{}{})
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.Message, "id")
}

func TestVariableValuesReportsInvalidValueMessage(t *testing.T) {
	op := &ast.OperationDefinition{
		VariableDefinitions: []*ast.VariableDefinition{
			{
				Variable: &ast.Variable{Name: name("p")},
				Type:     &ast.NamedType{Name: name("Int")},
			},
		},
	}
	s, err := schema.New(&schema.Definition{
		Query: &schema.ObjectType{
			Name:   "Query",
			Fields: map[string]*schema.FieldDefinition{"x": {Type: schema.StringType}},
		},
	})
	require.NoError(t, err)

	_, cerr := coerce.VariableValues(s, op, map[string]interface{}{"p": "meow"})
	require.NotNil(t, cerr)
	assert.Equal(t, `Variable "$p" got invalid value "meow"; Int cannot represent non-integer value: "meow"`, cerr.Message)
}

func TestArgumentValuesSubstitutesVariable(t *testing.T) {
	node := &ast.Field{Name: &ast.Name{Name: "widget", NamePosition: token.Position{Line: 1, Column: 1}}}
	args := []*ast.Argument{
		{Name: name("id"), Value: &ast.Variable{Name: name("widgetID")}},
	}
	defs := map[string]*schema.InputValueDefinition{
		"id": {Type: schema.NewNonNullType(schema.IDType)},
	}

	values, cerr := coerce.ArgumentValues(node, defs, args, map[string]interface{}{"widgetID": "42"})
	require.Nil(t, cerr)
	assert.Equal(t, "42", values["id"])
}

func TestArgumentValuesMissingRequired(t *testing.T) {
	node := &ast.Field{Name: name("widget")}
	defs := map[string]*schema.InputValueDefinition{
		"id": {Type: schema.NewNonNullType(schema.IDType)},
	}

	_, cerr := coerce.ArgumentValues(node, defs, nil, map[string]interface{}{})
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.Message, "id")
}

func TestEstimateCostSumsFieldsAndMultipliesChildren(t *testing.T) {
	itemType := &schema.ObjectType{
		Name: "Item",
		Fields: map[string]*schema.FieldDefinition{
			"name": {Type: schema.StringType, Cost: schema.FieldResolverCost(1)},
		},
	}
	queryType := &schema.ObjectType{
		Name: "Query",
		Fields: map[string]*schema.FieldDefinition{
			"items": {
				Type: schema.NewListType(itemType),
				Arguments: map[string]*schema.InputValueDefinition{
					"first": {Type: schema.IntType},
				},
				Cost: func(ctx schema.FieldCostContext) schema.FieldCost {
					first, _ := ctx.Arguments["first"].(int)
					return schema.FieldCost{Resolver: 1, Multiplier: first}
				},
			},
		},
	}
	s, err := schema.New(&schema.Definition{Query: queryType})
	require.NoError(t, err)

	op := &ast.OperationDefinition{
		Kind: ast.OperationKindQuery,
		SelectionSet: &ast.SelectionSet{
			Selections: []ast.Selection{
				&ast.Field{
					Name:      name("items"),
					Arguments: []*ast.Argument{{Name: name("first"), Value: &ast.IntValue{Value: "10"}}},
					SelectionSet: &ast.SelectionSet{
						Selections: []ast.Selection{&ast.Field{Name: name("name")}},
					},
				},
			},
		},
	}

	cost, cerr := coerce.EstimateCost(s, op, map[string]interface{}{}, nil, 0)
	require.Nil(t, cerr)
	assert.Equal(t, 1+10*1, cost)
}

func TestEstimateCostEnforcesMaxCost(t *testing.T) {
	queryType := &schema.ObjectType{
		Name: "Query",
		Fields: map[string]*schema.FieldDefinition{
			"expensive": {Type: schema.StringType, Cost: schema.FieldResolverCost(1000)},
		},
	}
	s, err := schema.New(&schema.Definition{Query: queryType})
	require.NoError(t, err)

	op := &ast.OperationDefinition{
		Kind: ast.OperationKindQuery,
		SelectionSet: &ast.SelectionSet{
			Selections: []ast.Selection{&ast.Field{Name: name("expensive")}},
		},
	}

	_, cerr := coerce.EstimateCost(s, op, map[string]interface{}{}, nil, 100)
	require.NotNil(t, cerr)
	assert.Contains(t, cerr.Message, "cost")
}
