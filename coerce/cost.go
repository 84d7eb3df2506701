package coerce

import (
	"github.com/relaygo/gqlengine/ast"
	"github.com/relaygo/gqlengine/schema"
)

// EstimateCost walks operation's selection set and sums each selected
// field's declared Cost, saturating an optional budget before execution ever
// starts. This reuses the same skip/include and fragment-spread semantics as
// field collection, but runs ahead of execution against the static document
// rather than against resolved runtime types, so it re-walks selections
// itself instead of sharing the executor's memoized collector.
func EstimateCost(s *schema.Schema, operation *ast.OperationDefinition, variableValues map[string]interface{}, fragments map[string]*ast.FragmentDefinition, maxCost int) (int, *Error) {
	rootType := s.QueryType()
	switch operation.Kind {
	case ast.OperationKindMutation:
		rootType = s.MutationType()
	case ast.OperationKindSubscription:
		rootType = s.SubscriptionType()
	}
	if rootType == nil {
		return 0, newError(operation, "This schema cannot perform this operation.")
	}

	w := &costWalker{schema: s, variableValues: variableValues, fragments: fragments, maxCost: maxCost}
	cost, err := w.selectionSetCost(operation.SelectionSet.Selections, rootType)
	if err != nil {
		return 0, err
	}
	if maxCost > 0 && cost > maxCost {
		return cost, newError(operation, "This operation's estimated cost of %v exceeds the maximum allowed cost of %v.", cost, maxCost)
	}
	return cost, nil
}

type costWalker struct {
	schema         *schema.Schema
	variableValues map[string]interface{}
	fragments      map[string]*ast.FragmentDefinition
	maxCost        int
}

func (w *costWalker) selectionSetCost(selections []ast.Selection, objectType *schema.ObjectType) (int, *Error) {
	total := 0
	for _, selection := range selections {
		skip, err := w.isSkipped(selection)
		if err != nil {
			return 0, err
		}
		if skip {
			continue
		}

		switch selection := selection.(type) {
		case *ast.Field:
			fieldDef := objectType.Fields[selection.Name.Name]
			if fieldDef == nil {
				continue
			}
			arguments, cerr := ArgumentValues(selection, fieldDef.Arguments, selection.Arguments, w.variableValues)
			if cerr != nil {
				return 0, cerr
			}
			resolverCost, multiplier := 1, 1
			if fieldDef.Cost != nil {
				c := fieldDef.Cost(schema.FieldCostContext{Arguments: arguments})
				resolverCost = c.Resolver
				if c.Multiplier > 0 {
					multiplier = c.Multiplier
				}
			}
			childCost := 0
			if selection.SelectionSet != nil {
				if childType, ok := schema.UnwrappedType(fieldDef.Type).(*schema.ObjectType); ok {
					c, err := w.selectionSetCost(selection.SelectionSet.Selections, childType)
					if err != nil {
						return 0, err
					}
					childCost = c
				}
			}
			total = saturatingAdd(total, saturatingAdd(resolverCost, saturatingMul(multiplier, childCost)))
			if w.maxCost > 0 && total > w.maxCost {
				return total, nil
			}

		case *ast.InlineFragment:
			fragmentType := objectType
			if selection.TypeCondition != nil {
				if t, ok := w.schema.NamedType(selection.TypeCondition.Name.Name).(*schema.ObjectType); ok {
					fragmentType = t
				}
			}
			c, err := w.selectionSetCost(selection.SelectionSet.Selections, fragmentType)
			if err != nil {
				return 0, err
			}
			total = saturatingAdd(total, c)

		case *ast.FragmentSpread:
			def := w.fragments[selection.FragmentName.Name]
			if def == nil {
				continue
			}
			fragmentType := objectType
			if t, ok := w.schema.NamedType(def.TypeCondition.Name.Name).(*schema.ObjectType); ok {
				fragmentType = t
			}
			c, err := w.selectionSetCost(def.SelectionSet.Selections, fragmentType)
			if err != nil {
				return 0, err
			}
			total = saturatingAdd(total, c)
		}
	}
	return total, nil
}

func (w *costWalker) isSkipped(selection ast.Selection) (bool, *Error) {
	for _, directive := range selection.SelectionDirectives() {
		def := w.schema.DirectiveDefinition(directive.Name.Name)
		if def == nil || def.FieldCollectionFilter == nil {
			continue
		}
		arguments, err := ArgumentValues(directive, def.Arguments, directive.Arguments, w.variableValues)
		if err != nil {
			return false, err
		}
		if !def.FieldCollectionFilter(arguments) {
			return true, nil
		}
	}
	return false, nil
}

const maxInt = int(^uint(0) >> 1)

func saturatingAdd(a, b int) int {
	if a > maxInt-b {
		return maxInt
	}
	return a + b
}

func saturatingMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > maxInt/b {
		return maxInt
	}
	return a * b
}
