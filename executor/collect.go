package executor

import (
	"fmt"
	"strings"

	"github.com/relaygo/gqlengine/ast"
	"github.com/relaygo/gqlengine/coerce"
	"github.com/relaygo/gqlengine/schema"
)

// collectFields implements spec.md §4.3: it walks selections (merging in
// fragment spreads and inline fragments whose type condition applies to
// objectType) and groups field nodes by response key, in first-seen order.
// Because the same (objectType, selections) pair recurs constantly while
// completing a list of objects, the result is memoized on the executor.
func (e *executor) collectFields(objectType *schema.ObjectType, selections []ast.Selection) *GroupedFieldSet {
	cacheKey := groupedFieldSetCacheKey(objectType, selections)
	if hit, ok := e.groupedFieldSetCache[cacheKey]; ok {
		return hit
	}

	groupedFieldSet := NewGroupedFieldSetWithCapacity(len(selections))
	e.collectFieldsImpl(objectType, selections, nil, groupedFieldSet)
	e.groupedFieldSetCache[cacheKey] = groupedFieldSet
	return groupedFieldSet
}

func groupedFieldSetCacheKey(objectType *schema.ObjectType, selections []ast.Selection) string {
	var b strings.Builder
	b.WriteString(objectType.Name)
	for _, sel := range selections {
		fmt.Fprintf(&b, "|%p", sel)
	}
	return b.String()
}

func (e *executor) collectFieldsImpl(objectType *schema.ObjectType, selections []ast.Selection, visitedFragments map[string]struct{}, groupedFields *GroupedFieldSet) {
	if visitedFragments == nil {
		visitedFragments = map[string]struct{}{}
	}
	for _, selection := range selections {
		if e.isSelectionSkipped(selection) {
			continue
		}

		switch selection := selection.(type) {
		case *ast.Field:
			groupedFields.Append(selection.ResponseKey(), selection)
		case *ast.FragmentSpread:
			name := selection.FragmentName.Name
			if _, ok := visitedFragments[name]; ok {
				continue
			}
			visitedFragments[name] = struct{}{}

			fragment := e.fragmentDefinitions[name]
			if fragment == nil {
				continue
			}

			fragmentType := coerce.SchemaType(fragment.TypeCondition, e.schema)
			if fragmentType == nil || !doesFragmentTypeApply(objectType, fragmentType) {
				continue
			}

			e.collectFieldsImpl(objectType, fragment.SelectionSet.Selections, visitedFragments, groupedFields)
		case *ast.InlineFragment:
			if selection.TypeCondition != nil {
				fragmentType := coerce.SchemaType(selection.TypeCondition, e.schema)
				if fragmentType == nil || !doesFragmentTypeApply(objectType, fragmentType) {
					continue
				}
			}
			e.collectFieldsImpl(objectType, selection.SelectionSet.Selections, visitedFragments, groupedFields)
		default:
			panic(fmt.Sprintf("unexpected selection type: %T", selection))
		}
	}
}

// isSelectionSkipped evaluates every directive attached to selection whose
// definition has a FieldCollectionFilter (i.e. @skip/@include), per
// spec.md §4.3. @skip outranks @include because it's checked first and wins
// unconditionally; an error coercing a directive's arguments is treated as
// "not skipped" since static validation would already have caught it.
func (e *executor) isSelectionSkipped(selection ast.Selection) bool {
	for _, directive := range selection.SelectionDirectives() {
		def := e.schema.DirectiveDefinition(directive.Name.Name)
		if def == nil || def.FieldCollectionFilter == nil {
			continue
		}
		arguments, err := coerce.ArgumentValues(directive, def.Arguments, directive.Arguments, e.variableValues)
		if err != nil {
			continue
		}
		if !def.FieldCollectionFilter(arguments) {
			return true
		}
	}
	return false
}

func doesFragmentTypeApply(objectType *schema.ObjectType, fragmentType schema.Type) bool {
	switch fragmentType := fragmentType.(type) {
	case *schema.ObjectType:
		return objectType.IsSameType(fragmentType)
	case *schema.InterfaceType:
		for _, impl := range objectType.ImplementedInterfaces {
			if impl.IsSameType(fragmentType) {
				return true
			}
		}
		return false
	case *schema.UnionType:
		for _, member := range fragmentType.MemberTypes {
			if member.IsSameType(objectType) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// mergeSelectionSets flattens the sub-selections of every field that
// contributed to a grouped response key, the input to recursive field
// collection on an object value (spec.md §4.3).
func mergeSelectionSets(fields []*ast.Field) []ast.Selection {
	var selections []ast.Selection
	for _, field := range fields {
		if field.SelectionSet != nil {
			selections = append(selections, field.SelectionSet.Selections...)
		}
	}
	return selections
}
