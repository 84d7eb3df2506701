// Package schema defines the read-only schema capability the executor walks:
// root operation types, named-type lookup, field/argument definitions,
// possible-types for abstract types, and directive definitions. Schema
// construction and SDL parsing are external collaborators; this package only
// validates the shallow invariants the executor depends on at runtime
// (non-null wrapping, field/argument name legality, union member IsTypeOf).
package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Type is implemented by every member of the GraphQL type system: named types
// and the List/NonNull wrapper types.
type Type interface {
	String() string
	IsInputType() bool
	IsOutputType() bool
	IsSubTypeOf(Type) bool
	IsSameType(Type) bool
}

// NamedType is any type with an intrinsic name: scalar, enum, object,
// interface, union, or input object.
type NamedType interface {
	Type
	TypeName() string
}

// WrappedType is a List or NonNull type wrapping another type.
type WrappedType interface {
	Type
	Unwrap() Type
}

// UnwrappedType strips all List/NonNull wrappers, returning the named type
// underneath.
func UnwrappedType(t Type) NamedType {
	for {
		w, ok := t.(WrappedType)
		if !ok {
			break
		}
		t = w.Unwrap()
	}
	if t == nil {
		return nil
	}
	return t.(NamedType)
}

// Schema is an immutable, read-only view of a GraphQL schema.
type Schema struct {
	directiveDefinitions     map[string]*DirectiveDefinition
	namedTypes               map[string]NamedType
	interfaceImplementations map[string][]*ObjectType
	unionMemberships         map[string][]*ObjectType

	query        *ObjectType
	mutation     *ObjectType
	subscription *ObjectType
}

// QueryType returns the schema's root query type. Every schema has one.
func (s *Schema) QueryType() *ObjectType { return s.query }

// MutationType returns the schema's root mutation type, or nil.
func (s *Schema) MutationType() *ObjectType { return s.mutation }

// SubscriptionType returns the schema's root subscription type, or nil.
func (s *Schema) SubscriptionType() *ObjectType { return s.subscription }

// DirectiveDefinition looks up a directive by name.
func (s *Schema) DirectiveDefinition(name string) *DirectiveDefinition {
	return s.directiveDefinitions[name]
}

// NamedTypes returns every named type in the schema, keyed by name.
func (s *Schema) NamedTypes() map[string]NamedType {
	return s.namedTypes
}

// NamedType looks up a named type, including built-in scalars.
func (s *Schema) NamedType(name string) NamedType {
	if t, ok := s.namedTypes[name]; ok {
		return t
	}
	return builtins[name]
}

// PossibleTypes returns the concrete object types that can satisfy an
// abstract (interface or union) type, by name.
func (s *Schema) PossibleTypes(abstractTypeName string) []*ObjectType {
	if t, ok := s.unionMemberships[abstractTypeName]; ok {
		return t
	}
	return s.interfaceImplementations[abstractTypeName]
}

// InterfaceImplementations returns the object types that implement the
// interface of the given name.
func (s *Schema) InterfaceImplementations(name string) []*ObjectType {
	return s.interfaceImplementations[name]
}

var nameRegex = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

func isName(s string) bool {
	return nameRegex.MatchString(s)
}

// Definition describes the types and operations that make up a schema, the
// input to New.
type Definition struct {
	Query        *ObjectType
	Mutation     *ObjectType
	Subscription *ObjectType

	DirectiveDefinitions map[string]*DirectiveDefinition

	// AdditionalTypes adds otherwise unreferenced types (e.g. union members
	// reachable only through resolved values) to the schema.
	AdditionalTypes []NamedType
}

// New validates a schema definition and builds an immutable Schema from it.
func New(def *Definition) (*Schema, error) {
	if def.Query == nil {
		return nil, fmt.Errorf("schemas must define a query root type")
	}

	s := &Schema{
		directiveDefinitions:     def.DirectiveDefinitions,
		namedTypes:               map[string]NamedType{},
		interfaceImplementations: map[string][]*ObjectType{},
		unionMemberships:         map[string][]*ObjectType{},
		query:                    def.Query,
		mutation:                 def.Mutation,
		subscription:             def.Subscription,
	}
	if s.directiveDefinitions == nil {
		s.directiveDefinitions = map[string]*DirectiveDefinition{}
	}

	for name := range s.directiveDefinitions {
		if !isName(name) || strings.HasPrefix(name, "__") {
			return nil, fmt.Errorf("illegal directive name: %v", name)
		}
	}

	roots := []NamedType{def.Query, def.Mutation, def.Subscription}
	roots = append(roots, def.AdditionalTypes...)

	var err error
	visited := map[interface{}]struct{}{}
	for _, root := range roots {
		if root == nil || reflect.ValueOf(root).IsNil() {
			continue
		}
		inspect(root, visited, func(node NamedType) bool {
			if err != nil {
				return false
			}
			name := node.TypeName()
			if !isName(name) || strings.HasPrefix(name, "__") {
				err = fmt.Errorf("illegal type name: %v", name)
				return false
			}
			if existing, ok := s.namedTypes[name]; ok {
				if existing != node {
					err = fmt.Errorf("multiple definitions for named type: %v", name)
				}
				return false
			}
			if builtin, ok := builtins[name]; ok && NamedType(builtin) != node {
				err = fmt.Errorf("%v is a built-in type and may not be redefined", name)
				return false
			}
			s.namedTypes[name] = node
			if obj, ok := node.(*ObjectType); ok {
				for _, iface := range obj.ImplementedInterfaces {
					s.interfaceImplementations[iface.Name] = append(s.interfaceImplementations[iface.Name], obj)
				}
			}
			if union, ok := node.(*UnionType); ok {
				s.unionMemberships[union.Name] = union.MemberTypes
			}
			if v, ok := node.(interface{ shallowValidate() error }); ok {
				if verr := v.shallowValidate(); verr != nil {
					err = fmt.Errorf("%v: %w", name, verr)
				}
			}
			return err == nil
		})
		if err != nil {
			return nil, err
		}
	}

	for _, obj := range s.namedTypes {
		if obj, ok := obj.(*ObjectType); ok {
			for _, iface := range obj.ImplementedInterfaces {
				if err := obj.SatisfyInterface(iface); err != nil {
					return nil, fmt.Errorf("%v does not satisfy %v: %w", obj.Name, iface.Name, err)
				}
			}
		}
	}

	return s, nil
}
