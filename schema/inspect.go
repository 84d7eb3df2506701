package schema

// inspect walks the types reachable from node, invoking f for each named type
// encountered. visited prevents infinite recursion through cycles (e.g. an
// object type whose field returns itself).
func inspect(node NamedType, visited map[interface{}]struct{}, f func(NamedType) bool) {
	if node == nil {
		return
	}
	if _, ok := visited[node]; ok {
		return
	}
	visited[node] = struct{}{}

	if !f(node) {
		return
	}

	switch n := node.(type) {
	case *ObjectType:
		for _, fd := range n.Fields {
			inspectType(fd.Type, visited, f)
			for _, arg := range fd.Arguments {
				inspectType(arg.Type, visited, f)
			}
		}
		for _, iface := range n.ImplementedInterfaces {
			inspect(iface, visited, f)
		}
	case *InterfaceType:
		for _, fd := range n.Fields {
			inspectType(fd.Type, visited, f)
			for _, arg := range fd.Arguments {
				inspectType(arg.Type, visited, f)
			}
		}
	case *UnionType:
		for _, member := range n.MemberTypes {
			inspect(member, visited, f)
		}
	case *InputObjectType:
		for _, fd := range n.Fields {
			inspectType(fd.Type, visited, f)
		}
	}
}

func inspectType(t Type, visited map[interface{}]struct{}, f func(NamedType) bool) {
	for {
		w, ok := t.(WrappedType)
		if !ok {
			break
		}
		t = w.Unwrap()
	}
	if named, ok := t.(NamedType); ok {
		inspect(named, visited, f)
	}
}
