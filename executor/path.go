package executor

// path is an immutable, singly-linked chain of response keys (field names or
// list indices), plus the runtime typename in effect at that point, per
// spec.md §3. The typename isn't part of the response path array, but lets
// error-location logic and completeValue report which concrete type a
// segment resolved to without re-walking the grouped field set.
type path struct {
	Prev            *path
	StringComponent string
	IntComponent    int
	IsInt           bool
	Typename        string
}

func (p *path) WithIntComponent(n int, typename string) *path {
	return &path{Prev: p, IntComponent: n, IsInt: true, Typename: typename}
}

func (p *path) WithStringComponent(s string, typename string) *path {
	return &path{Prev: p, StringComponent: s, Typename: typename}
}

// Slice flattens the path to the ordered sequence of keys the GraphQL
// response spec requires for an error's "path" property.
func (p *path) Slice() []interface{} {
	if p == nil {
		return nil
	}
	if p.IsInt {
		return append(p.Prev.Slice(), p.IntComponent)
	}
	return append(p.Prev.Slice(), p.StringComponent)
}
