package executor

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/relaygo/gqlengine/ast"
	"github.com/relaygo/gqlengine/coerce"
)

// Location is the position of a single source character, used to point a
// response error back at the request document.
type Location struct {
	Line   int
	Column int
}

// ExtendedError is implemented by a resolver error that wants to attach
// structured data to the response error's `extensions` field (spec.md §4.1).
type ExtendedError interface {
	error
	Extensions() map[string]interface{}
}

// Error is an execution error as defined by spec.md §3/§4.1. Only Message,
// Locations, Path, and a non-empty Extensions are part of the wire response
// shape (see MarshalJSON); everything else is retained for diagnostics.
type Error struct {
	// Message is formatted as a complete sentence, e.g. "An error occurred."
	Message string

	// Locations point to the query tokens responsible for the error, if any.
	Locations []Location

	// Path is present if the error occurred while resolving a particular
	// field.
	Path []interface{}

	// Extensions carries resolver-supplied structured data. Nil unless the
	// originating error implements ExtendedError or the cause itself already
	// had non-empty extensions.
	Extensions map[string]interface{}

	// systemFault marks a category-4 error (spec.md §7): invalid schema,
	// missing operation, or another internal invariant violation, as opposed
	// to an ordinary resolver or coercion failure. Used only to decide what
	// gets logged at Error level; it never affects the wire shape.
	systemFault bool

	originalError error
}

func (err *Error) Error() string { return err.Message }

// Unwrap returns the original error that caused this one, if it came from a
// resolver (as opposed to the engine itself).
func (err *Error) Unwrap() error { return err.originalError }

func newError(node ast.Node, message string, args ...interface{}) *Error {
	return newErrorWithPath(node, nil, message, args...)
}

// newSystemFaultError builds a category-4 error (spec.md §7): the engine
// itself cannot proceed, as opposed to a resolver or coercion failure.
func newSystemFaultError(node ast.Node, message string, args ...interface{}) *Error {
	ret := newErrorWithPath(node, nil, message, args...)
	ret.systemFault = true
	return ret
}

func newErrorWithPath(node ast.Node, p *path, message string, args ...interface{}) *Error {
	ret := &Error{Message: fmt.Sprintf(message, args...)}
	if node != nil {
		pos := node.Position()
		ret.Locations = []Location{{Line: pos.Line, Column: pos.Column}}
	}
	if p != nil {
		ret.Path = p.Slice()
	}
	return ret
}

// locatedError wraps a resolver's returned error in an *Error, attaching the
// field's location and response path, and copying over extensions if the
// cause is an ExtendedError (spec.md §4.1).
func locatedError(node ast.Node, p *path, cause error) *Error {
	if already, ok := cause.(*Error); ok {
		return already
	}
	ret := &Error{
		Message:       cause.Error(),
		originalError: errors.Wrap(cause, "field resolver error"),
	}
	if node != nil {
		pos := node.Position()
		ret.Locations = []Location{{Line: pos.Line, Column: pos.Column}}
	}
	if p != nil {
		ret.Path = p.Slice()
	}
	if ext, ok := cause.(ExtendedError); ok {
		ret.Extensions = ext.Extensions()
	}
	return ret
}

func newErrorWithCoerceError(err *coerce.Error) *Error {
	if err == nil {
		return nil
	}
	ret := &Error{Message: err.Message}
	for _, loc := range err.Locations {
		ret.Locations = append(ret.Locations, Location{Line: loc.Line, Column: loc.Column})
	}
	return ret
}

// responseError is the wire shape an Error marshals to (spec.md §7):
// locations/path are omitted when empty, extensions are omitted when empty.
type responseError struct {
	Message    string                 `json:"message"`
	Locations  []Location             `json:"locations,omitempty"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// MarshalJSON renders the error in the spec response shape, hiding the
// original cause and any other diagnostic-only state.
func (err *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(responseError{
		Message:    err.Message,
		Locations:  err.Locations,
		Path:       err.Path,
		Extensions: err.Extensions,
	})
}
