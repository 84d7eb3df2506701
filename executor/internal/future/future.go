// Package future implements a cooperative, single-goroutine future: a result
// that becomes available by repeated polling rather than by blocking a
// goroutine. The executor uses this so that many field resolvers can be "in
// flight" at once (satisfying spec.md's parallel-query-field-resolution
// requirement) without spawning a goroutine per field; a resolver that needs
// to wait on real external I/O does so on its own goroutine and reports back
// through a ResolvePromise, and the scheduler's IdleHandler is invoked
// whenever polling finds nothing ready to do.
package future

// Result holds either a value or an error.
type Result[T any] struct {
	Value T
	Error error
}

// IsOk returns true if the result is not an error.
func (r Result[T]) IsOk() bool { return r.Error == nil }

// IsErr returns true if the result is an error.
func (r Result[T]) IsErr() bool { return !r.IsOk() }

// Future represents a value that will be available at some point in the
// future, resolved by repeated calls to Poll.
type Future[T any] struct {
	result Result[T]
	poll   func() (Result[T], bool)
}

// New constructs a future from a poll function. When the future's value is
// ready, poll should return the value and true. Otherwise it should return a
// zero value and false.
func New[T any](poll func() (Result[T], bool)) Future[T] {
	return Future[T]{poll: poll}
}

// IsReady returns true if the future's value is ready.
func (f Future[T]) IsReady() bool { return f.poll == nil }

// Result returns the future's result. Only meaningful once IsReady is true.
func (f Future[T]) Result() Result[T] { return f.result }

// Poll advances the future (and anything it depends on) towards readiness.
func (f *Future[T]) Poll() {
	if f.poll != nil {
		var ok bool
		if f.result, ok = f.poll(); ok {
			f.poll = nil
		}
	}
}

// Ok returns a future that is immediately ready with the given value.
func Ok[T any](v T) Future[T] {
	return Future[T]{result: Result[T]{Value: v}}
}

// Err returns a future that is immediately ready with the given error.
func Err[T any](err error) Future[T] {
	return Future[T]{result: Result[T]{Error: err}}
}

// Map converts a future's result to a different type using a conversion
// function that sees both the value and the error.
func Map[T, U any](f Future[T], fn func(Result[T]) Result[U]) Future[U] {
	if f.IsReady() {
		return Future[U]{result: fn(f.result)}
	}
	fpoll := f.poll
	return Future[U]{
		poll: func() (Result[U], bool) {
			r, ok := fpoll()
			if ok {
				return fn(r), true
			}
			return Result[U]{}, false
		},
	}
}

// MapOk converts a future's value using a conversion function, passing
// through any error untouched.
func MapOk[T, U any](f Future[T], fn func(T) U) Future[U] {
	return Map(f, func(r Result[T]) Result[U] {
		if r.IsErr() {
			return Result[U]{Error: r.Error}
		}
		return Result[U]{Value: fn(r.Value)}
	})
}

// Then invokes fn once f resolves and returns a future that resolves when
// fn's returned future resolves.
func Then[T, U any](f Future[T], fn func(Result[T]) Future[U]) Future[U] {
	if f.IsReady() {
		return fn(f.result)
	}
	fpoll := f.poll
	var then Future[U]
	var hasThen bool
	return Future[U]{
		poll: func() (Result[U], bool) {
			if !hasThen {
				if r, ok := fpoll(); ok {
					then = fn(r)
					hasThen = true
				}
			}
			if hasThen {
				then.Poll()
				return then.result, then.IsReady()
			}
			return Result[U]{}, false
		},
	}
}

// ThenOk is Then, skipped (passing through the error) when f resolves to an
// error.
func ThenOk[T, U any](f Future[T], fn func(T) Future[U]) Future[U] {
	return Then(f, func(r Result[T]) Future[U] {
		if r.IsErr() {
			return Err[U](r.Error)
		}
		return fn(r.Value)
	})
}

// Join combines the values from multiple futures into a future that resolves
// to their values in order. If any future errors, the returned future
// resolves to the first such error.
func Join[T any](fs ...Future[T]) Future[[]T] {
	results := make([]T, len(fs))

	ok := true
	for i, f := range fs {
		if f.IsReady() {
			if f.result.IsErr() {
				return Err[[]T](f.result.Error)
			}
			results[i] = f.result.Value
		} else {
			ok = false
		}
	}
	if ok {
		return Ok(results)
	}

	return New(func() (Result[[]T], bool) {
		ok := true
		for i := range fs {
			f := &fs[i]
			f.Poll()
			if f.IsReady() {
				if f.result.IsErr() {
					return Result[[]T]{Error: f.result.Error}, true
				}
				results[i] = f.result.Value
			} else {
				ok = false
			}
		}
		if ok {
			return Result[[]T]{Value: results}, true
		}
		return Result[[]T]{}, false
	})
}

// After resolves once every given future has resolved, to the first error
// encountered (or nil). Unlike Join, it discards the values, which is more
// efficient when only completion (not the results) matters.
func After[T any](fs ...Future[T]) Future[struct{}] {
	ok := true
	for _, f := range fs {
		if f.IsReady() {
			if f.result.IsErr() {
				return Err[struct{}](f.result.Error)
			}
		} else {
			ok = false
		}
	}
	if ok {
		return Ok(struct{}{})
	}

	return New(func() (Result[struct{}], bool) {
		ok := true
		for i := range fs {
			f := &fs[i]
			f.Poll()
			if f.IsReady() {
				if f.result.IsErr() {
					return Result[struct{}]{Error: f.result.Error}, true
				}
			} else {
				ok = false
			}
		}
		if ok {
			return Result[struct{}]{}, true
		}
		return Result[struct{}]{}, false
	})
}

// ResolvePromise is a one-shot channel a background goroutine uses to hand a
// result back to the cooperative scheduler. Buffered with capacity 1 so the
// sending goroutine never blocks on a scheduler that has stopped polling.
type ResolvePromise[T any] chan Result[T]

// NewPromise creates an unresolved promise and a future that becomes ready once
// the promise is resolved. IdleHandler should be used to block until the
// promise (or some other promise) is resolved, rather than busy-polling.
func NewPromise[T any]() (ResolvePromise[T], Future[T]) {
	ch := make(ResolvePromise[T], 1)
	f := New(func() (Result[T], bool) {
		select {
		case r := <-ch:
			return r, true
		default:
			return Result[T]{}, false
		}
	})
	return ch, f
}

// Resolve delivers a result to the promise's future. Resolve must be called
// at most once.
func (p ResolvePromise[T]) Resolve(v T, err error) {
	p <- Result[T]{Value: v, Error: err}
}
