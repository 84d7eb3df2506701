package stream_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaygo/gqlengine/executor/internal/stream"
)

func TestFromSliceYieldsThenEnds(t *testing.T) {
	it := stream.FromSlice([]int{1, 2})
	ctx := context.Background()

	v, ok, err := it.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok, err = it.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok, err = it.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMapTransformsValues(t *testing.T) {
	it := stream.Map(stream.FromSlice([]int{1, 2, 3}), func(v int) (string, error) {
		if v == 3 {
			return "", errors.New("three is unlucky")
		}
		return string(rune('a' + v)), nil
	})
	ctx := context.Background()

	v, ok, err := it.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, _, _ = it.Next(ctx)

	_, ok, err = it.Next(ctx)
	require.Error(t, err)
	assert.False(t, ok)
}

func TestFromChannelEndsWhenClosed(t *testing.T) {
	values := make(chan int, 1)
	errs := make(chan error, 1)
	values <- 5
	close(values)

	it := stream.FromChannel[int](values, errs, func() {})
	ctx := context.Background()

	v, ok, err := it.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, v)

	_, ok, err = it.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFromChannelPropagatesError(t *testing.T) {
	values := make(chan int)
	errs := make(chan error, 1)
	sentinel := errors.New("source failed")
	errs <- sentinel

	it := stream.FromChannel[int](values, errs, func() {})
	_, ok, err := it.Next(context.Background())
	assert.False(t, ok)
	assert.Same(t, sentinel, err)
}

func TestCloseInvokesCancel(t *testing.T) {
	canceled := false
	it := stream.FromChannel[int](make(chan int), make(chan error), func() { canceled = true })
	it.Close()
	assert.True(t, canceled)
}

// trackingIterator wraps another iterator and records whether Close was
// called, so tests can assert a combinator released its source.
type trackingIterator[T any] struct {
	inner  stream.Iterator[T]
	closed bool
}

func tracking[T any](inner stream.Iterator[T]) *trackingIterator[T] {
	return &trackingIterator[T]{inner: inner}
}

func (it *trackingIterator[T]) Next(ctx context.Context) (T, bool, error) { return it.inner.Next(ctx) }
func (it *trackingIterator[T]) Close()                                   { it.closed = true; it.inner.Close() }

func TestMapClosesSourceWhenFnErrors(t *testing.T) {
	source := tracking[int](stream.FromSlice([]int{1, 2, 3}))
	it := stream.Map[int, string](source, func(v int) (string, error) {
		return "", errors.New("fn always fails")
	})

	_, ok, err := it.Next(context.Background())
	assert.False(t, ok)
	assert.Error(t, err)
	assert.True(t, source.closed, "Map must close its source when fn returns an error")
}

func TestFlattenConcatenatesNestedSequences(t *testing.T) {
	outer := stream.FromSlice([]stream.Iterator[int]{
		stream.FromSlice([]int{1, 2}),
		stream.FromSlice([]int{3}),
		stream.FromSlice([]int{4, 5}),
	})
	it := stream.Flatten[int](outer)
	ctx := context.Background()

	var got []int
	for {
		v, ok, err := it.Next(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestFlattenSkipsEmptyInnerSequences(t *testing.T) {
	outer := stream.FromSlice([]stream.Iterator[int]{
		stream.FromSlice([]int{}),
		stream.FromSlice([]int{7}),
	})
	it := stream.Flatten[int](outer)

	v, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok, err = it.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlattenUnwindsStackOnInnerError(t *testing.T) {
	sentinel := errors.New("inner source failed")
	errs := make(chan error, 1)
	errs <- sentinel
	failing := stream.FromChannel[int](make(chan int), errs, func() {})

	outer := tracking[stream.Iterator[int]](stream.FromSlice([]stream.Iterator[int]{failing}))

	it := stream.Flatten[int](outer)
	_, ok, err := it.Next(context.Background())
	assert.False(t, ok)
	assert.Same(t, sentinel, err)
	assert.True(t, outer.closed, "Flatten must close the outer sequence when a stacked source errors")
}

func TestFlattenCloseUnwindsEntireStack(t *testing.T) {
	first := tracking[int](stream.FromSlice([]int{1, 2}))
	second := tracking[int](stream.FromSlice([]int{3, 4}))
	outer := tracking[stream.Iterator[int]](stream.FromSlice([]stream.Iterator[int]{first, second}))

	it := stream.Flatten[int](outer)

	v, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	it.Close()
	assert.True(t, first.closed, "Close must close the in-flight inner source")
	assert.True(t, outer.closed, "Close must close the outer sequence")
}
