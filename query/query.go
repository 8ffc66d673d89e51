// Package query describes contract and indexer reads as cacheable descriptors and provides the
// request-scoped cache that executes them.
package query

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrDisabled is returned when fetching a disabled query.
	ErrDisabled = errors.New("query is disabled")
	// ErrTypeMismatch is returned when a cached value has a different type than requested.
	ErrTypeMismatch = errors.New("cached value has unexpected type")
)

// FetchFunc loads the value for a key.
type FetchFunc func(ctx context.Context) (any, error)

// Query is a typed, cacheable read. A disabled query must not be fetched, usually because one
// of its inputs is not known yet.
type Query[T any] struct {
	Key      Key
	Fetch    func(ctx context.Context) (T, error)
	Disabled bool
}

// Enabled reports whether the query may be fetched.
func (q Query[T]) Enabled() bool {
	return !q.Disabled && q.Fetch != nil
}

// Client is the cache collaborator that executes queries.
type Client interface {
	// Cached returns the cached value for key without fetching.
	Cached(key Key) (any, bool)
	// Fetch returns the cached value for key, or runs fetch and caches its result.
	Fetch(ctx context.Context, key Key, fetch FetchFunc) (any, error)
	// Set stores a value for key.
	Set(key Key, value any)
	// Invalidate drops the cached value for key.
	Invalidate(key Key)
	// Refresh refetches each key in order, one after another.
	Refresh(ctx context.Context, keys ...Key) error
}

// Fetch executes q through c.
func Fetch[T any](ctx context.Context, c Client, q Query[T]) (T, error) {
	var zero T
	if !q.Enabled() {
		return zero, fmt.Errorf("%w: %s", ErrDisabled, q.Key.Name)
	}

	v, err := c.Fetch(ctx, q.Key, func(ctx context.Context) (any, error) {
		return q.Fetch(ctx)
	})
	if err != nil {
		return zero, err
	}

	return cast[T](q.Key, v)
}

// Cached returns the cached value of q without fetching.
func Cached[T any](c Client, q Query[T]) (T, bool) {
	var zero T
	v, ok := c.Cached(q.Key)
	if !ok {
		return zero, false
	}
	t, err := cast[T](q.Key, v)
	if err != nil {
		return zero, false
	}

	return t, true
}

// Prime stores value as the result of q.
func Prime[T any](c Client, q Query[T], value T) {
	c.Set(q.Key, value)
}

func cast[T any](key Key, v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s holds %T, want %T", ErrTypeMismatch, key.Name, v, zero)
	}

	return t, nil
}

// Map returns a query deriving its value from q. It shares q's key namespace but not its cache
// entry: the derived key gets a "#name" suffix.
func Map[T, U any](q Query[T], name string, fn func(T) (U, error)) Query[U] {
	key := q.Key
	key.Name = q.Key.Name + "#" + name

	return Query[U]{
		Key:      key,
		Disabled: !q.Enabled(),
		Fetch: func(ctx context.Context) (U, error) {
			v, err := q.Fetch(ctx)
			if err != nil {
				var zero U
				return zero, err
			}

			return fn(v)
		},
	}
}

// Const returns a query that resolves to value without any network call.
func Const[T any](key Key, value T) Query[T] {
	return Query[T]{
		Key: key,
		Fetch: func(context.Context) (T, error) {
			return value, nil
		},
	}
}
