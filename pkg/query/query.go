package query

import (
	"context"
	"encoding/json"

	"github.com/demoforums/forumclient/pkg/apperror"
)

// Get returns the cached value for q.Key when it is fresh and fetches it otherwise.
// Errors are *apperror.AppError.
func Get[T any](ctx context.Context, c *Client, q Query[T]) (T, error) {
	if e, ok := c.lookup(ctx, q.Key); ok && c.fresh(e, q.StaleTime) {
		if v, err := decode[T](e.Data); err == nil {
			return v, nil
		}
	}
	return fetch(ctx, c, q)
}

// Ensure returns cached data that has not been invalidated, whatever its age,
// and fetches otherwise.
func Ensure[T any](ctx context.Context, c *Client, q Query[T]) (T, error) {
	if e, ok := c.lookup(ctx, q.Key); ok && !e.Invalidated {
		if v, err := decode[T](e.Data); err == nil {
			return v, nil
		}
	}
	return fetch(ctx, c, q)
}

// Peek returns whatever is cached under key without fetching, including
// invalidated data. It returns ErrNotCached on a miss.
func Peek[T any](ctx context.Context, c *Client, key Key) (T, error) {
	e, ok := c.lookup(ctx, key)
	if !ok {
		var zero T
		return zero, ErrNotCached
	}
	v, err := decode[T](e.Data)
	if err != nil {
		return v, apperror.FromUnknown(err)
	}
	return v, nil
}

// Refetch fetches q unconditionally, sharing any fetch already in progress.
func Refetch[T any](ctx context.Context, c *Client, q Query[T]) (T, error) {
	return fetch(ctx, c, q)
}

func fetch[T any](ctx context.Context, c *Client, q Query[T]) (T, error) {
	var zero T
	if q.Fetch == nil {
		return zero, apperror.New(apperror.KindUnknown, "no fetch function for "+q.Key.String())
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(q.Key.String(), func() (any, error) {
		f := c.begin(q.Key)
		defer c.end(q.Key, f)

		v, err := q.Fetch(detached)
		if err != nil {
			return nil, apperror.FromUnknown(err)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, apperror.FromUnknown(err)
		}
		c.commit(detached, f, data, q.GCTime)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return zero, apperror.FromUnknown(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, err := decode[T](res.Val.([]byte))
		if err != nil {
			return zero, apperror.FromUnknown(err)
		}
		return v, nil
	}
}

func decode[T any](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}
