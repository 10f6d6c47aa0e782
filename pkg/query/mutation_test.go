package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demoforums/forumclient/pkg/apperror"
	"github.com/demoforums/forumclient/pkg/query"
)

func TestMutation_Execute(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success runs hook", func(t *testing.T) {
		t.Parallel()
		c := newClient(t)

		var hooked string
		m := query.Mutation[string, int]{
			Name: "create",
			Do: func(ctx context.Context, in string) (int, error) {
				return len(in), nil
			},
			OnSuccess: func(ctx context.Context, _ *query.Client, in string, out int) error {
				hooked = in
				return nil
			},
		}

		out, err := m.Execute(ctx, c, "hello")
		require.NoError(t, err)
		assert.Equal(t, 5, out)
		assert.Equal(t, "hello", hooked)
	})

	t.Run("failure skips hook and normalizes", func(t *testing.T) {
		t.Parallel()
		c := newClient(t)

		called := false
		m := query.Mutation[string, int]{
			Do: func(ctx context.Context, in string) (int, error) {
				return 0, apperror.New(apperror.KindForbidden, "Admins only")
			},
			OnSuccess: func(context.Context, *query.Client, string, int) error {
				called = true
				return nil
			},
		}

		_, err := m.Execute(ctx, c, "x")
		assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
		assert.False(t, called)

		m.Do = func(ctx context.Context, in string) (int, error) { return 0, errors.New("plain") }
		_, err = m.Execute(ctx, c, "x")
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindUnknown, appErr.Code)
		assert.Equal(t, "plain", appErr.Message)
	})

	t.Run("hook failure does not fail the write", func(t *testing.T) {
		t.Parallel()
		c := newClient(t)

		m := query.Mutation[string, int]{
			Do:        func(ctx context.Context, in string) (int, error) { return 1, nil },
			OnSuccess: func(context.Context, *query.Client, string, int) error { return errors.New("store down") },
		}
		out, err := m.Execute(ctx, c, "x")
		require.NoError(t, err)
		assert.Equal(t, 1, out)
	})

	t.Run("invalidation on success", func(t *testing.T) {
		t.Parallel()
		c := newClient(t)
		cnt := &counter{}
		forums := query.Query[int]{Key: query.NewKey("forums"), StaleTime: query.Infinite, Fetch: cnt.fetch}

		_, err := query.Get(ctx, c, forums)
		require.NoError(t, err)

		m := query.Mutation[string, string]{
			Do: func(ctx context.Context, in string) (string, error) { return in, nil },
			OnSuccess: func(ctx context.Context, c *query.Client, _ string, _ string) error {
				return c.Invalidate(ctx, query.NewKey("forums"))
			},
		}
		_, err = m.Execute(ctx, c, "golang")
		require.NoError(t, err)

		v, err := query.Get(ctx, c, forums)
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})
}
