package guard_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demoforums/forumclient/pkg/apperror"
	"github.com/demoforums/forumclient/pkg/gateway"
	"github.com/demoforums/forumclient/pkg/guard"
	"github.com/demoforums/forumclient/pkg/navigation"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	target := navigation.Location{Path: "/forums/go", Query: map[string][]string{"page": {"2"}}}

	tests := []struct {
		name     string
		err      error
		outcome  guard.Outcome
		state    guard.State
		redirect string
	}{
		{name: "ok", err: nil, outcome: guard.Allow, state: guard.StateAllowed},
		{
			name:     "unauthorized",
			err:      apperror.New(apperror.KindUnauthorized, "Not authenticated"),
			outcome:  guard.Redirect,
			state:    guard.StateRedirectingToLogin,
			redirect: "/forums/go?page=2",
		},
		{
			name:     "forbidden",
			err:      apperror.New(apperror.KindForbidden, "Forbidden"),
			outcome:  guard.Redirect,
			state:    guard.StateRedirectingToLogin,
			redirect: "/forums/go?page=2",
		},
		{
			name:    "server error",
			err:     apperror.New(apperror.KindServerError, "HTTP 500 Internal Server Error"),
			outcome: guard.Fail,
			state:   guard.StateErrorDisplayed,
		},
		{
			name:    "network error",
			err:     apperror.New(apperror.KindNetworkError, apperror.MessageNetwork),
			outcome: guard.Fail,
			state:   guard.StateErrorDisplayed,
		},
		{
			name:    "plain error",
			err:     errors.New("boom"),
			outcome: guard.Fail,
			state:   guard.StateErrorDisplayed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := guard.Decide(tt.err, target, "/login")
			assert.Equal(t, tt.outcome, d.Outcome)
			assert.Equal(t, tt.state, d.State())

			switch tt.outcome {
			case guard.Allow:
				assert.Nil(t, d.Err)
			case guard.Redirect:
				assert.Equal(t, "/login", d.RedirectTo.Path)
				assert.Equal(t, tt.redirect, d.RedirectTo.Param(navigation.RedirectParam))
			case guard.Fail:
				require.NotNil(t, d.Err)
				assert.Empty(t, d.RedirectTo.Path)
			}
		})
	}
}

func TestEntry_StateTransitions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var (
		mu     sync.Mutex
		states []guard.State
	)
	observe := func(s guard.State) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	}

	var result error
	entry := guard.NewEntry(func(context.Context) error { return result }, guard.WithObserver(observe))
	require.Equal(t, guard.StateIdle, entry.State())

	d := entry.Check(ctx, navigation.At("/"))
	require.Equal(t, guard.Allow, d.Outcome)
	require.Equal(t, guard.StateAllowed, entry.State())

	result = apperror.New(apperror.KindServerError, "down")
	d = entry.Check(ctx, navigation.At("/"))
	require.Equal(t, guard.Fail, d.Outcome)
	require.Equal(t, guard.StateErrorDisplayed, entry.State())

	result = apperror.New(apperror.KindUnauthorized, "expired")
	d = entry.Check(ctx, navigation.At("/forums/go"))
	require.Equal(t, guard.Redirect, d.Outcome)
	assert.Equal(t, "/login?redirect=%2Fforums%2Fgo", d.RedirectTo.Href())

	entry.Reset()
	assert.Equal(t, []guard.State{
		guard.StateChecking, guard.StateAllowed,
		guard.StateChecking, guard.StateErrorDisplayed,
		guard.StateChecking, guard.StateRedirectingToLogin,
		guard.StateIdle,
	}, states)
	assert.Equal(t, "redirecting_to_login", guard.StateRedirectingToLogin.String())
}

func TestEntry_CustomLoginPath(t *testing.T) {
	t.Parallel()

	entry := guard.NewEntry(func(context.Context) error {
		return apperror.New(apperror.KindForbidden, "")
	}, guard.WithLoginPath("/signin"))

	d := entry.Check(context.Background(), navigation.At("/forums/new"))
	assert.Equal(t, "/signin", d.RedirectTo.Path)
}

func TestSessionExpiry_Observe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := navigation.NewHistory(navigation.At("/"))
	h.Navigate(navigation.At("/forums/go").With("page", "2"), false)
	expiry := guard.NewSessionExpiry(h)

	assert.False(t, expiry.Observe(ctx, http.StatusOK))
	assert.False(t, expiry.Observe(ctx, http.StatusForbidden))
	assert.Equal(t, "/forums/go", h.Location().Path)

	require.True(t, expiry.Observe(ctx, http.StatusUnauthorized))
	assert.Equal(t, 2, h.Len(), "login replaces the current entry")
	assert.Equal(t, "/login", h.Location().Path)
	assert.Equal(t, "/forums/go?page=2", h.Location().Param(navigation.RedirectParam))

	// Already on the login page.
	assert.False(t, expiry.Observe(ctx, http.StatusUnauthorized))
	assert.Equal(t, "/forums/go?page=2", h.Location().Param(navigation.RedirectParam))
}

func TestSessionExpiry_ConcurrentUnauthorizedNavigatesOnce(t *testing.T) {
	t.Parallel()

	h := navigation.NewHistory(navigation.At("/forums/go/3"))
	var navigations atomic.Int32
	h.OnChange(func(navigation.Location) { navigations.Add(1) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	expiry := guard.NewSessionExpiry(h)
	gw := gateway.MustNew(srv.URL, gateway.WithResponseHook(expiry.Hook()))

	var wg sync.WaitGroup
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gateway.Get[struct{}](context.Background(), gw, "api/forums/go/posts/3/comments", nil)
			assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, navigations.Load())
	assert.Equal(t, "/login?redirect=%2Fforums%2Fgo%2F3", h.Location().Href())
}
