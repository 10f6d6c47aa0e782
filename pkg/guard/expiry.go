package guard

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/demoforums/forumclient/pkg/gateway"
	"github.com/demoforums/forumclient/pkg/navigation"
)

// SessionExpiry redirects to login when the server reports the session is gone.
type SessionExpiry struct {
	nav  navigation.Navigator
	opts *options
	mu   sync.Mutex
}

// NewSessionExpiry creates the runtime guard over nav. nav.Navigate runs with
// the guard's lock held and must not issue requests synchronously.
func NewSessionExpiry(nav navigation.Navigator, opts ...Option) *SessionExpiry {
	return &SessionExpiry{nav: nav, opts: newOptions(opts)}
}

// Hook returns the gateway response hook.
func (s *SessionExpiry) Hook() gateway.ResponseHook {
	return func(ctx context.Context, _ *http.Request, resp *http.Response) {
		s.Observe(ctx, resp.StatusCode)
	}
}

// Observe handles one response status and reports whether it navigated.
// Only 401 triggers; nothing happens while already on the login page.
func (s *SessionExpiry) Observe(ctx context.Context, status int) bool {
	if status != http.StatusUnauthorized {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.nav.Location()
	if current.Path == s.opts.loginPath {
		return false
	}

	s.opts.logger.InfoContext(ctx, "session expired, redirecting to login",
		slog.String("from", current.Href()),
	)
	s.nav.Navigate(navigation.LoginLocation(s.opts.loginPath, current.Href()), true)
	return true
}
