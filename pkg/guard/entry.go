package guard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/demoforums/forumclient/pkg/apperror"
	"github.com/demoforums/forumclient/pkg/navigation"
)

// State is the entry guard's progress through one navigation.
type State int

const (
	StateIdle State = iota
	StateChecking
	StateAllowed
	StateRedirectingToLogin
	StateErrorDisplayed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateAllowed:
		return "allowed"
	case StateRedirectingToLogin:
		return "redirecting_to_login"
	case StateErrorDisplayed:
		return "error_displayed"
	default:
		return "unknown"
	}
}

// Outcome tags a Decision.
type Outcome int

const (
	Allow Outcome = iota + 1
	Redirect
	Fail
)

// Decision is the entry guard result. RedirectTo is set for Redirect, Err for Fail.
type Decision struct {
	Err        *apperror.AppError
	RedirectTo navigation.Location
	Outcome    Outcome
}

// State is the terminal state the decision leads to.
func (d Decision) State() State {
	switch d.Outcome {
	case Allow:
		return StateAllowed
	case Redirect:
		return StateRedirectingToLogin
	case Fail:
		return StateErrorDisplayed
	default:
		return StateIdle
	}
}

// Decide maps the session check result for target to a Decision.
func Decide(err error, target navigation.Location, loginPath string) Decision {
	if err == nil {
		return Decision{Outcome: Allow}
	}

	appErr := apperror.FromUnknown(err)
	if appErr.Code.IsAuth() {
		return Decision{
			Outcome:    Redirect,
			RedirectTo: navigation.LoginLocation(loginPath, target.Href()),
			Err:        appErr,
		}
	}
	return Decision{Outcome: Fail, Err: appErr}
}

// CheckFunc verifies the session, typically by reading the current user.
type CheckFunc func(ctx context.Context) error

// Entry guards entry to protected routes.
type Entry struct {
	check CheckFunc
	opts  *options
	state State
	mu    sync.Mutex
}

// NewEntry creates an entry guard around check.
func NewEntry(check CheckFunc, opts ...Option) *Entry {
	return &Entry{check: check, opts: newOptions(opts)}
}

// Check runs the guard for a navigation to target.
func (g *Entry) Check(ctx context.Context, target navigation.Location) Decision {
	g.transition(StateChecking)

	d := Decide(g.check(ctx), target, g.opts.loginPath)
	if d.Outcome != Allow {
		g.opts.logger.DebugContext(ctx, "route entry blocked",
			slog.String("target", target.Href()),
			slog.String("state", d.State().String()),
			slog.String("code", string(d.Err.Code)),
		)
	}

	g.transition(d.State())
	return d
}

// State returns the state of the most recent navigation.
func (g *Entry) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Reset returns the guard to idle.
func (g *Entry) Reset() {
	g.transition(StateIdle)
}

func (g *Entry) transition(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()

	if g.opts.observer != nil {
		g.opts.observer(s)
	}
}
