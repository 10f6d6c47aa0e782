package internal

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/demoforums/forumclient/pkg/apperror"
	"github.com/demoforums/forumclient/pkg/guard"
	"github.com/demoforums/forumclient/pkg/navigation"
	"github.com/demoforums/forumclient/pkg/query"
)

func (c *Client) checkSession(ctx context.Context) error {
	_, err := query.Ensure(ctx, c.queries, c.currentUserQuery())
	return err
}

// Enter runs the entry guard for a protected location. When the session is
// valid it also preloads forums and users; a preload failure turns the
// decision into Fail.
func (c *Client) Enter(ctx context.Context, target navigation.Location) guard.Decision {
	d := c.entry.Check(ctx, target)
	if d.Outcome != guard.Allow {
		return d
	}
	if err := c.Preload(ctx); err != nil {
		return guard.Decision{Outcome: guard.Fail, Err: apperror.FromUnknown(err)}
	}
	return d
}

// GuardState returns the entry guard state of the latest navigation.
func (c *Client) GuardState() guard.State {
	return c.entry.State()
}

// Preload loads forums and users in parallel unless already cached.
func (c *Client) Preload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := query.Ensure(ctx, c.queries, c.forumsQuery())
		return err
	})
	g.Go(func() error {
		_, err := query.Ensure(ctx, c.queries, c.usersQuery())
		return err
	})
	return g.Wait()
}

// PostDetail loads a post and its comments in parallel.
func (c *Client) PostDetail(ctx context.Context, slug string, number int) (Post, []Comment, error) {
	var (
		post     Post
		comments []Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		post, err = c.Post(gctx, slug, number)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = c.Comments(gctx, slug, number)
		return err
	})
	if err := g.Wait(); err != nil {
		return Post{}, nil, err
	}
	return post, comments, nil
}

// PostLoginTarget is where to go after a successful login: the current
// location's redirect parameter when it is app-relative, "/" otherwise.
func (c *Client) PostLoginTarget() navigation.Location {
	target := navigation.RedirectTarget(c.nav.Location().Param(navigation.RedirectParam))
	loc, err := navigation.ParseHref(target)
	if err != nil {
		return navigation.At(navigation.DefaultLanding)
	}
	return loc
}
