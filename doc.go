// Package forumclient is the client-side data and session layer of a forum
// application.
//
// A [Client] wraps every call to the forum API. It turns failures into one
// [AppError] shape, caches query results with request deduplication and
// per-query freshness, invalidates affected entries after mutations, and
// guards protected navigation with two layers: an entry check that runs before
// a protected location is shown, and a session-expiry hook that sends the user
// to the login page the first time any request answers 401.
//
// # Quick Start
//
//	c, err := forumclient.New("http://localhost:8000",
//	    forumclient.WithLogger(logger.New()),
//	)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	if _, err := c.Login(ctx, forumclient.LoginRequest{Username: "alice", Password: "secret"}); err != nil {
//	    return err
//	}
//
//	switch d := c.Enter(ctx, navigation.At("/forums/golang")); d.Outcome {
//	case forumclient.Allow:
//	    page, err := c.EnsurePosts(ctx, "golang", forumclient.PostsParams{Page: 1})
//	    ...
//	case forumclient.Redirect:
//	    nav.Navigate(d.RedirectTo, true)
//	case forumclient.Fail:
//	    show(d.Err)
//	}
//
// # Caching
//
// The current user, the forum list and the user list never go stale and are
// fetched at most once per session. Posts, a single post and comments are
// refetched by every read; EnsurePosts serves a cached page unless a mutation
// invalidated it. Concurrent reads of one key share a single request.
//
// # Configuration
//
// [LoadConfig] reads FORUM_API_BASE_URL, FORUM_API_TIMEOUT and FORUM_LOGIN_PATH
// from the environment; [NewFromConfig] builds a client from the result.
//
// # Storage
//
// Entries live in memory by default. [WithStore] accepts any
// cache.Cache[query.Entry], for example cache.NewRedis, so sessions of a
// command-line tool can share results.
package forumclient
