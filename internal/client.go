package internal

import (
	"log/slog"

	"github.com/demoforums/forumclient/pkg/cache"
	"github.com/demoforums/forumclient/pkg/gateway"
	"github.com/demoforums/forumclient/pkg/guard"
	"github.com/demoforums/forumclient/pkg/navigation"
	"github.com/demoforums/forumclient/pkg/query"
)

// Client is one application session against the forum API.
type Client struct {
	gateway   *gateway.Gateway
	queries   *query.Client
	nav       navigation.Navigator
	entry     *guard.Entry
	expiry    *guard.SessionExpiry
	logger    *slog.Logger
	loginPath string

	login          query.Mutation[LoginRequest, MessageResponse]
	logout         query.Mutation[struct{}, MessageResponse]
	changePassword query.Mutation[ChangePasswordRequest, MessageResponse]
	createForum    query.Mutation[CreateForumRequest, Forum]
	createPost     query.Mutation[newPost, Post]
	createComment  query.Mutation[newComment, Comment]
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	nav := o.navigator
	if nav == nil {
		nav = navigation.NewHistory(navigation.At(navigation.DefaultLanding))
	}

	guardOpts := []guard.Option{
		guard.WithLoginPath(o.loginPath),
		guard.WithLogger(o.logger.With(slog.String("component", "guard"))),
	}
	expiry := guard.NewSessionExpiry(nav, guardOpts...)

	gwOpts := []gateway.Option{
		gateway.WithLogger(o.logger.With(slog.String("component", "gateway"))),
		gateway.WithResponseHook(expiry.Hook()),
		gateway.WithTimeout(o.timeout),
		gateway.WithHTTPClient(o.httpClient),
	}
	if o.userAgent != "" {
		gwOpts = append(gwOpts, gateway.WithUserAgent(o.userAgent))
	}
	if len(o.extractors) > 0 {
		gwOpts = append(gwOpts, gateway.WithExtractors(o.extractors...))
	}
	gw, err := gateway.New(baseURL, gwOpts...)
	if err != nil {
		return nil, err
	}

	var store cache.Cache[query.Entry]
	if o.store != nil {
		local := cache.NewMemory[query.Entry](cache.WithDefaultTTL(query.DefaultGCTime))
		store = cache.NewSplit[query.Entry](local, o.store, sessionScoped)
	}

	c := &Client{
		gateway: gw,
		queries: query.NewClient(
			query.WithStore(store),
			query.WithLogger(o.logger.With(slog.String("component", "query"))),
		),
		nav:       nav,
		expiry:    expiry,
		logger:    o.logger,
		loginPath: o.loginPath,
	}

	if o.observer != nil {
		guardOpts = append(guardOpts, guard.WithObserver(o.observer))
	}
	c.entry = guard.NewEntry(c.checkSession, guardOpts...)
	c.initMutations()

	return c, nil
}

// Close releases the query cache backend.
func (c *Client) Close() error {
	return c.queries.Close()
}

// Navigator returns the navigator the guards drive.
func (c *Client) Navigator() navigation.Navigator {
	return c.nav
}

// Queries exposes the underlying query cache.
func (c *Client) Queries() *query.Client {
	return c.queries
}

// Gateway exposes the underlying HTTP gateway.
func (c *Client) Gateway() *gateway.Gateway {
	return c.gateway
}

// LoginPath returns the login route.
func (c *Client) LoginPath() string {
	return c.loginPath
}

// sessionScoped reports whether key depends on the session cookie of this
// process. Such entries never go to a store passed through WithStore.
func sessionScoped(key string) bool {
	k, err := query.ParseKey(key)
	return err == nil && k.HasPrefix(CurrentUserKey())
}
