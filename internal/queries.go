package internal

import (
	"context"
	"net/url"
	"strconv"

	"github.com/demoforums/forumclient/pkg/gateway"
	"github.com/demoforums/forumclient/pkg/query"
)

// Resource names used as the first key part.
const (
	ResourceCurrentUser = "currentUser"
	ResourceForums      = "forums"
	ResourceUsers       = "users"
	ResourcePosts       = "posts"
	ResourcePost        = "post"
	ResourceComments    = "comments"
)

// PostsParams selects a page of posts. Zero values are omitted from the
// request and the server applies its defaults.
type PostsParams struct {
	Page     int
	PageSize int
}

func (p PostsParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	return v
}

func optional(n int) any {
	if n <= 0 {
		return nil
	}
	return n
}

func CurrentUserKey() query.Key { return query.NewKey(ResourceCurrentUser) }

func ForumsKey() query.Key { return query.NewKey(ResourceForums) }

func UsersKey() query.Key { return query.NewKey(ResourceUsers) }

// PostsKey addresses one page of a forum's posts.
func PostsKey(slug string, p PostsParams) query.Key {
	return query.NewKey(ResourcePosts, slug, optional(p.Page), optional(p.PageSize))
}

// ForumPostsPrefix covers every page of a forum's posts.
func ForumPostsPrefix(slug string) query.Key {
	return query.NewKey(ResourcePosts, slug)
}

func PostKey(slug string, number int) query.Key {
	return query.NewKey(ResourcePost, slug, number)
}

func CommentsKey(slug string, number int) query.Key {
	return query.NewKey(ResourceComments, slug, number)
}

func postPath(slug string, number int) string {
	return gateway.Path("api", "forums", slug, "posts", strconv.Itoa(number))
}

func (c *Client) currentUserQuery() query.Query[User] {
	return query.Query[User]{
		Key:       CurrentUserKey(),
		StaleTime: query.Infinite,
		GCTime:    query.Infinite,
		Fetch: func(ctx context.Context) (User, error) {
			return gateway.Get[User](ctx, c.gateway, "api/profile", nil)
		},
	}
}

func (c *Client) forumsQuery() query.Query[[]Forum] {
	return query.Query[[]Forum]{
		Key:       ForumsKey(),
		StaleTime: query.Infinite,
		GCTime:    query.Infinite,
		Fetch: func(ctx context.Context) ([]Forum, error) {
			return gateway.Get[[]Forum](ctx, c.gateway, "api/forums", nil)
		},
	}
}

func (c *Client) usersQuery() query.Query[[]User] {
	return query.Query[[]User]{
		Key:       UsersKey(),
		StaleTime: query.Infinite,
		GCTime:    query.Infinite,
		Fetch: func(ctx context.Context) ([]User, error) {
			return gateway.Get[[]User](ctx, c.gateway, "api/users", nil)
		},
	}
}

func (c *Client) postsQuery(slug string, p PostsParams) query.Query[Page[Post]] {
	return query.Query[Page[Post]]{
		Key: PostsKey(slug, p),
		Fetch: func(ctx context.Context) (Page[Post], error) {
			path := gateway.Path("api", "forums", slug, "posts")
			w, err := gateway.Get[pageWire[Post]](ctx, c.gateway, path, p.values())
			if err != nil {
				return Page[Post]{}, err
			}
			return w.page(), nil
		},
	}
}

func (c *Client) postQuery(slug string, number int) query.Query[Post] {
	return query.Query[Post]{
		Key: PostKey(slug, number),
		Fetch: func(ctx context.Context) (Post, error) {
			return gateway.Get[Post](ctx, c.gateway, postPath(slug, number), nil)
		},
	}
}

func (c *Client) commentsQuery(slug string, number int) query.Query[[]Comment] {
	return query.Query[[]Comment]{
		Key: CommentsKey(slug, number),
		Fetch: func(ctx context.Context) ([]Comment, error) {
			return gateway.Get[[]Comment](ctx, c.gateway, postPath(slug, number)+"/comments", nil)
		},
	}
}

// CurrentUser returns the signed-in user, fetched at most once until logout.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	return query.Get(ctx, c.queries, c.currentUserQuery())
}

// Forums returns all forums.
func (c *Client) Forums(ctx context.Context) ([]Forum, error) {
	return query.Get(ctx, c.queries, c.forumsQuery())
}

// Users returns all users.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	return query.Get(ctx, c.queries, c.usersQuery())
}

// Posts returns one page of a forum's posts. It always hits the API.
func (c *Client) Posts(ctx context.Context, slug string, p PostsParams) (Page[Post], error) {
	return query.Get(ctx, c.queries, c.postsQuery(slug, p))
}

// Post returns one post. It always hits the API.
func (c *Client) Post(ctx context.Context, slug string, number int) (Post, error) {
	return query.Get(ctx, c.queries, c.postQuery(slug, number))
}

// Comments returns a post's comments. It always hits the API.
func (c *Client) Comments(ctx context.Context, slug string, number int) ([]Comment, error) {
	return query.Get(ctx, c.queries, c.commentsQuery(slug, number))
}

// EnsurePosts returns a cached page when present and not invalidated, fetching
// otherwise. Screens use it on entry and Posts to refresh.
func (c *Client) EnsurePosts(ctx context.Context, slug string, p PostsParams) (Page[Post], error) {
	return query.Ensure(ctx, c.queries, c.postsQuery(slug, p))
}
