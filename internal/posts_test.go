package internal_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demoforums/forumclient/internal"
	"github.com/demoforums/forumclient/internal/apitest"
	"github.com/demoforums/forumclient/pkg/apperror"
)

func TestPosts_Pagination(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "/login")
	f.login(t, apitest.UserUsername)

	page, err := f.client.Posts(context.Background(), "golang", internal.PostsParams{Page: 2, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	assert.Equal(t, 12, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 7, page.Items[0].Number)

	p := internal.PaginationOf(page)
	assert.True(t, p.Visible())
	assert.Equal(t, "Showing 6 to 10 of 12 posts", p.Summary())

	next, ok := p.Goto(3)
	require.True(t, ok)
	last, err := f.client.Posts(context.Background(), "golang", next)
	require.NoError(t, err)
	assert.Len(t, last.Items, 2)
	assert.Equal(t, "Showing 11 to 12 of 12 posts", internal.PaginationOf(last).Summary())
}

func TestPosts_ServerDefaults(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "/login")
	f.login(t, apitest.UserUsername)

	page, err := f.client.Posts(context.Background(), "physics", internal.PostsParams{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, "No posts", internal.PaginationOf(page).Summary())

	_, err = f.client.Posts(context.Background(), "missing", internal.PostsParams{})
	appErr := requireKind(t, err, apperror.KindNotFound)
	assert.Equal(t, "Forum not found", appErr.Message)
}

func TestCreatePost_InvalidatesOnlyThatForum(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "/login")
	f.login(t, apitest.UserUsername)
	ctx := context.Background()

	load := func() {
		t.Helper()
		for _, p := range []internal.PostsParams{{Page: 1, PageSize: 5}, {Page: 2, PageSize: 5}} {
			_, err := f.client.EnsurePosts(ctx, "golang", p)
			require.NoError(t, err)
		}
		_, err := f.client.EnsurePosts(ctx, "physics", internal.PostsParams{})
		require.NoError(t, err)
		_, err = f.client.Post(ctx, "golang", 1)
		require.NoError(t, err)
	}

	load()
	require.Equal(t, 3, f.srv.Calls(http.MethodGet, routePosts))

	created, err := f.client.CreatePost(ctx, "golang", internal.CreatePostRequest{Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, 13, created.Number)
	assert.Equal(t, []string{}, created.Tags)

	f.srv.ResetCalls()
	_, err = f.client.EnsurePosts(ctx, "golang", internal.PostsParams{Page: 1, PageSize: 5})
	require.NoError(t, err)
	_, err = f.client.EnsurePosts(ctx, "golang", internal.PostsParams{Page: 2, PageSize: 5})
	require.NoError(t, err)
	_, err = f.client.EnsurePosts(ctx, "physics", internal.PostsParams{})
	require.NoError(t, err)

	// Both golang pages were refetched; physics still comes from cache.
	require.Equal(t, 2, f.srv.Calls(http.MethodGet, routePosts))

	first, err := f.client.EnsurePosts(ctx, "golang", internal.PostsParams{Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, "Hello", first.Items[0].Title)
}

func TestCreatePost_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "/login")
	f.login(t, apitest.UserUsername)

	_, err := f.client.CreatePost(context.Background(), "golang", internal.CreatePostRequest{Title: "  "})
	appErr := requireKind(t, err, apperror.KindValidation)
	assert.Equal(t, "Title is required", appErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
}

func TestCreateForum(t *testing.T) {
	t.Parallel()

	req := internal.CreateForumRequest{Slug: "art-club", Title: "Art club", Category: internal.CategoryArt}

	t.Run("non admin is forbidden", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "/forums/new")
		f.login(t, apitest.UserUsername)

		_, err := f.client.CreateForum(context.Background(), req)
		appErr := requireKind(t, err, apperror.KindForbidden)
		assert.Equal(t, "Admin privileges required", appErr.Message)
		// Only 401 moves the user to the login page.
		assert.Equal(t, "/forums/new", f.history.Location().Path)
	})

	t.Run("admin refreshes forum list", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "/forums/new")
		f.login(t, apitest.AdminUsername)
		ctx := context.Background()

		require.NoError(t, f.client.Preload(ctx))
		_, err := f.client.ForumBySlug(ctx, "art-club")
		requireKind(t, err, apperror.KindNotFound)

		created, err := f.client.CreateForum(ctx, req)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		require.NoError(t, f.client.Preload(ctx))
		assert.Equal(t, 2, f.srv.Calls(http.MethodGet, routeForums))
		assert.Equal(t, 1, f.srv.Calls(http.MethodGet, routeUsers))

		forum, err := f.client.ForumBySlug(ctx, "art-club")
		require.NoError(t, err)
		assert.Equal(t, internal.CategoryArt, forum.Category)
	})
}

func TestPostDetailAndComments(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "/login")
	f.login(t, apitest.UserUsername)
	ctx := context.Background()

	post, comments, err := f.client.PostDetail(ctx, "golang", 1)
	require.NoError(t, err)
	assert.Equal(t, "Post 1", post.Title)
	require.Len(t, comments, 1)
	assert.Equal(t, "First!", comments[0].Content)

	_, err = f.client.CreateComment(ctx, "golang", 1, internal.CreateCommentRequest{Content: "Second"})
	require.NoError(t, err)

	comments, err = f.client.Comments(ctx, "golang", 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	empty, err := f.client.Comments(ctx, "golang", 2)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, _, err = f.client.PostDetail(ctx, "golang", 99)
	requireKind(t, err, apperror.KindNotFound)
	assert.GreaterOrEqual(t, f.srv.Calls(http.MethodGet, routePost), 2)
	assert.GreaterOrEqual(t, f.srv.Calls(http.MethodGet, routeComments), 3)
}

func TestLookups(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "/login")
	f.login(t, apitest.UserUsername)
	ctx := context.Background()

	_, err := f.client.UserByID(ctx, "u2")
	appErr := requireKind(t, err, apperror.KindUnknown)
	assert.Equal(t, "Users are not loaded", appErr.Message)

	_, err = f.client.ForumBySlug(ctx, "golang")
	appErr = requireKind(t, err, apperror.KindUnknown)
	assert.Equal(t, "Forums are not loaded", appErr.Message)
	assert.Equal(t, "u2", f.client.Username(ctx, "u2"))

	require.NoError(t, f.client.Preload(ctx))
	f.srv.ResetCalls()

	u, err := f.client.UserByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, apitest.UserUsername, u.Username)
	assert.Equal(t, apitest.UserUsername, f.client.Username(ctx, "u2"))

	_, err = f.client.UserByID(ctx, "nobody")
	appErr = requireKind(t, err, apperror.KindNotFound)
	assert.Equal(t, "User not found", appErr.Message)
	assert.Equal(t, "nobody", f.client.Username(ctx, "nobody"))

	_, err = f.client.ForumBySlug(ctx, "missing")
	appErr = requireKind(t, err, apperror.KindNotFound)
	assert.Equal(t, "Forum not found", appErr.Message)

	require.Zero(t, f.srv.Calls(http.MethodGet, routeUsers))
	require.Zero(t, f.srv.Calls(http.MethodGet, routeForums))
}
