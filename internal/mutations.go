package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/demoforums/forumclient/pkg/gateway"
	"github.com/demoforums/forumclient/pkg/query"
)

type newPost struct {
	Slug string
	CreatePostRequest
}

type newComment struct {
	Slug   string
	Number int
	CreateCommentRequest
}

func (c *Client) initMutations() {
	c.login = query.Mutation[LoginRequest, MessageResponse]{
		Name: "login",
		Do: func(ctx context.Context, in LoginRequest) (MessageResponse, error) {
			return c.confirm(ctx, "api/auth/login", in)
		},
		// The session cookie is set by the server; everything cached so far
		// belongs to the previous session.
		OnSuccess: func(ctx context.Context, q *query.Client, _ LoginRequest, _ MessageResponse) error {
			return q.InvalidateAll(ctx)
		},
	}

	c.logout = query.Mutation[struct{}, MessageResponse]{
		Name: "logout",
		Do: func(ctx context.Context, _ struct{}) (MessageResponse, error) {
			return c.confirm(ctx, "api/auth/logout", nil)
		},
		OnSuccess: func(ctx context.Context, q *query.Client, _ struct{}, _ MessageResponse) error {
			return q.Remove(ctx, CurrentUserKey())
		},
	}

	c.changePassword = query.Mutation[ChangePasswordRequest, MessageResponse]{
		Name: "changePassword",
		Do: func(ctx context.Context, in ChangePasswordRequest) (MessageResponse, error) {
			return c.confirm(ctx, "api/profile/change-password", in)
		},
	}

	c.createForum = query.Mutation[CreateForumRequest, Forum]{
		Name: "createForum",
		Do: func(ctx context.Context, in CreateForumRequest) (Forum, error) {
			return gateway.Post[Forum](ctx, c.gateway, "api/forums", in)
		},
		OnSuccess: func(ctx context.Context, q *query.Client, _ CreateForumRequest, _ Forum) error {
			return q.Invalidate(ctx, ForumsKey())
		},
	}

	c.createPost = query.Mutation[newPost, Post]{
		Name: "createPost",
		Do: func(ctx context.Context, in newPost) (Post, error) {
			path := gateway.Path("api", "forums", in.Slug, "posts")
			return gateway.Post[Post](ctx, c.gateway, path, in.CreatePostRequest)
		},
		OnSuccess: func(ctx context.Context, q *query.Client, in newPost, _ Post) error {
			return q.Invalidate(ctx, ForumPostsPrefix(in.Slug))
		},
	}

	c.createComment = query.Mutation[newComment, Comment]{
		Name: "createComment",
		Do: func(ctx context.Context, in newComment) (Comment, error) {
			path := gateway.Path("api", "forums", in.Slug, "posts", strconv.Itoa(in.Number), "comments")
			return gateway.Post[Comment](ctx, c.gateway, path, in.CreateCommentRequest)
		},
		OnSuccess: func(ctx context.Context, q *query.Client, in newComment, _ Comment) error {
			return q.Invalidate(ctx, CommentsKey(in.Slug, in.Number))
		},
	}
}

// confirm posts to an endpoint whose 2xx body only acknowledges the action.
// A body that is not a JSON message becomes the message text as is.
func (c *Client) confirm(ctx context.Context, path string, in any) (MessageResponse, error) {
	var raw []byte
	if err := c.gateway.Do(ctx, http.MethodPost, path, nil, in, &raw); err != nil {
		return MessageResponse{}, err
	}

	var res MessageResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		c.logger.DebugContext(ctx, "non-JSON confirmation", slog.String("path", path))
		res.Message = strings.TrimSpace(string(raw))
	}
	return res, nil
}

// Login starts a session. On success every cached entry is invalidated.
func (c *Client) Login(ctx context.Context, req LoginRequest) (MessageResponse, error) {
	return c.login.Execute(ctx, c.queries, req)
}

// Logout ends the session and drops the cached current user.
func (c *Client) Logout(ctx context.Context) (MessageResponse, error) {
	return c.logout.Execute(ctx, c.queries, struct{}{})
}

// ChangePassword changes the signed-in user's password. No cache is affected.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) (MessageResponse, error) {
	return c.changePassword.Execute(ctx, c.queries, req)
}

// CreateForum creates a forum and invalidates the forum list.
func (c *Client) CreateForum(ctx context.Context, req CreateForumRequest) (Forum, error) {
	return c.createForum.Execute(ctx, c.queries, req)
}

// CreatePost creates a post and invalidates every page of the forum's posts.
func (c *Client) CreatePost(ctx context.Context, slug string, req CreatePostRequest) (Post, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	return c.createPost.Execute(ctx, c.queries, newPost{Slug: slug, CreatePostRequest: req})
}

// CreateComment adds a comment and invalidates that post's comments.
func (c *Client) CreateComment(ctx context.Context, slug string, number int, req CreateCommentRequest) (Comment, error) {
	return c.createComment.Execute(ctx, c.queries, newComment{Slug: slug, Number: number, CreateCommentRequest: req})
}
