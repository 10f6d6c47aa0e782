package internal

import (
	"context"
	"errors"

	"github.com/demoforums/forumclient/pkg/apperror"
	"github.com/demoforums/forumclient/pkg/query"
)

// UserByID finds a user in the cached users collection. It never touches the network.
func (c *Client) UserByID(ctx context.Context, id string) (User, error) {
	users, err := query.Peek[[]User](ctx, c.queries, UsersKey())
	if err != nil {
		return User{}, lookupError(err, "Users are not loaded")
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, apperror.New(apperror.KindNotFound, "User not found")
}

// ForumBySlug finds a forum in the cached forums collection. It never touches the network.
func (c *Client) ForumBySlug(ctx context.Context, slug string) (Forum, error) {
	forums, err := query.Peek[[]Forum](ctx, c.queries, ForumsKey())
	if err != nil {
		return Forum{}, lookupError(err, "Forums are not loaded")
	}
	for _, f := range forums {
		if f.Slug == slug {
			return f, nil
		}
	}
	return Forum{}, apperror.New(apperror.KindNotFound, "Forum not found")
}

// Username resolves an author ID for display, falling back to the ID itself.
func (c *Client) Username(ctx context.Context, id string) string {
	u, err := c.UserByID(ctx, id)
	if err != nil {
		return id
	}
	return u.Username
}

func lookupError(err error, message string) *apperror.AppError {
	if errors.Is(err, query.ErrNotCached) {
		return apperror.New(apperror.KindUnknown, message, apperror.WithCause(err))
	}
	return apperror.FromUnknown(err)
}
