package forumclient

import (
	"github.com/demoforums/forumclient/internal"
	"github.com/demoforums/forumclient/pkg/apperror"
	"github.com/demoforums/forumclient/pkg/guard"
)

// Type aliases - public API
type (
	// Client is one application session against the forum API.
	Client = internal.Client

	// Option configures a Client.
	Option = internal.Option

	// AppError is the single error shape every operation returns.
	AppError = apperror.AppError

	// ErrorKind classifies an AppError.
	ErrorKind = apperror.Kind

	// Decision is the result of the entry guard.
	Decision = guard.Decision

	// GuardState is the entry guard state of the latest navigation.
	GuardState = guard.State

	User                  = internal.User
	Role                  = internal.Role
	Forum                 = internal.Forum
	Category              = internal.Category
	Post                  = internal.Post
	Comment               = internal.Comment
	PostsPage             = internal.Page[internal.Post]
	PostsParams           = internal.PostsParams
	Pagination            = internal.Pagination
	PostsUpdate           = internal.PostsUpdate
	Watch                 = internal.Watch
	LoginRequest          = internal.LoginRequest
	ChangePasswordRequest = internal.ChangePasswordRequest
	CreateForumRequest    = internal.CreateForumRequest
	CreatePostRequest     = internal.CreatePostRequest
	CreateCommentRequest  = internal.CreateCommentRequest
	MessageResponse       = internal.MessageResponse
)

// Entry guard outcomes.
const (
	Allow    = guard.Allow
	Redirect = guard.Redirect
	Fail     = guard.Fail
)

// Error kinds.
const (
	KindUnauthorized = apperror.KindUnauthorized
	KindForbidden    = apperror.KindForbidden
	KindNotFound     = apperror.KindNotFound
	KindValidation   = apperror.KindValidation
	KindServerError  = apperror.KindServerError
	KindNetworkError = apperror.KindNetworkError
	KindUnknown      = apperror.KindUnknown
)

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	return internal.New(baseURL, opts...)
}

// NewFromConfig creates a Client from cfg. Explicit opts win over cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	base := []Option{
		WithTimeout(cfg.Timeout),
		WithLoginPath(cfg.LoginPath),
	}
	if cfg.UserAgent != "" {
		base = append(base, WithUserAgent(cfg.UserAgent))
	}
	return internal.New(cfg.BaseURL, append(base, opts...)...)
}

// Option re-exports.
var (
	WithLogger          = internal.WithLogger
	WithNavigator       = internal.WithNavigator
	WithLoginPath       = internal.WithLoginPath
	WithStore           = internal.WithStore
	WithHTTPClient      = internal.WithHTTPClient
	WithTimeout         = internal.WithTimeout
	WithUserAgent       = internal.WithUserAgent
	WithErrorExtractors = internal.WithErrorExtractors
	WithGuardObserver   = internal.WithGuardObserver
)

// Forum categories.
const (
	CategoryTechnology = internal.CategoryTechnology
	CategoryScience    = internal.CategoryScience
	CategoryArt        = internal.CategoryArt
)

// Posts pagination.
const DefaultPageSize = internal.DefaultPageSize

var (
	// PageSizes are the page sizes offered to users.
	PageSizes = internal.PageSizes

	// PaginationOf extracts the pagination of a posts page.
	PaginationOf = internal.PaginationOf[internal.Post]

	// Categories lists forum categories in display order.
	Categories = internal.Categories
)

// AsAppError normalizes any error into an *AppError. It returns nil for nil.
func AsAppError(err error) *AppError {
	return apperror.FromUnknown(err)
}
