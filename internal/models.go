package internal

import "time"

// Role of a user account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Category of a forum.
type Category string

const (
	CategoryTechnology Category = "Technology"
	CategoryScience    Category = "Science"
	CategoryArt        Category = "Art"
)

// Categories lists forum categories in display order.
func Categories() []Category {
	return []Category{CategoryTechnology, CategoryScience, CategoryArt}
}

// User is a forum account. The current user doubles as the client's view of
// the session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Forum struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// Post is addressed within its forum by Number.
type Post struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	Tags      []string  `json:"tags"`
	Number    int       `json:"number"`
}

type Comment struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
}

// Page is one page of a paginated collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// pageWire is the server's shape of a paginated response.
type pageWire[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

func (w pageWire[T]) page() Page[T] {
	items := w.Items
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		TotalCount: w.TotalCount,
		Page:       w.Page,
		PageSize:   w.PageSize,
		TotalPages: w.TotalPages,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type CreateForumRequest struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

type CreatePostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}
