package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type userKey struct{}

func currentUser(r *http.Request) *user {
	u, _ := r.Context().Value(userKey{}).(*user)
	return u
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		s.mu.Lock()
		id, ok := s.sessions[c.Value]
		var u *user
		if ok {
			u = s.userByID(id)
		}
		s.mu.Unlock()

		if u == nil {
			writeDetail(w, http.StatusUnauthorized, "Session expired")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey{}, u)))
	}
}

// Caller must hold the mutex.
func (s *Server) userByID(id string) *user {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// Caller must hold the mutex.
func (s *Server) forumBySlug(slug string) *forum {
	for _, f := range s.forums {
		if f.Slug == slug {
			return f
		}
	}
	return nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "Invalid JSON body", "type": "json_invalid"}},
		})
		return false
	}
	return true
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == in.Username && u.password == in.Password {
			token := newID()
			s.sessions[token] = u.ID
			http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: token, Path: "/", HttpOnly: true})
			writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
			return
		}
	}
	writeDetail(w, http.StatusUnauthorized, "Invalid username or password")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decode(w, r, &in) {
		return
	}

	u := currentUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.password != in.CurrentPassword {
		writeDetail(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	u.password = in.NewPassword
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.users)
}

func (s *Server) listForums(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.forums)
}

func (s *Server) createForum(w http.ResponseWriter, r *http.Request) {
	if currentUser(r).Role != "admin" {
		writeDetail(w, http.StatusForbidden, "Admin privileges required")
		return
	}

	var in forum
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forumBySlug(in.Slug) != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Forum with this slug already exists")
		return
	}
	in.ID = newID()
	s.forums = append(s.forums, &in)
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page := positive(r.URL.Query().Get("page"), 1)
	size := positive(r.URL.Query().Get("page_size"), 10)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forumBySlug(slug) == nil {
		writeDetail(w, http.StatusNotFound, "Forum not found")
		return
	}

	// Newest first.
	all := s.posts[slug]
	ordered := make([]*post, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		ordered = append(ordered, all[i])
	}

	start := min((page-1)*size, len(ordered))
	end := min(start+size, len(ordered))
	writeJSON(w, http.StatusOK, map[string]any{
		"items":       ordered[start:end],
		"total_count": len(ordered),
		"page":        page,
		"page_size":   size,
		"total_pages": (len(ordered) + size - 1) / size,
	})
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var in struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forumBySlug(slug) == nil {
		writeDetail(w, http.StatusNotFound, "Forum not found")
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Title is required")
		return
	}
	p := s.appendPost(slug, in.Title, in.Content, currentUser(r).ID, in.Tags)
	writeJSON(w, http.StatusCreated, p)
}

// Caller must hold the mutex.
func (s *Server) appendPost(slug, title, content, authorID string, tags []string) *post {
	if tags == nil {
		tags = []string{}
	}
	p := &post{
		ID:        newID(),
		Number:    len(s.posts[slug]) + 1,
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		Tags:      tags,
		CreatedAt: time.Now().UTC(),
	}
	s.posts[slug] = append(s.posts[slug], p)
	return p
}

// Caller must hold the mutex.
func (s *Server) findPost(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	slug := chi.URLParam(r, "slug")
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 || number > len(s.posts[slug]) {
		writeDetail(w, http.StatusNotFound, "Post not found")
		return "", 0, false
	}
	return slug, number, true
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slug, number, ok := s.findPost(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.posts[slug][number-1])
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slug, number, ok := s.findPost(w, r)
	if !ok {
		return
	}
	comments := s.comments[commentsKey(slug, number)]
	if comments == nil {
		comments = []*comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Content string `json:"content"`
	}
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slug, number, ok := s.findPost(w, r)
	if !ok {
		return
	}
	c := &comment{ID: newID(), Content: in.Content, AuthorID: currentUser(r).ID, CreatedAt: time.Now().UTC()}
	key := commentsKey(slug, number)
	s.comments[key] = append(s.comments[key], c)
	writeJSON(w, http.StatusCreated, c)
}

func positive(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
