package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "forum_session"

// Seeded accounts. Passwords equal usernames.
const (
	AdminUsername = "admin"
	UserUsername  = "alice"
)

type user struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	password string
}

type forum struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type post struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	Tags      []string  `json:"tags"`
	Number    int       `json:"number"`
}

type comment struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
}

type failure struct {
	body   any
	status int
}

type route struct {
	method  string
	pattern string
}

// Server is a fake forum API.
type Server struct {
	*httptest.Server

	users    []*user
	forums   []*forum
	posts    map[string][]*post
	comments map[string][]*comment
	sessions map[string]string
	calls    map[route]int
	failures map[route]failure
	texts    map[route]string
	holds    map[route]chan struct{}
	mu       sync.Mutex
}

// New starts a seeded server and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		posts:    make(map[string][]*post),
		comments: make(map[string][]*comment),
		sessions: make(map[string]string),
		calls:    make(map[route]int),
		failures: make(map[route]failure),
		texts:    make(map[route]string),
		holds:    make(map[route]chan struct{}),
	}
	s.seed()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s.handle(r, http.MethodPost, "/api/auth/login", s.login)
	s.handle(r, http.MethodPost, "/api/auth/logout", s.logout)
	s.handle(r, http.MethodGet, "/api/profile", s.authed(s.profile))
	s.handle(r, http.MethodPost, "/api/profile/change-password", s.authed(s.changePassword))
	s.handle(r, http.MethodGet, "/api/users", s.authed(s.listUsers))
	s.handle(r, http.MethodGet, "/api/forums", s.authed(s.listForums))
	s.handle(r, http.MethodPost, "/api/forums", s.authed(s.createForum))
	s.handle(r, http.MethodGet, "/api/forums/{slug}/posts", s.authed(s.listPosts))
	s.handle(r, http.MethodPost, "/api/forums/{slug}/posts", s.authed(s.createPost))
	s.handle(r, http.MethodGet, "/api/forums/{slug}/posts/{number}", s.authed(s.getPost))
	s.handle(r, http.MethodGet, "/api/forums/{slug}/posts/{number}/comments", s.authed(s.listComments))
	s.handle(r, http.MethodPost, "/api/forums/{slug}/posts/{number}/comments", s.authed(s.createComment))

	s.Server = httptest.NewServer(r)
	t.Cleanup(func() {
		s.releaseAll()
		s.Close()
	})
	return s
}

func (s *Server) seed() {
	s.users = []*user{
		{ID: "u1", Username: AdminUsername, Role: "admin", password: AdminUsername},
		{ID: "u2", Username: UserUsername, Role: "user", password: UserUsername},
		{ID: "u3", Username: "bob", Role: "user", password: "bob"},
	}
	s.forums = []*forum{
		{ID: "f1", Slug: "golang", Title: "Golang", Description: "All things Go.", Category: "Technology"},
		{ID: "f2", Slug: "physics", Title: "Physics", Description: "Particles and waves.", Category: "Science"},
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 12; i++ {
		s.posts["golang"] = append(s.posts["golang"], &post{
			ID:        "p" + strconv.Itoa(i),
			Number:    i,
			Title:     fmt.Sprintf("Post %d", i),
			Content:   fmt.Sprintf("Content of post **%d**.", i),
			AuthorID:  "u2",
			Tags:      []string{"go"},
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	s.comments[commentsKey("golang", 1)] = []*comment{
		{ID: "c1", Content: "First!", AuthorID: "u3", CreatedAt: base.Add(2 * time.Hour)},
	}
}

// handle registers a route with call counting, failure injection and holds.
func (s *Server) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	rt := route{method: method, pattern: pattern}
	r.MethodFunc(method, pattern, func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.calls[rt]++
		f, failing := s.failures[rt]
		text, plain := s.texts[rt]
		hold := s.holds[rt]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-req.Context().Done():
				return
			}
		}

		if failing {
			if f.body == nil {
				w.WriteHeader(f.status)
				return
			}
			writeJSON(w, f.status, f.body)
			return
		}
		if plain {
			writePlain(w, req, h, text)
			return
		}
		h(w, req)
	})
}

// Calls returns how many requests reached method+pattern.
func (s *Server) Calls(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route{method: method, pattern: pattern}]
}

// ResetCalls zeroes every call counter.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[route]int)
}

// Fail makes method+pattern answer status with body (JSON) until Recover.
// A nil body sends no content.
func (s *Server) Fail(method, pattern string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route{method: method, pattern: pattern}] = failure{status: status, body: body}
}

// ReplyText keeps the behavior of method+pattern but replaces a 2xx body
// with text sent as text/plain.
func (s *Server) ReplyText(method, pattern, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[route{method: method, pattern: pattern}] = text
}

// Recover removes an injected failure or text reply.
func (s *Server) Recover(method, pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route{method: method, pattern: pattern})
	delete(s.texts, route{method: method, pattern: pattern})
}

// Hold blocks requests to method+pattern until the returned release is called.
func (s *Server) Hold(method, pattern string) (release func()) {
	rt := route{method: method, pattern: pattern}
	ch := make(chan struct{})

	s.mu.Lock()
	s.holds[rt] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.holds[rt] == ch {
				delete(s.holds, rt)
				close(ch)
			}
		})
	}
}

func (s *Server) releaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for rt, ch := range s.holds {
		close(ch)
		delete(s.holds, rt)
	}
}

// ExpireSessions invalidates every session, as if they timed out server-side.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]string)
}

// AddPost inserts a post as if another user created it.
func (s *Server) AddPost(slug, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendPost(slug, title, "Added by another user.", "u3", nil)
}

func writePlain(w http.ResponseWriter, req *http.Request, h http.HandlerFunc, text string) {
	rec := httptest.NewRecorder()
	h(rec, req)

	for k, v := range rec.Header() {
		w.Header()[k] = v
	}
	if rec.Code < 200 || rec.Code > 299 {
		w.WriteHeader(rec.Code)
		_, _ = w.Write(rec.Body.Bytes())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Del("Content-Length")
	w.WriteHeader(rec.Code)
	_, _ = io.WriteString(w, text)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func commentsKey(slug string, number int) string {
	return slug + "/" + strconv.Itoa(number)
}

func newID() string {
	return uuid.NewString()
}
