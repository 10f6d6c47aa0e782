package navigation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Match is the result of resolving a path against Routes.
type Match struct {
	Params  map[string]string
	Name    string
	Pattern string
}

// Param returns a path parameter.
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Routes resolves app paths to named screens using chi's routing tree, so
// static segments take precedence over parameters.
type Routes struct {
	mux   *chi.Mux
	names map[string]string
}

// NewRoutes creates an empty route table.
func NewRoutes() *Routes {
	return &Routes{mux: chi.NewRouter(), names: make(map[string]string)}
}

// Add registers pattern (chi syntax, e.g. "/forums/{slug}") under name.
func (r *Routes) Add(pattern, name string) *Routes {
	r.mux.Get(pattern, http.NotFound)
	r.names[pattern] = name
	return r
}

// Match resolves path.
func (r *Routes) Match(path string) (Match, bool) {
	rctx := chi.NewRouteContext()
	if !r.mux.Match(rctx, http.MethodGet, path) {
		return Match{}, false
	}

	pattern := rctx.RoutePattern()
	name, ok := r.names[pattern]
	if !ok {
		return Match{}, false
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		params[k] = rctx.URLParams.Values[i]
	}
	return Match{Name: name, Pattern: pattern, Params: params}, true
}
