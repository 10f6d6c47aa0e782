package navigation

import (
	"net/url"
	"strings"
)

// RedirectParam is the query parameter carrying the post-login target.
const RedirectParam = "redirect"

// DefaultLanding is where login sends users without a usable redirect target.
const DefaultLanding = "/"

// Location is an app-relative address: a path plus query parameters.
type Location struct {
	Query url.Values
	Path  string
}

// At returns a Location for path with no query.
func At(path string) Location {
	return Location{Path: path}
}

// ParseHref parses "/path?query" into a Location.
func ParseHref(href string) (Location, error) {
	u, err := url.Parse(href)
	if err != nil {
		return Location{}, err
	}
	loc := Location{Path: u.Path}
	if loc.Path == "" {
		loc.Path = DefaultLanding
	}
	if q := u.Query(); len(q) > 0 {
		loc.Query = q
	}
	return loc, nil
}

// Href renders the location as "/path?query".
func (l Location) Href() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// Param returns the first value of a query parameter.
func (l Location) Param(name string) string {
	return l.Query.Get(name)
}

// With returns a copy of l with the query parameter set; an empty value removes it.
func (l Location) With(name, value string) Location {
	q := url.Values{}
	for k, v := range l.Query {
		q[k] = append([]string(nil), v...)
	}
	if value == "" {
		q.Del(name)
	} else {
		q.Set(name, value)
	}
	if len(q) == 0 {
		q = nil
	}
	return Location{Path: l.Path, Query: q}
}

// LoginLocation is the login page carrying redirect as the post-login target.
func LoginLocation(loginPath, redirect string) Location {
	loc := At(loginPath)
	if redirect != "" {
		loc.Query = url.Values{RedirectParam: {redirect}}
	}
	return loc
}

// RedirectTarget validates a post-login target. Only app-relative paths are
// accepted; anything else, including absolute and protocol-relative URLs,
// yields DefaultLanding.
func RedirectTarget(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, `/\`) {
		return DefaultLanding
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return DefaultLanding
	}
	return raw
}
