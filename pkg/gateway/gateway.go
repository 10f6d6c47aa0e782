package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/demoforums/forumclient/pkg/apperror"
	"github.com/demoforums/forumclient/pkg/logger"
)

// ResponseHook observes a response before the gateway shapes it. Hooks must
// not consume the body.
type ResponseHook func(ctx context.Context, req *http.Request, resp *http.Response)

// Gateway sends JSON requests to the forum API.
type Gateway struct {
	base       *url.URL
	client     *http.Client
	logger     *slog.Logger
	hooks      []ResponseHook
	extractors []apperror.Extractor
	userAgent  string
	timeout    time.Duration
}

// New creates a Gateway rooted at baseURL.
func New(baseURL string, opts ...Option) (*Gateway, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, ErrInvalidBaseURL
	}

	g := &Gateway{
		base:   base,
		client: &http.Client{},
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.client.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, err
		}
		g.client.Jar = jar
	}

	return g, nil
}

// MustNew is New that panics on error.
func MustNew(baseURL string, opts ...Option) *Gateway {
	g, err := New(baseURL, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// BaseURL returns a copy of the configured base URL.
func (g *Gateway) BaseURL() *url.URL {
	u := *g.base
	return &u
}

// Cookies returns the cookies the jar would send to the base URL.
func (g *Gateway) Cookies() []*http.Cookie {
	return g.client.Jar.Cookies(g.base)
}

// Do sends one request. in, when non-nil, is encoded as the JSON body; out,
// when non-nil, receives the decoded 2xx body. A *[]byte out receives the raw
// 2xx body undecoded. Any failure is an *apperror.AppError.
func (g *Gateway) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	id := uuid.NewString()
	ctx = withRequestID(ctx, id)

	req, err := g.newRequest(ctx, method, path, query, in)
	if err != nil {
		return apperror.FromUnknown(err)
	}
	req.Header.Set(HeaderRequestID, id)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.DebugContext(ctx, "request failed",
			slog.String("method", method),
			slog.String("url", req.URL.Redacted()),
			slog.String("error", err.Error()),
		)
		return apperror.FromUnknown(err)
	}
	defer resp.Body.Close()

	g.logger.DebugContext(ctx, "request completed",
		slog.String("method", method),
		slog.String("url", req.URL.Redacted()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	for _, hook := range g.hooks {
		hook(ctx, req, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.FromUnknown(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperror.FromResponse(resp.StatusCode, resp.Status, resp.Header.Get("Content-Type"), data, g.extractors...)
	}

	if raw, ok := out.(*[]byte); ok {
		*raw = data
		return nil
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperror.FromUnknown(err)
	}
	return nil
}

func (g *Gateway) newRequest(ctx context.Context, method, path string, query url.Values, in any) (*http.Request, error) {
	u := g.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	return req, nil
}

// Get fetches path and decodes the body into T.
func Get[T any](ctx context.Context, g *Gateway, path string, query url.Values) (T, error) {
	var out T
	if err := g.Do(ctx, http.MethodGet, path, query, nil, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Post sends body as JSON to path and decodes the response into T.
// A nil body sends no payload.
func Post[T any](ctx context.Context, g *Gateway, path string, body any) (T, error) {
	var out T
	if err := g.Do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Path joins segments with "/", escaping each one.
func Path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}
