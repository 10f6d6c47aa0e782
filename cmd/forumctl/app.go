package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	forumclient "github.com/demoforums/forumclient"
	"github.com/demoforums/forumclient/pkg/cache"
	"github.com/demoforums/forumclient/pkg/forms"
	"github.com/demoforums/forumclient/pkg/gateway"
	"github.com/demoforums/forumclient/pkg/logger"
	"github.com/demoforums/forumclient/pkg/navigation"
	"github.com/demoforums/forumclient/pkg/query"
	"github.com/demoforums/forumclient/pkg/redis"
)

const (
	flushTimeout = 2 * time.Second
	userAgent    = "forumctl"
	redisPrefix  = "forumctl"
)

// Screen names.
const (
	screenLogin    = "login"
	screenHome     = "home"
	screenNewForum = "newForum"
	screenForum    = "forum"
	screenNewPost  = "newPost"
	screenPost     = "post"
)

func newRoutes(loginPath string) *navigation.Routes {
	return navigation.NewRoutes().
		Add(loginPath, screenLogin).
		Add("/", screenHome).
		Add("/forums/new", screenNewForum).
		Add("/forums/{slug}", screenForum).
		Add("/forums/{slug}/new", screenNewPost).
		Add("/forums/{slug}/{postNumber}", screenPost)
}

type app struct {
	client  *forumclient.Client
	history *navigation.History
	routes  *navigation.Routes
	rules   *forms.Rules
	logger  *slog.Logger
	prompt  *prompter
	out     io.Writer

	watch   *forumclient.Watch
	watchMu sync.Mutex
	// refresh renders the open screen again after the current command.
	refresh bool
}

// newApp wires a client from cfg. cleanup releases the cache backend.
func newApp(ctx context.Context, cfg config, start string, in io.Reader, out io.Writer) (*app, func(), error) {
	log := logger.NewWithSentry(cfg.Sentry,
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithOutput(os.Stderr),
		logger.WithExtractors(gateway.RequestIDExtractor()),
	)

	rules := forms.Default()
	if cfg.RulesFile != "" {
		r, err := forms.LoadFile(cfg.RulesFile)
		if err != nil {
			return nil, nil, err
		}
		rules = r
	}

	loc, err := navigation.ParseHref(start)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid start location %q: %w", start, err)
	}
	history := navigation.NewHistory(loc)

	opts := []forumclient.Option{
		forumclient.WithLogger(log),
		forumclient.WithNavigator(history),
		forumclient.WithUserAgent(userAgent),
	}

	closers := []func(){}
	if cfg.RedisURL != "" {
		rdb, err := redis.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = redis.Close(rdb) })
		store := cache.NewRedis[query.Entry](rdb, cache.JSONMarshaler[query.Entry]{}, cache.WithPrefix(redisPrefix))
		opts = append(opts, forumclient.WithStore(store))
		log.Debug("query cache backed by redis", slog.String("prefix", redisPrefix))
	}

	client, err := forumclient.NewFromConfig(cfg.Config, opts...)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, nil, err
	}

	out = &lockedWriter{w: out}
	a := &app{
		client:  client,
		history: history,
		routes:  newRoutes(client.LoginPath()),
		rules:   rules,
		logger:  log,
		prompt:  newPrompter(in, out),
		out:     out,
	}

	cleanup := func() {
		a.stopWatch()
		_ = client.Close()
		for _, c := range closers {
			c()
		}
	}
	return a, cleanup, nil
}

// run is the shell loop: render the current location, read a command, repeat.
func (a *app) run(ctx context.Context) error {
	a.render(ctx)
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := a.prompt.line(a.history.Location().Href() + "> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				a.printf("\n")
				return nil
			}
			return err
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return nil
		}

		before := a.history.Location().Href()
		if err := a.exec(ctx, args); err != nil {
			a.printError(err)
		}
		if a.refresh || a.history.Location().Href() != before {
			a.render(ctx)
		}
	}
}

func (a *app) exec(ctx context.Context, args []string) error {
	a.logger.DebugContext(ctx, "shell command", slog.String("command", args[0]))
	cmd := a.commands()
	cmd.SetArgs(args)
	cmd.SetOut(a.out)
	cmd.SetErr(a.out)
	return cmd.ExecuteContext(ctx)
}

func (a *app) navigate(href string, replace bool) error {
	loc, err := navigation.ParseHref(href)
	if err != nil {
		return err
	}
	if _, ok := a.routes.Match(loc.Path); !ok {
		return forumclient.AsAppError(fmt.Errorf("page %s not found", loc.Path))
	}
	a.history.Navigate(loc, replace)
	return nil
}

func (a *app) current() (navigation.Location, navigation.Match) {
	loc := a.history.Location()
	m, _ := a.routes.Match(loc.Path)
	return loc, m
}

// currentForum returns the forum slug of the current screen, if any.
func (a *app) currentForum() (string, bool) {
	_, m := a.current()
	switch m.Name {
	case screenForum, screenNewPost, screenPost:
		return m.Param("slug"), true
	default:
		return "", false
	}
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// lockedWriter serializes output of the shell and background watches.
type lockedWriter struct {
	w  io.Writer
	mu sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (a *app) printError(err error) {
	var fe forms.Errors
	if errors.As(err, &fe) {
		for _, e := range fe {
			a.printf("  - %s\n", e.Message)
		}
		return
	}
	appErr := forumclient.AsAppError(err)
	a.printf("%s: %s\n", appErr.Title, appErr.Message)
}
