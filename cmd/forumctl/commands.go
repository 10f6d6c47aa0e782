package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	forumclient "github.com/demoforums/forumclient"
	"github.com/demoforums/forumclient/pkg/apperror"
	"github.com/demoforums/forumclient/pkg/forms"
	"github.com/demoforums/forumclient/pkg/gateway"
	"github.com/demoforums/forumclient/pkg/slug"
)

const defaultWatchSchedule = "@every 30s"

var errNotHere = errors.New("not available on this page")

// commands builds the shell command tree. A fresh tree per line keeps flag
// values from leaking between commands.
func (a *app) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "forumctl",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(
		a.simple("open <location>", "Go to a location, e.g. /forums/golang?page=2", cobra.ExactArgs(1), a.cmdOpen),
		a.simple("back", "Go back", cobra.NoArgs, a.cmdBack),
		a.simple("forums", "List forums", cobra.NoArgs, a.cmdHome),
		a.simple("login [username]", "Log in", cobra.MaximumNArgs(1), a.cmdLogin),
		a.simple("logout", "Log out", cobra.NoArgs, a.cmdLogout),
		a.simple("whoami", "Show the signed-in user", cobra.NoArgs, a.cmdWhoami),
		a.simple("passwd", "Change your password", cobra.NoArgs, a.cmdPasswd),
		a.simple("new-forum", "Create a forum (admins)", cobra.NoArgs, a.cmdNewForum),
		a.simple("new-post [slug]", "Write a post", cobra.MaximumNArgs(1), a.cmdNewPost),
		a.simple("comment [text]", "Comment on the open post", cobra.ArbitraryArgs, a.cmdComment),
		a.simple("next", "Next page of posts", cobra.NoArgs, a.pageStep(1)),
		a.simple("prev", "Previous page of posts", cobra.NoArgs, a.pageStep(-1)),
		a.simple("page <n>", "Jump to a page of posts", cobra.ExactArgs(1), a.cmdPage),
		a.simple("size <n>", "Change the page size", cobra.ExactArgs(1), a.cmdSize),
		a.simple("refresh", "Reload the open page from the server", cobra.NoArgs, a.cmdRefresh),
		a.simple("watch [schedule|stop]", `Poll the open forum for new posts (default "@every 30s")`, cobra.MaximumNArgs(2), a.cmdWatch),
	)
	return root
}

func (a *app) simple(use, short string, args cobra.PositionalArgs, run func(ctx context.Context, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args)
		},
	}
}

func (a *app) cmdOpen(_ context.Context, args []string) error {
	return a.navigate(args[0], false)
}

func (a *app) cmdBack(context.Context, []string) error {
	if _, ok := a.history.Back(); !ok {
		a.printf("Already at the first page.\n")
	}
	return nil
}

func (a *app) cmdHome(context.Context, []string) error {
	return a.navigate("/", false)
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	values := map[string]string{}
	if len(args) == 1 {
		values["username"] = args[0]
	} else {
		u, err := a.prompt.line("Username: ")
		if err != nil {
			return err
		}
		values["username"] = u
	}
	pw, err := a.prompt.password("Password: ")
	if err != nil {
		return err
	}
	values["password"] = pw

	clean, err := a.rules.Validate(forms.Login, values)
	if err != nil {
		return err
	}

	res, err := a.client.Login(ctx, forumclient.LoginRequest{Username: clean["username"], Password: clean["password"]})
	if err != nil {
		return err
	}
	a.printf("%s\n", messageOr(res, "Logged in"))

	a.history.Navigate(a.client.PostLoginTarget(), true)
	return nil
}

func (a *app) cmdLogout(ctx context.Context, _ []string) error {
	a.stopWatch()
	if _, err := a.client.Logout(ctx); err != nil {
		return err
	}
	a.printf("Logged out\n")
	return a.navigate(a.client.LoginPath(), true)
}

func (a *app) cmdWhoami(ctx context.Context, _ []string) error {
	me, err := a.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	a.printf("%s (%s)\n", me.Username, me.Role)
	return nil
}

func (a *app) cmdPasswd(ctx context.Context, _ []string) error {
	values := map[string]string{}
	for _, f := range []struct{ name, label string }{
		{"currentPassword", "Current password: "},
		{"newPassword", "New password: "},
		{"confirmPassword", "Confirm password: "},
	} {
		v, err := a.prompt.password(f.label)
		if err != nil {
			return err
		}
		values[f.name] = v
	}

	clean, err := a.rules.Validate(forms.ChangePassword, values)
	if err != nil {
		return err
	}

	res, err := a.client.ChangePassword(ctx, forumclient.ChangePasswordRequest{
		CurrentPassword: clean["currentPassword"],
		NewPassword:     clean["newPassword"],
	})
	if err != nil {
		return err
	}
	a.printf("%s\n", messageOr(res, "Password changed"))
	return nil
}

func (a *app) cmdNewForum(ctx context.Context, _ []string) error {
	me, err := a.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if !me.IsAdmin() {
		return apperror.New(apperror.KindForbidden, "Only admins can create forums")
	}

	title, err := a.prompt.line("Title: ")
	if err != nil {
		return err
	}
	suggested := slug.Make(title, slug.MaxLength(50))
	s, err := a.prompt.line(fmt.Sprintf("Slug [%s]: ", suggested))
	if err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		s = suggested
	}
	description, err := a.prompt.line("Description: ")
	if err != nil {
		return err
	}
	categories := make([]string, 0, 3)
	for _, c := range forumclient.Categories() {
		categories = append(categories, string(c))
	}
	category, err := a.prompt.choice("Category", categories, categories[0])
	if err != nil {
		return err
	}

	clean, err := a.rules.Validate(forms.CreateForum, map[string]string{
		"title": title, "slug": s, "description": description, "category": category,
	})
	if err != nil {
		return err
	}

	forum, err := a.client.CreateForum(ctx, forumclient.CreateForumRequest{
		Title:       clean["title"],
		Slug:        clean["slug"],
		Description: clean["description"],
		Category:    forumclient.Category(clean["category"]),
	})
	if err != nil {
		return err
	}
	a.printf("Forum %q created\n", forum.Title)
	return a.navigate("/"+gateway.Path("forums", forum.Slug), false)
}

func (a *app) cmdNewPost(ctx context.Context, args []string) error {
	forumSlug, ok := a.currentForum()
	if len(args) == 1 {
		forumSlug, ok = args[0], true
	}
	if !ok {
		return fmt.Errorf("new-post: %w, open a forum or name one", errNotHere)
	}
	if _, err := a.client.ForumBySlug(ctx, forumSlug); err != nil {
		return err
	}

	title, err := a.prompt.line("Title: ")
	if err != nil {
		return err
	}
	content, err := a.prompt.text("Content (markdown)")
	if err != nil {
		return err
	}
	tags, err := a.prompt.line("Tags (comma separated): ")
	if err != nil {
		return err
	}

	clean, err := a.rules.Validate(forms.CreatePost, map[string]string{"title": title, "content": content, "tags": tags})
	if err != nil {
		return err
	}

	post, err := a.client.CreatePost(ctx, forumSlug, forumclient.CreatePostRequest{
		Title:   clean["title"],
		Content: clean["content"],
		Tags:    forms.ParseTags(clean["tags"]),
	})
	if err != nil {
		return err
	}
	return a.navigate("/"+gateway.Path("forums", forumSlug, strconv.Itoa(post.Number)), false)
}

func (a *app) cmdComment(ctx context.Context, args []string) error {
	_, m := a.current()
	if m.Name != screenPost {
		return fmt.Errorf("comment: %w, open a post first", errNotHere)
	}
	number, err := strconv.Atoi(m.Param("postNumber"))
	if err != nil {
		return err
	}

	content := strings.Join(args, " ")
	if content == "" {
		if content, err = a.prompt.text("Comment"); err != nil {
			return err
		}
	}

	clean, err := a.rules.Validate(forms.CreateComment, map[string]string{"content": content})
	if err != nil {
		return err
	}
	if _, err := a.client.CreateComment(ctx, m.Param("slug"), number, forumclient.CreateCommentRequest{Content: clean["content"]}); err != nil {
		return err
	}
	a.refresh = true
	return nil
}

// forumPage returns the posts screen params, failing elsewhere.
func (a *app) forumPage(name string) (forumclient.PostsParams, error) {
	loc, m := a.current()
	if m.Name != screenForum {
		return forumclient.PostsParams{}, fmt.Errorf("%s: %w, open a forum first", name, errNotHere)
	}
	return postsParams(loc), nil
}

func (a *app) gotoPage(p forumclient.PostsParams) error {
	loc, _ := a.current()
	loc = loc.With(paramPage, strconv.Itoa(p.Page)).With(paramPageSize, strconv.Itoa(p.PageSize))
	a.history.Navigate(loc, false)
	return nil
}

func (a *app) pageStep(delta int) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		p, err := a.forumPage("page")
		if err != nil {
			return err
		}
		slugName, _ := a.currentForum()
		page, err := a.client.EnsurePosts(ctx, slugName, p)
		if err != nil {
			return err
		}
		to, ok := forumclient.PaginationOf(page).Goto(p.Page + delta)
		if !ok {
			a.printf("No more pages.\n")
			return nil
		}
		return a.gotoPage(to)
	}
}

func (a *app) cmdPage(ctx context.Context, args []string) error {
	p, err := a.forumPage("page")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("page: %q is not a number", args[0])
	}
	slugName, _ := a.currentForum()
	page, err := a.client.EnsurePosts(ctx, slugName, p)
	if err != nil {
		return err
	}
	to, ok := forumclient.PaginationOf(page).Goto(n)
	if !ok {
		return fmt.Errorf("page: %d is out of range 1..%d", n, page.TotalPages)
	}
	return a.gotoPage(to)
}

func (a *app) cmdSize(_ context.Context, args []string) error {
	p, err := a.forumPage("size")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || !slices.Contains(forumclient.PageSizes, n) {
		return fmt.Errorf("size: choose one of %s", joinInts(forumclient.PageSizes, ", "))
	}
	return a.gotoPage(p.WithPageSize(n))
}

func (a *app) cmdRefresh(context.Context, []string) error {
	a.refresh = true
	return nil
}

func (a *app) cmdWatch(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "stop" {
		if !a.stopWatch() {
			a.printf("Not watching.\n")
		}
		return nil
	}

	p, err := a.forumPage("watch")
	if err != nil {
		return err
	}
	forumSlug, _ := a.currentForum()
	schedule := defaultWatchSchedule
	if len(args) > 0 {
		schedule = strings.Join(args, " ")
	}

	a.stopWatch()
	// Detached from the command so it outlives it; stopWatch ends it.
	wctx := context.WithoutCancel(ctx)
	w, err := a.client.WatchPosts(wctx, forumSlug, p, schedule, func(u forumclient.PostsUpdate) {
		switch {
		case u.Err != nil:
			a.printf("\n[watch %s] %s: %s\n", forumSlug, u.Err.Title, u.Err.Message)
		case len(u.New) > 0:
			a.printf("\n[watch %s] %d new post(s):\n", forumSlug, len(u.New))
			a.postsTable(wctx, u.New)
		}
	})
	if err != nil {
		return err
	}

	a.watchMu.Lock()
	a.watch = w
	a.watchMu.Unlock()
	a.printf("Watching %s (%s). Stop with: watch stop\n", forumSlug, schedule)
	return nil
}

// stopWatch reports whether a watch was running.
func (a *app) stopWatch() bool {
	a.watchMu.Lock()
	w := a.watch
	a.watch = nil
	a.watchMu.Unlock()

	if w == nil {
		return false
	}
	w.Stop()
	return true
}

func messageOr(res forumclient.MessageResponse, def string) string {
	if res.Message == "" {
		return def
	}
	return res.Message
}
