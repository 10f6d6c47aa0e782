package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	forumclient "github.com/demoforums/forumclient"
	"github.com/demoforums/forumclient/pkg/navigation"
	"github.com/demoforums/forumclient/pkg/sanitizer"
)

const timeLayout = "2006-01-02 15:04"

// Query parameters of the posts screen.
const (
	paramPage     = "page"
	paramPageSize = "pageSize"
)

// render shows the current location. Protected screens pass the entry guard
// first: a redirect replaces the location and renders the login screen.
func (a *app) render(ctx context.Context) {
	a.refresh = false

	loc, m := a.current()
	if m.Name == "" {
		a.printf("Page %s not found. Try \"open /\".\n", loc.Path)
		return
	}
	if m.Name == screenLogin {
		a.printf("Please log in: login <username>\n")
		return
	}

	d := a.client.Enter(ctx, loc)
	switch d.Outcome {
	case forumclient.Redirect:
		a.history.Navigate(d.RedirectTo, true)
		a.printf("Please log in: login <username>\n")
		return
	case forumclient.Fail:
		a.printError(d.Err)
		return
	}

	var err error
	switch m.Name {
	case screenHome:
		err = a.renderHome(ctx)
	case screenNewForum:
		a.printf("Create a forum with: new-forum\n")
	case screenForum:
		err = a.renderForum(ctx, m.Param("slug"), postsParams(loc))
	case screenNewPost:
		a.printf("Write a post in %s with: new-post\n", m.Param("slug"))
	case screenPost:
		err = a.renderPost(ctx, m.Param("slug"), m.Param("postNumber"))
	}
	if err != nil {
		a.printError(err)
	}
}

func postsParams(loc navigation.Location) forumclient.PostsParams {
	page, _ := strconv.Atoi(loc.Param(paramPage))
	size, _ := strconv.Atoi(loc.Param(paramPageSize))
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = forumclient.DefaultPageSize
	}
	return forumclient.PostsParams{Page: page, PageSize: size}
}

func (a *app) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleLight)
	return t
}

func (a *app) renderHome(ctx context.Context) error {
	forums, err := a.client.Forums(ctx)
	if err != nil {
		return err
	}

	t := a.newTable()
	t.AppendHeader(table.Row{"Category", "Forum", "Title", "Description"})
	for _, cat := range forumclient.Categories() {
		for _, f := range forums {
			if f.Category != cat {
				continue
			}
			t.AppendRow(table.Row{string(cat), f.Slug, sanitizer.Line(f.Title), text.WrapSoft(sanitizer.Line(f.Description), 50)})
		}
		t.AppendSeparator()
	}
	t.Render()

	if me, err := a.client.CurrentUser(ctx); err == nil && me.IsAdmin() {
		a.printf("Admins can add forums with: open /forums/new\n")
	}
	return nil
}

func (a *app) renderForum(ctx context.Context, slug string, p forumclient.PostsParams) error {
	forum, err := a.client.ForumBySlug(ctx, slug)
	if err != nil {
		return err
	}

	// Every visit refetches the page.
	page, err := a.client.Posts(ctx, slug, p)
	if err != nil {
		return err
	}

	a.printf("%s\n%s\n\n", sanitizer.Line(forum.Title), sanitizer.Display(forum.Description))
	a.postsTable(ctx, page.Items)

	pg := forumclient.PaginationOf(page)
	a.printf("%s\n", pg.Summary())
	if pg.Visible() {
		a.printf("Page %d of %d. Commands: prev, next, page <n>, size <%s>\n",
			pg.Page, pg.TotalPages, joinInts(forumclient.PageSizes, "|"))
	}
	return nil
}

func (a *app) postsTable(ctx context.Context, posts []forumclient.Post) {
	t := a.newTable()
	t.AppendHeader(table.Row{"#", "Title", "Author", "Tags", "Created"})
	for _, p := range posts {
		t.AppendRow(table.Row{
			p.Number,
			sanitizer.Line(postTitle(p)),
			sanitizer.Line(a.client.Username(ctx, p.AuthorID)),
			sanitizer.Line(strings.Join(p.Tags, ", ")),
			p.CreatedAt.Local().Format(timeLayout),
		})
	}
	t.Render()
}

func (a *app) renderPost(ctx context.Context, slug, number string) error {
	n, err := strconv.Atoi(number)
	if err != nil || n < 1 {
		return forumclient.AsAppError(fmt.Errorf("invalid post number %q", number))
	}

	post, comments, err := a.client.PostDetail(ctx, slug, n)
	if err != nil {
		return err
	}

	a.printf("#%d %s\nby %s on %s\n",
		post.Number, sanitizer.Line(postTitle(post)),
		sanitizer.Line(a.client.Username(ctx, post.AuthorID)),
		post.CreatedAt.Local().Format(timeLayout))
	if len(post.Tags) > 0 {
		a.printf("tags: %s\n", sanitizer.Line(strings.Join(post.Tags, ", ")))
	}
	a.printf("\n%s\n\n", markdownText(post.Content))

	if len(comments) == 0 {
		a.printf("No comments yet. Add one with: comment <text>\n")
		return nil
	}
	a.printf("Comments (%d)\n", len(comments))
	for _, c := range comments {
		a.printf("- %s, %s\n  %s\n",
			sanitizer.Line(a.client.Username(ctx, c.AuthorID)),
			c.CreatedAt.Local().Format(timeLayout),
			strings.ReplaceAll(sanitizer.Display(c.Content), "\n", "\n  "))
	}
	return nil
}

func postTitle(p forumclient.Post) string {
	if p.Title == "" {
		return "(untitled)"
	}
	return p.Title
}

func joinInts(ns []int, sep string) string {
	s := make([]string, len(ns))
	for i, n := range ns {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, sep)
}

var markdown = goldmark.New()

// markdownText renders markdown as plain terminal text. Raw HTML is dropped.
func markdownText(src string) string {
	source := []byte(src)
	doc := markdown.Parser().Parse(gmtext.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := n.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.Blockquote, *ast.ThematicBreak:
			if entering {
				if _, ok := n.(*ast.ThematicBreak); ok {
					buf.WriteString("----")
				}
				return ast.WalkContinue, nil
			}
			if n.NextSibling() != nil {
				buf.WriteString("\n\n")
			}
		case *ast.ListItem:
			if entering {
				buf.WriteString(listMarker(n))
			} else if n.NextSibling() != nil {
				buf.WriteString("\n")
			}
		case *ast.List:
			if !entering && n.NextSibling() != nil {
				buf.WriteString("\n\n")
			}
		case *ast.TextBlock:
			if !entering && n.NextSibling() != nil {
				buf.WriteString("\n")
			}
		case *ast.Text:
			if entering {
				buf.Write(n.Segment.Value(source))
				if n.HardLineBreak() || n.SoftLineBreak() {
					buf.WriteString("\n")
				}
			}
		case *ast.String:
			if entering {
				buf.Write(n.Value)
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.WriteString("    ")
					buf.Write(seg.Value(source))
				}
				return ast.WalkSkipChildren, nil
			}
		case *ast.Link:
			if !entering {
				fmt.Fprintf(&buf, " (%s)", n.Destination)
			}
		case *ast.AutoLink:
			if entering {
				buf.Write(n.URL(source))
				return ast.WalkSkipChildren, nil
			}
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return sanitizer.Display(buf.String())
}

func listMarker(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "- "
	}
	n := list.Start
	for s := item.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		n++
	}
	return strconv.Itoa(n) + ". "
}
