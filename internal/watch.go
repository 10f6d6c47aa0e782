package internal

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/demoforums/forumclient/pkg/apperror"
)

// ErrInvalidSchedule is returned by WatchPosts for an unparsable schedule.
var ErrInvalidSchedule = errors.New("forumclient: invalid watch schedule")

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// PostsUpdate is delivered by a posts watch.
type PostsUpdate struct {
	Err  *apperror.AppError
	Page Page[Post]
	// New lists posts not present in the previous delivery.
	New []Post
}

// Watch is a running background refetch.
type Watch struct {
	cron   *cron.Cron
	cancel context.CancelFunc
}

// Stop halts the schedule and waits for a running refetch to finish.
func (w *Watch) Stop() {
	w.cancel()
	<-w.cron.Stop().Done()
}

// WatchPosts refetches a page of posts on schedule ("@every 30s" or a
// five-field cron expression) and calls fn with the first result, every error
// and every change. Overlapping runs are skipped.
func (c *Client) WatchPosts(ctx context.Context, slug string, p PostsParams, schedule string, fn func(PostsUpdate)) (*Watch, error) {
	sched, err := scheduleParser.Parse(schedule)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	cr := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	var (
		seen    map[string]bool
		started bool
	)
	cr.Schedule(sched, cron.FuncJob(func() {
		page, err := c.Posts(ctx, slug, p)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.DebugContext(ctx, "watch refetch failed", slog.String("slug", slug), slog.String("error", err.Error()))
			fn(PostsUpdate{Err: apperror.FromUnknown(err)})
			return
		}

		var fresh []Post
		next := make(map[string]bool, len(page.Items))
		for _, post := range page.Items {
			next[post.ID] = true
			if started && !seen[post.ID] {
				fresh = append(fresh, post)
			}
		}
		changed := !started || len(fresh) > 0 || len(next) != len(seen)
		seen, started = next, true

		if changed {
			fn(PostsUpdate{Page: page, New: fresh})
		}
	}))
	cr.Start()

	return &Watch{cron: cr, cancel: cancel}, nil
}
