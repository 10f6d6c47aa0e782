// Command forumctl is an interactive terminal client for the forum API.
//
// It keeps one session for the life of the process: log in, browse forums
// and posts, write posts and comments. Locations use the same paths as the
// web application, so "open /forums/golang?page=2" works as expected.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "forumctl:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "forumctl [location]",
		Short:         "Interactive forum client",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), os.Environ())
			if err != nil {
				return err
			}

			start := "/"
			if len(args) == 1 {
				start = args[0]
			}

			a, cleanup, err := newApp(cmd.Context(), cfg, start, os.Stdin, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()
			defer sentry.Flush(flushTimeout)

			return a.run(cmd.Context())
		},
	}
	registerFlags(cmd.Flags())
	return cmd
}
