package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/launchr/internal/aggregate"
	"github.com/VoxDroid/launchr/internal/host"
	"github.com/VoxDroid/launchr/internal/tui/sanitize"
)

var queryCmd = &cobra.Command{
	Use:   "query [text...]",
	Short: "Print the merged results for a query without the UI",
	Long: `Print the merged results for a query without the UI. Examples:
  launchr query fire
  launchr query fire --launch 0

Each line is the merged position, the plugin, the score and the entry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		launchAt, _ := cmd.Flags().GetInt("launch")

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

		list, err := runQuery(ctx, a.router, a.pending, text, a.cfg.Settings.MaxEntries, timeout)
		if err != nil {
			return err
		}
		printList(out, a.router.Registry(), list)

		if launchAt >= 0 {
			pending, ok := a.router.Launch(list, launchAt)
			if !ok {
				return fmt.Errorf("no entry at position %d", launchAt)
			}
			if err := settle(ctx, a.router, pending, timeout); err != nil {
				return err
			}
		}
		printErrors(errOut, a.router.Registry())
		_, _ = fmt.Fprintf(out, "showing %d of %d\n", len(list), a.router.Registry().Count())
		return nil
	},
}

// runQuery lets the constructor tasks finish, applies text as the filter and
// waits for the rankings, then merges the views.
func runQuery(ctx context.Context, r *host.Router, pending []host.Pending, text string, maxEntries int, timeout time.Duration) (aggregate.List, error) {
	if err := settle(ctx, r, pending, timeout); err != nil {
		return nil, err
	}
	if err := settle(ctx, r, r.SetFilter(text), timeout); err != nil {
		return nil, err
	}
	return r.Registry().Merge(maxEntries), nil
}

// settle drains pending within timeout. Running out of time is not an error:
// whatever has arrived is used.
func settle(ctx context.Context, r *host.Router, pending []host.Pending, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := host.Drain(ctx, r, pending)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func printList(w io.Writer, reg *host.Registry, list aggregate.List) {
	for i, e := range list {
		name := "?"
		if in, ok := reg.Instance(e.Origin); ok {
			name = in.Name
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i, name, e.Score, sanitize.Line(e.Item.Render(0, false)))
	}
}

func printErrors(w io.Writer, reg *host.Registry) {
	for _, pe := range reg.Errors() {
		for _, msg := range pe.Messages {
			_, _ = fmt.Fprintf(w, "%s: %s\n", pe.Name, msg)
		}
	}
}

func init() {
	queryCmd.Flags().Duration("timeout", 3*time.Second, "How long to wait for plugins")
	queryCmd.Flags().Int("launch", -1, "Launch the entry at this merged position")
	rootCmd.AddCommand(queryCmd)
}
