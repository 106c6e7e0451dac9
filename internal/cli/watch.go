package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-daily/internal/app"
	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
	"github.com/comitanigiacomo/kanso-daily/internal/core/services"
)

func (r *runner) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stay in the foreground, resetting at midnight and printing notices",
		Long: `Run the day-boundary session in the foreground until interrupted.
Resuming the process after a suspend (fg) triggers the same check as a
browser tab becoming visible again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return r.with(cmd, func(_ context.Context, a *app.App) error {
				if err := a.Session.Start(ctx); err != nil {
					return err
				}
				defer a.Session.Stop()

				stopResume := forwardResume(ctx, a.Bus)
				defer stopResume()

				out := cmd.OutOrStdout()
				var snaps []services.Snapshot
				for _, t := range a.Registry.Trackers() {
					snap, err := t.Snapshot(ctx)
					if err != nil {
						return err
					}
					snaps = append(snaps, snap)
				}
				renderList(out, snaps)

				next := domain.NextMidnight(time.Now(), a.Location)
				fmt.Fprintf(out, "Watching. Next reset at %s. Press Ctrl-C to stop.\n", next.Format("2006-01-02 15:04 MST"))

				<-ctx.Done()
				fmt.Fprintln(out, "Stopped.")
				return nil
			})
		},
	}
}
