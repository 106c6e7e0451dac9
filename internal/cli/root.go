package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-daily/internal/app"
	"github.com/comitanigiacomo/kanso-daily/internal/config"
	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
	"github.com/comitanigiacomo/kanso-daily/internal/core/services"
)

// Opener builds the application for one command invocation.
type Opener func(ctx context.Context, extra ...domain.Notifier) (*app.App, error)

// DefaultOpener reads the environment (and ./.env) and wires the configured store.
func DefaultOpener(ctx context.Context, extra ...domain.Notifier) (*app.App, error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, extra...)
}

type runner struct {
	open    Opener
	verbose bool
}

// NewRootCmd returns the kanso command tree.
func NewRootCmd(open Opener) *cobra.Command {
	r := &runner{open: open}

	root := &cobra.Command{
		Use:   "kanso",
		Short: "Kanso - daily hydration, workout and learning tracker",
		Long: `Kanso tracks three daily habits: hydration, workout and learning.
Progress belongs to the current day and starts over at local midnight.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !r.verbose {
				log.SetOutput(io.Discard)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&r.verbose, "verbose", "v", false, "Show internal logs")

	root.AddCommand(r.listCmd())
	root.AddCommand(r.showCmd())
	root.AddCommand(r.goalCmd())
	root.AddCommand(r.recordCmd())
	root.AddCommand(r.resetCmd())
	root.AddCommand(r.removeCmd())
	root.AddCommand(r.renameCmd())
	root.AddCommand(r.watchCmd())

	return root
}

// with opens the app, brings every tracker to today and runs fn.
func (r *runner) with(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := r.open(ctx, ColorNotifier{Out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Registry.Open(ctx); err != nil {
		return err
	}
	return fn(ctx, a)
}

// prompter answers from the remaining args, or asks on stdin when there are none.
func prompter(cmd *cobra.Command, args []string) domain.Prompter {
	if len(args) > 0 {
		return domain.Answer{Value: strings.Join(args, " ")}
	}
	return NewStdinPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

func show(cmd *cobra.Command, snap services.Snapshot, err error) error {
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if snap.Cancelled {
		warnColor.Fprintln(out, "Cancelled.")
	}
	renderSnapshot(out, snap)
	return nil
}

func trackerNames() string {
	names := make([]string, 0, 3)
	for _, def := range domain.DefaultDefinitions() {
		names = append(names, def.Path)
	}
	return strings.Join(names, "|")
}

func argsHint(usage string) string {
	return fmt.Sprintf(usage, trackerNames())
}
