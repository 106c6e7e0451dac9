package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-daily/internal/app"
	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
	"github.com/comitanigiacomo/kanso-daily/internal/core/services"
)

func (r *runner) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show today's progress for every tracker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd, func(ctx context.Context, a *app.App) error {
				var snaps []services.Snapshot
				for _, t := range a.Registry.Trackers() {
					snap, err := t.Snapshot(ctx)
					if err != nil {
						return err
					}
					snaps = append(snaps, snap)
				}
				renderList(cmd.OutOrStdout(), snaps)
				return nil
			})
		},
	}
}

func (r *runner) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   argsHint("show <%s>"),
		Short: "Show one tracker with its actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Registry.Get(args[0])
				if err != nil {
					return err
				}
				snap, err := t.Snapshot(ctx)
				return show(cmd, snap, err)
			})
		},
	}
}

func (r *runner) goalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   argsHint("goal <%s> [value]"),
		Short: "Set today's target or goal",
		Long: `Set today's goal. Hydration takes a target in mL and starts progress over;
workout takes the name of today's workout. Without a value you are prompted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Registry.Get(args[0])
				if err != nil {
					return err
				}
				snap, err := t.SetGoal(ctx, prompter(cmd, args[1:]))
				return show(cmd, snap, err)
			})
		},
	}
}

func (r *runner) recordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   argsHint("record <%s> <action-number> [value]"),
		Short: "Press one of the tracker's actions",
		Long: `Press an action by the number shown in "kanso show". Actions that ask for an
amount take it as the last argument or prompt for it.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: action number must be an integer", domain.ErrInvalidInput)
			}
			return r.with(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Registry.Get(args[0])
				if err != nil {
					return err
				}
				snap, err := t.Record(ctx, n-1, prompter(cmd, args[2:]))
				return show(cmd, snap, err)
			})
		},
	}
}

func (r *runner) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   argsHint("reset <%s>"),
		Short: "Zero today's progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Registry.Get(args[0])
				if err != nil {
					return err
				}
				snap, err := t.Reset(ctx)
				return show(cmd, snap, err)
			})
		},
	}
}

func (r *runner) removeCmd() *cobra.Command {
	var tracker string

	cmd := &cobra.Command{
		Use:   "remove [number]",
		Short: "Remove a completed learning action",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Registry.Get(tracker)
				if err != nil {
					return err
				}
				snap, err := t.RemoveCompleted(ctx, prompter(cmd, args))
				return show(cmd, snap, err)
			})
		},
	}
	cmd.Flags().StringVarP(&tracker, "tracker", "t", string(domain.KindLearning), "Tracker with a completed list")

	return cmd
}

func (r *runner) renameCmd() *cobra.Command {
	var tracker string

	cmd := &cobra.Command{
		Use:   "rename [label]",
		Short: "Rename the customizable learning action",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.with(cmd, func(ctx context.Context, a *app.App) error {
				t, err := a.Registry.Get(tracker)
				if err != nil {
					return err
				}
				snap, err := t.RenameCustomButton(ctx, prompter(cmd, args))
				return show(cmd, snap, err)
			})
		},
	}
	cmd.Flags().StringVarP(&tracker, "tracker", "t", string(domain.KindLearning), "Tracker with a customizable action")

	return cmd
}
