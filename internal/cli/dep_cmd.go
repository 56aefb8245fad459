package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/svelazco/cronos/internal/cli/formatter"
	"github.com/svelazco/cronos/internal/domain"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage task dependencies",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepRemoveCmd(app),
		newDepListCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var scheduleRef, source, target, depType string
	var lag int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Link two tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scheduleID, err := resolveScheduleID(ctx, app, scheduleRef)
			if err != nil {
				return err
			}

			d := &domain.Dependency{
				ScheduleID:   scheduleID,
				SourceTaskID: source,
				TargetTaskID: target,
				Type:         domain.DependencyType(depType),
				LagDays:      lag,
			}
			if err := app.Deps.Add(ctx, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s → %s (%s%+dd)\n",
				source[:8], target[:8], d.Type, d.LagDays)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleRef, "schedule", "", "Schedule name or ID")
	cmd.Flags().StringVar(&source, "from", "", "Source task ID")
	cmd.Flags().StringVar(&target, "to", "", "Target task ID")
	cmd.Flags().StringVar(&depType, "type", "FS", "Dependency type (FS, SS, FF, SF)")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in calendar days (negative for lead)")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <dependency-id>",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Deps.Remove(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Dependency removed.")
			return nil
		},
	}
}

func newDepListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <schedule>",
		Short: "List a schedule's dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scheduleID, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			deps, err := app.Deps.ListBySchedule(ctx, scheduleID)
			if err != nil {
				return err
			}
			if len(deps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No dependencies.")
				return nil
			}

			rows := make([][]string, 0, len(deps))
			for _, d := range deps {
				rows = append(rows, []string{
					formatter.ShortID(d.ID),
					formatter.ShortID(d.SourceTaskID),
					formatter.ShortID(d.TargetTaskID),
					string(d.Type),
					strconv.Itoa(d.LagDays),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(
				[]string{"ID", "FROM", "TO", "TYPE", "LAG"}, rows))
			return nil
		},
	}
}
