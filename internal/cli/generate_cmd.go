package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svelazco/cronos/internal/service"
)

func newGenerateCmd(app *App) *cobra.Command {
	var scheduleRef, catalogPath, start, end string
	var quick, useDeps bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a schedule tree from a quotation catalog file",
		Long: `Generate reads a catalog JSON file and builds the full phase /
work-breakdown / activity / task tree on an empty schedule.

By default sibling tasks are chained finish-to-start with one day of lag.
With --quick, task starts are spread evenly across --start..--end and no
dependencies are created. With --deps, the dependency list embedded in the
catalog file is applied instead of the implicit chaining.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if quick && useDeps {
				return fmt.Errorf("--quick and --deps are mutually exclusive")
			}

			ctx := context.Background()
			scheduleID, err := resolveScheduleID(ctx, app, scheduleRef)
			if err != nil {
				return err
			}

			req := service.FileRequest{
				ScheduleID: scheduleID,
				Path:       catalogPath,
				Mode:       service.ModeSequential,
			}
			if req.StartDate, err = parseDate(start); err != nil {
				return err
			}
			switch {
			case quick:
				req.Mode = service.ModeQuick
				if end == "" {
					return fmt.Errorf("--quick requires --end")
				}
				if req.WindowEnd, err = parseDate(end); err != nil {
					return err
				}
			case useDeps:
				req.Mode = service.ModeAdvanced
			}

			result, err := app.Generate.FromFile(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d node(s) and %d dependenc(ies)\n",
				result.NodeCount, result.DependencyCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleRef, "schedule", "", "Schedule name or ID")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog JSON file")
	cmd.Flags().StringVar(&start, "start", "", "Anchor start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Window end for --quick (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&quick, "quick", false, "Spread tasks evenly across the window, no dependencies")
	cmd.Flags().BoolVar(&useDeps, "deps", false, "Apply the catalog file's dependency list")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}
