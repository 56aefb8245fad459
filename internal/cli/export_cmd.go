package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/svelazco/cronos/internal/cli/formatter"
	"github.com/svelazco/cronos/internal/engine"
)

// exportDocument is the JSON envelope written by "cronos export". The flat
// node list is the interchange shape MS-Project style writers consume.
type exportDocument struct {
	ScheduleID   string                  `json:"schedule_id"`
	Name         string                  `json:"name"`
	Kind         string                  `json:"kind"`
	Nodes        []engine.FlatNode       `json:"nodes"`
	Dependencies []engine.FlatDependency `json:"dependencies"`
	Warnings     []string                `json:"warnings,omitempty"`
}

func newExportCmd(app *App) *cobra.Command {
	var scheduleRef, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a schedule as flat JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scheduleID, err := resolveScheduleID(ctx, app, scheduleRef)
			if err != nil {
				return err
			}

			result, err := app.Export.Export(ctx, scheduleID)
			if err != nil {
				return err
			}

			doc := exportDocument{
				ScheduleID:   result.Schedule.ID,
				Name:         result.Schedule.Name,
				Kind:         string(result.Schedule.Kind),
				Nodes:        result.Nodes,
				Dependencies: result.Dependencies,
				Warnings:     result.Warnings,
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding export: %w", err)
			}
			data = append(data, '\n')

			for _, w := range result.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("warning: ")+w)
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d node(s) to %s\n", len(result.Nodes), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleRef, "schedule", "", "Schedule name or ID")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to file instead of stdout")
	_ = cmd.MarkFlagRequired("schedule")

	return cmd
}
