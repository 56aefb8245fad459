package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/svelazco/cronos/internal/domain"
)

func newNodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage schedule nodes",
	}

	cmd.AddCommand(
		newNodeAddCmd(app),
		newNodeUpdateCmd(app),
		newNodeRemoveCmd(app),
		newNodeReorderCmd(app),
		newNodeTreeCmd(app),
	)

	return cmd
}

func newNodeAddCmd(app *App) *cobra.Command {
	var scheduleRef, name, kind, parentID, start, status, priority, responsible string
	var hours float64
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a node to a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scheduleID, err := resolveScheduleID(ctx, app, scheduleRef)
			if err != nil {
				return err
			}

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive requires a terminal")
				}
				if err := runNodeAddForm(&name, &kind, &parentID, &start, &hours); err != nil {
					return err
				}
			}

			n := &domain.ScheduleNode{
				ScheduleID:     scheduleID,
				Kind:           domain.NodeKind(kind),
				Name:           name,
				EstimatedHours: hours,
				Status:         domain.NodeStatus(status),
				Priority:       domain.NodePriority(priority),
				ResponsibleRef: responsible,
			}
			if parentID != "" {
				n.ParentID = &parentID
			}
			if start != "" {
				d, err := parseDate(start)
				if err != nil {
					return err
				}
				n.StartDate = &d
			}

			if err := app.Nodes.Create(ctx, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", n.Kind, n.Name, n.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleRef, "schedule", "", "Schedule name or ID")
	cmd.Flags().StringVar(&name, "name", "", "Node name")
	cmd.Flags().StringVar(&kind, "kind", "", "Node kind (phase, work_breakdown, activity, task)")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent node ID (omit for phases)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, tasks only)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Estimated hours (tasks only)")
	cmd.Flags().StringVar(&status, "status", "planned", "Status")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority")
	cmd.Flags().StringVar(&responsible, "responsible", "", "Responsible reference")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Fill the node in an interactive form")
	_ = cmd.MarkFlagRequired("schedule")

	return cmd
}

func newNodeUpdateCmd(app *App) *cobra.Command {
	var name, parentID, start, status, priority, responsible string
	var hours float64
	var progress float64

	cmd := &cobra.Command{
		Use:   "update <node-id>",
		Short: "Update a node's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			n, err := app.Nodes.GetByID(ctx, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				n.Name = name
			}
			if cmd.Flags().Changed("parent") {
				if parentID == "" {
					n.ParentID = nil
				} else {
					n.ParentID = &parentID
				}
			}
			if cmd.Flags().Changed("start") {
				d, err := parseDate(start)
				if err != nil {
					return err
				}
				n.StartDate = &d
				n.EndDate = nil // re-derived from hours
			}
			if cmd.Flags().Changed("hours") {
				n.EstimatedHours = hours
				n.EndDate = nil
			}
			if cmd.Flags().Changed("progress") {
				n.ProgressPercent = progress
			}
			if cmd.Flags().Changed("status") {
				n.Status = domain.NodeStatus(status)
			}
			if cmd.Flags().Changed("priority") {
				n.Priority = domain.NodePriority(priority)
			}
			if cmd.Flags().Changed("responsible") {
				n.ResponsibleRef = responsible
			}

			if err := app.Nodes.Update(ctx, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", n.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Node name")
	cmd.Flags().StringVar(&parentID, "parent", "", "New parent node ID (empty to detach a phase)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Estimated hours")
	cmd.Flags().Float64Var(&progress, "progress", 0, "Progress percent (0-100)")
	cmd.Flags().StringVar(&status, "status", "", "Status")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority")
	cmd.Flags().StringVar(&responsible, "responsible", "", "Responsible reference")

	return cmd
}

func newNodeRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <node-id>",
		Short: "Delete a node and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Nodes.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Node and subtree deleted.")
			return nil
		},
	}
}

func newNodeReorderCmd(app *App) *cobra.Command {
	var scheduleRef, parentID string

	cmd := &cobra.Command{
		Use:   "reorder <node-id>...",
		Short: "Rewrite sibling order under a parent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scheduleID, err := resolveScheduleID(ctx, app, scheduleRef)
			if err != nil {
				return err
			}
			if err := app.Nodes.Reorder(ctx, scheduleID, parentID, args); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reordered %s sibling(s)\n", strconv.Itoa(len(args)))
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleRef, "schedule", "", "Schedule name or ID")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent node ID (omit for the phase level)")
	_ = cmd.MarkFlagRequired("schedule")

	return cmd
}

func newNodeTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <schedule>",
		Short: "Print the schedule tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			scheduleID, err := resolveScheduleID(ctx, app, args[0])
			if err != nil {
				return err
			}
			tree, err := buildScheduleTree(ctx, app, scheduleID)
			if err != nil {
				return err
			}
			if tree == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Schedule is empty.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), tree)
			return nil
		},
	}
}
