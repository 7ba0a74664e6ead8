package cli

import (
	"fmt"

	"github.com/alexanderramin/falsework/internal/cli/formatter"
	"github.com/alexanderramin/falsework/internal/contract"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute and repair project dates",
	}

	cmd.AddCommand(
		newScheduleRecomputeCmd(app),
		newScheduleFixCmd(app),
	)

	return cmd
}

func newScheduleRecomputeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute PROJECT",
		Short: "Propagate start and finish dates through the dependency graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Schedule.Recompute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScheduleResult(result))
			return nil
		},
	}
}

func newScheduleFixCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fix PROJECT",
		Short: "Repair broken references, cycles, lags, and invariants, then reschedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Schedule.Fix(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFixReport(report))
			return nil
		},
	}
}

func newViewCmd(app *App) *cobra.Command {
	var table bool

	cmd := &cobra.Command{
		Use:   "view PROJECT",
		Short: "Render the computed schedule as a task tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(p.Tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}
			if table {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskTable(p.Tasks))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskTree(p.Tasks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&table, "table", false, "Render a flat table instead of the tree")

	return cmd
}

func newReorganizeCmd(app *App) *cobra.Command {
	var stagger float64

	cmd := &cobra.Command{
		Use:   "reorganize PROJECT",
		Short: "Group a flat task list into construction phases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Edits.Reorganize(cmd.Context(), args[0], contract.ReorganizeRequest{
				StaggerDays: stagger,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReorganizeResult(result))
			return nil
		},
	}

	cmd.Flags().Float64Var(&stagger, "stagger", 0, "Working days to offset each parallel phase")

	return cmd
}
