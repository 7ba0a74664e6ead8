package cli

import (
	"fmt"

	"github.com/alexanderramin/falsework/internal/cli/formatter"
	"github.com/alexanderramin/falsework/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// positionValue is a pflag.Value that validates placement flags at parse
// time instead of deep inside the edit engine.
type positionValue contract.Position

var _ pflag.Value = (*positionValue)(nil)

func (p *positionValue) String() string { return string(*p) }

func (p *positionValue) Type() string { return "position" }

func (p *positionValue) Set(raw string) error {
	pos := contract.Position(raw)
	if !pos.IsValid() {
		return fmt.Errorf("must be one of before, after, under")
	}
	*p = positionValue(pos)
	return nil
}

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Inspect and restructure the task outline",
	}

	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskSetCmd(app),
		newTaskMoveCmd(app),
		newTaskInsertCmd(app),
		newTaskRemoveCmd(app),
		newTaskMergeCmd(app),
		newTaskSplitCmd(app),
	)

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List tasks with durations, dates, and dependencies",
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
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskTable(p.Tasks))
			return nil
		},
	}
}

func newTaskSetCmd(app *App) *cobra.Command {
	var (
		name           string
		hours          float64
		milestone      bool
		percent        int
		constraint     string
		constraintDate string
		notes          string
		addPred        string
		predType       string
		predLag        float64
		predLagFormat  string
		removePred     string
	)

	cmd := &cobra.Command{
		Use:   "set PROJECT OUTLINE",
		Short: "Update fields on a task in place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.SetTaskRequest{Outline: args[1]}
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("hours") {
				req.DurationHours = &hours
			}
			if flags.Changed("milestone") {
				req.Milestone = &milestone
			}
			if flags.Changed("percent") {
				req.PercentComplete = &percent
			}
			if flags.Changed("constraint") {
				req.ConstraintType = &constraint
			}
			if flags.Changed("constraint-date") {
				req.ConstraintDate = &constraintDate
			}
			if flags.Changed("notes") {
				req.Notes = &notes
			}
			if flags.Changed("add-pred") {
				req.AddPredecessor = &contract.LinkSpec{
					RefOutline: addPred,
					Type:       predType,
					Lag:        predLag,
					LagFormat:  predLagFormat,
				}
			}
			if flags.Changed("remove-pred") {
				req.RemovePredecessor = &removePred
			}

			result, err := app.Edits.SetTask(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", args[1])
			if len(result.CycleFixes) > 0 {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEditResult(result))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New task name")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Duration in working hours")
	cmd.Flags().BoolVar(&milestone, "milestone", false, "Mark (or with =false unmark) as milestone")
	cmd.Flags().IntVar(&percent, "percent", 0, "Percent complete (0-100)")
	cmd.Flags().StringVar(&constraint, "constraint", "", "Constraint type (asap, alap, must_start_on, ...)")
	cmd.Flags().StringVar(&constraintDate, "constraint-date", "", "Constraint date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&addPred, "add-pred", "", "Add a predecessor link to this outline number")
	cmd.Flags().StringVar(&predType, "pred-type", "", "Link type for --add-pred (FS|SS|FF|SF, default FS)")
	cmd.Flags().Float64Var(&predLag, "pred-lag", 0, "Lag for --add-pred")
	cmd.Flags().StringVar(&predLagFormat, "pred-lag-format", "", "Lag unit for --add-pred (days|hours, default days)")
	cmd.Flags().StringVar(&removePred, "remove-pred", "", "Remove the predecessor link to this outline number")

	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	position := positionValue(contract.PositionAfter)

	cmd := &cobra.Command{
		Use:   "move PROJECT OUTLINE TARGET",
		Short: "Move a task (and its subtree) relative to another task",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Edits.Move(cmd.Context(), args[0], contract.MoveRequest{
				Outline:  args[1],
				Target:   args[2],
				Position: contract.Position(position),
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEditResult(result))
			return nil
		},
	}

	cmd.Flags().Var(&position, "position", "Placement relative to target (before|after|under)")

	return cmd
}

func newTaskInsertCmd(app *App) *cobra.Command {
	position := positionValue(contract.PositionAfter)
	var name string
	var hours float64
	var noLink bool

	cmd := &cobra.Command{
		Use:     "insert PROJECT [REFERENCE]",
		Aliases: []string{"add"},
		Short:   "Insert a new task next to a reference task, or append at the end",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reference := ""
			if len(args) == 2 {
				reference = args[1]
			} else {
				// No reference appends after the last top-level task.
				p, err := app.Projects.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, task := range p.Tasks {
					if task.OutlineLevel == 1 {
						reference = task.OutlineNumber
					}
				}
			}
			result, err := app.Edits.Insert(cmd.Context(), args[0], contract.InsertRequest{
				Name:          name,
				Reference:     reference,
				Position:      contract.Position(position),
				DurationHours: hours,
				NoLink:        noLink,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEditResult(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().Var(&position, "position", "Placement relative to reference (before|after|under)")
	cmd.Flags().Float64Var(&hours, "hours", 8, "Duration in working hours")
	cmd.Flags().BoolVar(&noLink, "no-link", false, "Skip the default finish-to-start link from the reference")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	var relink bool

	cmd := &cobra.Command{
		Use:   "remove PROJECT OUTLINE",
		Short: "Remove a task; a summary takes its whole subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Edits.Delete(cmd.Context(), args[0], contract.DeleteRequest{
				Outline: args[1],
				Relink:  relink,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEditResult(result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&relink, "relink", false, "Rebind successors to the removed task's predecessors")

	return cmd
}

func newTaskMergeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "merge PROJECT PRIMARY SECONDARY",
		Short: "Fold the secondary task into the primary",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Edits.Merge(cmd.Context(), args[0], contract.MergeRequest{
				Primary:   args[1],
				Secondary: args[2],
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEditResult(result))
			return nil
		},
	}
}

func newTaskSplitCmd(app *App) *cobra.Command {
	var parts int

	cmd := &cobra.Command{
		Use:   "split PROJECT OUTLINE",
		Short: "Split a task into chained equal-duration parts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Edits.Split(cmd.Context(), args[0], contract.SplitRequest{
				Outline: args[1],
				Parts:   parts,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEditResult(result))
			return nil
		},
	}

	cmd.Flags().IntVar(&parts, "parts", 2, "Number of parts")

	return cmd
}
