package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/planner"
	"github.com/jborjas31/my-scheduler/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date     string
		start    string
		end      string
		priority string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new task",
		Long: `Add a new task to a day.

Times accept "14:30" or "2:30 PM". An end before the start makes the
task run past midnight.

Example:
  scheduler add "Write documentation" --start 9:00 --end "11:00 AM" --priority fixed
  scheduler add "Night shift" --date tomorrow --start 23:00 --end 01:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.ensurePlanner(cmd.Context())
			if err != nil {
				return err
			}

			startMin, err := parseTimeFlag("start", start)
			if err != nil {
				return err
			}
			endMin, err := parseTimeFlag("end", end)
			if err != nil {
				return err
			}
			day, err := dateutil.ParseRelativeDate(date, a.clock.Now())
			if err != nil {
				return err
			}
			prio, err := task.ParsePriority(strings.ToLower(priority))
			if err != nil {
				return err
			}

			out, err := p.Add(cmd.Context(), planner.Request{
				Name:     args[0],
				Start:    startMin,
				End:      endMin,
				Priority: prio,
				Date:     day,
			}, confirmer(yes, cmd.InOrStdin(), cmd.OutOrStdout()))
			return a.report(cmd, out, err)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day: YYYY-MM-DD, today, tomorrow, monday... (default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (required)")
	cmd.Flags().StringVar(&priority, "priority", string(task.PriorityFlexible), "fixed or flexible")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Answer yes to midnight and overlap questions")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var (
		name     string
		start    string
		end      string
		priority string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "edit [task-id]",
		Short: "Change a task",
		Long: `Change the name, times or priority of a task. Only the flags given
are changed. Midnight and overlap questions are asked when the times move.

Example:
  scheduler edit 3f2a… --end 11:30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.ensurePlanner(cmd.Context())
			if err != nil {
				return err
			}

			var req planner.EditRequest
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("start") {
				m, err := parseTimeFlag("start", start)
				if err != nil {
					return err
				}
				req.Start = &m
			}
			if flags.Changed("end") {
				m, err := parseTimeFlag("end", end)
				if err != nil {
					return err
				}
				req.End = &m
			}
			if flags.Changed("priority") {
				prio, err := task.ParsePriority(strings.ToLower(priority))
				if err != nil {
					return err
				}
				req.Priority = &prio
			}

			out, err := p.Edit(cmd.Context(), args[0], req, confirmer(yes, cmd.InOrStdin(), cmd.OutOrStdout()))
			return a.report(cmd, out, err)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&start, "start", "", "New start time")
	cmd.Flags().StringVar(&end, "end", "", "New end time")
	cmd.Flags().StringVar(&priority, "priority", "", "fixed or flexible")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Answer yes to midnight and overlap questions")
	return cmd
}

func (a *App) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [task-id]",
		Short: "Toggle a task's completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.ensurePlanner(cmd.Context())
			if err != nil {
				return err
			}
			out, err := p.Toggle(cmd.Context(), args[0])
			return a.report(cmd, out, err)
		},
	}
}

func (a *App) deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [task-id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.ensurePlanner(cmd.Context())
			if err != nil {
				return err
			}
			out, err := p.Delete(cmd.Context(), args[0], confirmer(yes, cmd.InOrStdin(), cmd.OutOrStdout()))
			return a.report(cmd, out, err)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// report prints the result of a change. A declined prompt is not an error.
func (a *App) report(cmd *cobra.Command, out *planner.Outcome, err error) error {
	w := cmd.OutOrStdout()
	switch {
	case errors.Is(err, planner.ErrDeclined):
		fmt.Fprintln(w, "Cancelled.")
		return nil
	case errors.Is(err, planner.ErrNothingToUpdate):
		fmt.Fprintln(w, "Nothing to update.")
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintln(w, out.Message)
	if out.Day != nil {
		fmt.Fprintln(w)
		PrintDay(w, out.Day, PrintOpts{UpcomingLimit: a.config.Dashboard.UpcomingLimit})
	}
	return nil
}

func parseTimeFlag(name, value string) (int, error) {
	m, err := task.ParseManual(value)
	if errors.Is(err, task.ErrNoTimeInput) {
		return 0, fmt.Errorf("--%s: please enter a time", name)
	}
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return m, nil
}
