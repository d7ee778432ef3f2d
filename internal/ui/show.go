package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
)

func (a *App) showCmd() *cobra.Command {
	var (
		verbose bool
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:   "show [date]",
		Short: "Show a day's tasks",
		Long: `Display the tasks of a day with overlap markers and stats.

The date accepts YYYY-MM-DD, today, tomorrow, yesterday, weekday names
and next-/last- prefixes. It defaults to today.

Example:
  scheduler show tomorrow
  scheduler show 2025-01-15 --copy`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.ensurePlanner(cmd.Context())
			if err != nil {
				return err
			}

			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			date, err := dateutil.ParseRelativeDate(input, a.clock.Now())
			if err != nil {
				return err
			}

			day, err := p.Day(cmd.Context(), date)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			PrintDay(w, day, PrintOpts{Verbose: verbose})
			if day.IsToday {
				fmt.Fprintln(w)
				PrintDashboard(w, day.Dashboard, day.Now, PrintOpts{UpcomingLimit: a.config.Dashboard.UpcomingLimit})
			}

			if copyOut {
				if err := clipboard.WriteAll(day.Agenda()); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(w, "\nAgenda copied to clipboard.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full names and task IDs")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the agenda to the clipboard")
	return cmd
}

func (a *App) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show what is active, next and overdue today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.ensurePlanner(cmd.Context())
			if err != nil {
				return err
			}
			day, err := p.Day(cmd.Context(), a.clock.Now())
			if err != nil {
				return err
			}
			PrintDashboard(cmd.OutOrStdout(), day.Dashboard, day.Now, PrintOpts{UpcomingLimit: a.config.Dashboard.UpcomingLimit})
			return nil
		},
	}
}
