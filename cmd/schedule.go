package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"podctl/internal/domain"
)

func scheduleCmd() *cobra.Command {
	var command = &cobra.Command{
		Use:   "schedule",
		Short: "Manage scheduled tasks",
	}
	command.AddCommand(scheduleListCmd())
	command.AddCommand(scheduleCancelCmd())
	command.AddCommand(scheduleCleanCmd())
	return command
}

func scheduleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scheduled tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			tasks, err := a.scheduler().List()
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("No scheduled tasks.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTARGET\tACTION\tDUE\tSTATE\tRESULT")
			for _, t := range tasks {
				due := t.DueAt.Local().Format("2006-01-02 15:04")
				if t.State == domain.StatePending {
					due = fmt.Sprintf("%s (%s)", due, humanize.Time(t.DueAt))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Target, t.Action, due, t.State, t.Result)
			}
			return w.Flush()
		},
	}
}

func scheduleCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <task-id>",
		Short: "Cancel a pending task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			task, err := a.scheduler().Cancel(args[0])
			if errors.Is(err, domain.ErrInvalidTransition) {
				return fmt.Errorf("task %s has already finished and cannot be cancelled", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Printf("Cancelled task %s (was due %s).\n", task.ID, task.DueAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func scheduleCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove completed, failed and cancelled tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			removed, err := a.scheduler().Clean()
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Println("No finished tasks to remove.")
				return nil
			}
			fmt.Printf("Removed %d finished task(s).\n", removed)
			return nil
		},
	}
}
