package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func stopCmd() *cobra.Command {
	var (
		at     string
		in     string
		dryRun bool
	)

	var command = &cobra.Command{
		Use:   "stop <alias>",
		Short: "Stop a pod now, or schedule the stop for later",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias := args[0]
			a := newApp()

			// Validate the alias up front so a typo fails at schedule time,
			// not an hour later inside a tick.
			podID, err := a.aliases.Resolve(alias)
			if err != nil {
				return err
			}

			if at == "" && in == "" {
				if dryRun {
					fmt.Printf("dry-run: would stop %q now\n", alias)
					return nil
				}
				fmt.Printf("Stopping pod %q...\n", alias)
				if err := a.client.StopPod(cmd.Context(), podID); err != nil {
					return err
				}
				if err := a.hosts.RemoveHost(alias); err != nil {
					fmt.Printf("warning: could not remove ssh config block: %v\n", err)
				}
				fmt.Println("Pod stopped.")
				return nil
			}

			now := time.Now()
			if dryRun {
				dueAt, err := a.scheduler().ResolveDueTime(at, in, now)
				if err != nil {
					return err
				}
				fmt.Printf("dry-run: would schedule stop of %q at %s (%s)\n",
					alias, dueAt.Local().Format("2006-01-02 15:04 MST"), humanize.Time(dueAt))
				return nil
			}

			task, err := a.scheduler().ScheduleStop(alias, at, in, now)
			if err != nil {
				return err
			}
			fmt.Printf("Scheduled stop of %q at %s (%s). id=%s\n",
				alias, task.DueAt.Local().Format("2006-01-02 15:04 MST"), humanize.Time(task.DueAt), task.ID)
			return nil
		},
	}

	command.Flags().StringVar(&at, "at", "", `Stop at a time, e.g. "22:00", "2025-01-03 09:30", "tomorrow 09:30"`)
	command.Flags().StringVar(&in, "in", "", `Stop after a duration, e.g. "3h", "45m", "1d2h30m"`)
	command.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without doing it")

	return command
}
