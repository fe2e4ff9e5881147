package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"podctl/internal/domain"
)

func destroyCmd() *cobra.Command {
	var force bool
	var command = &cobra.Command{
		Use:   "destroy <alias>",
		Short: "Terminate a pod and remove its alias and SSH config block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias := args[0]
			a := newApp()

			podID, err := a.aliases.Resolve(alias)
			if err != nil {
				return err
			}

			if !force {
				fmt.Printf("Destroy pod %q (%s)? This cannot be undone. [y/N]: ", alias, podID)
				var answer string
				_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					fmt.Println("Aborted.")
					return nil
				}
			}

			// Best-effort stop before termination; a failed stop is not fatal.
			if a.client.Status(cmd.Context(), podID) == domain.PodRunning {
				if err := a.client.StopPod(cmd.Context(), podID); err != nil {
					fmt.Printf("warning: could not stop pod first: %v\n", err)
				}
			}

			if err := a.client.TerminatePod(cmd.Context(), podID); err != nil {
				return fmt.Errorf("terminating pod %s: %w", podID, err)
			}
			if err := a.hosts.RemoveHost(alias); err != nil {
				fmt.Printf("warning: could not remove ssh config block: %v\n", err)
			}
			if err := a.aliases.Delete(alias, true); err != nil {
				return err
			}
			fmt.Printf("Destroyed pod %q (%s).\n", alias, podID)
			return nil
		},
	}
	command.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return command
}
