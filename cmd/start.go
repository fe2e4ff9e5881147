package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"podctl/internal/domain"
)

func startCmd() *cobra.Command {
	var command = &cobra.Command{
		Use:   "start <alias>",
		Short: "Resume a pod and refresh its SSH config entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias := args[0]
			a := newApp()

			podID, err := a.aliases.Resolve(alias)
			if err != nil {
				return err
			}

			fmt.Printf("Resuming pod %q (%s)...\n", alias, podID)
			if err := a.client.ResumePod(cmd.Context(), podID); err != nil {
				// Resume of an already-running pod fails at the API; tolerate
				// it when the pod turns out to be running.
				pod, getErr := a.client.GetPod(cmd.Context(), podID)
				if getErr != nil || pod.Status() != domain.PodRunning {
					return fmt.Errorf("resuming pod %s: %w", podID, err)
				}
				fmt.Println("Pod was already running.")
			}

			fmt.Println("Waiting for the pod to become ready...")
			pod, err := a.client.WaitReady(cmd.Context(), podID)
			if err != nil {
				return err
			}

			ip, port, ok := pod.SSHEndpoint()
			if !ok {
				return fmt.Errorf("pod %s is running but has no public SSH endpoint", podID)
			}
			if err := a.hosts.UpsertHost(alias, podID, ip, port); err != nil {
				return err
			}
			fmt.Printf("Pod is running. Connect with: ssh %s\n", alias)
			return nil
		},
	}
	return command
}
