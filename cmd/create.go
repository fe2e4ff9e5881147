package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"podctl/internal/infra/podapi"
	"podctl/internal/registry"
)

const (
	defaultImage           = "runpod/pytorch:2.8.0-py3.11-cuda12.8.1-cudnn-devel-ubuntu22.04"
	defaultContainerDiskGB = 20
)

func createCmd() *cobra.Command {
	var (
		alias   string
		gpu     string
		storage string
		image   string
		force   bool
		dryRun  bool
	)

	var command = &cobra.Command{
		Use:   "create [template]",
		Short: "Provision a new pod from a template or an explicit spec",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()

			if len(args) == 0 && (alias == "" || gpu == "" || storage == "") {
				return fmt.Errorf("either name a template or pass all of --alias, --gpu and --storage")
			}

			if len(args) == 1 {
				tpl, err := a.templates.Get(args[0])
				if err != nil {
					return err
				}
				gpu = tpl.GPUSpec
				storage = tpl.StorageSpec
				if image == "" {
					image = tpl.Image
				}
				if alias == "" {
					alias, err = a.aliases.NextAlias(tpl.AliasTemplate)
					if err != nil {
						return err
					}
				}
			}

			count, model, err := registry.ParseGPUSpec(gpu)
			if err != nil {
				return err
			}
			volumeGB, err := registry.ParseStorageSpec(storage)
			if err != nil {
				return err
			}
			if image == "" {
				image = defaultImage
			}

			// Fail on an alias collision before the pod exists, not after.
			if _, err := a.aliases.Resolve(alias); err == nil && !force {
				return fmt.Errorf("alias %q already exists (use --force to overwrite)", alias)
			}

			if dryRun {
				fmt.Printf("dry-run: would create %q (%s, %dGB volume, %s)\n", alias, gpu, volumeGB, image)
				return nil
			}

			fmt.Printf("Creating pod %q (%s, %dGB volume)...\n", alias, gpu, volumeGB)
			pod, err := a.client.CreatePod(cmd.Context(), podapi.CreatePodRequest{
				Name:              alias,
				ImageName:         image,
				GPUTypeID:         model,
				GPUCount:          count,
				VolumeInGB:        volumeGB,
				ContainerDiskInGB: defaultContainerDiskGB,
				SupportPublicIP:   true,
				StartSSH:          true,
			})
			if err != nil {
				return err
			}
			if err := a.aliases.Add(alias, pod.ID, true); err != nil {
				return err
			}

			fmt.Println("Waiting for the pod to become ready...")
			ready, err := a.client.WaitReady(cmd.Context(), pod.ID)
			if err != nil {
				return err
			}
			ip, port, ok := ready.SSHEndpoint()
			if !ok {
				fmt.Printf("Pod %s is running but has no public SSH endpoint yet.\n", pod.ID)
				return nil
			}
			if err := a.hosts.UpsertHost(alias, pod.ID, ip, port); err != nil {
				return err
			}
			fmt.Printf("Pod is running. Connect with: ssh %s\n", alias)
			return nil
		},
	}

	command.Flags().StringVar(&alias, "alias", "", "Alias for the new pod (defaults to the template's next free slot)")
	command.Flags().StringVar(&gpu, "gpu", "", "GPU spec like '2xA100'")
	command.Flags().StringVar(&storage, "storage", "", "Volume size like '500GB' or '1TB'")
	command.Flags().StringVar(&image, "image", "", "Docker image to use")
	command.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing alias")
	command.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be created without doing it")

	return command
}
