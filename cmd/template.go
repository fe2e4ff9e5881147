package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"podctl/internal/registry"
)

func templateCmd() *cobra.Command {
	var command = &cobra.Command{
		Use:   "template",
		Short: "Manage pod templates",
	}
	command.AddCommand(templateCreateCmd())
	command.AddCommand(templateListCmd())
	command.AddCommand(templateDeleteCmd())
	return command
}

func templateCreateCmd() *cobra.Command {
	var (
		gpu     string
		storage string
		image   string
		force   bool
	)
	var command = &cobra.Command{
		Use:   "create <identifier> <alias-template>",
		Short: "Create a pod template (alias template needs an {i} placeholder)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			tpl := registry.Template{
				Identifier:    args[0],
				AliasTemplate: args[1],
				GPUSpec:       gpu,
				StorageSpec:   storage,
				Image:         image,
			}
			if err := a.templates.Create(tpl, force); err != nil {
				return err
			}
			fmt.Printf("Created template %q (%s, %s)\n", tpl.Identifier, tpl.GPUSpec, tpl.StorageSpec)
			return nil
		},
	}
	command.Flags().StringVar(&gpu, "gpu", "", "GPU spec like '2xA100'")
	command.Flags().StringVar(&storage, "storage", "", "Volume size like '500GB' or '1TB'")
	command.Flags().StringVar(&image, "image", "", "Docker image to use")
	_ = command.MarkFlagRequired("gpu")
	_ = command.MarkFlagRequired("storage")
	command.Flags().BoolVarP(&force, "force", "f", false, "Overwrite the template if it exists")
	return command
}

func templateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pod templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			templates, err := a.templates.List()
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				fmt.Println("No templates configured.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "IDENTIFIER\tALIAS TEMPLATE\tGPU\tSTORAGE\tIMAGE")
			for _, t := range templates {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.Identifier, t.AliasTemplate, t.GPUSpec, t.StorageSpec, t.Image)
			}
			return w.Flush()
		},
	}
}

func templateDeleteCmd() *cobra.Command {
	var missingOK bool
	var command = &cobra.Command{
		Use:   "delete <identifier>",
		Short: "Delete a pod template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			if err := a.templates.Delete(args[0], missingOK); err != nil {
				return err
			}
			fmt.Printf("Deleted template %q\n", args[0])
			return nil
		},
	}
	command.Flags().BoolVar(&missingOK, "missing-ok", false, "Do not error if the template is missing")
	return command
}
