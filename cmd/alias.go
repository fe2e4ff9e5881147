package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"podctl/internal/domain"
)

func addCmd() *cobra.Command {
	var force bool
	var command = &cobra.Command{
		Use:   "add <alias> <pod-id>",
		Short: "Register an alias for an existing pod id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			if err := a.aliases.Add(args[0], args[1], force); err != nil {
				return err
			}
			fmt.Printf("Added alias %q -> %s\n", args[0], args[1])
			return nil
		},
	}
	command.Flags().BoolVarP(&force, "force", "f", false, "Overwrite the alias if it exists")
	return command
}

func deleteCmd() *cobra.Command {
	var missingOK bool
	var command = &cobra.Command{
		Use:   "delete <alias>",
		Short: "Remove an alias mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			if err := a.aliases.Delete(args[0], missingOK); err != nil {
				return err
			}
			fmt.Printf("Deleted alias %q\n", args[0])
			return nil
		},
	}
	command.Flags().BoolVar(&missingOK, "missing-ok", false, "Do not error if the alias is missing")
	return command
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List aliases with their pod id and status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			all, err := a.aliases.All()
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Println("No aliases configured. Add one with: podctl add <alias> <pod-id>")
				return nil
			}

			names := make([]string, 0, len(all))
			for name := range all {
				names = append(names, name)
			}
			sort.Strings(names)

			// Status lookups are independent API calls; run them together.
			statuses := make([]domain.PodStatus, len(names))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(8)
			for i, name := range names {
				i, name := i, name
				g.Go(func() error {
					statuses[i] = a.client.Status(ctx, all[name])
					return nil
				})
			}
			_ = g.Wait()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ALIAS\tPOD ID\tSTATUS")
			for i, name := range names {
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, all[name], statuses[i])
			}
			return w.Flush()
		},
	}
}

func cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Drop aliases whose pod no longer exists and prune stale SSH blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			all, err := a.aliases.All()
			if err != nil {
				return err
			}

			valid := make(map[string]bool, len(all))
			removed := 0
			for alias, podID := range all {
				if a.client.Status(cmd.Context(), podID) == domain.PodInvalid {
					if err := a.aliases.Delete(alias, true); err != nil {
						return err
					}
					removed++
					continue
				}
				valid[alias] = true
			}

			pruned, err := a.hosts.Prune(valid)
			if err != nil {
				return err
			}

			fmt.Printf("Removed %d invalid alias(es), pruned %d SSH block(s).\n", removed, pruned)
			return nil
		},
	}
}
