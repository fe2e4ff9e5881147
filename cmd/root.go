package cmd

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func Run() {
	var verbose bool
	var command = &cobra.Command{
		Use:   "podctl",
		Short: "Manage cloud pods and scheduled stops",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}
	command.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	command.AddCommand(createCmd())
	command.AddCommand(destroyCmd())
	command.AddCommand(stopCmd())
	command.AddCommand(startCmd())
	command.AddCommand(addCmd())
	command.AddCommand(deleteCmd())
	command.AddCommand(listCmd())
	command.AddCommand(cleanCmd())
	command.AddCommand(scheduleCmd())
	command.AddCommand(tickCmd())
	command.AddCommand(templateCmd())
	command.AddCommand(serveCmd())

	if err := command.Execute(); err != nil {
		log.Fatal().Msgf("failed to execute command, err: %v", err.Error())
	}
}
