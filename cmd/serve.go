package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"podctl/internal/api"
)

func serveCmd() *cobra.Command {
	var port int
	var command = &cobra.Command{
		Use:   "serve",
		Short: "Serve a local HTTP API over the schedule store",
		Run: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			a := newApp()
			server := api.NewServer(a.scheduler(), a.executor())
			server.Run(port)
		},
	}
	command.Flags().IntVarP(&port, "port", "p", 8080, "Port to run the server on")
	return command
}
