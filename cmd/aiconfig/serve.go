package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bluemouse/aiconfig/pkg/presenter"
	"github.com/bluemouse/aiconfig/pkg/skills"
	"github.com/bluemouse/aiconfig/pkg/webui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a local HTML preview of discovered skills",
	Long: `Start a local web server that renders discovered skills as HTML.

Examples:
  aiconfig serve
  aiconfig serve --addr localhost:8080`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		addr, _ := cmd.Flags().GetString("addr")

		discovery, err := skills.NewDiscovery(skills.WithDefaultDirs())
		if err != nil {
			presenter.Error(err, "Failed to set up skill discovery")
			os.Exit(1)
		}

		server, err := webui.NewServer(discovery, addr)
		if err != nil {
			presenter.Error(err, "Failed to create server")
			os.Exit(1)
		}

		if err := server.Start(ctx); err != nil {
			presenter.Error(err, "Server failed")
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "localhost:4321", "Address to listen on")
	rootCmd.AddCommand(serveCmd)
}
