package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/vaultag/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for the vault plugin",
	Long: `Serves tag generation and related-note discovery over HTTP.

Endpoints:
  POST /get-tags        tag every indexed note
  POST /internal-links  related notes for one note
  GET  /api/status      liveness check`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if taggingService == nil {
		return notConfigured("tagging")
	}
	if linkService == nil {
		return notConfigured("link")
	}

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	if addr == "" {
		addr = serverSettings.Addr
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Tagging: taggingService,
		Links:   linkService,
	}, serverSettings)
	if err != nil {
		return err
	}

	cmd.Printf("vaultag API listening on http://%s\n", addr)
	return server.Run(cmd.Context(), addr)
}
