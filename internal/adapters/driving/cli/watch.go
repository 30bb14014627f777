package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vaultag/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-index notes as they change",
	Long: `Watches the vault and re-ingests markdown notes whenever they are
created or saved. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return notConfigured("index")
	}
	if vaultWatcher == nil {
		return errors.New("no vault configured: set vault.dir")
	}
	ctx := cmd.Context()

	changes, err := vaultWatcher.Watch(ctx, "md")
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s for changes (Ctrl+C to stop)...\n", vaultWatcher.Root())

	for batch := range changes {
		n, err := indexService.Ingest(ctx, "", fileRefs(batch))
		if err != nil {
			logger.Error(err, "re-index %s", strings.Join(batch, ", "))
			continue
		}
		cmd.Printf("Re-indexed %d notes: %s\n", n, strings.Join(batch, ", "))
	}
	return nil
}
