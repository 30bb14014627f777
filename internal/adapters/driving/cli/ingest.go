package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Embed vault notes into the index",
	Long: `Reads notes from the vault and upserts their embeddings into the store.
Paths are relative to the vault. With no paths every markdown note in the
vault is ingested. Notes already in the index are replaced.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return notConfigured("index")
	}
	ctx := cmd.Context()

	var (
		n   int
		err error
	)
	if len(args) == 0 {
		cmd.Println("Ingesting every note in the vault...")
		n, err = indexService.IngestVault(ctx)
	} else {
		n, err = indexService.Ingest(ctx, "", fileRefs(args))
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	total, err := indexService.Count(ctx)
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}
	cmd.Printf("Indexed %d notes (%d in the index).\n", n, total)
	return nil
}
