package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

var (
	linksAppend bool
	linksJSON   bool
)

var linksCmd = &cobra.Command{
	Use:   "links <path>",
	Short: "Find notes related to a note",
	Long: `Embeds the note, then lists indexed notes within the link distance
threshold. The note itself is never listed. --append adds the related
notes to the end of the note as wiki links.`,
	Args: cobra.ExactArgs(1),
	RunE: runLinks,
}

func init() {
	linksCmd.Flags().BoolVar(&linksAppend, "append", false, "append related notes as wiki links")
	linksCmd.Flags().BoolVar(&linksJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, args []string) error {
	if linkService == nil {
		return notConfigured("link")
	}
	ctx := cmd.Context()
	path := filepath.ToSlash(args[0])

	result, err := linkService.FindRelated(ctx, domain.LinkRequest{Path: path, Name: filepath.Base(path)})
	if err != nil {
		return fmt.Errorf("finding related notes failed: %w", err)
	}
	if linksAppend {
		if err := linkService.AppendRelated(ctx, path, result); err != nil {
			return fmt.Errorf("appending links failed: %w", err)
		}
	}

	if linksJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(result.IDs) == 0 || len(result.IDs[0]) == 0 {
		cmd.Println("No related notes found.")
		return nil
	}
	cmd.Printf("Related to %s:\n", path)
	for i, id := range result.IDs[0] {
		cmd.Printf("  [[%s]] (%.4f)\n", id, result.Distances[0][i])
	}
	if linksAppend {
		cmd.Printf("Appended %d links.\n", len(result.IDs[0]))
	}
	return nil
}
