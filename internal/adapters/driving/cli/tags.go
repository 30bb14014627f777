package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

var (
	tagsThreshold float64
	tagsFullPath  bool
	tagsApply     bool
	tagsJSON      bool
)

var tagsCmd = &cobra.Command{
	Use:   "tags [paths...]",
	Short: "Generate hierarchical tags for every indexed note",
	Long: `Clusters every note in the index and asks the language model to name
each cluster. Clusters closer than the threshold are folded under a shared
parent tag. Any paths given are ingested first.

By default each note gets its ancestor tags only; --full-path keeps the
note's own leaf tag as well. --apply writes the tags into each note's
frontmatter.`,
	RunE: runTags,
}

func init() {
	tagsCmd.Flags().Float64VarP(&tagsThreshold, "threshold", "t", domain.DefaultTagThreshold,
		"normalized distance below which clusters share a parent tag")
	tagsCmd.Flags().BoolVar(&tagsFullPath, "full-path", false, "keep each note's leaf tag")
	tagsCmd.Flags().BoolVar(&tagsApply, "apply", false, "write tags into note frontmatter")
	tagsCmd.Flags().BoolVar(&tagsJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	if taggingService == nil {
		return notConfigured("tagging")
	}
	ctx := cmd.Context()

	req := domain.TagRequest{Files: fileRefs(args)}
	if cmd.Flags().Changed("threshold") {
		threshold := tagsThreshold
		req.Threshold = &threshold
	}
	if cmd.Flags().Changed("full-path") {
		req.Projection = domain.ProjectAncestors
		if tagsFullPath {
			req.Projection = domain.ProjectFullPath
		}
	}

	result, err := taggingService.GenerateTags(ctx, req)
	if err != nil {
		return fmt.Errorf("tagging failed: %w", err)
	}

	applied := 0
	if tagsApply {
		applied, err = taggingService.ApplyTags(ctx, result.Tags)
		if err != nil {
			return fmt.Errorf("applying tags failed after %d notes: %w", applied, err)
		}
	}

	if tagsJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputTagsTable(cmd, result)
	if tagsApply {
		cmd.Printf("Applied tags to %d notes.\n", applied)
	}
	return nil
}

func outputTagsTable(cmd *cobra.Command, result *domain.TagResult) {
	ids := make([]string, 0, len(result.Tags))
	for id := range result.Tags {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cmd.Println("Tags:")
	for _, id := range ids {
		cmd.Printf("  %s: %s\n", id, strings.Join(result.Tags[id].Tags, ", "))
	}
	cmd.Println()
	cmd.Printf("%d notes tagged with %d model calls", len(ids), result.OracleCalls)
	if result.RunID != "" {
		cmd.Printf(" (run %s)", result.RunID)
	}
	cmd.Println()
}
