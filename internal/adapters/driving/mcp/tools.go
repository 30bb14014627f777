package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// GenerateTagsInput is the input schema for the generate_tags tool.
type GenerateTagsInput struct {
	Files     []string `json:"files,omitempty" jsonschema:"vault-relative note paths to index before tagging; empty tags the index as it stands"`
	VaultPath string   `json:"vault_path,omitempty" jsonschema:"must name the configured vault when set; other directories are rejected"`
	Apply     bool     `json:"apply,omitempty" jsonschema:"write the tags into each note's frontmatter"`
}

// GenerateTagsOutput is the output schema for the generate_tags tool.
type GenerateTagsOutput struct {
	RunID       string              `json:"run_id,omitempty"`
	Tags        map[string][]string `json:"tags"`
	OracleCalls int                 `json:"oracle_calls"`
	Applied     int                 `json:"applied"`
}

// RelatedDocumentsInput is the input schema for the related_documents tool.
type RelatedDocumentsInput struct {
	Path    string `json:"path" jsonschema:"vault-relative path of the note"`
	Content string `json:"content,omitempty" jsonschema:"current note text (default: read from the vault)"`
	Append  bool   `json:"append,omitempty" jsonschema:"append the related notes as wiki links"`
}

// RelatedDocumentsOutput is the output schema for the related_documents tool.
type RelatedDocumentsOutput struct {
	Path    string          `json:"path"`
	Related []RelatedOutput `json:"related"`
	Count   int             `json:"count"`
}

// RelatedOutput is one related note.
type RelatedOutput struct {
	ID       string  `json:"id"`
	Distance float64 `json:"distance"`
}

// IndexNotesInput is the input schema for the index_notes tool.
type IndexNotesInput struct {
	Files []string `json:"files,omitempty" jsonschema:"vault-relative note paths; empty indexes every markdown note"`
}

// IndexNotesOutput is the output schema for the index_notes tool.
type IndexNotesOutput struct {
	Indexed int `json:"indexed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_tags",
		Description: "Cluster every indexed note and synthesize a hierarchical tag for each",
	}, s.handleGenerateTags)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "related_documents",
		Description: "Find indexed notes semantically close to a note",
	}, s.handleRelatedDocuments)

	if s.ports.Index != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "index_notes",
			Description: "Embed vault notes into the index",
		}, s.handleIndexNotes)
	}
}

// handleGenerateTags handles the generate_tags tool invocation.
func (s *Server) handleGenerateTags(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateTagsInput,
) (*mcp.CallToolResult, GenerateTagsOutput, error) {
	req := domain.TagRequest{VaultPath: input.VaultPath}
	for _, p := range input.Files {
		req.Files = append(req.Files, domain.NewFileRef(p))
	}

	result, err := s.ports.Tagging.GenerateTags(ctx, req)
	if err != nil {
		return nil, GenerateTagsOutput{}, err
	}

	output := GenerateTagsOutput{
		RunID:       result.RunID,
		Tags:        make(map[string][]string, len(result.Tags)),
		OracleCalls: result.OracleCalls,
	}
	for id, a := range result.Tags {
		output.Tags[id] = a.Tags
	}

	if input.Apply {
		n, err := s.ports.Tagging.ApplyTags(ctx, result.Tags)
		output.Applied = n
		if err != nil {
			return nil, output, err
		}
	}
	return nil, output, nil
}

// handleRelatedDocuments handles the related_documents tool invocation.
func (s *Server) handleRelatedDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelatedDocumentsInput,
) (*mcp.CallToolResult, RelatedDocumentsOutput, error) {
	result, err := s.ports.Links.FindRelated(ctx, domain.LinkRequest{
		Path:    input.Path,
		Content: input.Content,
	})
	if err != nil {
		return nil, RelatedDocumentsOutput{}, err
	}

	output := RelatedDocumentsOutput{Path: input.Path, Related: []RelatedOutput{}}
	if len(result.IDs) > 0 {
		for i, id := range result.IDs[0] {
			output.Related = append(output.Related, RelatedOutput{ID: id, Distance: result.Distances[0][i]})
		}
	}
	output.Count = len(output.Related)

	if input.Append {
		if err := s.ports.Links.AppendRelated(ctx, input.Path, result); err != nil {
			return nil, output, err
		}
	}
	return nil, output, nil
}

// handleIndexNotes handles the index_notes tool invocation.
func (s *Server) handleIndexNotes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexNotesInput,
) (*mcp.CallToolResult, IndexNotesOutput, error) {
	var (
		n   int
		err error
	)
	if len(input.Files) == 0 {
		n, err = s.ports.Index.IngestVault(ctx)
	} else {
		files := make([]domain.FileRef, len(input.Files))
		for i, p := range input.Files {
			files[i] = domain.NewFileRef(p)
		}
		n, err = s.ports.Index.Ingest(ctx, "", files)
	}
	if err != nil {
		return nil, IndexNotesOutput{}, err
	}
	return nil, IndexNotesOutput{Indexed: n}, nil
}
