package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for vaultag resources.
	uriScheme = "vaultag://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "index",
		Description: "Number of notes in the semantic index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)
}

// handleIndexResource reports the size of the index.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status := struct {
		Documents int  `json:"documents"`
		Available bool `json:"available"`
	}{}

	if s.ports.Index != nil {
		n, err := s.ports.Index.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting documents: %w", err)
		}
		status.Documents = n
		status.Available = true
	}

	data, err := json.Marshal(status)
	if err != nil {
		return nil, fmt.Errorf("marshalling index status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
