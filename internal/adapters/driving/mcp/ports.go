package mcp

import (
	"github.com/custodia-labs/vaultag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Tagging synthesizes the tag taxonomy.
	Tagging driving.TaggingService

	// Links finds related notes.
	Links driving.LinkService

	// Index keeps the embedding store in step with the vault. Optional.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Tagging == nil {
		return ErrMissingTaggingService
	}
	if p.Links == nil {
		return ErrMissingLinkService
	}
	return nil
}
