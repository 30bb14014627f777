// Package mcp provides an MCP (Model Context Protocol) server adapter for vaultag.
// It lets AI assistants generate vault tags and find related notes.
package mcp

import "errors"

// ErrMissingTaggingService is returned when the tagging service is not provided.
var ErrMissingTaggingService = errors.New("mcp: tagging service is required")

// ErrMissingLinkService is returned when the link service is not provided.
var ErrMissingLinkService = errors.New("mcp: link service is required")
