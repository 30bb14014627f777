package httpapi

import (
	"errors"

	"github.com/custodia-labs/vaultag/internal/core/ports/driving"
)

// Errors returned by NewServer.
var (
	ErrMissingTaggingService = errors.New("tagging service is required")
	ErrMissingLinkService    = errors.New("link service is required")
)

// Ports holds the driving ports the HTTP API calls into.
type Ports struct {
	Tagging driving.TaggingService
	Links   driving.LinkService
}

// Validate checks that all required ports are set.
func (p *Ports) Validate() error {
	if p.Tagging == nil {
		return ErrMissingTaggingService
	}
	if p.Links == nil {
		return ErrMissingLinkService
	}
	return nil
}
