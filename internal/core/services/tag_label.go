package services

import (
	"strings"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// NormalizeLabel cleans an oracle answer into a bare tag. Only the first
// non-blank line is kept; surrounding whitespace, quotes, backticks and a
// leading '#' are stripped. An answer with nothing left is malformed.
func NormalizeLabel(raw string) (string, error) {
	line := ""
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}

	for {
		trimmed := strings.TrimSpace(line)
		trimmed = strings.Trim(trimmed, "\"'`*")
		trimmed = strings.TrimPrefix(trimmed, "#")
		if trimmed == line {
			break
		}
		line = trimmed
	}

	if line == "" {
		return "", domain.ErrMalformedLabel
	}
	return line, nil
}
