package services

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// normalise cleans content with the first normaliser that handles ext.
// Content the normaliser reduces to nothing is kept raw so the note still
// has something to embed.
func normalise(normalisers []driven.Normaliser, ext, content string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, n := range normalisers {
		for _, supported := range n.SupportedExtensions() {
			if supported != ext {
				continue
			}
			if cleaned := n.Normalise(content); cleaned != "" {
				return cleaned
			}
			return content
		}
	}
	return content
}

func extOf(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
