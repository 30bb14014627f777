// Package markdown strips markdown syntax and frontmatter from notes.
package markdown

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var (
	frontmatter  = regexp.MustCompile(`\A---[ \t]*\r?\n(?:[\s\S]*?\r?\n)?---[ \t]*(?:\r?\n|\z)`)
	codeBlock    = regexp.MustCompile("(?s)```.*?```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	embeds       = regexp.MustCompile(`!\[\[[^\]]*\]\]`)
	wikiAlias    = regexp.MustCompile(`\[\[[^\]|]*\|([^\]]+)\]\]`)
	wikiLinks    = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote   = regexp.MustCompile(`(?m)^>\s*`)
	hr           = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+(\[[ xX]\]\s+)?`)
	numberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	emphasis     = regexp.MustCompile(`(\*\*|__|\*|~~|==)`)
	newlines     = regexp.MustCompile(`\n{3,}`)
)

// Normaliser handles markdown notes.
type Normaliser struct{}

// New creates a new markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{"md", "markdown"}
}

// Normalise drops the frontmatter block and markdown formatting, keeping
// link and wiki-link text. Code blocks are removed entirely.
func (n *Normaliser) Normalise(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = frontmatter.ReplaceAllString(content, "")
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = embeds.ReplaceAllString(content, "")
	content = wikiAlias.ReplaceAllString(content, "$1")
	content = wikiLinks.ReplaceAllStringFunc(content, wikiTarget)
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "")
	content = newlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// wikiTarget renders [[folder/Note.md#Heading]] as "Note Heading".
func wikiTarget(link string) string {
	target := strings.TrimSuffix(strings.TrimPrefix(link, "[["), "]]")
	if i := strings.LastIndex(target, "/"); i >= 0 {
		target = target[i+1:]
	}
	target = strings.TrimSuffix(target, ".md")
	return strings.TrimSpace(strings.ReplaceAll(target, "#", " "))
}
