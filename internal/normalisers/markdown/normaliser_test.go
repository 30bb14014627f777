package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{"md", "markdown"}, New().SupportedExtensions())
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "frontmatter removed",
			input:    "---\ntags:\n  - Science\n---\n# Physics\n\nForces.",
			expected: "Physics\n\nForces.",
		},
		{
			name:     "empty frontmatter removed",
			input:    "---\n---\nBody",
			expected: "Body",
		},
		{
			name:     "horizontal rule is not frontmatter",
			input:    "Intro\n---\nMore",
			expected: "Intro\n\nMore",
		},
		{
			name:     "code block removed",
			input:    "Before\n```go\nfunc main() {}\n```\nAfter",
			expected: "Before\n\nAfter",
		},
		{
			name:     "inline code keeps text",
			input:    "Use `kubectl` here",
			expected: "Use kubectl here",
		},
		{
			name:     "markdown link keeps text",
			input:    "See [the docs](https://example.com).",
			expected: "See the docs.",
		},
		{
			name:     "image removed",
			input:    "Chart ![plot](plot.png) below",
			expected: "Chart  below",
		},
		{
			name:     "wiki links",
			input:    "Related to [[notes/Bread Baking.md]] and [[Yeast|leavening]] and [[Flour#Types]]",
			expected: "Related to Bread Baking and leavening and Flour Types",
		},
		{
			name:     "embed removed",
			input:    "Photo ![[crust.jpg]]",
			expected: "Photo",
		},
		{
			name:     "lists and emphasis",
			input:    "- **bold** item\n- [ ] todo\n1. *first*\n> quote ==hl==",
			expected: "bold item\ntodo\nfirst\nquote hl",
		},
		{
			name:     "blank lines collapsed",
			input:    "a\n\n\n\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "crlf",
			input:    "---\r\ntags: [x]\r\n---\r\nText\r\n",
			expected: "Text",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	normaliser := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normaliser.Normalise(tt.input))
		})
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = New()
}
