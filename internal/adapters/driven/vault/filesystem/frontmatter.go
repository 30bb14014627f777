package filesystem

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// frontmatterRe matches a leading YAML block delimited by --- lines.
var frontmatterRe = regexp.MustCompile(`\A---[ \t]*\r?\n(?:([\s\S]*?)\r?\n)?---[ \t]*(?:\r?\n|\z)`)

const tagsKey = "tags"

// mergeTags returns content with tags merged into its frontmatter and
// whether anything changed.
func mergeTags(content string, tags []string) (string, bool, error) {
	add := dedupe(tags)
	if len(add) == 0 {
		return content, false, nil
	}

	loc := frontmatterRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return renderFrontmatter(tagsDocument(add)) + content, true, nil
	}

	raw := ""
	if loc[2] >= 0 {
		raw = content[loc[2]:loc[3]]
	}
	body := content[loc[1]:]

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return "", false, fmt.Errorf("%w: frontmatter: %v", domain.ErrInvalidInput, err)
	}

	root := mappingOf(&doc)
	if root == nil {
		return "", false, fmt.Errorf("%w: frontmatter is not a mapping", domain.ErrInvalidInput)
	}

	seq := tagSequence(root)
	existing := make(map[string]bool, len(seq.Content))
	for _, n := range seq.Content {
		existing[n.Value] = true
	}
	changed := false
	for _, t := range add {
		if existing[t] {
			continue
		}
		seq.Content = append(seq.Content, scalar(t))
		existing[t] = true
		changed = true
	}
	if !changed {
		return content, false, nil
	}
	return renderFrontmatter(root) + body, true, nil
}

// mappingOf returns the top-level mapping of a parsed document. An empty
// document yields a fresh mapping.
func mappingOf(doc *yaml.Node) *yaml.Node {
	if doc.Kind == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		doc = doc.Content[0]
	}
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	return doc
}

// tagSequence returns the block sequence under the tags key, converting a
// scalar or empty value in place and adding the key when missing.
func tagSequence(m *yaml.Node) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != tagsKey {
			continue
		}
		val := m.Content[i+1]
		if val.Kind == yaml.SequenceNode {
			val.Style = 0
			return val
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if val.Kind == yaml.ScalarNode && val.Tag != "!!null" {
			for _, t := range strings.Split(val.Value, ",") {
				if t = strings.TrimSpace(t); t != "" {
					seq.Content = append(seq.Content, scalar(t))
				}
			}
		}
		m.Content[i+1] = seq
		return seq
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	m.Content = append(m.Content, scalar(tagsKey), seq)
	return seq
}

func tagsDocument(tags []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, t := range tags {
		seq.Content = append(seq.Content, scalar(t))
	}
	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Tag:     "!!map",
		Content: []*yaml.Node{scalar(tagsKey), seq},
	}
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func renderFrontmatter(m *yaml.Node) string {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	// Encoding a well-formed node tree into a buffer does not fail.
	_ = enc.Encode(m)
	_ = enc.Close()
	return "---\n" + buf.String() + "---\n"
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// appendLinks returns content with a related section for targets the note
// does not already link to.
func appendLinks(content string, targets []string) (string, bool) {
	var lines []string
	for _, t := range dedupe(targets) {
		if strings.Contains(content, "[["+t+"]]") || strings.Contains(content, "[["+t+"|") {
			continue
		}
		lines = append(lines, "[["+t+"]]")
	}
	if len(lines) == 0 {
		return content, false
	}
	return content + "\n\n## Related\n" + strings.Join(lines, "\n") + "\n", true
}
