package domain

import "encoding/json"

// TagNode is a node of the synthesized tag tree: either a TagLeaf bound to
// one document or a TagGroup holding children under a synthesized parent tag.
type TagNode interface {
	// Label returns the node's tag.
	Label() string

	isTagNode()
}

// TagLeaf binds a tag to a document index.
type TagLeaf struct {
	Tag   string
	Index int
}

// Label implements TagNode.
func (l TagLeaf) Label() string { return l.Tag }

func (TagLeaf) isTagNode() {}

// MarshalJSON writes {"tag": ..., "index": ...}.
func (l TagLeaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Tag   string `json:"tag"`
		Index int    `json:"index"`
	}{l.Tag, l.Index})
}

// TagGroup places child tags under one parent tag.
type TagGroup struct {
	Tag      string
	Children TagForest
}

// Label implements TagNode.
func (g TagGroup) Label() string { return g.Tag }

func (TagGroup) isTagNode() {}

// MarshalJSON writes {"tag": ..., "children": [...]}.
func (g TagGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Tag      string    `json:"tag"`
		Children TagForest `json:"children"`
	}{g.Tag, g.Children})
}

// TagForest is one level of the tag tree: sibling tags with no parent tag.
// Order is left subtree first. Duplicate labels are kept as separate siblings.
type TagForest []TagNode

// Labels returns the top-level tags in order.
func (f TagForest) Labels() []string {
	out := make([]string, len(f))
	for i, n := range f {
		out[i] = n.Label()
	}
	return out
}

// ProjectionMode controls how a root-to-leaf tag path becomes a document's tags.
type ProjectionMode string

// Projection modes.
const (
	// ProjectAncestors drops the terminal tag of any path longer than one,
	// leaving only the synthesized ancestor tags.
	ProjectAncestors ProjectionMode = "ancestors"

	// ProjectFullPath keeps every tag on the path including the terminal one.
	ProjectFullPath ProjectionMode = "full_path"
)

// IsValid returns true if the projection mode is recognised.
func (m ProjectionMode) IsValid() bool {
	return m == ProjectAncestors || m == ProjectFullPath
}

// TagAssignment is the tag(s) assigned to one document.
type TagAssignment struct {
	// Tags are ordered root first.
	Tags []string

	// Single is set when the document's tag path had length one. The
	// assignment then serializes as a bare string instead of a list.
	Single bool
}

// MarshalJSON writes a string for single assignments and a list otherwise.
func (a TagAssignment) MarshalJSON() ([]byte, error) {
	if a.Single && len(a.Tags) == 1 {
		return json.Marshal(a.Tags[0])
	}
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

// UnmarshalJSON accepts either a string or a list of strings.
func (a *TagAssignment) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*a = TagAssignment{Tags: []string{one}, Single: true}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*a = TagAssignment{Tags: many}
	return nil
}

// TagRequest asks for tags across the whole collection.
type TagRequest struct {
	// Files are ingested before clustering. May be empty to tag the
	// collection as it stands.
	Files []FileRef `json:"files"`

	// VaultPath, when set, must name the configured vault. Any other
	// directory is rejected with ErrOutsideVault.
	VaultPath string `json:"vault_path,omitempty"`

	// APIKey is a request-scoped oracle credential. Empty uses the
	// configured oracle.
	APIKey string `json:"api_key,omitempty"`

	// Threshold overrides the configured fold threshold when set.
	Threshold *float64 `json:"threshold,omitempty"`

	// Projection overrides the configured projection mode when set.
	Projection ProjectionMode `json:"projection,omitempty"`
}

// TagResult is the outcome of one tag synthesis run.
type TagResult struct {
	// RunID names the artifact directory of the run. Empty when artifacts
	// are disabled.
	RunID string `json:"run_id,omitempty"`

	// Tags maps document ID to assigned tags.
	Tags map[string]TagAssignment `json:"tags"`

	// Tree is the synthesized tag tree.
	Tree TagForest `json:"tree"`

	// OracleCalls is the number of labeling calls made.
	OracleCalls int `json:"oracle_calls"`
}
