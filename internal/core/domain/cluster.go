package domain

import "encoding/json"

// Merge is one agglomeration step. Merge k joins clusters Left and Right
// into the new cluster n+k, where n is the number of leaves.
type Merge struct {
	Left     int     `json:"left"`
	Right    int     `json:"right"`
	Distance float64 `json:"distance"`
}

// Linkage selects how the distance between two clusters is measured.
type Linkage string

// Supported linkage criteria.
const (
	LinkageWard     Linkage = "ward"
	LinkageComplete Linkage = "complete"
	LinkageAverage  Linkage = "average"
	LinkageSingle   Linkage = "single"
)

// IsValid returns true if the linkage is recognised.
func (l Linkage) IsValid() bool {
	switch l {
	case LinkageWard, LinkageComplete, LinkageAverage, LinkageSingle:
		return true
	default:
		return false
	}
}

// ClusterNode is a node of the binary dendrogram: either a *ClusterLeaf
// or a *ClusterInternal.
type ClusterNode interface {
	// Index is the cluster index: a document index for leaves,
	// n+k for the node created by merge k.
	Index() int

	// Leaves returns the sorted document indices under this node.
	Leaves() []int

	isClusterNode()
}

// ClusterLeaf is a single document.
type ClusterLeaf struct {
	Idx int
}

// Index implements ClusterNode.
func (l *ClusterLeaf) Index() int { return l.Idx }

// Leaves implements ClusterNode.
func (l *ClusterLeaf) Leaves() []int { return []int{l.Idx} }

func (*ClusterLeaf) isClusterNode() {}

// MarshalJSON writes the leaf in the diagnostic tree format.
func (l *ClusterLeaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Index int    `json:"index"`
	}{"leaf", l.Idx})
}

// ClusterInternal is a merge of two child clusters.
type ClusterInternal struct {
	Idx   int
	Left  ClusterNode
	Right ClusterNode

	// MergeDistance is the raw linkage distance of the merge.
	MergeDistance float64

	// NormalizedDistance is MergeDistance divided by the largest merge
	// distance in the same run, so it lies in [0, 1].
	NormalizedDistance float64

	// LeafIndices is the sorted union of all leaf indices below this node.
	LeafIndices []int
}

// Index implements ClusterNode.
func (n *ClusterInternal) Index() int { return n.Idx }

// Leaves implements ClusterNode.
func (n *ClusterInternal) Leaves() []int { return n.LeafIndices }

func (*ClusterInternal) isClusterNode() {}

// MarshalJSON writes the node in the diagnostic tree format.
func (n *ClusterInternal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type               string      `json:"type"`
		Index              int         `json:"index"`
		Children           []int       `json:"children"`
		Left               ClusterNode `json:"left_node"`
		Right              ClusterNode `json:"right_node"`
		Distance           float64     `json:"distance"`
		NormalizedDistance float64     `json:"normalized_distance"`
	}{"node", n.Idx, n.LeafIndices, n.Left, n.Right, n.MergeDistance, n.NormalizedDistance})
}
