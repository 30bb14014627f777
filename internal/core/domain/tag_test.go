package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagAssignment_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		a        TagAssignment
		expected string
	}{
		{"single", TagAssignment{Tags: []string{"Go"}, Single: true}, `"Go"`},
		{"one ancestor", TagAssignment{Tags: []string{"Programming"}}, `["Programming"]`},
		{"many", TagAssignment{Tags: []string{"Science", "Physics"}}, `["Science","Physics"]`},
		{"empty", TagAssignment{}, `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.a)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestTagAssignment_UnmarshalJSON(t *testing.T) {
	var single TagAssignment
	require.NoError(t, json.Unmarshal([]byte(`"Go"`), &single))
	assert.Equal(t, TagAssignment{Tags: []string{"Go"}, Single: true}, single)

	var many TagAssignment
	require.NoError(t, json.Unmarshal([]byte(`["A","B"]`), &many))
	assert.Equal(t, TagAssignment{Tags: []string{"A", "B"}}, many)

	var bad TagAssignment
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestTagForest_MarshalJSON(t *testing.T) {
	forest := TagForest{
		TagGroup{Tag: "NeuralNetwork", Children: TagForest{
			TagLeaf{Tag: "CNN", Index: 0},
			TagLeaf{Tag: "LSTM", Index: 1},
		}},
		TagLeaf{Tag: "Cooking", Index: 2},
	}

	data, err := json.Marshal(forest)
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"tag":"NeuralNetwork","children":[{"tag":"CNN","index":0},{"tag":"LSTM","index":1}]},
		{"tag":"Cooking","index":2}
	]`, string(data))
	assert.Equal(t, []string{"NeuralNetwork", "Cooking"}, forest.Labels())
}

func TestClusterNode_MarshalJSON(t *testing.T) {
	root := &ClusterInternal{
		Idx:                2,
		Left:               &ClusterLeaf{Idx: 0},
		Right:              &ClusterLeaf{Idx: 1},
		MergeDistance:      1.5,
		NormalizedDistance: 1,
		LeafIndices:        []int{0, 1},
	}

	data, err := json.Marshal(root)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type":"node","index":2,"children":[0,1],
		"left_node":{"type":"leaf","index":0},
		"right_node":{"type":"leaf","index":1},
		"distance":1.5,"normalized_distance":1
	}`, string(data))
	assert.Equal(t, []int{0, 1}, root.Leaves())
	assert.Equal(t, []int{1}, root.Right.Leaves())
}

func TestLinkage_IsValid(t *testing.T) {
	assert.True(t, LinkageWard.IsValid())
	assert.True(t, LinkageSingle.IsValid())
	assert.False(t, Linkage("centroid").IsValid())
}

func TestProjectionMode_IsValid(t *testing.T) {
	assert.True(t, ProjectAncestors.IsValid())
	assert.True(t, ProjectFullPath.IsValid())
	assert.True(t, ProjectionMode("full_path").IsValid())
	assert.False(t, ProjectionMode("full").IsValid())
	assert.False(t, ProjectionMode("").IsValid())
	assert.False(t, ProjectionMode("leaves").IsValid())
}
