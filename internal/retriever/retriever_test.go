package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, Similarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Similarity([]float32{1, 0}, []float32{-3, 0}), 1e-9)
	assert.InDelta(t, 0.7071, Similarity([]float32{1, 0}, []float32{1, 1}), 1e-4)

	// Zero vectors score zero instead of dividing by zero.
	assert.Equal(t, 0.0, Similarity([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, Similarity(nil, []float32{1}))

	// Mismatched lengths compare the common prefix.
	assert.InDelta(t, 1.0, Similarity([]float32{1, 0}, []float32{1, 0, 5, 5}), 1e-9)
}

func TestRetrieveRanksDescending(t *testing.T) {
	r := NewCosine([]Candidate{
		{Text: "orthogonal", Vector: []float32{0, 1}},
		{Text: "exact", Vector: []float32{1, 0}},
		{Text: "diagonal", Vector: []float32{1, 1}},
	})
	require.Equal(t, 3, r.Len())

	results := r.Retrieve([]float32{1, 0}, 3)
	require.Len(t, results, 3)
	assert.Equal(t, "exact", results[0].Text)
	assert.Equal(t, "diagonal", results[1].Text)
	assert.Equal(t, "orthogonal", results[2].Text)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.GreaterOrEqual(t, results[1].Score, results[2].Score)
}

func TestRetrieveTruncatesToTopK(t *testing.T) {
	r := NewCosine([]Candidate{
		{Text: "a", Vector: []float32{1, 0}},
		{Text: "b", Vector: []float32{1, 1}},
		{Text: "c", Vector: []float32{0, 1}},
	})

	assert.Len(t, r.Retrieve([]float32{1, 0}, 2), 2)
	// topK larger than the corpus returns everything.
	assert.Len(t, r.Retrieve([]float32{1, 0}, 10), 3)
}

func TestRetrieveEdgeCases(t *testing.T) {
	r := NewCosine([]Candidate{{Text: "a", Vector: []float32{1}}})
	assert.Nil(t, r.Retrieve([]float32{1}, 0))
	assert.Nil(t, r.Retrieve([]float32{1}, -1))

	empty := NewCosine(nil)
	assert.Nil(t, empty.Retrieve([]float32{1}, 5))
}

func TestRetrieveTiesKeepOriginalOrder(t *testing.T) {
	r := NewCosine([]Candidate{
		{Text: "first", Vector: []float32{1, 0}},
		{Text: "second", Vector: []float32{2, 0}},
		{Text: "third", Vector: []float32{3, 0}},
	})

	results := r.Retrieve([]float32{1, 0}, 3)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Text)
	assert.Equal(t, "second", results[1].Text)
	assert.Equal(t, "third", results[2].Text)
}
