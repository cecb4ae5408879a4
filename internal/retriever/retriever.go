// Package retriever ranks embedded text candidates against a query
// vector by cosine similarity.
package retriever

import (
	"math"
	"sort"
)

// Candidate pairs a chunk's text with its embedding vector. Candidates
// are owned by the caller; the retriever never mutates them.
type Candidate struct {
	Text   string
	Vector []float32
}

// Result is one ranked retrieval hit.
type Result struct {
	Text  string
	Score float64
}

// Cosine ranks candidates by descending cosine similarity. It holds no
// mutable state beyond the corpus it was built with, so concurrent
// queries need no synchronization. Replacing the corpus means building
// a new retriever, not mutating this one.
type Cosine struct {
	corpus []Candidate
}

func NewCosine(corpus []Candidate) *Cosine {
	return &Cosine{corpus: corpus}
}

// Len returns the corpus size.
func (r *Cosine) Len() int {
	return len(r.corpus)
}

// Retrieve returns the min(topK, corpus size) most similar candidates,
// best first. Ties keep the candidates' original order. A non-positive
// topK or an empty corpus yields nothing.
func (r *Cosine) Retrieve(query []float32, topK int) []Result {
	if topK <= 0 || len(r.corpus) == 0 {
		return nil
	}

	scored := make([]Result, len(r.corpus))
	for i, c := range r.corpus {
		scored[i] = Result{Text: c.Text, Score: Similarity(query, c.Vector)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored
}

// Similarity computes the cosine of the angle between two vectors.
// Mismatched lengths compare their common prefix; a zero vector scores
// zero.
func Similarity(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
