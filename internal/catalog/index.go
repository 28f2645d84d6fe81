package catalog

import (
	"math"
	"sort"
)

// Hit is a single vector search result: the position of the record in the
// snapshot plus its cosine similarity to the query vector.
type Hit struct {
	Position   int
	Similarity float64
}

// VectorIndex is an in-memory cosine similarity index over the snapshot's
// assessment embeddings. It is immutable after construction and safe for
// concurrent readers.
type VectorIndex struct {
	vectors [][]float32
	norms   []float64
}

// NewVectorIndex builds an index from document vectors. The vector at
// position i belongs to the assessment at position i in the snapshot.
func NewVectorIndex(vectors [][]float32) *VectorIndex {
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		norms[i] = vectorNorm(v)
	}
	return &VectorIndex{vectors: vectors, norms: norms}
}

// Len returns the number of indexed vectors.
func (idx *VectorIndex) Len() int {
	return len(idx.vectors)
}

// Search returns the top k entries by cosine similarity to the query
// vector, highest first. Ties keep catalog insertion order (stable sort).
func (idx *VectorIndex) Search(query []float32, k int) []Hit {
	if k <= 0 || len(idx.vectors) == 0 || len(query) == 0 {
		return nil
	}

	queryNorm := vectorNorm(query)
	if queryNorm == 0 {
		return nil
	}

	hits := make([]Hit, 0, len(idx.vectors))
	for i, v := range idx.vectors {
		if len(v) != len(query) || idx.norms[i] == 0 {
			continue
		}
		hits = append(hits, Hit{
			Position:   i,
			Similarity: dotProduct(query, v) / (queryNorm * idx.norms[i]),
		})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
