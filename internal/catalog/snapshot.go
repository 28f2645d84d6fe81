package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Embedder is the embedding capability the catalog needs to index itself.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Snapshot is an immutable point-in-time view of the catalog and its
// vector index. In-flight requests hold the snapshot they started with;
// a refresh swaps the whole snapshot and never mutates a live one.
type Snapshot struct {
	Assessments []Assessment
	Index       *VectorIndex
	Version     int64
	BuiltAt     time.Time
}

// Record returns the assessment at a search hit position.
func (s *Snapshot) Record(position int) (Assessment, bool) {
	if position < 0 || position >= len(s.Assessments) {
		return Assessment{}, false
	}
	return s.Assessments[position], true
}

// Store holds the current catalog snapshot behind an atomic pointer.
// Readers call Snapshot and work against that value for the whole request.
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Int64
}

// NewStore creates an empty store. Swap in a snapshot before serving.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{Index: NewVectorIndex(nil)})
	return s
}

// Snapshot returns the current catalog snapshot. Never nil.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Swap atomically replaces the current snapshot and stamps its version.
func (s *Store) Swap(snap *Snapshot) {
	snap.Version = s.version.Add(1)
	if snap.BuiltAt.IsZero() {
		snap.BuiltAt = time.Now()
	}
	s.current.Store(snap)
}

// BuildSnapshot embeds every assessment that lacks a precomputed vector and
// assembles a snapshot with its index. Embedding runs in batches of
// batchSize, batches in parallel via errgroup.
func BuildSnapshot(ctx context.Context, assessments []Assessment, embedder Embedder, batchSize int) (*Snapshot, error) {
	if batchSize <= 0 {
		batchSize = 10
	}

	for i := range assessments {
		if err := assessments[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog record: %w", err)
		}
	}

	// Positions that still need a vector.
	var missing []int
	for i := range assessments {
		if len(assessments[i].Embedding) == 0 {
			missing = append(missing, i)
		}
	}

	if len(missing) > 0 {
		if embedder == nil {
			return nil, fmt.Errorf("%d catalog records lack embeddings and no embedder is configured", len(missing))
		}

		g, gCtx := errgroup.WithContext(ctx)
		for start := 0; start < len(missing); start += batchSize {
			end := min(start+batchSize, len(missing))
			positions := missing[start:end]

			g.Go(func() error {
				texts := make([]string, len(positions))
				for i, pos := range positions {
					texts[i] = assessments[pos].EmbeddingText()
				}
				vectors, err := embedder.EmbedBatch(gCtx, texts)
				if err != nil {
					return fmt.Errorf("failed to embed catalog batch: %w", err)
				}
				if len(vectors) != len(texts) {
					return fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
				}
				for i, pos := range positions {
					assessments[pos].Embedding = vectors[i]
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	vectors := make([][]float32, len(assessments))
	for i := range assessments {
		vectors[i] = assessments[i].Embedding
	}

	return &Snapshot{
		Assessments: assessments,
		Index:       NewVectorIndex(vectors),
		BuiltAt:     time.Now(),
	}, nil
}
