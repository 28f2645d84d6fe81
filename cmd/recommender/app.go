package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/jonathan/assessment-recommender/internal/answer"
	"github.com/jonathan/assessment-recommender/internal/catalog"
	"github.com/jonathan/assessment-recommender/internal/config"
	"github.com/jonathan/assessment-recommender/internal/fetch"
	"github.com/jonathan/assessment-recommender/internal/intent"
	"github.com/jonathan/assessment-recommender/internal/llm"
	"github.com/jonathan/assessment-recommender/internal/pipeline"
	"github.com/jonathan/assessment-recommender/internal/recommend"
	"github.com/jonathan/assessment-recommender/internal/requirements"
)

// app holds the assembled pipeline and its shared resources.
type app struct {
	client    llm.Client
	router    *pipeline.Router
	refresher *catalogRefresher
}

// buildApp assembles the full pipeline from a validated configuration.
func buildApp(ctx context.Context, cfg config.Config) (*app, error) {
	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	store := catalog.NewStore()
	refresher := &catalogRefresher{
		store:     store,
		embedder:  client,
		path:      cfg.CatalogPath,
		batchSize: cfg.EmbeddingBatchSize,
	}
	if _, err := refresher.Refresh(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to build catalog index: %w", err)
	}

	classifier := intent.NewClassifier(client, cfg.IntentConfidenceThreshold)
	extractor := requirements.NewExtractor(client)
	fetcher := fetch.NewJobFetcher(fetch.DefaultOptions(), cfg.UseBrowser)
	recommender := recommend.NewEngine(store, client, client, recommend.Config{
		TopK:               cfg.TopK,
		SelectMin:          cfg.SelectMin,
		SelectMax:          cfg.SelectMax,
		BalanceCapFraction: cfg.BalanceCapFraction,
	})
	answerer := answer.NewEngine(store, client, client, 0)

	router := pipeline.NewRouter(classifier, extractor, fetcher, recommender, answerer)

	return &app{client: client, router: router, refresher: refresher}, nil
}

func (a *app) Close() {
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}
}

// catalogRefresher reloads the catalog file and swaps in a fresh snapshot.
type catalogRefresher struct {
	store     *catalog.Store
	embedder  catalog.Embedder
	path      string
	batchSize int

	// Refresh calls serialize; readers keep using the previous snapshot.
	mu sync.Mutex
}

func (r *catalogRefresher) Refresh(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	assessments, err := catalog.LoadFile(r.path)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(assessments) == 0 {
		return 0, fmt.Errorf("catalog %s contains no records", r.path)
	}

	snap, err := catalog.BuildSnapshot(ctx, assessments, r.embedder, r.batchSize)
	if err != nil {
		return 0, err
	}
	r.store.Swap(snap)
	log.Printf("Catalog indexed: %d assessments (version %d)", len(assessments), snap.Version)
	return len(assessments), nil
}

// loadConfig merges config file, environment, CLI flags and defaults, in
// ascending priority of flags over file over environment.
func loadConfig(configPath string, overrides func(cfg *config.Config)) (config.Config, error) {
	cfg := config.FromEnv()

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if overrides != nil {
		overrides(&cfg)
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
