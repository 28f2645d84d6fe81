package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-recommender/internal/catalog"
	"github.com/jonathan/assessment-recommender/internal/config"
	"github.com/jonathan/assessment-recommender/internal/llm"
)

var indexCommand = &cobra.Command{
	Use:   "index",
	Short: "Precompute catalog embeddings",
	Long: `Embeds every catalog record that lacks a vector and writes the
catalog back with embeddings included, so the server can start without
re-embedding.`,
	RunE: indexCmd,
}

var (
	indexCatalog string
	indexOut     string
	indexAPIKey  string
)

func init() {
	indexCommand.Flags().StringVar(&indexCatalog, "catalog", "", "Path to the assessment catalog JSON (defaults to CATALOG_PATH env var)")
	indexCommand.Flags().StringVarP(&indexOut, "out", "o", "", "Output path (defaults to overwriting the input catalog)")
	indexCommand.Flags().StringVar(&indexAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(indexCommand)
}

func indexCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig("", func(cfg *config.Config) {
		if cmd.Flags().Changed("api-key") {
			cfg.APIKey = indexAPIKey
		}
		if cmd.Flags().Changed("catalog") {
			cfg.CatalogPath = indexCatalog
		}
	})
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	assessments, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	snap, err := catalog.BuildSnapshot(ctx, assessments, client, cfg.EmbeddingBatchSize)
	if err != nil {
		return err
	}

	out := indexOut
	if out == "" {
		out = cfg.CatalogPath
	}
	if err := catalog.SaveFile(out, snap.Assessments); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	fmt.Printf("Indexed %d assessments -> %s\n", len(snap.Assessments), out)
	return nil
}
