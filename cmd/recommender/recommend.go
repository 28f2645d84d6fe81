package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-recommender/internal/config"
	"github.com/jonathan/assessment-recommender/internal/observability"
	"github.com/jonathan/assessment-recommender/internal/pipeline"
)

var recommendCommand = &cobra.Command{
	Use:   "recommend \"<query>\"",
	Short: "Run the recommendation pipeline once and print the result",
	Long: `Runs a single query through the full pipeline without starting the
server. The query may be a role description or contain a job posting URL.`,
	Args: cobra.MinimumNArgs(1),
	RunE: recommendCmd,
}

var (
	recommendConfigPath string
	recommendAPIKey     string
	recommendCatalog    string
	recommendUseBrowser bool
	recommendVerbose    bool
)

func init() {
	recommendCommand.Flags().StringVar(&recommendConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	recommendCommand.Flags().StringVar(&recommendAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	recommendCommand.Flags().StringVar(&recommendCatalog, "catalog", "", "Path to the assessment catalog JSON (defaults to CATALOG_PATH env var)")
	recommendCommand.Flags().BoolVar(&recommendUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	recommendCommand.Flags().BoolVarP(&recommendVerbose, "verbose", "v", false, "Print detailed pipeline information")

	rootCmd.AddCommand(recommendCommand)
}

func recommendCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.Join(args, " ")

	if err := pipeline.ValidateQuery(query); err != nil {
		return err
	}

	cfg, err := loadConfig(recommendConfigPath, func(cfg *config.Config) {
		if cmd.Flags().Changed("api-key") {
			cfg.APIKey = recommendAPIKey
		}
		if cmd.Flags().Changed("catalog") {
			cfg.CatalogPath = recommendCatalog
		}
		if cmd.Flags().Changed("use-browser") {
			cfg.UseBrowser = recommendUseBrowser
		}
	})
	if err != nil {
		return err
	}

	application, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	outcome, err := application.router.Run(ctx, query)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if recommendVerbose {
		printer.PrintIntent(outcome)
		printer.PrintRequirementSpec(outcome.Spec)
		printer.PrintWarnings(outcome.Warnings)
	}

	switch outcome.Kind {
	case pipeline.OutcomeRecommendation:
		if len(outcome.Recommendations.Candidates) == 0 {
			fmt.Println("No assessments matched the requirements.")
			return nil
		}
		printer.PrintRecommendations(outcome.Recommendations)
		for _, a := range outcome.Recommendations.Assessments() {
			fmt.Printf("%s\n  %s\n", a.Name, a.URL)
		}
	case pipeline.OutcomeAnswer:
		printer.PrintAnswer(outcome.AnswerText, outcome.Related)
	default:
		fmt.Println(outcome.RedirectMessage)
	}

	if outcome.FetchFailed {
		fmt.Fprintln(os.Stderr, "Note: the job posting URL could not be fetched; recommendations are based on the query text only.")
	}
	return nil
}
