package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/assessment-recommender/internal/config"
	"github.com/jonathan/assessment-recommender/internal/server"
	"github.com/jonathan/assessment-recommender/internal/session"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation HTTP API server",
	Long: `Starts the REST API: POST /recommend and POST /chat run the pipeline,
GET /test-types lists the test-type codes, POST /refresh (admin) rebuilds the
catalog index.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: serveCmd,
}

var (
	serveConfigPath  string
	servePort        int
	serveAPIKey      string
	serveCatalog     string
	serveDatabaseURL string
	serveUseBrowser  bool
)

func init() {
	serveCommand.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCommand.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP listen port (default 8000)")
	serveCommand.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	serveCommand.Flags().StringVar(&serveCatalog, "catalog", "", "Path to the assessment catalog JSON (defaults to CATALOG_PATH env var)")
	serveCommand.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL for session persistence (optional, defaults to DATABASE_URL env var)")
	serveCommand.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")

	rootCmd.AddCommand(serveCommand)
}

func serveCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(serveConfigPath, func(cfg *config.Config) {
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("api-key") {
			cfg.APIKey = serveAPIKey
		}
		if cmd.Flags().Changed("catalog") {
			cfg.CatalogPath = serveCatalog
		}
		if cmd.Flags().Changed("db-url") {
			cfg.DatabaseURL = serveDatabaseURL
		}
		if cmd.Flags().Changed("use-browser") {
			cfg.UseBrowser = serveUseBrowser
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

	var sessions *session.Store
	if cfg.DatabaseURL != "" {
		sessions, err = session.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect session store: %w", err)
		}
		if err := sessions.EnsureSchema(ctx); err != nil {
			return err
		}
	} else {
		log.Println("DATABASE_URL not set; session persistence disabled")
	}

	auth, err := config.NewAuthConfig()
	if err != nil {
		return err
	}
	if !auth.Enabled() {
		log.Println("ADMIN_KEY_HASH not set; admin endpoints disabled")
	}

	srv, err := server.New(server.Options{
		Port:      cfg.Port,
		Router:    application.router,
		Sessions:  sessions,
		Refresher: application.refresher,
		Auth:      auth,
	})
	if err != nil {
		return err
	}

	return srv.Start()
}
