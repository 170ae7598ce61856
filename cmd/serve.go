package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relayhq/relay/internal/builder"
	"github.com/relayhq/relay/internal/catalog"
	"github.com/relayhq/relay/internal/config"
	"github.com/relayhq/relay/internal/db"
	"github.com/relayhq/relay/internal/server"
	"github.com/relayhq/relay/internal/workflow"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay server",
	Long:  `Starts the relay server: catalog and workflow REST APIs plus the WebSocket builder gateway.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		dbPath := filepath.Join(cfg.DataDir, "relay.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:     cfg.Port,
			DataDir:  cfg.DataDir,
			AllowAll: cfg.AllowAllOrigins,
		}, database)

		registerAllRoutes(srv, database)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "relay server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)

		return srv.Start()
	},
}

// registerAllRoutes wires up all feature routes.
func registerAllRoutes(srv *server.Server, database *db.DB) {
	r := srv.Router()

	// Service catalog
	catalogStore := catalog.NewStore(database)
	catalog.RegisterRoutes(r, catalogStore)

	// Persisted workflows
	workflowStore := workflow.NewStore(database)
	workflow.RegisterRoutes(r, workflowStore)

	// Builder editor gateway, resolving and persisting in-process.
	gw := builder.NewGateway(
		catalog.NewStoreResolver(catalogStore),
		workflow.NewStoreService(workflowStore),
	)
	builder.RegisterRoutes(r, gw)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
