package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/relayhq/relay/internal/catalog"
	"github.com/relayhq/relay/internal/config"
	"github.com/relayhq/relay/internal/db"
	"github.com/relayhq/relay/internal/progress"
)

var seedFileFlag string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the service catalog from a YAML file",
	Long:  `Imports services and their action/reaction definitions from a catalog seed file into the relay database. Existing entries are updated in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		path := seedFileFlag
		if path == "" {
			path = cfg.CatalogFile
		}

		seeds, err := catalog.LoadFile(path)
		if err != nil {
			return err
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "relay.db"))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		store := catalog.NewStore(database)
		ctx := context.Background()

		reporter := progress.NewReporter()
		reporter.Start(len(seeds))
		var items int
		for i, seed := range seeds {
			reporter.Update(i+1, seed.Name)
			if err := store.UpsertService(ctx, seed.Service); err != nil {
				return err
			}
			for pos, item := range seed.Items {
				if err := store.UpsertItem(ctx, seed.ID, item, pos); err != nil {
					return err
				}
				items++
			}
		}
		reporter.Finish()

		fmt.Printf("Seeded %d services and %d catalog items from %s\n", len(seeds), items, path)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFileFlag, "file", "f", "", "catalog seed file (defaults to catalog_file from config)")
	rootCmd.AddCommand(seedCmd)
}
