package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/relayhq/relay/internal/catalog"
	"github.com/relayhq/relay/internal/config"
	"github.com/relayhq/relay/internal/workflow"
)

var validateCatalogFlag string

var validateCmd = &cobra.Command{
	Use:   "validate <glob>...",
	Short: "Validate workflow JSON files against the catalog",
	Long: `Loads each workflow file matching the given glob patterns (doublestar
globs like 'flows/**/*.json' are supported), reconstructs its editor graph
against the catalog seed file, and reports the first structural problem of
each workflow, if any.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		catalogPath := validateCatalogFlag
		if catalogPath == "" {
			catalogPath = cfg.CatalogFile
		}
		seeds, err := catalog.LoadFile(catalogPath)
		if err != nil {
			return err
		}
		resolver := catalog.NewFileResolver(seeds)

		var paths []string
		for _, pattern := range args {
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
			paths = append(paths, matches...)
		}
		if len(paths) == 0 {
			return fmt.Errorf("no files match the given patterns")
		}

		ctx := context.Background()
		failures := 0
		for _, path := range paths {
			if err := validateFile(ctx, path, resolver); err != nil {
				fmt.Printf("FAIL %s: %v\n", path, err)
				failures++
				continue
			}
			fmt.Printf("OK   %s\n", path)
		}

		if failures > 0 {
			return fmt.Errorf("%d of %d workflows failed validation", failures, len(paths))
		}
		fmt.Printf("%d workflows valid\n", len(paths))
		return nil
	},
}

func validateFile(ctx context.Context, path string, resolver catalog.Resolver) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var w workflow.Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("parsing workflow: %w", err)
	}

	g, err := workflow.ToGraph(ctx, &w, resolver)
	if err != nil {
		return err
	}
	return g.Validate()
}

func init() {
	validateCmd.Flags().StringVar(&validateCatalogFlag, "catalog", "", "catalog seed file (defaults to catalog_file from config)")
	rootCmd.AddCommand(validateCmd)
}
