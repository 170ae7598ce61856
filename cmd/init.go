package cmd

import (
	"github.com/spf13/cobra"

	"github.com/relayhq/relay/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize relay configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure relay and generates a .relay.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
