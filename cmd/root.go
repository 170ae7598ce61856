package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Compose automations from one trigger and many reactions",
	Long: `Relay lets you compose automations ("workflows") by connecting one
trigger action from a service catalog to any number of downstream
reactions. It ships the workflow builder engine, the catalog and
workflow APIs, and a WebSocket editor gateway.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".relay.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
