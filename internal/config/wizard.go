package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .relay.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to relay! Let's configure your instance.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Port for the relay server",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p <= 0 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 2. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (SQLite database lives here)",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 3. Catalog seed file.
	catalogPrompt := promptui.Prompt{
		Label:   "Catalog seed file (services and their actions/reactions)",
		Default: cfg.CatalogFile,
	}
	if cfg.CatalogFile, err = catalogPrompt.Run(); err != nil {
		return nil, fmt.Errorf("catalog file: %w", err)
	}

	// 4. Dev mode CORS.
	corsPrompt := promptui.Select{
		Label: "Allow all CORS origins (dev mode)",
		Items: []string{"no", "yes"},
	}
	corsIdx, _, err := corsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cors: %w", err)
	}
	cfg.AllowAllOrigins = corsIdx == 1

	cfg.APIBase = fmt.Sprintf("http://localhost:%d", cfg.Port)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(".relay.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration saved to .relay.yml")
	return cfg, nil
}
