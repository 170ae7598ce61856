package config

// DefaultConfig returns the configuration used when no file or overrides
// are present.
func DefaultConfig() *Config {
	return &Config{
		Port:        8080,
		DataDir:     ".relay",
		CatalogFile: "catalog.yml",
		APIBase:     "http://localhost:8080",
	}
}
