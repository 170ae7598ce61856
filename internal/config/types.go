package config

// Config is the top-level relay configuration, corresponding to .relay.yml.
type Config struct {
	Port            int    `yaml:"port" koanf:"port"`
	DataDir         string `yaml:"data_dir" koanf:"data_dir"`
	CatalogFile     string `yaml:"catalog_file" koanf:"catalog_file"`
	APIBase         string `yaml:"api_base" koanf:"api_base"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
