package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedService is one service plus its items as declared in a catalog seed
// file.
type SeedService struct {
	Service `yaml:",inline"`
	Items   []Item `yaml:"items"`
}

type seedFile struct {
	Services []SeedService `yaml:"services"`
}

// LoadFile parses a YAML catalog seed file:
//
//	services:
//	  - id: github
//	    name: GitHub
//	    color: "#181717"
//	    connect_url: https://example.com/oauth/github
//	    items:
//	      - id: new_issue
//	        name: New issue
//	        kind: action
//	        fields: [repo]
func LoadFile(path string) ([]SeedService, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
	}

	for _, svc := range f.Services {
		if svc.ID == "" || svc.Name == "" {
			return nil, fmt.Errorf("catalog file %s: every service needs an id and a name", path)
		}
		for _, item := range svc.Items {
			if item.ID == "" || item.Name == "" {
				return nil, fmt.Errorf("catalog file %s: every item of service %q needs an id and a name", path, svc.ID)
			}
			if item.Kind != KindAction && item.Kind != KindReaction {
				return nil, fmt.Errorf("catalog file %s: item %q of service %q has kind %q, want action or reaction",
					path, item.ID, svc.ID, item.Kind)
			}
		}
	}
	return f.Services, nil
}
