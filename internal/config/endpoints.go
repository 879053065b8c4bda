package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EndpointEntry is one endpoint from the YAML endpoints file.
type EndpointEntry struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type EndpointsFile struct {
	Endpoints []EndpointEntry `yaml:"endpoints"`
}

// LoadEndpoints reads the YAML endpoints file. A missing file is not an
// error; it just means no endpoints are pre-registered.
func LoadEndpoints(path string) ([]EndpointEntry, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}
	var f EndpointsFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("parse endpoints file: %w", err)
	}
	out := f.Endpoints[:0]
	for _, e := range f.Endpoints {
		if e.URL == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
