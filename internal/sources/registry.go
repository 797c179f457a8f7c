package sources

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// Registry holds the configuration for all data sources.
type Registry struct {
	Senate    SenateConfig  `yaml:"senate"`
	NYC       SocrataConfig `yaml:"nyc"`
	Checkbook SocrataConfig `yaml:"nyc_checkbook"`
	HTTP      HTTPConfig    `yaml:"http"`
}

// SenateConfig configures the federal LDA registry source.
type SenateConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// SocrataConfig configures one NYC Open Data (Socrata) dataset source.
type SocrataConfig struct {
	BaseURL  string            `yaml:"base_url"`
	Dataset  string            `yaml:"dataset"`
	Datasets map[string]string `yaml:"datasets,omitempty"`
	AppToken string            `yaml:"app_token"`
}

// HTTPConfig tunes the shared outbound HTTP behavior.
type HTTPConfig struct {
	TimeoutSeconds       int     `yaml:"timeout_seconds"`        // Socrata sources, default 30
	SenateTimeoutSeconds int     `yaml:"senate_timeout_seconds"` // LDA searches are slower, default 45
	MaxRetries           int     `yaml:"max_retries"`            // default 3
	RateLimitRPS         float64 `yaml:"rate_limit_rps"`         // default 2.0
}

// LoadRegistry reads the sources config. A non-empty path overrides the
// embedded default. Environment variables inside the YAML (e.g. ${LDA_API_KEY})
// are expanded before parsing.
func LoadRegistry(path string) (*Registry, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = sourcesYAML.ReadFile("config/sources.yaml")
	}
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, fmt.Errorf("parsing sources config: %w", err)
	}

	return &reg, nil
}
