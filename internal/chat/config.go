package chat

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ClassifierConfig holds the keyword and pattern lists that drive query
// classification and location extraction. Keeping them as configuration data
// rather than inline literals makes the priority order explicit and lets
// deployments tune the lists without a rebuild.
type ClassifierConfig struct {
	// Keywords whose presence in a lower-cased message marks it as a
	// weather query.
	Keywords []string `yaml:"keywords"`
	// LocationPatterns are tried in order, first match wins; each must have
	// exactly one capture group for the location phrase.
	LocationPatterns []string `yaml:"location_patterns"`
	// StopWords are stripped from a captured location phrase.
	StopWords []string `yaml:"stop_words"`
	// CountryCodes is the allow-list of recognized two-letter codes.
	CountryCodes []string `yaml:"country_codes"`
	// ForecastTriggers switch a query from current weather to a forecast.
	ForecastTriggers []string `yaml:"forecast_triggers"`
}

// DefaultClassifierConfig returns the built-in lists.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Keywords: []string{
			"weather", "temperature", "forecast", "climate", "rain", "snow",
			"sunny", "cloudy", "wind", "humidity", "°c", "°f", "degrees",
		},
		LocationPatterns: []string{
			`weather in (\w+(?:\s+\w+)*)`,
			`temperature in (\w+(?:\s+\w+)*)`,
			`forecast for (\w+(?:\s+\w+)*)`,
			`how's the weather in (\w+(?:\s+\w+)*)`,
			`what's the weather like in (\w+(?:\s+\w+)*)`,
			`weather (\w+(?:\s+\w+)*)`,
			`(\w+(?:\s+\w+)*) weather`,
		},
		StopWords: []string{"in", "for", "the", "like"},
		CountryCodes: []string{
			"US", "UK", "CA", "AU", "DE", "FR", "IT", "ES", "JP", "CN",
			"IN", "BR", "MX", "RU", "KR", "NL", "SE", "NO", "DK", "FI",
			"CH", "AT", "BE", "PL", "CZ", "HU", "RO", "BG", "HR", "SI",
			"SK", "EE", "LV", "LT", "MT", "CY", "LU", "IE", "PT", "GR",
		},
		ForecastTriggers: []string{"forecast", "tomorrow", "week", "days", "upcoming"},
	}
}

// LoadClassifierConfig reads a YAML file and overlays it on the defaults;
// lists absent from the file keep their built-in values.
func LoadClassifierConfig(path string) (ClassifierConfig, error) {
	cfg := DefaultClassifierConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read classifier config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse classifier config %s: %w", path, err)
	}
	return cfg, nil
}
