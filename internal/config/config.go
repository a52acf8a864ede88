package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for the jsonfuzz CLI
type Config struct {
	Seed    int64         `yaml:"seed"`
	Count   int           `yaml:"count"`
	Grammar GrammarConfig `yaml:"grammar"`
	Tree    TreeConfig    `yaml:"tree"`
	Output  OutputConfig  `yaml:"output"`
}

// GrammarConfig controls the grammar generation path
type GrammarConfig struct {
	Budget int  `yaml:"budget"`
	Evolve bool `yaml:"evolve"`
}

// TreeConfig controls the tree mutation path
type TreeConfig struct {
	MaxCost uint64 `yaml:"max_cost"`
	Rounds  int    `yaml:"rounds"`
}

// OutputConfig controls how documents are emitted
type OutputConfig struct {
	Check bool `yaml:"check"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Seed:  1,
		Count: 10,
		Grammar: GrammarConfig{
			Budget: 64,
			Evolve: false,
		},
		Tree: TreeConfig{
			MaxCost: 256,
			Rounds:  8,
		},
		Output: OutputConfig{
			Check: false,
		},
	}
}

// Validate checks the configuration for values that would stall or break a
// run.
func (c *Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", c.Count)
	}
	if c.Grammar.Budget < 0 {
		return fmt.Errorf("grammar budget must not be negative, got %d", c.Grammar.Budget)
	}
	if c.Tree.Rounds < 1 {
		return fmt.Errorf("tree rounds must be at least 1, got %d", c.Tree.Rounds)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonfuzz.yml", ".jsonfuzz.yaml", "jsonfuzz.yml", "jsonfuzz.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}
