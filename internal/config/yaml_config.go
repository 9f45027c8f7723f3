package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default capability aliases accepted by the usage API.
var defaultCapabilities = map[string]string{
	"send":    "actions.intent.SEND_MESSAGE",
	"receive": "actions.intent.RECEIVE_MESSAGE",
}

// YAMLConfig represents the structure of the config.yaml file.
// Lists and maps that are awkward to carry in env vars live here.
type YAMLConfig struct {
	SeedKeywords []string          `yaml:"seed_keywords"` // Stored on first start when no keywords exist
	Capabilities map[string]string `yaml:"capabilities"`  // Usage action -> capability
	Palette      []string          `yaml:"palette"`       // Letter avatar colors, "#rrggbb"
}

// LoadYAMLConfig loads the YAML configuration file at path.
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Capability maps a usage action such as "send" to its capability. Unknown
// actions report false.
func (c *YAMLConfig) Capability(action string) (string, bool) {
	action = strings.ToLower(strings.TrimSpace(action))
	if c != nil {
		if capability, ok := c.Capabilities[action]; ok {
			return capability, true
		}
	}
	capability, ok := defaultCapabilities[action]
	return capability, ok
}

// GetSeedKeywords returns the configured seed keywords.
func (c *YAMLConfig) GetSeedKeywords() []string {
	if c == nil {
		return nil
	}
	return c.SeedKeywords
}

// GetPalette returns the configured palette, or nil to keep the default.
func (c *YAMLConfig) GetPalette() []string {
	if c == nil || len(c.Palette) == 0 {
		return nil
	}
	return c.Palette
}
