package config

import "strings"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	Format     string          `yaml:"format"`     // json, console
	Categories map[string]bool `yaml:"categories"` // Per-category toggles
}

// ValidLevels lists the accepted logging levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Categories not listed are enabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

func validLevel(level string) bool {
	l := strings.ToLower(strings.TrimSpace(level))
	if l == "warning" {
		return true
	}
	for _, v := range ValidLevels {
		if l == v {
			return true
		}
	}
	return false
}
