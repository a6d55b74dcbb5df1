package config

import "fmt"

// LayoutConfig holds character and line caps for slide fields.
type LayoutConfig struct {
	HeaderMaxLines  int `yaml:"header_max_lines"`
	HeaderMaxChars  int `yaml:"header_max_chars"` // per line
	BodyMaxLines    int `yaml:"body_max_lines"`   // non-empty lines
	BodyMaxChars    int `yaml:"body_max_chars"`   // per line
	TipMaxLines     int `yaml:"tip_max_lines"`
	TipMaxChars     int `yaml:"tip_max_chars"` // per line
	BulletMinLength int `yaml:"bullet_min_length"`
}

// ValidateLayout checks that layout caps are usable.
func (c *Config) ValidateLayout() error {
	l := c.Layout
	if l.HeaderMaxLines < 1 || l.HeaderMaxChars < 1 {
		return fmt.Errorf("layout header caps must be >= 1")
	}
	if l.BodyMaxLines < 1 || l.BodyMaxChars < 1 {
		return fmt.Errorf("layout body caps must be >= 1")
	}
	if l.TipMaxLines < 1 || l.TipMaxChars < 1 {
		return fmt.Errorf("layout tip caps must be >= 1")
	}
	if l.BulletMinLength < 0 {
		return fmt.Errorf("layout.bullet_min_length must be >= 0")
	}
	return nil
}
