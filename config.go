package xlembed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the file form of the embedder options.
//
//	sheet: Properties
//	identifier_column: Property ID
//	target_column: Screenshot
//	image: {width: 280, height: 160, quality: 90}
//	layout:
//	  identifier_width: 15
//	  target_width: 50
//	  row_height: 120
//	  column_widths: {B: 80, D: 5, E: 10}
//	asset_name: '"part_" + key + ".jpg"'
//	workers: 4
type Config struct {
	Sheet            string      `yaml:"sheet"`
	IdentifierColumn string      `yaml:"identifier_column"`
	TargetColumn     string      `yaml:"target_column"`
	Image            ImageConfig `yaml:"image"`
	Layout           *Layout     `yaml:"layout"`
	AssetName        string      `yaml:"asset_name"`
	StagingDir       string      `yaml:"staging_dir"`
	Workers          int         `yaml:"workers"`
}

// ImageConfig sets the forced size and JPEG quality of embedded images.
type ImageConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	Quality   int `yaml:"quality"`
	MaxPixels int `yaml:"max_pixels"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Options converts the config into embedder options. Unset fields keep
// their defaults; a layout section replaces the default layout entirely.
func (c *Config) Options() []Option {
	opts := []Option{WithColumns(c.IdentifierColumn, c.TargetColumn)}
	if c.Sheet != "" {
		opts = append(opts, WithSheet(c.Sheet))
	}
	opts = append(opts, WithImageSize(c.Image.Width, c.Image.Height), WithJPEGQuality(c.Image.Quality), WithMaxPixels(c.Image.MaxPixels))
	if c.Layout != nil {
		opts = append(opts, WithLayout(*c.Layout))
	}
	if c.AssetName != "" {
		opts = append(opts, WithAssetNameExpr(c.AssetName))
	}
	if c.StagingDir != "" {
		opts = append(opts, WithStagingDir(c.StagingDir))
	}
	if c.Workers > 0 {
		opts = append(opts, WithConcurrency(c.Workers))
	}
	return opts
}
