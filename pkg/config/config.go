// Package config loads gridsplit's start-up settings from a TOML file and the
// environment. Settings are only ever read; nothing is written back.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/preview"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/split"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/storage"
)

const DefaultConfigPath = "gridsplit.toml"

const (
	EnvAccessKey = "GRIDSPLIT_S3_ACCESS_KEY"
	EnvSecretKey = "GRIDSPLIT_S3_SECRET_KEY"
)

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

type Preview struct {
	MaxWidth  int     `toml:"max_width"`
	MaxHeight int     `toml:"max_height"`
	LineWidth float64 `toml:"line_width"`
	LineColor string  `toml:"line_color"`
	// Output is where the interactive session writes the rendered preview.
	Output string `toml:"output"`
}

type Export struct {
	Quality int `toml:"quality"`
}

type Config struct {
	Preview Preview        `toml:"preview"`
	Export  Export         `toml:"export"`
	Storage storage.Config `toml:"storage"`
}

// Default returns the compiled-in settings.
func Default() Config {
	return Config{
		Preview: Preview{
			MaxWidth:  preview.DefaultMaxWidth,
			MaxHeight: preview.DefaultMaxHeight,
			LineWidth: preview.DefaultLineWidth,
			LineColor: preview.DefaultLineColor,
			Output:    filepath.Join(os.TempDir(), "gridsplit-preview.png"),
		},
		Export: Export{
			Quality: split.DefaultQuality,
		},
		Storage: storage.Config{
			Region: "us-east-1",
			Prefix: "tiles",
		},
	}
}

// Load reads path over the defaults. An empty path means DefaultConfigPath,
// which may be absent; an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAccessKey); v != "" {
		c.Storage.AccessKey = v
	}
	if v := os.Getenv(EnvSecretKey); v != "" {
		c.Storage.SecretKey = v
	}
}

func (c Config) Validate() error {
	if c.Preview.MaxWidth < 1 || c.Preview.MaxHeight < 1 {
		return fmt.Errorf("preview box %dx%d must be positive", c.Preview.MaxWidth, c.Preview.MaxHeight)
	}
	if c.Preview.LineWidth <= 0 {
		return fmt.Errorf("preview line_width %v must be positive", c.Preview.LineWidth)
	}
	if !hexColor.MatchString(c.Preview.LineColor) {
		return fmt.Errorf("preview line_color %q is not a hex colour", c.Preview.LineColor)
	}
	if c.Export.Quality < 1 || c.Export.Quality > 100 {
		return fmt.Errorf("export quality %d out of range 1..100", c.Export.Quality)
	}
	if c.Storage.Bucket != "" && c.Storage.Endpoint == "" {
		return errors.New("storage bucket set without endpoint")
	}
	return nil
}
