// Package config loads converter defaults from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lucasjlepore/zwo2mrc/mrc"
)

type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Export  ExportConfig  `yaml:"export"`
}

type ConvertConfig struct {
	FTP        float64  `yaml:"ftp"`
	Format     string   `yaml:"format"`
	Extensions []string `yaml:"extensions"`
}

type ExportConfig struct {
	Table string `yaml:"table"`
}

// Default returns the converter defaults used when no config file is given.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			FTP:        mrc.DefaultFTP,
			Format:     mrc.FormatMRC,
			Extensions: []string{".zwo", ".xml", ".fit"},
		},
	}
}

// Load reads config from a YAML file, then applies environment variable
// overrides. An empty path skips the file and uses defaults plus env.
// Env vars use the prefix ZWO2MRC_:
//
//	ZWO2MRC_FTP, ZWO2MRC_FORMAT, ZWO2MRC_TABLE,
//	ZWO2MRC_EXTENSIONS (comma-separated)
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	// Format matching is case-insensitive regardless of source.
	cfg.Convert.Format = strings.ToLower(strings.TrimSpace(cfg.Convert.Format))

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ZWO2MRC_FTP"); v != "" {
		if ftp, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Convert.FTP = ftp
		}
	}
	if v := os.Getenv("ZWO2MRC_FORMAT"); v != "" {
		cfg.Convert.Format = v
	}
	if v := os.Getenv("ZWO2MRC_TABLE"); v != "" {
		cfg.Export.Table = v
	}
	if v := os.Getenv("ZWO2MRC_EXTENSIONS"); v != "" {
		exts := make([]string, 0, 4)
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				exts = append(exts, e)
			}
		}
		if len(exts) > 0 {
			cfg.Convert.Extensions = exts
		}
	}
}

func (c *Config) validate() error {
	if c.Convert.FTP <= 0 {
		return fmt.Errorf("convert.ftp must be positive")
	}
	switch c.Convert.Format {
	case mrc.FormatMRC, mrc.FormatERG, "both":
	default:
		return fmt.Errorf("convert.format must be mrc, erg, or both")
	}
	switch c.Export.Table {
	case "", "csv", "parquet":
	default:
		return fmt.Errorf("export.table must be csv or parquet")
	}
	if len(c.Convert.Extensions) == 0 {
		return fmt.Errorf("convert.extensions is required")
	}
	for _, ext := range c.Convert.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("convert.extensions entries must start with a dot: %q", ext)
		}
	}
	return nil
}
