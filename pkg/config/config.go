// Package config loads and validates YAML configuration for dataset
// generation runs.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is a singleton validator instance
var validate = validator.New()

// GraphConfig describes the random directed graph a generation run builds.
type GraphConfig struct {
	NumNodes int     `yaml:"num_nodes" validate:"required,min=2"`
	EdgeProb float64 `yaml:"edge_prob" validate:"required,gt=0,lt=1"`
}

// GenerationConfig is the top-level configuration of one generation run.
type GenerationConfig struct {
	RunName     string      `yaml:"run_name" validate:"required"`
	OutDir      string      `yaml:"out_dir" validate:"required"`
	Seed        int64       `yaml:"seed"`
	Graph       GraphConfig `yaml:"graph" validate:"required"`
	NumInfo     int         `yaml:"num_info" validate:"required,min=1"`
	Prob        float64     `yaml:"prob" validate:"required,gt=0,lte=1"`
	NumFeatures int         `yaml:"num_features" validate:"required,min=1"`
	NumSubfiles int         `yaml:"num_subfiles" validate:"omitempty,min=1"`
	COORepr     bool        `yaml:"coo_repr"`
}

// Load reads, parses and validates a generation config file.
func Load(path string) (*GenerationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg GenerationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config against its struct tags and applies defaults.
func (c *GenerationConfig) Validate() error {
	if c.NumSubfiles == 0 {
		c.NumSubfiles = 1
	}
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			first := errs[0]
			return fmt.Errorf("config: field %s failed %q validation", first.Field(), first.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
