// Package config loads the optional surfacefx.yaml file used by the CLI.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-filters/images"
	"github.com/nvr-ai/go-filters/images/kernels"
	"github.com/nvr-ai/go-filters/surface"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "surfacefx.yaml"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the optional surfacefx.yaml configuration.
type Config struct {
	Filter FilterConfig `yaml:"filter"`
	Output OutputConfig `yaml:"output"`
	Batch  BatchConfig  `yaml:"batch"`
}

// FilterConfig selects the filter and its kernel options.
type FilterConfig struct {
	Name      string `yaml:"name,omitempty"`
	Radius    int    `yaml:"radius,omitempty"`
	Kernel    string `yaml:"kernel,omitempty"`
	Edge      string `yaml:"edge,omitempty"`
	Precision string `yaml:"precision,omitempty"`
	Parallel  bool   `yaml:"parallel,omitempty"`
	Workers   int    `yaml:"workers,omitempty"`
}

// OutputConfig controls where results go and how large they may be.
type OutputConfig struct {
	Dir string `yaml:"dir,omitempty"`
	// Resolution names a size preset ("720p", "4k", ...). It is ignored when
	// MaxWidth or MaxHeight is set.
	Resolution string `yaml:"resolution,omitempty"`
	MaxWidth   int    `yaml:"max_width,omitempty"`
	MaxHeight  int    `yaml:"max_height,omitempty"`
}

// BatchConfig controls directory processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Filter: FilterConfig{
			Name:      surface.FilterBlur.String(),
			Radius:    8,
			Kernel:    kernels.FormulaReference.String(),
			Edge:      kernels.EdgeFlat.String(),
			Precision: kernels.Precision64.String(),
		},
		Output: OutputConfig{Dir: "out"},
		Batch:  BatchConfig{Concurrency: 4},
	}
}

// LoadOptional reads surfacefx.yaml from dir if present. Keys missing from
// the file keep their Default values; a missing file yields Default().
func LoadOptional(dir string) (*Config, error) {
	cfg := Default()
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to read %s", FileName)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", FileName)
	}
	return cfg, nil
}

// Validate checks every field and the combination of fields.
func (c *Config) Validate() error {
	if _, err := surface.ParseFilter(c.Filter.Name); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if err := kernels.CheckRadius(c.Filter.Radius); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if _, err := c.KernelOptions(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.Wrap(ErrInvalidConfig, "output.dir is empty")
	}
	if _, _, err := c.MaxSize(); err != nil {
		return err
	}
	if c.Batch.Concurrency < 1 {
		return errors.Wrapf(ErrInvalidConfig, "batch.concurrency %d", c.Batch.Concurrency)
	}
	return nil
}

// FilterKind returns the configured filter.
func (c *Config) FilterKind() (surface.Filter, error) {
	f, err := surface.ParseFilter(c.Filter.Name)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return f, nil
}

// KernelOptions converts the filter section into kernels.Options.
func (c *Config) KernelOptions() (kernels.Options, error) {
	opt := kernels.DefaultOptions()
	var err error
	if c.Filter.Kernel != "" {
		if opt.Formula, err = kernels.ParseKernelFormula(c.Filter.Kernel); err != nil {
			return opt, errors.Wrap(ErrInvalidConfig, err.Error())
		}
	}
	if c.Filter.Edge != "" {
		if opt.Edge, err = kernels.ParseEdgePolicy(c.Filter.Edge); err != nil {
			return opt, errors.Wrap(ErrInvalidConfig, err.Error())
		}
	}
	if c.Filter.Precision != "" {
		if opt.Precision, err = kernels.ParsePrecision(c.Filter.Precision); err != nil {
			return opt, errors.Wrap(ErrInvalidConfig, err.Error())
		}
	}
	opt.Parallel = c.Filter.Parallel
	opt.Workers = c.Filter.Workers
	if err := opt.Validate(); err != nil {
		return opt, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return opt, nil
}

// MaxSize returns the bound images are downscaled to before filtering, with
// 0, 0 meaning no bound. Explicit max_width/max_height win over resolution.
func (c *Config) MaxSize() (int, int, error) {
	w, h := c.Output.MaxWidth, c.Output.MaxHeight
	if w < 0 || h < 0 {
		return 0, 0, errors.Wrapf(ErrInvalidConfig, "output max size %dx%d", w, h)
	}
	if w > 0 || h > 0 || c.Output.Resolution == "" {
		return w, h, nil
	}
	res, err := images.LookupResolution(c.Output.Resolution)
	if err != nil {
		return 0, 0, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return res.Width, res.Height, nil
}
