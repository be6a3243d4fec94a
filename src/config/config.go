package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Blackdeer1524/sortbench/src/bench"
	"github.com/Blackdeer1524/sortbench/src/gapseq"
	"github.com/Blackdeer1524/sortbench/src/rangen"
	"github.com/Blackdeer1524/sortbench/src/records"
)

// EnvPrefix prefixes every environment variable, e.g. SORTBENCH_MAX_RECORDS.
const EnvPrefix = "SORTBENCH"

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Environment string `yaml:"environment"`

	MinRecords  int   `yaml:"min_records"  split_words:"true"`
	MaxRecords  int   `yaml:"max_records"  split_words:"true"`
	Growth      int   `yaml:"growth"`
	Repetitions int   `yaml:"repetitions"`
	BaseSeed    int64 `yaml:"base_seed"    split_words:"true"`

	Output   string   `yaml:"output"`
	Variants []string `yaml:"variants"`
	Source   string   `yaml:"source"`
	Workers  int      `yaml:"workers"`

	RecordWidth int `yaml:"record_width" split_words:"true"`
	KeyLen      int `yaml:"key_len"      split_words:"true"`
	FillLen     int `yaml:"fill_len"     split_words:"true"`
}

func Default() Config {
	opts := bench.DefaultOptions()

	return Config{
		Environment: EnvProd,
		MinRecords:  opts.MinRecords,
		MaxRecords:  opts.MaxRecords,
		Growth:      opts.Growth,
		Repetitions: opts.Repetitions,
		BaseSeed:    opts.BaseSeed,
		Output:      "sortbench.log",
		Source:      opts.Source,
		Workers:     opts.Workers,
		RecordWidth: opts.Layout.Width,
		KeyLen:      opts.Layout.KeyLen,
		FillLen:     opts.Layout.FillLen,
	}
}

// Normalize replaces unset values with defaults. Explicitly invalid values
// are left for Validate to report.
func (c *Config) Normalize() {
	d := Default()

	if c.Environment == "" {
		c.Environment = d.Environment
	}

	if c.Output == "" {
		c.Output = d.Output
	}

	if c.Source == "" {
		c.Source = d.Source
	}

	if c.Workers == 0 {
		c.Workers = d.Workers
	}

	if c.RecordWidth == 0 {
		c.RecordWidth = d.RecordWidth
	}

	if c.KeyLen == 0 {
		c.KeyLen = d.KeyLen
	}

	// fill at least the comparison prefix
	if c.FillLen == 0 {
		c.FillLen = c.KeyLen
	}

	variants := c.Variants[:0]
	for _, v := range c.Variants {
		if v = strings.TrimSpace(v); v != "" {
			variants = append(variants, v)
		}
	}
	c.Variants = variants
}

func (c Config) Validate() error {
	if c.Environment != EnvDev && c.Environment != EnvProd {
		return fmt.Errorf("%w: environment %q is neither %q nor %q",
			ErrInvalidConfig, c.Environment, EnvDev, EnvProd)
	}

	_, err := c.BenchOptions()

	return err
}

// BenchOptions converts the config into the values the benchmark runs with.
func (c Config) BenchOptions() (bench.Options, error) {
	variants, err := gapseq.ParseVariants(c.Variants)
	if err != nil {
		return bench.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, err := rangen.NewSource(c.Source); err != nil {
		return bench.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	layout := records.Layout{
		Width:   c.RecordWidth,
		KeyLen:  c.KeyLen,
		FillLen: c.FillLen,
	}
	if err := layout.Validate(); err != nil {
		return bench.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return bench.Options{
		MinRecords:  c.MinRecords,
		MaxRecords:  c.MaxRecords,
		Growth:      c.Growth,
		Repetitions: c.Repetitions,
		BaseSeed:    c.BaseSeed,
		Variants:    variants,
		Source:      c.Source,
		Workers:     c.Workers,
		Layout:      layout,
	}, nil
}

// LoadProfile overlays the YAML profile at path onto c. Keys missing from
// the profile keep their current values.
func (c *Config) LoadProfile(fs afero.Fs, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse profile %q: %w", path, err)
	}

	return nil
}

// LoadEnv overlays SORTBENCH_* environment variables onto c. Variables from
// envFile are added to the environment first without overriding ones that
// are already set; a missing envFile is not an error.
func (c *Config) LoadEnv(envFile string) error {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}

	return nil
}

// Load builds a config from defaults, the optional profile and the
// environment, in that order of increasing precedence.
func Load(fs afero.Fs, profile, envFile string) (Config, error) {
	cfg := Default()

	if profile != "" {
		if err := cfg.LoadProfile(fs, profile); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.LoadEnv(envFile); err != nil {
		return Config{}, err
	}

	cfg.Normalize()

	return cfg, nil
}
