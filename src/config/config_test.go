package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackdeer1524/sortbench/src/gapseq"
	"github.com/Blackdeer1524/sortbench/src/rangen"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.BenchOptions()
	require.NoError(t, err)

	assert.Equal(t, 10, opts.MinRecords)
	assert.Equal(t, 10_000_000, opts.MaxRecords)
	assert.Equal(t, 5, opts.Repetitions)
	assert.Equal(t, int64(301), opts.BaseSeed)
	assert.Equal(t, gapseq.All(), opts.Variants)
	assert.Equal(t, rangen.SourceMD5, opts.Source)
	assert.Equal(t, 72, opts.Layout.Width)
	assert.Equal(t, 6, opts.Layout.KeyLen)
}

func TestLoadProfile(t *testing.T) {
	fs := afero.NewMemMapFs()
	profile := `
max_records: 1000
repetitions: 3
variants: [knuth, ciura-2.2]
source: quad
`
	require.NoError(t, afero.WriteFile(fs, "bench.yaml", []byte(profile), 0o644))

	cfg := Default()
	require.NoError(t, cfg.LoadProfile(fs, "bench.yaml"))

	assert.Equal(t, 1000, cfg.MaxRecords)
	assert.Equal(t, 3, cfg.Repetitions)
	assert.Equal(t, []string{"knuth", "ciura-2.2"}, cfg.Variants)
	assert.Equal(t, rangen.SourceQuad, cfg.Source)
	// untouched keys keep their defaults
	assert.Equal(t, int64(301), cfg.BaseSeed)
	assert.Equal(t, "sortbench.log", cfg.Output)
}

func TestLoadProfile_Empty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "empty.yaml", nil, 0o644))

	cfg := Default()
	require.NoError(t, cfg.LoadProfile(fs, "empty.yaml"))
	assert.Equal(t, Default(), cfg)
}

func TestLoadProfile_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "typo.yaml", []byte("max_recs: 10\n"), 0o644))

	cfg := Default()
	require.Error(t, cfg.LoadProfile(fs, "typo.yaml"))
	require.Error(t, cfg.LoadProfile(fs, "missing.yaml"))
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SORTBENCH_MAX_RECORDS", "5000")
	t.Setenv("SORTBENCH_BASE_SEED", "-7")
	t.Setenv("SORTBENCH_VARIANTS", "knuth,ciura-2.25-odd")
	t.Setenv("SORTBENCH_ENVIRONMENT", EnvDev)

	cfg := Default()
	require.NoError(t, cfg.LoadEnv(""))

	assert.Equal(t, 5000, cfg.MaxRecords)
	assert.Equal(t, int64(-7), cfg.BaseSeed)
	assert.Equal(t, []string{"knuth", "ciura-2.25-odd"}, cfg.Variants)
	assert.Equal(t, EnvDev, cfg.Environment)
	assert.Equal(t, 5, cfg.Repetitions)
}

func TestLoadEnv_BadValue(t *testing.T) {
	t.Setenv("SORTBENCH_WORKERS", "many")

	cfg := Default()
	require.Error(t, cfg.LoadEnv(""))
}

func TestLoad_Precedence(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "p.yaml", []byte("max_records: 100\nrepetitions: 2\n"), 0o644))

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SORTBENCH_GROWTH=4\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SORTBENCH_GROWTH") })

	t.Setenv("SORTBENCH_REPETITIONS", "9")

	cfg, err := Load(fs, "p.yaml", envFile)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.MaxRecords)
	assert.Equal(t, 9, cfg.Repetitions)
	assert.Equal(t, 4, cfg.Growth)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "", filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestNormalize(t *testing.T) {
	cfg := Config{
		KeyLen:   8,
		Variants: []string{" knuth ", "", "  "},
	}
	cfg.Normalize()

	d := Default()
	assert.Equal(t, d.Environment, cfg.Environment)
	assert.Equal(t, d.Output, cfg.Output)
	assert.Equal(t, d.Source, cfg.Source)
	assert.Equal(t, d.Workers, cfg.Workers)
	assert.Equal(t, d.RecordWidth, cfg.RecordWidth)
	assert.Equal(t, 8, cfg.FillLen)
	assert.Equal(t, []string{"knuth"}, cfg.Variants)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"environment", func(c *Config) { c.Environment = "staging" }},
		{"variant", func(c *Config) { c.Variants = []string{"bogus"} }},
		{"source", func(c *Config) { c.Source = "dice" }},
		{"layout", func(c *Config) { c.KeyLen = 100 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
