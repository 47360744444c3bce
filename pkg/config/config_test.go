package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lintang-b-s/Negotiatorx/pkg/util"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, int64(100), cfg.UnitsPerLambda)
	assert.Equal(t, 1.5, cfg.AttractorMarginLambda)
	assert.Equal(t, 3, cfg.StateRepeatLimit)
	// nine strategies below MaximumSlack must each get their repeats before the
	// ripup limit can cut the ladder short
	assert.Greater(t, cfg.RipupLimit, 9*cfg.StateRepeatLimit)
	assert.Equal(t, time.Second, cfg.DiagnosticInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestReadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("units_per_lambda: 50\nmax_events: 42\nlog_level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "negotiator.yaml"), content, 0o644))

	v := viper.New()
	v.AddConfigPath(dir)
	cfg, err := ReadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, int64(50), cfg.UnitsPerLambda)
	assert.Equal(t, 42, cfg.MaxEvents)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30, cfg.RipupLimit)
	assert.Equal(t, "RipupPerpandiculars", cfg.InitialState)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "zero resolution", mutate: func(c *Config) { c.UnitsPerLambda = 0 }, wantErr: true},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: true},
		{name: "negative margin", mutate: func(c *Config) { c.AttractorMarginLambda = -1 }, wantErr: true},
		{name: "repeat limit too wide", mutate: func(c *Config) { c.StateRepeatLimit = 32 }, wantErr: true},
		{name: "later initial state", mutate: func(c *Config) { c.InitialState = "ConflictSolve1" }},
		{name: "sentinel initial state", mutate: func(c *Config) { c.InitialState = "Unimplemented" }, wantErr: true},
		{name: "unknown initial state", mutate: func(c *Config) { c.InitialState = "Panic" }, wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, util.ErrBadParamInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
