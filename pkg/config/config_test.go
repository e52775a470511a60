package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/limaJavier/courseplan/pkg/loader"
	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/limaJavier/courseplan/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		//** Act
		cfg, err := Load("")

		//** Assert
		require.Nil(t, err)
		assert.Equal(t, "csvs", cfg.Input.Dir)
		assert.Equal(t, loader.DefaultFiles, cfg.Input.Files)
		assert.Equal(t, []string{"csv"}, cfg.Output.Formats)
		assert.Equal(t, scheduler.DefaultMaxLayers, cfg.Scheduler.MaxLayers)
		assert.Equal(t, model.DefaultModuleCapacity, cfg.Scheduler.ModuleCapacity)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("Configuration file", func(t *testing.T) {
		//** Arrange
		path := writeConfig(t, `
input:
  bundle: mem://localhost/input.yaml
  files:
    prerequisites: prereqs.csv
output:
  dir: out
  formats: [CSV, " xlsx"]
scheduler:
  max_layers: 4
  module_capacity: 12
log:
  level: debug
  format: json
`)

		//** Act
		cfg, err := Load(path)

		//** Assert
		require.Nil(t, err)
		assert.Equal(t, "mem://localhost/input.yaml", cfg.Input.Bundle)
		assert.Equal(t, "prereqs.csv", cfg.Input.Files.Prerequisites)
		assert.Equal(t, loader.DefaultFiles.Availability, cfg.Input.Files.Availability)
		assert.Equal(t, "out", cfg.Output.Dir)
		assert.Equal(t, []string{"csv", "xlsx"}, cfg.Output.Formats)
		assert.Equal(t, 4, cfg.Scheduler.MaxLayers)
		assert.Equal(t, 12, cfg.Scheduler.ModuleCapacity)
		assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "scheduler:\n  max_layers: 4\n")
		t.Setenv("COURSEPLAN_SCHEDULER_MAX_LAYERS", "1")
		t.Setenv("COURSEPLAN_INPUT_DIR", "data")

		cfg, err := Load(path)

		require.Nil(t, err)
		assert.Equal(t, 1, cfg.Scheduler.MaxLayers)
		assert.Equal(t, "data", cfg.Input.Dir)
	})

	t.Run("Missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.NotNil(t, err)
	})

	t.Run("Invalid values", func(t *testing.T) {
		cases := map[string]string{
			"unknown format":    "output:\n  formats: [pdf]\n",
			"negative layers":   "scheduler:\n  max_layers: -1\n",
			"zero capacity":     "scheduler:\n  module_capacity: 0\n",
			"no input location": "input:\n  dir: \"\"\n",
		}

		for name, content := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := Load(writeConfig(t, content))
				assert.ErrorContains(t, err, "invalid configuration")
			})
		}
	})
}
