package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/limaJavier/courseplan/pkg/loader"
	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/limaJavier/courseplan/pkg/scheduler"
	"github.com/spf13/viper"
)

const envPrefix = "COURSEPLAN"

var ValidFormats = []string{"csv", "xlsx"}

type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

// InputConfig points either to a directory of CSV files or to a single bundle, the bundle taking precedence
type InputConfig struct {
	Dir    string       `mapstructure:"dir"`
	Bundle string       `mapstructure:"bundle"`
	Files  loader.Files `mapstructure:"files"`
}

type OutputConfig struct {
	Dir     string   `mapstructure:"dir"`
	Formats []string `mapstructure:"formats"`
}

type SchedulerConfig struct {
	MaxLayers      int `mapstructure:"max_layers"`
	ModuleCapacity int `mapstructure:"module_capacity"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration. Precedence: environment variables > configuration file > defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("input.dir", "csvs")
	v.SetDefault("input.bundle", "")
	v.SetDefault("input.files.availability", loader.DefaultFiles.Availability)
	v.SetDefault("input.files.course_teachers", loader.DefaultFiles.CourseTeachers)
	v.SetDefault("input.files.prerequisites", loader.DefaultFiles.Prerequisites)
	v.SetDefault("input.files.celebrities", loader.DefaultFiles.Celebrities)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.formats", []string{"csv"})

	v.SetDefault("scheduler.max_layers", scheduler.DefaultMaxLayers)
	v.SetDefault("scheduler.module_capacity", model.DefaultModuleCapacity)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Without a configuration file only defaults and environment variables apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("cannot read configuration file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Input.Dir == "" && cfg.Input.Bundle == "" {
		return fmt.Errorf("invalid configuration: either input.dir or input.bundle must be set")
	} else if cfg.Scheduler.MaxLayers < 0 {
		return fmt.Errorf("invalid configuration: scheduler.max_layers must not be negative: %v", cfg.Scheduler.MaxLayers)
	} else if cfg.Scheduler.ModuleCapacity < 1 {
		return fmt.Errorf("invalid configuration: scheduler.module_capacity must be positive: %v", cfg.Scheduler.ModuleCapacity)
	}

	for i, format := range cfg.Output.Formats {
		format = strings.ToLower(strings.TrimSpace(format))
		if !slices.Contains(ValidFormats, format) {
			return fmt.Errorf("invalid configuration: %q is not a valid output format, allowed values are %v", format, ValidFormats)
		}
		cfg.Output.Formats[i] = format
	}
	return nil
}
