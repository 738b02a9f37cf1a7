// Package config loads the manifest that lists the test suites to generate.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigFile is the default manifest name (without extension).
	DefaultConfigFile = "testgen"
	// DefaultConfigType is the default manifest type.
	DefaultConfigType = "yaml"
	// EnvPrefix prefixes environment overrides, e.g. TESTGEN_OUTPUT_DIR.
	EnvPrefix = "TESTGEN"
)

// Config is the generation manifest.
type Config struct {
	// ProjectDir is the directory test data roots are relative to. Load
	// makes it relative to the manifest, not the working directory.
	ProjectDir string `mapstructure:"project_dir"`
	// License is the path of the license header copied into every suite.
	License string `mapstructure:"license"`
	// OutputDir is the base directory of generated sources.
	OutputDir string `mapstructure:"output_dir"`
	// Extension of generated files.
	Extension string          `mapstructure:"extension"`
	Framework FrameworkConfig `mapstructure:"framework"`
	Suites    []SuiteConfig   `mapstructure:"suites"`
}

// FrameworkConfig overrides the framework type names used in generated code.
type FrameworkConfig struct {
	DataPath      string `mapstructure:"data_path"`
	Runner        string `mapstructure:"runner"`
	TestUtils     string `mapstructure:"test_utils"`
	TargetBackend string `mapstructure:"target_backend"`
	Metadata      string `mapstructure:"metadata"`
	RunWith       string `mapstructure:"run_with"`
	GeneratorName string `mapstructure:"generator_name"`
}

// SuiteConfig describes one generated suite file.
type SuiteConfig struct {
	Package string `mapstructure:"package"`
	Name    string `mapstructure:"name"`
	// BaseClass is the fully qualified name of the class suites extend.
	BaseClass string        `mapstructure:"base_class"`
	Models    []ModelConfig `mapstructure:"models"`
}

// ModelConfig describes a test data directory turned into a test class.
type ModelConfig struct {
	Root          string   `mapstructure:"root"`
	Name          string   `mapstructure:"name"`
	Pattern       string   `mapstructure:"pattern"`
	TestMethod    string   `mapstructure:"test_method"`
	TargetBackend string   `mapstructure:"target_backend"`
	Recursive     bool     `mapstructure:"recursive"`
	ExcludeDirs   []string `mapstructure:"exclude_dirs"`
	DataPathRoot  string   `mapstructure:"data_path_root"`
}

// Load reads the manifest at path, or testgen.yaml in the working directory
// when path is empty. Environment variables override scalar settings. A
// relative project_dir is resolved against the manifest's directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigFile)
		v.SetConfigType(DefaultConfigType)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		return nil, fmt.Errorf("no %s.%s found in the working directory: %w", DefaultConfigFile, DefaultConfigType, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if !filepath.IsAbs(cfg.ProjectDir) {
		cfg.ProjectDir = filepath.Join(filepath.Dir(v.ConfigFileUsed()), cfg.ProjectDir)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project_dir", ".")
	v.SetDefault("output_dir", "tests-gen")
	v.SetDefault("extension", "java")
}

// Validate checks that every suite is complete.
func (c *Config) Validate() error {
	if len(c.Suites) == 0 {
		return fmt.Errorf("at least one suite must be configured")
	}
	for i, s := range c.Suites {
		if s.Name == "" {
			return fmt.Errorf("suites[%d]: name is required", i)
		}
		if s.Package == "" {
			return fmt.Errorf("suite %s: package is required", s.Name)
		}
		if s.BaseClass == "" {
			return fmt.Errorf("suite %s: base_class is required", s.Name)
		}
		if len(s.Models) == 0 {
			return fmt.Errorf("suite %s: at least one model is required", s.Name)
		}
		for j, m := range s.Models {
			if m.Root == "" {
				return fmt.Errorf("suite %s: models[%d]: root is required", s.Name, j)
			}
		}
	}
	return nil
}
