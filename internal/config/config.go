// Package config provides configuration loading using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the project-local configuration file.
const FileName = ".ftgen.yaml"

// Config is the ftgen configuration.
type Config struct {
	// Dialects rendered by export.
	Dialects []string `mapstructure:"dialects" yaml:"dialects"`
	// Only restricts rendering to one section of each dialect.
	Only      string `mapstructure:"only" yaml:"only,omitempty"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	// Options are passed to the render rules of every dialect.
	Options map[string]any `mapstructure:"options" yaml:"options,omitempty"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Dialects:  []string{"gherkin"},
		OutputDir: "generated",
		LogLevel:  "warn",
	}
}

var cfg *Config

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ftgen"), nil
}

// Load reads the configuration. Files are searched in order:
//  1. cfgPath, when not empty (--config flag)
//  2. <dir>/.ftgen.yaml
//  3. ~/.config/ftgen/config.yaml
//
// Environment variables prefixed with FTGEN_ override file values.
func Load(cfgPath, dir string) (*Config, error) {
	v := viper.New()

	switch {
	case cfgPath != "":
		v.SetConfigFile(cfgPath)
	case fileExists(filepath.Join(dir, FileName)):
		v.SetConfigFile(filepath.Join(dir, FileName))
	default:
		configPath, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(configPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	def := Default()
	v.SetDefault("dialects", def.Dialects)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("only", "")

	v.SetEnvPrefix("ftgen")
	for _, key := range []string{"only", "output_dir", "log_level"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(c.Dialects) == 0 {
		return nil, errors.New("config: no dialects configured")
	}
	return c, nil
}

// Init loads the configuration of the current directory and makes it
// available through Get.
func Init(cfgPath string) error {
	c, err := Load(cfgPath, ".")
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Get returns the current configuration, or the defaults when Init has not
// been called.
func Get() *Config {
	if cfg == nil {
		return Default()
	}
	return cfg
}

// Write stores c as YAML at path.
func Write(path string, c *Config) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
