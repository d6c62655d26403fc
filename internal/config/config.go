// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for drapery.
type Config struct {
	DataDir     string   `mapstructure:"data_dir" yaml:"data_dir"`
	CaptureDir  string   `mapstructure:"capture_dir" yaml:"capture_dir"`
	CatalogFile string   `mapstructure:"catalog_file" yaml:"catalog_file,omitempty"`
	LogLevel    string   `mapstructure:"log_level" yaml:"log_level"`
	LogFile     string   `mapstructure:"log_file" yaml:"log_file,omitempty"`
	Journal     bool     `mapstructure:"journal" yaml:"journal"`
	MetricsAddr string   `mapstructure:"metrics_addr" yaml:"metrics_addr,omitempty"`
	Theme       string   `mapstructure:"theme" yaml:"theme"`
	AR          ARConfig `mapstructure:"ar" yaml:"ar"`
}

// ARConfig locates the assets of the AR session.
type ARConfig struct {
	Enabled    bool     `mapstructure:"enabled" yaml:"enabled"`
	ModelPath  string   `mapstructure:"model_path" yaml:"model_path"`
	TargetPath string   `mapstructure:"target_path" yaml:"target_path"`
	Swatches   []string `mapstructure:"swatches" yaml:"swatches"`
	FPS        int      `mapstructure:"fps" yaml:"fps"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		DataDir:    ".drapery",
		CaptureDir: ".",
		LogLevel:   "info",
		Journal:    true,
		Theme:      "catppuccin-mocha",
		AR: ARConfig{
			Enabled:    true,
			ModelPath:  filepath.Join("assets", "curtain.glb"),
			TargetPath: filepath.Join("assets", "targets.mind"),
			Swatches:   []string{filepath.Join("assets", "kirkwood-smog.jpg")},
			FPS:        30,
		},
	}
}

// envKeys are bound explicitly so nested keys and bools parse from env.
var envKeys = []string{
	"data_dir",
	"capture_dir",
	"catalog_file",
	"log_level",
	"log_file",
	"journal",
	"metrics_addr",
	"theme",
	"ar.enabled",
	"ar.model_path",
	"ar.target_path",
	"ar.swatches",
	"ar.fps",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("drapery")

	d := Defaults()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("capture_dir", d.CaptureDir)
	v.SetDefault("catalog_file", "")
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("journal", d.Journal)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("theme", d.Theme)
	v.SetDefault("ar.enabled", d.AR.Enabled)
	v.SetDefault("ar.model_path", d.AR.ModelPath)
	v.SetDefault("ar.target_path", d.AR.TargetPath)
	v.SetDefault("ar.swatches", d.AR.Swatches)
	v.SetDefault("ar.fps", d.AR.FPS)

	v.SetEnvPrefix("DRAPERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envKeys {
		env := "DRAPERY_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/drapery/drapery.yml or $XDG_CONFIG_HOME/drapery/drapery.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "drapery", "drapery.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "drapery", "drapery.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "drapery.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
