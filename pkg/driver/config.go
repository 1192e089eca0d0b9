package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-project configuration file searched for by
// FindConfig.
const ConfigFileName = "yamlscript.yml"

// HomeEnv overrides the directory holding the source cache and history.
const HomeEnv = "YAMLSCRIPT_HOME"

// Output formats accepted by Encode.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Config is the decoded yamlscript.yml.
type Config struct {
	Path        string     `yaml:"-"`
	Verbose     bool       `yaml:"verbose"`
	MaxDepth    int        `yaml:"max_depth"`
	Output      string     `yaml:"output"`
	CacheDir    string     `yaml:"cache_dir"`
	HistoryFile string     `yaml:"history_file"`
	Host        HostConfig `yaml:"host"`
}

// HostConfig controls the host function registry.
type HostConfig struct {
	// Disabled lists host function names removed before evaluation.
	Disabled []string `yaml:"disabled"`
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Home returns the yamlscript home directory: $YAMLSCRIPT_HOME, else
// ~/.yamlscript.
func Home() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return filepath.Abs(home)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: locate home directory: %w", err)
	}
	return filepath.Join(userHome, ".yamlscript"), nil
}

// DefaultConfig returns the settings used when no file overrides them.
func DefaultConfig() (*Config, error) {
	home, err := Home()
	if err != nil {
		return nil, err
	}
	return &Config{
		Output:      FormatText,
		CacheDir:    filepath.Join(home, "cache"),
		HistoryFile: filepath.Join(home, "history"),
	}, nil
}

// FindConfig walks upward from start looking for yamlscript.yml. It returns
// an empty path and no error when none exists.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", start, err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadConfig decodes the file at path and fills unset fields from
// DefaultConfig. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	defaults, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return defaults, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	if err := mergo.Merge(&cfg, defaults); err != nil {
		return nil, fmt.Errorf("config: apply defaults: %w", err)
	}
	cfg.Path = absPath
	cfg.resolvePaths(filepath.Dir(absPath))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolvePaths anchors relative paths at the config file's directory.
func (c *Config) resolvePaths(base string) {
	if c.CacheDir != "" && !filepath.IsAbs(c.CacheDir) {
		c.CacheDir = filepath.Join(base, c.CacheDir)
	}
	if c.HistoryFile != "" && !filepath.IsAbs(c.HistoryFile) {
		c.HistoryFile = filepath.Join(base, c.HistoryFile)
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var issues []string
	switch c.Output {
	case FormatText, FormatYAML, FormatJSON:
	default:
		issues = append(issues, fmt.Sprintf("output must be one of text, yaml, json (got %q)", c.Output))
	}
	if c.MaxDepth < 0 {
		issues = append(issues, fmt.Sprintf("max_depth must not be negative (got %d)", c.MaxDepth))
	}
	seen := make(map[string]bool, len(c.Host.Disabled))
	for _, name := range c.Host.Disabled {
		switch {
		case strings.TrimSpace(name) == "":
			issues = append(issues, "host.disabled entries must not be empty")
		case seen[name]:
			issues = append(issues, fmt.Sprintf("host.disabled lists %q twice", name))
		}
		seen[name] = true
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
