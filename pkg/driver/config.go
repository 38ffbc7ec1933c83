package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

var log = commonlog.GetLogger("pie.driver")

// Version is the running tool version checked against pie_version.
var Version = "0.1.0"

// ConfigFileName is the per-project configuration file.
const ConfigFileName = "pie.yml"

// Config holds user settings. Zero fields fall back to DefaultConfig.
type Config struct {
	Path         string `yaml:"-"`
	Prompt       string `yaml:"prompt"`
	History      string `yaml:"history"`
	HistoryLimit int    `yaml:"history_limit"`
	Color        string `yaml:"color"`
	Format       string `yaml:"format"`
	LogLevel     string `yaml:"log_level"`
	PieVersion   string `yaml:"pie_version"`
}

// DefaultConfig returns the settings used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Prompt:       "ΛΠ ≫ ",
		HistoryLimit: 1000,
		Color:        "auto",
		Format:       string(FormatDebug),
		LogLevel:     "warning",
	}
}

// ConfigCandidates lists, in lookup order, the files LoadConfig tries.
func ConfigCandidates(workdir string) []string {
	candidates := []string{filepath.Join(workdir, ConfigFileName)}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "config.yml"))
	}
	return candidates
}

// LoadConfig reads the first existing candidate under workdir. A missing file
// yields the defaults.
func LoadConfig(workdir string) (*Config, error) {
	for _, path := range ConfigCandidates(workdir) {
		cfg, err := LoadConfigFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	log.Debug("no config file found, using defaults")
	return DefaultConfig(), nil
}

// LoadConfigFile parses one configuration file.
func LoadConfigFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg, err := DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path
	log.Infof("loaded config %s", path)
	return cfg, nil
}

// DecodeConfig parses YAML settings, rejecting unknown keys, and validates
// the result.
func DecodeConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.Prompt == "" {
		c.Prompt = defaults.Prompt
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = defaults.HistoryLimit
	}
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	if c.Color == "" {
		c.Color = defaults.Color
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = defaults.Format
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	c.History = strings.TrimSpace(c.History)
	c.PieVersion = strings.TrimSpace(c.PieVersion)
}

// Validate checks enumerated settings and the version constraint.
func (c *Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: color must be auto, always or never, got %q", c.Color)
	}
	if _, err := ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Verbosity(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return CheckVersion(c.PieVersion, Version)
}

// Verbosity maps log_level onto commonlog's verbosity scale, where 0 is
// notice and each step adds or removes one level.
func (c *Config) Verbosity() (int, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "none", "off":
		return -4, nil
	case "critical":
		return -3, nil
	case "error":
		return -2, nil
	case "", "warning", "warn":
		return -1, nil
	case "notice":
		return 0, nil
	case "info":
		return 1, nil
	case "debug":
		return 2, nil
	default:
		return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
}

// HistoryPath returns the REPL history file, defaulting to the state dir.
func (c *Config) HistoryPath() (string, error) {
	if c.History != "" {
		return expandHome(c.History)
	}
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// CheckVersion reports an error when version does not satisfy constraint.
// An empty constraint accepts everything.
func CheckVersion(constraint, version string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("config: invalid pie_version %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("config: invalid tool version %q: %w", version, err)
	}
	if ok, reasons := c.Validate(v); !ok {
		msgs := make([]string, 0, len(reasons))
		for _, reason := range reasons {
			msgs = append(msgs, reason.Error())
		}
		return fmt.Errorf("config: pie %s does not satisfy pie_version %q: %s", version, constraint, strings.Join(msgs, "; "))
	}
	return nil
}
