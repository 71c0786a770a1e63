package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/vitalscan/internal/model"
	"github.com/nao1215/vitalscan/internal/pipeline"
)

const (
	// DefaultConfigFile is the dotfile name searched in the working and home directories.
	DefaultConfigFile = ".vitalscan"

	// XDGConfigFile is the file name searched in the XDG config directory.
	XDGConfigFile = "config.yaml"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the configuration file. Zero values mean
// "not set" and leave the current setting alone when applied.
type File struct {
	APIKey       string         `yaml:"api_key,omitempty"`
	Endpoint     string         `yaml:"endpoint,omitempty"`
	Timeout      time.Duration  `yaml:"timeout,omitempty"`
	Concurrency  int            `yaml:"concurrency,omitempty"`
	Mode         pipeline.Mode  `yaml:"mode,omitempty"`
	Delay        *time.Duration `yaml:"delay,omitempty"`
	Devices      []model.Device `yaml:"devices,omitempty"`
	Proxy        string         `yaml:"proxy,omitempty"`
	UserAgent    string         `yaml:"user_agent,omitempty"`
	Format       string         `yaml:"format,omitempty"`
	Output       string         `yaml:"output,omitempty"`
	OTLPEndpoint string         `yaml:"otlp_endpoint,omitempty"`
	S3           S3Config       `yaml:"s3,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply overlays the set fields of f onto c. The API key is not applied;
// use ResolveAPIKey so the environment can take precedence.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.Endpoint != "" {
		c.Endpoint = f.Endpoint
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}
	if f.Mode != "" {
		c.Mode = f.Mode
	}
	if f.Delay != nil {
		c.Delay = *f.Delay
	}
	if len(f.Devices) > 0 {
		c.Devices = f.Devices
	}
	if f.Proxy != "" {
		c.Proxy = f.Proxy
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.Output != "" {
		c.ReportFile = f.Output
	}
	if f.OTLPEndpoint != "" {
		c.OTLPEndpoint = f.OTLPEndpoint
	}
	if f.S3 != (S3Config{}) {
		c.S3 = f.S3
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .vitalscan in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .vitalscan in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	return ""
}
