package config

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/vitalscan/internal/model"
	"github.com/nao1215/vitalscan/internal/pipeline"
	"github.com/nao1215/vitalscan/internal/psi"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "vitalscan"

	// EnvAPIKey is the environment variable consulted for the API key.
	EnvAPIKey = "PAGESPEED_API_KEY"

	// DefaultTimeout bounds one API call.
	DefaultTimeout = psi.DefaultTimeout

	// DefaultConcurrency is the parallel width.
	DefaultConcurrency = pipeline.DefaultConcurrency

	// DefaultDelay is the pause after each task in serial mode.
	DefaultDelay = pipeline.DefaultDelay

	// DefaultFormat is the report format written when none is chosen.
	DefaultFormat = "csv"
)

// S3Config describes where the rendered report is uploaded.
// Upload is skipped when Bucket is empty.
type S3Config struct {
	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// Config holds all configuration options for vitalscan.
// It is populated from defaults, the config file and CLI flags, and passed
// through the application rather than read from global state.
type Config struct {
	// URLs are the targets given as positional arguments.
	URLs []string

	// ListFile is a CSV or plain text file with more targets.
	ListFile string

	// APIKey is the PageSpeed Insights API key. Empty uses the anonymous
	// quota, which is small enough that serial mode is advisable.
	APIKey string

	// Endpoint overrides the runPagespeed URL.
	Endpoint string

	// Timeout bounds each API call.
	Timeout time.Duration

	// Concurrency is the number of calls in flight in parallel mode.
	Concurrency int

	// Mode selects parallel or serial scheduling.
	Mode pipeline.Mode

	// Delay is the pause after each task in serial mode.
	Delay time.Duration

	// Devices restricts the device set. Empty means every device.
	Devices []model.Device

	// Proxy is an optional SOCKS5 proxy in host:port form.
	Proxy string

	// UserAgent is sent with every API call.
	UserAgent string

	// Format is the report format name.
	Format string

	// ReportFile is the output path. Empty writes cwv_report_<date>.<ext>
	// in the working directory; "-" writes to stdout.
	ReportFile string

	// OTLPEndpoint enables trace export when set.
	OTLPEndpoint string

	// S3 configures the optional report upload.
	S3 S3Config

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path given with --config, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Endpoint:    psi.DefaultEndpoint,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		Mode:        pipeline.ModeParallel,
		Delay:       DefaultDelay,
		Devices:     slices.Clone(model.AllDevices),
		UserAgent:   psi.DefaultUserAgent,
		Format:      DefaultFormat,
	}
}

// XDGConfigDir returns the XDG config directory for vitalscan.
// On Linux: ~/.config/vitalscan
// On macOS: ~/Library/Application Support/vitalscan
// On Windows: %APPDATA%\vitalscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ResolveAPIKey picks the API key by precedence: flag, environment, file.
func ResolveAPIKey(flagValue, envValue, fileValue string) string {
	switch {
	case flagValue != "":
		return flagValue
	case envValue != "":
		return envValue
	default:
		return fileValue
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if len(c.URLs) == 0 && c.ListFile == "" {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if !c.Mode.Valid() {
		return ErrInvalidMode
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	for _, d := range c.Devices {
		if !d.Valid() {
			return ErrInvalidDevice
		}
	}

	if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
		return ErrS3CredentialsIncomplete
	}

	return nil
}
