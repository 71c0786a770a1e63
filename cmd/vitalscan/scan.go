package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/vitalscan/internal/config"
	"github.com/nao1215/vitalscan/internal/input"
	vlog "github.com/nao1215/vitalscan/internal/log"
	"github.com/nao1215/vitalscan/internal/model"
	"github.com/nao1215/vitalscan/internal/pipeline"
	"github.com/nao1215/vitalscan/internal/probe"
	"github.com/nao1215/vitalscan/internal/psi"
	"github.com/nao1215/vitalscan/internal/report"
	"github.com/nao1215/vitalscan/internal/telemetry"
	"github.com/nao1215/vitalscan/internal/upload"
)

// stdoutPath selects stdout as the report destination.
const stdoutPath = "-"

// shutdownTimeout bounds the final trace flush.
const shutdownTimeout = 5 * time.Second

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url...]",
		Short: "Assess Core Web Vitals for a list of URLs",
		Long: `Scan runs a PageSpeed Insights test for every URL on mobile and desktop,
classifies LCP, CLS and INP against the Core Web Vitals thresholds and writes
a report with root causes and a fix priority for every failing page.

A failed test never aborts the batch: it becomes a row with a failure kind
(blocked_rate_limited, transport_error, malformed_response or parse_error).

Examples:
  # Assess two pages
  vitalscan scan https://example.com https://example.org

  # Read URLs from a CSV file with a "url" column
  vitalscan scan --list urls.csv

  # Keyless run: one call at a time with a 5 second pause
  vitalscan scan --mode serial --delay 5s -l urls.csv

  # Markdown report on stdout, mobile only
  vitalscan scan -f markdown -o - --device mobile https://example.com

  # Upload the report to S3
  vitalscan scan -l urls.csv --s3-bucket cwv-reports --s3-prefix weekly`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Input flags
	cmd.Flags().StringP("list", "l", "",
		"CSV or text file with one URL per line (a \"url\" header column is honored)")

	// API flags
	cmd.Flags().StringP("api-key", "k", "",
		"PageSpeed Insights API key (default: $"+config.EnvAPIKey+")")
	cmd.Flags().String("endpoint", psi.DefaultEndpoint,
		"PageSpeed Insights API endpoint")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each API call")
	cmd.Flags().StringP("proxy", "x", "",
		"SOCKS5 proxy address for API calls (e.g., 127.0.0.1:1080)")

	// Scheduling flags
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of concurrent API calls in parallel mode")
	cmd.Flags().StringP("mode", "m", string(pipeline.ModeParallel),
		"Scheduling mode: parallel or serial")
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay,
		"Pause after each call in serial mode")
	cmd.Flags().StringSlice("device", []string{string(model.DeviceMobile), string(model.DeviceDesktop)},
		"Devices to test (mobile, desktop)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .vitalscan in current, XDG config or home directory)")

	// Report flags
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: csv, json, markdown, text, prometheus")
	cmd.Flags().StringP("output", "o", "",
		"Report file path, \"-\" for stdout (default: cwv_report_<date>.<ext>)")
	cmd.Flags().Bool("no-progress", false,
		"Do not print per-task progress to stderr")

	// Observability and storage flags
	cmd.Flags().String("otlp-endpoint", "",
		"Export traces to this OTLP/HTTP collector (e.g., http://localhost:4318)")
	cmd.Flags().String("s3-bucket", "", "Upload the report to this S3 bucket")
	cmd.Flags().String("s3-prefix", "", "Key prefix for the uploaded report")
	cmd.Flags().String("s3-endpoint", "", "S3 compatible endpoint (e.g., MinIO)")
	cmd.Flags().String("s3-region", "", "S3 region (default: "+upload.DefaultRegion+")")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if _, err := report.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := vlog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if getPersistentBool(cmd, "log-json") {
		logger = vlog.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return err
	}
	var progress io.Writer
	if !noProgress {
		progress = cmd.ErrOrStderr()
	}

	return runScan(ctx, cfg, logger, cmd.OutOrStdout(), progress)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	return getPersistentBool(cmd, "verbose")
}

// getPersistentBool reads a bool flag from the command, falling back to the
// root's persistent flags. Missing flags read as false.
func getPersistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// buildConfig layers defaults, the config file and the flags the user set.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit --config must exist; otherwise a missing file is fine.
	fileCfg := &config.File{}
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		fileCfg, err = config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}
	cfg.Apply(fileCfg)

	if flags.Changed("endpoint") {
		if cfg.Endpoint, err = flags.GetString("endpoint"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("mode") {
		mode, err := flags.GetString("mode")
		if err != nil {
			return nil, err
		}
		cfg.Mode = pipeline.Mode(mode)
	}
	if flags.Changed("delay") {
		if cfg.Delay, err = flags.GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("device") {
		names, err := flags.GetStringSlice("device")
		if err != nil {
			return nil, err
		}
		devices := make([]model.Device, 0, len(names))
		for _, name := range names {
			d, err := model.ParseDevice(name)
			if err != nil {
				return nil, fmt.Errorf("configuration error: %w", err)
			}
			devices = append(devices, d)
		}
		cfg.Devices = devices
	}
	if flags.Changed("proxy") {
		if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output") {
		if cfg.ReportFile, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("otlp-endpoint") {
		if cfg.OTLPEndpoint, err = flags.GetString("otlp-endpoint"); err != nil {
			return nil, err
		}
	}
	for name, dst := range map[string]*string{
		"s3-bucket":   &cfg.S3.Bucket,
		"s3-prefix":   &cfg.S3.Prefix,
		"s3-endpoint": &cfg.S3.Endpoint,
		"s3-region":   &cfg.S3.Region,
	} {
		if flags.Changed(name) {
			if *dst, err = flags.GetString(name); err != nil {
				return nil, err
			}
		}
	}

	cfg.ListFile, err = flags.GetString("list")
	if err != nil {
		return nil, err
	}

	apiKey, err := flags.GetString("api-key")
	if err != nil {
		return nil, err
	}
	cfg.APIKey = config.ResolveAPIKey(apiKey, os.Getenv(config.EnvAPIKey), fileCfg.APIKey)

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.URLs = args

	return cfg, nil
}

// runScan executes the batch and writes the report. A stdout report goes to
// out; progress lines go to progress unless it is nil.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, out, progress io.Writer) error {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	urls, err := collectURLs(cfg)
	if err != nil {
		return err
	}

	tracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceVersion: getVersion(),
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := tracing.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("failed to flush traces", "error", shutdownErr)
		}
	}()

	opts := []psi.Option{
		psi.WithEndpoint(cfg.Endpoint),
		psi.WithTimeout(cfg.Timeout),
		psi.WithUserAgent(cfg.UserAgent),
	}
	if cfg.APIKey != "" {
		opts = append(opts, psi.WithAPIKey(cfg.APIKey))
	}
	if cfg.Proxy != "" {
		opts = append(opts, psi.WithProxy(cfg.Proxy))
	}
	client, err := psi.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create PageSpeed Insights client: %w", err)
	}
	if !client.HasAPIKey() {
		logger.Warn("no API key configured, the anonymous quota applies",
			"hint", "set "+config.EnvAPIKey+" or use --mode serial")
	}

	prober := probe.New(client,
		probe.WithLogger(logger),
		probe.WithTracerProvider(tracing.TracerProvider()),
	)

	batchOpts := []pipeline.BatchOption{
		pipeline.WithBatchLogger(logger),
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithMode(cfg.Mode),
		pipeline.WithDelay(cfg.Delay),
		pipeline.WithDevices(cfg.Devices...),
	}
	if progress != nil {
		batchOpts = append(batchOpts, pipeline.WithProgress(progressPrinter(progress)))
	}

	logger.Info("starting assessment",
		"urls", len(urls),
		"devices", cfg.Devices,
		"mode", cfg.Mode,
		"concurrency", cfg.Concurrency,
	)

	rep, err := pipeline.NewBatchProcessor(prober, batchOpts...).Run(ctx, urls)
	if err != nil {
		return err
	}

	path, err := writeReport(rep, format, cfg.ReportFile, out)
	if err != nil {
		return err
	}

	if cfg.S3.Bucket != "" && path != "" {
		if err := uploadReport(ctx, cfg.S3, path, logger, progress); err != nil {
			return err
		}
	}

	if progress != nil {
		printSummary(progress, rep, path)
	}
	return nil
}

// collectURLs merges the list file with positional arguments.
func collectURLs(cfg *config.Config) ([]string, error) {
	urls := make([]string, 0, len(cfg.URLs))
	if cfg.ListFile != "" {
		listed, err := input.ReadFile(cfg.ListFile)
		if err != nil {
			return nil, err
		}
		urls = append(urls, listed...)
	}
	urls = append(urls, cfg.URLs...)

	if len(pipeline.NormalizeURLs(urls)) == 0 {
		return nil, errors.New("no urls provided (pass URLs as arguments or use --list)")
	}
	return urls, nil
}

// writeReport renders rep and returns the file path written, or "" for stdout.
func writeReport(rep *model.Report, format report.Format, reportFile string, out io.Writer) (string, error) {
	if reportFile == stdoutPath {
		w, err := report.New(format, out, getVersion())
		if err != nil {
			return "", err
		}
		_, err = w.Write(rep)
		return "", err
	}

	path := reportFile
	if path == "" {
		path = report.FileName(format, rep.StartedAt)
	}

	var buf bytes.Buffer
	w, err := report.New(format, &buf, getVersion())
	if err != nil {
		return "", err
	}
	if _, err := w.Write(rep); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// uploadReport copies the written report to S3.
func uploadReport(ctx context.Context, s3cfg config.S3Config, path string, logger *slog.Logger, progress io.Writer) error {
	uploader, err := upload.NewS3Uploader(ctx, upload.Config{
		Bucket:    s3cfg.Bucket,
		Prefix:    s3cfg.Prefix,
		Endpoint:  s3cfg.Endpoint,
		Region:    s3cfg.Region,
		AccessKey: s3cfg.AccessKey,
		SecretKey: s3cfg.SecretKey,
	}, upload.WithLogger(logger))
	if err != nil {
		return err
	}

	location, err := uploader.UploadFile(ctx, path)
	if err != nil {
		return err
	}
	if progress != nil {
		fmt.Fprintf(progress, "Uploaded report to %s\n", location)
	}
	return nil
}

// progressPrinter returns a progress callback that prints one line per task.
func progressPrinter(w io.Writer) func(model.Progress) {
	return func(p model.Progress) {
		fmt.Fprintf(w, "[%d/%d] %s %s\n", p.Completed, p.Total, outcome(p.Row), p.Row.Task)
	}
}

// outcome labels a row for progress output.
func outcome(row model.ReportRow) string {
	switch {
	case !row.OK():
		return "ERROR(" + string(row.Failure) + ")"
	case row.Diagnostic != nil && row.Diagnostic.OverallPass:
		return "PASS"
	default:
		return "FAIL"
	}
}

// printSummary prints the closing lines of a run.
func printSummary(w io.Writer, rep *model.Report, path string) {
	s := rep.Summary()
	fmt.Fprintf(w, "\n%d tasks: %d passed, %d failed, %d errors\n",
		s.Total, s.Passed, s.Succeeded-s.Passed, s.Failed)
	if path != "" {
		fmt.Fprintf(w, "Report written to %s\n", path)
	}
	if s.HasRateLimited() {
		fmt.Fprintf(w, "%d tasks were rate limited. Set --api-key or %s, or retry with --mode serial.\n",
			s.FailuresByKind[model.FailureRateLimited], config.EnvAPIKey)
	}
}
