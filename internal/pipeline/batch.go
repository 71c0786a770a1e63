package pipeline

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/vitalscan/internal/model"
	"github.com/nao1215/vitalscan/internal/probe"
)

const (
	// DefaultConcurrency is the parallel width when none is configured.
	DefaultConcurrency = 10

	// DefaultDelay is the pause after each task in serial mode.
	DefaultDelay = 2 * time.Second
)

// Mode selects how tasks are scheduled.
type Mode string

const (
	// ModeParallel runs up to the configured concurrency at once.
	ModeParallel Mode = "parallel"

	// ModeSerial runs one task at a time with a delay after each.
	ModeSerial Mode = "serial"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeParallel || m == ModeSerial
}

// BatchProcessor fans tasks out to a prober and collects the rows.
type BatchProcessor struct {
	prober      probe.Prober
	concurrency int
	mode        Mode
	delay       time.Duration
	devices     []model.Device
	onProgress  func(model.Progress)
	logger      *slog.Logger
	now         func() time.Time

	// sleep waits for d or until ctx is done. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration)
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent probes.
// Default is 10 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithMode selects parallel or serial scheduling. Unknown modes are ignored.
func WithMode(m Mode) BatchOption {
	return func(b *BatchProcessor) {
		if m.Valid() {
			b.mode = m
		}
	}
}

// WithDelay sets the pause after each task in serial mode.
func WithDelay(d time.Duration) BatchOption {
	return func(b *BatchProcessor) {
		if d >= 0 {
			b.delay = d
		}
	}
}

// WithDevices restricts the device set. Invalid devices are dropped and an
// empty result keeps the default of every device.
func WithDevices(devices ...model.Device) BatchOption {
	return func(b *BatchProcessor) {
		valid := make([]model.Device, 0, len(devices))
		for _, d := range devices {
			if d.Valid() && !slices.Contains(valid, d) {
				valid = append(valid, d)
			}
		}
		if len(valid) > 0 {
			b.devices = valid
		}
	}
}

// WithProgress registers a callback invoked after every collected row.
// Calls are serialized; the callback must not block for long.
func WithProgress(fn func(model.Progress)) BatchOption {
	return func(b *BatchProcessor) {
		b.onProgress = fn
	}
}

// NewBatchProcessor creates a new BatchProcessor around prober.
func NewBatchProcessor(prober probe.Prober, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		prober:      prober,
		concurrency: DefaultConcurrency,
		mode:        ModeParallel,
		delay:       DefaultDelay,
		devices:     slices.Clone(model.AllDevices),
		now:         time.Now,
		sleep:       sleepContext,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// width returns the number of probes allowed in flight.
func (bp *BatchProcessor) width() int {
	if bp.mode == ModeSerial {
		return 1
	}
	return bp.concurrency
}

// Run assesses every URL on every configured device and returns the report.
// The only error is ErrNoURLs. Task failures are recorded as rows, and a
// cancelled ctx turns the remaining probes into transport failures rather
// than dropping them.
func (bp *BatchProcessor) Run(ctx context.Context, urls []string) (*model.Report, error) {
	normalized := NormalizeURLs(urls)
	if len(normalized) == 0 {
		return nil, ErrNoURLs
	}

	tasks := model.BuildTasks(normalized, bp.devices)
	total := len(tasks)
	report := model.NewReport(total, bp.now())

	bp.logger.Info("starting batch processing",
		"urls", len(normalized),
		"tasks", total,
		"mode", bp.mode,
		"concurrency", bp.width(),
	)

	var (
		mu        sync.Mutex
		completed int
	)
	collect := func(row model.ReportRow) {
		mu.Lock()
		defer mu.Unlock()

		report.Append(row)
		completed++
		if bp.onProgress != nil {
			bp.onProgress(model.Progress{Completed: completed, Total: total, Row: row})
		}
	}

	var g errgroup.Group
	g.SetLimit(bp.width())

	for i, task := range tasks {
		g.Go(func() error {
			bp.logger.Debug("probing",
				"url", task.URL,
				"device", task.Device,
				"index", i+1,
				"total", total,
			)

			collect(bp.prober.Probe(ctx, task))

			if bp.mode == ModeSerial && bp.delay > 0 {
				bp.sleep(ctx, bp.delay)
			}
			return nil
		})
	}

	// Workers never return an error.
	_ = g.Wait() //nolint:errcheck

	report.FinishedAt = bp.now()

	s := report.Summary()
	bp.logger.Info("batch processing complete",
		"tasks", total,
		"succeeded", s.Succeeded,
		"failed", s.Failed,
		"elapsed", report.FinishedAt.Sub(report.StartedAt),
	)
	if s.HasRateLimited() {
		bp.logger.Warn("some requests were blocked or rate limited; use an API key or serial mode")
	}

	return report, nil
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
