package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nao1215/vitalscan/internal/model"
	"github.com/nao1215/vitalscan/internal/psi"
	"github.com/nao1215/vitalscan/internal/vitals"
)

// tracerName is the instrumentation scope of probe spans.
const tracerName = "github.com/nao1215/vitalscan/internal/probe"

// Prober assesses one task. Implementations must never panic and must return
// exactly one row per call.
type Prober interface {
	Probe(ctx context.Context, task model.ProbeTask) model.ReportRow
}

// Fetcher performs the network call for one task and returns the raw body.
// *psi.Client satisfies it.
type Fetcher interface {
	Run(ctx context.Context, target string, device model.Device) ([]byte, error)
}

// State is a step of the probe lifecycle.
type State int

const (
	// StateDispatched means the task was handed to the probe.
	StateDispatched State = iota

	// StateAwaitingResponse means the API call is in flight.
	StateAwaitingResponse

	// StateParsed is the terminal success state.
	StateParsed

	// StateFailed is the terminal failure state.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDispatched:
		return "dispatched"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateParsed:
		return "parsed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PSIProbe assesses tasks against the PageSpeed Insights API.
type PSIProbe struct {
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time
	tracer  trace.Tracer
}

// Option configures a PSIProbe.
type Option func(*PSIProbe)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *PSIProbe) {
		p.logger = logger
	}
}

// WithClock replaces time.Now for row timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *PSIProbe) {
		if now != nil {
			p.now = now
		}
	}
}

// WithTracerProvider sets the tracer provider. The global provider is used
// by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *PSIProbe) {
		if tp != nil {
			p.tracer = tp.Tracer(tracerName)
		}
	}
}

// New creates a PSIProbe around fetcher.
func New(fetcher Fetcher, opts ...Option) *PSIProbe {
	p := &PSIProbe{
		fetcher: fetcher,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.tracer == nil {
		p.tracer = otel.Tracer(tracerName)
	}
	return p
}

// Probe runs one task to a terminal state.
func (p *PSIProbe) Probe(ctx context.Context, task model.ProbeTask) (row model.ReportRow) {
	ctx, span := p.tracer.Start(ctx, "probe.run", trace.WithAttributes(
		attribute.String("vitalscan.url", task.URL),
		attribute.String("vitalscan.device", task.Device.String()),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			row = p.fail(span, task, model.FailureTransport, fmt.Errorf("probe panic: %v", r))
		}
	}()

	p.transition(task, StateDispatched)
	p.transition(task, StateAwaitingResponse)

	body, err := p.fetcher.Run(ctx, task.URL, task.Device)
	if err != nil {
		return p.fail(span, task, FailureKindOf(err), err)
	}

	lr, err := vitals.DecodeResponse(body)
	if err != nil {
		return p.fail(span, task, model.FailureMalformed, err)
	}

	ms, err := vitals.Extract(lr)
	if err != nil {
		return p.fail(span, task, model.FailureParse, err)
	}

	classified := vitals.ClassifyAll(ms)
	diag := vitals.Diagnose(classified)

	p.transition(task, StateParsed)
	span.SetAttributes(
		attribute.String("vitalscan.outcome", StateParsed.String()),
		attribute.Float64("vitalscan.performance_score", ms.PerformanceScore),
		attribute.Float64("vitalscan.fix_priority_score", diag.FixPriorityScore),
		attribute.Bool("vitalscan.cwv_pass", diag.OverallPass),
	)

	return model.NewSuccessRow(task, ms, classified, diag, p.now())
}

// fail records a terminal failure on the span and builds the failure row.
func (p *PSIProbe) fail(span trace.Span, task model.ProbeTask, kind model.FailureKind, err error) model.ReportRow {
	p.transition(task, StateFailed)
	p.logger.Warn("probe failed",
		"url", task.URL,
		"device", task.Device,
		"failure", kind,
		"error", err,
	)

	span.RecordError(err)
	span.SetStatus(codes.Error, string(kind))
	span.SetAttributes(
		attribute.String("vitalscan.outcome", StateFailed.String()),
		attribute.String("vitalscan.failure", string(kind)),
	)

	return model.NewFailureRow(task, kind, err, p.now())
}

func (p *PSIProbe) transition(task model.ProbeTask, s State) {
	p.logger.Debug("probe state", "url", task.URL, "device", task.Device, "state", s)
}

// FailureKindOf maps a fetch error onto the failure taxonomy. Any non-200
// answer is rate limiting; everything else is a transport failure.
func FailureKindOf(err error) model.FailureKind {
	var se *psi.StatusError
	switch {
	case errors.As(err, &se):
		return model.FailureRateLimited
	case errors.Is(err, vitals.ErrMalformedResponse):
		return model.FailureMalformed
	default:
		var pe *vitals.ParseError
		if errors.As(err, &pe) {
			return model.FailureParse
		}
		return model.FailureTransport
	}
}
