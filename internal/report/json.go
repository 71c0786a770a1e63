package report

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/vitalscan/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
// HTML escaping is off so URLs keep their literal '&'.
type JSONWriter struct {
	baseWriter

	// version is the vitalscan version embedded in the output.
	version string

	// prefix and indent are passed to json.Encoder.SetIndent when indented.
	prefix   string
	indent   string
	indented bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent, each line starting with prefix.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
		w.indented = true
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		version:    version,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport wraps a report with its summary and metadata.
type JSONReport struct {
	// Version is the vitalscan version that generated this report.
	Version string `json:"version"`

	// StartedAt is when the batch began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the batch ended.
	FinishedAt time.Time `json:"finished_at"`

	// Summary holds the aggregates.
	Summary model.Summary `json:"summary"`

	// Rows holds one entry per task in completion order.
	Rows []model.ReportRow `json:"rows"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(report *model.Report, version string) *JSONReport {
	rows := report.Rows
	if rows == nil {
		rows = []model.ReportRow{}
	}
	return &JSONReport{
		Version:    version,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Summary:    report.Summary(),
		Rows:       rows,
	}
}

// Write encodes the report with its summary and metadata, followed by a newline.
func (w *JSONWriter) Write(report *model.Report) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indented {
		enc.SetIndent(w.prefix, w.indent)
	}
	if err := enc.Encode(NewJSONReport(report, w.version)); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
