package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/vitalscan/internal/model"
)

// Writer defines the interface for report output.
// Implementations write batch results in various formats.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.Report) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Format names an output format.
type Format string

const (
	// FormatCSV is the flat tabular export.
	FormatCSV Format = "csv"

	// FormatJSON is the structured export.
	FormatJSON Format = "json"

	// FormatMarkdown is the GitHub Flavored Markdown report.
	FormatMarkdown Format = "markdown"

	// FormatText is the terminal report.
	FormatText Format = "text"

	// FormatPrometheus is the Prometheus text exposition format.
	FormatPrometheus Format = "prometheus"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatMarkdown, FormatText, FormatPrometheus}

// ParseFormat converts a name into a Format. Matching is case-insensitive
// and accepts "md" and "txt" as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	case "prometheus", "prom":
		return FormatPrometheus, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	case FormatPrometheus:
		return "prom"
	default:
		return "csv"
	}
}

// FileName returns the default report file name for the given day,
// e.g. cwv_report_2025-01-31.csv.
func FileName(f Format, day time.Time) string {
	return "cwv_report_" + day.Format("2006-01-02") + "." + f.Extension()
}

// New creates the Writer for format. version is embedded where the format
// carries metadata.
func New(format Format, output io.Writer, version string) (Writer, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, version, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output, version), nil
	case FormatText:
		return NewSimpleWriter(output), nil
	case FormatPrometheus:
		return NewPrometheusWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
