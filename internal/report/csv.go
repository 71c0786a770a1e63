package report

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/nao1215/vitalscan/internal/model"
)

// CSVWriter outputs the flat tabular export: a header line followed by one
// line per row, in report order.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report as CSV.
func (w *CSVWriter) Write(report *model.Report) (int, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(model.RecordHeader); err != nil {
		return 0, err
	}
	for _, rec := range report.Records() {
		if err := cw.Write(rec.Values()); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
