package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/vitalscan/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds root causes and recommendations under failing rows.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder
	summary := report.Summary()

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, summary)
	w.writeResults(&sb, report)
	w.writeFooter(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with batch information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                     CORE WEB VITALS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Started:   %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Finished:  %s\n", report.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Tasks:     %d\n", report.Len())
	sb.WriteString("\n")
}

// writeSummary writes outcome counts and mean scores per device.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, s model.Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  PASS:   %d\n", s.Passed)
	fmt.Fprintf(sb, "  FAIL:   %d\n", s.Succeeded-s.Passed)
	fmt.Fprintf(sb, "  ERROR:  %d\n", s.Failed)
	for _, kind := range model.AllFailureKinds {
		if n := s.FailuresByKind[kind]; n > 0 {
			fmt.Fprintf(sb, "    %-22s %d\n", kind, n)
		}
	}
	sb.WriteString("\n")

	title := cases.Title(language.English)
	for _, d := range model.AllDevices {
		if mean, ok := s.MeanScoreByDevice[d]; ok {
			fmt.Fprintf(sb, "  Mean score (%s): %.1f\n", title.String(d.String()), mean)
		}
	}
	if len(s.MeanScoreByDevice) > 0 {
		sb.WriteString("\n")
	}
}

// writeResults writes one line per row.
func (w *SimpleWriter) writeResults(sb *strings.Builder, report *model.Report) {
	if report.Len() == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RESULTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, row := range report.Rows {
		rec := model.NewRecord(row)
		if !row.OK() {
			fmt.Fprintf(sb, "[ERR ] %s [%s] %s\n", rec.URL, rec.Device, rec.Error)
			continue
		}

		mark := "PASS"
		if rec.CWVOverall != "pass" {
			mark = "FAIL"
		}
		fmt.Fprintf(sb, "[%s] %s [%s] score=%s lcp=%ss cls=%s inp=%s priority=%s\n",
			mark, rec.URL, rec.Device, rec.PerformanceScore, rec.LCP, rec.CLS, rec.INP, rec.FixPriorityScore)

		if w.verbose {
			recs := row.Diagnostic.Recommendations
			for i, cause := range row.Diagnostic.RootCauses {
				fmt.Fprintf(sb, "    * %s\n", cause)
				if i < len(recs) {
					fmt.Fprintf(sb, "      -> %s\n", recs[i])
				}
			}
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes guidance and the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, s model.Summary) {
	if s.HasRateLimited() {
		sb.WriteString("Some requests were blocked or rate limited by the PageSpeed Insights API.\n")
		sb.WriteString("Configure an API key (--api-key or PAGESPEED_API_KEY) or rerun with --mode serial.\n\n")
	}

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by vitalscan\n")
	sb.WriteString("https://github.com/nao1215/vitalscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
