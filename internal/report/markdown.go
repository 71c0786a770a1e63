package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/vitalscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter

	// version is printed in the footer.
	version string
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, version string) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		version:    version,
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := report.Summary()

	w.writeHeader(md, report, summary)
	w.writeSummary(md, summary)
	w.writeResults(md, report)
	w.writeRemediation(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with batch information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report, s model.Summary) {
	md.H1("Core Web Vitals Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Finished", report.FinishedAt.Format("2006-01-02 15:04:05 MST")},
			{"Tasks", strconv.Itoa(s.Total)},
			{"Succeeded", strconv.Itoa(s.Succeeded)},
			{"Failed", strconv.Itoa(s.Failed)},
		},
	})
	md.PlainText("")
}

// writeSummary writes outcome counts, mean scores and the pie chart.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s model.Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"✅ CWV Pass", strconv.Itoa(s.Passed)},
			{"❌ CWV Fail", strconv.Itoa(s.Succeeded - s.Passed)},
			{"⚠️ Error", strconv.Itoa(s.Failed)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if len(s.MeanScoreByDevice) > 0 {
		title := cases.Title(language.English)
		rows := make([][]string, 0, len(model.AllDevices))
		for _, d := range model.AllDevices {
			mean, ok := s.MeanScoreByDevice[d]
			if !ok {
				continue
			}
			rows = append(rows, []string{title.String(d.String()), strconv.FormatFloat(mean, 'f', 1, 64)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Device", "Mean Performance Score"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if s.Total > 0 {
		w.writePieChart(md, s)
	}

	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart for the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Assessment Outcomes"),
		piechart.WithShowData(true),
	)

	if s.Passed > 0 {
		chart.LabelAndIntValue("Pass", uint64(s.Passed))
	}
	if failed := s.Succeeded - s.Passed; failed > 0 {
		chart.LabelAndIntValue("Fail", uint64(failed))
	}
	if s.Failed > 0 {
		chart.LabelAndIntValue("Error", uint64(s.Failed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert that matches the worst outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s model.Summary) {
	switch {
	case s.HasRateLimited():
		md.Cautionf(
			"%d request(s) were blocked or rate limited by the PageSpeed Insights API. "+
				"Configure an API key or rerun with --mode serial.",
			s.FailuresByKind[model.FailureRateLimited],
		)
	case s.Failed > 0:
		md.Warningf("%d task(s) could not be assessed. See the Error column.", s.Failed)
	case s.Passed < s.Succeeded:
		md.Importantf("%d assessment(s) fail Core Web Vitals.", s.Succeeded-s.Passed)
	case s.Total == 0:
		md.Note("No tasks were run.")
	default:
		md.Tip("Every assessment passes Core Web Vitals.")
	}
	md.PlainText("")
}

// writeResults writes one table line per row.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.Report) {
	md.H2("Results")
	md.PlainText("")

	if report.Len() == 0 {
		md.PlainText("No results.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, report.Len())
	for _, rec := range report.Records() {
		if rec.Error != "" {
			rows = append(rows, []string{rec.URL, rec.Device, "-", "-", "-", "-", "⚠️ " + rec.Error, "-"})
			continue
		}
		rows = append(rows, []string{
			rec.URL,
			rec.Device,
			rec.PerformanceScore,
			cell(rec.LCP, rec.LCPStatus),
			cell(rec.CLS, rec.CLSStatus),
			cell(rec.INP, rec.INPStatus),
			overallMark(rec.CWVOverall),
			rec.FixPriorityScore,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Device", "Score", "LCP (s)", "CLS", "INP (ms)", "CWV", "Fix Priority"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRemediation writes root causes and recommendations for failing rows.
func (w *MarkdownWriter) writeRemediation(md *markdown.Markdown, report *model.Report) {
	var wrote bool
	for _, row := range report.Rows {
		if !row.OK() || len(row.Diagnostic.RootCauses) == 0 {
			continue
		}
		if !wrote {
			md.H2("Remediation")
			md.PlainText("")
			wrote = true
		}

		var body strings.Builder
		recs := row.Diagnostic.Recommendations
		for i, cause := range row.Diagnostic.RootCauses {
			if i < len(recs) {
				fmt.Fprintf(&body, "- **%s**: %s\n", cause, recs[i])
				continue
			}
			fmt.Fprintf(&body, "- **%s**\n", cause)
		}
		md.Details(fmt.Sprintf("%s (%s, priority %.1f)", row.Task.URL, row.Task.Device, row.Diagnostic.FixPriorityScore), body.String())
	}
	if wrote {
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [vitalscan %s](https://github.com/nao1215/vitalscan)*", w.version)
}

// cell renders a value with a status marker.
func cell(value, status string) string {
	switch model.Status(status) {
	case model.StatusGood:
		return "🟢 " + value
	case model.StatusNeedsImprovement:
		return "🟡 " + value
	case model.StatusPoor:
		return "🔴 " + value
	default:
		return value
	}
}

func overallMark(overall string) string {
	if overall == "pass" {
		return "✅ pass"
	}
	return "❌ fail"
}
