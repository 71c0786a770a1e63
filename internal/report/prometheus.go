package report

import (
	"bytes"
	"cmp"
	"io"
	"slices"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/nao1215/vitalscan/internal/model"
)

// metricPrefix namespaces every exported family.
const metricPrefix = "vitalscan_"

// PrometheusWriter outputs the report in the Prometheus text exposition
// format, suitable for the node_exporter textfile collector. Only success
// rows produce per-URL gauges; failures are counted per kind.
type PrometheusWriter struct {
	baseWriter
}

// NewPrometheusWriter creates a PrometheusWriter that outputs to the given writer.
func NewPrometheusWriter(output io.Writer) *PrometheusWriter {
	return &PrometheusWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report as metric families.
func (w *PrometheusWriter) Write(report *model.Report) (int, error) {
	var buf bytes.Buffer
	for _, mf := range Families(report) {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return 0, err
		}
	}
	return w.output.Write(buf.Bytes())
}

// Families converts the report into metric families. Per-task series are
// sorted by url then device so the output is stable.
func Families(report *model.Report) []*dto.MetricFamily {
	rows := make([]model.ReportRow, 0, report.Len())
	for _, row := range report.Rows {
		if row.OK() {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b model.ReportRow) int {
		return cmp.Or(
			cmp.Compare(a.Task.URL, b.Task.URL),
			cmp.Compare(a.Task.Device, b.Task.Device),
		)
	})

	perTask := func(name, help string, value func(model.ReportRow) (float64, bool)) *dto.MetricFamily {
		mf := newGaugeFamily(name, help)
		for _, row := range rows {
			v, ok := value(row)
			if !ok {
				continue
			}
			mf.Metric = append(mf.Metric, gauge(v,
				labelPair("url", row.Task.URL),
				labelPair("device", row.Task.Device.String()),
			))
		}
		return mf
	}

	families := []*dto.MetricFamily{
		perTask("performance_score", "Lighthouse performance score (0-100).",
			func(r model.ReportRow) (float64, bool) { return r.Metrics.PerformanceScore, true }),
		perTask("lcp_seconds", "Largest Contentful Paint in seconds.",
			func(r model.ReportRow) (float64, bool) { return r.Metrics.LCPSeconds, true }),
		perTask("cls", "Cumulative Layout Shift.",
			func(r model.ReportRow) (float64, bool) { return r.Metrics.CLS, true }),
		perTask("inp_milliseconds", "Interaction to Next Paint in milliseconds.",
			func(r model.ReportRow) (float64, bool) { return r.Metrics.INPMilliseconds, r.Metrics.INPMeasured }),
		perTask("fix_priority_score", "Weighted remediation priority.",
			func(r model.ReportRow) (float64, bool) { return r.Diagnostic.FixPriorityScore, true }),
		perTask("cwv_pass", "1 when every Core Web Vital is good.",
			func(r model.ReportRow) (float64, bool) { return boolValue(r.Diagnostic.OverallPass), true }),
	}

	summary := report.Summary()

	failures := newGaugeFamily("probe_failures", "Tasks that produced no metrics, by failure kind.")
	for _, kind := range model.AllFailureKinds {
		failures.Metric = append(failures.Metric,
			gauge(float64(summary.FailuresByKind[kind]), labelPair("kind", string(kind))))
	}
	families = append(families, failures)

	mean := newGaugeFamily("mean_performance_score", "Mean performance score of successful tasks per device.")
	for _, d := range model.AllDevices {
		if v, ok := summary.MeanScoreByDevice[d]; ok {
			mean.Metric = append(mean.Metric, gauge(v, labelPair("device", d.String())))
		}
	}
	families = append(families, mean)

	tasks := newGaugeFamily("tasks", "Tasks in the batch.")
	tasks.Metric = append(tasks.Metric, gauge(float64(summary.Total)))
	families = append(families, tasks)

	if !report.FinishedAt.IsZero() {
		last := newGaugeFamily("last_run_timestamp_seconds", "Unix time the batch finished.")
		last.Metric = append(last.Metric, gauge(float64(report.FinishedAt.Unix())))
		families = append(families, last)
	}

	return slices.DeleteFunc(families, func(mf *dto.MetricFamily) bool {
		return len(mf.Metric) == 0
	})
}

func newGaugeFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(metricPrefix + name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

func gauge(v float64, labels ...*dto.LabelPair) *dto.Metric {
	return &dto.Metric{
		Label: labels,
		Gauge: &dto.Gauge{Value: proto.Float64(v)},
	}
}

func labelPair(name, value string) *dto.LabelPair {
	return &dto.LabelPair{Name: proto.String(name), Value: proto.String(value)}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
