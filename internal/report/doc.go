// Package report renders a batch report in several output formats.
//
// This package contains writers for different output formats:
//   - CSVWriter: the flat tabular export, one line per task
//   - JSONWriter: structured output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with tables and a pie chart
//   - SimpleWriter: human-readable text for terminal display
//   - PrometheusWriter: a textfile for the node_exporter textfile collector
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
