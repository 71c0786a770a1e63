// Package main provides the entry point for the vitalscan CLI.
//
// vitalscan assesses Core Web Vitals for many URLs at once through the
// PageSpeed Insights API, on both mobile and desktop, and writes a report
// with a remediation priority for every URL.
//
// Usage:
//
//	vitalscan scan https://example.com https://example.org
//	vitalscan scan --list urls.csv
//
// See --help for all available options.
package main

func main() {
	Execute()
}
