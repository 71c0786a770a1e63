// Package config provides configuration structures and utilities for vitalscan.
// It defines the options for calling the PageSpeed Insights API, scheduling
// the batch, and rendering and shipping the report.
//
// Settings are layered: defaults from NewConfig, then the YAML file found by
// FindConfigFile, then command line flags. The API key additionally honours
// the PAGESPEED_API_KEY environment variable, see ResolveAPIKey.
package config
