package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for vitalscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vitalscan",
		Short: "Bulk Core Web Vitals assessment",
		Long: `vitalscan assesses Core Web Vitals (LCP, CLS, INP) for a list of URLs
using the PageSpeed Insights API. Every URL is tested on mobile and desktop,
classified against the published thresholds and scored for fix priority.

Without an API key the anonymous quota applies; use --mode serial for
keyless runs, or set PAGESPEED_API_KEY.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
