// gh-traffic is a command line tool that collects repository traffic and
// release-download metrics from the GitHub API and persists them as
// append-only CSV time series, plus derived summary rollups for display.
//
// Usage:
//
//	gh-traffic run
//	gh-traffic run --input repos.txt --output-dir stats -v
//
// The tool is designed to be driven by an external scheduler (cron or a
// workflow runner): it runs one collection pass to completion and exits.
package main

import (
	"github.com/MuteJack/Traffic-Collector/cmd"
)

// Version is the current version of gh-traffic.
// It can be overridden at build time using:
//
//	go build -ldflags="-X main.Version=v1.0.0"
var Version = "dev"

func main() {
	cmd.Version = Version
	cmd.Execute()
}
