// Package main is the entry point for breakwatch, a streaming SSH
// break-in detector for syslog-formatted authentication logs.
package main

import (
	"github.com/mholloway/breakwatch/cmd"
)

// version, commit and date are stamped at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
