// Package cmd implements the command-line interface for breakwatch.
// It uses the Cobra library to handle commands, flags, and execution.
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// Version information (passed from main).
var (
	version string
	commit  string
	date    string
)

// Flag variables for command-line options. Package-level, as Cobra's flag
// binding requires.
var (
	configFlag string // --config: optional YAML config file

	attemptsFlag    uint32 // --attempts
	secondsFlag     float64 // --seconds
	parallelismFlag int     // --parallelism
	maxUsersFlag    int     // --max-users

	yearFlag   string // --year
	strictFlag bool   // --strict

	outDirFlag      string // --out-dir
	breakinsFlag    string // --breakins
	exectimeFlag    string // --exectime
	diagnosticsFlag bool   // --diagnostics

	metricsAddrFlag string // --metrics-addr
)

// rootCmd is the main command for the breakwatch CLI.
var rootCmd = &cobra.Command{
	Use:   "breakwatch [file]",
	Short: "Streaming SSH break-in detector for syslog-formatted auth logs",
	Long: `breakwatch ingests a (optionally compressed) syslog-formatted auth log and
reports SSH break-ins: accounts that accumulate a burst of failed logins at a
single remote host and are then successfully logged into within a short
window afterward.

It parses the file as a streaming, parallel-decomposed pipeline rather than
loading it into memory, so it scales to large archives.`,
	Args: cobra.ExactArgs(1),
	Run:  executeBreakwatch,
}

// Execute runs the root command. Called by main.go.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func init() {
	rootCmd.Flags().StringVar(&configFlag, "config", "",
		"path to a YAML config file; flags override values it sets")

	rootCmd.Flags().Uint32Var(&attemptsFlag, "attempts", 5,
		"number of failures at one remote host that makes a user a suspect")
	rootCmd.Flags().Float64Var(&secondsFlag, "seconds", 60,
		"window, in seconds, within which --attempts failures at one remote host make a user a suspect")
	rootCmd.Flags().IntVar(&parallelismFlag, "parallelism", 8,
		"parser fan-out width")
	rootCmd.Flags().IntVar(&maxUsersFlag, "max-users", 0,
		"maximum distinct usernames tracked for pending correlator state (0 = default)")

	rootCmd.Flags().StringVar(&yearFlag, "year", "auto",
		`year to stamp onto syslog timestamps, which carry no year of their own;
"auto" derives it from the input file's modification time`)
	rootCmd.Flags().BoolVar(&strictFlag, "strict", false,
		"abort on the first malformed record instead of skipping it with a counter")

	rootCmd.Flags().StringVar(&outDirFlag, "out-dir", ".",
		"directory results are written to")
	rootCmd.Flags().StringVar(&breakinsFlag, "breakins", "Breakins.txt",
		"break-in result filename, relative to --out-dir")
	rootCmd.Flags().StringVar(&exectimeFlag, "exectime", "ExecTime.txt",
		"throughput result filename, relative to --out-dir")
	rootCmd.Flags().BoolVar(&diagnosticsFlag, "diagnostics", false,
		"also write the optional Successes.txt/RealTime.txt diagnostic files")

	rootCmd.Flags().StringVar(&metricsAddrFlag, "metrics-addr", "",
		"if set, serve Prometheus metrics on this address (e.g. :9090) for the run's duration")
}
