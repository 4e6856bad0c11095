// Package cmd implements the command-line interface for breakwatch.
package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/mholloway/breakwatch/internal/metrics"
	"github.com/mholloway/breakwatch/internal/stream"
	"github.com/mholloway/breakwatch/output"
	"github.com/mholloway/breakwatch/parser"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// executeBreakwatch is the Run function for rootCmd. It orchestrates the
// entire pipeline:
//  1. Load and merge config-file/flag parameters.
//  2. Resolve the timestamp year and open the (possibly compressed) source file.
//  3. Build and run the streaming pipeline.
//  4. Drain results to the Breakins/ExecTime sinks and print a summary table.
func executeBreakwatch(cmd *cobra.Command, args []string) {
	if configFlag != "" {
		cfg, err := loadFileConfig(configFlag)
		if err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
		applyFileConfig(cfg, cmd.Flags().Changed)
	}

	inputPath := args[0]
	fs := afero.NewOsFs()

	year, err := parser.ResolveYear(fs, inputPath, yearFlag)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	src := parser.NewSource(fs)
	lines, start, err := src.Open(inputPath)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	var stopMetrics func(context.Context) error
	if metricsAddrFlag != "" {
		stopMetrics = metrics.Serve(metricsAddrFlag)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = stopMetrics(ctx)
		}()
	}

	var diagnostics *output.DiagnosticsSink
	if diagnosticsFlag {
		diagnostics = output.NewDiagnosticsSink(fs,
			filepath.Join(outDirFlag, "Successes.txt"),
			filepath.Join(outDirFlag, "RealTime.txt"),
		)
	}

	lineParser := parser.NewLineParser(year)
	successParser := parser.NewSuccessParser()
	parseFuncs := stream.ParseFuncs{
		Line:    lineParser.Parse,
		Failure: parser.NewFailureParser().Parse,
		Success: func(line stream.LogLine) (stream.Success, error) {
			s, err := successParser.Parse(line)
			if err == nil && diagnostics != nil {
				diagnostics.WriteSuccess(s)
			}
			return s, err
		},
	}

	opts := stream.PipelineOptions{
		Parallelism: resolveParallelism(parallelismFlag),
		SuspectFinder: stream.SuspectFinderOptions{
			Attempts: attemptsFlag,
			Window:   secondsFlag,
		},
		MaxUsers: maxUsersFlag,
		Strict:   strictFlag,
	}

	breakinsPath := filepath.Join(outDirFlag, breakinsFlag)
	exectimePath := filepath.Join(outDirFlag, exectimeFlag)

	breakinSink, err := output.NewBreakinSink(fs, breakinsPath)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	throughputSink := output.NewThroughputSink(fs, exectimePath)

	pipeline := stream.New(opts, parseFuncs)
	breakins := pipeline.Run(lines, start, func(r stream.ThroughputReport) {
		throughputSink.Write(r)
		metrics.ThroughputLinesPerSecond.Set(r.Throughput)
	})

	var collected []stream.Breakin
	for b := range breakins {
		collected = append(collected, b)
		if err := breakinSink.Write(b); err != nil {
			log.Printf("[WARN] %v", err)
		}
		metrics.BreakinsTotal.Inc()
		if diagnostics != nil {
			diagnostics.WriteRealTime(time.Now(), fmt.Sprintf("breakin user=%s rhost=%s", b.User, b.RHost))
		}
	}

	stats := pipeline.Stats()
	metrics.MalformedLinesTotal.Add(float64(stats.MalformedLines.Load()))
	metrics.MalformedFailuresTotal.Add(float64(stats.MalformedFailures.Load()))
	metrics.MalformedSuccessesTotal.Add(float64(stats.MalformedSuccesses.Load()))
	metrics.SuspectsTotal.Add(float64(stats.Suspects.Load()))

	fmt.Print(output.FormatBreakinSummary(collected))
	if n := stats.MalformedLines.Load(); n > 0 {
		fmt.Printf("%d malformed log line(s) skipped\n", n)
	}
	if n := stats.MalformedFailures.Load(); n > 0 {
		fmt.Printf("%d malformed authentication-failure message(s) skipped\n", n)
	}
	if n := stats.MalformedSuccesses.Load(); n > 0 {
		fmt.Printf("%d malformed successful-login message(s) skipped\n", n)
	}
}
