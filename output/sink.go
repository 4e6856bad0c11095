// Package output writes break-in records and throughput reports to their
// result files.
package output

import (
	"fmt"
	"os"
	"time"

	"github.com/mholloway/breakwatch/internal/stream"
	"github.com/spf13/afero"
)

const osAppendFlags = os.O_APPEND | os.O_CREATE | os.O_WRONLY

// BreakinSink writes one "time rhost user" record per Breakin to a text
// file, reopening and flushing on every write so a killed run leaves a
// readable partial result.
type BreakinSink struct {
	fs   afero.Fs
	path string
}

// NewBreakinSink constructs a BreakinSink writing to path on fs, truncating
// any existing file.
func NewBreakinSink(fs afero.Fs, path string) (*BreakinSink, error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("output: truncating %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("output: truncating %s: %w", path, err)
	}
	return &BreakinSink{fs: fs, path: path}, nil
}

// Write appends one Breakin record.
func (s *BreakinSink) Write(b stream.Breakin) error {
	f, err := s.fs.OpenFile(s.path, osAppendFlags, 0o644)
	if err != nil {
		return fmt.Errorf("output: opening %s: %w", s.path, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s %s %s\n", b.Time.Format(time.RFC3339), b.RHost, b.User)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("output: writing %s: %w", s.path, err)
	}
	return nil
}

// ThroughputSink overwrites its result file on every report, so the file
// always holds the most recently observed elapsed/total/throughput reading.
type ThroughputSink struct {
	fs   afero.Fs
	path string
}

// NewThroughputSink constructs a ThroughputSink writing to path on fs.
func NewThroughputSink(fs afero.Fs, path string) *ThroughputSink {
	return &ThroughputSink{fs: fs, path: path}
}

// Write overwrites the sink file with report's elapsed, total and
// throughput fields in that order.
func (s *ThroughputSink) Write(report stream.ThroughputReport) {
	line := fmt.Sprintf("%.3f %d %.3f\n", report.ElapsedSeconds, report.TotalLines, report.Throughput)
	_ = afero.WriteFile(s.fs, s.path, []byte(line), 0o644)
}

// DiagnosticsSink writes the optional intermediate files (RealTime.txt,
// Successes.txt); unlike BreakinSink these are pure diagnostics that a
// clean target may remove without losing results.
type DiagnosticsSink struct {
	fs           afero.Fs
	successPath  string
	realTimePath string
}

// NewDiagnosticsSink constructs a DiagnosticsSink. Pass empty paths to
// disable either file.
func NewDiagnosticsSink(fs afero.Fs, successPath, realTimePath string) *DiagnosticsSink {
	return &DiagnosticsSink{fs: fs, successPath: successPath, realTimePath: realTimePath}
}

// WriteSuccess appends a parsed Success tuple for diagnostic inspection.
func (d *DiagnosticsSink) WriteSuccess(s stream.Success) {
	if d.successPath == "" {
		return
	}
	line := fmt.Sprintf("%s %s\n", s.Time.Format(time.RFC3339), s.User)
	appendLine(d.fs, d.successPath, line)
}

// WriteRealTime appends a wall-clock checkpoint, useful for comparing
// elapsed time against the Sequencer's reported line count during tuning.
func (d *DiagnosticsSink) WriteRealTime(when time.Time, note string) {
	if d.realTimePath == "" {
		return
	}
	line := fmt.Sprintf("%s %s\n", when.Format(time.RFC3339Nano), note)
	appendLine(d.fs, d.realTimePath, line)
}

func appendLine(fs afero.Fs, path, line string) {
	f, err := fs.OpenFile(path, osAppendFlags, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line)
}

func isNotExist(err error) bool {
	return os.IsNotExist(err)
}
