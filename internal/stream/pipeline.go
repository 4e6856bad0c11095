package stream

import (
	"log"
	"sync/atomic"
	"time"
)

// Stats accumulates the malformed-tuple counters the error-handling policy
// needs: malformed records are either skipped with a counter or treated as
// fatal, and the choice is explicit rather than silent. Safe for concurrent
// use from the parser fan-out goroutines.
type Stats struct {
	MalformedLines     atomic.Uint64
	MalformedFailures  atomic.Uint64
	MalformedSuccesses atomic.Uint64
	Suspects           atomic.Uint64
}

// ParseFuncs supplies the format-specific, logically-stateless parsing
// functions the pipeline treats as pure functions from string to structured
// record. They are the seam between the core dataflow and the
// line-grammar/collaborator layer in package parser.
type ParseFuncs struct {
	// Line parses one raw text line into a LogLine.
	Line func(raw string) (LogLine, error)
	// Failure extracts uid/euid/tty/rhost/user from a line already
	// classified as an SSH authentication-failure line.
	Failure func(line LogLine) (Failure, error)
	// Success extracts the user from a line already classified as an SSH
	// successful-login line.
	Success func(line LogLine) (Success, error)
}

// PipelineOptions configures the dataflow's parallelism and window
// parameters.
type PipelineOptions struct {
	Parallelism   int
	SuspectFinder SuspectFinderOptions
	MaxUsers      int
	Strict        bool
}

// DefaultPipelineOptions returns the compiled defaults, including a parser
// fan-out width of 8.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Parallelism:   8,
		SuspectFinder: DefaultSuspectFinderOptions(),
		MaxUsers:      DefaultCorrelatorUsers,
	}
}

// Pipeline wires the full dataflow: Sequencer -> parser fan-out -> merge ->
// Classifier -> {failure re-sequencer + parser fan-out + merge ->
// SuspectFinder, success parsing} -> Correlator.
type Pipeline struct {
	opts  PipelineOptions
	parse ParseFuncs
	stats *Stats
}

// New constructs a Pipeline.
func New(opts PipelineOptions, parse ParseFuncs) *Pipeline {
	return &Pipeline{opts: opts, parse: parse, stats: &Stats{}}
}

// Stats returns the pipeline's malformed-tuple counters. Safe to read while
// Run is still in progress.
func (p *Pipeline) Stats() *Stats { return p.stats }

// Run drives the full dataflow over lines (the Source stage's output,
// already terminated by channel close) and returns the ordered stream of
// Breakin tuples. start is the wall-clock instant the Source stage began
// reading, used by the throughput monitor; throughputSink is called with
// the latest ThroughputReport whenever the monitor has new information, so
// the caller can flush it to a sink file immediately.
//
// The returned channel is closed once the dataflow has drained lines and
// produced every Breakin it will ever produce.
func (p *Pipeline) Run(lines <-chan string, start time.Time, throughputSink func(ThroughputReport)) <-chan Breakin {
	monitor := NewThroughputMonitor(start, throughputSink)

	numberedLines := make(chan Numbered[string], fanoutBuffer)
	lineTotal := make(chan Total, 1)
	go Sequence(lines, numberedLines, lineTotal)
	go func() {
		for t := range lineTotal {
			monitor.ObserveTotal(t)
		}
	}()

	parsedOuts := FanOutParse(numberedLines, p.opts.Parallelism, p.parse.Line, func(seq uint64, err error) {
		p.onParseErr(&p.stats.MalformedLines, "log line", seq, err)
	})
	merged := FanOutMerge(parsedOuts)

	failureLines := make(chan LogLine, fanoutBuffer)
	successLines := make(chan LogLine, fanoutBuffer)
	go Classify(merged, failureLines, successLines)

	// Failure re-sequencer + parser fan-out + merge.
	numberedFailureLines := make(chan Numbered[LogLine], fanoutBuffer)
	failureTotal := make(chan Total, 1)
	go Sequence(failureLines, numberedFailureLines, failureTotal)
	go func() {
		for range failureTotal {
			// The failure subsequence total is not used; draining keeps
			// Sequence's send from blocking.
		}
	}()

	failureOuts := FanOutParse(numberedFailureLines, p.opts.Parallelism, p.parse.Failure, func(seq uint64, err error) {
		p.onParseErr(&p.stats.MalformedFailures, "failure message", seq, err)
	})
	failures := FanOutMerge(failureOuts)

	finder := NewSuspectFinder(p.opts.SuspectFinder)
	rawSuspects := make(chan Suspect, fanoutBuffer)
	go finder.Run(failures, rawSuspects)

	suspects := make(chan Suspect, fanoutBuffer)
	go func() {
		defer close(suspects)
		for s := range rawSuspects {
			p.stats.Suspects.Add(1)
			suspects <- s
		}
	}()

	successes := make(chan Success, fanoutBuffer)
	go p.parseSuccesses(successLines, successes)

	correlator := NewCorrelator(p.opts.MaxUsers)
	breakins := make(chan Breakin, fanoutBuffer)
	done := make(chan struct{})
	go func() {
		correlator.Run(suspects, successes, breakins)
		close(done)
	}()

	out := make(chan Breakin, fanoutBuffer)
	go func() {
		defer close(out)
		for b := range breakins {
			out <- b
		}
		<-done
		monitor.ObserveFinish()
	}()
	return out
}

// parseSuccesses maps classified success LogLines to Success tuples. Unlike
// failures, successes are not re-sequenced through a second fan-out/OPM:
// extracting a username from "session opened for user X" is cheap enough
// to run inline, and the merged log stream is already in seqno (hence
// time) order, so the output stays ordered for free.
func (p *Pipeline) parseSuccesses(in <-chan LogLine, out chan<- Success) {
	defer close(out)
	for line := range in {
		s, err := p.parse.Success(line)
		if err != nil {
			p.onParseErr(&p.stats.MalformedSuccesses, "success message", 0, err)
			continue
		}
		out <- s
	}
}

func (p *Pipeline) onParseErr(counter *atomic.Uint64, kind string, seq uint64, err error) {
	counter.Add(1)
	if p.opts.Strict {
		log.Fatalf("[ERROR] malformed %s at seq %d: %v", kind, seq, err)
	}
}
