package stream

// SuspectFinderOptions configures the partitioned tumbling count window.
// Attempts is N, the window trips on the Nth failure per partition; Window
// is T, the maximum span the N failures may cover.
type SuspectFinderOptions struct {
	Attempts uint32
	Window   float64 // seconds
}

// DefaultSuspectFinderOptions returns the compiled defaults: 5 attempts
// within a 60-second window.
func DefaultSuspectFinderOptions() SuspectFinderOptions {
	return SuspectFinderOptions{Attempts: 5, Window: 60}
}

// window is a single partition's in-progress tumbling window: a count-bound
// buffer of up to Attempts failures, partitioned by RHost.
type window struct {
	failures []Failure
}

// SuspectFinder maintains one tumbling window per remote host. On the Nth
// failure for a host it evaluates the span and either emits a Suspect or
// resets empty; the window never holds more than N-1 failures between
// triggers.
type SuspectFinder struct {
	opts   SuspectFinderOptions
	byHost map[string]*window
}

// NewSuspectFinder constructs a SuspectFinder with the given options.
func NewSuspectFinder(opts SuspectFinderOptions) *SuspectFinder {
	return &SuspectFinder{
		opts:   opts,
		byHost: make(map[string]*window),
	}
}

// Observe records one Failure and returns the Suspect it triggers, if any.
// Partitions are keyed on RHost and persist for the SuspectFinder's
// lifetime; idle partitions are never evicted.
func (sf *SuspectFinder) Observe(f Failure) (Suspect, bool) {
	w, ok := sf.byHost[f.RHost]
	if !ok {
		w = &window{failures: make([]Failure, 0, sf.opts.Attempts)}
		sf.byHost[f.RHost] = w
	}
	w.failures = append(w.failures, f)
	if uint32(len(w.failures)) < sf.opts.Attempts {
		return Suspect{}, false
	}

	suspect, triggered := sf.evaluate(w.failures)
	w.failures = w.failures[:0]
	return suspect, triggered
}

// evaluate computes the trigger condition over exactly N failures: the span
// between the earliest and latest must be strictly less than the window.
// The triggering user is the last failure's user (tie-break: most-recent
// insertion).
func (sf *SuspectFinder) evaluate(failures []Failure) (Suspect, bool) {
	minT, maxT := failures[0].Time, failures[0].Time
	for _, f := range failures[1:] {
		if f.Time.Before(minT) {
			minT = f.Time
		}
		if f.Time.After(maxT) {
			maxT = f.Time
		}
	}

	diff := maxT.Sub(minT)
	if diff.Seconds() >= sf.opts.Window {
		return Suspect{}, false
	}

	last := failures[len(failures)-1]
	return Suspect{
		Diff:     diff,
		Last:     maxT,
		Attempts: sf.opts.Attempts,
		RHost:    last.RHost,
		User:     last.User,
	}, true
}

// Run drives a SuspectFinder over an ordered Failure stream, emitting
// Suspect tuples on suspects. suspects is closed once failures is exhausted.
func (sf *SuspectFinder) Run(failures <-chan Failure, suspects chan<- Suspect) {
	defer close(suspects)
	for f := range failures {
		if s, ok := sf.Observe(f); ok {
			suspects <- s
		}
	}
}
