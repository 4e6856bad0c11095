package cmd

import "runtime"

// resolveParallelism maps the --parallelism flag to an actual fan-out
// width: 0 or negative means "pick automatically", scaled to available
// CPUs and clamped to a sane range.
func resolveParallelism(requested int) int {
	if requested > 0 {
		return requested
	}

	workers := runtime.NumCPU()
	if workers < 2 {
		return 2
	}
	if workers > 8 {
		return 8
	}
	return workers
}
