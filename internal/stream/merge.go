package stream

import "sync"

// FanIn merges an arbitrary number of channels into one, with no ordering
// guarantee, closing the result once every input channel is closed. This is
// the plumbing step between a parallel fan-out (p distinct channels) and the
// Order-Preserving Merger, which needs a single stream to re-serialize.
func FanIn[T any](ins []chan Numbered[T]) <-chan Numbered[T] {
	out := make(chan Numbered[T], fanoutBuffer)
	var wg sync.WaitGroup
	wg.Add(len(ins))
	for _, in := range ins {
		in := in
		go func() {
			defer wg.Done()
			for v := range in {
				out <- v
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Merge re-establishes total order on a stream that was fanned out and
// processed in parallel. It consumes a stream of Numbered tuples whose
// seqno set is guaranteed to be exactly {1, ..., K} for some K (no losses,
// no duplicates) and emits the values in strictly ascending seqno order,
// deterministically regardless of arrival interleaving. out is closed once
// the tuple with seqno K has been emitted.
//
// Algorithm: a pending buffer holds tuples that arrived ahead of next; on
// each arrival, if it's the one we're waiting for, emit it and drain any
// contiguous run now sitting in pending.
func Merge[T any](in <-chan Numbered[T], out chan<- T) {
	defer close(out)

	pending := make(map[uint64]T)
	next := uint64(1)

	for t := range in {
		if t.Seq != next {
			pending[t.Seq] = t.Value
			continue
		}
		out <- t.Value
		next++
		for {
			v, ok := pending[next]
			if !ok {
				break
			}
			out <- v
			delete(pending, next)
			next++
		}
	}

	// The no-loss precondition on the input seqno set implies pending is
	// empty once in closes; a non-empty buffer here means an upstream stage
	// violated the contract (lost a tuple without occupying its seqno).
	if len(pending) != 0 {
		panic("stream: Merge finished with a non-empty pending buffer, upstream dropped a seqno")
	}
}

// FanOutMerge is a convenience that wires p fan-out channels back into a
// single ordered stream of T, skipping over the intermediate FanIn channel
// type juggling at call sites.
func FanOutMerge[T any](outs []chan Numbered[T]) <-chan T {
	merged := make(chan T, fanoutBuffer)
	go Merge(FanIn(outs), merged)
	return merged
}
