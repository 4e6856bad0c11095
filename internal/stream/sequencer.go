package stream

// Sequence reads in to exhaustion, tagging each value with a 1-based,
// monotonically increasing, contiguous sequence number. It closes out when
// in is closed, then sends exactly one Total record on total and closes it.
//
// Contract: if in produces K values, out receives exactly K Numbered
// records with Seq 1..K, out is closed, then total receives one
// Total{Count: K} and is closed.
func Sequence[T any](in <-chan T, out chan<- Numbered[T], total chan<- Total) {
	defer close(total)

	var seq uint64
	for v := range in {
		seq++
		out <- Numbered[T]{Seq: seq, Value: v}
	}
	close(out)
	total <- Total{Count: seq}
}
