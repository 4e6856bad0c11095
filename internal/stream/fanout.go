package stream

import (
	"sync"

	"go4.org/syncutil"
)

// fanoutBuffer sizes each per-channel output buffer in the parser fan-out.
// Sized generously so a slow downstream merge doesn't immediately stall a
// fast parser replica; channels are bounded FIFOs and a full one blocks its
// producer.
const fanoutBuffer = 256

// FanOutParse applies parse to every value received on in with parallelism
// p: at most p invocations of parse run concurrently, enforced by a
// go4.org/syncutil.Gate rather than by a fixed pool of p goroutines, so a
// slow tuple never starves a fast one behind it. Each result is routed to
// one of p output channels by seq % p. The choice of routing (round-robin
// or hashed on seqno) is not externally observable, since the merger that
// follows only cares that every seqno in {1..K} appears exactly once
// across the p channels.
//
// On a parse error, onErr (if non-nil) is called with the failing seqno and
// error, and the zero Out value still occupies that seqno downstream: the
// merger depends on every seqno in {1..K} appearing exactly once, so a
// malformed tuple's seqno is never simply skipped. A caller that wants a
// parse failure to be fatal for that tuple instead should have parse
// terminate the process (log.Fatalf) rather than return an error.
//
// FanOutParse returns immediately with the p output channels; each is
// closed once in is exhausted and every in-flight parse has completed.
func FanOutParse[In, Out any](in <-chan Numbered[In], p int, parse func(In) (Out, error), onErr func(seq uint64, err error)) []chan Numbered[Out] {
	if p < 1 {
		p = 1
	}
	outs := make([]chan Numbered[Out], p)
	for i := range outs {
		outs[i] = make(chan Numbered[Out], fanoutBuffer)
	}

	gate := syncutil.NewGate(p)
	go func() {
		var wg sync.WaitGroup
		for t := range in {
			t := t
			gate.Start()
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer gate.Done()
				v, err := parse(t.Value)
				if err != nil && onErr != nil {
					onErr(t.Seq, err)
				}
				outs[t.Seq%uint64(p)] <- Numbered[Out]{Seq: t.Seq, Value: v}
			}()
		}
		wg.Wait()
		for _, o := range outs {
			close(o)
		}
	}()
	return outs
}
