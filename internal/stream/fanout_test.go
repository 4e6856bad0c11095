package stream

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestFanOutParsePreservesSeqnoSet(t *testing.T) {
	const k = 200
	const p = 6

	in := make(chan Numbered[int], k)
	for s := 1; s <= k; s++ {
		in <- Numbered[int]{Seq: uint64(s), Value: s}
	}
	close(in)

	outs := FanOutParse(in, p, func(v int) (int, error) { return v * 2, nil }, nil)
	if len(outs) != p {
		t.Fatalf("got %d output channels, want %d", len(outs), p)
	}

	seen := make(map[uint64]bool)
	for _, o := range outs {
		for n := range o {
			if seen[n.Seq] {
				t.Fatalf("seqno %d emitted twice", n.Seq)
			}
			seen[n.Seq] = true
			if n.Value != int(n.Seq)*2 {
				t.Errorf("seq %d: value = %d, want %d", n.Seq, n.Value, n.Seq*2)
			}
		}
	}
	if len(seen) != k {
		t.Fatalf("saw %d distinct seqnos, want %d", len(seen), k)
	}
}

func TestFanOutParseCallsOnErrWithoutDroppingSeqno(t *testing.T) {
	in := make(chan Numbered[int], 3)
	in <- Numbered[int]{Seq: 1, Value: 1}
	in <- Numbered[int]{Seq: 2, Value: -1} // triggers error
	in <- Numbered[int]{Seq: 3, Value: 3}
	close(in)

	var errSeen atomic.Uint64
	parse := func(v int) (int, error) {
		if v < 0 {
			return 0, errors.New("negative value")
		}
		return v, nil
	}

	outs := FanOutParse(in, 2, parse, func(seq uint64, err error) {
		errSeen.Store(seq)
	})

	merged := FanOutMerge(outs)
	var got []int
	for v := range merged {
		got = append(got, v)
	}

	if errSeen.Load() != 2 {
		t.Fatalf("onErr called with seq %d, want 2", errSeen.Load())
	}
	if len(got) != 3 {
		t.Fatalf("got %d values, want 3 (malformed tuple's seqno must still be occupied)", len(got))
	}
	if got[1] != 0 {
		t.Errorf("got[1] = %d, want 0 (zero value for the failed parse)", got[1])
	}
}

func ExampleFanOutParse() {
	in := make(chan Numbered[int], 1)
	in <- Numbered[int]{Seq: 1, Value: 21}
	close(in)

	outs := FanOutParse(in, 1, func(v int) (int, error) { return v * 2, nil }, nil)
	for n := range outs[0] {
		fmt.Println(n.Value)
	}
	// Output: 42
}
