package stream

import "testing"

func TestSequenceContiguity(t *testing.T) {
	in := make(chan string)
	out := make(chan Numbered[string])
	total := make(chan Total, 1)

	go Sequence(in, out, total)

	go func() {
		defer close(in)
		for _, s := range []string{"a", "b", "c", "d"} {
			in <- s
		}
	}()

	var got []Numbered[string]
	for n := range out {
		got = append(got, n)
	}

	if len(got) != 4 {
		t.Fatalf("got %d tuples, want 4", len(got))
	}
	for i, n := range got {
		if n.Seq != uint64(i+1) {
			t.Errorf("tuple %d: seq = %d, want %d", i, n.Seq, i+1)
		}
	}

	tot := <-total
	if tot.Count != 4 {
		t.Errorf("Total.Count = %d, want 4", tot.Count)
	}
}

func TestSequenceEmptyInput(t *testing.T) {
	in := make(chan string)
	out := make(chan Numbered[string])
	total := make(chan Total, 1)
	close(in)

	go Sequence(in, out, total)

	for range out {
		t.Fatal("expected no output tuples for empty input")
	}
	if tot := <-total; tot.Count != 0 {
		t.Errorf("Total.Count = %d, want 0", tot.Count)
	}
}
