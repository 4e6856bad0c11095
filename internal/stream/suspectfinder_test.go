package stream

import (
	"testing"
	"time"
)

func mkFailure(sec int, rhost, user string) Failure {
	return Failure{Time: time.Unix(int64(sec), 0), RHost: rhost, User: user}
}

func TestSuspectFinderTriggersWithinWindow(t *testing.T) {
	sf := NewSuspectFinder(SuspectFinderOptions{Attempts: 5, Window: 60})

	times := []int{100, 110, 120, 130, 140}
	var s Suspect
	var ok bool
	for _, sec := range times {
		s, ok = sf.Observe(mkFailure(sec, "10.0.0.1", "alice"))
	}
	if !ok {
		t.Fatal("expected a Suspect on the 5th failure")
	}
	if s.RHost != "10.0.0.1" || s.User != "alice" {
		t.Errorf("unexpected suspect: %+v", s)
	}
	if s.Last != time.Unix(140, 0) {
		t.Errorf("Last = %v, want 140", s.Last)
	}
}

func TestSuspectFinderRejectsWideWindow(t *testing.T) {
	sf := NewSuspectFinder(SuspectFinderOptions{Attempts: 5, Window: 60})

	times := []int{100, 120, 140, 160, 165} // span 65 >= 60
	var ok bool
	for _, sec := range times {
		_, ok = sf.Observe(mkFailure(sec, "10.0.0.1", "bob"))
	}
	if ok {
		t.Fatal("expected no Suspect for a window spanning >= T seconds")
	}
}

func TestSuspectFinderTumblesAfterTrigger(t *testing.T) {
	sf := NewSuspectFinder(SuspectFinderOptions{Attempts: 2, Window: 60})

	_, ok := sf.Observe(mkFailure(0, "h", "u"))
	if ok {
		t.Fatal("should not trigger before Nth failure")
	}
	_, ok = sf.Observe(mkFailure(5, "h", "u"))
	if !ok {
		t.Fatal("should trigger on 2nd failure")
	}

	// Next failure starts a fresh window; a single failure must not trigger.
	_, ok = sf.Observe(mkFailure(6, "h", "u"))
	if ok {
		t.Fatal("window should have reset after triggering")
	}
}

func TestSuspectFinderPartitionIsolation(t *testing.T) {
	sf := NewSuspectFinder(SuspectFinderOptions{Attempts: 3, Window: 60})

	sf.Observe(mkFailure(0, "A", "u"))
	sf.Observe(mkFailure(1, "B", "u"))
	_, okA := sf.Observe(mkFailure(2, "A", "u"))
	if okA {
		t.Fatal("host A should have only 2 failures so far, should not trigger")
	}
	_, okB := sf.Observe(mkFailure(3, "B", "u"))
	if okB {
		t.Fatal("host B should have only 2 failures so far, should not trigger")
	}
	_, okA2 := sf.Observe(mkFailure(4, "A", "u"))
	if !okA2 {
		t.Fatal("host A should trigger on its 3rd failure regardless of host B's count")
	}
}
