package stream

import "testing"

func TestIsFailureLine(t *testing.T) {
	cases := []struct {
		name string
		line LogLine
		want bool
	}{
		{"match", LogLine{Service: "sshd", Message: "pam_unix(sshd:auth): authentication failure; rhost=1.2.3.4"}, true},
		{"wrong service", LogLine{Service: "cron", Message: "authentication failure"}, false},
		{"wrong message", LogLine{Service: "sshd", Message: "session opened for user root"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsFailureLine(c.line); got != c.want {
				t.Errorf("IsFailureLine(%+v) = %v, want %v", c.line, got, c.want)
			}
		})
	}
}

func TestIsSuccessLine(t *testing.T) {
	line := LogLine{Service: "sshd", Message: "session opened for user alice by (uid=0)"}
	if !IsSuccessLine(line) {
		t.Errorf("expected success line to match")
	}
	if IsFailureLine(line) {
		t.Errorf("success line should not also match failure predicate")
	}
}

func TestClassifyDiscardsUnmatchedLines(t *testing.T) {
	in := make(chan LogLine, 4)
	in <- LogLine{Service: "sshd", Message: "authentication failure; user=bob"}
	in <- LogLine{Service: "sshd", Message: "session opened for user bob by (uid=0)"}
	in <- LogLine{Service: "cron", Message: "something unrelated"}
	close(in)

	failures := make(chan LogLine, 4)
	successes := make(chan LogLine, 4)
	Classify(in, failures, successes)

	var gotFailures, gotSuccesses int
	for range failures {
		gotFailures++
	}
	for range successes {
		gotSuccesses++
	}
	if gotFailures != 1 || gotSuccesses != 1 {
		t.Fatalf("got %d failures, %d successes; want 1, 1", gotFailures, gotSuccesses)
	}
}
