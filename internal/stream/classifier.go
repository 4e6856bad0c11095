package stream

import "strings"

// sshdService and the two message substrings the classifier matches on.
// Matching is a literal substring check, not a regex, so the cheap checks
// run first.
const (
	sshdService         = "sshd"
	authFailureMarker   = "authentication failure"
	sessionOpenedMarker = "session opened for user"
)

// IsFailureLine reports whether line is an SSH authentication-failure
// record: its service contains "sshd" and its message contains
// "authentication failure".
func IsFailureLine(line LogLine) bool {
	return strings.Contains(line.Service, sshdService) && strings.Contains(line.Message, authFailureMarker)
}

// IsSuccessLine reports whether line is an SSH successful-login record: its
// service contains "sshd" and its message contains "session opened for
// user".
func IsSuccessLine(line LogLine) bool {
	return strings.Contains(line.Service, sshdService) && strings.Contains(line.Message, sessionOpenedMarker)
}

// Classify reads merged from the merged log stream and routes each line to
// failures or successes according to IsFailureLine/IsSuccessLine. A line
// matching neither predicate is discarded. Both output channels are closed
// once merged is exhausted.
func Classify(merged <-chan LogLine, failures chan<- LogLine, successes chan<- LogLine) {
	defer close(failures)
	defer close(successes)

	for line := range merged {
		switch {
		case IsFailureLine(line):
			failures <- line
		case IsSuccessLine(line):
			successes <- line
		}
	}
}
