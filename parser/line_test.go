package parser

import (
	"testing"
	"time"
)

func TestLineParserParse(t *testing.T) {
	p := NewLineParser(2024)

	line, err := p.Parse("Jan 10 10:23:45 host sshd[1234]: pam_unix(sshd:auth): authentication failure; rhost=1.2.3.4 user=root")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2024, time.January, 10, 10, 23, 45, 0, time.UTC)
	if !line.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", line.Time, want)
	}
	if line.Hostname != "host" {
		t.Errorf("Hostname = %q, want host", line.Hostname)
	}
	if line.Service != "sshd[1234]" {
		t.Errorf("Service = %q, want sshd[1234]", line.Service)
	}
	if line.Message != "pam_unix(sshd:auth): authentication failure; rhost=1.2.3.4 user=root" {
		t.Errorf("Message = %q", line.Message)
	}
}

func TestLineParserRejectsMalformedLine(t *testing.T) {
	p := NewLineParser(2024)

	cases := []string{
		"",
		"too few fields",
		"Xyz 10 10:23:45 host sshd message",  // unknown month
		"Jan 10 not-a-time host sshd message", // bad time
	}
	for _, c := range cases {
		if _, err := p.Parse(c); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", c)
		}
	}
}
