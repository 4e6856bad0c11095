package parser

import (
	"testing"

	"github.com/mholloway/breakwatch/internal/stream"
)

func TestSuccessParserExtractsUser(t *testing.T) {
	p := NewSuccessParser()
	line := stream.LogLine{Message: "pam_unix(sshd:session): session opened for user alice by (uid=0)"}

	s, err := p.Parse(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.User != "alice" {
		t.Errorf("User = %q, want alice", s.User)
	}
}

func TestSuccessParserRejectsUnrelatedMessage(t *testing.T) {
	p := NewSuccessParser()
	line := stream.LogLine{Message: "Accepted publickey for bob from 1.2.3.4"}

	if _, err := p.Parse(line); err == nil {
		t.Error("expected an error for a message without \"for user\"")
	}
}
