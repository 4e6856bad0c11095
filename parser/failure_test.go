package parser

import (
	"testing"

	"github.com/mholloway/breakwatch/internal/stream"
)

func TestFailureParserExtractsFields(t *testing.T) {
	p := NewFailureParser()
	line := stream.LogLine{
		Message: "pam_unix(sshd:auth): authentication failure; logname= uid=0 euid=0 tty=ssh ruser= rhost=203.0.113.9 user=root",
	}

	f, err := p.Parse(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.UID != "0" || f.EUID != "0" || f.TTY != "ssh" || f.RHost != "203.0.113.9" || f.User != "root" {
		t.Errorf("unexpected failure: %+v", f)
	}
}

func TestFailureParserAllowsEmptyUser(t *testing.T) {
	p := NewFailureParser()
	line := stream.LogLine{
		Message: "pam_unix(sshd:auth): authentication failure; logname= uid=0 euid=0 tty=ssh ruser= rhost=203.0.113.9",
	}

	f, err := p.Parse(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.User != "" {
		t.Errorf("User = %q, want empty sentinel", f.User)
	}
	if f.RHost != "203.0.113.9" {
		t.Errorf("RHost = %q", f.RHost)
	}
}
