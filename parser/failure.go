package parser

import (
	"strings"

	"github.com/mholloway/breakwatch/internal/stream"
)

// failureFieldPrefixes maps the key=value field markers sshd's
// "authentication failure" message carries to the stream.Failure field they
// populate. Prefixes are checked in order against each whitespace-delimited
// token of the message tail, matching the source grammar's layout:
//
//	authentication failure; logname= uid=0 euid=0 tty=ssh ruser= rhost=1.2.3.4 user=root
var failureFieldPrefixes = []string{"uid=", "euid=", "tty=", "rhost=", "user="}

// FailureParser extracts uid, euid, tty, rhost and user from a LogLine
// already classified as an SSH authentication-failure record. The user
// field may legitimately be empty; that is a sentinel that disables
// matching downstream, not a parse error.
type FailureParser struct{}

// NewFailureParser constructs a FailureParser.
func NewFailureParser() *FailureParser { return &FailureParser{} }

// Parse implements stream.ParseFuncs.Failure.
func (p *FailureParser) Parse(line stream.LogLine) (stream.Failure, error) {
	f := stream.Failure{Time: line.Time}
	for _, tok := range strings.Fields(line.Message) {
		for _, prefix := range failureFieldPrefixes {
			if !strings.HasPrefix(tok, prefix) {
				continue
			}
			value := strings.TrimPrefix(tok, prefix)
			switch prefix {
			case "uid=":
				f.UID = value
			case "euid=":
				f.EUID = value
			case "tty=":
				f.TTY = value
			case "rhost=":
				f.RHost = value
			case "user=":
				f.User = value
			}
		}
	}
	return f, nil
}
