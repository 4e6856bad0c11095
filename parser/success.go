package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mholloway/breakwatch/internal/stream"
)

// ErrMalformedSuccess is returned when a line classified as an SSH
// successful-login record does not contain "for user". A message that
// contains "for user" with no name after it parses to an empty User instead.
var ErrMalformedSuccess = errors.New("parser: malformed success message")

const sessionOpenedForUser = "for user"

// SuccessParser extracts the username from a LogLine already classified as
// an SSH successful-login record, e.g.
//
//	session opened for user root by (uid=0)
type SuccessParser struct{}

// NewSuccessParser constructs a SuccessParser.
func NewSuccessParser() *SuccessParser { return &SuccessParser{} }

// Parse implements stream.ParseFuncs.Success.
func (p *SuccessParser) Parse(line stream.LogLine) (stream.Success, error) {
	idx := strings.Index(line.Message, sessionOpenedForUser)
	if idx == -1 {
		return stream.Success{}, fmt.Errorf("%w: %q", ErrMalformedSuccess, line.Message)
	}
	rest := strings.TrimSpace(line.Message[idx+len(sessionOpenedForUser):])
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return stream.Success{Time: line.Time}, nil
	}
	return stream.Success{Time: line.Time, User: fields[0]}, nil
}
