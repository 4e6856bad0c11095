// Package parser implements the line-grammar and source-collaborator layer
// breakwatch's streaming core treats as an external, swappable dependency:
// file opening, compression, tokenisation and timestamp arithmetic.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mholloway/breakwatch/internal/stream"
)

// ErrMalformedLine is returned when a raw line does not carry the minimum
// positional tokens the syslog grammar requires.
var ErrMalformedLine = errors.New("parser: malformed syslog line")

var monthAbbrev = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// LineParser parses raw syslog lines into stream.LogLine, positionally
// tokenising fields [0]=month-abbrev, [1]=day, [2]=time-of-day, [3]=hostname,
// [4]=service, [5:]=message. Year is supplied externally since the grammar
// itself carries none.
type LineParser struct {
	Year int
}

// NewLineParser constructs a LineParser that stamps every parsed line with
// the given year.
func NewLineParser(year int) *LineParser {
	return &LineParser{Year: year}
}

// Parse implements stream.ParseFuncs.Line.
func (p *LineParser) Parse(raw string) (stream.LogLine, error) {
	fields := strings.Fields(raw)
	if len(fields) < 5 {
		return stream.LogLine{}, fmt.Errorf("%w: got %d fields, want >= 5: %q", ErrMalformedLine, len(fields), raw)
	}

	month, ok := monthAbbrev[fields[0]]
	if !ok {
		return stream.LogLine{}, fmt.Errorf("%w: unrecognized month %q", ErrMalformedLine, fields[0])
	}

	var day int
	if _, err := fmt.Sscanf(fields[1], "%d", &day); err != nil {
		return stream.LogLine{}, fmt.Errorf("%w: bad day %q: %v", ErrMalformedLine, fields[1], err)
	}

	clock, err := time.Parse("15:04:05", fields[2])
	if err != nil {
		return stream.LogLine{}, fmt.Errorf("%w: bad time-of-day %q: %v", ErrMalformedLine, fields[2], err)
	}

	t := time.Date(p.Year, month, day, clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)

	// service sometimes carries a trailing "[pid]:" suffix (e.g. "sshd[1234]:");
	// the classifier only ever substring-matches on it, so only the trailing
	// colon is trimmed and the "[pid]" part is kept.
	service := strings.TrimSuffix(fields[4], ":")

	return stream.LogLine{
		Time:     t,
		Hostname: fields[3],
		Service:  service,
		Message:  strings.Join(fields[5:], " "),
	}, nil
}
