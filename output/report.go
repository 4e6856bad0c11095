package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/mholloway/breakwatch/internal/stream"
	"golang.org/x/term"
)

// defaultTableWidth is used when stdout is not a terminal (piped output,
// CI logs) and term.GetSize cannot report a width.
const defaultTableWidth = 80

// FormatBreakinSummary renders an ASCII box-drawing summary table of the
// collected break-ins, sized to the current terminal width when stdout is
// a TTY.
func FormatBreakinSummary(breakins []stream.Breakin) string {
	headers := []string{"Time", "RHost", "User"}
	widthTime, widthHost, widthUser := len(headers[0]), len(headers[1]), len(headers[2])
	for _, b := range breakins {
		if n := len(b.Time.Format("2006-01-02T15:04:05Z07:00")); n > widthTime {
			widthTime = n
		}
		if len(b.RHost) > widthHost {
			widthHost = len(b.RHost)
		}
		if len(b.User) > widthUser {
			widthUser = len(b.User)
		}
	}

	termWidth := terminalWidth()
	tableWidth := (widthTime + 2) + (widthHost + 2) + (widthUser + 2) + 4
	if tableWidth > termWidth && termWidth > 0 {
		// Shrink only the RHost column (User is typically short; RHost is
		// the one that tends to run long with IPv6 addresses), and only
		// when it stays wider than 8 characters after shrinking.
		shrink := tableWidth - termWidth
		if widthHost > shrink+8 {
			widthHost -= shrink
		}
	}

	top := fmt.Sprintf("┌%s┬%s┬%s┐", strings.Repeat("─", widthTime+2), strings.Repeat("─", widthHost+2), strings.Repeat("─", widthUser+2))
	sep := fmt.Sprintf("├%s┼%s┼%s┤", strings.Repeat("─", widthTime+2), strings.Repeat("─", widthHost+2), strings.Repeat("─", widthUser+2))
	bottom := fmt.Sprintf("└%s┴%s┴%s┘", strings.Repeat("─", widthTime+2), strings.Repeat("─", widthHost+2), strings.Repeat("─", widthUser+2))
	header := fmt.Sprintf("│ %-*s │ %-*s │ %-*s │", widthTime, headers[0], widthHost, headers[1], widthUser, headers[2])

	var sb strings.Builder
	sb.WriteString(top + "\n")
	sb.WriteString(header + "\n")
	sb.WriteString(sep + "\n")
	for _, b := range breakins {
		sb.WriteString(fmt.Sprintf("│ %-*s │ %-*s │ %-*s │\n",
			widthTime, b.Time.Format("2006-01-02T15:04:05Z07:00"),
			widthHost, truncate(b.RHost, widthHost),
			widthUser, b.User,
		))
	}
	sb.WriteString(bottom + "\n")
	sb.WriteString(fmt.Sprintf("%d break-in(s) detected\n", len(breakins)))
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return defaultTableWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTableWidth
	}
	return w
}
