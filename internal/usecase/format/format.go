// Package format normalizes raw execution output into a single notification
// line. Format is pure: the same result always yields the same string.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"gucli/internal/domain"
)

const (
	// MaxBodyRunes is the notification body budget in Unicode scalar values.
	MaxBodyRunes = 200

	// lineSeparator replaces embedded line breaks so multi-line output fits
	// a one-line notification body.
	lineSeparator = " ⏎ "

	// truncationMarker terminates a body that was cut to fit the budget.
	truncationMarker = "…"

	timedOutMarker = "command timed out after 500ms"
	emptyOutput    = "(no output)"
)

// ansiEscape matches CSI and two-byte escape sequences. Commands routinely
// emit color codes that have no place in a notification body.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b[@-Z\\-_]`)

// Formatted is the display form of an execution result. Truncated is
// log-only information; the notification contract does not distinguish it.
type Formatted struct {
	Body      string
	Truncated bool
}

// Format renders res as a single line of at most MaxBodyRunes scalar values.
func Format(res domain.ExecutionResult) Formatted {
	switch res.Outcome {
	case domain.OutcomeTimedOut:
		body := timedOutMarker
		if partial := collapse(res.Output); partial != "" {
			body += lineSeparator + partial
		}
		return truncate(body)
	case domain.OutcomeSpawnFailed:
		return truncate(fmt.Sprintf("failed to start: %s", res.SpawnReason))
	default:
		body := collapse(res.Output)
		if body == "" {
			body = emptyOutput
		}
		return truncate(body)
	}
}

// Summary renders the history-log form of a result: the formatted body plus
// the log-only detail the notification drops (exit status, truncation).
func Summary(res domain.ExecutionResult, f Formatted) string {
	s := f.Body
	if res.Outcome == domain.OutcomeCompleted && res.ExitCode != 0 {
		s = fmt.Sprintf("exit %d: %s", res.ExitCode, s)
	}
	if f.Truncated {
		s += " [truncated]"
	}
	return s
}

// StripANSI removes terminal escape sequences from raw output. Exposed for
// collaborators that show multi-line output (e.g. the help probe).
func StripANSI(raw []byte) string {
	return ansiEscape.ReplaceAllString(string(raw), "")
}

// collapse strips ANSI escapes and folds line breaks into the visible
// separator.
func collapse(raw []byte) string {
	s := StripANSI(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, lineSeparator)
}

// truncate enforces the rune budget, leaving room for the marker.
func truncate(body string) Formatted {
	runes := []rune(body)
	if len(runes) <= MaxBodyRunes {
		return Formatted{Body: body}
	}
	cut := MaxBodyRunes - len([]rune(truncationMarker))
	return Formatted{
		Body:      string(runes[:cut]) + truncationMarker,
		Truncated: true,
	}
}
