// Package helpprobe opportunistically discovers usage text for a command.
// Results are advisory only: the settings UI shows whatever turns up.
package helpprobe

import (
	"context"
	"log/slog"
	"strings"

	"gucli/internal/domain"
	"gucli/internal/usecase/format"
)

// minHelpLength filters out terse error output masquerading as help text.
const minHelpLength = 50

// helpFlags mark a command text that should be probed exactly as entered.
var helpFlags = []string{
	" --longhelp ", " --help-all ", " --help ", " help ", " -? ",
	"man ", " info ", " --usage ", " -help ",
}

// Executor runs one supervised, time-bounded execution.
type Executor interface {
	Run(ctx context.Context, def domain.CommandDefinition) domain.ExecutionResult
}

// Probe tries a short, ordered, short-circuiting sequence of candidate
// invocations through the same execution primitive as regular commands.
type Probe struct {
	exec   Executor
	logger *slog.Logger
}

// New creates a Probe on top of exec.
func New(exec Executor, logger *slog.Logger) *Probe {
	return &Probe{exec: exec, logger: logger}
}

// Discover returns the first candidate's output that looks like usage text,
// or "" when nothing qualifies.
func (p *Probe) Discover(ctx context.Context, commandText string) string {
	commandText = strings.TrimSpace(commandText)
	if commandText == "" {
		return ""
	}

	if hasHelpFlag(commandText) {
		if out := p.attempt(ctx, commandText, 1); out != "" {
			return out
		}
		return ""
	}

	candidates := []string{
		"man -P cat " + commandText,
		commandText + " --help",
	}
	for _, candidate := range candidates {
		if out := p.attempt(ctx, candidate, minHelpLength); out != "" {
			return out
		}
	}
	return ""
}

// attempt runs one candidate and returns its cleaned output when it
// completed with at least minLen bytes.
func (p *Probe) attempt(ctx context.Context, candidate string, minLen int) string {
	res := p.exec.Run(ctx, domain.CommandDefinition{Command: candidate})
	if res.Outcome != domain.OutcomeCompleted || res.ExitCode != 0 {
		p.logger.Debug("help candidate failed", "candidate", candidate, "outcome", res.Outcome, "exit_code", res.ExitCode)
		return ""
	}
	out := strings.TrimSpace(format.StripANSI(res.Output))
	if len(out) < minLen {
		return ""
	}
	return out
}

func hasHelpFlag(commandText string) bool {
	padded := " " + commandText + " "
	for _, flag := range helpFlags {
		if strings.Contains(padded, flag) {
			return true
		}
	}
	return false
}
