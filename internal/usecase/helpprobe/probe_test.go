package helpprobe

import (
	"context"
	"strings"
	"testing"

	"gucli/internal/domain"
	"gucli/internal/infra/logger"
)

// scriptedExecutor returns canned results per command string and records
// the order of attempts.
type scriptedExecutor struct {
	results  map[string]domain.ExecutionResult
	attempts []string
}

func (e *scriptedExecutor) Run(_ context.Context, def domain.CommandDefinition) domain.ExecutionResult {
	e.attempts = append(e.attempts, def.Command)
	if res, ok := e.results[def.Command]; ok {
		return res
	}
	return domain.ExecutionResult{Outcome: domain.OutcomeCompleted, ExitCode: 1}
}

func completedWith(output string) domain.ExecutionResult {
	return domain.ExecutionResult{Outcome: domain.OutcomeCompleted, Output: []byte(output)}
}

var longHelp = strings.Repeat("usage: tar [options] ", 5)

func TestDiscoverEmpty(t *testing.T) {
	p := New(&scriptedExecutor{}, logger.Discard())
	if got := p.Discover(context.Background(), "   "); got != "" {
		t.Errorf("Discover = %q, want empty", got)
	}
}

func TestDiscoverManFirst(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]domain.ExecutionResult{
		"man -P cat tar": completedWith(longHelp),
	}}
	p := New(exec, logger.Discard())

	got := p.Discover(context.Background(), "tar")
	if !strings.Contains(got, "usage: tar") {
		t.Errorf("Discover = %q", got)
	}
	if len(exec.attempts) != 1 || exec.attempts[0] != "man -P cat tar" {
		t.Errorf("attempts = %v, want man probe only (short-circuit)", exec.attempts)
	}
}

func TestDiscoverFallsBackToHelpFlag(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]domain.ExecutionResult{
		"tar --help": completedWith(longHelp),
	}}
	p := New(exec, logger.Discard())

	if got := p.Discover(context.Background(), "tar"); got == "" {
		t.Fatal("expected fallback candidate output")
	}
	want := []string{"man -P cat tar", "tar --help"}
	if len(exec.attempts) != 2 || exec.attempts[0] != want[0] || exec.attempts[1] != want[1] {
		t.Errorf("attempts = %v, want %v", exec.attempts, want)
	}
}

func TestDiscoverRunsExplicitHelpFlagAsIs(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]domain.ExecutionResult{
		"tar --help -v": completedWith("short"),
	}}
	p := New(exec, logger.Discard())

	got := p.Discover(context.Background(), "tar --help -v")
	if got != "short" {
		t.Errorf("Discover = %q, explicit flag output has no length gate", got)
	}
	if len(exec.attempts) != 1 {
		t.Errorf("attempts = %v, want the text as entered only", exec.attempts)
	}
}

func TestDiscoverRejectsShortOutput(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]domain.ExecutionResult{
		"man -P cat x": completedWith("No manual entry"),
		"x --help":     completedWith("nope"),
	}}
	p := New(exec, logger.Discard())

	if got := p.Discover(context.Background(), "x"); got != "" {
		t.Errorf("Discover = %q, want empty for sub-threshold output", got)
	}
}

func TestDiscoverIgnoresTimeouts(t *testing.T) {
	exec := &scriptedExecutor{results: map[string]domain.ExecutionResult{
		"man -P cat slow": {Outcome: domain.OutcomeTimedOut},
		"slow --help":     {Outcome: domain.OutcomeSpawnFailed, SpawnReason: "gone"},
	}}
	p := New(exec, logger.Discard())

	if got := p.Discover(context.Background(), "slow"); got != "" {
		t.Errorf("Discover = %q, want empty", got)
	}
}
