// Package supervise runs a shell command as a time-bounded subprocess in its
// own process group, capturing combined output incrementally.
//
// Commands run unsandboxed as the invoking user; the trust boundary is the
// user's own config file. Descendants a command explicitly backgrounds (`&`)
// may outlive the group termination and are the user's responsibility.
package supervise

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"go.opentelemetry.io/otel/trace"

	"gucli/internal/domain"
	"gucli/internal/infra/tracer"
)

const (
	// DefaultTimeout is the hard wall-clock budget for one execution.
	DefaultTimeout = 500 * time.Millisecond

	// MaxCaptureBytes bounds how much combined output is retained.
	MaxCaptureBytes = 16 * 1024

	// killGracePeriod is how long the supervisor waits after SIGTERM before
	// escalating to SIGKILL, and again before giving up on Wait.
	killGracePeriod = 100 * time.Millisecond

	// drainGracePeriod is how long to wait for the pipe drain after the
	// process is gone. Backgrounded children may hold the pipe open forever.
	drainGracePeriod = 50 * time.Millisecond
)

// ShellLookup maps a shell variant to an interpreter invocation.
type ShellLookup func(domain.Shell) (name string, args []string)

// Supervisor spawns and reaps supervised executions. Safe for concurrent
// use; each Run is independent.
type Supervisor struct {
	timeout    time.Duration
	maxCapture int
	lookup     ShellLookup
	logger     *slog.Logger
}

// Option configures optional Supervisor features.
type Option func(*Supervisor)

// WithTimeout overrides the default wall-clock timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Supervisor) { s.timeout = d }
}

// WithCaptureLimit overrides the output retention cap.
func WithCaptureLimit(n int) Option {
	return func(s *Supervisor) { s.maxCapture = n }
}

// WithShellLookup overrides interpreter resolution (used by tests).
func WithShellLookup(fn ShellLookup) Option {
	return func(s *Supervisor) { s.lookup = fn }
}

// New creates a Supervisor.
func New(logger *slog.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		timeout:    DefaultTimeout,
		maxCapture: MaxCaptureBytes,
		lookup:     func(sh domain.Shell) (string, []string) { return sh.Invocation() },
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Timeout returns the configured wall-clock budget.
func (s *Supervisor) Timeout() time.Duration { return s.timeout }

// Run executes the definition's command under the configured timeout and
// returns the outcome. It never returns an error: failures are encoded in
// the result's Outcome so callers treat every ending uniformly.
func (s *Supervisor) Run(ctx context.Context, def domain.CommandDefinition) domain.ExecutionResult {
	ctx, span := tracer.StartSpan(ctx, "supervise.run")
	defer span.End()
	span.SetAttributes(
		tracer.StringAttr("command", def.Command),
		tracer.StringAttr("shell", string(def.Shell)),
	)

	start := time.Now()
	res := domain.ExecutionResult{Command: def.Command, OutputFull: true}

	name, args := s.lookup(def.Shell)
	cmd := exec.Command(name, append(args, def.Command)...)
	setProcessGroup(cmd)

	// A real pipe (not exec's internal copier) so Wait returns on process
	// exit even when backgrounded children still hold the write end.
	pr, pw, err := os.Pipe()
	if err != nil {
		return s.spawnFailed(span, res, start, err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return s.spawnFailed(span, res, start, err)
	}
	pw.Close() // child keeps its own copy

	buf := newCaptureBuffer(s.maxCapture)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		defer pr.Close()
		io.Copy(buf, pr) //nolint:errcheck // partial output is still output
	}()

	waitDone := make(chan error, 1)
	go func() { waitDone <- cmd.Wait() }()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case err := <-waitDone:
		res.Outcome = domain.OutcomeCompleted
		res.ExitCode = exitCode(err)
		tracer.SetOK(span)
	case <-timer.C:
		s.reapGroup(cmd, waitDone)
		res.Outcome = domain.OutcomeTimedOut
		tracer.RecordError(span, domain.ErrTimeout)
	case <-ctx.Done():
		// Shutdown: terminate best-effort, report as a timeout.
		s.reapGroup(cmd, waitDone)
		res.Outcome = domain.OutcomeTimedOut
		tracer.RecordError(span, ctx.Err())
	}

	// Give the drain goroutine a moment to pick up buffered output.
	select {
	case <-readerDone:
	case <-time.After(drainGracePeriod):
	}

	res.Output = buf.Bytes()
	res.OutputFull = !buf.Truncated()
	res.Duration = time.Since(start)

	s.logger.Debug("supervised run finished",
		"command", def.Command,
		"outcome", res.Outcome,
		"exit_code", res.ExitCode,
		"duration", res.Duration,
		"output_bytes", len(res.Output),
	)
	return res
}

// reapGroup terminates the whole process group: SIGTERM, a short grace,
// then SIGKILL. It returns once the process is reaped or the grace periods
// are exhausted.
func (s *Supervisor) reapGroup(cmd *exec.Cmd, waitDone <-chan error) {
	if err := terminateGroup(cmd.Process); err != nil {
		s.logger.Debug("terminate process group", "error", err)
	}
	select {
	case <-waitDone:
		return
	case <-time.After(killGracePeriod):
	}
	if err := killGroup(cmd.Process); err != nil {
		s.logger.Debug("kill process group", "error", err)
	}
	select {
	case <-waitDone:
	case <-time.After(killGracePeriod):
		// Reaping is best-effort; the wait goroutine finishes on its own.
	}
}

func (s *Supervisor) spawnFailed(span trace.Span, res domain.ExecutionResult, start time.Time, err error) domain.ExecutionResult {
	res.Outcome = domain.OutcomeSpawnFailed
	res.SpawnReason = err.Error()
	res.Duration = time.Since(start)
	tracer.RecordError(span, domain.NewDomainError("Supervisor.Run", domain.ErrSpawnFailed, err.Error()))
	s.logger.Warn("spawn failed", "command", res.Command, "error", err)
	return res
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
