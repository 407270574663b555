// Package runner wires one menu invocation end to end: supervised run,
// formatting, then notification dispatch and history append in parallel.
package runner

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"gucli/internal/domain"
	"gucli/internal/infra/tracer"
	"gucli/internal/usecase/format"
)

// Executor runs one supervised, time-bounded execution.
type Executor interface {
	Run(ctx context.Context, def domain.CommandDefinition) domain.ExecutionResult
}

// Dispatcher delivers formatted results per the notification policy.
type Dispatcher interface {
	Dispatch(ctx context.Context, title, body string, isError, notify bool) bool
	DispatchError(ctx context.Context, body string)
}

// HistoryAppender records one log entry.
type HistoryAppender interface {
	Append(entry domain.LogEntry) error
}

// Report is everything one invocation produced.
type Report struct {
	Result    domain.ExecutionResult
	Formatted format.Formatted
	Summary   string
	Notified  bool
}

// Runner orchestrates invocations. Distinct commands run concurrently and
// independently; only the history appender serializes internally.
type Runner struct {
	exec       Executor
	dispatcher Dispatcher
	history    HistoryAppender
	logger     *slog.Logger
}

// New creates a Runner.
func New(exec Executor, dispatcher Dispatcher, history HistoryAppender, logger *slog.Logger) *Runner {
	return &Runner{exec: exec, dispatcher: dispatcher, history: history, logger: logger}
}

// Invoke runs def to completion and fans the result out. It never returns
// an error: every ending is encoded in the report, and feedback failures
// (notification, logging) are swallowed after one error report.
func (r *Runner) Invoke(ctx context.Context, def domain.CommandDefinition) Report {
	ctx, span := tracer.StartSpan(ctx, "runner.invoke")
	defer span.End()

	id := newID()
	span.SetAttributes(
		tracer.StringAttr("invocation_id", id),
		tracer.StringAttr("command", def.Command),
	)

	res := r.exec.Run(ctx, def)
	res.ID = id

	f := format.Format(res)
	summary := format.Summary(res, f)

	var (
		wg       sync.WaitGroup
		notified bool
		logErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		notified = r.dispatcher.Dispatch(ctx, def.Command, f.Body, res.IsError(), def.Notify)
	}()
	go func() {
		defer wg.Done()
		logErr = r.history.Append(domain.LogEntry{
			Timestamp: time.Now(),
			Command:   def.Command,
			Summary:   summary,
		})
	}()
	wg.Wait()

	if logErr != nil {
		// Logging is best-effort: report once, never abort the invocation.
		r.logger.Error("history append failed", "invocation_id", id, "error", logErr)
		r.dispatcher.DispatchError(ctx, logErr.Error())
	}

	r.logger.Info("command invoked",
		"invocation_id", id,
		"command", def.Command,
		"outcome", res.Outcome,
		"exit_code", res.ExitCode,
		"duration", res.Duration,
		"notified", notified,
	)
	switch res.Outcome {
	case domain.OutcomeTimedOut:
		tracer.RecordError(span, domain.ErrTimeout)
	case domain.OutcomeSpawnFailed:
		tracer.RecordError(span, domain.NewDomainError("Runner.Invoke", domain.ErrSpawnFailed, res.SpawnReason))
	default:
		tracer.SetOK(span)
	}

	return Report{Result: res, Formatted: f, Summary: summary, Notified: notified}
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// newID returns a ULID; the monotonic reader keeps concurrent invocations
// within the same millisecond distinct.
func newID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}
