package domain

import "time"

// Outcome classifies how a supervised execution ended.
type Outcome string

const (
	// OutcomeCompleted means the process exited on its own, with any exit code.
	// A non-zero exit is still OutcomeCompleted, not an error outcome.
	OutcomeCompleted Outcome = "completed"
	// OutcomeTimedOut means the wall-clock timeout fired and the process
	// group was terminated.
	OutcomeTimedOut Outcome = "timed_out"
	// OutcomeSpawnFailed means the interpreter could not be started at all.
	OutcomeSpawnFailed Outcome = "spawn_failed"
)

// ExecutionResult is the outcome of one supervised run. It is consumed by
// the formatter and the history writer and never persisted as-is.
type ExecutionResult struct {
	ID          string // ULID assigned per invocation
	Command     string // echo of the definition's command string
	Outcome     Outcome
	ExitCode    int    // meaningful only for OutcomeCompleted
	SpawnReason string // meaningful only for OutcomeSpawnFailed
	Output      []byte // combined stdout+stderr, possibly partial, capped
	OutputFull  bool   // false when the capture cap cut the stream short
	Duration    time.Duration
}

// IsError reports whether the result must be notified regardless of the
// definition's notify flag.
func (r ExecutionResult) IsError() bool {
	return r.Outcome == OutcomeTimedOut || r.Outcome == OutcomeSpawnFailed
}

// LogEntry is one immutable record in the bounded history log.
type LogEntry struct {
	Timestamp time.Time
	Command   string
	Summary   string
}
