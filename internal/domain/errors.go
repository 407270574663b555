package domain

import "fmt"

// Category sentinels shared across subsystems.
var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrTimeout      = fmt.Errorf("operation timed out")
	ErrInvalidInput = fmt.Errorf("invalid input")
)

// Sentinel errors for the command pipeline.
var (
	ErrEmptyCommand      = fmt.Errorf("command string is empty")
	ErrDuplicateCommand  = fmt.Errorf("duplicate command string")
	ErrInvalidShell      = fmt.Errorf("unknown shell variant")
	ErrIconTooLong       = fmt.Errorf("icon exceeds %d characters", MaxIconRunes)
	ErrSpawnFailed       = fmt.Errorf("failed to spawn process")
	ErrNotifyUnavailable = fmt.Errorf("notification facility unavailable")
	ErrHistoryWrite      = fmt.Errorf("history log write failed")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "Supervisor.Run")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
