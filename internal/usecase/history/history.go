// Package history maintains the bounded, newest-first execution log.
//
// The log file is plain text, one record per line:
//
//	2006-01-02 15:04:05 | <command> | <summary>
//
// The file never holds more than MaxEntries records; appends evict the
// oldest. All writers serialize on a single mutex and replace the file
// atomically (write-to-temp, rename) so a crash can never leave a
// half-written log behind.
package history

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gucli/internal/domain"
)

// MaxEntries caps the log length.
const MaxEntries = 100

const (
	timeLayout = "2006-01-02 15:04:05"
	fieldSep   = " | "
)

// Writer appends to and reads the bounded log file.
type Writer struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer for the log at path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Path returns the log file location.
func (w *Writer) Path() string { return w.path }

// Append prepends entry and rewrites the log, evicting beyond MaxEntries.
// The returned error is for the caller's best-effort reporting; the entry's
// command has already run and nothing is retried.
func (w *Writer) Append(entry domain.LogEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	lines, err := w.readLines()
	if err != nil {
		return domain.NewDomainError("Writer.Append", domain.ErrHistoryWrite, err.Error())
	}

	record := entry.Timestamp.Format(timeLayout) + fieldSep +
		sanitize(entry.Command) + fieldSep + sanitize(entry.Summary)
	lines = append([]string{record}, lines...)
	if len(lines) > MaxEntries {
		lines = lines[:MaxEntries]
	}

	if err := w.writeAtomic(lines); err != nil {
		return domain.NewDomainError("Writer.Append", domain.ErrHistoryWrite, err.Error())
	}
	return nil
}

// Entries parses the current log, newest first. Parsing is best-effort:
// lines that do not match the record shape are skipped.
func (w *Writer) Entries() ([]domain.LogEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	lines, err := w.readLines()
	if err != nil {
		return nil, domain.WrapOp("Writer.Entries", err)
	}

	entries := make([]domain.LogEntry, 0, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(line, fieldSep, 3)
		if len(parts) != 3 {
			continue
		}
		ts, err := time.ParseInLocation(timeLayout, parts[0], time.Local)
		if err != nil {
			continue
		}
		entries = append(entries, domain.LogEntry{
			Timestamp: ts,
			Command:   parts[1],
			Summary:   parts[2],
		})
	}
	return entries, nil
}

// Len returns the current number of records.
func (w *Writer) Len() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	lines, err := w.readLines()
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

func (w *Writer) readLines() ([]string, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	content := strings.TrimRight(string(data), "\n")
	if content == "" {
		return nil, nil
	}
	return strings.Split(content, "\n"), nil
}

func (w *Writer) writeAtomic(lines []string) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".gucli-log-*")
	if err != nil {
		return fmt.Errorf("create temp log: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after successful rename

	if _, err := tmp.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp log: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace log: %w", err)
	}
	return nil
}

// sanitize keeps each record on one physical line.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
