package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gucli/internal/domain"
	"gucli/internal/infra/logger"
)

type fakeExecutor struct {
	result domain.ExecutionResult
}

func (e *fakeExecutor) Run(_ context.Context, def domain.CommandDefinition) domain.ExecutionResult {
	res := e.result
	res.Command = def.Command
	return res
}

type dispatchCall struct {
	title   string
	body    string
	isError bool
	notify  bool
}

type fakeDispatcher struct {
	mu     sync.Mutex
	calls  []dispatchCall
	errors []string
}

func (d *fakeDispatcher) Dispatch(_ context.Context, title, body string, isError, notify bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dispatchCall{title, body, isError, notify})
	return isError || notify
}

func (d *fakeDispatcher) DispatchError(_ context.Context, body string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors = append(d.errors, body)
}

type fakeHistory struct {
	mu      sync.Mutex
	entries []domain.LogEntry
	err     error
}

func (h *fakeHistory) Append(entry domain.LogEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, entry)
	return nil
}

func newTestRunner(res domain.ExecutionResult) (*Runner, *fakeDispatcher, *fakeHistory) {
	d := &fakeDispatcher{}
	h := &fakeHistory{}
	r := New(&fakeExecutor{result: res}, d, h, logger.Discard())
	return r, d, h
}

func TestInvokeCompletedNotifies(t *testing.T) {
	r, d, h := newTestRunner(domain.ExecutionResult{
		Outcome: domain.OutcomeCompleted,
		Output:  []byte("hello\n"),
	})

	report := r.Invoke(context.Background(), domain.CommandDefinition{Command: "echo hello", Notify: true})

	if report.Formatted.Body != "hello" {
		t.Errorf("body = %q, want hello", report.Formatted.Body)
	}
	if !report.Notified {
		t.Error("opted-in completion should notify")
	}
	if report.Result.ID == "" {
		t.Error("invocation should carry a ULID")
	}
	if len(d.calls) != 1 || d.calls[0].title != "echo hello" {
		t.Errorf("dispatch calls = %v", d.calls)
	}
	if len(h.entries) != 1 || h.entries[0].Summary != "hello" {
		t.Errorf("history entries = %v", h.entries)
	}
}

func TestInvokeTimedOutAlwaysNotifies(t *testing.T) {
	r, d, h := newTestRunner(domain.ExecutionResult{
		Outcome:  domain.OutcomeTimedOut,
		Duration: 500 * time.Millisecond,
	})

	report := r.Invoke(context.Background(), domain.CommandDefinition{Command: "sleep 2", Notify: false})

	if !report.Notified {
		t.Error("timeout must notify even when notify=false")
	}
	if len(d.calls) != 1 || !d.calls[0].isError {
		t.Errorf("dispatch calls = %v, want one error dispatch", d.calls)
	}
	if len(h.entries) != 1 || !strings.Contains(h.entries[0].Summary, "timed out") {
		t.Errorf("history entries = %v, want timeout summary", h.entries)
	}
}

func TestInvokeSpawnFailed(t *testing.T) {
	r, d, _ := newTestRunner(domain.ExecutionResult{
		Outcome:     domain.OutcomeSpawnFailed,
		SpawnReason: "no such file",
	})

	r.Invoke(context.Background(), domain.CommandDefinition{Command: "broken", Notify: false})

	if len(d.calls) != 1 || !d.calls[0].isError {
		t.Errorf("dispatch calls = %v", d.calls)
	}
	if !strings.HasPrefix(d.calls[0].body, "failed to start: ") {
		t.Errorf("body = %q", d.calls[0].body)
	}
}

func TestInvokeOptedOutCompletionStillLogged(t *testing.T) {
	r, d, h := newTestRunner(domain.ExecutionResult{Outcome: domain.OutcomeCompleted})

	report := r.Invoke(context.Background(), domain.CommandDefinition{Command: "quiet", Notify: false})

	if report.Notified {
		t.Error("opted-out completion must not notify")
	}
	_ = d
	if len(h.entries) != 1 {
		t.Error("every invocation is logged regardless of notify")
	}
}

func TestInvokeHistoryFailureIsReportedNotPropagated(t *testing.T) {
	r, d, h := newTestRunner(domain.ExecutionResult{Outcome: domain.OutcomeCompleted})
	h.err = fmt.Errorf("disk full")

	report := r.Invoke(context.Background(), domain.CommandDefinition{Command: "echo", Notify: true})

	if report.Result.Outcome != domain.OutcomeCompleted {
		t.Error("logging failure must not change the invocation outcome")
	}
	if len(d.errors) != 1 || !strings.Contains(d.errors[0], "disk full") {
		t.Errorf("error dispatches = %v, want one disk-full report", d.errors)
	}
}

func TestInvokeConcurrentIDsUnique(t *testing.T) {
	r, _, _ := newTestRunner(domain.ExecutionResult{Outcome: domain.OutcomeCompleted})

	var mu sync.Mutex
	ids := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report := r.Invoke(context.Background(), domain.CommandDefinition{Command: "echo", Notify: false})
			mu.Lock()
			ids[report.Result.ID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(ids) != 16 {
		t.Errorf("got %d unique IDs, want 16", len(ids))
	}
}
