package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"gucli/internal/infra/logger"
)

// recordingNotifier captures sends and can be made to fail.
type recordingNotifier struct {
	mu    sync.Mutex
	sent  []Notification
	fail  bool
	calls int
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Send(_ context.Context, notif Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.fail {
		return fmt.Errorf("facility unavailable")
	}
	n.sent = append(n.sent, notif)
	return nil
}

func (n *recordingNotifier) Sent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := make([]Notification, len(n.sent))
	copy(cp, n.sent)
	return cp
}

func TestDispatchHonorsNotifyFlag(t *testing.T) {
	backend := &recordingNotifier{}
	d := NewDispatcher(backend, logger.Discard())

	if d.Dispatch(context.Background(), "uptime", "up 3 days", false, false) {
		t.Error("opted-out normal result must not be delivered")
	}
	if !d.Dispatch(context.Background(), "uptime", "up 3 days", false, true) {
		t.Error("opted-in normal result must be delivered")
	}
	if got := len(backend.Sent()); got != 1 {
		t.Errorf("sent %d notifications, want 1", got)
	}
}

func TestDispatchErrorOverridesOptOut(t *testing.T) {
	backend := &recordingNotifier{}
	d := NewDispatcher(backend, logger.Discard())

	if !d.Dispatch(context.Background(), "sleep 2", "command timed out after 500ms", true, false) {
		t.Error("error results must be delivered regardless of notify")
	}
	sent := backend.Sent()
	if len(sent) != 1 || sent[0].Title != "sleep 2" {
		t.Errorf("sent = %v", sent)
	}
}

func TestDispatchSwallowsDeliveryFailure(t *testing.T) {
	backend := &recordingNotifier{fail: true}
	d := NewDispatcher(backend, logger.Discard())

	// Must not panic or propagate; attempted delivery still reported.
	if !d.Dispatch(context.Background(), "echo", "hello", false, true) {
		t.Error("attempted delivery should be reported even on failure")
	}
}

func TestDispatchBreakerOpensAfterRepeatedFailures(t *testing.T) {
	backend := &recordingNotifier{fail: true}
	d := NewDispatcher(backend, logger.Discard(), WithRateLimit(1000, 1000))

	for i := 0; i < 10; i++ {
		d.Dispatch(context.Background(), "echo", "hello", false, true)
	}

	backend.mu.Lock()
	calls := backend.calls
	backend.mu.Unlock()
	if calls >= 10 {
		t.Errorf("backend called %d times; breaker should have opened after %d consecutive failures", calls, defaultMaxFailures)
	}
}

func TestDispatchRateLimit(t *testing.T) {
	backend := &recordingNotifier{}
	d := NewDispatcher(backend, logger.Discard(), WithRateLimit(0.0001, 2))

	delivered := 0
	for i := 0; i < 10; i++ {
		if d.Dispatch(context.Background(), "echo", "hello", false, true) {
			delivered++
		}
	}
	if delivered != 2 {
		t.Errorf("delivered %d, want burst of 2", delivered)
	}
}

func TestDispatchError(t *testing.T) {
	backend := &recordingNotifier{}
	d := NewDispatcher(backend, logger.Discard())

	d.DispatchError(context.Background(), "history log write failed")

	sent := backend.Sent()
	if len(sent) != 1 || sent[0].Title != ErrorTitle {
		t.Errorf("sent = %v, want one %q notification", sent, ErrorTitle)
	}
}
