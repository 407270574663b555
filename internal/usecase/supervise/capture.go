package supervise

import "sync"

// captureBuffer is a thread-safe, bounded byte buffer for process output.
// Writes past the cap are counted but not retained, so the pipe drain can
// keep running without unbounded memory growth.
type captureBuffer struct {
	mu      sync.Mutex
	data    []byte
	max     int
	written int64 // total bytes ever written (including dropped)
}

func newCaptureBuffer(maxBytes int) *captureBuffer {
	return &captureBuffer{
		data: make([]byte, 0, min(maxBytes, 4096)),
		max:  maxBytes,
	}
}

// Write implements io.Writer. Thread-safe.
func (cb *captureBuffer) Write(p []byte) (int, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.written += int64(len(p))
	if room := cb.max - len(cb.data); room > 0 {
		if len(p) > room {
			p = p[:room]
		}
		cb.data = append(cb.data, p...)
	}
	return len(p), nil
}

// Bytes returns a copy of the retained content.
func (cb *captureBuffer) Bytes() []byte {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	out := make([]byte, len(cb.data))
	copy(out, cb.data)
	return out
}

// Truncated reports whether output was dropped at the cap.
func (cb *captureBuffer) Truncated() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.written > int64(len(cb.data))
}

// TotalWritten returns the total number of bytes ever written, including
// bytes dropped at the cap.
func (cb *captureBuffer) TotalWritten() int64 {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.written
}
