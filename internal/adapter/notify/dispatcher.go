package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"gucli/internal/infra/tracer"
)

// ErrorTitle prefixes notifications that report application errors (such as
// a failing history log) rather than command results.
const ErrorTitle = "gucli error"

// Breaker and limiter defaults. A dead notification facility degrades to
// log-only delivery instead of spawning a failing subprocess per result.
const (
	defaultMaxFailures uint32 = 3
	defaultOpenTimeout        = 30 * time.Second
	defaultRatePerSec         = 4
	defaultBurst              = 8
)

// Dispatcher applies delivery policy in front of a Notifier backend.
// Delivery failures never propagate to the caller: the command already ran
// and the result is still logged.
type Dispatcher struct {
	backend Notifier
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
}

// DispatcherOption configures optional Dispatcher features.
type DispatcherOption func(*Dispatcher)

// WithRateLimit overrides the notification flood limit.
func WithRateLimit(perSec float64, burst int) DispatcherOption {
	return func(d *Dispatcher) {
		d.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

// NewDispatcher creates a Dispatcher over backend.
func NewDispatcher(backend Notifier, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		backend: backend,
		limiter: rate.NewLimiter(rate.Limit(defaultRatePerSec), defaultBurst),
		logger:  logger,
	}
	d.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "notify:" + backend.Name(),
		MaxRequests: 1, // allow 1 probe in half-open state
		Timeout:     defaultOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= defaultMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("notification breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch delivers body under title according to policy: errors always go
// out, normal results only when the definition opted in. Returns whether a
// delivery was attempted (for the caller's logging).
func (d *Dispatcher) Dispatch(ctx context.Context, title, body string, isError, notify bool) bool {
	if !isError && !notify {
		return false
	}

	ctx, span := tracer.StartSpan(ctx, "notify.dispatch")
	defer span.End()
	span.SetAttributes(
		tracer.StringAttr("title", title),
		tracer.StringAttr("backend", d.backend.Name()),
	)

	if !d.limiter.Allow() {
		d.logger.Warn("notification dropped by rate limit", "title", title)
		return false
	}

	_, err := d.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, d.backend.Send(ctx, Notification{Title: title, Body: body})
	})
	if err != nil {
		// Degraded mode: the result survives in the history log.
		tracer.RecordError(span, err)
		d.logger.Error("notification delivery failed", "title", title, "error", err)
		return true
	}

	tracer.SetOK(span)
	d.logger.Debug("notification delivered", "title", title)
	return true
}

// DispatchError reports an application error (always-on path).
func (d *Dispatcher) DispatchError(ctx context.Context, body string) {
	d.Dispatch(ctx, ErrorTitle, body, true, false)
}
