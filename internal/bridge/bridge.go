// Package bridge hands a validated server address over to the editor's
// scripting host. The host signals readiness exactly once per process;
// before that signal, handoff is refused rather than queued.
package bridge

import (
	"context"
	"log/slog"
	"sync"

	"github.com/catdvtools/connect/internal/domain"
)

// Bridge is the host's exposed API surface. LoadPanel starts the main
// application panel for the given catalog server URL; its result is not
// consumed by the setup flow.
type Bridge interface {
	LoadPanel(ctx context.Context, url string) error
}

// Readiness is a one-shot signal. Signal may be called any number of times;
// only the first has an effect.
type Readiness struct {
	once sync.Once
	ch   chan struct{}
}

// NewReadiness creates an unsignalled Readiness.
func NewReadiness() *Readiness {
	return &Readiness{ch: make(chan struct{})}
}

// Signal marks the host as ready.
func (r *Readiness) Signal() {
	r.once.Do(func() { close(r.ch) })
}

// Ready reports whether the host has signalled, without blocking.
func (r *Readiness) Ready() bool {
	select {
	case <-r.ch:
		return true
	default:
		return false
	}
}

// Wait blocks until the host signals or ctx is done.
func (r *Readiness) Wait(ctx context.Context) error {
	select {
	case <-r.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatcher guards the handoff behind the readiness signal.
type Dispatcher struct {
	bridge    Bridge
	readiness *Readiness
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher for the given bridge and readiness
// signal.
func NewDispatcher(b Bridge, r *Readiness, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{bridge: b, readiness: r, logger: logger}
}

// Submit hands the validated URL to the host's panel loader. If the host has
// not signalled readiness the call is refused with EUNAVAILABLE and nothing
// is queued; the user resubmits once the host is up. The panel load itself
// is fire-and-forget: its outcome is logged, not returned.
func (d *Dispatcher) Submit(ctx context.Context, url string) error {
	if !d.readiness.Ready() {
		return domain.Errorf(domain.EUNAVAILABLE, "bridge.submit", domain.ReasonBridgeWait)
	}

	// An accepted handoff outlives the submitting call.
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := d.bridge.LoadPanel(ctx, url); err != nil {
			d.logger.Error("panel load failed", "url", url, "error", err)
		}
	}()

	return nil
}
