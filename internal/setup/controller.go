// Package setup coordinates the connection-setup pipeline: syntax gate,
// remote verification, and the handoff to the host bridge. It owns the
// single piece of mutable state, the address field.
package setup

import (
	"context"
	"log/slog"
	"sync"

	"github.com/catdvtools/connect/internal/bridge"
	"github.com/catdvtools/connect/internal/domain"
	"github.com/catdvtools/connect/internal/gate"
	"github.com/catdvtools/connect/internal/verify"
)

// Controller drives validation of the address field and dispatches the
// validated URL. Unlike the single-threaded form it descends from, the field
// is guarded by a mutex: events may arrive from any goroutine.
//
// Each remote verification carries a generation number; a result is applied
// to the field only while its generation is still the latest, so a slow
// round trip superseded by a newer event can never overwrite fresher state.
type Controller struct {
	mu     sync.Mutex
	text   string
	reason string // custom validity message; empty means valid
	gen    uint64

	verifier   verify.Verifier
	dispatcher *bridge.Dispatcher
	logger     *slog.Logger
}

// NewController creates a Controller with an empty, pristine field.
func NewController(v verify.Verifier, d *bridge.Dispatcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{verifier: v, dispatcher: d, logger: logger}
}

// Field returns the current field text and validity reason.
func (c *Controller) Field() (text, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, c.reason
}

// Valid reports whether the field currently carries no validity reason.
func (c *Controller) Valid() bool {
	_, reason := c.Field()
	return reason == ""
}

// Input handles a keystroke: it re-runs the syntax gate so errors clear (or
// appear) as the user types. No network traffic.
func (c *Controller) Input(text string) domain.Result {
	res := gate.Check(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.gen++ // outdate any in-flight verification of older text
	c.reason = res.Reason

	return res
}

// Blur handles focus loss: syntax gate first, then remote verification for
// early feedback. The pipeline short-circuits on syntax failure.
func (c *Controller) Blur(ctx context.Context, text string) domain.Result {
	if res := c.Input(text); !res.Valid {
		return res
	}

	res, applied := c.verifyLatest(ctx, text)
	if !applied {
		c.logger.Debug("verification superseded", "text", text)
	}
	return res
}

// Submit handles a submission attempt: syntax gate, remote verification,
// then the bridge handoff. A failure at any stage leaves its reason on the
// field and stops; a superseded verification never dispatches.
func (c *Controller) Submit(ctx context.Context, text string) domain.Result {
	if res := c.Input(text); !res.Valid {
		return res
	}

	res, applied := c.verifyLatest(ctx, text)
	if !res.Valid {
		return res
	}
	if !applied {
		c.logger.Debug("submission superseded during verification", "text", text)
		return domain.Fail(domain.KindSuperseded, "")
	}

	if err := c.dispatcher.Submit(ctx, text); err != nil {
		res = domain.Fail(domain.KindBridgeNotReady, domain.ErrorMessage(err))
		c.setReason(res.Reason)
		return res
	}

	return res
}

// verifyLatest runs one remote verification round trip. While the request is
// in flight the field shows the transient checking reason. The returned bool
// reports whether the result was applied to the field, i.e. whether this
// verification was still the latest when it resolved.
func (c *Controller) verifyLatest(ctx context.Context, text string) (domain.Result, bool) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.reason = domain.ReasonChecking
	c.mu.Unlock()

	res := c.verifier.Verify(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return res, false
	}
	c.reason = res.Reason
	return res, true
}

func (c *Controller) setReason(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reason = reason
}
