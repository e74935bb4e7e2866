// Package verify asks the companion service whether a candidate address
// identifies a reachable, compatible CatDV server.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/catdvtools/connect/internal/domain"
)

// DefaultTimeout bounds one verification round trip.
const DefaultTimeout = 15 * time.Second

// Verifier reports whether a candidate URL identifies a compatible server.
// Implementations must not return errors to the caller; every failure mode
// collapses into a failing Result with a fixed user-facing reason.
type Verifier interface {
	Verify(ctx context.Context, candidate string) domain.Result
}

// Client verifies candidates against the companion service's /validate
// endpoint.
type Client struct {
	origin string
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a verifier that calls {origin}/validate. origin is the
// base URL of the companion service, without a trailing slash.
func NewClient(origin string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		origin: origin,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Verify issues GET {origin}/validate?url=<candidate> and translates the
// JSON verdict into a Result. Transport failures, non-2xx responses, and
// unparseable bodies all collapse into the unverifiable reason; a body
// that parses but carries anything other than an explicit true verdict,
// a wrong-typed field included, is not recognised.
func (c *Client) Verify(ctx context.Context, candidate string) domain.Result {
	endpoint := fmt.Sprintf("%s/validate?url=%s", c.origin, url.QueryEscape(candidate))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("building verification request failed", "candidate", candidate, "error", err)
		return domain.Fail(domain.KindRemoteUnreachable, domain.ReasonUnverifiable)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("verification request failed", "candidate", candidate, "error", err)
		return domain.Fail(domain.KindRemoteUnreachable, domain.ReasonUnverifiable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("verification endpoint returned non-success status",
			"candidate", candidate, "status", resp.StatusCode)
		return domain.Fail(domain.KindRemoteUnreachable, domain.ReasonUnverifiable)
	}

	var verdict domain.Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		c.logger.Error("verification response body undecodable", "candidate", candidate, "error", err)
		return domain.Fail(domain.KindRemoteMalformed, domain.ReasonUnverifiable)
	}

	if verdict.True() {
		return domain.OK()
	}

	return domain.Fail(domain.KindRemoteRejected, domain.ReasonNotRecognised)
}
