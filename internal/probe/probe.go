// Package probe decides whether a candidate URL points at a live,
// compatible CatDV server. It is the serving half of the /validate verdict.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds one probe round trip.
const DefaultTimeout = 10 * time.Second

// Prober reports whether a candidate URL identifies a compatible server.
// The error carries diagnostics only; callers translate a false verdict the
// same way whether or not an error accompanies it.
type Prober interface {
	Probe(ctx context.Context, candidate string) (bool, error)
}

// infoResponse is the shape of the CatDV server's info endpoint.
type infoResponse struct {
	Status string `json:"status"`
	Data   struct {
		Version string `json:"version"`
	} `json:"data"`
}

// HTTPProber probes candidates over their REST API.
type HTTPProber struct {
	http   *http.Client
	logger *slog.Logger
}

// New creates an HTTPProber with the given per-probe timeout.
func New(timeout time.Duration, logger *slog.Logger) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPProber{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Probe issues GET {candidate}/api/info and accepts the candidate when the
// endpoint answers 2xx with a JSON body whose status field is "OK". Anything
// else - unreachable host, non-2xx, undecodable body, unexpected status -
// yields a false verdict.
func (p *HTTPProber) Probe(ctx context.Context, candidate string) (bool, error) {
	endpoint := strings.TrimSuffix(candidate, "/") + "/api/info"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("building probe request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		p.logger.Debug("probe request failed", "candidate", candidate, "error", err)
		return false, fmt.Errorf("probing %s: %w", candidate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.logger.Debug("probe got non-success status", "candidate", candidate, "status", resp.StatusCode)
		return false, nil
	}

	var info infoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		p.logger.Debug("probe body undecodable", "candidate", candidate, "error", err)
		return false, nil
	}

	if info.Status != "OK" {
		p.logger.Debug("probe status not OK", "candidate", candidate, "status", info.Status)
		return false, nil
	}

	p.logger.Info("catdv server recognised", "candidate", candidate, "version", info.Data.Version)
	return true, nil
}
