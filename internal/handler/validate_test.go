package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/catdvtools/connect/internal/history"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	recognised bool
	err        error
}

func (f *fakeProber) Probe(ctx context.Context, candidate string) (bool, error) {
	return f.recognised, f.err
}

type fakeRecorder struct {
	mu       sync.Mutex
	recorded []string
	err      error
}

func (f *fakeRecorder) Record(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, url)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doValidate(t *testing.T, h *ValidateHandler, target string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Validate(c))
	return rec
}

func TestValidateVerdicts(t *testing.T) {
	tests := []struct {
		name        string
		prober      *fakeProber
		wantVerdict bool
	}{
		{"recognised server", &fakeProber{recognised: true}, true},
		{"rejected server", &fakeProber{recognised: false}, false},
		{"unreachable server still answers 200", &fakeProber{err: errors.New("connection refused")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewValidateHandler(tt.prober, nil, nil, discardLogger())
			rec := doValidate(t, h, "/validate?url=http%3A%2F%2Fcatdv.example.com")

			assert.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				ValidationResult bool `json:"validation_result"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantVerdict, body.ValidationResult)
		})
	}
}

func TestValidateMissingURLParam(t *testing.T) {
	h := NewValidateHandler(&fakeProber{recognised: true}, nil, nil, discardLogger())
	rec := doValidate(t, h, "/validate")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateRecordsRecognisedServers(t *testing.T) {
	recorder := &fakeRecorder{}
	h := NewValidateHandler(&fakeProber{recognised: true}, recorder, nil, discardLogger())

	doValidate(t, h, "/validate?url=http%3A%2F%2Fcatdv.example.com")

	assert.Equal(t, []string{"http://catdv.example.com"}, recorder.recorded)
}

func TestValidateDoesNotRecordRejections(t *testing.T) {
	recorder := &fakeRecorder{}
	h := NewValidateHandler(&fakeProber{recognised: false}, recorder, nil, discardLogger())

	doValidate(t, h, "/validate?url=http%3A%2F%2Fcatdv.example.com")

	assert.Empty(t, recorder.recorded)
}

func TestValidateHistoryFailureKeepsVerdict(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("disk full")}
	h := NewValidateHandler(&fakeProber{recognised: true}, recorder, nil, discardLogger())

	rec := doValidate(t, h, "/validate?url=http%3A%2F%2Fcatdv.example.com")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ValidationResult bool `json:"validation_result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.ValidationResult)
}

func TestServers(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate())

	ctx := context.Background()
	require.NoError(t, store.Record(ctx, "http://one.example.com"))
	require.NoError(t, store.Record(ctx, "http://two.example.com"))

	h := NewServersHandler(store, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/servers", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Servers(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)

	var servers []history.Server
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &servers))
	require.Len(t, servers, 2)
	assert.Equal(t, "http://two.example.com", servers[0].URL)
}

func TestServersBadLimit(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate())

	h := NewServersHandler(store, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/servers?limit=-3", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Servers(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
