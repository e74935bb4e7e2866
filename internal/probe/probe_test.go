package probe

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "healthy catdv server",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"OK","data":{"version":"10.1.3"}}`))
			},
			want: true,
		},
		{
			name: "status not OK",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"AUTH","data":{}}`))
			},
			want: false,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			want: false,
		},
		{
			name: "some other web server",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html><body>hello</body></html>`))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p := New(0, discardLogger())
			got, _ := p.Probe(context.Background(), srv.URL)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProbeHitsInfoEndpoint(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"status":"OK","data":{"version":"10.1.3"}}`))
	}))
	defer srv.Close()

	p := New(0, discardLogger())

	// With and without a trailing slash on the candidate.
	ok, err := p.Probe(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/api/info", gotPath)
}

func TestProbeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	p := New(0, discardLogger())
	ok, err := p.Probe(context.Background(), target)

	assert.False(t, ok)
	assert.Error(t, err)
}

func TestProbeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	p := New(50*time.Millisecond, discardLogger())
	ok, err := p.Probe(context.Background(), srv.URL)

	assert.False(t, ok)
	assert.Error(t, err)
}
