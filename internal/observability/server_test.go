// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func probe(t *testing.T, s *Server, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, rec.Body.String()
}

func TestServer_Probes(t *testing.T) {
	tests := []struct {
		name       string
		checker    ReadinessChecker
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "liveness", path: "/healthz/liveness", wantStatus: http.StatusOK, wantBody: "ok\n"},
		{name: "readiness without checker", path: "/healthz/readiness", wantStatus: http.StatusOK, wantBody: "ok\n"},
		{
			name:       "ready",
			checker:    func(context.Context) error { return nil },
			path:       "/healthz/readiness",
			wantStatus: http.StatusOK,
			wantBody:   "ok\n",
		},
		{
			name:       "database down",
			checker:    func(context.Context) error { return errors.New("connection refused") },
			path:       "/healthz/readiness",
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "not ready\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer("127.0.0.1:0", tt.checker, quietLogger())
			status, body := probe(t, s, tt.path)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestServer_ReadinessCheckHasDeadline(t *testing.T) {
	var hasDeadline bool
	s := NewServer("127.0.0.1:0", func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}, quietLogger())

	probe(t, s, "/healthz/readiness")
	assert.True(t, hasDeadline)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	s := NewServer("127.0.0.1:0", nil, quietLogger())
	s.Metrics().ObserveRequest(http.MethodGet, "/questions", http.StatusOK, 20*time.Millisecond)
	s.Metrics().RecordAuthEvent(AuthEventLogin, false)

	status, body := probe(t, s, "/metrics")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `qanda_http_requests_total{method="GET",route="/questions",status="200"} 1`)
	assert.Contains(t, body, "qanda_http_request_duration_seconds")
	assert.Contains(t, body, `qanda_auth_events_total{event="login",result="failure"} 1`)
	assert.True(t, strings.Contains(body, "go_goroutines"), "expected Go collector metrics")
}

func TestServer_StartStop(t *testing.T) {
	s := NewServer("127.0.0.1:0", nil, quietLogger())

	errCh, err := s.Start()
	require.NoError(t, err)
	require.NotEmpty(t, s.Addr())

	_, err = s.Start()
	require.Error(t, err, "second start must fail")

	resp, err := http.Get("http://" + s.Addr() + "/healthz/liveness")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx), "stop is idempotent")

	_, open := <-errCh
	assert.False(t, open, "error channel closes on clean shutdown")
}

func TestServer_StartFailsOnBusyAddress(t *testing.T) {
	first := NewServer("127.0.0.1:0", nil, quietLogger())
	_, err := first.Start()
	require.NoError(t, err)
	defer func() { _ = first.Stop(context.Background()) }()

	second := NewServer(first.Addr(), nil, quietLogger())
	_, err = second.Start()
	require.Error(t, err)
}

func TestMetrics_RecordAuthEvent(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordAuthEvent(AuthEventRegister, true)
	m.RecordAuthEvent(AuthEventRegister, true)
	m.RecordAuthEvent(AuthEventRegister, false)

	assert.InDelta(t, 2, testutil.ToFloat64(m.AuthEvents.WithLabelValues(AuthEventRegister, AuthResultSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthEvents.WithLabelValues(AuthEventRegister, AuthResultFailure)), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.RecordAuthEvent(AuthEventLogin, true)
	})
}
