// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/qanda/internal/httpapi"
	"github.com/holomush/qanda/pkg/errutil"
)

func TestServer_Lifecycle(t *testing.T) {
	f := newAPIFixture(t)
	srv := httpapi.NewServer("127.0.0.1:0", f.router, discardLogger())

	errCh, err := srv.Start()
	require.NoError(t, err)

	_, err = srv.Start()
	errutil.AssertErrorCode(t, err, "HTTP_ALREADY_RUNNING")

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	_, open := <-errCh
	assert.False(t, open)

	assert.NoError(t, srv.Stop(ctx))
}

func TestServer_ListenFailure(t *testing.T) {
	srv := httpapi.NewServer("256.0.0.1:0", http.NotFoundHandler(), nil)
	_, err := srv.Start()
	errutil.AssertErrorCode(t, err, "HTTP_LISTEN_FAILED")
}
