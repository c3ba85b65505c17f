// Antimony
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Antimony.
//
// Antimony is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Antimony is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Antimony.  If not, see <http://www.gnu.org/licenses/>.

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apimw "github.com/ZaparooProject/antimony/pkg/api/middleware"
	"github.com/ZaparooProject/antimony/pkg/service/playtime"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStatus(t *testing.T) (*Status, *prometheus.Registry, *clockwork.FakeClock) {
	t.Helper()
	reg := prometheus.NewRegistry()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC))
	return NewStatus(clock, reg), reg, clock
}

func getStatus(t *testing.T, h http.Handler) StatusResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/status", http.NoBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestStatus_Idle(t *testing.T) {
	t.Parallel()
	status, reg, _ := newTestStatus(t)

	resp := getStatus(t, NewRouter(status, reg, nil))
	assert.False(t, resp.Playing)
	assert.Empty(t, resp.Slug)
	assert.Nil(t, resp.Started)
}

func TestStatus_Playing(t *testing.T) {
	t.Parallel()
	status, reg, clock := newTestStatus(t)

	status.Progress(playtime.Progress{
		Slug: "celeste", Name: "Celeste", TotalSeconds: 3725, SessionSeconds: 5,
	})

	resp := getStatus(t, NewRouter(status, reg, nil))
	assert.True(t, resp.Playing)
	assert.Equal(t, "celeste", resp.Slug)
	assert.Equal(t, "Celeste", resp.Name)
	assert.Equal(t, 3725, resp.TotalSeconds)
	assert.Equal(t, "01:02:05", resp.Total)
	assert.Equal(t, "00:00:05", resp.Session)
	require.NotNil(t, resp.Started)
	assert.True(t, resp.Started.Equal(clock.Now().Add(-5*time.Second)))
}

func TestStatus_Stop(t *testing.T) {
	t.Parallel()
	status, reg, _ := newTestStatus(t)

	status.Progress(playtime.Progress{Slug: "celeste", Name: "Celeste", TotalSeconds: 10, SessionSeconds: 1})
	status.Stop()

	resp := getStatus(t, NewRouter(status, reg, nil))
	assert.False(t, resp.Playing)
	assert.Equal(t, 10, resp.TotalSeconds)
	assert.Nil(t, resp.Started)
	assert.InDelta(t, 0, testutil.ToFloat64(status.metrics.playing), 0)
}

func TestStatus_Metrics(t *testing.T) {
	t.Parallel()
	status, reg, _ := newTestStatus(t)

	for i := 1; i <= 3; i++ {
		status.Progress(playtime.Progress{
			Slug: "celeste", Name: "Celeste", TotalSeconds: 100 + i, SessionSeconds: i,
		})
	}

	assert.InDelta(t, 103, testutil.ToFloat64(status.metrics.total.WithLabelValues("celeste")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(status.metrics.session.WithLabelValues("celeste")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(status.metrics.ticks.WithLabelValues("celeste")), 0)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	NewRouter(status, reg, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `antimony_game_play_time_seconds{slug="celeste"} 103`)
	assert.Contains(t, rec.Body.String(), "antimony_playing 1")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()
	status, reg, _ := newTestStatus(t)

	ctx, cancel := context.WithCancel(context.Background())
	done, err := Serve(ctx, "127.0.0.1:0", NewRouter(status, reg, nil))
	require.NoError(t, err)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_BindError(t *testing.T) {
	t.Parallel()
	status, reg, _ := newTestStatus(t)

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Serve(context.Background(), srv.Listener.Addr().String(), NewRouter(status, reg, nil))
	require.Error(t, err)
}

func TestServe_Responds(t *testing.T) {
	t.Parallel()
	status, reg, _ := newTestStatus(t)

	srv := httptest.NewServer(NewRouter(status, reg, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status") //nolint:noctx // test request
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"playing":false`)
}

func TestRouter_AllowList(t *testing.T) {
	t.Parallel()
	status, reg, _ := newTestStatus(t)
	h := NewRouter(status, reg, apimw.NewAllowList([]string{"10.0.0.0/8"}))

	// httptest requests come from 192.0.2.1
	req := httptest.NewRequest(http.MethodGet, "/status", http.NoBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/status", http.NoBody)
	req.RemoteAddr = "10.1.2.3:4000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
