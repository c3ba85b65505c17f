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

// Package api serves the local status endpoints while a game is timed.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	apimw "github.com/ZaparooProject/antimony/pkg/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	requestTimeout  = 5 * time.Second
	shutdownTimeout = 2 * time.Second
)

// NewRouter builds the status routes. gatherer backs /metrics. A nil or
// empty allow list serves every client.
func NewRouter(status *Status, gatherer prometheus.Gatherer, allow *apimw.AllowList) http.Handler {
	r := chi.NewRouter()

	if !allow.Empty() {
		r.Use(apimw.Filter(allow))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/status", handleStatus(status))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}

func handleStatus(status *Status) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status.Snapshot()); err != nil {
			log.Error().Err(err).Msg("error encoding status response")
		}
	}
}

// Serve binds addr and serves handler until ctx is done. The returned
// channel yields the server's exit error once.
func Serve(ctx context.Context, addr string, handler http.Handler) (<-chan error, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("status api listening")

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: requestTimeout,
	}

	done := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
		close(done)
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("error shutting down status api")
		}
	}()

	return done, nil
}
