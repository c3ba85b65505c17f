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
	"time"

	"github.com/ZaparooProject/antimony/pkg/helpers/syncutil"
	"github.com/ZaparooProject/antimony/pkg/service/playtime"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Started        *time.Time `json:"started,omitempty"`
	Slug           string     `json:"slug,omitempty"`
	Name           string     `json:"name,omitempty"`
	Total          string     `json:"total,omitempty"`
	Session        string     `json:"session,omitempty"`
	TotalSeconds   int        `json:"totalSeconds"`
	SessionSeconds int        `json:"sessionSeconds"`
	Playing        bool       `json:"playing"`
}

// Status holds the latest timer progress and mirrors it into
// prometheus collectors. It is a playtime.ProgressSink.
type Status struct {
	clock   clockwork.Clock
	started time.Time
	last    playtime.Progress
	metrics *metrics
	mu      syncutil.RWMutex
	playing bool
}

type metrics struct {
	total   *prometheus.GaugeVec
	session *prometheus.GaugeVec
	ticks   *prometheus.CounterVec
	playing prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		total: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "antimony",
			Name:      "game_play_time_seconds",
			Help:      "Cumulative play time of a game.",
		}, []string{"slug"}),
		session: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "antimony",
			Name:      "session_play_time_seconds",
			Help:      "Play time of the current session.",
		}, []string{"slug"}),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "antimony",
			Name:      "timer_ticks_total",
			Help:      "Timer ticks counted since start.",
		}, []string{"slug"}),
		playing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "antimony",
			Name:      "playing",
			Help:      "1 while a game is being timed.",
		}),
	}
	reg.MustRegister(m.total, m.session, m.ticks, m.playing)
	return m
}

// NewStatus registers its collectors with reg.
func NewStatus(clock clockwork.Clock, reg prometheus.Registerer) *Status {
	return &Status{
		clock:   clock,
		metrics: newMetrics(reg),
	}
}

func (s *Status) Progress(p playtime.Progress) {
	s.mu.Lock()
	if !s.playing || s.last.Slug != p.Slug {
		s.started = s.clock.Now().Add(-time.Duration(p.SessionSeconds) * time.Second)
	}
	s.playing = true
	s.last = p
	s.mu.Unlock()

	s.metrics.total.WithLabelValues(p.Slug).Set(float64(p.TotalSeconds))
	s.metrics.session.WithLabelValues(p.Slug).Set(float64(p.SessionSeconds))
	s.metrics.ticks.WithLabelValues(p.Slug).Inc()
	s.metrics.playing.Set(1)
}

// Stop marks the timer as finished. The last totals stay visible.
func (s *Status) Stop() {
	s.mu.Lock()
	s.playing = false
	s.mu.Unlock()
	s.metrics.playing.Set(0)
}

func (s *Status) Snapshot() StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := StatusResponse{Playing: s.playing}
	if s.last.Slug == "" {
		return resp
	}
	resp.Slug = s.last.Slug
	resp.Name = s.last.Name
	resp.TotalSeconds = s.last.TotalSeconds
	resp.SessionSeconds = s.last.SessionSeconds
	resp.Total = playtime.FormatClock(s.last.TotalSeconds)
	resp.Session = playtime.FormatClock(s.last.SessionSeconds)
	if s.playing {
		started := s.started
		resp.Started = &started
	}
	return resp
}
