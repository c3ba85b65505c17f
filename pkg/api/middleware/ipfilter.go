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

// Package middleware holds the HTTP middleware of the status API.
package middleware

import (
	"net"
	"net/http"
	"net/netip"

	"github.com/rs/zerolog/log"
)

// RemoteAddr parses the address part of an IP:port RemoteAddr. A bare
// address is accepted too.
func RemoteAddr(remoteAddr string) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// AllowList restricts clients to a set of addresses and CIDR prefixes.
// Loopback clients are always allowed.
type AllowList struct {
	prefixes []netip.Prefix
}

// NewAllowList parses entries as addresses or CIDR prefixes. Entries with
// a port are accepted; invalid entries are logged and skipped. An empty
// list allows every client.
func NewAllowList(entries []string) *AllowList {
	al := &AllowList{}
	for _, entry := range entries {
		if host, _, err := net.SplitHostPort(entry); err == nil {
			entry = host
		}
		if p, err := netip.ParsePrefix(entry); err == nil {
			al.prefixes = append(al.prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(entry); err == nil {
			a = a.Unmap()
			al.prefixes = append(al.prefixes, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		log.Warn().Str("entry", entry).Msg("invalid address in allowed_ips, skipping")
	}
	return al
}

// Empty reports whether no entry was parsed.
func (al *AllowList) Empty() bool {
	return al == nil || len(al.prefixes) == 0
}

// Allowed reports whether a client at remoteAddr may use the API.
func (al *AllowList) Allowed(remoteAddr string) bool {
	if al.Empty() {
		return true
	}
	addr, ok := RemoteAddr(remoteAddr)
	if !ok {
		log.Warn().Str("addr", remoteAddr).Msg("failed to parse client address")
		return false
	}
	if addr.IsLoopback() {
		return true
	}
	for _, p := range al.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Filter rejects requests from clients outside al with 403.
func Filter(al *AllowList) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !al.Allowed(r.RemoteAddr) {
				log.Debug().Str("addr", r.RemoteAddr).Str("path", r.URL.Path).
					Msg("request from blocked address")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
