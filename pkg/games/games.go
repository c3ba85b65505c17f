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

// Package games holds the record store: a single JSON document mapping a
// game slug to its display name, executable and cumulative play time.
package games

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	ErrGameNotFound = errors.New("no such game")
	ErrNoExecutable = errors.New("no executable set for game")
	ErrInvalidSlug  = errors.New("invalid game slug")
)

const (
	storeDirMode  = 0o750
	storeFileMode = 0o600
	tempPattern   = ".data-*.json"
)

// Record is a tracked game. Timer is cumulative seconds played and only
// grows, except when the store file is edited by hand.
type Record struct {
	Slug    string `json:"-"`
	Name    string `json:"name"`
	Process string `json:"process,omitempty"`
	// Watch is an optional executable path or directory prefix of the real
	// game process, for launchers that hand off and exit.
	Watch string `json:"watch,omitempty"`
	Timer int    `json:"timer"`
}

// Executable returns the launch path, or ErrNoExecutable if none is set.
func (r *Record) Executable() (string, error) {
	if r.Process == "" {
		return "", fmt.Errorf("%s: %w", r.Slug, ErrNoExecutable)
	}
	return r.Process, nil
}

// Store is the in-memory copy of the store document. It is loaded
// wholesale and written back wholesale with Save; it is not safe for
// concurrent use.
type Store struct {
	fs      afero.Fs
	records map[string]*Record
	path    string
}

// Open loads the store at path, creating an empty document if the file
// does not exist yet.
func Open(fs afero.Fs, path string) (*Store, error) {
	s := &Store{
		fs:      fs,
		path:    path,
		records: make(map[string]*Record),
	}

	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", path).Msg("creating new game store")
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read game store: %w", err)
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("failed to parse game store %s: %w", path, err)
	}
	// a "null" document unmarshals to a nil map
	if s.records == nil {
		s.records = make(map[string]*Record)
	}

	for slug, rec := range s.records {
		if rec == nil {
			rec = &Record{}
			s.records[slug] = rec
		}
		rec.Slug = slug
		if rec.Timer < 0 {
			log.Warn().Str("slug", slug).Int("timer", rec.Timer).
				Msg("negative timer in store, resetting to zero")
			rec.Timer = 0
		}
	}

	return s, nil
}

// ValidateSlug rejects slugs that could escape a directory when used as a
// file name, such as the banner output and asset folders.
func ValidateSlug(slug string) error {
	if slug == "" || slug == "." || strings.Contains(slug, "..") ||
		strings.ContainsAny(slug, `/\`) {
		return fmt.Errorf("%q: %w", slug, ErrInvalidSlug)
	}
	return nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Len() int {
	return len(s.records)
}

// Get returns the record for slug. The returned pointer is the store's own
// copy, so changes to it are persisted by the next Save.
func (s *Store) Get(slug string) (*Record, error) {
	rec, ok := s.records[slug]
	if !ok {
		return nil, fmt.Errorf("%s: %w", slug, ErrGameNotFound)
	}
	return rec, nil
}

// Put creates or updates the record for slug. An existing record keeps its
// timer and watch values.
func (s *Store) Put(slug, name, process string) *Record {
	rec, ok := s.records[slug]
	if !ok {
		rec = &Record{Slug: slug}
		s.records[slug] = rec
	}
	rec.Name = name
	rec.Process = process
	return rec
}

// Records returns all records ordered by descending timer, ties broken by
// slug.
func (s *Store) Records() []*Record {
	recs := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b *Record) int {
		if c := cmp.Compare(b.Timer, a.Timer); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	return recs
}

// TotalTime is the sum of all record timers in seconds.
func (s *Store) TotalTime() int {
	total := 0
	for _, rec := range s.records {
		total += rec.Timer
	}
	return total
}

// Save writes the whole document to a temp file next to the store and
// renames it into place.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, storeDirMode); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode game store: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}

	tmpName := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = s.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp store file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp store file: %w", err)
	}

	if err := s.fs.Chmod(tmpName, storeFileMode); err != nil {
		return fmt.Errorf("failed to chmod temp store file: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace game store: %w", err)
	}
	cleanup = false

	log.Debug().Str("path", s.path).Int("games", len(s.records)).Msg("saved game store")
	return nil
}
