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

package helpers

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// MemoryFS wraps an in-memory afero filesystem with helpers for laying
// out game stores and asset files.
type MemoryFS struct {
	Fs afero.Fs
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{Fs: afero.NewMemMapFs()}
}

// CreateStoreFile writes records as a game store document.
func (m *MemoryFS) CreateStoreFile(path string, records map[string]any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	return m.WriteFile(path, data)
}

// ReadStoreFile decodes the game store document at path.
func (m *MemoryFS) ReadStoreFile(path string) (map[string]map[string]any, error) {
	data, err := m.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode store %s: %w", path, err)
	}
	return doc, nil
}

func (m *MemoryFS) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(m.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes content to path, creating parent directories.
func (m *MemoryFS) WriteFile(path string, content []byte) error {
	if err := m.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", path, err)
	}
	if err := afero.WriteFile(m.Fs, path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
