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
	"fmt"
	"time"

	"github.com/ZaparooProject/antimony/pkg/database"
	"github.com/stretchr/testify/mock"
)

// MockSessionDBI is a testify mock of database.SessionDBI.
//
//	db := helpers.NewMockSessionDBI()
//	db.On("AddSession", mock.Anything).Return(int64(1), nil)
//	...
//	db.AssertExpectations(t)
type MockSessionDBI struct {
	mock.Mock
}

var _ database.SessionDBI = (*MockSessionDBI)(nil)

func NewMockSessionDBI() *MockSessionDBI {
	return &MockSessionDBI{}
}

func (m *MockSessionDBI) MigrateUp() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock SessionDBI migrate up failed: %w", err)
	}
	return nil
}

func (m *MockSessionDBI) Vacuum() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock SessionDBI vacuum failed: %w", err)
	}
	return nil
}

func (m *MockSessionDBI) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock SessionDBI close failed: %w", err)
	}
	return nil
}

func (m *MockSessionDBI) GetDBPath() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSessionDBI) AddSession(entry *database.SessionEntry) (int64, error) {
	args := m.Called(entry)
	if err := args.Error(1); err != nil {
		return 0, fmt.Errorf("mock SessionDBI add session failed: %w", err)
	}
	id, _ := args.Get(0).(int64)
	return id, nil
}

func (m *MockSessionDBI) UpdateSessionTime(dbid int64, playTime int) error {
	args := m.Called(dbid, playTime)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock SessionDBI update session time failed: %w", err)
	}
	return nil
}

func (m *MockSessionDBI) CloseSession(dbid int64, endTime time.Time, playTime int, reason string) error {
	args := m.Called(dbid, endTime, playTime, reason)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock SessionDBI close session failed: %w", err)
	}
	return nil
}

func (m *MockSessionDBI) CloseHangingSessions() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock SessionDBI close hanging sessions failed: %w", err)
	}
	return nil
}

func (m *MockSessionDBI) GetSessions(slug string, limit int) ([]database.SessionEntry, error) {
	args := m.Called(slug, limit)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock SessionDBI get sessions failed: %w", err)
	}
	sessions, _ := args.Get(0).([]database.SessionEntry)
	return sessions, nil
}

func (m *MockSessionDBI) DailyUsage(since time.Time) (time.Duration, error) {
	args := m.Called(since)
	if err := args.Error(1); err != nil {
		return 0, fmt.Errorf("mock SessionDBI daily usage failed: %w", err)
	}
	d, _ := args.Get(0).(time.Duration)
	return d, nil
}

func (m *MockSessionDBI) CleanupSessions(retentionDays int) (int64, error) {
	args := m.Called(retentionDays)
	if err := args.Error(1); err != nil {
		return 0, fmt.Errorf("mock SessionDBI cleanup sessions failed: %w", err)
	}
	n, _ := args.Get(0).(int64)
	return n, nil
}
