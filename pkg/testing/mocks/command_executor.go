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

package mocks

import (
	"sync"

	"github.com/ZaparooProject/antimony/pkg/helpers/command"
	"github.com/stretchr/testify/mock"
)

// MockCommandExecutor is a testify mock for command.Executor.
// It allows testing code that launches games without starting real processes.
type MockCommandExecutor struct {
	mock.Mock
}

// Start mocks starting a system command.
//
// Example:
//
//	proc := mocks.NewFakeProcess(1234)
//	mockCmd := &MockCommandExecutor{}
//	mockCmd.On("Start", mock.Anything, "/games/celeste", mock.Anything).Return(proc, nil)
func (m *MockCommandExecutor) Start(
	opts command.StartOptions,
	name string,
	args ...string,
) (command.Process, error) {
	called := m.Called(opts, name, args)
	if proc, ok := called.Get(0).(command.Process); ok {
		//nolint:wrapcheck // Mock returns are already wrapped by caller
		return proc, called.Error(1)
	}
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return nil, called.Error(1)
}

// FakeProcess is a command.Process whose exit is triggered by the test.
type FakeProcess struct {
	err  error
	done chan struct{}
	once sync.Once
	pid  int
}

func NewFakeProcess(pid int) *FakeProcess {
	return &FakeProcess{
		pid:  pid,
		done: make(chan struct{}),
	}
}

// Exit marks the process as terminated with the given wait error.
// Calling it more than once has no effect.
func (p *FakeProcess) Exit(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

func (p *FakeProcess) Pid() int {
	return p.pid
}

func (p *FakeProcess) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *FakeProcess) Done() <-chan struct{} {
	return p.done
}

func (p *FakeProcess) Err() error {
	if !p.Exited() {
		return nil
	}
	return p.err
}
