// go-lr2021
// Copyright (c) 2025 The go-lr2021 Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-lr2021.
//
// go-lr2021 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-lr2021 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-lr2021; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package lr2021

import (
	"context"
	"sync"
)

// MockTransfer scripts one bus exchange for MockBus.
type MockTransfer struct {
	// Response is copied into the read slice. Unfilled bytes beyond it
	// keep the default fill.
	Response []byte
	// Err is returned instead of performing the exchange.
	Err error
}

// MockBus is an in-memory Bus for tests. Every transfer is logged; the
// optional script drives responses and injected failures in order. An
// unscripted transfer answers with DefaultFill in the first read byte,
// which decodes as a successful command status in both the write-phase
// and the read-phase alignment.
type MockBus struct {
	mu sync.Mutex

	// Transfers logs the written bytes of each exchange in order.
	Transfers [][]byte
	// Script supplies canned responses consumed one per transfer.
	Script []MockTransfer

	// DefaultFill seeds the first read byte of unscripted transfers.
	// Zero means 0x04 (command OK).
	DefaultFill byte

	next int
}

// NewMockBus returns an empty mock answering every exchange with a
// successful status.
func NewMockBus() *MockBus {
	return &MockBus{}
}

// Transfer implements Bus.
func (m *MockBus) Transfer(w, r []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Transfers = append(m.Transfers, append([]byte(nil), w...))

	fill := m.DefaultFill
	if fill == 0 {
		fill = 0x04
	}
	if len(r) > 0 {
		r[0] = fill
		for i := 1; i < len(r); i++ {
			r[i] = 0
		}
	}
	if m.next < len(m.Script) {
		step := m.Script[m.next]
		m.next++
		if step.Err != nil {
			return step.Err
		}
		copy(r, step.Response)
	}
	return nil
}

// Count returns the number of exchanges performed.
func (m *MockBus) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Transfers)
}

// Written returns the bytes written during exchange i.
func (m *MockBus) Written(i int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Transfers[i]
}

// MockOutputPin records levels driven on an output pin.
type MockOutputPin struct {
	mu sync.Mutex

	// Levels logs every Set in order.
	Levels []bool
	// Err is returned by Set when non-nil.
	Err error
}

// Set implements OutputPin.
func (p *MockOutputPin) Set(high bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Levels = append(p.Levels, high)
	return nil
}

// Last returns the most recent level, defaulting to high.
func (p *MockOutputPin) Last() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Levels) == 0 {
		return true
	}
	return p.Levels[len(p.Levels)-1]
}

// MockBusyPin simulates the busy line. With a Sequence it replays one
// level per sample then stays at Level; otherwise it always reads Level.
type MockBusyPin struct {
	mu sync.Mutex

	Level    bool
	Sequence []bool
	Err      error

	reads int
}

// Get implements InputPin.
func (p *MockBusyPin) Get() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return false, p.Err
	}
	if p.reads < len(p.Sequence) {
		v := p.Sequence[p.reads]
		p.reads++
		return v, nil
	}
	return p.Level, nil
}

// Reads returns how many times the pin was sampled.
func (p *MockBusyPin) Reads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads
}

// newTestDevice wires a Device to fresh mocks with short timeouts and a
// known standby mode, skipping the reset sequence.
func newTestDevice() (*Device, *MockBus, *MockOutputPin, *MockBusyPin) {
	bus := NewMockBus()
	nss := &MockOutputPin{}
	busy := &MockBusyPin{}
	nreset := &MockOutputPin{}
	d, _ := New(bus, nss, busy, nreset, WithPort("mock"))
	d.mode = ModeStandbyRC
	d.modeKnown = true
	return d, bus, nss, busy
}

func testCtx() context.Context {
	return context.Background()
}
