// Copyright 2025 BACnet Core Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package linktest provides an in-memory bacnet.Link for dispatcher and
// device tests, so they can run without a real socket.
package linktest

import (
	"sync"

	"github.com/bacnet-io/bacnetcore/bacnet"
)

type frame struct {
	data []byte
	from bacnet.Address
}

// FakeLink is a bacnet.Link backed by an in-process queue. Two FakeLinks
// can be wired to each other with Connect to simulate a two-node
// exchange in a test.
type FakeLink struct {
	mu      sync.Mutex
	inbox   []frame
	self    bacnet.Address
	peer    *FakeLink
	silence uint32
}

// New builds a FakeLink that identifies itself as self on the wire.
func New(self bacnet.Address) *FakeLink {
	return &FakeLink{self: self}
}

// Connect wires a and b so that a.Send delivers into b's inbox and vice
// versa.
func Connect(a, b *FakeLink) {
	a.peer = b
	b.peer = a
}

func (f *FakeLink) ByteAvailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inbox) > 0
}

func (f *FakeLink) Receive() ([]byte, bacnet.Address, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.inbox) == 0 {
		return nil, bacnet.Address{}, false
	}
	fr := f.inbox[0]
	f.inbox = f.inbox[1:]
	f.silence = 0
	return fr.data, fr.from, true
}

func (f *FakeLink) Send(dest bacnet.Address, data []byte) error {
	f.silence = 0
	if f.peer == nil {
		return nil
	}
	f.peer.mu.Lock()
	f.peer.inbox = append(f.peer.inbox, frame{data: append([]byte{}, data...), from: f.self})
	f.peer.mu.Unlock()
	return nil
}

func (f *FakeLink) SilenceMS() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.silence
}

func (f *FakeLink) SilenceReset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.silence = 0
}

// Advance bumps the silence timer by ms, for tests that exercise
// silence-based timeouts without a real clock.
func (f *FakeLink) Advance(ms uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.silence += ms
}
