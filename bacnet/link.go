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

package bacnet

// Link is the datalink collaborator a Device drives: something that can
// report whether a frame is waiting, hand back the next one, send a
// frame to a peer, and track how long the medium has been idle (the
// MS/TP token-passing silence timer this abstraction generalizes, kept
// here since a BACnet/IP Device built on it can ignore silence and still
// satisfy the interface with SilenceMS always returning 0).
type Link interface {
	// ByteAvailable reports whether a frame is ready for Receive.
	ByteAvailable() bool
	// Receive returns the next waiting frame and its sender, or
	// ok == false if none is available.
	Receive() (frame []byte, from Address, ok bool)
	// Send transmits frame to dest.
	Send(dest Address, frame []byte) error
	// SilenceMS is the number of milliseconds since the medium last
	// carried traffic.
	SilenceMS() uint32
	// SilenceReset restarts the silence timer.
	SilenceReset()
}
