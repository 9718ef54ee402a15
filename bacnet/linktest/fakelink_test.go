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

package linktest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bacnet-io/bacnetcore/bacnet"
)

// encodeReadPropertyRequest builds a ReadProperty-Request APDU wrapped in
// NPDU/BVLC framing for obj/property, using the well-known context tags 0
// (object-identifier) and 1 (property-identifier).
func encodeReadPropertyRequest(invokeID uint8, obj bacnet.ObjectIdentifier, property bacnet.PropertyIdentifier) []byte {
	body := bacnet.EncodeContextTag(0, bacnet.EncodeObjectIdentifier(obj))
	body = append(body, bacnet.EncodeContextTag(1, bacnet.EncodeUnsigned(uint32(property)))...)
	apdu := bacnet.EncodeConfirmedRequest(invokeID, bacnet.ServiceReadProperty, body, 0, 5)
	npdu := bacnet.EncodeNPDU(bacnet.NpduHeader{Data: apdu})
	bvlc := bacnet.EncodeBVLC(bacnet.BVLCOriginalUnicastNPDU, len(npdu))
	return append(bvlc, npdu...)
}

// TestDeviceOverFakeLinkRoundTrip drives a bacnet.Device with RunOverLink
// against two FakeLinks wired together, the same two-node exchange a real
// BACnet/IP request/reply pair produces, minus the socket.
func TestDeviceOverFakeLinkRoundTrip(t *testing.T) {
	output := bacnet.NewCommandableAnalogOutput(bacnet.NewObjectIdentifier(bacnet.ObjectTypeAnalogOutput, 1), "AHU-1 Supply Fan", 100.0)
	load := bacnet.NewLoadControlInstance(
		bacnet.NewObjectIdentifier(bacnet.ObjectTypeLoadControl, 1), "AHU-1 Demand Shed", output,
		[]bacnet.ShedLevel{{Kind: bacnet.ShedLevelPercent, Percent: 10}}, []string{"light shed"},
	)
	registry := bacnet.NewRegistry()
	registry.AddAnalogOutput(output)
	registry.AddLoadControl(load)
	device := bacnet.NewDevice(registry, bacnet.WithDeviceIdentity(1001, 999))

	clientAddr := bacnet.Address{Net: 0, Addr: []byte{192, 168, 1, 10}}
	serverAddr := bacnet.Address{Net: 0, Addr: []byte{192, 168, 1, 20}}
	client := New(clientAddr)
	server := New(serverAddr)
	Connect(client, server)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		device.RunOverLink(ctx, server)
		close(done)
	}()

	req := encodeReadPropertyRequest(7, load.ObjectID, bacnet.PropertyPresentValue)
	require.NoError(t, client.Send(serverAddr, req))

	require.Eventually(t, client.ByteAvailable, time.Second, 5*time.Millisecond)
	reply, from, ok := client.Receive()
	require.True(t, ok)
	require.Equal(t, serverAddr, from)

	npdu, _, err := bacnet.DecodeNPDU(reply[4:])
	require.NoError(t, err)
	apdu, err := bacnet.DecodeAPDU(npdu.Data)
	require.NoError(t, err)
	require.Equal(t, bacnet.PDUTypeComplexAck, apdu.Type)

	cancel()
	<-done
}

// TestConnectIsBidirectional checks that a's Send delivers to b and b's
// Send delivers back to a.
func TestConnectIsBidirectional(t *testing.T) {
	a := New(bacnet.Address{Addr: []byte{1}})
	b := New(bacnet.Address{Addr: []byte{2}})
	Connect(a, b)

	require.NoError(t, a.Send(bacnet.Address{Addr: []byte{2}}, []byte{0xAA}))
	require.True(t, b.ByteAvailable())
	data, _, ok := b.Receive()
	require.True(t, ok)
	require.Equal(t, []byte{0xAA}, data)
	require.False(t, b.ByteAvailable())

	a.Advance(50)
	require.EqualValues(t, 50, a.SilenceMS())
	require.NoError(t, b.Send(bacnet.Address{Addr: []byte{1}}, []byte{0xBB}))
	require.EqualValues(t, 0, b.SilenceMS())
	data, _, ok = a.Receive()
	require.True(t, ok)
	require.Equal(t, []byte{0xBB}, data)
	require.EqualValues(t, 0, a.SilenceMS())
}
