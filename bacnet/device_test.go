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

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestDevice(t *testing.T) (*Device, *LoadControlInstance) {
	t.Helper()
	out := NewCommandableAnalogOutput(NewObjectIdentifier(ObjectTypeAnalogOutput, 1), "AHU-1 Supply Fan", 100.0)
	lc := NewLoadControlInstance(
		NewObjectIdentifier(ObjectTypeLoadControl, 1), "AHU-1 Demand Shed", out,
		[]ShedLevel{{Kind: ShedLevelPercent, Percent: 10}, {Kind: ShedLevelPercent, Percent: 20}},
		[]string{"light shed", "heavy shed"},
	)
	registry := NewRegistry()
	registry.AddAnalogOutput(out)
	registry.AddLoadControl(lc)
	return NewDevice(registry, WithDeviceIdentity(1001, 999)), lc
}

// encodeReadPropertyRequestFrame builds the full BVLC/NPDU/APDU frame for a
// ReadProperty request, the same shape a real client would put on the wire.
func encodeReadPropertyRequestFrame(invokeID uint8, obj ObjectIdentifier, property PropertyIdentifier) []byte {
	body := EncodeContextTag(tagObjectIdentifier, EncodeObjectIdentifier(obj))
	body = append(body, EncodeContextTag(tagPropertyID, EncodeUnsigned(uint32(property)))...)
	apdu := EncodeConfirmedRequest(invokeID, ServiceReadProperty, body, 0, 5)
	npdu := EncodeNPDU(NpduHeader{Data: apdu})
	bvlc := EncodeBVLC(BVLCOriginalUnicastNPDU, len(npdu))
	return append(bvlc, npdu...)
}

// encodeWritePropertyRequestFrame builds a full WriteProperty request
// frame wrapping value in the context-tag-3 bracket handleFrame expects.
func encodeWritePropertyRequestFrame(invokeID uint8, obj ObjectIdentifier, property PropertyIdentifier, value ApplicationValue) []byte {
	body := EncodeContextTag(tagObjectIdentifier, EncodeObjectIdentifier(obj))
	body = append(body, EncodeContextTag(tagPropertyID, EncodeUnsigned(uint32(property)))...)
	body = append(body, EncodeOpeningTag(tagPropertyValue)...)
	encoded, err := EncodeApplication(value)
	if err == nil {
		body = append(body, encoded...)
	}
	body = append(body, EncodeClosingTag(tagPropertyValue)...)
	apdu := EncodeConfirmedRequest(invokeID, ServiceWriteProperty, body, 0, 5)
	npdu := EncodeNPDU(NpduHeader{Data: apdu})
	bvlc := EncodeBVLC(BVLCOriginalUnicastNPDU, len(npdu))
	return append(bvlc, npdu...)
}

// decodeReplyFrame strips BVLC/NPDU framing off a reply frame and returns
// the decoded APDU.
func decodeReplyFrame(t *testing.T, frame []byte) *APDU {
	t.Helper()
	npdu, _, err := DecodeNPDU(frame[4:])
	require.NoError(t, err)
	apdu, err := DecodeAPDU(npdu.Data)
	require.NoError(t, err)
	return apdu
}

func TestDeviceHandleFrameReadProperty(t *testing.T) {
	device, lc := newTestDevice(t)
	req := encodeReadPropertyRequestFrame(1, lc.ObjectID, PropertyObjectName)

	reply, err := device.handleFrame(uuid.New(), req)
	require.NoError(t, err)
	require.NotNil(t, reply)

	apdu := decodeReplyFrame(t, reply)
	require.Equal(t, PDUTypeComplexAck, apdu.Type)
	require.Equal(t, byte(ServiceReadProperty), apdu.Service)
	require.EqualValues(t, 1, device.metrics.ReadPropertyRequests.Value())
}

func TestDeviceHandleFrameWriteProperty(t *testing.T) {
	device, lc := newTestDevice(t)
	req := encodeWritePropertyRequestFrame(2, lc.ObjectID, PropertyEnable, BooleanValue(false))

	reply, err := device.handleFrame(uuid.New(), req)
	require.NoError(t, err)
	require.NotNil(t, reply)

	apdu := decodeReplyFrame(t, reply)
	require.Equal(t, PDUTypeSimpleAck, apdu.Type)
	require.False(t, lc.EnableFlag)
}

func TestDeviceHandleFrameWritePropertyErrorReply(t *testing.T) {
	device, lc := newTestDevice(t)
	req := encodeWritePropertyRequestFrame(3, lc.ObjectID, PropertyPresentValue, UnsignedValue(0))

	reply, err := device.handleFrame(uuid.New(), req)
	require.NoError(t, err)

	apdu := decodeReplyFrame(t, reply)
	require.Equal(t, PDUTypeError, apdu.Type)
	require.EqualValues(t, 1, device.metrics.ServiceErrors.Value())
}

func TestDeviceHandleFrameUnrecognizedServiceRejected(t *testing.T) {
	device, lc := newTestDevice(t)
	apdu := EncodeConfirmedRequest(4, ServiceSubscribeCOV, nil, 0, 5)
	npdu := EncodeNPDU(NpduHeader{Data: apdu})
	bvlc := EncodeBVLC(BVLCOriginalUnicastNPDU, len(npdu))
	frame := append(bvlc, npdu...)

	reply, err := device.handleFrame(uuid.New(), frame)
	require.NoError(t, err)
	got := decodeReplyFrame(t, reply)
	require.Equal(t, PDUTypeReject, got.Type)
	_ = lc
}

func TestDeviceHandleFrameIgnoresUnconfirmedRequest(t *testing.T) {
	device, _ := newTestDevice(t)
	apdu := EncodeUnconfirmedRequest(ServiceWhoIs, nil)
	npdu := EncodeNPDU(NpduHeader{Data: apdu})
	bvlc := EncodeBVLC(BVLCOriginalUnicastNPDU, len(npdu))
	frame := append(bvlc, npdu...)

	reply, err := device.handleFrame(uuid.New(), frame)
	require.NoError(t, err)
	require.Nil(t, reply)
}
