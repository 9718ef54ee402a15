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
	"bytes"
	"testing"
)

func TestBVLCRoundTrip(t *testing.T) {
	enc := EncodeBVLC(BVLCOriginalUnicastNPDU, 12)
	bvlc, err := DecodeBVLC(enc)
	if err != nil {
		t.Fatalf("DecodeBVLC: %v", err)
	}
	if bvlc.Type != BVLCTypeBACnetIP || bvlc.Function != BVLCOriginalUnicastNPDU || bvlc.Length != 16 {
		t.Errorf("got %+v, want type=%v function=%v length=16", bvlc, BVLCTypeBACnetIP, BVLCOriginalUnicastNPDU)
	}
}

func TestDecodeBVLCTruncated(t *testing.T) {
	if _, err := DecodeBVLC([]byte{0x81, 0x0A}); err == nil {
		t.Fatal("expected error on truncated BVLC header")
	}
}

func TestNPDURoundTripNoSpecifiers(t *testing.T) {
	h := NpduHeader{Data: []byte{0xAA, 0xBB}}
	enc := EncodeNPDU(h)
	got, n, err := DecodeNPDU(enc)
	if err != nil {
		t.Fatalf("DecodeNPDU: %v", err)
	}
	if n != len(enc)-len(h.Data) {
		t.Errorf("header length %d, want %d", n, len(enc)-len(h.Data))
	}
	if !bytes.Equal(got.Data, h.Data) {
		t.Errorf("got data %v, want %v", got.Data, h.Data)
	}
	if got.Control&NPDUControlDestSpecifier != 0 || got.Control&NPDUControlSourceSpecifier != 0 {
		t.Errorf("unexpected specifier bits set in %v", got.Control)
	}
}

func TestNPDURoundTripWithSpecifiers(t *testing.T) {
	h := NpduHeader{
		DestNet:      12,
		DestAddr:     []byte{0x01, 0x02},
		DestHopCount: 255,
		SrcNet:       7,
		SrcAddr:      []byte{0x09},
		Data:         []byte{0x10, 0x20, 0x30},
	}
	enc := EncodeNPDU(h)
	got, _, err := DecodeNPDU(enc)
	if err != nil {
		t.Fatalf("DecodeNPDU: %v", err)
	}
	if got.DestNet != h.DestNet || !bytes.Equal(got.DestAddr, h.DestAddr) || got.DestHopCount != h.DestHopCount {
		t.Errorf("destination fields mismatch: got %+v", got)
	}
	if got.SrcNet != h.SrcNet || !bytes.Equal(got.SrcAddr, h.SrcAddr) {
		t.Errorf("source fields mismatch: got %+v", got)
	}
	if !bytes.Equal(got.Data, h.Data) {
		t.Errorf("got data %v, want %v", got.Data, h.Data)
	}
}

func TestNPDUNetworkLayerMessage(t *testing.T) {
	h := NpduHeader{Control: NPDUControlNetworkLayerMessage, MessageType: NetworkMessageWhoIsRouterToNetwork}
	enc := EncodeNPDU(h)
	got, _, err := DecodeNPDU(enc)
	if err != nil {
		t.Fatalf("DecodeNPDU: %v", err)
	}
	if got.Control&NPDUControlNetworkLayerMessage == 0 {
		t.Fatal("network-layer-message bit not set")
	}
	if got.MessageType != NetworkMessageWhoIsRouterToNetwork {
		t.Errorf("got message type %v, want %v", got.MessageType, NetworkMessageWhoIsRouterToNetwork)
	}
}

func TestDecodeNPDUWrongVersion(t *testing.T) {
	if _, _, err := DecodeNPDU([]byte{0x02, 0x00}); err == nil {
		t.Fatal("expected error on unsupported NPDU version")
	}
}

func TestIsConfirmedService(t *testing.T) {
	confirmed := EncodeConfirmedRequest(1, ServiceReadProperty, nil, 0, 5)
	if !IsConfirmedService(confirmed) {
		t.Error("confirmed request not recognized")
	}
	unconfirmed := EncodeUnconfirmedRequest(ServiceWhoIs, nil)
	if IsConfirmedService(unconfirmed) {
		t.Error("unconfirmed request misreported as confirmed")
	}
}

func TestAPDUConfirmedRequestRoundTrip(t *testing.T) {
	body := []byte{0x0C, 0x01, 0x02, 0x03, 0x04}
	enc := EncodeConfirmedRequest(42, ServiceReadProperty, body, 3, 5)
	apdu, err := DecodeAPDU(enc)
	if err != nil {
		t.Fatalf("DecodeAPDU: %v", err)
	}
	if apdu.Type != PDUTypeConfirmedRequest || apdu.InvokeID != 42 || apdu.Service != byte(ServiceReadProperty) {
		t.Errorf("got %+v", apdu)
	}
	if !bytes.Equal(apdu.Data, body) {
		t.Errorf("got data %v, want %v", apdu.Data, body)
	}
}

func TestAPDUUnconfirmedRequestRoundTrip(t *testing.T) {
	body := []byte{0xAA}
	enc := EncodeUnconfirmedRequest(ServiceWhoIs, body)
	apdu, err := DecodeAPDU(enc)
	if err != nil {
		t.Fatalf("DecodeAPDU: %v", err)
	}
	if apdu.Type != PDUTypeUnconfirmedRequest || apdu.Service != byte(ServiceWhoIs) {
		t.Errorf("got %+v", apdu)
	}
	if !bytes.Equal(apdu.Data, body) {
		t.Errorf("got data %v, want %v", apdu.Data, body)
	}
}

func TestAPDUSimpleAckRoundTrip(t *testing.T) {
	enc := EncodeSimpleAck(9, ServiceWriteProperty)
	apdu, err := DecodeAPDU(enc)
	if err != nil {
		t.Fatalf("DecodeAPDU: %v", err)
	}
	if apdu.Type != PDUTypeSimpleAck || apdu.InvokeID != 9 || apdu.Service != byte(ServiceWriteProperty) {
		t.Errorf("got %+v", apdu)
	}
}

func TestAPDUComplexAckRoundTrip(t *testing.T) {
	body := []byte{0x01, 0x02}
	enc := EncodeComplexAck(9, ServiceReadProperty, body)
	apdu, err := DecodeAPDU(enc)
	if err != nil {
		t.Fatalf("DecodeAPDU: %v", err)
	}
	if apdu.Type != PDUTypeComplexAck || !bytes.Equal(apdu.Data, body) {
		t.Errorf("got %+v", apdu)
	}
}

func TestAPDUErrorRejectAbortRoundTrip(t *testing.T) {
	errEnc := EncodeErrorAPDU(1, ServiceReadProperty, ErrorClassProperty, ErrorCodeUnknownProperty)
	apdu, err := DecodeAPDU(errEnc)
	if err != nil {
		t.Fatalf("DecodeAPDU error: %v", err)
	}
	if apdu.Type != PDUTypeError {
		t.Errorf("got type %v, want error", apdu.Type)
	}

	rejEnc := EncodeRejectAPDU(2, RejectReasonInvalidTag)
	apdu, err = DecodeAPDU(rejEnc)
	if err != nil {
		t.Fatalf("DecodeAPDU reject: %v", err)
	}
	if apdu.Type != PDUTypeReject || apdu.Service != byte(RejectReasonInvalidTag) {
		t.Errorf("got %+v", apdu)
	}

	abtEnc := EncodeAbortAPDU(3, true, AbortReasonOther)
	apdu, err = DecodeAPDU(abtEnc)
	if err != nil {
		t.Fatalf("DecodeAPDU abort: %v", err)
	}
	if apdu.Type&0xF0 != PDUTypeAbort {
		t.Errorf("got type %v, want abort", apdu.Type)
	}
}

func TestDecodeAPDUUnknownType(t *testing.T) {
	if _, err := DecodeAPDU([]byte{0x90}); err == nil {
		t.Fatal("expected error on unknown PDU type")
	}
}
