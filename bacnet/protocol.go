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
	"encoding/binary"
	"fmt"
)

// BVLCHeader is the BACnet Virtual Link Control header every BACnet/IP
// frame carries in front of its NPDU.
type BVLCHeader struct {
	Type     BVLCType
	Function BVLCFunction
	Length   uint16
}

// EncodeBVLC encodes a BVLC header for an NPDU of npduLength octets.
func EncodeBVLC(function BVLCFunction, npduLength int) []byte {
	totalLength := 4 + npduLength
	buf := make([]byte, 4)
	buf[0] = byte(BVLCTypeBACnetIP)
	buf[1] = byte(function)
	binary.BigEndian.PutUint16(buf[2:], uint16(totalLength))
	return buf
}

// DecodeBVLC decodes a BVLC header.
func DecodeBVLC(data []byte) (*BVLCHeader, error) {
	if len(data) < 4 {
		return nil, ErrInvalidBVLC
	}
	return &BVLCHeader{
		Type:     BVLCType(data[0]),
		Function: BVLCFunction(data[1]),
		Length:   binary.BigEndian.Uint16(data[2:4]),
	}, nil
}

// APDU is a decoded Application Protocol Data Unit.
type APDU struct {
	Type         PDUType
	Segmented    bool
	MoreFollows  bool
	SegmentedAck bool
	MaxSegments  uint8
	MaxAPDU      uint8
	InvokeID     uint8
	SequenceNum  uint8
	WindowSize   uint8
	Service      uint8
	Data         []byte
}

// EncodeConfirmedRequest encodes a confirmed service request APDU.
func EncodeConfirmedRequest(invokeID uint8, service ConfirmedServiceChoice, data []byte, maxSegments, maxAPDU uint8) []byte {
	buf := make([]byte, 0, 4+len(data))
	buf = append(buf, byte(PDUTypeConfirmedRequest))
	buf = append(buf, (maxSegments<<4)|maxAPDU)
	buf = append(buf, invokeID)
	buf = append(buf, byte(service))
	buf = append(buf, data...)
	return buf
}

// EncodeUnconfirmedRequest encodes an unconfirmed service request APDU.
func EncodeUnconfirmedRequest(service UnconfirmedServiceChoice, data []byte) []byte {
	buf := make([]byte, 0, 2+len(data))
	buf = append(buf, byte(PDUTypeUnconfirmedRequest))
	buf = append(buf, byte(service))
	buf = append(buf, data...)
	return buf
}

// EncodeSimpleAck encodes a Simple-ACK APDU.
func EncodeSimpleAck(invokeID uint8, service ConfirmedServiceChoice) []byte {
	return []byte{byte(PDUTypeSimpleAck), invokeID, byte(service)}
}

// EncodeComplexAck encodes a Complex-ACK APDU (unsegmented).
func EncodeComplexAck(invokeID uint8, service ConfirmedServiceChoice, data []byte) []byte {
	buf := make([]byte, 0, 3+len(data))
	buf = append(buf, byte(PDUTypeComplexAck), invokeID, byte(service))
	buf = append(buf, data...)
	return buf
}

// EncodeErrorAPDU encodes an Error APDU carrying an error-class/error-code
// pair as the standard two application-tagged enumerated values.
func EncodeErrorAPDU(invokeID uint8, service ConfirmedServiceChoice, class ErrorClass, code ErrorCode) []byte {
	buf := []byte{byte(PDUTypeError), invokeID, byte(service)}
	buf = append(buf, EncodeApplicationTag(TagEnumerated, EncodeUnsigned(uint32(class)))...)
	buf = append(buf, EncodeApplicationTag(TagEnumerated, EncodeUnsigned(uint32(code)))...)
	return buf
}

// EncodeRejectAPDU encodes a Reject APDU.
func EncodeRejectAPDU(invokeID uint8, reason RejectReason) []byte {
	return []byte{byte(PDUTypeReject), invokeID, byte(reason)}
}

// EncodeAbortAPDU encodes an Abort APDU.
func EncodeAbortAPDU(invokeID uint8, server bool, reason AbortReason) []byte {
	b := byte(0)
	if server {
		b = 1
	}
	return []byte{byte(PDUTypeAbort) | b, invokeID, byte(reason)}
}

// DecodeAPDU decodes an APDU by dispatching on its leading PDU type nibble.
func DecodeAPDU(data []byte) (*APDU, error) {
	if len(data) < 1 {
		return nil, ErrInvalidAPDU
	}

	pduType := PDUType(data[0] & 0xF0)
	switch pduType {
	case PDUTypeConfirmedRequest:
		return decodeConfirmedRequest(data)
	case PDUTypeUnconfirmedRequest:
		return decodeUnconfirmedRequest(data)
	case PDUTypeSimpleAck:
		return decodeSimpleAck(data)
	case PDUTypeComplexAck:
		return decodeComplexAck(data)
	case PDUTypeError:
		return decodeErrorAPDU(data)
	case PDUTypeReject:
		return decodeRejectAPDU(data)
	case PDUTypeAbort:
		return decodeAbortAPDU(data)
	default:
		return nil, fmt.Errorf("%w: unknown PDU type %02x", ErrInvalidAPDU, pduType)
	}
}

func decodeConfirmedRequest(data []byte) (*APDU, error) {
	if len(data) < 4 {
		return nil, ErrInvalidAPDU
	}
	apdu := &APDU{
		Type:        PDUTypeConfirmedRequest,
		Segmented:   data[0]&0x08 != 0,
		MoreFollows: data[0]&0x04 != 0,
		MaxSegments: (data[1] >> 4) & 0x07,
		MaxAPDU:     data[1] & 0x0F,
		InvokeID:    data[2],
		Service:     data[3],
		Data:        data[4:],
	}
	if apdu.Segmented {
		if len(data) < 6 {
			return nil, ErrInvalidAPDU
		}
		apdu.SequenceNum = data[4]
		apdu.WindowSize = data[5]
		apdu.Data = data[6:]
	}
	return apdu, nil
}

func decodeUnconfirmedRequest(data []byte) (*APDU, error) {
	if len(data) < 2 {
		return nil, ErrInvalidAPDU
	}
	return &APDU{Type: PDUTypeUnconfirmedRequest, Service: data[1], Data: data[2:]}, nil
}

func decodeSimpleAck(data []byte) (*APDU, error) {
	if len(data) < 3 {
		return nil, ErrInvalidAPDU
	}
	return &APDU{Type: PDUTypeSimpleAck, InvokeID: data[1], Service: data[2]}, nil
}

func decodeComplexAck(data []byte) (*APDU, error) {
	if len(data) < 3 {
		return nil, ErrInvalidAPDU
	}
	apdu := &APDU{
		Type:        PDUTypeComplexAck,
		Segmented:   data[0]&0x08 != 0,
		MoreFollows: data[0]&0x04 != 0,
		InvokeID:    data[1],
		Service:     data[2],
		Data:        data[3:],
	}
	if apdu.Segmented {
		if len(data) < 5 {
			return nil, ErrInvalidAPDU
		}
		apdu.SequenceNum = data[3]
		apdu.WindowSize = data[4]
		apdu.Data = data[5:]
	}
	return apdu, nil
}

func decodeErrorAPDU(data []byte) (*APDU, error) {
	if len(data) < 3 {
		return nil, ErrInvalidAPDU
	}
	return &APDU{Type: PDUTypeError, InvokeID: data[1], Service: data[2], Data: data[3:]}, nil
}

func decodeRejectAPDU(data []byte) (*APDU, error) {
	if len(data) < 3 {
		return nil, ErrInvalidAPDU
	}
	return &APDU{Type: PDUTypeReject, InvokeID: data[1], Service: data[2]}, nil
}

func decodeAbortAPDU(data []byte) (*APDU, error) {
	if len(data) < 3 {
		return nil, ErrInvalidAPDU
	}
	return &APDU{Type: PDUTypeAbort, InvokeID: data[1], Service: data[2]}, nil
}
