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

import "encoding/binary"

// NpduHeader is a decoded Network Protocol Data Unit header: version,
// control octet, and the fields the control octet's bits 7/5/3/2..0 turn
// on conditionally (destination specifier, source specifier, network
// layer message). Data is whatever follows the header: an APDU for data
// NPDUs, or a network-layer message body when Control has the
// network-layer-message bit set.
type NpduHeader struct {
	Version      uint8
	Control      NPDUControl
	DestNet      uint16
	DestAddr     []byte
	DestHopCount uint8
	SrcNet       uint16
	SrcAddr      []byte
	MessageType  NetworkMessageType
	VendorID     uint16
	Data         []byte
}

const npduVersion = 0x01

// EncodeNPDU encodes an NpduHeader. DestAddr/SrcAddr being non-nil (even
// zero-length, meaning "this network, broadcast") is what turns on the
// corresponding control bit and specifier fields; leave them nil to omit
// the specifier entirely.
func EncodeNPDU(h NpduHeader) []byte {
	control := h.Control
	if h.DestAddr != nil {
		control |= NPDUControlDestSpecifier
	} else {
		control &^= NPDUControlDestSpecifier
	}
	if h.SrcAddr != nil {
		control |= NPDUControlSourceSpecifier
	} else {
		control &^= NPDUControlSourceSpecifier
	}
	if h.MessageType != 0 {
		control |= NPDUControlNetworkLayerMessage
	}

	buf := make([]byte, 0, 8+len(h.DestAddr)+len(h.SrcAddr)+len(h.Data))
	buf = append(buf, npduVersion, byte(control))

	if h.DestAddr != nil {
		buf = append(buf, byte(h.DestNet>>8), byte(h.DestNet))
		buf = append(buf, byte(len(h.DestAddr)))
		buf = append(buf, h.DestAddr...)
	}
	if h.SrcAddr != nil {
		buf = append(buf, byte(h.SrcNet>>8), byte(h.SrcNet))
		buf = append(buf, byte(len(h.SrcAddr)))
		buf = append(buf, h.SrcAddr...)
	}
	if h.DestAddr != nil {
		buf = append(buf, h.DestHopCount)
	}
	if control&NPDUControlNetworkLayerMessage != 0 {
		buf = append(buf, byte(h.MessageType))
		if h.MessageType >= 0x80 {
			buf = append(buf, byte(h.VendorID>>8), byte(h.VendorID))
		}
	}
	buf = append(buf, h.Data...)
	return buf
}

// DecodeNPDU decodes an NpduHeader from the front of data, returning the
// header (with Data set to whatever followed it) and the number of octets
// the header itself occupied (same as len(data)-len(header.Data)).
func DecodeNPDU(data []byte) (NpduHeader, int, error) {
	if len(data) < 2 {
		return NpduHeader{}, 0, newCodecError(CodecTruncatedInput, "npdu header")
	}

	h := NpduHeader{Version: data[0], Control: NPDUControl(data[1])}
	if h.Version != npduVersion {
		return NpduHeader{}, 0, newCodecError(CodecValueOutOfRange, "unsupported npdu version")
	}

	offset := 2

	if h.Control&NPDUControlDestSpecifier != 0 {
		if len(data) < offset+3 {
			return NpduHeader{}, 0, newCodecError(CodecTruncatedInput, "npdu destination specifier")
		}
		h.DestNet = binary.BigEndian.Uint16(data[offset:])
		offset += 2
		addrLen := int(data[offset])
		offset++
		if len(data) < offset+addrLen {
			return NpduHeader{}, 0, newCodecError(CodecTruncatedInput, "npdu destination address")
		}
		h.DestAddr = append([]byte{}, data[offset:offset+addrLen]...)
		offset += addrLen
	}

	if h.Control&NPDUControlSourceSpecifier != 0 {
		if len(data) < offset+3 {
			return NpduHeader{}, 0, newCodecError(CodecTruncatedInput, "npdu source specifier")
		}
		h.SrcNet = binary.BigEndian.Uint16(data[offset:])
		offset += 2
		addrLen := int(data[offset])
		offset++
		if len(data) < offset+addrLen {
			return NpduHeader{}, 0, newCodecError(CodecTruncatedInput, "npdu source address")
		}
		h.SrcAddr = append([]byte{}, data[offset:offset+addrLen]...)
		offset += addrLen
	}

	if h.Control&NPDUControlDestSpecifier != 0 {
		// §4.3: a destination-present frame truncated before its hop count
		// octet defaults hop_count to 0 rather than failing decode.
		if len(data) > offset {
			h.DestHopCount = data[offset]
			offset++
		} else {
			h.DestHopCount = 0
		}
	}

	if h.Control&NPDUControlNetworkLayerMessage != 0 {
		if len(data) < offset+1 {
			return NpduHeader{}, 0, newCodecError(CodecTruncatedInput, "npdu message type")
		}
		h.MessageType = NetworkMessageType(data[offset])
		offset++
		if h.MessageType >= 0x80 {
			// §4.3: a truncated vendor id leaves VendorID at its zero value
			// rather than failing decode.
			if len(data) >= offset+2 {
				h.VendorID = binary.BigEndian.Uint16(data[offset:])
				offset += 2
			}
		}
	}

	h.Data = data[offset:]
	return h, offset, nil
}

// IsConfirmedService reports whether data (an APDU, the NpduHeader's Data
// field for a non-network-layer-message NPDU) is a confirmed service
// request, i.e. expects an ACK/Error/Reject/Abort reply.
func IsConfirmedService(data []byte) bool {
	if len(data) < 1 {
		return false
	}
	return PDUType(data[0]&0xF0) == PDUTypeConfirmedRequest
}
