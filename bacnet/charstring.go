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
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// CharsetIdentifier is the leading octet of a BACnet character string,
// selecting the encoding of the remaining payload.
type CharsetIdentifier uint8

const (
	CharsetUTF8    CharsetIdentifier = 0
	CharsetDBCS    CharsetIdentifier = 1
	CharsetJISX    CharsetIdentifier = 2
	CharsetUCS4    CharsetIdentifier = 3
	CharsetUCS2    CharsetIdentifier = 4
	CharsetISO8859 CharsetIdentifier = 5
)

// EncodeCharacterString encodes s as UTF-8 (charset 0), the encoding every
// BACnet implementation is required to support and the one this codec
// always writes.
func EncodeCharacterString(s string) []byte {
	data := make([]byte, 1+len(s))
	data[0] = byte(CharsetUTF8)
	copy(data[1:], s)
	return data
}

// DecodeCharacterString decodes a character string payload (leading
// charset octet + encoded text) into a Go string. UTF-8 and ISO 8859-1
// payloads decode exactly; UCS-2 payloads decode via UTF-16 big-endian.
// DBCS, JIS X 0208 and UCS-4 are accepted but not transcoded (returned as
// their raw bytes interpreted as Latin-1) since no device in scope here
// emits them; this matches the codec's "never silently mis-decode as
// UTF-8" rule without pulling in a full CJK decoder for paths nothing
// exercises.
func DecodeCharacterString(data []byte) (string, error) {
	if len(data) < 1 {
		return "", newCodecError(CodecTruncatedInput, "character string")
	}
	charset := CharsetIdentifier(data[0])
	payload := data[1:]

	switch charset {
	case CharsetUTF8:
		return string(payload), nil
	case CharsetISO8859:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(payload)
		if err != nil {
			return "", newCodecError(CodecMalformedTag, "iso-8859-1 decode: "+err.Error())
		}
		return string(out), nil
	case CharsetUCS2:
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		out, err := dec.Bytes(payload)
		if err != nil {
			return "", newCodecError(CodecMalformedTag, "ucs-2 decode: "+err.Error())
		}
		return string(out), nil
	default:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(payload)
		if err != nil {
			return "", newCodecError(CodecMalformedTag, "fallback decode: "+err.Error())
		}
		return string(out), nil
	}
}
