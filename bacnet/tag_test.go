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

import "testing"

func TestTagHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		tagNum uint8
		class  TagClass
		length int
	}{
		{"short-application", 2, TagClassApplication, 1},
		{"short-context", 3, TagClassContext, 4},
		{"extended-tag-number", 17, TagClassContext, 1},
		{"extended-length-8bit", 0, TagClassApplication, 10},
		{"extended-length-16bit", 0, TagClassApplication, 300},
		{"extended-length-32bit", 0, TagClassApplication, 70000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := EncodeTag(tt.tagNum, tt.class, tt.length)
			tag, n, err := DecodeTagHeader(header)
			if err != nil {
				t.Fatalf("DecodeTagHeader: %v", err)
			}
			if n != len(header) {
				t.Errorf("consumed %d octets, want %d", n, len(header))
			}
			if tag.Number != tt.tagNum || tag.Class != tt.class || tag.LengthValueType != tt.length {
				t.Errorf("got %+v, want number=%d class=%v length=%d", tag, tt.tagNum, tt.class, tt.length)
			}
		})
	}
}

func TestOpeningClosingTags(t *testing.T) {
	open := EncodeOpeningTag(3)
	tag, n, err := DecodeTagHeader(open)
	if err != nil {
		t.Fatalf("decode opening: %v", err)
	}
	if !tag.Opening || tag.Number != 3 || n != len(open) {
		t.Errorf("got %+v, want opening tag 3", tag)
	}

	closing := EncodeClosingTag(3)
	tag, n, err = DecodeTagHeader(closing)
	if err != nil {
		t.Fatalf("decode closing: %v", err)
	}
	if !tag.Closing || tag.Number != 3 || n != len(closing) {
		t.Errorf("got %+v, want closing tag 3", tag)
	}
}

func TestOpeningClosingTagExtendedNumber(t *testing.T) {
	open := EncodeOpeningTag(20)
	tag, _, err := DecodeTagHeader(open)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !tag.Opening || tag.Number != 20 {
		t.Errorf("got %+v, want opening tag 20", tag)
	}
}

func TestDecodeTagHeaderTruncated(t *testing.T) {
	if _, _, err := DecodeTagHeader(nil); err == nil {
		t.Fatal("expected error on empty input")
	}
	// Extended tag number byte missing.
	if _, _, err := DecodeTagHeader([]byte{0xF8}); err == nil {
		t.Fatal("expected error on truncated extended tag number")
	}
	// Extended length (254 marker) with no following 16-bit length.
	if _, _, err := DecodeTagHeader([]byte{0x0D, 254}); err == nil {
		t.Fatal("expected error on truncated 16-bit extended length")
	}
}

func TestUnsignedMinimumOctetRoundTrip(t *testing.T) {
	tests := []uint32{0, 1, 255, 256, 65535, 65536, 16777215, 16777216, 0xFFFFFFFF}
	for _, v := range tests {
		enc := EncodeUnsigned(v)
		got, err := DecodeUnsigned(enc)
		if err != nil {
			t.Fatalf("DecodeUnsigned(%v): %v", enc, err)
		}
		if got != v {
			t.Errorf("round trip %d => %d", v, got)
		}
	}
}

func TestSignedMinimumOctetRoundTrip(t *testing.T) {
	tests := []int32{0, -1, 127, -128, 128, -129, 32767, -32768, 2147483647, -2147483648}
	for _, v := range tests {
		enc := EncodeSigned(v)
		got, err := DecodeSigned(enc)
		if err != nil {
			t.Fatalf("DecodeSigned(%v): %v", enc, err)
		}
		if got != v {
			t.Errorf("round trip %d => %d", v, got)
		}
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	d := BACnetDate{Year: 2026, Month: 8, Day: 6, Weekday: 4}
	got, err := DecodeDate(EncodeDate(d))
	if err != nil {
		t.Fatalf("DecodeDate: %v", err)
	}
	if got != d {
		t.Errorf("got %+v, want %+v", got, d)
	}

	wild := BACnetDate{Year: 0xFFFF, Month: 0xFF, Day: 0xFF, Weekday: 0xFF}
	got, err = DecodeDate(EncodeDate(wild))
	if err != nil {
		t.Fatalf("DecodeDate wildcard: %v", err)
	}
	if got != wild {
		t.Errorf("wildcard round trip got %+v, want %+v", got, wild)
	}

	ti := BACnetTime{Hour: 23, Minute: 59, Second: 58, Hundredths: 50}
	gotTime, err := DecodeTime(EncodeTime(ti))
	if err != nil {
		t.Fatalf("DecodeTime: %v", err)
	}
	if gotTime != ti {
		t.Errorf("got %+v, want %+v", gotTime, ti)
	}
}

func TestBitStringRoundTrip(t *testing.T) {
	b := BACnetBitString{UnusedBits: 5, Bytes: []byte{0xA0}}
	got, err := DecodeBitString(EncodeBitString(b))
	if err != nil {
		t.Fatalf("DecodeBitString: %v", err)
	}
	if got.UnusedBits != b.UnusedBits || string(got.Bytes) != string(b.Bytes) {
		t.Errorf("got %+v, want %+v", got, b)
	}
}

func TestObjectIdentifierRoundTrip(t *testing.T) {
	oid := NewObjectIdentifier(ObjectTypeLoadControl, 12345)
	got, err := DecodeObjectIdentifierBytes(EncodeObjectIdentifier(oid))
	if err != nil {
		t.Fatalf("DecodeObjectIdentifierBytes: %v", err)
	}
	if got != oid {
		t.Errorf("got %+v, want %+v", got, oid)
	}
}
