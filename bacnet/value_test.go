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

func TestApplicationValueRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    ApplicationValue
	}{
		{"null", NullValue()},
		{"boolean-true", BooleanValue(true)},
		{"boolean-false", BooleanValue(false)},
		{"unsigned", UnsignedValue(4200)},
		{"signed", SignedValue(-17)},
		{"real", RealValue(98.6)},
		{"double", DoubleValue(3.14159265)},
		{"octet-string", OctetStringValue([]byte{1, 2, 3})},
		{"character-string", CharacterStringValue("AHU-1 Supply Fan")},
		{"enumerated", EnumeratedValue(uint32(ObjectTypeLoadControl))},
		{"date", DateValue(BACnetDate{Year: 2026, Month: 8, Day: 6, Weekday: 4})},
		{"time", TimeValueOf(BACnetTime{Hour: 13, Minute: 5, Second: 0, Hundredths: 0})},
		{"object-id", ObjectIDValue(NewObjectIdentifier(ObjectTypeAnalogOutput, 1))},
		{"bit-string", BitStringValue(BACnetBitString{UnusedBits: 4, Bytes: []byte{0x80}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := EncodeApplication(tt.v)
			if err != nil {
				t.Fatalf("EncodeApplication: %v", err)
			}
			got, n, err := DecodeApplication(enc)
			if err != nil {
				t.Fatalf("DecodeApplication: %v", err)
			}
			if n != len(enc) {
				t.Errorf("consumed %d octets, want %d", n, len(enc))
			}
			if !Same(got, tt.v) {
				t.Errorf("got %+v, want %+v", got, tt.v)
			}
		})
	}
}

func TestDecodeApplicationRejectsContextTag(t *testing.T) {
	ctx := EncodeContextTag(2, EncodeUnsigned(5))
	if _, _, err := DecodeApplication(ctx); err == nil {
		t.Fatal("expected error decoding a context tag as application")
	}
}

func TestContextPrimitiveRoundTrip(t *testing.T) {
	v := UnsignedValue(77)
	enc, err := EncodeContextPrimitive(2, v)
	if err != nil {
		t.Fatalf("EncodeContextPrimitive: %v", err)
	}
	got, n, err := DecodeContextFor(enc, 2, TagUnsignedInt)
	if err != nil {
		t.Fatalf("DecodeContextFor: %v", err)
	}
	if n != len(enc) || got.Unsigned != 77 {
		t.Errorf("got %+v (n=%d), want Unsigned=77 n=%d", got, n, len(enc))
	}
}

func TestDecodeContextForWrongTagNumber(t *testing.T) {
	enc, _ := EncodeContextPrimitive(2, UnsignedValue(1))
	if _, _, err := DecodeContextFor(enc, 3, TagUnsignedInt); err == nil {
		t.Fatal("expected error decoding under the wrong context tag number")
	}
}

func TestCopyDeepCopiesSlices(t *testing.T) {
	orig := OctetStringValue([]byte{1, 2, 3})
	dup := Copy(orig)
	dup.OctetString[0] = 0xFF
	if orig.OctetString[0] == 0xFF {
		t.Fatal("Copy aliased the backing slice")
	}
}

func TestSameDiscriminatesKind(t *testing.T) {
	if Same(UnsignedValue(1), SignedValue(1)) {
		t.Fatal("values of different kinds compared equal")
	}
	if !Same(UnsignedValue(1), UnsignedValue(1)) {
		t.Fatal("identical unsigned values compared unequal")
	}
}

func TestEncodeApplicationRejectsConstructedKind(t *testing.T) {
	v := ApplicationValue{Kind: KindDateTime}
	if _, err := EncodeApplication(v); err == nil {
		t.Fatal("expected error application-tagging a constructed kind")
	}
}

func TestCharacterStringRoundTrip(t *testing.T) {
	s := "AHU-1 Demand Shed"
	enc := EncodeCharacterString(s)
	got, err := DecodeCharacterString(enc)
	if err != nil {
		t.Fatalf("DecodeCharacterString: %v", err)
	}
	if got != s {
		t.Errorf("got %q, want %q", got, s)
	}
}

func TestDecodeCharacterStringISO8859(t *testing.T) {
	payload := append([]byte{byte(CharsetISO8859)}, 0xE9) // 'é' in Latin-1
	got, err := DecodeCharacterString(payload)
	if err != nil {
		t.Fatalf("DecodeCharacterString: %v", err)
	}
	if got != "é" {
		t.Errorf("got %q, want %q", got, "é")
	}
}
