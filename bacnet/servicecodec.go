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

import "errors"

// ReadProperty / WriteProperty request/response bodies use fixed context
// tag numbers per ASHRAE 135: object-identifier[0], property-id[1],
// array-index[2] (optional), property-value[3] (WriteProperty only, a
// constructed bracket wrapping one application-tagged value),
// priority[4] (WriteProperty only, optional, omitted here since this
// codec has no priority-array-aware objects besides the Load Control's
// own commandable Output, driven internally rather than over the wire).
const (
	tagObjectIdentifier = 0
	tagPropertyID       = 1
	tagArrayIndex       = 2
	tagPropertyValue    = 3
)

// decodeReadPropertyRequest decodes a ReadProperty-Request's service
// parameters from the APDU data following the service choice octet.
func decodeReadPropertyRequest(data []byte) (ObjectIdentifier, PropertyIdentifier, uint32, error) {
	obj, n, err := decodeObjectIdentifierContext(data, tagObjectIdentifier)
	if err != nil {
		return ObjectIdentifier{}, 0, 0, err
	}
	data = data[n:]

	propVal, n, err := DecodeContextFor(data, tagPropertyID, TagEnumerated)
	if err != nil {
		return ObjectIdentifier{}, 0, 0, err
	}
	data = data[n:]
	property := PropertyIdentifier(propVal.Enumerated)

	arrayIndex := uint32(ArrayAll)
	if tagPresent(data, tagArrayIndex) {
		idxVal, _, err := DecodeContextFor(data, tagArrayIndex, TagUnsignedInt)
		if err != nil {
			return ObjectIdentifier{}, 0, 0, err
		}
		arrayIndex = idxVal.Unsigned
	}
	return obj, property, arrayIndex, nil
}

// encodeReadPropertyAck encodes a ReadProperty-ACK body: the echoed
// object/property/array-index followed by the property value wrapped in
// a context-tag-3 bracket.
func encodeReadPropertyAck(obj ObjectIdentifier, property PropertyIdentifier, arrayIndex uint32, value ApplicationValue) []byte {
	buf := EncodeContextTag(tagObjectIdentifier, EncodeObjectIdentifier(obj))
	buf = append(buf, EncodeContextTag(tagPropertyID, EncodeUnsigned(uint32(property)))...)
	if arrayIndex != ArrayAll {
		buf = append(buf, EncodeContextTag(tagArrayIndex, EncodeUnsigned(arrayIndex))...)
	}
	buf = append(buf, EncodeOpeningTag(tagPropertyValue)...)
	if value.Kind == KindEmptyList {
		for _, v := range value.List {
			encoded, err := EncodeApplication(v)
			if err == nil {
				buf = append(buf, encoded...)
			}
		}
	} else {
		encoded, err := EncodeApplication(value)
		if err == nil {
			buf = append(buf, encoded...)
		}
	}
	buf = append(buf, EncodeClosingTag(tagPropertyValue)...)
	return buf
}

// decodeWritePropertyRequest decodes a WriteProperty-Request's service
// parameters.
func decodeWritePropertyRequest(data []byte) (ObjectIdentifier, PropertyIdentifier, uint32, ApplicationValue, error) {
	obj, n, err := decodeObjectIdentifierContext(data, tagObjectIdentifier)
	if err != nil {
		return ObjectIdentifier{}, 0, 0, ApplicationValue{}, err
	}
	data = data[n:]

	propVal, n, err := DecodeContextFor(data, tagPropertyID, TagEnumerated)
	if err != nil {
		return ObjectIdentifier{}, 0, 0, ApplicationValue{}, err
	}
	data = data[n:]
	property := PropertyIdentifier(propVal.Enumerated)

	arrayIndex := uint32(ArrayAll)
	if tagPresent(data, tagArrayIndex) {
		idxVal, n2, err := DecodeContextFor(data, tagArrayIndex, TagUnsignedInt)
		if err != nil {
			return ObjectIdentifier{}, 0, 0, ApplicationValue{}, err
		}
		arrayIndex = idxVal.Unsigned
		data = data[n2:]
	}

	n, err = expectOpening(data, tagPropertyValue)
	if err != nil {
		return ObjectIdentifier{}, 0, 0, ApplicationValue{}, err
	}
	data = data[n:]

	value, n, err := DecodeKnownProperty(data, tagPropertyValue, property)
	if err != nil {
		return ObjectIdentifier{}, 0, 0, ApplicationValue{}, err
	}
	_ = n

	return obj, property, arrayIndex, value, nil
}

// decodeObjectIdentifierContext decodes a context-tagged Object
// Identifier bracketed by tagNum.
func decodeObjectIdentifierContext(data []byte, tagNum uint8) (ObjectIdentifier, int, error) {
	v, n, err := DecodeContextFor(data, tagNum, TagObjectID)
	if err != nil {
		return ObjectIdentifier{}, 0, err
	}
	return v.ObjectID, n, nil
}

// ErrorClassAndCode maps a Go error from the dispatcher onto the
// class/code pair an Error-APDU carries, defaulting to Other when err
// doesn't match anything more specific.
func ErrorClassAndCode(err error) (ErrorClass, ErrorCode) {
	var bacnetErr *BACnetError
	if errors.As(err, &bacnetErr) {
		return bacnetErr.Class, bacnetErr.Code
	}
	switch {
	case errors.Is(err, ErrObjectNotFound):
		return ErrorClassObject, ErrorCodeUnknownObject
	case errors.Is(err, ErrPropertyNotFound):
		return ErrorClassProperty, ErrorCodeUnknownProperty
	case errors.Is(err, ErrWriteAccessDenied):
		return ErrorClassProperty, ErrorCodeWriteAccessDenied
	case errors.Is(err, ErrInvalidArrayIndex):
		return ErrorClassProperty, ErrorCodeInvalidArrayIndex
	}
	var codecErr *CodecError
	if errors.As(err, &codecErr) {
		switch codecErr.Kind {
		case CodecTypeMismatch:
			return ErrorClassProperty, ErrorCodeInvalidDataType
		case CodecValueOutOfRange:
			return ErrorClassProperty, ErrorCodeValueOutOfRange
		case CodecWriteAccessDenied:
			return ErrorClassProperty, ErrorCodeWriteAccessDenied
		}
	}
	return ErrorClassDevice, ErrorCodeOther
}
