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

// This file holds the constructed (non-self-describing) ApplicationValue
// shapes: sequences and choices whose member layout the property table
// (not the tag stream alone) determines. Each nests inside an opening/
// closing bracket pair numbered by the caller's context tag, exactly the
// way bacapp.c's compound decoders expect their caller to have already
// matched the outer bracket.

// EncodeDateTimeContext encodes a DateTimeValue wrapped in context tag
// tagNum's opening/closing brackets; the Date and Time members keep their
// own application tags inside the bracket (BACnetDateTime has no per-
// member context numbers).
func EncodeDateTimeContext(tagNum uint8, v DateTimeValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	buf = append(buf, EncodeApplicationTag(TagDate, EncodeDate(v.Date))...)
	buf = append(buf, EncodeApplicationTag(TagTime, EncodeTime(v.Time))...)
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeDateTimeContext decodes a DateTimeValue bracketed by tagNum.
func DecodeDateTimeContext(data []byte, tagNum uint8) (DateTimeValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return DateTimeValue{}, 0, err
	}
	date, n, err := DecodeApplication(data[offset:])
	if err != nil || date.Kind != KindDate {
		return DateTimeValue{}, 0, newCodecError(CodecMalformedTag, "date-time: expected date")
	}
	offset += n
	t, n, err := DecodeApplication(data[offset:])
	if err != nil || t.Kind != KindTime {
		return DateTimeValue{}, 0, newCodecError(CodecMalformedTag, "date-time: expected time")
	}
	offset += n
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return DateTimeValue{}, 0, err
	}
	return DateTimeValue{Date: date.Date, Time: t.Time}, offset + n, nil
}

// EncodeDateRangeContext encodes a DateRangeValue bracketed by tagNum.
func EncodeDateRangeContext(tagNum uint8, v DateRangeValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	buf = append(buf, EncodeApplicationTag(TagDate, EncodeDate(v.StartDate))...)
	buf = append(buf, EncodeApplicationTag(TagDate, EncodeDate(v.EndDate))...)
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeDateRangeContext decodes a DateRangeValue bracketed by tagNum.
func DecodeDateRangeContext(data []byte, tagNum uint8) (DateRangeValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return DateRangeValue{}, 0, err
	}
	start, n, err := DecodeApplication(data[offset:])
	if err != nil || start.Kind != KindDate {
		return DateRangeValue{}, 0, newCodecError(CodecMalformedTag, "date-range: expected start date")
	}
	offset += n
	end, n, err := DecodeApplication(data[offset:])
	if err != nil || end.Kind != KindDate {
		return DateRangeValue{}, 0, newCodecError(CodecMalformedTag, "date-range: expected end date")
	}
	offset += n
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return DateRangeValue{}, 0, err
	}
	return DateRangeValue{StartDate: start.Date, EndDate: end.Date}, offset + n, nil
}

// EncodeTimeStampContext encodes the standard CHOICE{time[0], sequence[1],
// date-time[2]} wrapped in tagNum's brackets.
func EncodeTimeStampContext(tagNum uint8, v TimeStampValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	switch v.Kind {
	case TimeStampTimeKind:
		buf = append(buf, EncodeContextTag(0, EncodeTime(v.Time))...)
	case TimeStampSequenceKind:
		buf = append(buf, EncodeContextTag(1, EncodeUnsigned(v.Sequence))...)
	case TimeStampDateTimeKind:
		buf = append(buf, EncodeDateTimeContext(2, v.DateTime)...)
	}
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeTimeStampContext decodes a TimeStampValue bracketed by tagNum.
func DecodeTimeStampContext(data []byte, tagNum uint8) (TimeStampValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return TimeStampValue{}, 0, err
	}
	tag, _, err := DecodeTagHeader(data[offset:])
	if err != nil {
		return TimeStampValue{}, 0, err
	}
	var out TimeStampValue
	var n int
	switch tag.Number {
	case 0:
		v, m, err := DecodeContextFor(data[offset:], 0, TagTime)
		if err != nil {
			return TimeStampValue{}, 0, err
		}
		out = TimeStampValue{Kind: TimeStampTimeKind, Time: v.Time}
		n = m
	case 1:
		v, m, err := DecodeContextFor(data[offset:], 1, TagUnsignedInt)
		if err != nil {
			return TimeStampValue{}, 0, err
		}
		out = TimeStampValue{Kind: TimeStampSequenceKind, Sequence: v.Unsigned}
		n = m
	case 2:
		dt, m, err := DecodeDateTimeContext(data[offset:], 2)
		if err != nil {
			return TimeStampValue{}, 0, err
		}
		out = TimeStampValue{Kind: TimeStampDateTimeKind, DateTime: dt}
		n = m
	default:
		return TimeStampValue{}, 0, newCodecError(CodecMalformedTag, "unknown time-stamp choice")
	}
	offset += n
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return TimeStampValue{}, 0, err
	}
	return out, offset + n, nil
}

// EncodeHostNPortContext encodes BACnetHostNPort, a CHOICE{name[0] string,
// ip[1] octet-string} host member plus a port[2] unsigned.
func EncodeHostNPortContext(tagNum uint8, v HostNPortValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	if v.IsName {
		buf = append(buf, EncodeContextTag(0, EncodeCharacterString(v.Host))...)
	} else {
		buf = append(buf, EncodeContextTag(1, EncodeOctetString([]byte(v.Host)))...)
	}
	buf = append(buf, EncodeContextTag(2, EncodeUnsigned(uint32(v.Port)))...)
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeHostNPortContext decodes a HostNPortValue bracketed by tagNum.
func DecodeHostNPortContext(data []byte, tagNum uint8) (HostNPortValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return HostNPortValue{}, 0, err
	}
	tag, _, err := DecodeTagHeader(data[offset:])
	if err != nil {
		return HostNPortValue{}, 0, err
	}
	var out HostNPortValue
	switch tag.Number {
	case 0:
		v, n, err := DecodeContextFor(data[offset:], 0, TagCharacterString)
		if err != nil {
			return HostNPortValue{}, 0, err
		}
		out.IsName = true
		out.Host = v.CharacterString
		offset += n
	case 1:
		v, n, err := DecodeContextFor(data[offset:], 1, TagOctetString)
		if err != nil {
			return HostNPortValue{}, 0, err
		}
		out.Host = string(v.OctetString)
		offset += n
	default:
		return HostNPortValue{}, 0, newCodecError(CodecMalformedTag, "unknown host-n-port choice")
	}
	port, n, err := DecodeContextFor(data[offset:], 2, TagUnsignedInt)
	if err != nil {
		return HostNPortValue{}, 0, err
	}
	out.Port = uint16(port.Unsigned)
	offset += n
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return HostNPortValue{}, 0, err
	}
	return out, offset + n, nil
}

// EncodeDeviceObjectPropertyReferenceContext encodes the standard
// SEQUENCE{object-id[0], property-id[1], array-index[2] OPTIONAL,
// device-id[3] OPTIONAL} bracketed by tagNum.
func EncodeDeviceObjectPropertyReferenceContext(tagNum uint8, v DeviceObjectPropertyReferenceValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	buf = append(buf, EncodeContextTag(0, EncodeObjectIdentifier(v.ObjectID))...)
	buf = append(buf, EncodeContextTag(1, EncodeUnsigned(uint32(v.PropertyID)))...)
	if v.ArrayIndex != nil {
		buf = append(buf, EncodeContextTag(2, EncodeUnsigned(*v.ArrayIndex))...)
	}
	if v.DeviceID != nil {
		buf = append(buf, EncodeContextTag(3, EncodeObjectIdentifier(*v.DeviceID))...)
	}
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeDeviceObjectPropertyReferenceContext decodes the reference
// bracketed by tagNum.
func DecodeDeviceObjectPropertyReferenceContext(data []byte, tagNum uint8) (DeviceObjectPropertyReferenceValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return DeviceObjectPropertyReferenceValue{}, 0, err
	}
	oid, n, err := DecodeContextFor(data[offset:], 0, TagObjectID)
	if err != nil {
		return DeviceObjectPropertyReferenceValue{}, 0, err
	}
	offset += n
	prop, n, err := DecodeContextFor(data[offset:], 1, TagUnsignedInt)
	if err != nil {
		return DeviceObjectPropertyReferenceValue{}, 0, err
	}
	offset += n

	out := DeviceObjectPropertyReferenceValue{ObjectID: oid.ObjectID, PropertyID: PropertyIdentifier(prop.Unsigned)}

	if tagPresent(data[offset:], 2) {
		idx, n, err := DecodeContextFor(data[offset:], 2, TagUnsignedInt)
		if err != nil {
			return DeviceObjectPropertyReferenceValue{}, 0, err
		}
		out.ArrayIndex = &idx.Unsigned
		offset += n
	}
	if tagPresent(data[offset:], 3) {
		dev, n, err := DecodeContextFor(data[offset:], 3, TagObjectID)
		if err != nil {
			return DeviceObjectPropertyReferenceValue{}, 0, err
		}
		out.DeviceID = &dev.ObjectID
		offset += n
	}
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return DeviceObjectPropertyReferenceValue{}, 0, err
	}
	return out, offset + n, nil
}

// EncodeDeviceObjectReferenceContext encodes SEQUENCE{device-id[0]
// OPTIONAL, object-id[1]} bracketed by tagNum.
func EncodeDeviceObjectReferenceContext(tagNum uint8, v DeviceObjectReferenceValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	if v.DeviceID != nil {
		buf = append(buf, EncodeContextTag(0, EncodeObjectIdentifier(*v.DeviceID))...)
	}
	buf = append(buf, EncodeContextTag(1, EncodeObjectIdentifier(v.ObjectID))...)
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeDeviceObjectReferenceContext decodes the reference bracketed by
// tagNum.
func DecodeDeviceObjectReferenceContext(data []byte, tagNum uint8) (DeviceObjectReferenceValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return DeviceObjectReferenceValue{}, 0, err
	}
	var out DeviceObjectReferenceValue
	if tagPresent(data[offset:], 0) {
		dev, n, err := DecodeContextFor(data[offset:], 0, TagObjectID)
		if err != nil {
			return DeviceObjectReferenceValue{}, 0, err
		}
		out.DeviceID = &dev.ObjectID
		offset += n
	}
	oid, n, err := DecodeContextFor(data[offset:], 1, TagObjectID)
	if err != nil {
		return DeviceObjectReferenceValue{}, 0, err
	}
	out.ObjectID = oid.ObjectID
	offset += n
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return DeviceObjectReferenceValue{}, 0, err
	}
	return out, offset + n, nil
}

// EncodeObjectPropertyReferenceContext encodes SEQUENCE{object-id[0],
// property-id[1], array-index[2] OPTIONAL} bracketed by tagNum.
func EncodeObjectPropertyReferenceContext(tagNum uint8, v ObjectPropertyReferenceValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	buf = append(buf, EncodeContextTag(0, EncodeObjectIdentifier(v.ObjectID))...)
	buf = append(buf, EncodeContextTag(1, EncodeUnsigned(uint32(v.PropertyID)))...)
	if v.ArrayIndex != nil {
		buf = append(buf, EncodeContextTag(2, EncodeUnsigned(*v.ArrayIndex))...)
	}
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeObjectPropertyReferenceContext decodes the reference bracketed by
// tagNum.
func DecodeObjectPropertyReferenceContext(data []byte, tagNum uint8) (ObjectPropertyReferenceValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return ObjectPropertyReferenceValue{}, 0, err
	}
	oid, n, err := DecodeContextFor(data[offset:], 0, TagObjectID)
	if err != nil {
		return ObjectPropertyReferenceValue{}, 0, err
	}
	offset += n
	prop, n, err := DecodeContextFor(data[offset:], 1, TagUnsignedInt)
	if err != nil {
		return ObjectPropertyReferenceValue{}, 0, err
	}
	offset += n
	out := ObjectPropertyReferenceValue{ObjectID: oid.ObjectID, PropertyID: PropertyIdentifier(prop.Unsigned)}
	if tagPresent(data[offset:], 2) {
		idx, n, err := DecodeContextFor(data[offset:], 2, TagUnsignedInt)
		if err != nil {
			return ObjectPropertyReferenceValue{}, 0, err
		}
		out.ArrayIndex = &idx.Unsigned
		offset += n
	}
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return ObjectPropertyReferenceValue{}, 0, err
	}
	return out, offset + n, nil
}

// EncodeTimeValue encodes one BACnetTimeValue pair: a bare application-
// tagged Time followed by a bare application-tagged value, with no
// bracket of its own (the enclosing SEQUENCE OF supplies that).
func EncodeTimeValue(tv TimeValue) ([]byte, error) {
	buf := EncodeApplicationTag(TagTime, EncodeTime(tv.Time))
	enc, err := EncodeApplication(tv.Value)
	if err != nil {
		return nil, err
	}
	return append(buf, enc...), nil
}

// DecodeTimeValue decodes one BACnetTimeValue pair from the front of data.
func DecodeTimeValue(data []byte) (TimeValue, int, error) {
	t, n, err := DecodeApplication(data)
	if err != nil || t.Kind != KindTime {
		return TimeValue{}, 0, newCodecError(CodecMalformedTag, "time-value: expected time")
	}
	v, m, err := DecodeApplication(data[n:])
	if err != nil {
		return TimeValue{}, 0, err
	}
	return TimeValue{Time: t.Time, Value: v}, n + m, nil
}

// EncodeLightingCommandContext encodes a LIGHTING_COMMAND bracketed by
// tagNum: operation[0] plus the optional target-level[1]/ramp-rate[2]/
// step-increment[3]/fade-time[4]/priority[5] members.
func EncodeLightingCommandContext(tagNum uint8, v LightingCommandValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	buf = append(buf, EncodeContextTag(0, EncodeUnsigned(v.Operation))...)
	if v.TargetLevel != nil {
		buf = append(buf, EncodeContextTag(1, EncodeReal(*v.TargetLevel))...)
	}
	if v.RampRate != nil {
		buf = append(buf, EncodeContextTag(2, EncodeReal(*v.RampRate))...)
	}
	if v.StepIncrement != nil {
		buf = append(buf, EncodeContextTag(3, EncodeReal(*v.StepIncrement))...)
	}
	if v.FadeTime != nil {
		buf = append(buf, EncodeContextTag(4, EncodeUnsigned(*v.FadeTime))...)
	}
	if v.Priority != nil {
		buf = append(buf, EncodeContextTag(5, EncodeUnsigned(*v.Priority))...)
	}
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeLightingCommandContext decodes a LIGHTING_COMMAND bracketed by
// tagNum.
func DecodeLightingCommandContext(data []byte, tagNum uint8) (LightingCommandValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return LightingCommandValue{}, 0, err
	}
	op, n, err := DecodeContextFor(data[offset:], 0, TagUnsignedInt)
	if err != nil {
		return LightingCommandValue{}, 0, err
	}
	out := LightingCommandValue{Operation: op.Unsigned}
	offset += n
	if tagPresent(data[offset:], 1) {
		v, n, err := DecodeContextFor(data[offset:], 1, TagReal)
		if err != nil {
			return LightingCommandValue{}, 0, err
		}
		out.TargetLevel = &v.Real
		offset += n
	}
	if tagPresent(data[offset:], 2) {
		v, n, err := DecodeContextFor(data[offset:], 2, TagReal)
		if err != nil {
			return LightingCommandValue{}, 0, err
		}
		out.RampRate = &v.Real
		offset += n
	}
	if tagPresent(data[offset:], 3) {
		v, n, err := DecodeContextFor(data[offset:], 3, TagReal)
		if err != nil {
			return LightingCommandValue{}, 0, err
		}
		out.StepIncrement = &v.Real
		offset += n
	}
	if tagPresent(data[offset:], 4) {
		v, n, err := DecodeContextFor(data[offset:], 4, TagUnsignedInt)
		if err != nil {
			return LightingCommandValue{}, 0, err
		}
		out.FadeTime = &v.Unsigned
		offset += n
	}
	if tagPresent(data[offset:], 5) {
		v, n, err := DecodeContextFor(data[offset:], 5, TagUnsignedInt)
		if err != nil {
			return LightingCommandValue{}, 0, err
		}
		out.Priority = &v.Unsigned
		offset += n
	}
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return LightingCommandValue{}, 0, err
	}
	return out, offset + n, nil
}

// EncodeXYColorContext encodes an XY-COLOR pair bracketed by tagNum:
// x-coordinate[0], y-coordinate[1], both REAL.
func EncodeXYColorContext(tagNum uint8, v XYColorValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	buf = append(buf, EncodeContextTag(0, EncodeReal(v.X))...)
	buf = append(buf, EncodeContextTag(1, EncodeReal(v.Y))...)
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeXYColorContext decodes an XY-COLOR pair bracketed by tagNum.
func DecodeXYColorContext(data []byte, tagNum uint8) (XYColorValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return XYColorValue{}, 0, err
	}
	x, n, err := DecodeContextFor(data[offset:], 0, TagReal)
	if err != nil {
		return XYColorValue{}, 0, err
	}
	offset += n
	y, n, err := DecodeContextFor(data[offset:], 1, TagReal)
	if err != nil {
		return XYColorValue{}, 0, err
	}
	offset += n
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return XYColorValue{}, 0, err
	}
	return XYColorValue{X: x.Real, Y: y.Real}, offset + n, nil
}

// EncodeColorCommandContext encodes a COLOR_COMMAND bracketed by tagNum:
// operation[0] plus the optional target-color[1]/target-color-temp[2]/
// fade-time[3] members.
func EncodeColorCommandContext(tagNum uint8, v ColorCommandValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	buf = append(buf, EncodeContextTag(0, EncodeUnsigned(v.Operation))...)
	if v.TargetColor != nil {
		buf = append(buf, EncodeXYColorContext(1, *v.TargetColor)...)
	}
	if v.TargetColorTemp != nil {
		buf = append(buf, EncodeContextTag(2, EncodeUnsigned(*v.TargetColorTemp))...)
	}
	if v.FadeTime != nil {
		buf = append(buf, EncodeContextTag(3, EncodeUnsigned(*v.FadeTime))...)
	}
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeColorCommandContext decodes a COLOR_COMMAND bracketed by tagNum.
func DecodeColorCommandContext(data []byte, tagNum uint8) (ColorCommandValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return ColorCommandValue{}, 0, err
	}
	op, n, err := DecodeContextFor(data[offset:], 0, TagUnsignedInt)
	if err != nil {
		return ColorCommandValue{}, 0, err
	}
	out := ColorCommandValue{Operation: op.Unsigned}
	offset += n
	if tagPresent(data[offset:], 1) {
		xy, n, err := DecodeXYColorContext(data[offset:], 1)
		if err != nil {
			return ColorCommandValue{}, 0, err
		}
		out.TargetColor = &xy
		offset += n
	}
	if tagPresent(data[offset:], 2) {
		v, n, err := DecodeContextFor(data[offset:], 2, TagUnsignedInt)
		if err != nil {
			return ColorCommandValue{}, 0, err
		}
		out.TargetColorTemp = &v.Unsigned
		offset += n
	}
	if tagPresent(data[offset:], 3) {
		v, n, err := DecodeContextFor(data[offset:], 3, TagUnsignedInt)
		if err != nil {
			return ColorCommandValue{}, 0, err
		}
		out.FadeTime = &v.Unsigned
		offset += n
	}
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return ColorCommandValue{}, 0, err
	}
	return out, offset + n, nil
}

// EncodeWeeklyScheduleContext encodes the 7-day BACnetWeeklySchedule
// bracketed by tagNum: each day is itself a day-schedule[0] SEQUENCE OF
// BACnetTimeValue bracket, in Monday..Sunday order.
func EncodeWeeklyScheduleContext(tagNum uint8, v [7]DaySchedule) ([]byte, error) {
	buf := EncodeOpeningTag(tagNum)
	for _, day := range v {
		buf = append(buf, EncodeOpeningTag(0)...)
		for _, tv := range day.Entries {
			enc, err := EncodeTimeValue(tv)
			if err != nil {
				return nil, err
			}
			buf = append(buf, enc...)
		}
		buf = append(buf, EncodeClosingTag(0)...)
	}
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf, nil
}

// DecodeWeeklyScheduleContext decodes a BACnetWeeklySchedule bracketed by
// tagNum.
func DecodeWeeklyScheduleContext(data []byte, tagNum uint8) ([7]DaySchedule, int, error) {
	var out [7]DaySchedule
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return out, 0, err
	}
	for day := 0; day < 7; day++ {
		n, err := expectOpening(data[offset:], 0)
		if err != nil {
			return out, 0, err
		}
		offset += n
		for {
			tag, _, err := DecodeTagHeader(data[offset:])
			if err != nil {
				return out, 0, err
			}
			if tag.Closing && tag.Number == 0 {
				break
			}
			tv, n, err := DecodeTimeValue(data[offset:])
			if err != nil {
				return out, 0, err
			}
			out[day].Entries = append(out[day].Entries, tv)
			offset += n
		}
		n, err = expectClosing(data[offset:], 0)
		if err != nil {
			return out, 0, err
		}
		offset += n
	}
	n, err := expectClosing(data[offset:], tagNum)
	if err != nil {
		return out, 0, err
	}
	return out, offset + n, nil
}

// EncodeCalendarEntryContext encodes the standard CHOICE{date[0],
// date-range[1], week-n-day[2]} bracketed by tagNum. week-n-day is carried
// as a 3-octet string (month, week-of-month, day-of-week).
func EncodeCalendarEntryContext(tagNum uint8, v CalendarEntryValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	switch v.Kind {
	case CalendarEntryDateKind:
		buf = append(buf, EncodeContextTag(0, EncodeDate(v.Date))...)
	case CalendarEntryDateRangeKind:
		buf = append(buf, EncodeDateRangeContext(1, v.DateRange)...)
	default:
		buf = append(buf, EncodeContextTag(2, []byte{v.WeekNDay.Month, v.WeekNDay.WeekOfMonth, v.WeekNDay.DayOfWeek})...)
	}
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeCalendarEntryContext decodes a BACnetCalendarEntry bracketed by
// tagNum.
func DecodeCalendarEntryContext(data []byte, tagNum uint8) (CalendarEntryValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return CalendarEntryValue{}, 0, err
	}
	tag, _, err := DecodeTagHeader(data[offset:])
	if err != nil {
		return CalendarEntryValue{}, 0, err
	}
	var out CalendarEntryValue
	var n int
	switch tag.Number {
	case 0:
		v, m, err := DecodeContextFor(data[offset:], 0, TagDate)
		if err != nil {
			return CalendarEntryValue{}, 0, err
		}
		out = CalendarEntryValue{Kind: CalendarEntryDateKind, Date: v.Date}
		n = m
	case 1:
		dr, m, err := DecodeDateRangeContext(data[offset:], 1)
		if err != nil {
			return CalendarEntryValue{}, 0, err
		}
		out = CalendarEntryValue{Kind: CalendarEntryDateRangeKind, DateRange: dr}
		n = m
	case 2:
		hdr, hn, err := DecodeTagHeader(data[offset:])
		if err != nil {
			return CalendarEntryValue{}, 0, err
		}
		if len(data[offset:]) < hn+3 {
			return CalendarEntryValue{}, 0, newCodecError(CodecTruncatedInput, "week-n-day")
		}
		payload := data[offset+hn : offset+hn+3]
		out = CalendarEntryValue{Kind: CalendarEntryWeekNDayKind, WeekNDay: WeekNDay{
			Month: payload[0], WeekOfMonth: payload[1], DayOfWeek: payload[2],
		}}
		_ = hdr
		n = hn + 3
	default:
		return CalendarEntryValue{}, 0, newCodecError(CodecMalformedTag, "unknown calendar-entry choice")
	}
	offset += n
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return CalendarEntryValue{}, 0, err
	}
	return out, offset + n, nil
}

// EncodeSpecialEventContext encodes a BACnetSpecialEvent bracketed by
// tagNum: period CHOICE{calendar-entry[0], calendar-reference[1]},
// list-of-time-values[2], event-priority[3].
func EncodeSpecialEventContext(tagNum uint8, v SpecialEventValue) ([]byte, error) {
	buf := EncodeOpeningTag(tagNum)
	if v.PeriodIsCalendarReference {
		buf = append(buf, EncodeContextTag(1, EncodeObjectIdentifier(v.CalendarReference))...)
	} else {
		buf = append(buf, EncodeCalendarEntryContext(0, v.Period)...)
	}
	buf = append(buf, EncodeOpeningTag(2)...)
	for _, tv := range v.TimeValues {
		enc, err := EncodeTimeValue(tv)
		if err != nil {
			return nil, err
		}
		buf = append(buf, enc...)
	}
	buf = append(buf, EncodeClosingTag(2)...)
	buf = append(buf, EncodeContextTag(3, EncodeUnsigned(v.EventPriority))...)
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf, nil
}

// DecodeSpecialEventContext decodes a BACnetSpecialEvent bracketed by
// tagNum.
func DecodeSpecialEventContext(data []byte, tagNum uint8) (SpecialEventValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return SpecialEventValue{}, 0, err
	}
	var out SpecialEventValue
	tag, _, err := DecodeTagHeader(data[offset:])
	if err != nil {
		return SpecialEventValue{}, 0, err
	}
	if tag.Number == 1 {
		ref, n, err := DecodeContextFor(data[offset:], 1, TagObjectID)
		if err != nil {
			return SpecialEventValue{}, 0, err
		}
		out.PeriodIsCalendarReference = true
		out.CalendarReference = ref.ObjectID
		offset += n
	} else {
		entry, n, err := DecodeCalendarEntryContext(data[offset:], 0)
		if err != nil {
			return SpecialEventValue{}, 0, err
		}
		out.Period = entry
		offset += n
	}
	n, err := expectOpening(data[offset:], 2)
	if err != nil {
		return SpecialEventValue{}, 0, err
	}
	offset += n
	for {
		tag, _, err := DecodeTagHeader(data[offset:])
		if err != nil {
			return SpecialEventValue{}, 0, err
		}
		if tag.Closing && tag.Number == 2 {
			break
		}
		tv, n, err := DecodeTimeValue(data[offset:])
		if err != nil {
			return SpecialEventValue{}, 0, err
		}
		out.TimeValues = append(out.TimeValues, tv)
		offset += n
	}
	n, err = expectClosing(data[offset:], 2)
	if err != nil {
		return SpecialEventValue{}, 0, err
	}
	offset += n
	prio, n, err := DecodeContextFor(data[offset:], 3, TagUnsignedInt)
	if err != nil {
		return SpecialEventValue{}, 0, err
	}
	out.EventPriority = prio.Unsigned
	offset += n
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return SpecialEventValue{}, 0, err
	}
	return out, offset + n, nil
}

// EncodeDestinationContext encodes a BACnetDestination bracketed by
// tagNum: valid-days[0], from-time[1], to-time[2], recipient[3],
// process-identifier[4], issue-confirmed-notifications[5], transitions[6].
func EncodeDestinationContext(tagNum uint8, v DestinationValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	buf = append(buf, EncodeContextTag(0, EncodeBitString(v.ValidDays))...)
	buf = append(buf, EncodeContextTag(1, EncodeTime(v.FromTime))...)
	buf = append(buf, EncodeContextTag(2, EncodeTime(v.ToTime))...)
	buf = append(buf, EncodeDeviceObjectReferenceContext(3, v.Recipient)...)
	buf = append(buf, EncodeContextTag(4, EncodeUnsigned(v.ProcessIdentifier))...)
	confirmed := []byte{0}
	if v.IssueConfirmedNotifications {
		confirmed = []byte{1}
	}
	buf = append(buf, EncodeContextTag(5, confirmed)...)
	buf = append(buf, EncodeContextTag(6, EncodeBitString(v.Transitions))...)
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeDestinationContext decodes a BACnetDestination bracketed by
// tagNum.
func DecodeDestinationContext(data []byte, tagNum uint8) (DestinationValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return DestinationValue{}, 0, err
	}
	validDays, n, err := DecodeContextFor(data[offset:], 0, TagBitString)
	if err != nil {
		return DestinationValue{}, 0, err
	}
	offset += n
	from, n, err := DecodeContextFor(data[offset:], 1, TagTime)
	if err != nil {
		return DestinationValue{}, 0, err
	}
	offset += n
	to, n, err := DecodeContextFor(data[offset:], 2, TagTime)
	if err != nil {
		return DestinationValue{}, 0, err
	}
	offset += n
	recipient, n, err := DecodeDeviceObjectReferenceContext(data[offset:], 3)
	if err != nil {
		return DestinationValue{}, 0, err
	}
	offset += n
	pid, n, err := DecodeContextFor(data[offset:], 4, TagUnsignedInt)
	if err != nil {
		return DestinationValue{}, 0, err
	}
	offset += n
	confirmed, n, err := DecodeContextFor(data[offset:], 5, TagBoolean)
	if err != nil {
		return DestinationValue{}, 0, err
	}
	offset += n
	transitions, n, err := DecodeContextFor(data[offset:], 6, TagBitString)
	if err != nil {
		return DestinationValue{}, 0, err
	}
	offset += n
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return DestinationValue{}, 0, err
	}
	return DestinationValue{
		ValidDays:                   validDays.BitString,
		FromTime:                    from.Time,
		ToTime:                      to.Time,
		Recipient:                   recipient,
		ProcessIdentifier:           pid.Unsigned,
		IssueConfirmedNotifications: confirmed.Boolean,
		Transitions:                 transitions.BitString,
	}, offset + n, nil
}

// EncodeBDTEntryContext encodes one Broadcast Distribution Table entry
// bracketed by tagNum: address[0] as a raw IP+port octet string, mask[1]
// as a raw octet string, the same shapes bvlc.c's BDT read/write uses on
// the wire.
func EncodeBDTEntryContext(tagNum uint8, v BDTEntryValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	buf = append(buf, EncodeContextTag(0, EncodeOctetString(v.Address.Addr))...)
	buf = append(buf, EncodeContextTag(1, EncodeOctetString(v.Mask))...)
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeBDTEntryContext decodes a BDTEntryValue bracketed by tagNum.
func DecodeBDTEntryContext(data []byte, tagNum uint8) (BDTEntryValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return BDTEntryValue{}, 0, err
	}
	addr, n, err := DecodeContextFor(data[offset:], 0, TagOctetString)
	if err != nil {
		return BDTEntryValue{}, 0, err
	}
	offset += n
	mask, n, err := DecodeContextFor(data[offset:], 1, TagOctetString)
	if err != nil {
		return BDTEntryValue{}, 0, err
	}
	offset += n
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return BDTEntryValue{}, 0, err
	}
	return BDTEntryValue{Address: Address{Addr: addr.OctetString}, Mask: mask.OctetString}, offset + n, nil
}

// EncodeFDTEntryContext encodes one Foreign Device Table entry bracketed
// by tagNum: address[0], ttl[1], seconds-remaining[2].
func EncodeFDTEntryContext(tagNum uint8, v FDTEntryValue) []byte {
	buf := EncodeOpeningTag(tagNum)
	buf = append(buf, EncodeContextTag(0, EncodeOctetString(v.Address.Addr))...)
	buf = append(buf, EncodeContextTag(1, EncodeUnsigned(v.TTL))...)
	buf = append(buf, EncodeContextTag(2, EncodeUnsigned(v.SecondsRemaining))...)
	buf = append(buf, EncodeClosingTag(tagNum)...)
	return buf
}

// DecodeFDTEntryContext decodes an FDTEntryValue bracketed by tagNum.
func DecodeFDTEntryContext(data []byte, tagNum uint8) (FDTEntryValue, int, error) {
	offset, err := expectOpening(data, tagNum)
	if err != nil {
		return FDTEntryValue{}, 0, err
	}
	addr, n, err := DecodeContextFor(data[offset:], 0, TagOctetString)
	if err != nil {
		return FDTEntryValue{}, 0, err
	}
	offset += n
	ttl, n, err := DecodeContextFor(data[offset:], 1, TagUnsignedInt)
	if err != nil {
		return FDTEntryValue{}, 0, err
	}
	offset += n
	remaining, n, err := DecodeContextFor(data[offset:], 2, TagUnsignedInt)
	if err != nil {
		return FDTEntryValue{}, 0, err
	}
	offset += n
	n, err = expectClosing(data[offset:], tagNum)
	if err != nil {
		return FDTEntryValue{}, 0, err
	}
	return FDTEntryValue{Address: Address{Addr: addr.OctetString}, TTL: ttl.Unsigned, SecondsRemaining: remaining.Unsigned}, offset + n, nil
}

// EncodeValueContext encodes any ApplicationValue (primitive or
// constructed) bracketed by tagNum, dispatching on Kind to the matching
// Encode*Context helper for the sixteen constructed shapes that have no
// bare application tag of their own.
func EncodeValueContext(tagNum uint8, v ApplicationValue) ([]byte, error) {
	switch v.Kind {
	case KindDateTime:
		return EncodeDateTimeContext(tagNum, v.DateTime), nil
	case KindDateRange:
		return EncodeDateRangeContext(tagNum, v.DateRange), nil
	case KindTimeStamp:
		return EncodeTimeStampContext(tagNum, v.TimeStamp), nil
	case KindLightingCommand:
		return EncodeLightingCommandContext(tagNum, v.LightingCommand), nil
	case KindXYColor:
		return EncodeXYColorContext(tagNum, v.XYColor), nil
	case KindColorCommand:
		return EncodeColorCommandContext(tagNum, v.ColorCommand), nil
	case KindWeeklySchedule:
		return EncodeWeeklyScheduleContext(tagNum, v.WeeklySchedule)
	case KindCalendarEntry:
		return EncodeCalendarEntryContext(tagNum, v.CalendarEntry), nil
	case KindSpecialEvent:
		return EncodeSpecialEventContext(tagNum, v.SpecialEvent)
	case KindHostNPort:
		return EncodeHostNPortContext(tagNum, v.HostNPort), nil
	case KindDeviceObjectPropertyReference:
		return EncodeDeviceObjectPropertyReferenceContext(tagNum, v.DevObjPropRef), nil
	case KindDeviceObjectReference:
		return EncodeDeviceObjectReferenceContext(tagNum, v.DevObjRef), nil
	case KindObjectPropertyReference:
		return EncodeObjectPropertyReferenceContext(tagNum, v.ObjPropRef), nil
	case KindDestination:
		return EncodeDestinationContext(tagNum, v.Destination), nil
	case KindBDTEntry:
		return EncodeBDTEntryContext(tagNum, v.BDTEntry), nil
	case KindFDTEntry:
		return EncodeFDTEntryContext(tagNum, v.FDTEntry), nil
	default:
		return EncodeContextPrimitive(tagNum, v)
	}
}

// DecodeValueContextAs decodes a bracketed or primitive context-tagged
// value known to be kind, the constructed-shape counterpart to
// DecodeContextFor.
func DecodeValueContextAs(data []byte, tagNum uint8, kind ValueKind) (ApplicationValue, int, error) {
	switch kind {
	case KindDateTime:
		v, n, err := DecodeDateTimeContext(data, tagNum)
		return ApplicationValue{Kind: KindDateTime, DateTime: v}, n, err
	case KindDateRange:
		v, n, err := DecodeDateRangeContext(data, tagNum)
		return ApplicationValue{Kind: KindDateRange, DateRange: v}, n, err
	case KindTimeStamp:
		v, n, err := DecodeTimeStampContext(data, tagNum)
		return ApplicationValue{Kind: KindTimeStamp, TimeStamp: v}, n, err
	case KindLightingCommand:
		v, n, err := DecodeLightingCommandContext(data, tagNum)
		return ApplicationValue{Kind: KindLightingCommand, LightingCommand: v}, n, err
	case KindXYColor:
		v, n, err := DecodeXYColorContext(data, tagNum)
		return ApplicationValue{Kind: KindXYColor, XYColor: v}, n, err
	case KindColorCommand:
		v, n, err := DecodeColorCommandContext(data, tagNum)
		return ApplicationValue{Kind: KindColorCommand, ColorCommand: v}, n, err
	case KindWeeklySchedule:
		v, n, err := DecodeWeeklyScheduleContext(data, tagNum)
		return ApplicationValue{Kind: KindWeeklySchedule, WeeklySchedule: v}, n, err
	case KindCalendarEntry:
		v, n, err := DecodeCalendarEntryContext(data, tagNum)
		return ApplicationValue{Kind: KindCalendarEntry, CalendarEntry: v}, n, err
	case KindSpecialEvent:
		v, n, err := DecodeSpecialEventContext(data, tagNum)
		return ApplicationValue{Kind: KindSpecialEvent, SpecialEvent: v}, n, err
	case KindHostNPort:
		v, n, err := DecodeHostNPortContext(data, tagNum)
		return ApplicationValue{Kind: KindHostNPort, HostNPort: v}, n, err
	case KindDeviceObjectPropertyReference:
		v, n, err := DecodeDeviceObjectPropertyReferenceContext(data, tagNum)
		return ApplicationValue{Kind: KindDeviceObjectPropertyReference, DevObjPropRef: v}, n, err
	case KindDeviceObjectReference:
		v, n, err := DecodeDeviceObjectReferenceContext(data, tagNum)
		return ApplicationValue{Kind: KindDeviceObjectReference, DevObjRef: v}, n, err
	case KindObjectPropertyReference:
		v, n, err := DecodeObjectPropertyReferenceContext(data, tagNum)
		return ApplicationValue{Kind: KindObjectPropertyReference, ObjPropRef: v}, n, err
	case KindDestination:
		v, n, err := DecodeDestinationContext(data, tagNum)
		return ApplicationValue{Kind: KindDestination, Destination: v}, n, err
	case KindBDTEntry:
		v, n, err := DecodeBDTEntryContext(data, tagNum)
		return ApplicationValue{Kind: KindBDTEntry, BDTEntry: v}, n, err
	case KindFDTEntry:
		v, n, err := DecodeFDTEntryContext(data, tagNum)
		return ApplicationValue{Kind: KindFDTEntry, FDTEntry: v}, n, err
	default:
		appTag, ok := applicationTagOf(kind)
		if !ok {
			return ApplicationValue{}, 0, newCodecError(CodecTypeMismatch, "kind has no context decode path")
		}
		return DecodeContextFor(data, tagNum, appTag)
	}
}

// expectOpening consumes an opening tag numbered tagNum from the front of
// data, returning the number of octets consumed.
func expectOpening(data []byte, tagNum uint8) (int, error) {
	tag, n, err := DecodeTagHeader(data)
	if err != nil {
		return 0, err
	}
	if !tag.Opening || tag.Number != tagNum {
		return 0, newCodecError(CodecMalformedTag, "expected opening tag")
	}
	return n, nil
}

// expectClosing consumes a closing tag numbered tagNum from the front of
// data, returning the number of octets consumed.
func expectClosing(data []byte, tagNum uint8) (int, error) {
	tag, n, err := DecodeTagHeader(data)
	if err != nil {
		return 0, err
	}
	if !tag.Closing || tag.Number != tagNum {
		return 0, newCodecError(CodecMalformedTag, "expected closing tag")
	}
	return n, nil
}

// tagPresent reports whether the next tag header in data is a context tag
// numbered tagNum (used to probe OPTIONAL sequence members).
func tagPresent(data []byte, tagNum uint8) bool {
	tag, _, err := DecodeTagHeader(data)
	if err != nil {
		return false
	}
	return tag.Class == TagClassContext && tag.Number == tagNum
}
