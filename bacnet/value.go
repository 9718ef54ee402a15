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

import "bytes"

// ValueKind discriminates the variant an ApplicationValue holds. Primitive
// kinds (Null..ObjectID) mirror the application tag numbers 0-12 exactly;
// the rest are constructed shapes with no single self-describing tag, kept
// here as named fields rather than as separate Go types so decode/encode,
// Copy and Same stay single functions with a switch instead of thirty
// interface implementations.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBoolean
	KindUnsigned
	KindSigned
	KindReal
	KindDouble
	KindOctetString
	KindCharacterString
	KindBitString
	KindEnumerated
	KindDate
	KindTime
	KindObjectID
	KindDateTime
	KindDateRange
	KindTimeStamp
	KindLightingCommand
	KindXYColor
	KindColorCommand
	KindWeeklySchedule
	KindCalendarEntry
	KindSpecialEvent
	KindHostNPort
	KindDeviceObjectPropertyReference
	KindDeviceObjectReference
	KindObjectPropertyReference
	KindDestination
	KindBDTEntry
	KindFDTEntry
	KindEmptyList
)

// DateTimeValue is a Date+Time pair.
type DateTimeValue struct {
	Date BACnetDate
	Time BACnetTime
}

// DateRangeValue is an inclusive [StartDate, EndDate] range.
type DateRangeValue struct {
	StartDate BACnetDate
	EndDate   BACnetDate
}

// TimeStampKind discriminates which of TimeStampValue's fields is set.
type TimeStampKind uint8

const (
	TimeStampTimeKind TimeStampKind = iota
	TimeStampSequenceKind
	TimeStampDateTimeKind
)

// TimeStampValue is the standard BACnet choice of Time / sequence-number /
// DateTime, context-tagged 0/1/2 respectively wherever it appears.
type TimeStampValue struct {
	Kind     TimeStampKind
	Time     BACnetTime
	Sequence uint32
	DateTime DateTimeValue
}

// LightingCommandValue models the LIGHTING_COMMAND construct: an operation
// plus conditional context-tagged fields 1-5.
type LightingCommandValue struct {
	Operation     uint32
	TargetLevel   *float32
	RampRate      *float32
	StepIncrement *float32
	FadeTime      *uint32
	Priority      *uint32
}

// XYColorValue is a CIE xy chromaticity pair.
type XYColorValue struct {
	X float32
	Y float32
}

// ColorCommandValue models the COLOR_COMMAND construct.
type ColorCommandValue struct {
	Operation        uint32
	TargetColor      *XYColorValue
	TargetColorTemp  *uint32
	FadeTime         *uint32
}

// TimeValue is one (time, value) entry in a daily schedule.
type TimeValue struct {
	Time  BACnetTime
	Value ApplicationValue
}

// DaySchedule is the list of TimeValue entries for a single weekday.
type DaySchedule struct {
	Entries []TimeValue
}

// CalendarEntryKind discriminates CalendarEntryValue's active field.
type CalendarEntryKind uint8

const (
	CalendarEntryDateKind CalendarEntryKind = iota
	CalendarEntryDateRangeKind
	CalendarEntryWeekNDayKind
)

// WeekNDay is BACnet's compact month/week-of-month/day-of-week triple.
type WeekNDay struct {
	Month      uint8
	WeekOfMonth uint8
	DayOfWeek  uint8
}

// CalendarEntryValue is the standard BACnet CalendarEntry choice.
type CalendarEntryValue struct {
	Kind      CalendarEntryKind
	Date      BACnetDate
	DateRange DateRangeValue
	WeekNDay  WeekNDay
}

// SpecialEventValue is one exception entry layered over a WeeklySchedule.
type SpecialEventValue struct {
	PeriodIsCalendarReference bool
	Period                    CalendarEntryValue
	CalendarReference         ObjectIdentifier
	TimeValues                []TimeValue
	EventPriority             uint32
}

// HostNPortValue models the BACnet/SC-era host-and-port construct: either a
// numeric IP (dotted-quad string) or a hostname, plus a port.
type HostNPortValue struct {
	IsName bool
	Host   string
	Port   uint16
}

// DeviceObjectPropertyReferenceValue identifies a property on an object,
// optionally array-indexed, optionally on a remote device.
type DeviceObjectPropertyReferenceValue struct {
	ObjectID   ObjectIdentifier
	PropertyID PropertyIdentifier
	ArrayIndex *uint32
	DeviceID   *ObjectIdentifier
}

// DeviceObjectReferenceValue identifies an object, optionally on a remote
// device.
type DeviceObjectReferenceValue struct {
	DeviceID *ObjectIdentifier
	ObjectID ObjectIdentifier
}

// ObjectPropertyReferenceValue identifies a property on a local object,
// optionally array-indexed.
type ObjectPropertyReferenceValue struct {
	ObjectID   ObjectIdentifier
	PropertyID PropertyIdentifier
	ArrayIndex *uint32
}

// DestinationValue is a notification-class recipient entry.
type DestinationValue struct {
	ValidDays                   BACnetBitString
	FromTime                    BACnetTime
	ToTime                      BACnetTime
	Recipient                   DeviceObjectReferenceValue
	ProcessIdentifier           uint32
	IssueConfirmedNotifications bool
	Transitions                 BACnetBitString
}

// BDTEntryValue is one BACnet/IP Broadcast Distribution Table entry.
type BDTEntryValue struct {
	Address Address
	Mask    []byte
}

// FDTEntryValue is one BACnet/IP Foreign Device Table entry.
type FDTEntryValue struct {
	Address          Address
	TTL              uint32
	SecondsRemaining uint32
}

// ApplicationValue is the tagged union over every value shape the codec
// round-trips. Exactly one field group is meaningful, selected by Kind.
type ApplicationValue struct {
	Kind ValueKind

	Boolean         bool
	Unsigned        uint32
	Signed          int32
	Real            float32
	Double          float64
	OctetString     []byte
	CharacterString string
	BitString       BACnetBitString
	Enumerated      uint32
	Date            BACnetDate
	Time            BACnetTime
	ObjectID        ObjectIdentifier

	DateTime         DateTimeValue
	DateRange        DateRangeValue
	TimeStamp        TimeStampValue
	LightingCommand  LightingCommandValue
	XYColor          XYColorValue
	ColorCommand     ColorCommandValue
	WeeklySchedule   [7]DaySchedule
	CalendarEntry    CalendarEntryValue
	SpecialEvent     SpecialEventValue
	HostNPort        HostNPortValue
	DevObjPropRef    DeviceObjectPropertyReferenceValue
	DevObjRef        DeviceObjectReferenceValue
	ObjPropRef       ObjectPropertyReferenceValue
	Destination      DestinationValue
	BDTEntry         BDTEntryValue
	FDTEntry         FDTEntryValue
	List             []ApplicationValue // backing store for KindEmptyList and any caller-built list
}

// Convenience constructors for the primitive kinds, the ones the Load
// Control and Analog Output objects actually exchange on the wire.
func NullValue() ApplicationValue               { return ApplicationValue{Kind: KindNull} }
func BooleanValue(v bool) ApplicationValue       { return ApplicationValue{Kind: KindBoolean, Boolean: v} }
func UnsignedValue(v uint32) ApplicationValue    { return ApplicationValue{Kind: KindUnsigned, Unsigned: v} }
func SignedValue(v int32) ApplicationValue       { return ApplicationValue{Kind: KindSigned, Signed: v} }
func RealValue(v float32) ApplicationValue       { return ApplicationValue{Kind: KindReal, Real: v} }
func DoubleValue(v float64) ApplicationValue     { return ApplicationValue{Kind: KindDouble, Double: v} }
func EnumeratedValue(v uint32) ApplicationValue  { return ApplicationValue{Kind: KindEnumerated, Enumerated: v} }
func CharacterStringValue(v string) ApplicationValue {
	return ApplicationValue{Kind: KindCharacterString, CharacterString: v}
}
func DateValue(v BACnetDate) ApplicationValue { return ApplicationValue{Kind: KindDate, Date: v} }
func TimeValueOf(v BACnetTime) ApplicationValue { return ApplicationValue{Kind: KindTime, Time: v} }
func ObjectIDValue(v ObjectIdentifier) ApplicationValue {
	return ApplicationValue{Kind: KindObjectID, ObjectID: v}
}
func OctetStringValue(v []byte) ApplicationValue {
	return ApplicationValue{Kind: KindOctetString, OctetString: append([]byte{}, v...)}
}
func BitStringValue(v BACnetBitString) ApplicationValue {
	return ApplicationValue{Kind: KindBitString, BitString: v}
}
func EmptyListValue() ApplicationValue { return ApplicationValue{Kind: KindEmptyList} }

// applicationTagOf returns the ApplicationTag number a primitive Kind
// encodes as, or ok=false for a constructed Kind with no single tag.
func applicationTagOf(k ValueKind) (ApplicationTag, bool) {
	switch k {
	case KindNull:
		return TagNull, true
	case KindBoolean:
		return TagBoolean, true
	case KindUnsigned:
		return TagUnsignedInt, true
	case KindSigned:
		return TagSignedInt, true
	case KindReal:
		return TagReal, true
	case KindDouble:
		return TagDouble, true
	case KindOctetString:
		return TagOctetString, true
	case KindCharacterString:
		return TagCharacterString, true
	case KindBitString:
		return TagBitString, true
	case KindEnumerated:
		return TagEnumerated, true
	case KindDate:
		return TagDate, true
	case KindTime:
		return TagTime, true
	case KindObjectID:
		return TagObjectID, true
	default:
		return 0, false
	}
}

// primitivePayload returns the encoded payload (no tag header) for a
// primitive-kinded ApplicationValue.
func primitivePayload(v ApplicationValue) ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return nil, nil
	case KindBoolean:
		if v.Boolean {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case KindUnsigned:
		return EncodeUnsigned(v.Unsigned), nil
	case KindSigned:
		return EncodeSigned(v.Signed), nil
	case KindReal:
		return EncodeReal(v.Real), nil
	case KindDouble:
		return EncodeDouble(v.Double), nil
	case KindOctetString:
		return EncodeOctetString(v.OctetString), nil
	case KindCharacterString:
		return EncodeCharacterString(v.CharacterString), nil
	case KindBitString:
		return EncodeBitString(v.BitString), nil
	case KindEnumerated:
		return EncodeUnsigned(v.Enumerated), nil
	case KindDate:
		return EncodeDate(v.Date), nil
	case KindTime:
		return EncodeTime(v.Time), nil
	case KindObjectID:
		return EncodeObjectIdentifier(v.ObjectID), nil
	default:
		return nil, newCodecError(CodecTypeMismatch, "value kind has no primitive payload")
	}
}

// EncodeApplication encodes v with an application tag. Only primitive
// kinds are application-taggable on their own; compound kinds must be
// encoded through the per-property context path (EncodeContext) since
// BACnet never puts them under a bare application tag.
func EncodeApplication(v ApplicationValue) ([]byte, error) {
	appTag, ok := applicationTagOf(v.Kind)
	if !ok {
		return nil, newCodecError(CodecTypeMismatch, "kind is not application-taggable")
	}
	if v.Kind == KindBoolean {
		// Boolean's value is carried in the length-value-type nibble, not a
		// payload octet: tag byte alone, length field doubles as the value.
		if v.Boolean {
			return []byte{(uint8(TagBoolean) << 4) | 1}, nil
		}
		return []byte{uint8(TagBoolean) << 4}, nil
	}
	payload, err := primitivePayload(v)
	if err != nil {
		return nil, err
	}
	return EncodeApplicationTag(appTag, payload), nil
}

// DecodeApplication decodes one application-tagged primitive value from
// the front of data, returning it and the number of octets consumed.
func DecodeApplication(data []byte) (ApplicationValue, int, error) {
	tag, headerLen, err := DecodeTagHeader(data)
	if err != nil {
		return ApplicationValue{}, 0, err
	}
	if tag.Class != TagClassApplication {
		return ApplicationValue{}, 0, newCodecError(CodecTypeMismatch, "expected application tag")
	}
	if tag.Opening || tag.Closing {
		return ApplicationValue{}, 0, newCodecError(CodecMalformedTag, "application tag cannot be opening/closing")
	}

	appTag := ApplicationTag(tag.Number)
	if appTag == TagBoolean {
		return ApplicationValue{Kind: KindBoolean, Boolean: tag.LengthValueType != 0}, headerLen, nil
	}

	if len(data) < headerLen+tag.LengthValueType {
		return ApplicationValue{}, 0, newCodecError(CodecTruncatedInput, "application value payload")
	}
	payload := data[headerLen : headerLen+tag.LengthValueType]
	total := headerLen + tag.LengthValueType

	v, err := decodePrimitivePayload(appTag, payload)
	if err != nil {
		return ApplicationValue{}, 0, err
	}
	return v, total, nil
}

func decodePrimitivePayload(appTag ApplicationTag, payload []byte) (ApplicationValue, error) {
	switch appTag {
	case TagNull:
		return ApplicationValue{Kind: KindNull}, nil
	case TagBoolean:
		return ApplicationValue{Kind: KindBoolean, Boolean: len(payload) > 0 && payload[0] != 0}, nil
	case TagUnsignedInt:
		v, err := DecodeUnsigned(payload)
		return ApplicationValue{Kind: KindUnsigned, Unsigned: v}, err
	case TagSignedInt:
		v, err := DecodeSigned(payload)
		return ApplicationValue{Kind: KindSigned, Signed: v}, err
	case TagReal:
		v, err := DecodeReal(payload)
		return ApplicationValue{Kind: KindReal, Real: v}, err
	case TagDouble:
		v, err := DecodeDouble(payload)
		return ApplicationValue{Kind: KindDouble, Double: v}, err
	case TagOctetString:
		return ApplicationValue{Kind: KindOctetString, OctetString: DecodeOctetString(payload)}, nil
	case TagCharacterString:
		s, err := DecodeCharacterString(payload)
		return ApplicationValue{Kind: KindCharacterString, CharacterString: s}, err
	case TagBitString:
		b, err := DecodeBitString(payload)
		return ApplicationValue{Kind: KindBitString, BitString: b}, err
	case TagEnumerated:
		v, err := DecodeUnsigned(payload)
		return ApplicationValue{Kind: KindEnumerated, Enumerated: v}, err
	case TagDate:
		d, err := DecodeDate(payload)
		return ApplicationValue{Kind: KindDate, Date: d}, err
	case TagTime:
		t, err := DecodeTime(payload)
		return ApplicationValue{Kind: KindTime, Time: t}, err
	case TagObjectID:
		oid, err := DecodeObjectIdentifierBytes(payload)
		return ApplicationValue{Kind: KindObjectID, ObjectID: oid}, err
	default:
		return ApplicationValue{}, newCodecError(CodecTypeMismatch, "unknown application tag")
	}
}

// EncodeContextPrimitive encodes v under context tag tagNum, for a
// primitive-kinded value. Compound kinds encode through their own
// Encode*Context helpers below (and through the property dispatcher,
// which knows the per-property wrapping shape).
func EncodeContextPrimitive(tagNum uint8, v ApplicationValue) ([]byte, error) {
	payload, err := primitivePayload(v)
	if err != nil {
		return nil, err
	}
	return EncodeContextTag(tagNum, payload), nil
}

// DecodeContextFor decodes a context-tagged primitive whose tag number is
// tagNum, given the primitive type want resolved by the caller (typically
// via the property-to-context-tag table in proptable.go). Returns the
// value and total octets consumed (header+payload).
func DecodeContextFor(data []byte, tagNum uint8, want ApplicationTag) (ApplicationValue, int, error) {
	tag, headerLen, err := DecodeTagHeader(data)
	if err != nil {
		return ApplicationValue{}, 0, err
	}
	if tag.Opening || tag.Closing {
		return ApplicationValue{}, 0, newCodecError(CodecMalformedTag, "expected primitive context tag")
	}
	if tag.Class != TagClassContext || tag.Number != tagNum {
		return ApplicationValue{}, 0, newCodecError(CodecTypeMismatch, "context tag number mismatch")
	}
	if len(data) < headerLen+tag.LengthValueType {
		return ApplicationValue{}, 0, newCodecError(CodecTruncatedInput, "context value payload")
	}
	payload := data[headerLen : headerLen+tag.LengthValueType]
	v, err := decodePrimitivePayload(want, payload)
	if err != nil {
		return ApplicationValue{}, 0, err
	}
	return v, headerLen + tag.LengthValueType, nil
}

// ValueLen returns the number of octets EncodeApplication(v) would
// produce, without allocating the encoding.
func ValueLen(v ApplicationValue) (int, error) {
	enc, err := EncodeApplication(v)
	if err != nil {
		return 0, err
	}
	return len(enc), nil
}

// Copy returns a deep copy of v, so callers holding a priority-array slot
// or a cached property value never alias a caller's backing slices.
func Copy(v ApplicationValue) ApplicationValue {
	out := v
	if v.OctetString != nil {
		out.OctetString = append([]byte{}, v.OctetString...)
	}
	if v.BitString.Bytes != nil {
		out.BitString.Bytes = append([]byte{}, v.BitString.Bytes...)
	}
	if v.List != nil {
		out.List = make([]ApplicationValue, len(v.List))
		for i, e := range v.List {
			out.List[i] = Copy(e)
		}
	}
	for day := range v.WeeklySchedule {
		if v.WeeklySchedule[day].Entries != nil {
			entries := make([]TimeValue, len(v.WeeklySchedule[day].Entries))
			for i, e := range v.WeeklySchedule[day].Entries {
				entries[i] = TimeValue{Time: e.Time, Value: Copy(e.Value)}
			}
			out.WeeklySchedule[day].Entries = entries
		}
	}
	if v.SpecialEvent.TimeValues != nil {
		tv := make([]TimeValue, len(v.SpecialEvent.TimeValues))
		for i, e := range v.SpecialEvent.TimeValues {
			tv[i] = TimeValue{Time: e.Time, Value: Copy(e.Value)}
		}
		out.SpecialEvent.TimeValues = tv
	}
	if v.LightingCommand.TargetLevel != nil {
		f := *v.LightingCommand.TargetLevel
		out.LightingCommand.TargetLevel = &f
	}
	if v.LightingCommand.RampRate != nil {
		f := *v.LightingCommand.RampRate
		out.LightingCommand.RampRate = &f
	}
	if v.LightingCommand.StepIncrement != nil {
		f := *v.LightingCommand.StepIncrement
		out.LightingCommand.StepIncrement = &f
	}
	if v.LightingCommand.FadeTime != nil {
		u := *v.LightingCommand.FadeTime
		out.LightingCommand.FadeTime = &u
	}
	if v.LightingCommand.Priority != nil {
		u := *v.LightingCommand.Priority
		out.LightingCommand.Priority = &u
	}
	if v.ColorCommand.TargetColor != nil {
		c := *v.ColorCommand.TargetColor
		out.ColorCommand.TargetColor = &c
	}
	if v.ColorCommand.TargetColorTemp != nil {
		u := *v.ColorCommand.TargetColorTemp
		out.ColorCommand.TargetColorTemp = &u
	}
	if v.ColorCommand.FadeTime != nil {
		u := *v.ColorCommand.FadeTime
		out.ColorCommand.FadeTime = &u
	}
	if v.DevObjPropRef.ArrayIndex != nil {
		idx := *v.DevObjPropRef.ArrayIndex
		out.DevObjPropRef.ArrayIndex = &idx
	}
	if v.DevObjPropRef.DeviceID != nil {
		dev := *v.DevObjPropRef.DeviceID
		out.DevObjPropRef.DeviceID = &dev
	}
	if v.DevObjRef.DeviceID != nil {
		dev := *v.DevObjRef.DeviceID
		out.DevObjRef.DeviceID = &dev
	}
	if v.ObjPropRef.ArrayIndex != nil {
		idx := *v.ObjPropRef.ArrayIndex
		out.ObjPropRef.ArrayIndex = &idx
	}
	if v.Destination.Recipient.DeviceID != nil {
		dev := *v.Destination.Recipient.DeviceID
		out.Destination.Recipient.DeviceID = &dev
	}
	out.Destination.ValidDays.Bytes = append([]byte{}, v.Destination.ValidDays.Bytes...)
	out.Destination.Transitions.Bytes = append([]byte{}, v.Destination.Transitions.Bytes...)
	out.BDTEntry.Mask = append([]byte{}, v.BDTEntry.Mask...)
	out.BDTEntry.Address.Addr = append([]byte{}, v.BDTEntry.Address.Addr...)
	out.FDTEntry.Address.Addr = append([]byte{}, v.FDTEntry.Address.Addr...)
	return out
}

// Same reports whether a and b hold the same kind and value. Slices are
// compared by content, not identity.
func Same(a, b ApplicationValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBoolean:
		return a.Boolean == b.Boolean
	case KindUnsigned:
		return a.Unsigned == b.Unsigned
	case KindSigned:
		return a.Signed == b.Signed
	case KindReal:
		return a.Real == b.Real
	case KindDouble:
		return a.Double == b.Double
	case KindOctetString:
		return bytes.Equal(a.OctetString, b.OctetString)
	case KindCharacterString:
		return a.CharacterString == b.CharacterString
	case KindBitString:
		return a.BitString.UnusedBits == b.BitString.UnusedBits && bytes.Equal(a.BitString.Bytes, b.BitString.Bytes)
	case KindEnumerated:
		return a.Enumerated == b.Enumerated
	case KindDate:
		return a.Date == b.Date
	case KindTime:
		return a.Time == b.Time
	case KindObjectID:
		return a.ObjectID == b.ObjectID
	case KindDateTime:
		return a.DateTime == b.DateTime
	case KindDateRange:
		return a.DateRange == b.DateRange
	case KindTimeStamp:
		return sameTimeStamp(a.TimeStamp, b.TimeStamp)
	case KindLightingCommand:
		return sameLightingCommand(a.LightingCommand, b.LightingCommand)
	case KindXYColor:
		return a.XYColor == b.XYColor
	case KindColorCommand:
		return sameColorCommand(a.ColorCommand, b.ColorCommand)
	case KindWeeklySchedule:
		return sameWeeklySchedule(a.WeeklySchedule, b.WeeklySchedule)
	case KindCalendarEntry:
		return sameCalendarEntry(a.CalendarEntry, b.CalendarEntry)
	case KindSpecialEvent:
		return sameSpecialEvent(a.SpecialEvent, b.SpecialEvent)
	case KindHostNPort:
		return a.HostNPort == b.HostNPort
	case KindDeviceObjectPropertyReference:
		return sameDevObjPropRef(a.DevObjPropRef, b.DevObjPropRef)
	case KindDeviceObjectReference:
		return sameDevObjRef(a.DevObjRef, b.DevObjRef)
	case KindObjectPropertyReference:
		return sameObjPropRef(a.ObjPropRef, b.ObjPropRef)
	case KindDestination:
		return sameDestination(a.Destination, b.Destination)
	case KindBDTEntry:
		return sameAddress(a.BDTEntry.Address, b.BDTEntry.Address) && bytes.Equal(a.BDTEntry.Mask, b.BDTEntry.Mask)
	case KindFDTEntry:
		return sameAddress(a.FDTEntry.Address, b.FDTEntry.Address) &&
			a.FDTEntry.TTL == b.FDTEntry.TTL && a.FDTEntry.SecondsRemaining == b.FDTEntry.SecondsRemaining
	case KindEmptyList:
		return len(a.List) == len(b.List)
	default:
		return false
	}
}

func sameTimeStamp(a, b TimeStampValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TimeStampTimeKind:
		return a.Time == b.Time
	case TimeStampSequenceKind:
		return a.Sequence == b.Sequence
	default:
		return a.DateTime == b.DateTime
	}
}

func sameOptFloat(a, b *float32) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func sameOptUint(a, b *uint32) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func sameLightingCommand(a, b LightingCommandValue) bool {
	return a.Operation == b.Operation &&
		sameOptFloat(a.TargetLevel, b.TargetLevel) &&
		sameOptFloat(a.RampRate, b.RampRate) &&
		sameOptFloat(a.StepIncrement, b.StepIncrement) &&
		sameOptUint(a.FadeTime, b.FadeTime) &&
		sameOptUint(a.Priority, b.Priority)
}

func sameColorCommand(a, b ColorCommandValue) bool {
	if a.Operation != b.Operation || !sameOptUint(a.TargetColorTemp, b.TargetColorTemp) || !sameOptUint(a.FadeTime, b.FadeTime) {
		return false
	}
	if (a.TargetColor == nil) != (b.TargetColor == nil) {
		return false
	}
	return a.TargetColor == nil || *a.TargetColor == *b.TargetColor
}

func sameWeeklySchedule(a, b [7]DaySchedule) bool {
	for day := range a {
		if len(a[day].Entries) != len(b[day].Entries) {
			return false
		}
		for i := range a[day].Entries {
			if a[day].Entries[i].Time != b[day].Entries[i].Time || !Same(a[day].Entries[i].Value, b[day].Entries[i].Value) {
				return false
			}
		}
	}
	return true
}

func sameCalendarEntry(a, b CalendarEntryValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case CalendarEntryDateKind:
		return a.Date == b.Date
	case CalendarEntryDateRangeKind:
		return a.DateRange == b.DateRange
	default:
		return a.WeekNDay == b.WeekNDay
	}
}

func sameSpecialEvent(a, b SpecialEventValue) bool {
	if a.PeriodIsCalendarReference != b.PeriodIsCalendarReference {
		return false
	}
	if a.PeriodIsCalendarReference {
		if a.CalendarReference != b.CalendarReference {
			return false
		}
	} else if !sameCalendarEntry(a.Period, b.Period) {
		return false
	}
	if a.EventPriority != b.EventPriority || len(a.TimeValues) != len(b.TimeValues) {
		return false
	}
	for i := range a.TimeValues {
		if a.TimeValues[i].Time != b.TimeValues[i].Time || !Same(a.TimeValues[i].Value, b.TimeValues[i].Value) {
			return false
		}
	}
	return true
}

func sameDestination(a, b DestinationValue) bool {
	return bytes.Equal(a.ValidDays.Bytes, b.ValidDays.Bytes) && a.ValidDays.UnusedBits == b.ValidDays.UnusedBits &&
		a.FromTime == b.FromTime && a.ToTime == b.ToTime &&
		sameDevObjRef(a.Recipient, b.Recipient) &&
		a.ProcessIdentifier == b.ProcessIdentifier &&
		a.IssueConfirmedNotifications == b.IssueConfirmedNotifications &&
		bytes.Equal(a.Transitions.Bytes, b.Transitions.Bytes) && a.Transitions.UnusedBits == b.Transitions.UnusedBits
}

func sameAddress(a, b Address) bool {
	return a.Net == b.Net && bytes.Equal(a.Addr, b.Addr)
}

func sameDevObjPropRef(a, b DeviceObjectPropertyReferenceValue) bool {
	if a.ObjectID != b.ObjectID || a.PropertyID != b.PropertyID {
		return false
	}
	if (a.ArrayIndex == nil) != (b.ArrayIndex == nil) {
		return false
	}
	if a.ArrayIndex != nil && *a.ArrayIndex != *b.ArrayIndex {
		return false
	}
	if (a.DeviceID == nil) != (b.DeviceID == nil) {
		return false
	}
	if a.DeviceID != nil && *a.DeviceID != *b.DeviceID {
		return false
	}
	return true
}

func sameDevObjRef(a, b DeviceObjectReferenceValue) bool {
	if a.ObjectID != b.ObjectID {
		return false
	}
	if (a.DeviceID == nil) != (b.DeviceID == nil) {
		return false
	}
	if a.DeviceID != nil && *a.DeviceID != *b.DeviceID {
		return false
	}
	return true
}

func sameObjPropRef(a, b ObjectPropertyReferenceValue) bool {
	if a.ObjectID != b.ObjectID || a.PropertyID != b.PropertyID {
		return false
	}
	if (a.ArrayIndex == nil) != (b.ArrayIndex == nil) {
		return false
	}
	if a.ArrayIndex != nil && *a.ArrayIndex != *b.ArrayIndex {
		return false
	}
	return true
}
