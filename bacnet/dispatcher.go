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

import "fmt"

// ArrayAll is the special array index meaning "the whole array", used by
// ReadProperty/WriteProperty requests that omit Property-Array-Index.
const ArrayAll = 0xFFFFFFFF

// Registry resolves an ObjectIdentifier to the Load Control instance (or,
// eventually, other object types) backing it. A Device holds one of
// these and hands it to the Dispatcher.
type Registry struct {
	loadControl map[uint32]*LoadControlInstance
	analogOut   map[uint32]*CommandableAnalogOutput
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		loadControl: make(map[uint32]*LoadControlInstance),
		analogOut:   make(map[uint32]*CommandableAnalogOutput),
	}
}

// AddLoadControl registers a Load Control instance under its own object
// identifier's instance number.
func (r *Registry) AddLoadControl(l *LoadControlInstance) {
	r.loadControl[l.ObjectID.Instance] = l
}

// AddAnalogOutput registers an Analog Output instance.
func (r *Registry) AddAnalogOutput(a *CommandableAnalogOutput) {
	r.analogOut[a.ObjectID.Instance] = a
}

// LoadControl looks up a Load Control instance by instance number.
func (r *Registry) LoadControl(instance uint32) (*LoadControlInstance, bool) {
	l, ok := r.loadControl[instance]
	return l, ok
}

// AnalogOutput looks up an Analog Output instance by instance number.
func (r *Registry) AnalogOutput(instance uint32) (*CommandableAnalogOutput, bool) {
	a, ok := r.analogOut[instance]
	return a, ok
}

// AllLoadControlInstances returns every registered Load Control instance
// number, for callers (the CLI's tick/objects commands) that need to
// enumerate the registry rather than look up one object.
func (r *Registry) AllLoadControlInstances() []uint32 {
	out := make([]uint32, 0, len(r.loadControl))
	for instance := range r.loadControl {
		out = append(out, instance)
	}
	return out
}

// Tick advances every Load Control instance in the registry by one
// sample, in registration order isn't guaranteed (map iteration), which
// is fine: instances don't interact except through their own Output.
func (r *Registry) Tick(now BACnetDateTime) {
	for _, l := range r.loadControl {
		l.Tick(now)
	}
}

// Dispatcher implements ReadProperty/WriteProperty against a Registry,
// the property-table-driven request router every service handler in a
// Device ultimately calls into.
type Dispatcher struct {
	Registry *Registry
}

// NewDispatcher builds a Dispatcher over registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{Registry: registry}
}

// ReadProperty reads one property (or one array element, or the array
// length at index 0, or the whole array at ArrayAll) of a Load Control
// object. A scalar property read with an index other than ArrayAll is
// rejected as property-is-not-an-array; a property that cannot be read at
// all keeps its own error.
func (d *Dispatcher) ReadProperty(obj ObjectIdentifier, property PropertyIdentifier, arrayIndex uint32) (ApplicationValue, error) {
	if obj.Type != ObjectTypeLoadControl {
		return ApplicationValue{}, fmt.Errorf("%w: object type %v not supported", ErrObjectNotFound, obj.Type)
	}
	l, ok := d.Registry.LoadControl(obj.Instance)
	if !ok {
		return ApplicationValue{}, ErrObjectNotFound
	}
	if arrayIndex != ArrayAll && property != PropertyShedLevels && property != PropertyShedLevelDescriptions {
		if _, err := d.ReadProperty(obj, property, ArrayAll); err != nil {
			return ApplicationValue{}, err
		}
		return ApplicationValue{}, NewBACnetError(ErrorClassProperty, ErrorCodePropertyIsNotAnArray)
	}

	switch property {
	case PropertyObjectIdentifier:
		return ObjectIDValue(obj), nil
	case PropertyObjectName:
		return CharacterStringValue(l.ObjectName), nil
	case PropertyObjectType:
		return EnumeratedValue(uint32(ObjectTypeLoadControl)), nil
	case PropertyDescription:
		return CharacterStringValue(l.Description), nil
	case PropertyStatusFlags:
		return BitStringValue(statusFlagsBits(l.StatusFlags)), nil
	case PropertyEventState:
		return EnumeratedValue(uint32(l.EventState)), nil
	case PropertyPresentValue:
		return EnumeratedValue(uint32(l.PresentValue)), nil
	case PropertyRequestedShedLevel:
		return shedLevelAsValue(l.RequestedShedLevel), nil
	case PropertyStartTime:
		return dateTimeAsApplicationValue(l.StartTime), nil
	case PropertyShedDuration:
		return UnsignedValue(l.ShedDuration), nil
	case PropertyDutyWindow:
		return UnsignedValue(l.DutyWindow), nil
	case PropertyEnable:
		return BooleanValue(l.EnableFlag), nil
	case PropertyFullDutyBaseline:
		if l.FullDutyBaseline == nil {
			return ApplicationValue{}, fmt.Errorf("%w: full-duty-baseline not set", ErrPropertyNotFound)
		}
		return RealValue(*l.FullDutyBaseline), nil
	case PropertyExpectedShedLevel:
		return shedLevelAsValue(l.ExpectedShedLevel), nil
	case PropertyActualShedLevel:
		return shedLevelAsValue(l.ActualShedLevel), nil
	case PropertyShedLevels:
		return readArrayProperty(len(l.ShedLevels), arrayIndex, func(i int) ApplicationValue {
			return shedLevelAsValue(l.ShedLevels[i])
		})
	case PropertyShedLevelDescriptions:
		return readArrayProperty(len(l.ShedLevelDescriptions), arrayIndex, func(i int) ApplicationValue {
			return CharacterStringValue(l.ShedLevelDescriptions[i])
		})
	default:
		return ApplicationValue{}, ErrPropertyNotFound
	}
}

// readArrayProperty implements the common array-read shape: index 0
// returns the element count, ArrayAll returns the whole array as a List,
// and any other index returns that one-based element. Only
// PropertyShedLevels and PropertyShedLevelDescriptions route through it;
// ReadProperty rejects an index on any other property before the switch.
func readArrayProperty(count int, arrayIndex uint32, at func(int) ApplicationValue) (ApplicationValue, error) {
	switch arrayIndex {
	case 0:
		return UnsignedValue(uint32(count)), nil
	case ArrayAll:
		list := make([]ApplicationValue, count)
		for i := 0; i < count; i++ {
			list[i] = at(i)
		}
		return ApplicationValue{Kind: KindEmptyList, List: list}, nil
	default:
		if arrayIndex < 1 || int(arrayIndex) > count {
			return ApplicationValue{}, ErrInvalidArrayIndex
		}
		return at(int(arrayIndex) - 1), nil
	}
}

// WriteProperty writes one property of a Load Control object. Writes to
// Present_Value, Status_Flags, Event_State, Expected_Shed_Level, and
// Actual_Shed_Level are rejected as WriteAccessDenied: those are
// state-machine-derived, never client-settable.
func (d *Dispatcher) WriteProperty(obj ObjectIdentifier, property PropertyIdentifier, arrayIndex uint32, value ApplicationValue) error {
	if obj.Type != ObjectTypeLoadControl {
		return fmt.Errorf("%w: object type %v not supported", ErrObjectNotFound, obj.Type)
	}
	l, ok := d.Registry.LoadControl(obj.Instance)
	if !ok {
		return ErrObjectNotFound
	}

	switch property {
	case PropertyRequestedShedLevel:
		lvl, err := shedLevelFromValue(value)
		if err != nil {
			return err
		}
		l.RequestedShedLevel = lvl
		l.RequestWritten = true
		return nil
	case PropertyStartTime:
		dt, err := dateTimeFromApplicationValue(value)
		if err != nil {
			return err
		}
		// A write to Start_Time while REQUEST_PENDING re-arms the pending
		// request at the new time; any other state treats it as staging
		// the next request alongside Requested_Shed_Level/Shed_Duration.
		// Tick() observes this on the next pass per §4.4/§4.5.
		l.StartTime = dt
		l.StartWritten = true
		return nil
	case PropertyShedDuration:
		v, err := unsignedFromValue(value)
		if err != nil {
			return err
		}
		l.ShedDuration = v
		l.RequestWritten = true
		return nil
	case PropertyDutyWindow:
		v, err := unsignedFromValue(value)
		if err != nil {
			return err
		}
		l.DutyWindow = v
		l.RequestWritten = true
		return nil
	case PropertyEnable:
		if value.Kind != KindBoolean {
			return newCodecError(CodecTypeMismatch, "enable requires boolean")
		}
		l.EnableFlag = value.Boolean
		return nil
	case PropertyFullDutyBaseline:
		v, err := realFromValue(value)
		if err != nil {
			return err
		}
		l.FullDutyBaseline = &v
		return nil
	case PropertyShedLevels:
		return writeShedLevels(l, arrayIndex, value)
	case PropertyShedLevelDescriptions:
		return writeShedLevelDescriptions(l, arrayIndex, value)
	case PropertyPresentValue, PropertyStatusFlags, PropertyEventState,
		PropertyExpectedShedLevel, PropertyActualShedLevel, PropertyObjectIdentifier, PropertyObjectType:
		return fmt.Errorf("%w: %v is state-machine derived", ErrWriteAccessDenied, property)
	default:
		// A property this dispatcher doesn't recognize at all is
		// PropertyNotFound regardless of whether arrayIndex was supplied.
		// Writes to the recognized scalar properties above do not look at
		// arrayIndex.
		return ErrPropertyNotFound
	}
}

// writeShedLevels implements the Shed_Levels write validation: index 0
// (the count) is always WriteAccessDenied, ArrayAll replaces the whole
// array from a List value, and any other one-based index replaces a
// single element, extending the array if it writes one element past the
// end (matching the reference array-resize-on-write behavior) but
// rejecting any index that would leave a gap.
func writeShedLevels(l *LoadControlInstance, arrayIndex uint32, value ApplicationValue) error {
	if arrayIndex == 0 {
		return fmt.Errorf("%w: shed-levels element 0 is the array size", ErrWriteAccessDenied)
	}
	if arrayIndex == ArrayAll {
		if value.Kind != KindEmptyList {
			return newCodecError(CodecTypeMismatch, "shed-levels requires a list")
		}
		levels := make([]ShedLevel, len(value.List))
		for i, v := range value.List {
			lvl, err := shedLevelFromValue(v)
			if err != nil {
				return err
			}
			levels[i] = lvl
		}
		l.ShedLevels = levels
		return nil
	}
	lvl, err := shedLevelFromValue(value)
	if err != nil {
		return err
	}
	idx := int(arrayIndex) - 1
	switch {
	case idx < len(l.ShedLevels):
		l.ShedLevels[idx] = lvl
	case idx == len(l.ShedLevels):
		l.ShedLevels = append(l.ShedLevels, lvl)
	default:
		return ErrInvalidArrayIndex
	}
	return nil
}

// writeShedLevelDescriptions mirrors writeShedLevels for the parallel
// Shed_Level_Descriptions array.
func writeShedLevelDescriptions(l *LoadControlInstance, arrayIndex uint32, value ApplicationValue) error {
	if arrayIndex == 0 {
		return fmt.Errorf("%w: shed-level-descriptions element 0 is the array size", ErrWriteAccessDenied)
	}
	if value.Kind != KindCharacterString && arrayIndex != ArrayAll {
		return newCodecError(CodecTypeMismatch, "shed-level-descriptions requires a character string")
	}
	if arrayIndex == ArrayAll {
		if value.Kind != KindEmptyList {
			return newCodecError(CodecTypeMismatch, "shed-level-descriptions requires a list")
		}
		descs := make([]string, len(value.List))
		for i, v := range value.List {
			if v.Kind != KindCharacterString {
				return newCodecError(CodecTypeMismatch, "shed-level-descriptions element must be a character string")
			}
			descs[i] = v.CharacterString
		}
		l.ShedLevelDescriptions = descs
		return nil
	}
	idx := int(arrayIndex) - 1
	switch {
	case idx < len(l.ShedLevelDescriptions):
		l.ShedLevelDescriptions[idx] = value.CharacterString
	case idx == len(l.ShedLevelDescriptions):
		l.ShedLevelDescriptions = append(l.ShedLevelDescriptions, value.CharacterString)
	default:
		return ErrInvalidArrayIndex
	}
	return nil
}

func shedLevelAsValue(lvl ShedLevel) ApplicationValue {
	switch lvl.Kind {
	case ShedLevelPercent:
		return UnsignedValue(lvl.Percent)
	case ShedLevelLevel:
		return UnsignedValue(lvl.Level)
	default:
		return RealValue(lvl.Amount)
	}
}

// shedLevelFromValue accepts whichever primitive kind the wire sent and
// assumes Percent encoding when the value is Unsigned, since the CHOICE
// discriminator (context tag number) is only available to a caller that
// decoded via DecodeShedLevelContext; this entry point is for callers
// that already resolved the kind out of band (e.g. from a constructed
// value whose own context tag told them which member it was).
func shedLevelFromValue(v ApplicationValue) (ShedLevel, error) {
	switch v.Kind {
	case KindUnsigned:
		return ShedLevel{Kind: ShedLevelPercent, Percent: v.Unsigned}, nil
	case KindReal:
		return ShedLevel{Kind: ShedLevelAmount, Amount: v.Real}, nil
	default:
		return ShedLevel{}, newCodecError(CodecTypeMismatch, "shed-level requires unsigned or real")
	}
}

func unsignedFromValue(v ApplicationValue) (uint32, error) {
	if v.Kind != KindUnsigned {
		return 0, newCodecError(CodecTypeMismatch, "expected unsigned")
	}
	return v.Unsigned, nil
}

func realFromValue(v ApplicationValue) (float32, error) {
	if v.Kind != KindReal {
		return 0, newCodecError(CodecTypeMismatch, "expected real")
	}
	return v.Real, nil
}

func dateTimeAsApplicationValue(dt BACnetDateTime) ApplicationValue {
	return ApplicationValue{Kind: KindDateTime, DateTime: DateTimeValue{Date: dt.Date, Time: dt.Time}}
}

func dateTimeFromApplicationValue(v ApplicationValue) (BACnetDateTime, error) {
	if v.Kind != KindDateTime {
		return BACnetDateTime{}, newCodecError(CodecTypeMismatch, "expected date-time")
	}
	return BACnetDateTime{Date: v.DateTime.Date, Time: v.DateTime.Time}, nil
}

func statusFlagsBits(s StatusFlags) BACnetBitString {
	bits := byte(0)
	if s.InAlarm {
		bits |= 0x08
	}
	if s.Fault {
		bits |= 0x04
	}
	if s.Overridden {
		bits |= 0x02
	}
	if s.OutOfService {
		bits |= 0x01
	}
	return BACnetBitString{UnusedBits: 4, Bytes: []byte{bits}}
}
