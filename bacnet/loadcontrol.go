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

// LoadControlState is the four-state Load Control state machine of
// 135-2004 Addendum e.
type LoadControlState uint8

const (
	LoadControlShedInactive LoadControlState = iota
	LoadControlShedRequestPending
	LoadControlShedNonCompliant
	LoadControlShedCompliant
)

func (s LoadControlState) String() string {
	switch s {
	case LoadControlShedInactive:
		return "shed-inactive"
	case LoadControlShedRequestPending:
		return "shed-request-pending"
	case LoadControlShedNonCompliant:
		return "shed-non-compliant"
	case LoadControlShedCompliant:
		return "shed-compliant"
	default:
		return fmt.Sprintf("load-control-state(%d)", uint8(s))
	}
}

// ShedLevelKind discriminates which member of a ShedLevel is meaningful.
// It is the BACnet standard CHOICE{percent[0], level[1], amount[2]}.
type ShedLevelKind uint8

const (
	ShedLevelPercent ShedLevelKind = 0
	ShedLevelLevel   ShedLevelKind = 1
	ShedLevelAmount  ShedLevelKind = 2
)

// ShedLevel is one entry of a Shed_Levels array, or the value of
// Requested_Shed_Level / Expected_Shed_Level / Actual_Shed_Level.
type ShedLevel struct {
	Kind    ShedLevelKind
	Percent uint32  // 0-100, Kind == ShedLevelPercent
	Level   uint32  // level number matched against the Shed_Levels entries, Kind == ShedLevelLevel
	Amount  float32 // engineering-units amount to shed, Kind == ShedLevelAmount
}

// EncodeShedLevelContext encodes a ShedLevel as its context-tagged CHOICE
// member: context tag 0 (percent), 1 (level) or 2 (amount), chosen by
// v.Kind, with no outer opening/closing bracket. tagNum is not used.
func EncodeShedLevelContext(tagNum uint8, v ShedLevel) []byte {
	switch v.Kind {
	case ShedLevelPercent:
		return EncodeContextTag(0, EncodeUnsigned(v.Percent))
	case ShedLevelLevel:
		return EncodeContextTag(1, EncodeUnsigned(v.Level))
	default:
		return EncodeContextTag(2, EncodeReal(v.Amount))
	}
}

// DecodeShedLevelContext decodes a ShedLevel CHOICE from the front of
// data.
func DecodeShedLevelContext(data []byte) (ShedLevel, int, error) {
	tag, _, err := DecodeTagHeader(data)
	if err != nil {
		return ShedLevel{}, 0, err
	}
	switch tag.Number {
	case 0:
		v, n, err := DecodeContextFor(data, 0, TagUnsignedInt)
		return ShedLevel{Kind: ShedLevelPercent, Percent: v.Unsigned}, n, err
	case 1:
		v, n, err := DecodeContextFor(data, 1, TagUnsignedInt)
		return ShedLevel{Kind: ShedLevelLevel, Level: v.Unsigned}, n, err
	case 2:
		v, n, err := DecodeContextFor(data, 2, TagReal)
		return ShedLevel{Kind: ShedLevelAmount, Amount: v.Real}, n, err
	default:
		return ShedLevel{}, 0, newCodecError(CodecMalformedTag, "unknown shed-level choice")
	}
}

// SameShedLevel reports whether two ShedLevel values are equal.
func SameShedLevel(a, b ShedLevel) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ShedLevelPercent:
		return a.Percent == b.Percent
	case ShedLevelLevel:
		return a.Level == b.Level
	default:
		return a.Amount == b.Amount
	}
}

// Clock lets the state machine's tick use an injected notion of "now"
// instead of time.Now, so tests can drive it deterministically and a
// Device can drive every instance off one shared sample per tick.
type Clock interface {
	Now() BACnetDateTime
}

// BACnetDateTime is the plain (non-tagged) Date+Time pair the state
// machine compares against Start_Time and uses to stamp Current_Time.
type BACnetDateTime struct {
	Date BACnetDate
	Time BACnetTime
}

// Before reports whether d is strictly earlier than other, field by field
// (year, month, day, then hour, minute, second, hundredths); wildcard
// (0xFF) fields never participate in Current_Time/Start_Time comparisons
// in practice, so this treats them as their literal numeric value like the
// reference implementation does.
func (d BACnetDateTime) Before(other BACnetDateTime) bool {
	if d.Date.Year != other.Date.Year {
		return d.Date.Year < other.Date.Year
	}
	if d.Date.Month != other.Date.Month {
		return d.Date.Month < other.Date.Month
	}
	if d.Date.Day != other.Date.Day {
		return d.Date.Day < other.Date.Day
	}
	if d.Time.Hour != other.Time.Hour {
		return d.Time.Hour < other.Time.Hour
	}
	if d.Time.Minute != other.Time.Minute {
		return d.Time.Minute < other.Time.Minute
	}
	if d.Time.Second != other.Time.Second {
		return d.Time.Second < other.Time.Second
	}
	return d.Time.Hundredths < other.Time.Hundredths
}

// AddSeconds returns d advanced by n seconds (used to derive Start_Time +
// Shed_Duration / Duty_Window boundaries). It only tracks seconds/minutes/
// hours/day-of-month rollover within a month's worth of seconds, which is
// all Shed_Duration and Duty_Window ever need in practice.
func (d BACnetDateTime) AddSeconds(n uint32) BACnetDateTime {
	total := uint32(d.Time.Hour)*3600 + uint32(d.Time.Minute)*60 + uint32(d.Time.Second) + n
	days := total / 86400
	rem := total % 86400
	out := d
	out.Time.Hour = uint8(rem / 3600)
	out.Time.Minute = uint8((rem % 3600) / 60)
	out.Time.Second = uint8(rem % 60)
	out.Date.Day += uint8(days)
	return out
}

// AnalogOutputLike is the commandable collaborator Load Control drives at
// CommandPriority; satisfied by CommandableAnalogOutput. CommandingPriority
// lets able_to_meet (§4.4.2) see whether some other priority already
// overrides CommandPriority on the output.
type AnalogOutputLike interface {
	PresentValue() float32
	PresentValuePriority(priority uint8, value *float32) error
	CommandingPriority() uint8
}

// wildcardDateTime is the "unspecified" BACnetDateTime, encoded the way
// EncodeDate represents a wildcard year (0xFFFF, rather than 1900+0xFF).
var wildcardDateTime = BACnetDateTime{
	Date: BACnetDate{Year: 0xFFFF, Month: 0xFF, Day: 0xFF, Weekday: 0xFF},
	Time: BACnetTime{Hour: 0xFF, Minute: 0xFF, Second: 0xFF, Hundredths: 0xFF},
}

func isWildcardDateTime(dt BACnetDateTime) bool {
	return dt.Date.Year == 0xFFFF
}

// CommandPriority is the fixed priority Load Control writes at (135-2004e
// mandates priority 4, "Minimum On/Off").
const CommandPriority uint8 = 4

// LoadControlInstance is one Load Control object: its configuration, its
// commandable output, and the state machine's mutable fields.
type LoadControlInstance struct {
	ObjectID    ObjectIdentifier
	ObjectName  string
	Description string

	Output AnalogOutputLike // the Analog Output (or other commandable object) this instance sheds

	// Configuration (Shed_Levels[0] is never written: index 0 is the count
	// sentinel on read, and a write to index 0 is WriteAccessDenied).
	ShedLevels            []ShedLevel
	ShedLevelDescriptions []string
	FullDutyBaseline      *float32

	// State-machine fields, 135-2004e §12.29.
	PresentValue        LoadControlState
	RequestedShedLevel  ShedLevel
	StartTime           BACnetDateTime
	ShedDuration        uint32 // minutes
	DutyWindow          uint32 // minutes
	EnableFlag          bool
	ExpectedShedLevel   ShedLevel
	ActualShedLevel     ShedLevel
	StatusFlags         StatusFlags
	EventState          EventState

	// RequestWritten and StartWritten are 135-2004e's write side-effect
	// flags (§4.4/§4.5): a write to RequestedShedLevel/ShedDuration/
	// DutyWindow sets RequestWritten; a write to StartTime sets
	// StartWritten. Tick consumes and clears them, so a write is only
	// ever observed by the next tick, never the one in progress.
	RequestWritten bool
	StartWritten   bool

	shedEnd BACnetDateTime // StartTime + ShedDuration, computed on entering REQUEST_PENDING/COMPLIANT
}

// NewLoadControlInstance builds an instance with EnableFlag set and the
// state machine idle, matching Load_Control_Init's per-instance defaults.
func NewLoadControlInstance(id ObjectIdentifier, name string, output AnalogOutputLike, shedLevels []ShedLevel, descriptions []string) *LoadControlInstance {
	return &LoadControlInstance{
		ObjectID:              id,
		ObjectName:            name,
		Output:                output,
		ShedLevels:            shedLevels,
		ShedLevelDescriptions: descriptions,
		PresentValue:          LoadControlShedInactive,
		EnableFlag:            true,
		EventState:            EventStateNormal,
	}
}

// RequestShed stages Requested_Shed_Level/Start_Time/Shed_Duration/
// Duty_Window exactly as a client's WriteProperty sequence would, setting
// RequestWritten and StartWritten so the next Tick drives the transition
// out of INACTIVE per §4.4 rather than jumping the state machine directly.
func (l *LoadControlInstance) RequestShed(level ShedLevel, start BACnetDateTime, shedDuration, dutyWindow uint32) {
	l.RequestedShedLevel = level
	l.StartTime = start
	l.ShedDuration = shedDuration
	l.DutyWindow = dutyWindow
	l.RequestWritten = true
	l.StartWritten = true
}

// CancelShed clears an in-progress or pending shed immediately, relinquishing
// the commanded output and returning to SHED_INACTIVE. 135-2004e allows
// returning to INACTIVE from any state by disabling or re-requesting with a
// null level; this is the explicit operator path for it.
func (l *LoadControlInstance) CancelShed() {
	if l.Output != nil {
		l.Output.PresentValuePriority(CommandPriority, nil)
	}
	l.PresentValue = LoadControlShedInactive
	l.ActualShedLevel = ShedLevel{}
	l.ExpectedShedLevel = ShedLevel{}
}

// Tick advances the state machine by one sample at now, mirroring
// Load_Control_State_Machine's per-instance switch and its write-flag
// side effects (§4.4).
func (l *LoadControlInstance) Tick(now BACnetDateTime) {
	if !l.EnableFlag {
		if l.PresentValue != LoadControlShedInactive {
			l.CancelShed()
		}
		return
	}

	switch l.PresentValue {
	case LoadControlShedInactive:
		if l.StartWritten {
			l.StartWritten = false
			l.ExpectedShedLevel = l.RequestedShedLevel
			l.ActualShedLevel = ShedLevel{}
			l.PresentValue = LoadControlShedRequestPending
		}

	case LoadControlShedRequestPending:
		if l.RequestWritten {
			l.RequestWritten = false
			if isCancellationSentinel(l.RequestedShedLevel) {
				l.returnToInactive()
				return
			}
		}
		if l.StartWritten {
			l.StartWritten = false
			if isWildcardDateTime(l.StartTime) {
				l.returnToInactive()
				return
			}
		}
		l.shedEnd = l.StartTime.AddSeconds(l.ShedDuration * 60)
		if l.shedEnd.Before(now) {
			l.returnToInactive()
			return
		}
		if now.Before(l.StartTime) {
			l.ExpectedShedLevel = l.RequestedShedLevel
			l.ActualShedLevel = ShedLevel{}
			return
		}
		l.enterAbleOrNonCompliant()

	case LoadControlShedCompliant:
		if l.shedEnd.Before(now) {
			// The resolved Open Question: the reference implementation's
			// loop wildcard-clears Start_Time on the loop index rather
			// than this object's own index, a stray bug. This reset is
			// always scoped to the receiver.
			l.StartTime = wildcardDateTime
			l.CancelShed()
			return
		}
		if l.RequestWritten || l.StartWritten {
			l.PresentValue = LoadControlShedRequestPending
			return
		}
		if !ableToMeetShed(l) {
			l.ExpectedShedLevel = ShedLevel{}
			l.ActualShedLevel = ShedLevel{}
			l.PresentValue = LoadControlShedNonCompliant
		}

	case LoadControlShedNonCompliant:
		if l.shedEnd.Before(now) {
			l.returnToInactive()
			return
		}
		if l.RequestWritten || l.StartWritten {
			l.PresentValue = LoadControlShedRequestPending
			return
		}
		if ableToMeetShed(l) {
			l.enterAbleOrNonCompliant()
		}
	}
}

// returnToInactive is the plain "return to INACTIVE" exit used by
// REQUEST_PENDING and NON_COMPLIANT; unlike COMPLIANT's exit it does not
// wildcard-reset Start_Time, since those states never actually commanded
// the output at CommandPriority.
func (l *LoadControlInstance) returnToInactive() {
	l.CancelShed()
}

// enterAbleOrNonCompliant is REQUEST_PENDING/NON_COMPLIANT's "now >=
// start_time" branch (§4.4 step 5 / the NON_COMPLIANT "able" repeat):
// command the output if able, else go NON_COMPLIANT.
func (l *LoadControlInstance) enterAbleOrNonCompliant() {
	if ableToMeetShed(l) {
		l.commandShed()
		l.ActualShedLevel = l.RequestedShedLevel
		l.ExpectedShedLevel = l.RequestedShedLevel
		l.PresentValue = LoadControlShedCompliant
	} else {
		l.ExpectedShedLevel = ShedLevel{}
		l.ActualShedLevel = ShedLevel{}
		l.PresentValue = LoadControlShedNonCompliant
	}
}

// isCancellationSentinel reports whether a ShedLevel is the §4.4 "cancel
// the shed" value for its own subtype.
func isCancellationSentinel(v ShedLevel) bool {
	switch v.Kind {
	case ShedLevelPercent:
		return v.Percent == 100
	case ShedLevelAmount:
		return v.Amount <= 0
	default:
		return v.Level == 0
	}
}

// commandShed writes the commandable output at CommandPriority to the
// value RequestedShedLevelValue derives.
func (l *LoadControlInstance) commandShed() {
	if l.Output == nil {
		return
	}
	v := RequestedShedLevelValue(l)
	l.Output.PresentValuePriority(CommandPriority, &v)
}

// RequestedShedLevelValue derives the numeric Analog-Output value the
// requested shed level implies, per §4.4.1 / Requested_Shed_Level_Value:
// Percent passes the percentage straight through; Amount computes
// (baseline-amount)/baseline*100 against the instance's own
// FullDutyBaseline; Level looks up ShedLevels for the greatest entry
// whose Percent field is <= the requested level (ties take the last
// match, no match takes index 0) and returns that entry's value. This
// repo's ShedLevels array plays both roles the reference keeps as
// separate Shed_Levels/Shed_Level_Values tables, since the threshold and
// the value it resolves to are the same configured number here.
func RequestedShedLevelValue(l *LoadControlInstance) float32 {
	switch l.RequestedShedLevel.Kind {
	case ShedLevelPercent:
		return float32(l.RequestedShedLevel.Percent)
	case ShedLevelAmount:
		if l.FullDutyBaseline == nil || *l.FullDutyBaseline == 0 {
			return 0
		}
		baseline := *l.FullDutyBaseline
		return (baseline - l.RequestedShedLevel.Amount) / baseline * 100.0
	default:
		return shedLevelTableValue(l.ShedLevels, l.RequestedShedLevel.Level)
	}
}

// shedLevelTableValue resolves a Level CHOICE member against the
// Shed_Levels table per §4.4.1.
func shedLevelTableValue(levels []ShedLevel, level uint32) float32 {
	if len(levels) == 0 {
		return 0
	}
	idx := 0
	for i, entry := range levels {
		if entry.Percent <= level {
			idx = i
		}
	}
	return float32(levels[idx].Percent)
}

// ableToMeetShed implements Able_To_Meet_Shed_Request per §4.4.2: false if
// the output is missing/disabled, or if some priority numerically lower
// than CommandPriority (i.e. higher precedence) already commands the
// output; otherwise true iff the output's current value
// already meets or exceeds the derived requested level.
func ableToMeetShed(l *LoadControlInstance) bool {
	if l.Output == nil || !l.EnableFlag {
		return false
	}
	if p := l.Output.CommandingPriority(); p != 0 && p < CommandPriority {
		return false
	}
	return l.Output.PresentValue() >= RequestedShedLevelValue(l)
}
