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
	"errors"
	"testing"
)

func newTestDispatcher() (*Dispatcher, *LoadControlInstance) {
	out := NewCommandableAnalogOutput(NewObjectIdentifier(ObjectTypeAnalogOutput, 1), "out", 100.0)
	lc := NewLoadControlInstance(
		NewObjectIdentifier(ObjectTypeLoadControl, 1), "AHU-1 Demand Shed", out,
		[]ShedLevel{{Kind: ShedLevelPercent, Percent: 10}, {Kind: ShedLevelPercent, Percent: 20}},
		[]string{"light shed", "heavy shed"},
	)
	registry := NewRegistry()
	registry.AddAnalogOutput(out)
	registry.AddLoadControl(lc)
	return NewDispatcher(registry), lc
}

func TestDispatcherReadScalarProperties(t *testing.T) {
	d, lc := newTestDispatcher()
	obj := lc.ObjectID

	v, err := d.ReadProperty(obj, PropertyObjectName, ArrayAll)
	if err != nil {
		t.Fatalf("ReadProperty(object-name): %v", err)
	}
	if v.CharacterString != lc.ObjectName {
		t.Errorf("got %q, want %q", v.CharacterString, lc.ObjectName)
	}

	v, err = d.ReadProperty(obj, PropertyPresentValue, ArrayAll)
	if err != nil {
		t.Fatalf("ReadProperty(present-value): %v", err)
	}
	if LoadControlState(v.Enumerated) != LoadControlShedInactive {
		t.Errorf("got %v, want inactive", LoadControlState(v.Enumerated))
	}
}

func TestDispatcherReadUnknownObjectOrProperty(t *testing.T) {
	d, _ := newTestDispatcher()

	_, err := d.ReadProperty(NewObjectIdentifier(ObjectTypeLoadControl, 99), PropertyPresentValue, ArrayAll)
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("got %v, want ErrObjectNotFound", err)
	}

	_, err = d.ReadProperty(NewObjectIdentifier(ObjectTypeAnalogOutput, 1), PropertyPresentValue, ArrayAll)
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("got %v, want ErrObjectNotFound for unsupported object type", err)
	}

	d2, lc := newTestDispatcher()
	_, err = d2.ReadProperty(lc.ObjectID, PropertyHighLimit, ArrayAll)
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("got %v, want ErrPropertyNotFound", err)
	}
}

func TestDispatcherShedLevelsArraySemantics(t *testing.T) {
	d, lc := newTestDispatcher()

	count, err := d.ReadProperty(lc.ObjectID, PropertyShedLevels, 0)
	if err != nil {
		t.Fatalf("ReadProperty index 0: %v", err)
	}
	if count.Unsigned != uint32(len(lc.ShedLevels)) {
		t.Errorf("got count %d, want %d", count.Unsigned, len(lc.ShedLevels))
	}

	elem, err := d.ReadProperty(lc.ObjectID, PropertyShedLevels, 2)
	if err != nil {
		t.Fatalf("ReadProperty index 2: %v", err)
	}
	if elem.Unsigned != lc.ShedLevels[1].Percent {
		t.Errorf("got %d, want %d", elem.Unsigned, lc.ShedLevels[1].Percent)
	}

	all, err := d.ReadProperty(lc.ObjectID, PropertyShedLevels, ArrayAll)
	if err != nil {
		t.Fatalf("ReadProperty ArrayAll: %v", err)
	}
	if len(all.List) != len(lc.ShedLevels) {
		t.Errorf("got %d elements, want %d", len(all.List), len(lc.ShedLevels))
	}

	if _, err := d.ReadProperty(lc.ObjectID, PropertyShedLevels, 99); !errors.Is(err, ErrInvalidArrayIndex) {
		t.Errorf("got %v, want ErrInvalidArrayIndex", err)
	}
}

func TestDispatcherWriteShedLevelsValidation(t *testing.T) {
	d, lc := newTestDispatcher()

	// Index 0 (the count) is always WriteAccessDenied.
	if err := d.WriteProperty(lc.ObjectID, PropertyShedLevels, 0, UnsignedValue(5)); !errors.Is(err, ErrWriteAccessDenied) {
		t.Errorf("got %v, want ErrWriteAccessDenied", err)
	}

	// Replacing an existing element in place.
	if err := d.WriteProperty(lc.ObjectID, PropertyShedLevels, 1, UnsignedValue(15)); err != nil {
		t.Fatalf("write element 1: %v", err)
	}
	if lc.ShedLevels[0].Percent != 15 {
		t.Errorf("got %d, want 15", lc.ShedLevels[0].Percent)
	}

	// Extending the array by exactly one past the end is allowed.
	if err := d.WriteProperty(lc.ObjectID, PropertyShedLevels, 3, UnsignedValue(30)); err != nil {
		t.Fatalf("write element 3 (extend): %v", err)
	}
	if len(lc.ShedLevels) != 3 {
		t.Fatalf("got %d elements, want 3", len(lc.ShedLevels))
	}

	// A write that would leave a gap is rejected.
	if err := d.WriteProperty(lc.ObjectID, PropertyShedLevels, 10, UnsignedValue(1)); !errors.Is(err, ErrInvalidArrayIndex) {
		t.Errorf("got %v, want ErrInvalidArrayIndex", err)
	}
}

func TestDispatcherWriteShedLevelsWholeArray(t *testing.T) {
	d, lc := newTestDispatcher()
	list := ApplicationValue{Kind: KindEmptyList, List: []ApplicationValue{UnsignedValue(5), UnsignedValue(25)}}
	if err := d.WriteProperty(lc.ObjectID, PropertyShedLevels, ArrayAll, list); err != nil {
		t.Fatalf("write whole array: %v", err)
	}
	if len(lc.ShedLevels) != 2 || lc.ShedLevels[0].Percent != 5 || lc.ShedLevels[1].Percent != 25 {
		t.Errorf("got %+v", lc.ShedLevels)
	}
}

func TestDispatcherWriteStateMachineDerivedDenied(t *testing.T) {
	d, lc := newTestDispatcher()
	denied := []PropertyIdentifier{PropertyPresentValue, PropertyStatusFlags, PropertyEventState, PropertyExpectedShedLevel, PropertyActualShedLevel}
	for _, p := range denied {
		if err := d.WriteProperty(lc.ObjectID, p, ArrayAll, UnsignedValue(0)); !errors.Is(err, ErrWriteAccessDenied) {
			t.Errorf("property %v: got %v, want ErrWriteAccessDenied", p, err)
		}
	}
}

func TestDispatcherWriteRequestedShedLevel(t *testing.T) {
	d, lc := newTestDispatcher()
	if err := d.WriteProperty(lc.ObjectID, PropertyRequestedShedLevel, ArrayAll, UnsignedValue(25)); err != nil {
		t.Fatalf("write requested-shed-level: %v", err)
	}
	if !SameShedLevel(lc.RequestedShedLevel, ShedLevel{Kind: ShedLevelPercent, Percent: 25}) {
		t.Errorf("got %+v, want 25%%", lc.RequestedShedLevel)
	}
}

// TestDispatcherWriteChainsThroughToTick is the §8 monotonic-state-law
// scenario driven entirely through the Property Dispatcher: writing
// Requested_Shed_Level and a future Start_Time and then ticking past
// Start_Time must reach COMPLIANT, exactly as RequestShed would.
func TestDispatcherWriteChainsThroughToTick(t *testing.T) {
	d, lc := newTestDispatcher()
	registry := d.Registry

	start := BACnetDateTime{Date: BACnetDate{Year: 2026, Month: 8, Day: 6}, Time: BACnetTime{Hour: 10}}
	future := dateTimeAsApplicationValue(start)

	if err := d.WriteProperty(lc.ObjectID, PropertyRequestedShedLevel, ArrayAll, UnsignedValue(20)); err != nil {
		t.Fatalf("write requested-shed-level: %v", err)
	}
	if err := d.WriteProperty(lc.ObjectID, PropertyShedDuration, ArrayAll, UnsignedValue(60)); err != nil {
		t.Fatalf("write shed-duration: %v", err)
	}
	if err := d.WriteProperty(lc.ObjectID, PropertyStartTime, ArrayAll, future); err != nil {
		t.Fatalf("write start-time: %v", err)
	}

	if lc.PresentValue != LoadControlShedInactive {
		t.Fatalf("got state %v before any tick, want inactive", lc.PresentValue)
	}

	registry.Tick(start) // INACTIVE -> REQUEST_PENDING, consumes the writes
	if lc.PresentValue != LoadControlShedRequestPending {
		t.Fatalf("got state %v after first tick, want request-pending", lc.PresentValue)
	}

	registry.Tick(start) // now >= start_time -> COMPLIANT
	if lc.PresentValue != LoadControlShedCompliant {
		t.Fatalf("got state %v, want compliant: a WriteProperty-driven shed must reach the same state RequestShed does", lc.PresentValue)
	}
	if !SameShedLevel(lc.ActualShedLevel, ShedLevel{Kind: ShedLevelPercent, Percent: 20}) {
		t.Errorf("got actual shed level %+v, want 20%%", lc.ActualShedLevel)
	}
}

func TestDispatcherWriteEnable(t *testing.T) {
	d, lc := newTestDispatcher()
	if err := d.WriteProperty(lc.ObjectID, PropertyEnable, ArrayAll, BooleanValue(false)); err != nil {
		t.Fatalf("write enable: %v", err)
	}
	if lc.EnableFlag {
		t.Fatal("EnableFlag still true after write")
	}
	if err := d.WriteProperty(lc.ObjectID, PropertyEnable, ArrayAll, UnsignedValue(1)); err == nil {
		t.Fatal("expected type mismatch error writing a non-boolean to enable")
	}
}
