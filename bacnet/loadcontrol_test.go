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

func newTestLoadControl() (*LoadControlInstance, *CommandableAnalogOutput) {
	out := NewCommandableAnalogOutput(NewObjectIdentifier(ObjectTypeAnalogOutput, 1), "AHU-1 Supply Fan", 100.0)
	lc := NewLoadControlInstance(
		NewObjectIdentifier(ObjectTypeLoadControl, 1), "AHU-1 Demand Shed", out,
		[]ShedLevel{{Kind: ShedLevelPercent, Percent: 10}, {Kind: ShedLevelPercent, Percent: 20}},
		[]string{"light shed", "heavy shed"},
	)
	return lc, out
}

func TestLoadControlStartsInactive(t *testing.T) {
	lc, _ := newTestLoadControl()
	if lc.PresentValue != LoadControlShedInactive {
		t.Fatalf("got state %v, want inactive", lc.PresentValue)
	}
	if !lc.EnableFlag {
		t.Fatal("expected EnableFlag true by default")
	}
}

func TestLoadControlShedCycleToCompliant(t *testing.T) {
	lc, out := newTestLoadControl()
	now := BACnetDateTime{Date: BACnetDate{Year: 2026, Month: 8, Day: 6}, Time: BACnetTime{Hour: 10}}

	lc.RequestShed(ShedLevel{Kind: ShedLevelPercent, Percent: 20}, now, 60, 0)
	if lc.PresentValue != LoadControlShedInactive {
		t.Fatalf("got state %v, want still inactive before the next tick observes the write", lc.PresentValue)
	}

	// First tick (before Start_Time has arrived) only consumes StartWritten
	// and enters REQUEST_PENDING; it must not command anything yet.
	lc.Tick(BACnetDateTime{Date: now.Date, Time: BACnetTime{Hour: 9, Minute: 59}})
	if lc.PresentValue != LoadControlShedRequestPending {
		t.Fatalf("ticked before start time, got state %v, want request-pending", lc.PresentValue)
	}

	// Tick at/after Start_Time: should command the shed and go compliant.
	lc.Tick(now)
	if lc.PresentValue != LoadControlShedCompliant {
		t.Fatalf("got state %v, want compliant", lc.PresentValue)
	}
	if !SameShedLevel(lc.ActualShedLevel, ShedLevel{Kind: ShedLevelPercent, Percent: 20}) {
		t.Errorf("got actual shed level %+v, want 20%%", lc.ActualShedLevel)
	}
	wantOutput := float32(20)
	if out.PresentValue() != wantOutput {
		t.Errorf("got output %v, want %v", out.PresentValue(), wantOutput)
	}
}

func TestLoadControlNonCompliantWhenOutputMissing(t *testing.T) {
	lc := NewLoadControlInstance(NewObjectIdentifier(ObjectTypeLoadControl, 2), "no-output", nil, nil, nil)
	now := BACnetDateTime{Date: BACnetDate{Year: 2026, Month: 8, Day: 6}, Time: BACnetTime{Hour: 10}}
	lc.RequestShed(ShedLevel{Kind: ShedLevelPercent, Percent: 10}, now, 60, 0)
	lc.Tick(now) // INACTIVE -> REQUEST_PENDING, consumes StartWritten
	lc.Tick(now) // REQUEST_PENDING, now >= start_time, no output -> NON_COMPLIANT
	if lc.PresentValue != LoadControlShedNonCompliant {
		t.Fatalf("got state %v, want non-compliant", lc.PresentValue)
	}
}

func TestLoadControlReturnsToInactiveAfterDuration(t *testing.T) {
	lc, _ := newTestLoadControl()
	start := BACnetDateTime{Date: BACnetDate{Year: 2026, Month: 8, Day: 6}, Time: BACnetTime{Hour: 10}}
	lc.RequestShed(ShedLevel{Kind: ShedLevelPercent, Percent: 20}, start, 1, 0) // 1 minute duration
	lc.Tick(start)
	lc.Tick(start)
	if lc.PresentValue != LoadControlShedCompliant {
		t.Fatalf("got state %v, want compliant", lc.PresentValue)
	}

	after := start.AddSeconds(61)
	lc.Tick(after)
	if lc.PresentValue != LoadControlShedInactive {
		t.Fatalf("got state %v, want inactive after duration elapsed", lc.PresentValue)
	}
	if !SameShedLevel(lc.ActualShedLevel, ShedLevel{}) {
		t.Errorf("expected actual shed level cleared, got %+v", lc.ActualShedLevel)
	}
}

func TestLoadControlDisabledCancelsShed(t *testing.T) {
	lc, out := newTestLoadControl()
	now := BACnetDateTime{Date: BACnetDate{Year: 2026, Month: 8, Day: 6}, Time: BACnetTime{Hour: 10}}
	lc.RequestShed(ShedLevel{Kind: ShedLevelPercent, Percent: 20}, now, 60, 0)
	lc.Tick(now)
	lc.Tick(now)
	if lc.PresentValue != LoadControlShedCompliant {
		t.Fatalf("setup: got state %v, want compliant", lc.PresentValue)
	}

	lc.EnableFlag = false
	lc.Tick(now)
	if lc.PresentValue != LoadControlShedInactive {
		t.Fatalf("got state %v, want inactive once disabled", lc.PresentValue)
	}
	if out.CommandingPriority() != 0 {
		t.Errorf("expected output relinquished at CommandPriority, got commanding priority %d", out.CommandingPriority())
	}
}

// TestLoadControlRequestedShedLevelValueFormulas covers §4.4.1's three
// derivation formulas, including the named baseline=1.5/amount=1.0 ->
// ~33.3% scenario.
func TestLoadControlRequestedShedLevelValueFormulas(t *testing.T) {
	lc, _ := newTestLoadControl()

	lc.RequestedShedLevel = ShedLevel{Kind: ShedLevelPercent, Percent: 42}
	if got := RequestedShedLevelValue(lc); got != 42 {
		t.Errorf("percent: got %v, want 42", got)
	}

	baseline := float32(1.5)
	lc.FullDutyBaseline = &baseline
	lc.RequestedShedLevel = ShedLevel{Kind: ShedLevelAmount, Amount: 1.0}
	got := RequestedShedLevelValue(lc)
	want := float32(33.333332)
	if got < want-0.01 || got > want+0.01 {
		t.Errorf("amount: got %v, want ~%v", got, want)
	}

	lc.ShedLevels = []ShedLevel{{Percent: 0}, {Percent: 10}, {Percent: 20}}
	lc.RequestedShedLevel = ShedLevel{Kind: ShedLevelLevel, Level: 1}
	if got := RequestedShedLevelValue(lc); got != 0 {
		t.Errorf("level: got %v, want 0", got)
	}
}

// TestLoadControlAbleToMeetShedRespectsHigherPriority covers §4.4.2: a
// higher-precedence (numerically lower) priority already commanding the
// output makes the instance unable to meet its own shed request even
// though the output's present value would otherwise satisfy it.
func TestLoadControlAbleToMeetShedRespectsHigherPriority(t *testing.T) {
	lc, out := newTestLoadControl()
	lc.RequestedShedLevel = ShedLevel{Kind: ShedLevelPercent, Percent: 10}

	if !ableToMeetShed(lc) {
		t.Fatal("expected able to meet shed with no overriding priority")
	}

	override := float32(5)
	if err := out.PresentValuePriority(1, &override); err != nil {
		t.Fatalf("PresentValuePriority: %v", err)
	}
	if ableToMeetShed(lc) {
		t.Fatal("expected unable to meet shed once priority 1 overrides CommandPriority")
	}
}

// TestLoadControlStartTimeScopedPerInstance covers the resolved Open
// Question: ticking one instance's shed-duration expiry must never touch
// another instance's Start_Time, the bug the reference implementation's
// shared loop index produced.
func TestLoadControlStartTimeScopedPerInstance(t *testing.T) {
	outA := NewCommandableAnalogOutput(NewObjectIdentifier(ObjectTypeAnalogOutput, 1), "A", 100.0)
	outB := NewCommandableAnalogOutput(NewObjectIdentifier(ObjectTypeAnalogOutput, 2), "B", 100.0)
	a := NewLoadControlInstance(NewObjectIdentifier(ObjectTypeLoadControl, 1), "a", outA, []ShedLevel{{Kind: ShedLevelPercent, Percent: 10}}, nil)
	b := NewLoadControlInstance(NewObjectIdentifier(ObjectTypeLoadControl, 2), "b", outB, []ShedLevel{{Kind: ShedLevelPercent, Percent: 10}}, nil)

	registry := NewRegistry()
	registry.AddLoadControl(a)
	registry.AddLoadControl(b)

	start := BACnetDateTime{Date: BACnetDate{Year: 2026, Month: 8, Day: 6}, Time: BACnetTime{Hour: 10}}
	bStart := start.AddSeconds(300) // b starts later than a

	a.RequestShed(ShedLevel{Kind: ShedLevelPercent, Percent: 10}, start, 1, 0)
	b.RequestShed(ShedLevel{Kind: ShedLevelPercent, Percent: 10}, bStart, 60, 0)

	registry.Tick(start) // both consume StartWritten: a, b -> REQUEST_PENDING
	registry.Tick(start) // a goes compliant; b is still pending (before its start time)
	if a.PresentValue != LoadControlShedCompliant {
		t.Fatalf("a: got state %v, want compliant", a.PresentValue)
	}
	if b.PresentValue != LoadControlShedRequestPending {
		t.Fatalf("b: got state %v, want request-pending", b.PresentValue)
	}
	bStartTimeBeforeExpiry := b.StartTime

	// a's 1-minute duration elapses; this must clear only a.StartTime.
	registry.Tick(start.AddSeconds(61))
	if a.PresentValue != LoadControlShedInactive {
		t.Fatalf("a: got state %v, want inactive", a.PresentValue)
	}
	if b.StartTime != bStartTimeBeforeExpiry {
		t.Fatalf("b.StartTime was clobbered by a's expiry: got %+v, want %+v", b.StartTime, bStartTimeBeforeExpiry)
	}
}

func TestShedLevelContextRoundTrip(t *testing.T) {
	tests := []ShedLevel{
		{Kind: ShedLevelPercent, Percent: 42},
		{Kind: ShedLevelLevel, Level: 3},
		{Kind: ShedLevelAmount, Amount: 12.5},
	}
	for _, lvl := range tests {
		enc := EncodeShedLevelContext(0, lvl)
		got, n, err := DecodeShedLevelContext(enc)
		if err != nil {
			t.Fatalf("DecodeShedLevelContext: %v", err)
		}
		if n != len(enc) || !SameShedLevel(got, lvl) {
			t.Errorf("got %+v (n=%d), want %+v (n=%d)", got, n, lvl, len(enc))
		}
	}
}

func TestCommandableAnalogOutputPriorityArray(t *testing.T) {
	out := NewCommandableAnalogOutput(NewObjectIdentifier(ObjectTypeAnalogOutput, 1), "out", 50.0)
	if out.PresentValue() != 50.0 {
		t.Fatalf("got %v, want relinquish-default 50.0", out.PresentValue())
	}

	low := float32(10)
	if err := out.PresentValuePriority(8, &low); err != nil {
		t.Fatalf("PresentValuePriority: %v", err)
	}
	if out.PresentValue() != 10 {
		t.Fatalf("got %v, want 10 from priority 8", out.PresentValue())
	}

	high := float32(1)
	if err := out.PresentValuePriority(CommandPriority, &high); err != nil {
		t.Fatalf("PresentValuePriority: %v", err)
	}
	if out.PresentValue() != 1 {
		t.Fatalf("got %v, want 1 from the higher (lower-numbered) priority", out.PresentValue())
	}
	if out.CommandingPriority() != CommandPriority {
		t.Fatalf("got commanding priority %d, want %d", out.CommandingPriority(), CommandPriority)
	}

	if err := out.PresentValuePriority(0, nil); err == nil {
		t.Fatal("expected error for priority 0")
	}
	if err := out.PresentValuePriority(17, nil); err == nil {
		t.Fatal("expected error for priority 17")
	}

	out.PresentValueRelinquish()
	if out.PresentValue() != 50.0 {
		t.Fatalf("got %v after relinquish, want relinquish-default", out.PresentValue())
	}
}
