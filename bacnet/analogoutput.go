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

// commandablePriorities is the length of a BACnet commandable priority
// array: sixteen slots, 1 (highest) through 16 (lowest). The relinquish
// default is held outside the array.
const commandablePriorities = 16

// CommandableAnalogOutput is a minimal Analog Output object with the
// standard sixteen-level priority array. Load_Control instances write
// their commanded shed value at CommandPriority; any higher-priority
// writer (operator override, another process) takes precedence until it
// relinquishes.
type CommandableAnalogOutput struct {
	ObjectID         ObjectIdentifier
	ObjectName       string
	priorityArray    [commandablePriorities]*float32
	relinquishDefault float32
	StatusFlags      StatusFlags
	OutOfService     bool
}

// NewCommandableAnalogOutput builds an output with relinquishDefault as
// the value reported when every priority slot is empty.
func NewCommandableAnalogOutput(id ObjectIdentifier, name string, relinquishDefault float32) *CommandableAnalogOutput {
	return &CommandableAnalogOutput{ObjectID: id, ObjectName: name, relinquishDefault: relinquishDefault}
}

// PresentValue returns the value at the highest occupied priority, or
// relinquishDefault if the array is empty.
func (a *CommandableAnalogOutput) PresentValue() float32 {
	for _, v := range a.priorityArray {
		if v != nil {
			return *v
		}
	}
	return a.relinquishDefault
}

// CommandingPriority reports which priority (1-16) currently governs
// PresentValue, or 0 if the array is entirely relinquished.
func (a *CommandableAnalogOutput) CommandingPriority() uint8 {
	for i, v := range a.priorityArray {
		if v != nil {
			return uint8(i + 1)
		}
	}
	return 0
}

// PresentValuePriority writes value at the given 1-based priority, or
// relinquishes that slot when value is nil.
func (a *CommandableAnalogOutput) PresentValuePriority(priority uint8, value *float32) error {
	if priority < 1 || priority > commandablePriorities {
		return newCodecError(CodecValueOutOfRange, "priority out of range 1..16")
	}
	a.priorityArray[priority-1] = value
	return nil
}

// PresentValueRelinquish clears every priority slot, equivalent to writing
// nil at every priority.
func (a *CommandableAnalogOutput) PresentValueRelinquish() {
	for i := range a.priorityArray {
		a.priorityArray[i] = nil
	}
}

// PriorityArraySnapshot copies the current priority array for a
// ReadProperty of Priority_Array: element i is nil when priority i+1 is
// relinquished.
func (a *CommandableAnalogOutput) PriorityArraySnapshot() [commandablePriorities]*float32 {
	var out [commandablePriorities]*float32
	for i, v := range a.priorityArray {
		if v != nil {
			cp := *v
			out[i] = &cp
		}
	}
	return out
}
