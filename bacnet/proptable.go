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

// propertyContextTag mirrors bacapp_context_tag_type: a context tag
// number alone never says what primitive type its payload is, so a
// generic context-tagged decoder (DecodeKnownProperty, used for
// WriteProperty values) has to know, per property, what to expect. Properties not listed here either never arrive
// context-tagged in a position this codec decodes generically, or are
// handled by a dedicated constructed-value decoder in value_constructed.go
// instead (DeviceObjectPropertyReference, TimeStamp, HostNPort, ...).
var propertyContextTag = map[PropertyIdentifier]ApplicationTag{
	PropertyObjectType:       TagEnumerated,
	PropertyObjectName:       TagCharacterString,
	PropertyDescription:     TagCharacterString,
	PropertyStatusFlags:      TagBitString,
	PropertyEventState:       TagEnumerated,
	PropertyReliability:      TagEnumerated,
	PropertyOutOfService:     TagBoolean,
	PropertyUnits:            TagEnumerated,
	PropertyPriority:         TagUnsignedInt,
	PropertyPriorityForWriting: TagUnsignedInt,
	PropertyAllWritesSuccessful: TagBoolean,
	PropertyDatabaseRevision: TagUnsignedInt,
	PropertyVendorIdentifier: TagUnsignedInt,
	PropertyVendorName:       TagCharacterString,
	PropertyModelName:        TagCharacterString,
	PropertyFirmwareRevision: TagCharacterString,
	PropertyProtocolVersion:  TagUnsignedInt,
	PropertyProtocolRevision: TagUnsignedInt,
	PropertySegmentationSupported: TagEnumerated,
	PropertyMaxApduLengthAccepted:  TagUnsignedInt,

	// Load Control
	PropertyShedDuration:      TagUnsignedInt,
	PropertyDutyWindow:        TagUnsignedInt,
	PropertyEnable:            TagBoolean,
	PropertyFullDutyBaseline:  TagReal,
	PropertyExpectedShedLevel: TagUnsignedInt,
	PropertyActualShedLevel:   TagUnsignedInt,
}

// PropertyContextTagType resolves the primitive type a context-tagged
// payload for property carries. ok is false when the property isn't in
// the table, meaning the caller must fall back to a dedicated constructed
// decoder or treat the payload as opaque.
func PropertyContextTagType(property PropertyIdentifier) (ApplicationTag, bool) {
	t, ok := propertyContextTag[property]
	return t, ok
}

// DecodeKnownProperty decodes a single property's context-tagged value
// using the table above, falling through to the generic application-
// tagged decoder if the property isn't known to carry a context tag at
// this position (the common case: most WriteProperty requests wrap an
// application-tagged value in a context-tag-3 bracket rather than giving
// the value itself a meaningful context number).
func DecodeKnownProperty(data []byte, tagNum uint8, property PropertyIdentifier) (ApplicationValue, int, error) {
	if appTag, ok := PropertyContextTagType(property); ok {
		if v, n, err := DecodeContextFor(data, tagNum, appTag); err == nil {
			return v, n, nil
		}
	}
	return DecodeApplication(data)
}
