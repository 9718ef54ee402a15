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

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bacnet-io/bacnetcore/bacnet"
)

var (
	readObject     string
	readProperty   string
	readArrayIndex int
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read a property from an object in --device, against the in-process dispatcher",
	Long: `read resolves the object and property directly against the device's
Dispatcher, without going over the wire — a fast way to inspect
simulator state from a script or the terminal.

Examples:
  bacnetctl read -o load-control:1 -p present-value
  bacnetctl read -o load-control:1 -p shed-levels --index 1`,

	RunE: runRead,
}

func init() {
	readCmd.Flags().StringVarP(&readObject, "object", "o", "", "Object type and instance (e.g., load-control:1)")
	readCmd.Flags().StringVarP(&readProperty, "property", "p", "present-value", "Property identifier")
	readCmd.Flags().IntVar(&readArrayIndex, "index", -1, "Array index (-1 for no index)")
	readCmd.MarkFlagRequired("object")
}

func runRead(cmd *cobra.Command, args []string) error {
	objectID, err := parseObjectIdentifier(readObject)
	if err != nil {
		return fmt.Errorf("invalid object: %w", err)
	}
	propID, err := parsePropertyIdentifier(readProperty)
	if err != nil {
		return fmt.Errorf("invalid property: %w", err)
	}

	reg, _, err := loadRegistry()
	if err != nil {
		return err
	}
	dispatcher := bacnet.NewDispatcher(reg)

	arrayIndex := uint32(bacnet.ArrayAll)
	if readArrayIndex >= 0 {
		arrayIndex = uint32(readArrayIndex)
	}

	value, err := dispatcher.ReadProperty(objectID, propID, arrayIndex)
	if err != nil {
		return fmt.Errorf("read property: %w", err)
	}

	fmt.Printf("Object:   %s\n", objectID.String())
	fmt.Printf("Property: %s\n", propID.String())
	fmt.Printf("Value:    %s\n", formatApplicationValue(value))
	return nil
}

func parseObjectIdentifier(s string) (bacnet.ObjectIdentifier, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return bacnet.ObjectIdentifier{}, fmt.Errorf("expected format type:instance (e.g., load-control:1)")
	}

	instance, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return bacnet.ObjectIdentifier{}, fmt.Errorf("invalid instance number: %s", parts[1])
	}

	if typeNum, err := strconv.ParseUint(parts[0], 10, 16); err == nil {
		return bacnet.NewObjectIdentifier(bacnet.ObjectType(typeNum), uint32(instance)), nil
	}

	objType, ok := bacnet.ParseObjectType(strings.ToLower(parts[0]))
	if !ok {
		return bacnet.ObjectIdentifier{}, fmt.Errorf("unknown object type: %s", parts[0])
	}
	return bacnet.NewObjectIdentifier(objType, uint32(instance)), nil
}

func parsePropertyIdentifier(s string) (bacnet.PropertyIdentifier, error) {
	if propNum, err := strconv.ParseUint(s, 10, 32); err == nil {
		return bacnet.PropertyIdentifier(propNum), nil
	}
	prop, ok := bacnet.ParsePropertyIdentifier(strings.ToLower(s))
	if !ok {
		return 0, fmt.Errorf("unknown property: %s", s)
	}
	return prop, nil
}

// formatApplicationValue renders an ApplicationValue for terminal output.
func formatApplicationValue(v bacnet.ApplicationValue) string {
	switch v.Kind {
	case bacnet.KindNull:
		return "null"
	case bacnet.KindBoolean:
		return fmt.Sprintf("%v", v.Boolean)
	case bacnet.KindUnsigned:
		return fmt.Sprintf("%d", v.Unsigned)
	case bacnet.KindSigned:
		return fmt.Sprintf("%d", v.Signed)
	case bacnet.KindReal:
		return fmt.Sprintf("%.4f", v.Real)
	case bacnet.KindDouble:
		return fmt.Sprintf("%.6f", v.Double)
	case bacnet.KindCharacterString:
		return v.CharacterString
	case bacnet.KindEnumerated:
		return fmt.Sprintf("%d", v.Enumerated)
	case bacnet.KindObjectID:
		return v.ObjectID.String()
	case bacnet.KindOctetString:
		return fmt.Sprintf("%x", v.OctetString)
	case bacnet.KindEmptyList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = formatApplicationValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("<%v>", v.Kind)
	}
}
