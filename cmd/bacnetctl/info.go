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

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display the device identity and object counts from --device",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadRegistry()
		if err != nil {
			return err
		}

		f := NewFormatter(FormatTable)
		f.PrintKeyValue(map[string]interface{}{
			"device-name":     cfg.DeviceName,
			"device-instance": cfg.DeviceInstance,
			"vendor-id":       cfg.VendorID,
			"listen-address":  cfg.ListenAddress,
			"analog-outputs":  len(cfg.AnalogOutputs),
			"load-controls":   len(cfg.LoadControls),
		}, []string{"device-name", "device-instance", "vendor-id", "listen-address", "analog-outputs", "load-controls"})

		fmt.Println()
		return nil
	},
}
