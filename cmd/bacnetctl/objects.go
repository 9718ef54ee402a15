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

var objectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "List the objects described by --device",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadRegistry()
		if err != nil {
			return err
		}

		f := NewFormatter(FormatTable)
		fmt.Printf("device %s (instance %d, vendor %d)\n\n", cfg.DeviceName, cfg.DeviceInstance, cfg.VendorID)

		aoRows := make([][]string, 0, len(cfg.AnalogOutputs))
		for _, ao := range cfg.AnalogOutputs {
			aoRows = append(aoRows, []string{
				fmt.Sprintf("analog-output:%d", ao.Instance),
				ao.Name,
				fmt.Sprintf("%.2f", ao.RelinquishDefault),
			})
		}
		f.PrintTable([]string{"object", "name", "relinquish-default"}, aoRows)

		fmt.Println()
		lcRows := make([][]string, 0, len(cfg.LoadControls))
		for _, lc := range cfg.LoadControls {
			lcRows = append(lcRows, []string{
				fmt.Sprintf("load-control:%d", lc.Instance),
				lc.Name,
				fmt.Sprintf("analog-output:%d", lc.Output),
				fmt.Sprintf("%d", len(lc.ShedLevels)),
			})
		}
		f.PrintTable([]string{"object", "name", "output", "shed-levels"}, lcRows)
		return nil
	},
}
