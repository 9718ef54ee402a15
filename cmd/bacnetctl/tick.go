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
	"time"

	"github.com/spf13/cobra"

	"github.com/bacnet-io/bacnetcore/bacnet"
)

var tickCount int

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Advance every Load Control instance in --device by one or more ticks",
	Long: `tick drives the Load Control state machine without starting the UDP
listener, printing Present_Value/Actual_Shed_Level/Expected_Shed_Level
after each step. Useful for exercising a shed scenario end to end from
a config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, err := loadRegistry()
		if err != nil {
			return err
		}

		f := NewFormatter(FormatTable)
		for i := 0; i < tickCount; i++ {
			now := wallClockNow()
			reg.Tick(now)

			rows := [][]string{}
			for _, instance := range reg.AllLoadControlInstances() {
				l, _ := reg.LoadControl(instance)
				rows = append(rows, []string{
					fmt.Sprintf("load-control:%d", instance),
					l.PresentValue.String(),
					shedLevelString(l.ActualShedLevel),
					shedLevelString(l.ExpectedShedLevel),
				})
			}
			fmt.Printf("tick %d:\n", i+1)
			f.PrintTable([]string{"object", "present-value", "actual-shed-level", "expected-shed-level"}, rows)
			fmt.Println()
		}
		return nil
	},
}

func init() {
	tickCmd.Flags().IntVar(&tickCount, "count", 1, "number of ticks to run")
}

func wallClockNow() bacnet.BACnetDateTime {
	t := time.Now()
	weekday := uint8(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return bacnet.BACnetDateTime{
		Date: bacnet.BACnetDate{Year: uint16(t.Year()), Month: uint8(t.Month()), Day: uint8(t.Day()), Weekday: weekday},
		Time: bacnet.BACnetTime{Hour: uint8(t.Hour()), Minute: uint8(t.Minute()), Second: uint8(t.Second())},
	}
}

func shedLevelString(lvl bacnet.ShedLevel) string {
	switch lvl.Kind {
	case bacnet.ShedLevelPercent:
		return fmt.Sprintf("%d%%", lvl.Percent)
	case bacnet.ShedLevelLevel:
		return fmt.Sprintf("level %d", lvl.Level)
	default:
		return fmt.Sprintf("%.2f", lvl.Amount)
	}
}
