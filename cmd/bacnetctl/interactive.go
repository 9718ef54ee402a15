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
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/bacnet-io/bacnetcore/bacnet"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start an interactive shell against the in-process dispatcher",
	Long: `Interactive mode provides a REPL over the same Dispatcher the CLI's
read/write/tick commands use, without re-reading --device on every command.

Commands:
  objects                            - List configured objects
  read <object> <property> [index]  - Read a property
  write <object> <property> <value> - Write a property
  tick [count]                      - Advance the Load Control state machines
  info                               - Show device info
  metrics                            - Show device metrics
  help                               - Show help
  exit                               - Exit interactive mode

Examples:
  bacnet> read load-control:1 present-value
  bacnet> write load-control:1 requested-shed-level 20
  bacnet> tick 3`,

	RunE: runInteractive,
}

// interactiveSession bundles the long-lived state the REPL closes over: a
// Device built once from --device. The REPL's read/write/tick commands go
// straight to its Dispatcher and Registry, so they do not move the
// Device's metrics counters.
type interactiveSession struct {
	registry   *bacnet.Registry
	cfg        *bacnet.DeviceConfig
	device     *bacnet.Device
	dispatcher *bacnet.Dispatcher
}

func runInteractive(cmd *cobra.Command, args []string) error {
	reg, cfg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	device := bacnet.NewDevice(reg,
		bacnet.WithListenAddress(cfg.ListenAddress),
		bacnet.WithDeviceIdentity(cfg.DeviceInstance, cfg.VendorID),
		bacnet.WithLogger(logger),
	)

	sess := &interactiveSession{
		registry:   reg,
		cfg:        cfg,
		device:     device,
		dispatcher: device.Dispatcher(),
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "bacnet> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("BACnet device shell")
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		command := strings.ToLower(parts[0])

		switch command {
		case "exit", "quit", "q":
			fmt.Println("Goodbye!")
			return nil

		case "help", "?":
			printInteractiveHelp()

		case "objects":
			sess.runObjects()

		case "read":
			if len(parts) < 3 {
				fmt.Println("Usage: read <object> <property> [index]")
				continue
			}
			index := -1
			if len(parts) >= 4 {
				fmt.Sscanf(parts[3], "%d", &index)
			}
			sess.runRead(parts[1], parts[2], index)

		case "write":
			if len(parts) < 4 {
				fmt.Println("Usage: write <object> <property> <value>")
				continue
			}
			sess.runWrite(parts[1], parts[2], strings.Join(parts[3:], " "))

		case "tick":
			count := 1
			if len(parts) >= 2 {
				fmt.Sscanf(parts[1], "%d", &count)
			}
			sess.runTick(count)

		case "info":
			sess.runInfo()

		case "metrics":
			sess.runMetrics()

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", command)
		}
	}
}

func printInteractiveHelp() {
	fmt.Println(`
Available commands:
  objects                            List load controls
  read <object> <property> [index]  Read a property (index optional, array props only)
  write <object> <property> <value> Write a property value
  tick [count]                       Advance every Load Control by count ticks (default 1)
  info                                Show device identity and object counts
  metrics                             Show device metrics
  help                                Show this help message
  exit                                Exit interactive mode

Object format: <type>:<instance>
  Examples: load-control:1, analog-output:1

Try 'present-value', 'requested-shed-level', 'shed-levels', 'enable' as
properties.`)
}

func (s *interactiveSession) runObjects() {
	for _, instance := range s.registry.AllLoadControlInstances() {
		l, _ := s.registry.LoadControl(instance)
		fmt.Printf("  load-control:%d  %q\n", instance, l.ObjectName)
	}
	fmt.Println()
}

func (s *interactiveSession) runRead(objStr, propStr string, index int) {
	objectID, err := parseObjectIdentifier(objStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	propID, err := parsePropertyIdentifier(propStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	arrayIndex := uint32(bacnet.ArrayAll)
	if index >= 0 {
		arrayIndex = uint32(index)
	}

	value, err := s.dispatcher.ReadProperty(objectID, propID, arrayIndex)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("%s.%s = %s\n", objectID.String(), propID.String(), formatApplicationValue(value))
}

func (s *interactiveSession) runWrite(objStr, propStr, valStr string) {
	objectID, err := parseObjectIdentifier(objStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	propID, err := parsePropertyIdentifier(propStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	value, err := parseApplicationValue(valStr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if err := s.dispatcher.WriteProperty(objectID, propID, bacnet.ArrayAll, value); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("OK: %s.%s = %s\n", objectID.String(), propID.String(), formatApplicationValue(value))
}

func (s *interactiveSession) runTick(count int) {
	for i := 0; i < count; i++ {
		s.registry.Tick(wallClockNow())
	}
	for _, instance := range s.registry.AllLoadControlInstances() {
		l, _ := s.registry.LoadControl(instance)
		fmt.Printf("  load-control:%d  present-value=%s  actual=%s  expected=%s\n",
			instance, l.PresentValue.String(), shedLevelString(l.ActualShedLevel), shedLevelString(l.ExpectedShedLevel))
	}
	fmt.Println()
}

func (s *interactiveSession) runInfo() {
	fmt.Printf("\nDevice %d (%s):\n", s.cfg.DeviceInstance, s.cfg.DeviceName)
	fmt.Printf("  vendor-id:      %d\n", s.cfg.VendorID)
	fmt.Printf("  listen-address: %s\n", s.cfg.ListenAddress)
	fmt.Printf("  analog-outputs: %d\n", len(s.cfg.AnalogOutputs))
	fmt.Printf("  load-controls:  %d\n", len(s.cfg.LoadControls))
	fmt.Println()
}

func (s *interactiveSession) runMetrics() {
	m := s.device.Metrics().Snapshot()

	fmt.Println("\nDevice Metrics:")
	fmt.Printf("  Uptime:                     %s\n", m.Uptime.Round(time.Second))
	fmt.Printf("  Frames Received:            %d\n", m.FramesReceived)
	fmt.Printf("  Frames Sent:                %d\n", m.FramesSent)
	fmt.Printf("  Decode Errors:              %d\n", m.DecodeErrors)
	fmt.Printf("  ReadProperty Requests:      %d\n", m.ReadPropertyRequests)
	fmt.Printf("  WriteProperty Requests:     %d\n", m.WritePropertyRequests)
	fmt.Printf("  Service Errors:             %d\n", m.ServiceErrors)
	fmt.Printf("  Ticks Processed:            %d\n", m.TicksProcessed)
	fmt.Printf("  Shed Requests Received:     %d\n", m.ShedRequestsReceived)
	fmt.Printf("  Shed Requests Compliant:    %d\n", m.ShedRequestsCompliant)
	fmt.Printf("  Shed Requests NonCompliant: %d\n", m.ShedRequestsNonCompliant)
	fmt.Printf("  Bytes Sent:                 %d\n", m.BytesSent)
	fmt.Printf("  Bytes Received:             %d\n", m.BytesReceived)

	if m.LatencyStats.Count > 0 {
		fmt.Printf("  Avg Service Latency:        %s\n", m.LatencyStats.Avg.Round(time.Microsecond))
		fmt.Printf("  Min Service Latency:        %s\n", m.LatencyStats.Min.Round(time.Microsecond))
		fmt.Printf("  Max Service Latency:        %s\n", m.LatencyStats.Max.Round(time.Microsecond))
	}
	fmt.Println()
}
