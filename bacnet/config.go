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
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ShedLevelConfig is one entry of a Load Control instance's configured
// shed levels in a DeviceConfig file: exactly one of Percent/Level/Amount
// should be set, mirroring the ShedLevel CHOICE.
type ShedLevelConfig struct {
	Description string   `yaml:"description"`
	Percent     *uint32  `yaml:"percent,omitempty"`
	Level       *uint32  `yaml:"level,omitempty"`
	Amount      *float32 `yaml:"amount,omitempty"`
}

// ToShedLevel converts a config entry to the runtime ShedLevel. The first
// field set, in percent, level, amount order, wins; with none set it
// returns a zero ShedLevelPercent.
func (c ShedLevelConfig) ToShedLevel() ShedLevel {
	switch {
	case c.Percent != nil:
		return ShedLevel{Kind: ShedLevelPercent, Percent: *c.Percent}
	case c.Level != nil:
		return ShedLevel{Kind: ShedLevelLevel, Level: *c.Level}
	case c.Amount != nil:
		return ShedLevel{Kind: ShedLevelAmount, Amount: *c.Amount}
	default:
		return ShedLevel{Kind: ShedLevelPercent}
	}
}

// AnalogOutputConfig describes one Analog Output object a LoadControlConfig
// can target.
type AnalogOutputConfig struct {
	Instance          uint32  `yaml:"instance"`
	Name              string  `yaml:"name"`
	RelinquishDefault float32 `yaml:"relinquish_default"`
}

// LoadControlConfig describes one Load Control object and the shed levels
// it offers.
type LoadControlConfig struct {
	Instance   uint32            `yaml:"instance"`
	Name       string            `yaml:"name"`
	Output     uint32            `yaml:"output"` // Analog Output instance number this instance sheds
	ShedLevels []ShedLevelConfig `yaml:"shed_levels"`
}

// DeviceConfig is the on-disk description of a simulated device: its
// identity and the Load Control / Analog Output objects it hosts.
type DeviceConfig struct {
	DeviceInstance uint32               `yaml:"device_instance"`
	DeviceName     string               `yaml:"device_name"`
	VendorID       uint16               `yaml:"vendor_id"`
	ListenAddress  string               `yaml:"listen_address"`
	AnalogOutputs  []AnalogOutputConfig `yaml:"analog_outputs"`
	LoadControls   []LoadControlConfig  `yaml:"load_controls"`
}

// LoadDeviceConfig reads and validates a DeviceConfig from path.
func LoadDeviceConfig(path string) (*DeviceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading device config: %w", err)
	}
	var cfg DeviceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing device config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks structural invariants across the whole config,
// accumulating every problem found rather than stopping at the first.
func (c *DeviceConfig) Validate() error {
	var errs error
	if c.DeviceInstance == 0 {
		errs = multierr.Append(errs, fmt.Errorf("device_instance must be nonzero"))
	}

	outputs := make(map[uint32]bool, len(c.AnalogOutputs))
	for _, ao := range c.AnalogOutputs {
		if outputs[ao.Instance] {
			errs = multierr.Append(errs, fmt.Errorf("analog_outputs: duplicate instance %d", ao.Instance))
		}
		outputs[ao.Instance] = true
	}

	seen := make(map[uint32]bool, len(c.LoadControls))
	for _, lc := range c.LoadControls {
		if seen[lc.Instance] {
			errs = multierr.Append(errs, fmt.Errorf("load_controls: duplicate instance %d", lc.Instance))
		}
		seen[lc.Instance] = true
		if !outputs[lc.Output] {
			errs = multierr.Append(errs, fmt.Errorf("load_controls[%d]: output %d is not a configured analog output", lc.Instance, lc.Output))
		}
		for i, lvl := range lc.ShedLevels {
			if err := validateShedLevelConfig(lvl); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("load_controls[%d].shed_levels[%d]: %w", lc.Instance, i, err))
			}
		}
	}
	return errs
}

func validateShedLevelConfig(c ShedLevelConfig) error {
	set := 0
	if c.Percent != nil {
		set++
	}
	if c.Level != nil {
		set++
	}
	if c.Amount != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("exactly one of percent/level/amount must be set, got %d", set)
	}
	if c.Percent != nil && *c.Percent > 100 {
		return fmt.Errorf("percent must be 0..100, got %d", *c.Percent)
	}
	return nil
}

// BuildRegistry instantiates a Registry from a validated DeviceConfig,
// wiring each Load Control instance's Output to the AnalogOutput the
// config named.
func (c *DeviceConfig) BuildRegistry() (*Registry, error) {
	reg := NewRegistry()
	for _, ao := range c.AnalogOutputs {
		reg.AddAnalogOutput(NewCommandableAnalogOutput(
			ObjectIdentifier{Type: ObjectTypeAnalogOutput, Instance: ao.Instance},
			ao.Name,
			ao.RelinquishDefault,
		))
	}
	for _, lc := range c.LoadControls {
		output, ok := reg.AnalogOutput(lc.Output)
		if !ok {
			return nil, fmt.Errorf("load control %d: output %d not found", lc.Instance, lc.Output)
		}
		levels := make([]ShedLevel, len(lc.ShedLevels))
		descriptions := make([]string, len(lc.ShedLevels))
		for i, lvl := range lc.ShedLevels {
			levels[i] = lvl.ToShedLevel()
			descriptions[i] = lvl.Description
		}
		reg.AddLoadControl(NewLoadControlInstance(
			ObjectIdentifier{Type: ObjectTypeLoadControl, Instance: lc.Instance},
			lc.Name,
			output,
			levels,
			descriptions,
		))
	}
	return reg, nil
}
