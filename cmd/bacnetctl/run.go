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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bacnet-io/bacnetcore/bacnet"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulated device described by --device until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, cfg, err := loadRegistry()
		if err != nil {
			return err
		}

		device := bacnet.NewDevice(reg,
			bacnet.WithListenAddress(listenAddr),
			bacnet.WithDeviceIdentity(cfg.DeviceInstance, cfg.VendorID),
			bacnet.WithLogger(logger),
		)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		fmt.Fprintf(os.Stderr, "starting device %q (instance %d) on %s\n", cfg.DeviceName, cfg.DeviceInstance, listenAddr)
		err = device.Run(ctx)
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}
