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
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bacnet-io/bacnetcore/bacnet"
)

var (
	cfgFile      string
	deviceConfig string
	listenAddr   string
	verbose      bool

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bacnetctl",
	Short: "A BACnet/IP Load Control device simulator",
	Long: `bacnetctl runs a simulated BACnet/IP device hosting Load Control and
Analog Output objects, and provides local tools for inspecting and
driving it without a network round trip.

Examples:
  # Run the device described by a config file
  bacnetctl run --device device.yaml

  # List the objects a config file describes
  bacnetctl objects --device device.yaml

  # Read a property directly against the in-process dispatcher
  bacnetctl read --device device.yaml -o load-control:1 -p requested-shed-level

  # Advance every Load Control instance by one tick
  bacnetctl tick --device device.yaml`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := slog.LevelInfo
		if verbose {
			logLevel = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "bacnetctl config file (default is $HOME/.bacnetctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&deviceConfig, "device", "device.yaml", "device topology YAML file")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "listen", "0.0.0.0:47808", "UDP address to listen on")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	viper.BindPFlag("device", rootCmd.PersistentFlags().Lookup("device"))
	viper.BindPFlag("listen", rootCmd.PersistentFlags().Lookup("listen"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(objectsCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(tickCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".bacnetctl")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BACNET")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// loadRegistry reads the device topology file and builds the Registry
// every subcommand other than dump/version operates against.
func loadRegistry() (*bacnet.Registry, *bacnet.DeviceConfig, error) {
	cfg, err := bacnet.LoadDeviceConfig(deviceConfig)
	if err != nil {
		return nil, nil, err
	}
	reg, err := cfg.BuildRegistry()
	if err != nil {
		return nil, nil, err
	}
	return reg, cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("bacnetctl version 1.0.0")
	},
}
