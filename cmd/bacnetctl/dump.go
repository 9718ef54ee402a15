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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bacnet-io/bacnetcore/bacnet"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <hex-frame>",
	Short: "Decode a raw BVLC/NPDU/APDU frame and print its structure",
	Long: `dump takes a hex-encoded BACnet/IP frame (as captured from a packet
trace) and decodes its BVLC header, NPDU header, and APDU, printing each
layer. Useful for understanding what a Device actually put on the wire,
or for feeding a frame into the codec without a real socket.

Example:
  bacnetctl dump 810a000c0105010c0c02000001190c`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	raw := strings.ReplaceAll(strings.TrimSpace(args[0]), " ", "")
	frame, err := hex.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("decoding hex: %w", err)
	}

	bvlc, err := bacnet.DecodeBVLC(frame)
	if err != nil {
		return fmt.Errorf("decoding BVLC: %w", err)
	}
	fmt.Printf("BVLC:  type=%d function=%d length=%d\n", bvlc.Type, bvlc.Function, bvlc.Length)

	if len(frame) < 4 {
		return fmt.Errorf("frame too short for an NPDU")
	}
	npdu, npduLen, err := bacnet.DecodeNPDU(frame[4:])
	if err != nil {
		return fmt.Errorf("decoding NPDU: %w", err)
	}
	fmt.Printf("NPDU:  version=%d control=%#02x dest-net=%d src-net=%d\n", npdu.Version, npdu.Control, npdu.DestNet, npdu.SrcNet)
	if len(npdu.DestAddr) > 0 {
		fmt.Printf("       dest-addr=%x hop-count=%d\n", npdu.DestAddr, npdu.DestHopCount)
	}
	if len(npdu.SrcAddr) > 0 {
		fmt.Printf("       src-addr=%x\n", npdu.SrcAddr)
	}
	_ = npduLen

	if npdu.Control&bacnet.NPDUControlNetworkLayerMessage != 0 {
		fmt.Printf("NET:   message-type=%#02x vendor-id=%d\n", npdu.MessageType, npdu.VendorID)
		return nil
	}

	apdu, err := bacnet.DecodeAPDU(npdu.Data)
	if err != nil {
		return fmt.Errorf("decoding APDU: %w", err)
	}
	fmt.Printf("APDU:  type=%d invoke-id=%d service=%d segmented=%v\n", apdu.Type, apdu.InvokeID, apdu.Service, apdu.Segmented)
	fmt.Printf("       data=%x\n", apdu.Data)
	return nil
}
