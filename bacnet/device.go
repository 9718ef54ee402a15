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
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/bacnet-io/bacnetcore/bacnet/internal/transport"
)

// DeviceOptions configures a Device.
type DeviceOptions struct {
	ListenAddress string
	DeviceID      uint32
	VendorID      uint16
	Logger        *slog.Logger
	TickInterval  time.Duration
}

func defaultDeviceOptions() DeviceOptions {
	return DeviceOptions{
		ListenAddress: "0.0.0.0:47808",
		TickInterval:  time.Second,
		Logger:        slog.Default(),
	}
}

// DeviceOption mutates DeviceOptions, following the functional-options
// shape.
type DeviceOption func(*DeviceOptions)

// WithListenAddress overrides the UDP address a Device binds to.
func WithListenAddress(addr string) DeviceOption {
	return func(o *DeviceOptions) { o.ListenAddress = addr }
}

// WithDeviceIdentity sets the device instance and vendor id. Run logs the
// device instance at start; neither value is put into any encoded reply.
func WithDeviceIdentity(deviceID uint32, vendorID uint16) DeviceOption {
	return func(o *DeviceOptions) { o.DeviceID = deviceID; o.VendorID = vendorID }
}

// WithTickInterval overrides how often Run advances the Load Control
// state machines.
func WithTickInterval(d time.Duration) DeviceOption {
	return func(o *DeviceOptions) { o.TickInterval = d }
}

// WithLogger overrides the *slog.Logger a Device logs through.
func WithLogger(l *slog.Logger) DeviceOption {
	return func(o *DeviceOptions) { o.Logger = l }
}

// Device is a simulated BACnet/IP device: a UDP listener decoding
// BVLC/NPDU/APDU frames, a Dispatcher routing ReadProperty/WriteProperty
// against a Registry, and a tick loop advancing every Load Control
// instance's state machine.
type Device struct {
	opts       DeviceOptions
	transport  *transport.UDPTransport
	dispatcher *Dispatcher
	metrics    *Metrics
	log        *slog.Logger
}

// NewDevice builds a Device backed by registry.
func NewDevice(registry *Registry, opts ...DeviceOption) *Device {
	o := defaultDeviceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Device{
		opts:       o,
		transport:  transport.NewUDPTransport(o.ListenAddress),
		dispatcher: NewDispatcher(registry),
		metrics:    NewMetrics(),
		log:        o.Logger,
	}
}

// Metrics returns the Device's metrics for external reporting (a CLI
// subcommand, an HTTP handler, whatever the caller wants).
func (d *Device) Metrics() *Metrics { return d.metrics }

// Dispatcher exposes the underlying Dispatcher, mainly so tests and the
// interactive CLI can drive ReadProperty/WriteProperty without going
// through the wire codec.
func (d *Device) Dispatcher() *Dispatcher { return d.dispatcher }

// Run opens the UDP socket and serves requests, and drives the tick loop,
// until ctx is cancelled.
func (d *Device) Run(ctx context.Context) error {
	if err := d.transport.Open(ctx); err != nil {
		return err
	}
	defer d.transport.Close()

	d.log.Info("device listening", "address", d.opts.ListenAddress, "device-id", d.opts.DeviceID)

	ticker := time.NewTicker(d.opts.TickInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				d.dispatcher.Registry.Tick(wallClockDateTime(now))
				d.metrics.TicksProcessed.Inc()
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, addr, err := d.transport.ReceiveWithTimeout(200 * time.Millisecond)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			continue
		}
		d.metrics.FramesReceived.Inc()
		d.metrics.BytesReceived.Add(int64(len(frame)))

		requestID := uuid.New()
		reply, err := d.handleFrame(requestID, frame)
		if err != nil {
			d.metrics.DecodeErrors.Inc()
			d.log.Debug("dropping malformed frame", "request-id", requestID, "from", addr, "error", err)
			continue
		}
		if reply == nil {
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = d.transport.Send(sendCtx, addr, reply)
		cancel()
		if err != nil {
			d.log.Warn("send reply failed", "request-id", requestID, "to", addr, "error", err)
			continue
		}
		d.metrics.FramesSent.Inc()
		d.metrics.BytesSent.Add(int64(len(reply)))
	}
}

// RunOverLink drives the same request/reply loop as Run, but against a
// Link instead of a real UDP socket: the MS/TP-shaped datalink
// abstraction this module generalizes to BACnet/IP, useful for driving a
// Device over an in-memory link in tests or over a non-UDP transport a
// caller supplies. The tick loop still runs on opts.TickInterval.
func (d *Device) RunOverLink(ctx context.Context, link Link) error {
	ticker := time.NewTicker(d.opts.TickInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				d.dispatcher.Registry.Tick(wallClockDateTime(now))
				d.metrics.TicksProcessed.Inc()
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !link.ByteAvailable() {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		frame, from, ok := link.Receive()
		if !ok {
			continue
		}
		d.metrics.FramesReceived.Inc()
		d.metrics.BytesReceived.Add(int64(len(frame)))

		requestID := uuid.New()
		reply, err := d.handleFrame(requestID, frame)
		if err != nil {
			d.metrics.DecodeErrors.Inc()
			d.log.Debug("dropping malformed frame", "request-id", requestID, "from", from, "error", err)
			continue
		}
		if reply == nil {
			continue
		}
		if err := link.Send(from, reply); err != nil {
			d.log.Warn("send reply failed", "request-id", requestID, "to", from, "error", err)
			continue
		}
		d.metrics.FramesSent.Inc()
		d.metrics.BytesSent.Add(int64(len(reply)))
	}
}

// handleFrame decodes one BVLC/NPDU/APDU frame and, for a confirmed
// ReadProperty/WriteProperty request, builds the reply frame. It returns
// a nil reply (with a nil error) for unconfirmed requests and other
// non-request APDUs, and for network-layer messages. The NPDU destination
// is not checked.
func (d *Device) handleFrame(requestID uuid.UUID, frame []byte) ([]byte, error) {
	bvlc, err := DecodeBVLC(frame)
	if err != nil {
		return nil, err
	}
	npduStart := 4
	if len(frame) < npduStart {
		return nil, ErrInvalidBVLC
	}
	npdu, npduLen, err := DecodeNPDU(frame[npduStart:])
	if err != nil {
		return nil, err
	}
	if npdu.Control&NPDUControlNetworkLayerMessage != 0 {
		return nil, nil
	}

	apdu, err := DecodeAPDU(npdu.Data)
	if err != nil {
		return nil, err
	}
	if apdu.Type != PDUTypeConfirmedRequest {
		return nil, nil
	}

	_ = bvlc
	_ = npduLen

	service := ConfirmedServiceChoice(apdu.Service)
	var replyAPDU []byte
	switch service {
	case ServiceReadProperty:
		d.metrics.ReadPropertyRequests.Inc()
		replyAPDU = d.handleReadProperty(apdu)
	case ServiceWriteProperty:
		d.metrics.WritePropertyRequests.Inc()
		replyAPDU = d.handleWriteProperty(apdu)
	default:
		d.metrics.RejectsSent.Inc()
		replyAPDU = EncodeRejectAPDU(apdu.InvokeID, RejectReasonUnrecognizedService)
	}

	replyNPDU := EncodeNPDU(NpduHeader{Data: replyAPDU})
	replyBVLC := EncodeBVLC(BVLCOriginalUnicastNPDU, len(replyNPDU))
	return append(replyBVLC, replyNPDU...), nil
}

func (d *Device) handleReadProperty(apdu *APDU) []byte {
	obj, property, arrayIndex, err := decodeReadPropertyRequest(apdu.Data)
	if err != nil {
		d.metrics.ServiceErrors.Inc()
		return EncodeRejectAPDU(apdu.InvokeID, RejectReasonInvalidTag)
	}
	value, err := d.dispatcher.ReadProperty(obj, property, arrayIndex)
	if err != nil {
		d.metrics.ServiceErrors.Inc()
		return encodeErrorFor(apdu.InvokeID, ServiceReadProperty, err)
	}
	body := encodeReadPropertyAck(obj, property, arrayIndex, value)
	return EncodeComplexAck(apdu.InvokeID, ServiceReadProperty, body)
}

func (d *Device) handleWriteProperty(apdu *APDU) []byte {
	obj, property, arrayIndex, value, err := decodeWritePropertyRequest(apdu.Data)
	if err != nil {
		d.metrics.ServiceErrors.Inc()
		return EncodeRejectAPDU(apdu.InvokeID, RejectReasonInvalidTag)
	}
	if err := d.dispatcher.WriteProperty(obj, property, arrayIndex, value); err != nil {
		d.metrics.ServiceErrors.Inc()
		if property == PropertyRequestedShedLevel {
			d.metrics.ShedRequestsReceived.Inc()
		}
		return encodeErrorFor(apdu.InvokeID, ServiceWriteProperty, err)
	}
	if property == PropertyRequestedShedLevel {
		d.metrics.ShedRequestsReceived.Inc()
	}
	return EncodeSimpleAck(apdu.InvokeID, ServiceWriteProperty)
}

func encodeErrorFor(invokeID uint8, service ConfirmedServiceChoice, err error) []byte {
	class, code := ErrorClassAndCode(err)
	return EncodeErrorAPDU(invokeID, service, class, code)
}

// wallClockDateTime samples t into the plain BACnetDateTime the state
// machine compares Start_Time against.
func wallClockDateTime(t time.Time) BACnetDateTime {
	weekday := uint8(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return BACnetDateTime{
		Date: BACnetDate{Year: uint16(t.Year()), Month: uint8(t.Month()), Day: uint8(t.Day()), Weekday: weekday},
		Time: BACnetTime{Hour: uint8(t.Hour()), Minute: uint8(t.Minute()), Second: uint8(t.Second())},
	}
}
