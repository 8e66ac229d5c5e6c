package host

import (
	"fmt"

	"github.com/awenger/benchusb/host/hal"
	"github.com/awenger/benchusb/pkg"
	"github.com/awenger/benchusb/protocol"
)

// Instrument interface and alternate setting. The instruments this tool
// targets expose their bulk endpoint pair on interface 0, alt 0.
const (
	interfaceNumber  = 0
	alternateSetting = 0
)

// Resolve finds the first attached device matching the vendor/product pair,
// claims its interface, discovers the bulk endpoint pair, and returns a
// connected Session. On any failure after the device is opened, the handle
// is closed before returning: a Session is either fully connected or not
// constructed at all.
//
// Devices whose descriptor cannot be read are logged and skipped. If
// multiple attached devices share the pair, the first in enumeration order
// wins.
func Resolve(bus hal.Bus, vendor, product uint16, opts ...Option) (*Session, error) {
	devices, err := bus.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	pkg.LogDebug(pkg.ComponentResolver, "scanning devices",
		"count", len(devices), "vendor", fmt.Sprintf("%04x", vendor), "product", fmt.Sprintf("%04x", product))

	for _, dev := range devices {
		desc, err := dev.Descriptor()
		if err != nil {
			pkg.LogWarn(pkg.ComponentResolver, "skipping device: descriptor read failed", "err", err)
			continue
		}
		if desc.VendorID != vendor || desc.ProductID != product {
			continue
		}
		return connect(dev, desc, opts...)
	}
	return nil, fmt.Errorf("no device %04x:%04x attached: %w", vendor, product, pkg.ErrDeviceNotFound)
}

// connect opens the matched device and assembles the Session. Open failure
// is fatal to resolution: handle contention on the matched device is not
// something this layer can work around.
func connect(dev hal.DeviceInfo, desc hal.Descriptor, opts ...Option) (*Session, error) {
	handle, err := dev.Open()
	if err != nil {
		return nil, fmt.Errorf("open %04x:%04x: %w: %w", desc.VendorID, desc.ProductID, pkg.ErrOpenFailed, err)
	}

	endpoints, err := handle.Claim(interfaceNumber, alternateSetting)
	if err != nil {
		handle.Close()
		return nil, fmt.Errorf("claim %04x:%04x: %w: %w", desc.VendorID, desc.ProductID, pkg.ErrOpenFailed, err)
	}

	var out, in uint8
	var hasOut, hasIn bool
	for i := range endpoints {
		ep := &endpoints[i]
		if !ep.IsBulk() {
			continue
		}
		if ep.IsIn() {
			if !hasIn {
				in, hasIn = ep.Address, true
			}
		} else if !hasOut {
			out, hasOut = ep.Address, true
		}
	}
	if !hasOut || !hasIn {
		handle.Close()
		return nil, fmt.Errorf("%04x:%04x: bulk out=%v in=%v: %w",
			desc.VendorID, desc.ProductID, hasOut, hasIn, pkg.ErrMissingEndpoint)
	}

	s := &Session{
		handle:     handle,
		desc:       desc,
		out:        out,
		in:         in,
		seq:        protocol.NewCounter(),
		exec:       NewExecutor(DefaultTimeout),
		readBuffer: DefaultReadBuffer,
		turnaround: DefaultTurnaround,
		state:      stateConnected,
	}
	for _, opt := range opts {
		opt(s)
	}

	pkg.LogInfo(pkg.ComponentResolver, "session connected",
		"vendor", fmt.Sprintf("%04x", desc.VendorID),
		"product", fmt.Sprintf("%04x", desc.ProductID),
		"out", fmt.Sprintf("%#02x", out), "in", fmt.Sprintf("%#02x", in))
	return s, nil
}

// List returns the descriptors of all attached devices, skipping any whose
// descriptor cannot be read.
func List(bus hal.Bus) ([]hal.Descriptor, error) {
	devices, err := bus.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	descs := make([]hal.Descriptor, 0, len(devices))
	for _, dev := range devices {
		desc, err := dev.Descriptor()
		if err != nil {
			pkg.LogWarn(pkg.ComponentResolver, "skipping device: descriptor read failed", "err", err)
			continue
		}
		descs = append(descs, desc)
	}
	return descs, nil
}
