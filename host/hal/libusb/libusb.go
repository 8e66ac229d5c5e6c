package libusb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/gousb"

	"github.com/awenger/benchusb/host/hal"
	"github.com/awenger/benchusb/pkg"
)

// Bus wraps one gousb (libusb) context.
type Bus struct {
	ctx *gousb.Context
}

// NewBus initializes a libusb context for enumeration.
func NewBus() *Bus {
	return &Bus{ctx: gousb.NewContext()}
}

// Debug sets the libusb debug level (0-3).
func (b *Bus) Debug(level int) {
	b.ctx.Debug(level)
}

// Devices returns the currently attached devices. Descriptors are read
// during enumeration by libusb, so no device is opened here.
func (b *Bus) Devices() ([]hal.DeviceInfo, error) {
	var infos []hal.DeviceInfo
	// The opener rejects every device: this walks all descriptors without
	// opening anything.
	_, err := b.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		infos = append(infos, &deviceInfo{bus: b, desc: desc})
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	return infos, nil
}

// Close releases the libusb context.
func (b *Bus) Close() error {
	return b.ctx.Close()
}

// deviceInfo is one enumerated, unopened device.
type deviceInfo struct {
	bus  *Bus
	desc *gousb.DeviceDesc
}

func (d *deviceInfo) Descriptor() (hal.Descriptor, error) {
	// gousb surfaces descriptor-read failures during enumeration, so this
	// cannot fail after the device appears in Devices.
	return hal.Descriptor{
		VendorID:  uint16(d.desc.Vendor),
		ProductID: uint16(d.desc.Product),
		Bus:       d.desc.Bus,
		Address:   d.desc.Address,
		Class:     uint8(d.desc.Class),
		SubClass:  uint8(d.desc.SubClass),
		Protocol:  uint8(d.desc.Protocol),
	}, nil
}

func (d *deviceInfo) Open() (hal.DeviceHandle, error) {
	devs, err := d.bus.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Bus == d.desc.Bus && desc.Address == d.desc.Address &&
			desc.Vendor == d.desc.Vendor && desc.Product == d.desc.Product
	})
	if err != nil {
		for _, dev := range devs {
			dev.Close()
		}
		return nil, fmt.Errorf("open %s:%s: %w", d.desc.Vendor, d.desc.Product, err)
	}
	if len(devs) == 0 {
		return nil, fmt.Errorf("open %s:%s: device gone: %w",
			d.desc.Vendor, d.desc.Product, pkg.ErrOpenFailed)
	}
	dev := devs[0]
	// Bus and address identify one physical device; extras cannot happen,
	// but close them rather than leak if libusb disagrees.
	for _, extra := range devs[1:] {
		extra.Close()
	}
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		return nil, fmt.Errorf("auto-detach: %w", err)
	}
	return &deviceHandle{dev: dev}, nil
}

// deviceHandle is an open gousb device with, after Claim, a claimed
// interface and pre-opened bulk endpoints.
type deviceHandle struct {
	dev   *gousb.Device
	cfg   *gousb.Config
	iface *gousb.Interface
	in    map[uint8]*gousb.InEndpoint
	out   map[uint8]*gousb.OutEndpoint
}

func (h *deviceHandle) Claim(intf, alt int) ([]hal.EndpointDesc, error) {
	// Use whatever configuration the OS activated; the original tool
	// tolerates set-configuration being refused for the same reason.
	num, err := h.dev.ActiveConfigNum()
	if err != nil {
		return nil, fmt.Errorf("active config: %w", err)
	}
	cfg, err := h.dev.Config(num)
	if err != nil {
		return nil, fmt.Errorf("config %d: %w", num, err)
	}
	iface, err := cfg.Interface(intf, alt)
	if err != nil {
		cfg.Close()
		return nil, fmt.Errorf("claim interface %d alt %d: %w", intf, alt, err)
	}
	h.cfg = cfg
	h.iface = iface
	h.in = make(map[uint8]*gousb.InEndpoint)
	h.out = make(map[uint8]*gousb.OutEndpoint)

	var eps []hal.EndpointDesc
	for _, ed := range iface.Setting.Endpoints {
		eps = append(eps, hal.EndpointDesc{
			Address:       uint8(ed.Address),
			Attributes:    uint8(ed.TransferType),
			MaxPacketSize: uint16(ed.MaxPacketSize),
		})
		if ed.TransferType != gousb.TransferTypeBulk {
			continue
		}
		if ed.Direction == gousb.EndpointDirectionIn {
			ep, err := iface.InEndpoint(ed.Number)
			if err != nil {
				h.releaseInterface()
				return nil, fmt.Errorf("in endpoint %d: %w", ed.Number, err)
			}
			h.in[uint8(ed.Address)] = ep
		} else {
			ep, err := iface.OutEndpoint(ed.Number)
			if err != nil {
				h.releaseInterface()
				return nil, fmt.Errorf("out endpoint %d: %w", ed.Number, err)
			}
			h.out[uint8(ed.Address)] = ep
		}
	}
	pkg.LogDebug(pkg.ComponentHAL, "interface claimed",
		"config", num, "interface", intf, "alt", alt, "endpoints", len(eps))
	return eps, nil
}

func (h *deviceHandle) Submit(t *hal.Transfer) error {
	ctx := context.Background()
	var cancel context.CancelFunc
	if t.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	t.OnRelease(cancel)

	if t.IsIn() {
		ep, ok := h.in[t.Endpoint]
		if !ok {
			cancel()
			return fmt.Errorf("no bulk in endpoint %#02x: %w", t.Endpoint, pkg.ErrInvalidParameter)
		}
		go func() {
			n, err := ep.ReadContext(ctx, t.Data)
			t.Complete(hal.Result{Status: statusFor(ctx, err), Actual: n})
		}()
		return nil
	}

	ep, ok := h.out[t.Endpoint]
	if !ok {
		cancel()
		return fmt.Errorf("no bulk out endpoint %#02x: %w", t.Endpoint, pkg.ErrInvalidParameter)
	}
	go func() {
		n, err := ep.WriteContext(ctx, t.Data)
		t.Complete(hal.Result{Status: statusFor(ctx, err), Actual: n})
	}()
	return nil
}

func (h *deviceHandle) Close() error {
	h.releaseInterface()
	return h.dev.Close()
}

// releaseInterface releases the claimed interface and configuration; libusb
// reattaches any auto-detached kernel driver as part of the release.
func (h *deviceHandle) releaseInterface() {
	if h.iface != nil {
		h.iface.Close()
		h.iface = nil
	}
	if h.cfg != nil {
		h.cfg.Close()
		h.cfg = nil
	}
}

// statusFor maps a gousb transfer error onto the backend status codes.
func statusFor(ctx context.Context, err error) pkg.TransferStatus {
	switch {
	case err == nil:
		return pkg.TransferStatusSuccess
	case errors.Is(err, gousb.ErrorTimeout), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return pkg.TransferStatusTimeout
	case errors.Is(err, gousb.ErrorPipe):
		return pkg.TransferStatusStall
	case errors.Is(err, gousb.TransferCancelled), errors.Is(ctx.Err(), context.Canceled):
		return pkg.TransferStatusCancelled
	default:
		return pkg.TransferStatusError
	}
}
