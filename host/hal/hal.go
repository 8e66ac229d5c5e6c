package hal

import (
	"sync"
	"time"

	"github.com/awenger/benchusb/pkg"
)

// TransferType indicates the type of USB transfer an endpoint supports.
type TransferType uint8

// Transfer type constants (low two bits of the endpoint attributes).
const (
	TransferControl     TransferType = 0 // Control transfer
	TransferIsochronous TransferType = 1 // Isochronous transfer
	TransferBulk        TransferType = 2 // Bulk transfer
	TransferInterrupt   TransferType = 3 // Interrupt transfer
)

// Endpoint direction bit within the endpoint address.
const DirectionIn = 0x80

// Descriptor holds the identifying fields of a device descriptor.
type Descriptor struct {
	VendorID  uint16 // Vendor identifier
	ProductID uint16 // Product identifier
	Bus       int    // Bus number the device is attached to
	Address   int    // Device address on its bus
	Class     uint8  // Device class code
	SubClass  uint8  // Device subclass code
	Protocol  uint8  // Device protocol code
}

// EndpointDesc describes one endpoint of a claimed interface.
type EndpointDesc struct {
	Address       uint8  // Endpoint address including direction bit
	Attributes    uint8  // Transfer type and sync/usage flags
	MaxPacketSize uint16 // Maximum packet size
}

// Number returns the endpoint number (0-15).
func (e *EndpointDesc) Number() uint8 {
	return e.Address & 0x0F
}

// IsIn returns true if this is an IN endpoint (device to host).
func (e *EndpointDesc) IsIn() bool {
	return e.Address&DirectionIn != 0
}

// TransferType returns the endpoint's transfer type.
func (e *EndpointDesc) TransferType() TransferType {
	return TransferType(e.Attributes & 0x03)
}

// IsBulk returns true if this is a bulk endpoint.
func (e *EndpointDesc) IsBulk() bool {
	return e.TransferType() == TransferBulk
}

// Result is the outcome of a completed transfer as reported by the backend.
type Result struct {
	Status pkg.TransferStatus // Backend completion status
	Actual int                // Bytes actually transferred
}

// Transfer is a single asynchronous bulk transfer. The backend delivers
// exactly one Result on the completion channel; Release must be called on
// every exit path to free backend resources.
type Transfer struct {
	// Endpoint address including direction bit
	Endpoint uint8

	// Data buffer: bytes to send for OUT, receive space for IN
	Data []byte

	// Timeout bounds the transfer on the backend side
	Timeout time.Duration

	done    chan Result
	release func()
	once    sync.Once
}

// NewTransfer creates a transfer for the given endpoint and buffer.
func NewTransfer(endpoint uint8, data []byte, timeout time.Duration) *Transfer {
	return &Transfer{
		Endpoint: endpoint,
		Data:     data,
		Timeout:  timeout,
		done:     make(chan Result, 1),
	}
}

// IsIn returns true if the transfer targets an IN endpoint.
func (t *Transfer) IsIn() bool {
	return t.Endpoint&DirectionIn != 0
}

// Done returns the one-shot completion channel.
func (t *Transfer) Done() <-chan Result {
	return t.done
}

// Complete delivers the transfer result. Backends call it exactly once.
func (t *Transfer) Complete(r Result) {
	t.done <- r
}

// OnRelease installs the backend's resource teardown hook.
func (t *Transfer) OnRelease(fn func()) {
	t.release = fn
}

// Release frees backend resources associated with the transfer. It is
// idempotent and safe on every exit path, including submission errors.
func (t *Transfer) Release() {
	t.once.Do(func() {
		if t.release != nil {
			t.release()
		}
	})
}

// Bus enumerates attached USB devices. One Bus wraps one host library
// context; Close releases it.
type Bus interface {
	// Devices returns the currently attached devices. Per-device descriptor
	// failures are reported by DeviceInfo.Descriptor, not here.
	Devices() ([]DeviceInfo, error)

	// Close releases the enumeration context. After Close returns, no
	// DeviceInfo obtained from this Bus may be used.
	Close() error
}

// DeviceInfo is one enumerated device, not yet opened.
type DeviceInfo interface {
	// Descriptor reads the device descriptor. Failures are per-device and
	// recoverable: callers skip the device and continue scanning.
	Descriptor() (Descriptor, error)

	// Open opens a handle to the device for exclusive use.
	Open() (DeviceHandle, error)
}

// DeviceHandle is an open device. The owner must call Close exactly once.
type DeviceHandle interface {
	// Claim detaches any kernel driver if the platform requires it, selects
	// the active configuration, claims the given interface and alternate
	// setting, and returns the endpoints of that alternate setting.
	Claim(intf, alt int) ([]EndpointDesc, error)

	// Submit starts a bulk transfer without blocking. The result is
	// delivered on the transfer's completion channel.
	Submit(t *Transfer) error

	// Close releases the claimed interface, restores any detached kernel
	// driver, and closes the handle.
	Close() error
}
