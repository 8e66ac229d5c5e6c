package host

import (
	"github.com/awenger/benchusb/host/hal"
	"github.com/awenger/benchusb/pkg"
)

// =============================================================================
// Mock HAL for Testing
// =============================================================================

// bulkPair is the endpoint layout of a well-behaved instrument.
func bulkPair(out, in uint8) []hal.EndpointDesc {
	return []hal.EndpointDesc{
		{Address: out, Attributes: 0x02, MaxPacketSize: 64},
		{Address: in, Attributes: 0x02, MaxPacketSize: 64},
	}
}

// mockResult scripts one transfer completion. fill, when set, is copied
// into the transfer buffer (IN transfers) before completing.
type mockResult struct {
	res  hal.Result
	fill []byte
}

// submitRecord captures one submitted transfer.
type submitRecord struct {
	endpoint uint8
	data     []byte
}

// mockHandle implements hal.DeviceHandle.
type mockHandle struct {
	claimEndpoints []hal.EndpointDesc
	claimErr       error
	submitErr      error
	noComplete     bool // leave the transfer pending forever

	// inData scripts IN transfer payloads, consumed in order.
	inData [][]byte

	// Scripted completions, consumed in order after inData. When exhausted,
	// transfers complete successfully with the full buffer length.
	results []mockResult

	submits  []submitRecord
	claims   int
	closes   int
	releases int
}

func (m *mockHandle) Claim(intf, alt int) ([]hal.EndpointDesc, error) {
	m.claims++
	if m.claimErr != nil {
		return nil, m.claimErr
	}
	return m.claimEndpoints, nil
}

func (m *mockHandle) Submit(t *hal.Transfer) error {
	t.OnRelease(func() { m.releases++ })
	if m.submitErr != nil {
		return m.submitErr
	}
	m.submits = append(m.submits, submitRecord{
		endpoint: t.Endpoint,
		data:     append([]byte(nil), t.Data...),
	})
	if m.noComplete {
		return nil
	}

	if t.IsIn() && len(m.inData) > 0 {
		fill := m.inData[0]
		m.inData = m.inData[1:]
		n := copy(t.Data, fill)
		t.Complete(hal.Result{Status: pkg.TransferStatusSuccess, Actual: n})
		return nil
	}

	r := mockResult{res: hal.Result{Status: pkg.TransferStatusSuccess, Actual: len(t.Data)}}
	if len(m.results) > 0 {
		r = m.results[0]
		m.results = m.results[1:]
	}
	if r.fill != nil {
		copy(t.Data, r.fill)
		if r.res.Actual == 0 {
			r.res.Actual = len(r.fill)
		}
	}
	t.Complete(r.res)
	return nil
}

func (m *mockHandle) Close() error {
	m.closes++
	return nil
}

// mockDevice implements hal.DeviceInfo.
type mockDevice struct {
	desc    hal.Descriptor
	descErr error
	openErr error
	handle  *mockHandle

	opens int
}

func (m *mockDevice) Descriptor() (hal.Descriptor, error) {
	if m.descErr != nil {
		return hal.Descriptor{}, m.descErr
	}
	return m.desc, nil
}

func (m *mockDevice) Open() (hal.DeviceHandle, error) {
	m.opens++
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.handle, nil
}

// mockBus implements hal.Bus.
type mockBus struct {
	devices []hal.DeviceInfo
	err     error

	closes int
}

func (m *mockBus) Devices() ([]hal.DeviceInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.devices, nil
}

func (m *mockBus) Close() error {
	m.closes++
	return nil
}

// newSession builds a connected session over the mock handle, bypassing
// resolution, for executor and facade tests.
func newSession(m *mockHandle, out, in uint8) *Session {
	s, _ := connectMock(m, out, in)
	return s
}

func connectMock(m *mockHandle, out, in uint8) (*Session, error) {
	dev := &mockDevice{
		desc:   hal.Descriptor{VendorID: 0x2A8D, ProductID: 0x1102},
		handle: m,
	}
	if m.claimEndpoints == nil {
		m.claimEndpoints = bulkPair(out, in)
	}
	return connect(dev, dev.desc, WithTurnaround(0))
}
