package host

import (
	"fmt"
	"strings"
	"time"

	"github.com/awenger/benchusb/host/hal"
	"github.com/awenger/benchusb/pkg"
	"github.com/awenger/benchusb/protocol"
)

// Session defaults.
const (
	// DefaultReadBuffer is the receive capacity advertised by Query.
	DefaultReadBuffer = 512

	// DefaultTurnaround is the settle delay around the receive-request
	// phase, accommodating instrument turnaround latency.
	DefaultTurnaround = 50 * time.Millisecond
)

type sessionState int

const (
	stateConnected sessionState = iota
	stateClosed
)

// Session is one open, configured, endpoint-resolved connection to one
// physical instrument. Sessions are created by Resolve and destroyed by
// Close; Write, Read, and Query are valid only while connected. A Session
// must be used from a single goroutine.
type Session struct {
	handle hal.DeviceHandle
	desc   hal.Descriptor
	out    uint8
	in     uint8

	seq        *protocol.Counter
	exec       *Executor
	readBuffer int
	turnaround time.Duration
	state      sessionState
}

// Option adjusts a Session at connect time.
type Option func(*Session)

// WithTimeout sets the per-transfer timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.exec = NewExecutor(d) }
}

// WithReadBuffer sets the receive capacity used by Query.
func WithReadBuffer(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.readBuffer = n
		}
	}
}

// WithTurnaround sets the settle delay around the receive-request phase.
func WithTurnaround(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.turnaround = d
		}
	}
}

// Descriptor returns the descriptor of the connected device.
func (s *Session) Descriptor() hal.Descriptor {
	return s.desc
}

// OutEndpoint returns the bulk OUT endpoint address.
func (s *Session) OutEndpoint() uint8 {
	return s.out
}

// InEndpoint returns the bulk IN endpoint address.
func (s *Session) InEndpoint() uint8 {
	return s.in
}

// Write frames the command and sends it on the OUT endpoint. The command
// must not contain a NUL byte; a '\n' terminator is appended on the wire.
func (s *Session) Write(command string) error {
	if s.state != stateConnected {
		return pkg.ErrSessionClosed
	}
	if strings.ContainsRune(command, 0) {
		return fmt.Errorf("command contains NUL: %w", pkg.ErrInvalidCommand)
	}
	frame := protocol.Encode(protocol.KindSend, s.seq.Next(), []byte(command), true)
	if _, err := s.exec.Submit(s.handle, s.out, frame); err != nil {
		return fmt.Errorf("write %q: %w", command, err)
	}
	pkg.LogDebug(pkg.ComponentSession, "command written", "command", command)
	return nil
}

// Read performs the two-phase response read: a receive-request frame on the
// OUT endpoint advertising size bytes of capacity, then a receiving
// transfer on the IN endpoint. When the reply begins with a well-formed
// frame header it is stripped and the declared payload returned; otherwise
// the bytes are returned as received. Use ReadRaw for the unstripped wire
// bytes.
func (s *Session) Read(size int) ([]byte, error) {
	raw, err := s.ReadRaw(size)
	if err != nil {
		return nil, err
	}
	return stripHeader(raw), nil
}

// ReadRaw is Read without header stripping.
func (s *Session) ReadRaw(size int) ([]byte, error) {
	if s.state != stateConnected {
		return nil, pkg.ErrSessionClosed
	}
	if size <= 0 {
		return nil, fmt.Errorf("read size %d: %w", size, pkg.ErrInvalidParameter)
	}

	// Give the instrument time to stage its response before and after the
	// request frame.
	time.Sleep(s.turnaround)
	req := protocol.EncodeRequest(s.seq.Next(), uint32(size))
	if _, err := s.exec.Submit(s.handle, s.out, req); err != nil {
		return nil, fmt.Errorf("request response: %w", err)
	}
	time.Sleep(s.turnaround)

	buf := make([]byte, size)
	n, err := s.exec.Submit(s.handle, s.in, buf)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	pkg.LogDebug(pkg.ComponentSession, "response received", "bytes", n)
	return buf[:n], nil
}

// Query writes the command and reads its response with the configured
// receive capacity, trimming padding and the trailing terminator.
func (s *Session) Query(command string) (string, error) {
	if err := s.Write(command); err != nil {
		return "", err
	}
	reply, err := s.Read(s.readBuffer)
	if err != nil {
		return "", fmt.Errorf("query %q: %w", command, err)
	}
	text := strings.TrimRight(string(reply), "\x00")
	return strings.TrimRight(text, "\r\n"), nil
}

// Close releases the claimed interface and the device handle. The session
// is terminal after Close; a second call returns ErrSessionClosed.
func (s *Session) Close() error {
	if s.state == stateClosed {
		return pkg.ErrSessionClosed
	}
	s.state = stateClosed
	if err := s.handle.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	pkg.LogInfo(pkg.ComponentSession, "session closed",
		"vendor", fmt.Sprintf("%04x", s.desc.VendorID),
		"product", fmt.Sprintf("%04x", s.desc.ProductID))
	return nil
}

// stripHeader drops a leading well-formed frame header from a response and
// trims trailing padding when the declared length fits the received bytes.
// Replies that do not start with a valid header pass through untouched.
func stripHeader(raw []byte) []byte {
	h, err := protocol.DecodeHeader(raw)
	if err != nil || !h.Valid() {
		return raw
	}
	payload := raw[protocol.HeaderSize:]
	if n := int(h.Length); n <= len(payload) {
		payload = payload[:n]
	}
	return payload
}
