package protocol

import (
	"encoding/binary"

	"github.com/awenger/benchusb/pkg"
)

// Kind identifies the message kind carried in a frame header.
type Kind byte

// Frame kinds understood by the instrument.
const (
	KindSend           Kind = 1 // Host is sending command data
	KindReceiveRequest Kind = 2 // Host requests the instrument's response
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindSend:
		return "send"
	case KindReceiveRequest:
		return "receive-request"
	default:
		return "unknown"
	}
}

// Frame layout constants.
const (
	// HeaderSize is the fixed size of a frame header in bytes.
	HeaderSize = 12

	// Terminator is appended to outgoing command payloads.
	Terminator = '\n'

	// endOfMessage marks a frame as the last of its logical message.
	// Messages are never fragmented, so every frame carries it.
	endOfMessage = 1
)

// Header is the decoded form of the 12-byte frame header.
type Header struct {
	Kind         Kind   // Message kind
	Sequence     byte   // Sequence byte, 1-255
	Complement   byte   // Bitwise complement of Sequence
	Length       uint32 // Payload length, terminator included when present
	EndOfMessage byte   // End-of-message flag, always 1 on the wire
}

// Valid reports whether the header is structurally consistent: a known kind
// and a complement byte matching the sequence byte.
func (h *Header) Valid() bool {
	if h.Kind != KindSend && h.Kind != KindReceiveRequest {
		return false
	}
	return h.Complement == ^h.Sequence
}

// EncodedSize returns the total encoded frame size for a body of n bytes:
// header plus body, rounded up to the next multiple of 4.
func EncodedSize(n int) int {
	size := HeaderSize + n
	return size + (4-size%4)%4
}

// Encode builds a complete wire frame: header, payload, optional terminator,
// and zero padding to a multiple of 4 bytes. When terminate is true a single
// '\n' is appended to the payload and counted in the header's length field.
// Encoding never fails.
func Encode(kind Kind, seq byte, payload []byte, terminate bool) []byte {
	body := len(payload)
	if terminate {
		body++
	}
	frame := make([]byte, EncodedSize(body))
	putHeader(frame, kind, seq, uint32(body))
	copy(frame[HeaderSize:], payload)
	if terminate {
		frame[HeaderSize+len(payload)] = Terminator
	}
	return frame
}

// EncodeRequest builds a header-only receive-request frame whose length
// field advertises how many bytes the host is prepared to accept.
func EncodeRequest(seq byte, size uint32) []byte {
	frame := make([]byte, HeaderSize)
	putHeader(frame, KindReceiveRequest, seq, size)
	return frame
}

func putHeader(buf []byte, kind Kind, seq byte, length uint32) {
	buf[0] = byte(kind)
	buf[1] = seq
	buf[2] = ^seq
	binary.LittleEndian.PutUint32(buf[4:8], length)
	buf[8] = endOfMessage
}

// DecodeHeader parses a frame header from the first 12 bytes of buf.
// Bytes past the header belong to the caller and are not touched: the
// receiver cannot recover the original payload boundary from padding, so
// no un-padding is attempted here.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, pkg.ErrShortHeader
	}
	return Header{
		Kind:         Kind(buf[0]),
		Sequence:     buf[1],
		Complement:   buf[2],
		Length:       binary.LittleEndian.Uint32(buf[4:8]),
		EndOfMessage: buf[8],
	}, nil
}
