// Package protocol implements the bulk-transfer framing used by benchusb
// to carry ASCII instrument commands over raw USB bulk endpoints.
//
// The instrument expects each message wrapped in a 12-byte header followed
// by the payload and zero padding up to a multiple of 4 bytes:
//
//	offset 0     message kind (1 = send, 2 = receive request)
//	offset 1     sequence byte (1-255, never 0)
//	offset 2     bitwise complement of the sequence byte
//	offset 3     reserved, zero
//	offset 4-7   payload length, little-endian uint32
//	offset 8     end-of-message flag, always 1
//	offset 9-11  reserved, zero
//
// Outgoing commands are terminated with a single '\n' byte, which is counted
// in the length field. The protocol never fragments a logical message across
// frames, so the end-of-message flag is fixed.
//
// The codec is pure: it performs no I/O and never fails to encode. Sequence
// numbering is provided by [Counter], owned by the session that transmits
// the frames.
package protocol
