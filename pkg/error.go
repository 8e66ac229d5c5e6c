package pkg

import "errors"

// Resolution and transfer errors.
var (
	// ErrDeviceNotFound indicates no attached device matched the requested
	// vendor/product pair.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrOpenFailed indicates the matched device could not be opened or its
	// interface could not be claimed.
	ErrOpenFailed = errors.New("open or claim failed")

	// ErrMissingEndpoint indicates the claimed interface lacks a bulk
	// endpoint in the required direction.
	ErrMissingEndpoint = errors.New("missing bulk endpoint")

	// ErrTransferFailed indicates a bulk transfer did not complete cleanly:
	// timeout, stall, error status, or a short write.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrSessionClosed indicates an operation on a closed session.
	ErrSessionClosed = errors.New("session closed")

	// ErrInvalidCommand indicates a command string that cannot be framed,
	// such as one containing an embedded NUL byte.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrShortHeader indicates a buffer too short to contain a frame header.
	ErrShortHeader = errors.New("short frame header")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// TransferStatus represents the completion status of a bulk transfer as
// reported by the host USB backend.
type TransferStatus int

// Transfer status values.
const (
	TransferStatusSuccess   TransferStatus = iota // Transfer completed successfully
	TransferStatusError                           // Transfer failed with error
	TransferStatusStall                           // Endpoint stalled
	TransferStatusTimeout                         // Transfer timed out
	TransferStatusCancelled                       // Transfer was cancelled
)

// String returns a string representation of the transfer status.
func (s TransferStatus) String() string {
	switch s {
	case TransferStatusSuccess:
		return "success"
	case TransferStatusError:
		return "error"
	case TransferStatusStall:
		return "stall"
	case TransferStatusTimeout:
		return "timeout"
	case TransferStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
