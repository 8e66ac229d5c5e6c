package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransferStatus_String(t *testing.T) {
	tests := []struct {
		status TransferStatus
		want   string
	}{
		{TransferStatusSuccess, "success"},
		{TransferStatusError, "error"},
		{TransferStatusStall, "stall"},
		{TransferStatusTimeout, "timeout"},
		{TransferStatusCancelled, "cancelled"},
		{TransferStatus(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("TransferStatus.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSentinelWrapping(t *testing.T) {
	wrapped := fmt.Errorf("write %q: %w", "OUTPUT ON", ErrTransferFailed)
	if !errors.Is(wrapped, ErrTransferFailed) {
		t.Errorf("errors.Is(%v, ErrTransferFailed) = false, want true", wrapped)
	}
	if errors.Is(wrapped, ErrDeviceNotFound) {
		t.Errorf("errors.Is(%v, ErrDeviceNotFound) = true, want false", wrapped)
	}
}
