package host

import (
	"fmt"
	"time"

	"github.com/awenger/benchusb/host/hal"
	"github.com/awenger/benchusb/pkg"
)

// DefaultTimeout bounds a single bulk transfer attempt.
const DefaultTimeout = 10 * time.Second

// completionGrace is how long the executor waits past the transfer timeout
// for the backend to report the timeout itself before giving up locally.
const completionGrace = 500 * time.Millisecond

// Executor runs one bulk transfer at a time, blocking the calling goroutine
// until the backend delivers a completion or the deadline passes. It holds
// no state besides the timeout; one Session owns one Executor.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an executor with the given per-transfer timeout.
// A non-positive timeout selects DefaultTimeout.
func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{timeout: timeout}
}

// Timeout returns the per-transfer timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Submit sends one bulk transfer to the given endpoint and waits for it.
// It returns the number of bytes transferred on success. Every failure
// mode at this layer (error status, stall, timeout, short write, empty
// read) collapses into pkg.ErrTransferFailed; there is no retry.
//
// The transfer resource is released on every exit path.
func (e *Executor) Submit(h hal.DeviceHandle, endpoint uint8, data []byte) (int, error) {
	t := hal.NewTransfer(endpoint, data, e.timeout)
	defer t.Release()

	if err := h.Submit(t); err != nil {
		return 0, fmt.Errorf("submit endpoint %#02x: %w", endpoint, err)
	}

	timer := time.NewTimer(e.timeout + completionGrace)
	defer timer.Stop()

	select {
	case res := <-t.Done():
		return e.classify(t, res)
	case <-timer.C:
		pkg.LogWarn(pkg.ComponentTransfer, "no completion before deadline",
			"endpoint", endpoint, "timeout", e.timeout)
		return 0, fmt.Errorf("endpoint %#02x: deadline: %w", endpoint, pkg.ErrTransferFailed)
	}
}

// classify applies the success criteria: a clean backend status, and for
// OUT transfers every byte written, for IN transfers at least one byte
// received (the response length is not known ahead of time).
func (e *Executor) classify(t *hal.Transfer, res hal.Result) (int, error) {
	if res.Status != pkg.TransferStatusSuccess {
		pkg.LogDebug(pkg.ComponentTransfer, "transfer failed",
			"endpoint", t.Endpoint, "status", res.Status, "actual", res.Actual)
		return res.Actual, fmt.Errorf("endpoint %#02x: %s: %w",
			t.Endpoint, res.Status, pkg.ErrTransferFailed)
	}
	if t.IsIn() {
		if res.Actual <= 0 {
			return 0, fmt.Errorf("endpoint %#02x: empty read: %w",
				t.Endpoint, pkg.ErrTransferFailed)
		}
	} else if res.Actual != len(t.Data) {
		return res.Actual, fmt.Errorf("endpoint %#02x: short write %d/%d: %w",
			t.Endpoint, res.Actual, len(t.Data), pkg.ErrTransferFailed)
	}
	pkg.LogDebug(pkg.ComponentTransfer, "transfer complete",
		"endpoint", t.Endpoint, "bytes", res.Actual)
	return res.Actual, nil
}
