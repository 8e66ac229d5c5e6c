package host

import (
	"errors"
	"testing"
	"time"

	"github.com/awenger/benchusb/host/hal"
	"github.com/awenger/benchusb/pkg"
)

func TestExecutor_Submit(t *testing.T) {
	tests := []struct {
		name     string
		endpoint uint8
		data     []byte
		result   mockResult
		wantN    int
		wantErr  bool
	}{
		{
			name:     "out full length",
			endpoint: 0x01,
			data:     []byte("OUTPUT ON\n"),
			result:   mockResult{res: hal.Result{Status: pkg.TransferStatusSuccess, Actual: 10}},
			wantN:    10,
		},
		{
			name:     "out short write",
			endpoint: 0x01,
			data:     []byte("OUTPUT ON\n"),
			result:   mockResult{res: hal.Result{Status: pkg.TransferStatusSuccess, Actual: 4}},
			wantErr:  true,
		},
		{
			name:     "out error status",
			endpoint: 0x01,
			data:     []byte("x"),
			result:   mockResult{res: hal.Result{Status: pkg.TransferStatusError, Actual: 1}},
			wantErr:  true,
		},
		{
			name:     "out stall",
			endpoint: 0x01,
			data:     []byte("x"),
			result:   mockResult{res: hal.Result{Status: pkg.TransferStatusStall}},
			wantErr:  true,
		},
		{
			name:     "out timeout status",
			endpoint: 0x01,
			data:     []byte("x"),
			result:   mockResult{res: hal.Result{Status: pkg.TransferStatusTimeout}},
			wantErr:  true,
		},
		{
			name:     "in partial fill accepted",
			endpoint: 0x81,
			data:     make([]byte, 64),
			result:   mockResult{res: hal.Result{Status: pkg.TransferStatusSuccess, Actual: 7}},
			wantN:    7,
		},
		{
			name:     "in empty read",
			endpoint: 0x81,
			data:     make([]byte, 64),
			result:   mockResult{res: hal.Result{Status: pkg.TransferStatusSuccess, Actual: 0}},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockHandle{results: []mockResult{tt.result}}
			e := NewExecutor(time.Second)

			n, err := e.Submit(m, tt.endpoint, tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Submit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, pkg.ErrTransferFailed) {
					t.Errorf("error = %v, want ErrTransferFailed", err)
				}
			} else if n != tt.wantN {
				t.Errorf("Submit() = %d, want %d", n, tt.wantN)
			}
			if m.releases != 1 {
				t.Errorf("transfer released %d times, want 1", m.releases)
			}
			if len(m.submits) != 1 {
				t.Errorf("submits = %d, want 1", len(m.submits))
			}
		})
	}
}

func TestExecutor_SubmitError(t *testing.T) {
	m := &mockHandle{submitErr: errors.New("device gone")}
	e := NewExecutor(time.Second)

	_, err := e.Submit(m, 0x01, []byte("x"))
	if err == nil {
		t.Fatal("Submit() error = nil, want submission error")
	}
	if m.releases != 1 {
		t.Errorf("transfer released %d times after submission error, want 1", m.releases)
	}
}

func TestExecutor_Deadline(t *testing.T) {
	if testing.Short() {
		t.Skip("waits out the completion grace period")
	}
	m := &mockHandle{noComplete: true}
	e := NewExecutor(10 * time.Millisecond)

	start := time.Now()
	_, err := e.Submit(m, 0x01, []byte("x"))
	if !errors.Is(err, pkg.ErrTransferFailed) {
		t.Fatalf("Submit() error = %v, want ErrTransferFailed", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("returned after %v, before the timeout", elapsed)
	}
	if m.releases != 1 {
		t.Errorf("transfer released %d times, want 1", m.releases)
	}
}

func TestNewExecutor_DefaultTimeout(t *testing.T) {
	if got := NewExecutor(0).Timeout(); got != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", got, DefaultTimeout)
	}
	if got := NewExecutor(time.Minute).Timeout(); got != time.Minute {
		t.Errorf("Timeout() = %v, want %v", got, time.Minute)
	}
}
