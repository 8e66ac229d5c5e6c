// Package libusb implements the benchusb HAL on github.com/google/gousb,
// the cgo bindings to libusb-1.0.
//
// This is the only package in the module that touches real hardware; it
// requires libusb-1.0 at build time. Kernel driver detachment is delegated
// to libusb's auto-detach mechanism, which also restores the driver when
// the interface is released.
//
// Transfers are submitted without blocking: each Submit starts the endpoint
// I/O in its own goroutine, bounded by a context deadline derived from the
// transfer timeout, and delivers exactly one result on the transfer's
// completion channel. The caller-side wait lives in the host package's
// executor.
package libusb
