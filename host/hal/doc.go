// Package hal defines the host USB access boundary for benchusb.
//
// The HAL abstracts the capability set the instrument stack needs from a
// host USB library: device enumeration, descriptor reads, open, interface
// claiming, asynchronous bulk-transfer submission, and close. Any host
// library exposing that capability set is substitutable; the production
// implementation on libusb lives in
// [github.com/awenger/benchusb/host/hal/libusb].
//
// # Design Principles
//
// The HAL is designed to be:
//   - Minimal: Only expose operations essential for bulk instrument I/O
//   - Generic: No libusb-specific assumptions or details
//   - Mockable: The resolver and session are tested against hand-written
//     fakes with no hardware attached
//
// The instrument stack implements all protocol logic, leaving the HAL to
// handle only low-level host interactions.
//
// # Transfers
//
// A [Transfer] is a single bulk submission. The backend delivers exactly
// one [Result] on the transfer's one-shot completion channel; the caller
// blocks on [Transfer.Done] with its own deadline. Backends attach any
// per-transfer resource teardown via [Transfer.OnRelease], and callers must
// invoke [Transfer.Release] on every exit path.
//
// # Implementing a backend
//
// To implement a backend for another host library:
//  1. Create types satisfying [Bus], [DeviceInfo], and [DeviceHandle]
//  2. Report per-device descriptor read failures from Descriptor rather
//     than aborting enumeration
//  3. Make Submit non-blocking: start the transfer and complete it from a
//     callback or goroutine
//  4. Bound every submitted transfer by its Timeout
package hal
