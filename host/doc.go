// Package host connects to a USB-attached bench instrument and carries
// framed ASCII commands over its bulk endpoints.
//
// It is platform-agnostic and interacts with the host USB library via the
// interfaces defined in github.com/awenger/benchusb/host/hal. The HAL
// exposes generic operations for enumeration, opening, interface claiming,
// and asynchronous bulk transfers, allowing any host library with that
// capability set to be substituted; tests run against hand-written fakes.
//
// # Architecture
//
// The package is organized into three layers:
//
//   - Resolve walks the enumerated device list, matches vendor/product ID,
//     claims the interface, and discovers the bulk endpoint pair
//   - Session is the public facade: Write, Read, Query, Close
//   - Executor runs one bulk transfer at a time, blocking the caller until
//     completion or timeout
//
// # Concurrency
//
// The model is single-threaded and blocking: every Session operation runs
// to completion on the calling goroutine. The sequence counter and the
// underlying handle are mutated without synchronization, so a Session must
// not be used from multiple goroutines concurrently.
//
// # Example
//
//	bus := libusb.NewBus()
//	defer bus.Close()
//
//	s, err := host.Resolve(bus, 0x2A8D, 0x1102)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	reply, err := s.Query("*IDN?")
package host
