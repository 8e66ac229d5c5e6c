package protocol

// Counter generates the sequence bytes that tag outgoing frames. Valid
// values range over 1-255; the instrument treats 0 as a sentinel, so the
// counter skips it on wraparound.
//
// A Counter belongs to exactly one session and is not safe for concurrent
// use; the session's single-threaded contract covers it.
type Counter struct {
	value byte
}

// NewCounter returns a counter whose first value is 1.
func NewCounter() *Counter {
	return &Counter{value: 1}
}

// Next returns the current sequence value and advances the counter,
// wrapping 255 directly to 1.
func (c *Counter) Next() byte {
	v := c.value
	c.value++
	if c.value == 0 {
		c.value = 1
	}
	return v
}
