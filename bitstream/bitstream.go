// Package bitstream provides wrappers for io.Writer and io.Reader to allow
// bit-granularity access to the stream. Bits are packed into each byte
// following a bit-ordering policy, so a stream written under order.Lsb0 fills
// every byte from its least-significant bit, and under order.Msb0 from its
// most-significant bit.
package bitstream

type Bit bool

const (
	Zero Bit = false
	One  Bit = true
)
