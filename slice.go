// Package bitseq provides bit-addressable sequences packed into storage words
// under a bit-ordering policy: Slice, a view over borrowed words, and Vec, a
// growable buffer that owns its words.
//
// Both encode to and decode from the self-describing BitSeq wire form through
// package serdes.
package bitseq

import (
	"io"
	"strings"

	"github.com/spacemeshos/bitseq/bitstream"
	"github.com/spacemeshos/bitseq/index"
	"github.com/spacemeshos/bitseq/order"
	"github.com/spacemeshos/bitseq/ptr"
	"github.com/spacemeshos/bitseq/store"
)

// Slice is a view over a region of bits in words it does not own. It must not
// outlive those words.
type Slice[T store.Word, O order.BitOrder] struct {
	span ptr.BitSpan[T, O]
}

// View returns a Slice over every bit of words, up to ptr.MaxBits.
func View[T store.Word, O order.BitOrder](words []T) Slice[T, O] {
	bits := uint64(len(words)) * uint64(store.BitsOf[T]())
	if bits > ptr.MaxBits {
		bits = ptr.MaxBits
	}
	span, err := ptr.New[T, O](words, 0, bits)
	if err != nil {
		panic(err)
	}
	return Slice[T, O]{span: span}
}

// FromSpan returns the Slice described by span.
func FromSpan[T store.Word, O order.BitOrder](span ptr.BitSpan[T, O]) Slice[T, O] {
	return Slice[T, O]{span: span}
}

// Span returns the descriptor of the region.
func (s Slice[T, O]) Span() ptr.BitSpan[T, O] { return s.span }

// AsWords returns the words the region touches and nothing more.
func (s Slice[T, O]) AsWords() []T { return s.span.Words() }

// Head returns the position of the first bit within the first word.
func (s Slice[T, O]) Head() index.BitIdx[T] { return s.span.Head() }

// Len returns the number of bits in the region.
func (s Slice[T, O]) Len() uint64 { return s.span.Len() }

// Get returns the bit at i. It panics if i is out of range.
func (s Slice[T, O]) Get(i uint64) bool { return s.span.Get(i) }

// Set writes the bit at i through to the underlying words.
func (s Slice[T, O]) Set(i uint64, bit bool) { s.span.Set(i, bit) }

// Sub returns the view of bits [from, to).
func (s Slice[T, O]) Sub(from, to uint64) Slice[T, O] {
	return Slice[T, O]{span: s.span.Sub(from, to)}
}

// Equal reports whether s and other hold the same bits. Heads and the bits
// outside the regions are not compared.
func (s Slice[T, O]) Equal(other Slice[T, O]) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := uint64(0); i < s.Len(); i++ {
		if s.Get(i) != other.Get(i) {
			return false
		}
	}
	return true
}

// Bits returns the region as a slice of bools.
func (s Slice[T, O]) Bits() []bool {
	bits := make([]bool, s.Len())
	for i := range bits {
		bits[i] = s.Get(uint64(i))
	}
	return bits
}

// String renders the region as a string of 0s and 1s, first bit first.
func (s Slice[T, O]) String() string {
	var sb strings.Builder
	sb.Grow(int(s.Len()))
	for i := uint64(0); i < s.Len(); i++ {
		if s.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// WriteTo writes the bits of s to w packed into bytes under O. The last byte
// is padded with zeros.
func (s Slice[T, O]) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bitstream.NewWriter[O](cw)
	n := s.Len()
	var i uint64
	for ; n-i >= 8; i += 8 {
		if err := bw.WriteByte(s.byteAt(i, 8)); err != nil {
			return cw.n, err
		}
	}
	if rem := n - i; rem > 0 {
		if err := bw.Write([]byte{s.byteAt(i, rem)}, int(rem)); err != nil {
			return cw.n, err
		}
	}
	err := bw.Flush(bitstream.Zero)
	return cw.n, err
}

// byteAt packs the k <= 8 bits starting at i into a byte under O.
func (s Slice[T, O]) byteAt(i, k uint64) byte {
	var b byte
	for j := uint64(0); j < k; j++ {
		if s.Get(i + j) {
			b |= order.Select[uint8, O](uint8(j))
		}
	}
	return b
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
