package bitstream

import (
	"io"

	"github.com/spacemeshos/bitseq/order"
)

// BitWriter writes bits to an io.Writer.
type BitWriter[O order.BitOrder] struct {
	stream    io.Writer
	pending   [1]byte
	alignment uint8
}

// NewWriter returns a new instance of BitWriter.
func NewWriter[O order.BitOrder](w io.Writer) *BitWriter[O] {
	bw := new(BitWriter[O])
	bw.stream = w
	return bw
}

// Write writes the first numBits of data to the stream, regardless of the
// alignment, reading them from data under O.
func (bw *BitWriter[O]) Write(data []byte, numBits int) error {
	for i := 0; i < numBits; i++ {
		bit := data[i/8]&order.Select[uint8, O](uint8(i%8)) != 0
		if err := bw.WriteBit(Bit(bit)); err != nil {
			return err
		}
	}
	return nil
}

// WriteByte writes a single byte to the stream, regardless of the alignment.
func (bw *BitWriter[O]) WriteByte(b byte) error {
	if bw.alignment == 0 {
		_, err := bw.stream.Write([]byte{b})
		return err
	}
	return bw.Write([]byte{b}, 8)
}

// WriteBit writes a single bit to the stream.
func (bw *BitWriter[O]) WriteBit(bit Bit) error {
	if bit {
		bw.pending[0] |= order.Select[uint8, O](bw.alignment)
	}

	bw.alignment++

	if bw.alignment == 8 {
		if _, err := bw.stream.Write(bw.pending[:]); err != nil {
			return err
		}
		bw.pending[0] = 0
		bw.alignment = 0
	}

	return nil
}

// Flush flushes the currently pending byte to the stream by filling it with bit.
func (bw *BitWriter[O]) Flush(bit Bit) error {
	for bw.alignment != 0 {
		if err := bw.WriteBit(bit); err != nil {
			return err
		}
	}

	return nil
}
