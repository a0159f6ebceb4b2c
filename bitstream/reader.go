package bitstream

import (
	"io"

	"github.com/spacemeshos/bitseq/order"
)

// BitReader reads bits from an io.Reader.
type BitReader[O order.BitOrder] struct {
	stream    io.Reader
	pending   [1]byte
	alignment uint8
}

// NewReader returns a new instance of BitReader.
func NewReader[O order.BitOrder](r io.Reader) *BitReader[O] {
	br := new(BitReader[O])
	br.stream = r
	br.alignment = 8
	return br
}

// ReadByte reads the next 8 bits from the stream, regardless of the alignment.
func (br *BitReader[O]) ReadByte() (byte, error) {
	if br.alignment == 8 {
		if _, err := io.ReadFull(br.stream, br.pending[:]); err != nil {
			return 0, err
		}
		return br.pending[0], nil
	}

	// The byte stream is not aligned; assemble the byte bit by bit.
	var b byte
	for i := uint8(0); i < 8; i++ {
		bit, err := br.ReadBit()
		if err == io.EOF && i > 0 {
			return 0, io.ErrUnexpectedEOF
		}
		if err != nil {
			return 0, err
		}
		if bit {
			b |= order.Select[uint8, O](i)
		}
	}
	return b, nil
}

// ReadBit reads the next single bit from the stream.
func (br *BitReader[O]) ReadBit() (Bit, error) {
	if br.alignment == 8 {
		if _, err := io.ReadFull(br.stream, br.pending[:]); err != nil {
			return Zero, err
		}
		br.alignment = 0
	}

	bit := Bit(br.pending[0]&order.Select[uint8, O](br.alignment) != 0)
	br.alignment++

	return bit, nil
}
