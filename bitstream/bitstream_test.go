package bitstream_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/bitseq/bitstream"
	"github.com/spacemeshos/bitseq/order"
)

const (
	Zero = bitstream.Zero
	One  = bitstream.One
)

func TestLsb0(t *testing.T) {
	req := require.New(t)

	br := bitstream.NewReader[order.Lsb0](bytes.NewReader([]byte{0b0001_0010}))
	var got []bitstream.Bit
	for i := 0; i < 8; i++ {
		bit, err := br.ReadBit()
		req.NoError(err)
		got = append(got, bit)
	}
	req.Equal([]bitstream.Bit{Zero, One, Zero, Zero, One, Zero, Zero, Zero}, got)

	_, err := br.ReadBit()
	req.Equal(io.EOF, err)
}

func TestMsb0(t *testing.T) {
	req := require.New(t)

	buf := bytes.NewBuffer(nil)
	bw := bitstream.NewWriter[order.Msb0](buf)
	for _, bit := range []bitstream.Bit{One, Zero, One, One} {
		req.NoError(bw.WriteBit(bit))
	}
	req.NoError(bw.Flush(Zero))
	req.Equal([]byte{0b1011_0000}, buf.Bytes())
}

func TestString(t *testing.T) {
	req := require.New(t)

	s := "a string"
	br := bitstream.NewReader[order.Msb0](strings.NewReader(s))
	buf := bytes.NewBuffer(nil)
	bw := bitstream.NewWriter[order.Msb0](buf)

	for {
		bit, err := br.ReadBit()
		if err == io.EOF {
			break
		}
		req.NoError(err)
		req.NoError(bw.WriteBit(bit))
	}

	req.Equal(s, buf.String())
}

func TestAlignment(t *testing.T) {
	req := require.New(t)

	s := "a string!" // 9 bytes, 72 bits.
	br := bitstream.NewReader[order.Lsb0](strings.NewReader(s))
	buf := bytes.NewBuffer(nil)
	bw := bitstream.NewWriter[order.Lsb0](buf)

	bit, err := br.ReadBit()
	req.NoError(err)
	req.NoError(bw.WriteBit(bit))

	// Every byte below straddles two bytes of the stream.
	for i := 0; i < 8; i++ {
		b, err := br.ReadByte()
		req.NoError(err)
		req.NoError(bw.WriteByte(b))
	}

	for {
		bit, err := br.ReadBit()
		if err == io.EOF {
			break
		}
		req.NoError(err)
		req.NoError(bw.WriteBit(bit))
	}

	req.Equal(s, buf.String())
}

func TestWrite_Partial(t *testing.T) {
	req := require.New(t)

	buf := bytes.NewBuffer(nil)
	bw := bitstream.NewWriter[order.Lsb0](buf)
	req.NoError(bw.Write([]byte{0xFF, 0x07}, 11))
	req.NoError(bw.Flush(Zero))
	req.Equal([]byte{0xFF, 0x07}, buf.Bytes())

	buf.Reset()
	msb := bitstream.NewWriter[order.Msb0](buf)
	req.NoError(msb.Write([]byte{0xF0}, 3))
	req.NoError(msb.Flush(Zero))
	req.Equal([]byte{0xE0}, buf.Bytes())
}

func TestEOF(t *testing.T) {
	req := require.New(t)

	_, err := bitstream.NewReader[order.Lsb0](bytes.NewReader(nil)).ReadBit()
	req.Equal(io.EOF, err)
	_, err = bitstream.NewReader[order.Lsb0](bytes.NewReader(nil)).ReadByte()
	req.Equal(io.EOF, err)

	br := bitstream.NewReader[order.Lsb0](bytes.NewReader([]byte{0x0F}))
	_, err = br.ReadBit()
	req.NoError(err)
	_, err = br.ReadByte()
	req.Equal(io.ErrUnexpectedEOF, err)
}

func TestFlush(t *testing.T) {
	req := require.New(t)

	br := bitstream.NewReader[order.Lsb0](bytes.NewReader([]byte{0x0F}))
	buf := bytes.NewBuffer(nil)
	bw := bitstream.NewWriter[order.Lsb0](buf)

	for i := 0; i < 4; i++ {
		bit, err := br.ReadBit()
		req.NoError(err)
		req.NoError(bw.WriteBit(bit))
	}

	req.NoError(bw.Flush(One))
	req.NoError(bw.WriteByte(0xAA))
	req.Equal([]byte{0xFF, 0xAA}, buf.Bytes())
}

func TestBadWriter(t *testing.T) {
	req := require.New(t)

	bw := bitstream.NewWriter[order.Lsb0](&badWriter{})
	for i := 0; i < 7; i++ {
		req.NoError(bw.WriteBit(One))
	}
	req.Equal(ErrBadWriter, bw.WriteBit(One))

	msb := bitstream.NewWriter[order.Msb0](&badWriter{})
	req.Equal(ErrBadWriter, msb.WriteByte(0x01))
}

type badWriter struct{}

var ErrBadWriter = errors.New("bad writer")

func (w *badWriter) Write(p []byte) (n int, err error) {
	return 0, ErrBadWriter
}
