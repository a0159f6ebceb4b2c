package index_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/bitseq/index"
)

func TestNew(t *testing.T) {
	req := require.New(t)

	idx, err := index.New[uint8](7)
	req.NoError(err)
	req.EqualValues(7, idx.Value())
	req.EqualValues(8, idx.Width())

	_, err = index.New[uint8](8)
	req.ErrorIs(err, index.ErrOutOfRange)
	req.EqualError(err, "bit index 8 out of range; expected: < 8")

	wide, err := index.New[uint64](63)
	req.NoError(err)
	req.Equal("63/64", wide.String())
}

func TestFromWire(t *testing.T) {
	req := require.New(t)

	idx, err := index.FromWire[uint16](16, 3)
	req.NoError(err)
	req.EqualValues(3, idx.Value())

	_, err = index.FromWire[uint16](8, 3)
	var ierr index.IdxError
	req.True(errors.As(err, &ierr))
	req.EqualValues(16, ierr.Width)
	req.EqualValues(8, ierr.Recorded)
	req.EqualError(err, "bit index 3 was recorded for 8-bit words, expected: 16-bit words")

	_, err = index.FromWire[uint8](8, 9)
	req.ErrorIs(err, index.ErrOutOfRange)
}

func TestOffsetSpan(t *testing.T) {
	req := require.New(t)

	idx, err := index.New[uint8](5)
	req.NoError(err)

	words, next := idx.Offset(4)
	req.EqualValues(1, words)
	req.EqualValues(1, next.Value())

	words, next = idx.Offset(0)
	req.EqualValues(0, words)
	req.Equal(idx, next)

	req.EqualValues(1, idx.Span(3))
	req.EqualValues(2, idx.Span(4))
	req.EqualValues(1, idx.Span(0))

	zero, err := index.New[uint32](0)
	req.NoError(err)
	req.EqualValues(0, zero.Span(0))
	req.EqualValues(1, zero.Span(32))
	req.EqualValues(2, zero.Span(33))
}
