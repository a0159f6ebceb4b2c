package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPowerOfTwo(t *testing.T) {
	r := require.New(t)

	r.False(IsPowerOfTwo(0))
	r.False(IsPowerOfTwo(3))
	r.False(IsPowerOfTwo(5))
	r.False(IsPowerOfTwo(6))
	r.False(IsPowerOfTwo(7))
	r.False(IsPowerOfTwo(9))

	r.True(IsPowerOfTwo(1))
	r.True(IsPowerOfTwo(2))
	r.True(IsPowerOfTwo(4))
	r.True(IsPowerOfTwo(8))
	r.True(IsPowerOfTwo(16))
	r.True(IsPowerOfTwo(32))
	r.True(IsPowerOfTwo(64))
}

func TestUint64MulOverflow(t *testing.T) {
	r := require.New(t)

	r.False(Uint64MulOverflow(0, 64))
	r.False(Uint64MulOverflow(1<<32, 1<<31))
	r.True(Uint64MulOverflow(1<<32, 1<<32))
}

func TestBytesOf(t *testing.T) {
	r := require.New(t)

	r.Equal(uint64(0), BytesOf(0, 64))
	r.Equal(uint64(3), BytesOf(3, 8))
	r.Equal(uint64(16), BytesOf(2, 64))
	r.Equal(^uint64(0)/8, BytesOf(^uint64(0), 64))
}
