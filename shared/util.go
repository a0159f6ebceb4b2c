package shared

import "math/bits"

// OwnerReadWrite is the mode of the files the CLI writes.
const OwnerReadWrite = 0o600

// IsPowerOfTwo reports whether x is a power of two.
func IsPowerOfTwo(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// Uint64MulOverflow reports whether a*b overflows uint64.
func Uint64MulOverflow(a, b uint64) bool {
	hi, _ := bits.Mul64(a, b)
	return hi != 0
}

// BytesOf returns the number of bytes held by n words of width bits,
// saturating at the uint64 range.
func BytesOf(n uint64, width uint8) uint64 {
	if Uint64MulOverflow(n, uint64(width)) {
		return ^uint64(0) / 8
	}
	return n * uint64(width) / 8
}
