// Package store defines the unsigned integer words bits are packed into.
package store

import (
	"math/bits"
	"unsafe"
)

// Word is a fixed-width unsigned integer usable as backing storage for bits.
type Word interface {
	uint8 | uint16 | uint32 | uint64 | uint
}

// BitsOf returns the width of T in bits.
func BitsOf[T Word]() uint8 {
	var w T
	return uint8(unsafe.Sizeof(w) * 8)
}

// Words returns the number of T words needed to hold head+n bits, and false
// if that count cannot be computed without overflowing a uint64.
func Words[T Word](head uint8, n uint64) (uint64, bool) {
	total, carry := bits.Add64(n, uint64(head), 0)
	if carry != 0 {
		return 0, false
	}
	w := uint64(BitsOf[T]())
	words := total / w
	if total%w != 0 {
		words++
	}
	return words, true
}

// Mask returns a word with only the physical bit pos set.
func Mask[T Word](pos uint8) T {
	return T(1) << pos
}
