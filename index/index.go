// Package index provides the head index type that bounds a bit position to
// the legal range of a storage word.
package index

import (
	"errors"
	"fmt"

	"github.com/spacemeshos/bitseq/store"
)

// ErrOutOfRange is returned when an index does not address a bit within a word.
var ErrOutOfRange = errors.New("bit index out of range")

// IdxError describes an index that is invalid for a word of the given width.
type IdxError struct {
	// Width is the width of the destination word, in bits.
	Width uint8
	// Recorded is the width the index was computed against.
	Recorded uint8
	Index    uint8
}

func (e IdxError) Error() string {
	if e.Recorded != e.Width {
		return fmt.Sprintf("bit index %d was recorded for %d-bit words, expected: %d-bit words",
			e.Index, e.Recorded, e.Width)
	}
	return fmt.Sprintf("bit index %d out of range; expected: < %d", e.Index, e.Width)
}

func (e IdxError) Unwrap() error { return ErrOutOfRange }

// BitIdx is a bit position within a T word, always in [0, width).
type BitIdx[T store.Word] struct {
	idx uint8
}

// New returns the index idx, or an error if it does not fit in a T word.
func New[T store.Word](idx uint8) (BitIdx[T], error) {
	width := store.BitsOf[T]()
	if idx >= width {
		return BitIdx[T]{}, IdxError{Width: width, Recorded: width, Index: idx}
	}
	return BitIdx[T]{idx: idx}, nil
}

// FromWire rebuilds an index recorded together with the word width it was
// computed against. A width other than T's is rejected rather than truncated.
func FromWire[T store.Word](width, idx uint8) (BitIdx[T], error) {
	if w := store.BitsOf[T](); width != w {
		return BitIdx[T]{}, IdxError{Width: w, Recorded: width, Index: idx}
	}
	return New[T](idx)
}

// Value returns the raw position.
func (b BitIdx[T]) Value() uint8 { return b.idx }

// Width returns the width of T in bits.
func (b BitIdx[T]) Width() uint8 { return store.BitsOf[T]() }

// Offset moves the index by n bits, which must be non-negative, and returns
// the number of whole words crossed together with the new index.
func (b BitIdx[T]) Offset(n uint64) (uint64, BitIdx[T]) {
	w := uint64(store.BitsOf[T]())
	total := uint64(b.idx) + n
	return total / w, BitIdx[T]{idx: uint8(total % w)}
}

// Span returns the number of words touched by n bits starting at b.
func (b BitIdx[T]) Span(n uint64) uint64 {
	words, _ := store.Words[T](b.idx, n)
	return words
}

func (b BitIdx[T]) String() string {
	return fmt.Sprintf("%d/%d", b.idx, store.BitsOf[T]())
}
