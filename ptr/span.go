// Package ptr provides BitSpan, the validated descriptor of a bit-precise
// region within a run of storage words.
package ptr

import (
	"errors"
	"fmt"
	"math"

	"github.com/spacemeshos/bitseq/index"
	"github.com/spacemeshos/bitseq/order"
	"github.com/spacemeshos/bitseq/store"
)

// MaxBits is the largest number of bits a single span can describe. The three
// low bits of an address-sized count are reserved so that any bit position of
// a span can be addressed with a signed platform integer.
const MaxBits = uint64(math.MaxInt) >> 3

var (
	ErrHeadOutOfRange     = errors.New("head index out of range")
	ErrLengthOverflow     = errors.New("bit length overflow")
	ErrInsufficientBuffer = errors.New("insufficient buffer")
)

// SpanError reports which check of New rejected its arguments.
type SpanError struct {
	// Kind is one of ErrHeadOutOfRange, ErrLengthOverflow, ErrInsufficientBuffer.
	Kind error

	Width uint8
	Head  uint8
	Bits  uint64

	// Words is the number of words supplied, Need the number required.
	// Need is zero when it could not be computed.
	Words int
	Need  uint64

	// Max is the largest length accepted, for ErrLengthOverflow.
	Max uint64
}

func (e *SpanError) Error() string {
	switch e.Kind {
	case ErrHeadOutOfRange:
		return fmt.Sprintf("%v: %d; expected: < %d", e.Kind, e.Head, e.Width)
	case ErrInsufficientBuffer:
		return fmt.Sprintf("%v: %d bits from head %d need %d words of %d bits, given: %d",
			e.Kind, e.Bits, e.Head, e.Need, e.Width, e.Words)
	default:
		return fmt.Sprintf("%v: %d bits from head %d; expected: <= %d bits",
			e.Kind, e.Bits, e.Head, e.Max)
	}
}

func (e *SpanError) Unwrap() error { return e.Kind }

// BitSpan is a region of bits starting at a head index inside the first of a
// run of T words, read under the ordering O.
//
// The zero value is a valid empty span. Any other value comes from New.
type BitSpan[T store.Word, O order.BitOrder] struct {
	words []T
	head  index.BitIdx[T]
	bits  uint64
}

// New validates head and bits against words and returns the span covering
// them. Checks run in a fixed order: the head index, then the word count the
// region needs, then the representable length.
func New[T store.Word, O order.BitOrder](words []T, head uint8, bits uint64) (BitSpan[T, O], error) {
	width := store.BitsOf[T]()
	fail := func(kind error, need uint64) (BitSpan[T, O], error) {
		return BitSpan[T, O]{}, &SpanError{
			Kind:  kind,
			Width: width,
			Head:  head,
			Bits:  bits,
			Words: len(words),
			Need:  need,
			Max:   MaxBits,
		}
	}

	idx, err := index.New[T](head)
	if err != nil {
		return fail(ErrHeadOutOfRange, 0)
	}

	need, ok := store.Words[T](head, bits)
	if !ok || need > uint64(math.MaxInt) {
		return fail(ErrLengthOverflow, 0)
	}
	if need > uint64(len(words)) {
		return fail(ErrInsufficientBuffer, need)
	}

	if bits > MaxBits {
		return fail(ErrLengthOverflow, need)
	}

	return BitSpan[T, O]{
		words: words[:need:need],
		head:  idx,
		bits:  bits,
	}, nil
}

// Words returns the words the span touches, from the one holding the head bit
// to the one holding the last bit.
func (s BitSpan[T, O]) Words() []T { return s.words }

// Head returns the index of the first bit within the first word.
func (s BitSpan[T, O]) Head() index.BitIdx[T] { return s.head }

// Len returns the number of bits in the span.
func (s BitSpan[T, O]) Len() uint64 { return s.bits }

func (s BitSpan[T, O]) locate(i uint64) (uint64, T) {
	if i >= s.bits {
		panic(fmt.Sprintf("bit index %d out of range for span of %d bits", i, s.bits))
	}
	word, idx := s.head.Offset(i)
	return word, order.Select[T, O](idx.Value())
}

// Get returns the bit at i. It panics if i is out of range.
func (s BitSpan[T, O]) Get(i uint64) bool {
	word, mask := s.locate(i)
	return s.words[word]&mask != 0
}

// Set writes the bit at i. It panics if i is out of range.
func (s BitSpan[T, O]) Set(i uint64, bit bool) {
	word, mask := s.locate(i)
	if bit {
		s.words[word] |= mask
	} else {
		s.words[word] &^= mask
	}
}

// Sub returns the span of bits [from, to). It panics if the bounds are invalid.
func (s BitSpan[T, O]) Sub(from, to uint64) BitSpan[T, O] {
	if from > to || to > s.bits {
		panic(fmt.Sprintf("invalid sub-span [%d:%d] of span of %d bits", from, to, s.bits))
	}
	skip, head := s.head.Offset(from)
	sub, err := New[T, O](s.words[skip:], head.Value(), to-from)
	if err != nil {
		// Bounds were checked above against an already valid span.
		panic(err)
	}
	return sub
}
