package bitseq

import (
	"errors"
	"io"

	"github.com/spacemeshos/bitseq/bitstream"
	"github.com/spacemeshos/bitseq/order"
	"github.com/spacemeshos/bitseq/ptr"
	"github.com/spacemeshos/bitseq/store"
)

// Vec is a bit sequence that owns its words.
type Vec[T store.Word, O order.BitOrder] struct {
	buf  []T
	span ptr.BitSpan[T, O]
}

// NewVec returns an empty Vec.
func NewVec[T store.Word, O order.BitOrder]() *Vec[T, O] {
	return &Vec[T, O]{}
}

// FromWords takes ownership of words and returns a Vec holding their bits, up
// to ptr.MaxBits. The caller must not use words afterwards.
func FromWords[T store.Word, O order.BitOrder](words []T) *Vec[T, O] {
	return &Vec[T, O]{
		buf:  words,
		span: View[T, O](words).span,
	}
}

// FromBits returns a Vec holding bits, in order.
func FromBits[T store.Word, O order.BitOrder](bits ...bool) *Vec[T, O] {
	v := NewVec[T, O]()
	for _, bit := range bits {
		v.Push(bit)
	}
	return v
}

// FromSlice copies the words covering s into a new Vec with the same head
// and length.
func FromSlice[T store.Word, O order.BitOrder](s Slice[T, O]) *Vec[T, O] {
	words := append([]T(nil), s.AsWords()...)
	v := FromWords[T, O](words)
	if err := v.SetHead(s.Head().Value()); err != nil {
		panic(err)
	}
	if err := v.SetLen(s.Len()); err != nil {
		panic(err)
	}
	return v
}

// capacity returns the number of bits the buffer holds from head onwards.
func (v *Vec[T, O]) capacity(head uint8) uint64 {
	total := uint64(len(v.buf)) * uint64(store.BitsOf[T]())
	if total < uint64(head) {
		return 0
	}
	return total - uint64(head)
}

// SetHead moves the first bit of the sequence to head within the first word.
// The length is cut down to what the buffer holds from the new head.
func (v *Vec[T, O]) SetHead(head uint8) error {
	bits := v.Len()
	if c := v.capacity(head); bits > c {
		bits = c
	}
	span, err := ptr.New[T, O](v.buf, head, bits)
	if err != nil {
		return err
	}
	v.span = span
	return nil
}

// SetLen sets the number of live bits without touching the words. It fails
// if the buffer does not hold n bits from the current head.
func (v *Vec[T, O]) SetLen(n uint64) error {
	span, err := ptr.New[T, O](v.buf, v.span.Head().Value(), n)
	if err != nil {
		return err
	}
	v.span = span
	return nil
}

// Push appends a bit, growing the buffer by a word when it is full.
func (v *Vec[T, O]) Push(bit bool) {
	head := v.span.Head().Value()
	n := v.Len()
	if n == v.capacity(head) {
		v.buf = append(v.buf, 0)
	}
	span, err := ptr.New[T, O](v.buf, head, n+1)
	if err != nil {
		panic(err)
	}
	v.span = span
	v.span.Set(n, bit)
}

// AsSlice returns a view of the live bits. The view aliases v and is
// invalidated by Push.
func (v *Vec[T, O]) AsSlice() Slice[T, O] { return Slice[T, O]{span: v.span} }

// AsWords returns the words covering the live bits.
func (v *Vec[T, O]) AsWords() []T { return v.span.Words() }

// Len returns the number of live bits.
func (v *Vec[T, O]) Len() uint64 { return v.span.Len() }

// Get returns the bit at i.
func (v *Vec[T, O]) Get(i uint64) bool { return v.span.Get(i) }

// Set writes the bit at i.
func (v *Vec[T, O]) Set(i uint64, bit bool) { v.span.Set(i, bit) }

// Equal reports whether v and other hold the same bits.
func (v *Vec[T, O]) Equal(other *Vec[T, O]) bool {
	return v.AsSlice().Equal(other.AsSlice())
}

func (v *Vec[T, O]) String() string { return v.AsSlice().String() }

// ReadFrom appends every bit of r, unpacked from bytes under O, until EOF.
func (v *Vec[T, O]) ReadFrom(r io.Reader) (int64, error) {
	br := bitstream.NewReader[O](r)
	var n int64
	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		for j := uint8(0); j < 8; j++ {
			v.Push(b&order.Select[uint8, O](j) != 0)
		}
		n++
	}
}

// WriteTo writes the live bits to w, see Slice.WriteTo.
func (v *Vec[T, O]) WriteTo(w io.Writer) (int64, error) {
	return v.AsSlice().WriteTo(w)
}
