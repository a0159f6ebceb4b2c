// Package serdes implements the BitSeq wire protocol for bit sequences.
//
// A sequence is encoded as four fields, in this order:
//
//	order  the identity of the bit-ordering policy
//	head   {width, index}: the word width and the index of the first bit
//	bits   the number of bits, as a uint64
//	data   the words covering the bits, and no more
//
// Decoding accepts the fields positionally, in exactly that order, or keyed,
// in any order. The result is validated before it is exposed: the recorded
// order must be the one expected by the caller, and head, bits and data must
// describe a valid bit-span.
package serdes

import (
	"fmt"

	"github.com/spacemeshos/bitseq"
	"github.com/spacemeshos/bitseq/order"
	"github.com/spacemeshos/bitseq/store"
)

// TypeName is the name of the encoded structure.
const TypeName = "BitSeq"

const (
	FieldOrder = "order"
	FieldHead  = "head"
	FieldBits  = "bits"
	FieldData  = "data"
)

// Fields lists the fields of a BitSeq in positional order.
var Fields = []string{FieldOrder, FieldHead, FieldBits, FieldData}

// Head is the wire form of a head index.
type Head struct {
	Width uint8 `json:"width" yaml:"width"`
	Index uint8 `json:"index" yaml:"index"`
}

// Wire is the four-field representation of a bit sequence of T words.
type Wire[T store.Word] struct {
	Order string `json:"order" yaml:"order"`
	Head  Head   `json:"head" yaml:"head"`
	Bits  uint64 `json:"bits" yaml:"bits"`
	Data  []T    `json:"data" yaml:"data"`
}

// Encode projects s onto its wire representation. Data aliases the words
// covering s.
func Encode[T store.Word, O order.BitOrder](s bitseq.Slice[T, O]) Wire[T] {
	head := s.Head()
	return Wire[T]{
		Order: order.NameOf[O](),
		Head:  Head{Width: head.Width(), Index: head.Value()},
		Bits:  s.Len(),
		Data:  s.AsWords(),
	}
}

// Expecting describes the value a decoder for T words under O accepts.
func Expecting[T store.Word, O order.BitOrder]() string {
	return fmt.Sprintf("a bit sequence of words of %d bits ordered by `%s`",
		store.BitsOf[T](), order.NameOf[O]())
}
