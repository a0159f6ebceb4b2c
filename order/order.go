// Package order provides the bit-significance policies that map a logical
// bit index within a storage word to its physical position.
package order

import (
	"fmt"

	"github.com/spacemeshos/bitseq/store"
)

// BitOrder maps a significance index within a word to a physical bit position.
//
// Implementations must be stateless: the zero value of the type is used
// wherever a policy is needed. At must be a bijection on [0, width) for every
// supported width, which Verify checks.
type BitOrder interface {
	// Name returns the stable identity recorded on the wire.
	Name() string
	// At returns the physical position of the bit at index in a word of
	// width bits.
	At(index, width uint8) uint8
}

// Lsb0 orders bits from the least significant bit upwards.
type Lsb0 struct{}

func (Lsb0) Name() string { return "github.com/spacemeshos/bitseq/order.Lsb0" }

func (Lsb0) At(index, _ uint8) uint8 { return index }

// Msb0 orders bits from the most significant bit downwards.
type Msb0 struct{}

func (Msb0) Name() string { return "github.com/spacemeshos/bitseq/order.Msb0" }

func (Msb0) At(index, width uint8) uint8 { return width - 1 - index }

// NameOf returns the identity of the policy O.
func NameOf[O BitOrder]() string {
	var o O
	return o.Name()
}

// Select returns the single-bit mask for index in a T word under O.
func Select[T store.Word, O BitOrder](index uint8) T {
	var o O
	return store.Mask[T](o.At(index, store.BitsOf[T]()))
}

// ContractError reports a policy that is not a bijection on a word.
type ContractError struct {
	Order string
	Width uint8
	Index uint8
	Pos   uint8
}

func (e ContractError) Error() string {
	return fmt.Sprintf("order `%v` violates its contract for %d-bit words: index %d maps to %d",
		e.Order, e.Width, e.Index, e.Pos)
}

// Verify checks that O maps every index of every storage width to a distinct
// in-range position.
func Verify[O BitOrder]() error {
	for _, width := range []uint8{
		store.BitsOf[uint8](),
		store.BitsOf[uint16](),
		store.BitsOf[uint32](),
		store.BitsOf[uint64](),
	} {
		if err := verifyWidth[O](width); err != nil {
			return err
		}
	}
	return nil
}

func verifyWidth[O BitOrder](width uint8) error {
	var (
		o    O
		seen uint64
	)
	for i := uint8(0); i < width; i++ {
		pos := o.At(i, width)
		if pos >= width || seen&(1<<pos) != 0 {
			return ContractError{Order: o.Name(), Width: width, Index: i, Pos: pos}
		}
		seen |= 1 << pos
	}
	return nil
}
