package codec

import (
	"fmt"

	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/store"
)

// textWire is the wire form written by the text formats. Words of every
// width, bytes included, are written as a sequence of numbers.
type textWire struct {
	Order string      `json:"order" yaml:"order"`
	Head  serdes.Head `json:"head" yaml:"head"`
	Bits  uint64      `json:"bits" yaml:"bits"`
	Data  []uint64    `json:"data" yaml:"data,flow"`
}

func toText[T store.Word](w serdes.Wire[T]) textWire {
	data := make([]uint64, len(w.Data))
	for i, x := range w.Data {
		data[i] = uint64(x)
	}
	return textWire{Order: w.Order, Head: w.Head, Bits: w.Bits, Data: data}
}

// wordWidth returns the word width of the slice dst points to.
func wordWidth(dst any) (uint8, bool) {
	switch dst.(type) {
	case *[]uint8:
		return store.BitsOf[uint8](), true
	case *[]uint16:
		return store.BitsOf[uint16](), true
	case *[]uint32:
		return store.BitsOf[uint32](), true
	case *[]uint64:
		return store.BitsOf[uint64](), true
	case *[]uint:
		return store.BitsOf[uint](), true
	}
	return 0, false
}

// storeWords narrows src into the word slice dst points to. The word type is
// resolved once for the whole slice.
func storeWords(dst any, src []uint64) error {
	switch p := dst.(type) {
	case *[]uint8:
		return narrow(p, src)
	case *[]uint16:
		return narrow(p, src)
	case *[]uint32:
		return narrow(p, src)
	case *[]uint64:
		*p = src
		return nil
	case *[]uint:
		return narrow(p, src)
	case *serdes.Borrowed:
		var data []uint8
		err := narrow(&data, src)
		*p = data
		return err
	}
	return unexpected(dst)
}

func narrow[T store.Word](p *[]T, src []uint64) error {
	width := store.BitsOf[T]()
	words := make([]T, len(src))
	for i, x := range src {
		if width < 64 && x>>width != 0 {
			return &serdes.TypeError{
				Found:    fmt.Sprintf("word %#x", x),
				Expected: fmt.Sprintf("a %d-bit word", width),
			}
		}
		words[i] = T(x)
	}
	*p = words
	return nil
}

// present dereferences the elements of a decoded number sequence, which the
// text formats leave nil for null.
func present(elems []*uint64) ([]uint64, error) {
	words := make([]uint64, len(elems))
	for i, e := range elems {
		if e == nil {
			return nil, &serdes.TypeError{Found: fmt.Sprintf("null at data[%d]", i), Expected: "a word"}
		}
		words[i] = *e
	}
	return words, nil
}

func null(dst any) error {
	return &serdes.TypeError{Found: "null", Expected: fmt.Sprintf("a value for %T", dst)}
}

func checkByte(v uint64, what string) (uint8, error) {
	if v > 0xFF {
		return 0, &serdes.TypeError{Found: fmt.Sprintf("%s %d", what, v), Expected: "an 8-bit value"}
	}
	return uint8(v), nil
}

// unexpected reports a destination no BitSeq field decodes into.
func unexpected(dst any) error {
	return fmt.Errorf("unsupported destination %T", dst)
}

// headFromPair fills head from its positional [width, index] form.
func headFromPair(head *serdes.Head, pair []uint64) error {
	if len(pair) != 2 {
		return &serdes.TypeError{Found: fmt.Sprintf("%d values", len(pair)), Expected: "[width, index]"}
	}
	width, err := checkByte(pair[0], "width")
	if err != nil {
		return err
	}
	idx, err := checkByte(pair[1], "index")
	if err != nil {
		return err
	}
	head.Width, head.Index = width, idx
	return nil
}

// headFromFields fills head from its keyed form. Both fields are required.
func headFromFields(head *serdes.Head, width, idx *uint8) error {
	switch {
	case width == nil:
		return &serdes.FieldError{Kind: serdes.ErrMissingField, Field: "head.width"}
	case idx == nil:
		return &serdes.FieldError{Kind: serdes.ErrMissingField, Field: "head.index"}
	}
	head.Width, head.Index = *width, *idx
	return nil
}
