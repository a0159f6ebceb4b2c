package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spacemeshos/bitseq"
	"github.com/spacemeshos/bitseq/codec"
	"github.com/spacemeshos/bitseq/config"
	"github.com/spacemeshos/bitseq/index"
	"github.com/spacemeshos/bitseq/order"
	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/shared"
	"github.com/spacemeshos/bitseq/store"
)

// Summary describes a decoded bit sequence.
type Summary struct {
	Order    string
	Width    uint8
	Head     uint8
	Bits     uint64
	Words    int
	Bytes    uint64
	Borrowed bool
	Value    string
}

func (s Summary) rows() [][]string {
	return [][]string{
		{"order", s.Order},
		{"width", strconv.Itoa(int(s.Width))},
		{"head", strconv.Itoa(int(s.Head))},
		{"bits", strconv.FormatUint(s.Bits, 10)},
		{"words", strconv.Itoa(s.Words)},
		{"storage", byteSize(s.Bytes)},
		{"borrowed", strconv.FormatBool(s.Borrowed)},
	}
}

// engine runs the commands for one word width and bit order, selected at
// runtime from the config.
type engine interface {
	encode(f codec.Format, bits string, head uint8) ([]byte, error)
	encodeStream(f codec.Format, r io.Reader, head uint8) ([]byte, error)
	decode(f codec.Format, data []byte, opts []serdes.OptionFunc) (Summary, error)
	convert(from, to codec.Format, data []byte, opts []serdes.OptionFunc) ([]byte, error)
}

func newEngine(cfg *config.Config) (engine, error) {
	name, err := config.ParseOrder(cfg.Order)
	if err != nil {
		return nil, err
	}
	if name == config.OrderMsb0 {
		return engineFor[order.Msb0](cfg)
	}
	return engineFor[order.Lsb0](cfg)
}

func engineFor[O order.BitOrder](cfg *config.Config) (engine, error) {
	switch cfg.WordWidth {
	case 8:
		return typed[uint8, O]{borrow: cfg.Borrow}, nil
	case 16:
		return typed[uint16, O]{}, nil
	case 32:
		return typed[uint32, O]{}, nil
	case 64:
		return typed[uint64, O]{}, nil
	}
	return nil, fmt.Errorf("unsupported word width: %d", cfg.WordWidth)
}

type typed[T store.Word, O order.BitOrder] struct {
	borrow bool
}

// padded returns a Vec with head zero bits in front, ready to take the
// payload.
func (typed[T, O]) padded(head uint8) (*bitseq.Vec[T, O], error) {
	if width := store.BitsOf[T](); head >= width {
		return nil, fmt.Errorf("invalid head; expected: < %d, given: %d", width, head)
	}
	v := bitseq.NewVec[T, O]()
	for i := uint8(0); i < head; i++ {
		v.Push(false)
	}
	return v, nil
}

func (e typed[T, O]) encode(f codec.Format, bits string, head uint8) ([]byte, error) {
	v, err := e.padded(head)
	if err != nil {
		return nil, err
	}
	for i, c := range bits {
		switch c {
		case '0':
			v.Push(false)
		case '1':
			v.Push(true)
		case '_', ' ':
		default:
			return nil, fmt.Errorf("invalid bit %q at offset %d", c, i)
		}
	}
	return codec.Marshal(f, v.AsSlice().Sub(uint64(head), v.Len()))
}

func (e typed[T, O]) encodeStream(f codec.Format, r io.Reader, head uint8) ([]byte, error) {
	v, err := e.padded(head)
	if err != nil {
		return nil, err
	}
	if _, err := v.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return codec.Marshal(f, v.AsSlice().Sub(uint64(head), v.Len()))
}

func (e typed[T, O]) decode(f codec.Format, data []byte, opts []serdes.OptionFunc) (Summary, error) {
	if e.borrow {
		s, err := codec.UnmarshalSlice[O](f, data, opts...)
		if err != nil {
			return Summary{}, err
		}
		return summarize(s, f.Borrows()), nil
	}
	v, err := codec.UnmarshalVec[T, O](f, data, opts...)
	if err != nil {
		return Summary{}, err
	}
	return summarize(v.AsSlice(), false), nil
}

func (e typed[T, O]) convert(from, to codec.Format, data []byte, opts []serdes.OptionFunc) ([]byte, error) {
	v, err := codec.UnmarshalVec[T, O](from, data, opts...)
	if err != nil {
		return nil, err
	}
	return codec.Marshal(to, v.AsSlice())
}

func summarize[T store.Word, O order.BitOrder](s bitseq.Slice[T, O], borrowed bool) Summary {
	width := store.BitsOf[T]()
	words := len(s.AsWords())
	return Summary{
		Order:    order.NameOf[O](),
		Width:    width,
		Head:     s.Head().Value(),
		Bits:     s.Len(),
		Words:    words,
		Bytes:    shared.BytesOf(uint64(words), width),
		Borrowed: borrowed,
		Value:    s.String(),
	}
}

// attribute turns a decoding error caused by an input written with another
// order or word width than configured into a *shared.ConfigMismatchError for
// path. Other errors are returned unchanged.
func attribute(err error, path string) error {
	var orderErr *serdes.OrderError
	if errors.As(err, &orderErr) {
		return &shared.ConfigMismatchError{
			Param:    "order",
			Expected: orderErr.Expecting,
			Found:    orderErr.Found,
			Path:     path,
			Err:      err,
		}
	}
	var idxErr index.IdxError
	if errors.As(err, &idxErr) && idxErr.Recorded != idxErr.Width {
		return &shared.ConfigMismatchError{
			Param:    "word-width",
			Expected: strconv.Itoa(int(idxErr.Width)),
			Found:    strconv.Itoa(int(idxErr.Recorded)),
			Path:     path,
			Err:      err,
		}
	}
	return err
}
