package serdes

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spacemeshos/bitseq/index"
	"github.com/spacemeshos/bitseq/order"
	"github.com/spacemeshos/bitseq/ptr"
	"github.com/spacemeshos/bitseq/store"
)

// builder turns validated wire fields into the decoded value.
type builder[T store.Word, O order.BitOrder, Out any] func(data []T, span ptr.BitSpan[T, O]) (Out, error)

// visitor accumulates the four fields of one decode attempt. Each slot is
// filled at most once; the visitor is not reusable.
type visitor[T store.Word, O order.BitOrder, Out any] struct {
	order *string
	head  *Head
	bits  *uint64
	data  *[]T

	opts  *option
	build builder[T, O, Out]
	// borrow requests byte data as Borrowed.
	borrow bool

	visited bool
	out     Out
}

func newVisitor[T store.Word, O order.BitOrder, Out any](opts *option, borrow bool, build builder[T, O, Out]) *visitor[T, O, Out] {
	return &visitor[T, O, Out]{opts: opts, borrow: borrow, build: build}
}

func (v *visitor[T, O, Out]) Expecting() string { return Expecting[T, O]() }

func (v *visitor[T, O, Out]) begin() error {
	if v.visited {
		return ErrVisitorReused
	}
	v.visited = true
	return nil
}

func (v *visitor[T, O, Out]) VisitSeq(seq SeqAccess) error {
	if err := v.begin(); err != nil {
		return err
	}

	var (
		ord  string
		head Head
		bits uint64
		data []T
	)
	next := func(i int, dst any) error {
		ok, err := seq.NextElement(dst)
		if err != nil {
			return fmt.Errorf("decode element %d (`%s`): %w", i, Fields[i], err)
		}
		if !ok {
			return &LengthError{Index: i, Expecting: v.Expecting()}
		}
		return nil
	}
	if err := next(0, &ord); err != nil {
		return err
	}
	if err := next(1, &head); err != nil {
		return err
	}
	if err := next(2, &bits); err != nil {
		return err
	}
	if err := v.decodeData(&data, func(dst any) error { return next(3, dst) }); err != nil {
		return err
	}
	v.order, v.head, v.bits, v.data = &ord, &head, &bits, &data

	return v.assemble()
}

func (v *visitor[T, O, Out]) VisitMap(m MapAccess) error {
	if err := v.begin(); err != nil {
		return err
	}

	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		switch key {
		case FieldOrder:
			err = fill(key, &v.order, m.NextValue)
		case FieldHead:
			err = fill(key, &v.head, m.NextValue)
		case FieldBits:
			err = fill(key, &v.bits, m.NextValue)
		case FieldData:
			err = fill(key, &v.data, func(dst any) error {
				return v.decodeData(dst.(*[]T), m.NextValue)
			})
		default:
			// The value still has to be consumed to keep the input in step.
			if err := m.SkipValue(); err != nil {
				return err
			}
			return &FieldError{Kind: ErrUnknownField, Field: key, Expected: Fields}
		}
		if err != nil {
			return err
		}
	}

	return v.assemble()
}

// fill decodes the value of field into a fresh slot, failing if the slot was
// already filled.
func fill[V any](field string, slot **V, decode func(dst any) error) error {
	val := new(V)
	if err := decode(val); err != nil {
		return fmt.Errorf("decode field `%s`: %w", field, err)
	}
	if *slot != nil {
		return &FieldError{Kind: ErrDuplicateField, Field: field}
	}
	*slot = val
	return nil
}

// decodeData decodes the data field into dst through next, as Borrowed when
// the visitor borrows.
func (v *visitor[T, O, Out]) decodeData(dst *[]T, next func(dst any) error) error {
	if !v.borrow {
		return next(dst)
	}
	var b Borrowed
	if err := next(&b); err != nil {
		return err
	}
	*dst = any([]uint8(b)).([]T)
	return nil
}

func (v *visitor[T, O, Out]) assemble() error {
	switch {
	case v.order == nil:
		return &FieldError{Kind: ErrMissingField, Field: FieldOrder}
	case v.head == nil:
		return &FieldError{Kind: ErrMissingField, Field: FieldHead}
	case v.bits == nil:
		return &FieldError{Kind: ErrMissingField, Field: FieldBits}
	case v.data == nil:
		return &FieldError{Kind: ErrMissingField, Field: FieldData}
	}

	if *v.order != order.NameOf[O]() {
		return &OrderError{Found: *v.order, Expecting: v.Expecting()}
	}

	head, bits, data := *v.head, *v.bits, *v.data
	if head.Width != store.BitsOf[T]() {
		_, err := index.FromWire[T](head.Width, head.Index)
		return &SpanError{Err: err}
	}

	span, err := ptr.New[T, O](data, head.Index, bits)
	if err != nil {
		return &SpanError{Err: err}
	}
	if bits > v.opts.maxBits {
		return &SpanError{Err: &ptr.SpanError{
			Kind:  ptr.ErrLengthOverflow,
			Width: head.Width,
			Head:  head.Index,
			Bits:  bits,
			Words: len(data),
			Need:  uint64(len(span.Words())),
			Max:   v.opts.maxBits,
		}}
	}

	out, err := v.build(data, span)
	if err != nil {
		return &SpanError{Err: err}
	}
	v.out = out

	v.opts.logger.Debug("decoded bit sequence",
		zap.String("order", *v.order),
		zap.Uint8("width", head.Width),
		zap.Uint8("head", head.Index),
		zap.Uint64("bits", bits),
		zap.Int("words", len(span.Words())),
	)
	return nil
}
