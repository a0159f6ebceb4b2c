package serdes

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spacemeshos/bitseq"
	"github.com/spacemeshos/bitseq/order"
	"github.com/spacemeshos/bitseq/ptr"
	"github.com/spacemeshos/bitseq/store"
)

type option struct {
	// maxBits caps the decoded length below ptr.MaxBits.
	maxBits uint64
	logger  *zap.Logger
}

func applyOpts(options ...OptionFunc) (*option, error) {
	opts := &option{
		maxBits: ptr.MaxBits,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if err := opt(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

type OptionFunc func(*option) error

// WithMaxBits rejects sequences longer than n bits.
func WithMaxBits(n uint64) OptionFunc {
	return func(o *option) error {
		if n > ptr.MaxBits {
			return fmt.Errorf("invalid `maxBits`; expected: <= %d, given: %d", ptr.MaxBits, n)
		}
		o.maxBits = n
		return nil
	}
}

// WithLogger sets the logger used to report decoded sequences.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(o *option) error {
		if logger == nil {
			return errors.New("`logger` is required")
		}
		o.logger = logger
		return nil
	}
}

// DecodeSlice decodes a bit sequence of bytes as a view over the data the
// deserializer yields, without copying. Formats that can hand out their input
// buffer directly make the result alias that input; it must not outlive it.
//
// Only byte-wide words can be borrowed this way: wider words would need the
// input to be reinterpreted and realigned. Use DecodeVec for those.
func DecodeSlice[O order.BitOrder](d Deserializer, opts ...OptionFunc) (bitseq.Slice[uint8, O], error) {
	return decode[uint8, O](d, true, func(_ []uint8, span ptr.BitSpan[uint8, O]) (bitseq.Slice[uint8, O], error) {
		return bitseq.FromSpan(span), nil
	}, opts)
}

// DecodeVec decodes a bit sequence of T words into a Vec that owns the
// decoded words.
func DecodeVec[T store.Word, O order.BitOrder](d Deserializer, opts ...OptionFunc) (*bitseq.Vec[T, O], error) {
	return decode[T, O](d, false, func(_ []T, span ptr.BitSpan[T, O]) (*bitseq.Vec[T, O], error) {
		// Words past the span are dropped; data may be longer than the
		// region and longer than a span can describe.
		v := bitseq.FromWords[T, O](span.Words())
		if err := v.SetHead(span.Head().Value()); err != nil {
			return nil, err
		}
		if err := v.SetLen(span.Len()); err != nil {
			return nil, err
		}
		return v, nil
	}, opts)
}

func decode[T store.Word, O order.BitOrder, Out any](d Deserializer, borrow bool, build builder[T, O, Out], options []OptionFunc) (Out, error) {
	var zero Out

	opts, err := applyOpts(options...)
	if err != nil {
		return zero, err
	}

	v := newVisitor[T, O](opts, borrow, build)
	if err := d.DeserializeStruct(TypeName, Fields, v); err != nil {
		opts.logger.Debug("failed to decode bit sequence",
			zap.String("expecting", v.Expecting()),
			zap.Error(err),
		)
		return zero, err
	}
	if !v.visited {
		return zero, fmt.Errorf("%w: no structure found; expected: %s", ErrInvalidType, v.Expecting())
	}
	return v.out, nil
}
