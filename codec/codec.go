// Package codec provides wire formats for the BitSeq protocol of package
// serdes: JSON and YAML, which accept the fields keyed or positional, and XDR,
// SCALE and a raw checksummed frame, which are positional.
package codec

import (
	"fmt"
	"strings"

	"github.com/spacemeshos/bitseq"
	"github.com/spacemeshos/bitseq/order"
	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/store"
)

// Format names a wire format.
type Format string

const (
	JSON  Format = "json"
	YAML  Format = "yaml"
	XDR   Format = "xdr"
	SCALE Format = "scale"
	Raw   Format = "raw"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, XDR, SCALE, Raw}

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format `%s`; expected one of: %v", s, Formats)
}

// Borrows reports whether byte data decoded from f aliases the input.
func (f Format) Borrows() bool {
	return f == Raw
}

// Marshal encodes s in format f.
func Marshal[T store.Word, O order.BitOrder](f Format, s bitseq.Slice[T, O]) ([]byte, error) {
	w := serdes.Encode(s)
	switch f {
	case JSON:
		return marshalJSON(w)
	case YAML:
		return marshalYAML(w)
	case XDR:
		return marshalXDR(w)
	case SCALE:
		return marshalSCALE(w)
	case Raw:
		return marshalRaw(w)
	}
	return nil, fmt.Errorf("invalid format `%s`", f)
}

// NewDeserializer returns a deserializer reading data in format f.
func NewDeserializer(f Format, data []byte) (serdes.Deserializer, error) {
	switch f {
	case JSON:
		return newJSONDeserializer(data), nil
	case YAML:
		return &yamlDeserializer{data: data}, nil
	case XDR:
		return newXDRDeserializer(data), nil
	case SCALE:
		return newSCALEDeserializer(data), nil
	case Raw:
		return newRawDeserializer(data)
	}
	return nil, fmt.Errorf("invalid format `%s`", f)
}

// UnmarshalSlice decodes a bit sequence of bytes from data. With Raw, the
// result aliases data.
func UnmarshalSlice[O order.BitOrder](f Format, data []byte, opts ...serdes.OptionFunc) (bitseq.Slice[uint8, O], error) {
	d, err := NewDeserializer(f, data)
	if err != nil {
		return bitseq.Slice[uint8, O]{}, err
	}
	return serdes.DecodeSlice[O](d, opts...)
}

// UnmarshalVec decodes a bit sequence of T words from data into an owned Vec.
func UnmarshalVec[T store.Word, O order.BitOrder](f Format, data []byte, opts ...serdes.OptionFunc) (*bitseq.Vec[T, O], error) {
	d, err := NewDeserializer(f, data)
	if err != nil {
		return nil, err
	}
	return serdes.DecodeVec[T, O](d, opts...)
}
