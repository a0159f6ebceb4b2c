package codec

import (
	"bytes"
	"fmt"

	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/store"
)

// SCALE lays the fields out in order with compact integers throughout: the
// order string, width and index, the bit count, then the data as a byte
// slice, or a compact count followed by compact words.

func marshalSCALE[T store.Word](w serdes.Wire[T]) ([]byte, error) {
	var buf bytes.Buffer
	enc := scale.NewEncoder(&buf)

	if _, err := scale.EncodeString(enc, w.Order); err != nil {
		return nil, err
	}
	if _, err := scale.EncodeCompact8(enc, w.Head.Width); err != nil {
		return nil, err
	}
	if _, err := scale.EncodeCompact8(enc, w.Head.Index); err != nil {
		return nil, err
	}
	if _, err := scale.EncodeCompact64(enc, w.Bits); err != nil {
		return nil, err
	}

	if data, ok := any(w.Data).([]uint8); ok {
		if _, err := scale.EncodeByteSlice(enc, data); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if _, err := scale.EncodeCompact32(enc, uint32(len(w.Data))); err != nil {
		return nil, err
	}
	for _, word := range w.Data {
		if _, err := scale.EncodeCompact64(enc, uint64(word)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// scaleDeserializer reads a BitSeq positionally.
type scaleDeserializer struct {
	r   *bytes.Reader
	dec *scale.Decoder
}

func newSCALEDeserializer(data []byte) *scaleDeserializer {
	r := bytes.NewReader(data)
	return &scaleDeserializer{r: r, dec: scale.NewDecoder(r)}
}

func (d *scaleDeserializer) DeserializeStruct(_ string, _ []string, v serdes.Visitor) error {
	if err := v.VisitSeq(d); err != nil {
		return err
	}
	if d.r.Len() > 0 {
		return fmt.Errorf("%w: %d bytes", serdes.ErrTrailingData, d.r.Len())
	}
	return nil
}

func (d *scaleDeserializer) NextElement(dst any) (bool, error) {
	if d.r.Len() == 0 {
		return false, nil
	}
	return true, d.decode(dst)
}

func (d *scaleDeserializer) decode(dst any) error {
	switch p := dst.(type) {
	case *string:
		s, _, err := scale.DecodeString(d.dec)
		*p = s
		return err
	case *serdes.Head:
		width, _, err := scale.DecodeCompact8(d.dec)
		if err != nil {
			return err
		}
		idx, _, err := scale.DecodeCompact8(d.dec)
		p.Width, p.Index = width, idx
		return err
	case *uint64:
		bits, _, err := scale.DecodeCompact64(d.dec)
		*p = bits
		return err
	case *[]uint8:
		data, _, err := scale.DecodeByteSlice(d.dec)
		*p = data
		return err
	case *serdes.Borrowed:
		data, _, err := scale.DecodeByteSlice(d.dec)
		*p = data
		return err
	}

	if _, ok := wordWidth(dst); !ok {
		return unexpected(dst)
	}
	n, _, err := scale.DecodeCompact32(d.dec)
	if err != nil {
		return err
	}
	// Every compact word takes at least one byte.
	if uint64(n) > uint64(d.r.Len()) {
		return &serdes.TypeError{
			Found:    fmt.Sprintf("%d words in %d bytes", n, d.r.Len()),
			Expected: "a count within the input",
		}
	}
	words := make([]uint64, n)
	for i := range words {
		if words[i], _, err = scale.DecodeCompact64(d.dec); err != nil {
			return err
		}
	}
	return storeWords(dst, words)
}
