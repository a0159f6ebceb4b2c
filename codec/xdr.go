package codec

import (
	"bytes"
	"fmt"
	"math"

	xdr "github.com/nullstyle/go-xdr/xdr3"

	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/store"
)

// XDR lays the fields out in order: a string, two unsigned ints for the head,
// an unsigned hyper for the bit count, then the data as variable-length
// opaque for bytes, or a counted array of unsigned ints (16 and 32-bit
// words) or unsigned hypers (wider words).

func marshalXDR[T store.Word](w serdes.Wire[T]) ([]byte, error) {
	var buf bytes.Buffer
	enc := xdr.NewEncoder(&buf)

	if _, err := enc.EncodeString(w.Order); err != nil {
		return nil, err
	}
	if _, err := enc.EncodeUint(uint32(w.Head.Width)); err != nil {
		return nil, err
	}
	if _, err := enc.EncodeUint(uint32(w.Head.Index)); err != nil {
		return nil, err
	}
	if _, err := enc.EncodeUhyper(w.Bits); err != nil {
		return nil, err
	}

	if data, ok := any(w.Data).([]uint8); ok {
		if _, err := enc.EncodeOpaque(data); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if _, err := enc.EncodeUint(uint32(len(w.Data))); err != nil {
		return nil, err
	}
	wide := store.BitsOf[T]() > 32
	for _, word := range w.Data {
		var err error
		if wide {
			_, err = enc.EncodeUhyper(uint64(word))
		} else {
			_, err = enc.EncodeUint(uint32(word))
		}
		if err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// xdrDeserializer reads a BitSeq positionally.
type xdrDeserializer struct {
	r   *bytes.Reader
	dec *xdr.Decoder
}

func newXDRDeserializer(data []byte) *xdrDeserializer {
	r := bytes.NewReader(data)
	return &xdrDeserializer{r: r, dec: xdr.NewDecoder(r)}
}

func (d *xdrDeserializer) DeserializeStruct(_ string, _ []string, v serdes.Visitor) error {
	if err := v.VisitSeq(d); err != nil {
		return err
	}
	if d.r.Len() > 0 {
		return fmt.Errorf("%w: %d bytes", serdes.ErrTrailingData, d.r.Len())
	}
	return nil
}

func (d *xdrDeserializer) NextElement(dst any) (bool, error) {
	if d.r.Len() == 0 {
		return false, nil
	}
	return true, d.decode(dst)
}

func (d *xdrDeserializer) decode(dst any) error {
	switch p := dst.(type) {
	case *string:
		data, err := d.opaque()
		*p = string(data)
		return err
	case *serdes.Head:
		width, _, err := d.dec.DecodeUint()
		if err != nil {
			return err
		}
		idx, _, err := d.dec.DecodeUint()
		if err != nil {
			return err
		}
		return headFromPair(p, []uint64{uint64(width), uint64(idx)})
	case *uint64:
		bits, _, err := d.dec.DecodeUhyper()
		*p = bits
		return err
	case *[]uint8:
		data, err := d.opaque()
		*p = data
		return err
	case *serdes.Borrowed:
		data, err := d.opaque()
		*p = data
		return err
	}

	width, ok := wordWidth(dst)
	if !ok {
		return unexpected(dst)
	}
	size := 4
	if width > 32 {
		size = 8
	}
	n, err := d.count(size)
	if err != nil {
		return err
	}
	words := make([]uint64, n)
	for i := range words {
		if size == 8 {
			words[i], _, err = d.dec.DecodeUhyper()
		} else {
			var x uint32
			x, _, err = d.dec.DecodeUint()
			words[i] = uint64(x)
		}
		if err != nil {
			return err
		}
	}
	return storeWords(dst, words)
}

// opaque reads variable-length opaque data.
func (d *xdrDeserializer) opaque() ([]byte, error) {
	n, err := d.count(1)
	if err != nil {
		return nil, err
	}
	data, _, err := d.dec.DecodeFixedOpaque(int32(n))
	return data, err
}

// count reads an element count and checks the input holds that many elements
// of size bytes before anything is allocated for them.
func (d *xdrDeserializer) count(size int) (int, error) {
	n, _, err := d.dec.DecodeUint()
	if err != nil {
		return 0, err
	}
	if uint64(n)*uint64(size) > uint64(d.r.Len()) || n > math.MaxInt32 {
		return 0, &serdes.TypeError{
			Found:    fmt.Sprintf("%d elements in %d bytes", n, d.r.Len()),
			Expected: "a count within the input",
		}
	}
	return int(n), nil
}
