package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/store"
)

// A raw frame is
//
//	magic "BSQ" | version | body | crc32(body)
//
// where body holds the fields in order: uvarint-prefixed order, width and
// index bytes, uvarint bit count, uvarint word count and the words in
// little-endian byte order. Byte data requested as serdes.Borrowed is handed
// out as a sub-slice of the frame, so decoding it into a Slice copies nothing.

const rawVersion = 1

var (
	rawMagic = []byte("BSQ")

	ErrBadFrame = errors.New("bad raw frame")
)

func marshalRaw[T store.Word](w serdes.Wire[T]) ([]byte, error) {
	size := store.BitsOf[T]() / 8

	buf := bytes.NewBuffer(make([]byte, 0, len(rawMagic)+1+len(w.Order)+2+3*binary.MaxVarintLen64+len(w.Data)*int(size)+4))
	buf.Write(rawMagic)
	buf.WriteByte(rawVersion)

	buf.Write(binary.AppendUvarint(nil, uint64(len(w.Order))))
	buf.WriteString(w.Order)
	buf.WriteByte(w.Head.Width)
	buf.WriteByte(w.Head.Index)
	buf.Write(binary.AppendUvarint(nil, w.Bits))
	buf.Write(binary.AppendUvarint(nil, uint64(len(w.Data))))

	word := make([]byte, 8)
	for _, x := range w.Data {
		binary.LittleEndian.PutUint64(word, uint64(x))
		buf.Write(word[:size])
	}

	out := buf.Bytes()
	crc := crc32.ChecksumIEEE(out[len(rawMagic)+1:])
	return binary.LittleEndian.AppendUint32(out, crc), nil
}

// rawDeserializer reads a BitSeq positionally from a checked frame.
type rawDeserializer struct {
	body []byte
	pos  int
}

func newRawDeserializer(frame []byte) (*rawDeserializer, error) {
	header := len(rawMagic) + 1
	if len(frame) < header+4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadFrame, len(frame))
	}
	if !bytes.Equal(frame[:len(rawMagic)], rawMagic) {
		return nil, fmt.Errorf("%w: bad magic %x", ErrBadFrame, frame[:len(rawMagic)])
	}
	if v := frame[len(rawMagic)]; v != rawVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadFrame, v)
	}

	body := frame[header : len(frame)-4]
	want := binary.LittleEndian.Uint32(frame[len(frame)-4:])
	if crc32.ChecksumIEEE(body) != want {
		return nil, fmt.Errorf("%w: crc mismatch", ErrBadFrame)
	}
	return &rawDeserializer{body: body}, nil
}

func (d *rawDeserializer) DeserializeStruct(_ string, _ []string, v serdes.Visitor) error {
	if err := v.VisitSeq(d); err != nil {
		return err
	}
	if rest := len(d.body) - d.pos; rest > 0 {
		return fmt.Errorf("%w: %d bytes", serdes.ErrTrailingData, rest)
	}
	return nil
}

func (d *rawDeserializer) NextElement(dst any) (bool, error) {
	if d.pos >= len(d.body) {
		return false, nil
	}
	return true, d.decode(dst)
}

func (d *rawDeserializer) decode(dst any) error {
	switch p := dst.(type) {
	case *string:
		data, err := d.bytes(1)
		*p = string(data)
		return err
	case *serdes.Head:
		data, err := d.take(2)
		if err != nil {
			return err
		}
		p.Width, p.Index = data[0], data[1]
		return nil
	case *uint64:
		bits, err := d.uvarint()
		*p = bits
		return err
	case *[]uint8:
		data, err := d.bytes(1)
		*p = append([]uint8(nil), data...)
		return err
	case *serdes.Borrowed:
		data, err := d.bytes(1)
		*p = data
		return err
	}

	width, ok := wordWidth(dst)
	if !ok {
		return unexpected(dst)
	}
	size := int(width / 8)
	n, err := d.uvarint()
	if err != nil {
		return err
	}
	if n > uint64(len(d.body)-d.pos)/uint64(size) {
		return d.short(n * uint64(size))
	}
	data, err := d.take(int(n) * size)
	if err != nil {
		return err
	}
	switch p := dst.(type) {
	case *[]uint16:
		*p = littleEndian[uint16](data)
	case *[]uint32:
		*p = littleEndian[uint32](data)
	case *[]uint64:
		*p = littleEndian[uint64](data)
	case *[]uint:
		*p = littleEndian[uint](data)
	default:
		return unexpected(dst)
	}
	return nil
}

// littleEndian unpacks data into words of T, least significant byte first.
func littleEndian[T store.Word](data []byte) []T {
	size := int(store.BitsOf[T]() / 8)
	words := make([]T, len(data)/size)
	for i := range words {
		var x T
		for b := size - 1; b >= 0; b-- {
			x = x<<8 | T(data[i*size+b])
		}
		words[i] = x
	}
	return words
}

// bytes reads a uvarint count of size-byte elements and returns them without
// copying.
func (d *rawDeserializer) bytes(size int) ([]byte, error) {
	n, err := d.uvarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(d.body)-d.pos)/uint64(size) {
		return nil, d.short(n)
	}
	return d.take(int(n) * size)
}

func (d *rawDeserializer) take(n int) ([]byte, error) {
	if n > len(d.body)-d.pos {
		return nil, d.short(uint64(n))
	}
	data := d.body[d.pos : d.pos+n : d.pos+n]
	d.pos += n
	return data, nil
}

func (d *rawDeserializer) uvarint() (uint64, error) {
	x, n := binary.Uvarint(d.body[d.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: bad uvarint at offset %d", ErrBadFrame, d.pos)
	}
	d.pos += n
	return x, nil
}

func (d *rawDeserializer) short(need uint64) error {
	return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrBadFrame, need, d.pos, len(d.body)-d.pos)
}
