package serdes_test

import (
	"fmt"
	"reflect"

	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/store"
)

// assign stores val into dst the way a format would, failing on a shape
// mismatch.
func assign(dst, val any) error {
	elem := reflect.ValueOf(dst).Elem()
	vv := reflect.ValueOf(val)
	if !vv.IsValid() || !vv.Type().AssignableTo(elem.Type()) {
		return &serdes.TypeError{Found: fmt.Sprintf("%T", val), Expected: elem.Type().String()}
	}
	elem.Set(vv)
	return nil
}

type seqAccess struct {
	vals []any
	pos  int
}

func (s *seqAccess) NextElement(dst any) (bool, error) {
	if s.pos >= len(s.vals) {
		return false, nil
	}
	val := s.vals[s.pos]
	s.pos++
	return true, assign(dst, val)
}

type entry struct {
	key string
	val any
}

type mapAccess struct {
	entries []entry
	pos     int
	skipped []string
}

func (m *mapAccess) NextKey() (string, bool, error) {
	if m.pos >= len(m.entries) {
		return "", false, nil
	}
	return m.entries[m.pos].key, true, nil
}

func (m *mapAccess) NextValue(dst any) error {
	val := m.entries[m.pos].val
	m.pos++
	return assign(dst, val)
}

func (m *mapAccess) SkipValue() error {
	m.skipped = append(m.skipped, m.entries[m.pos].key)
	m.pos++
	return nil
}

// positional presents its values as a sequence.
type positional []any

func (p positional) DeserializeStruct(_ string, _ []string, v serdes.Visitor) error {
	return v.VisitSeq(&seqAccess{vals: p})
}

// keyed presents its entries as a map.
type keyed struct {
	*mapAccess
}

func newKeyed(entries ...entry) keyed {
	return keyed{&mapAccess{entries: entries}}
}

func (k keyed) DeserializeStruct(_ string, _ []string, v serdes.Visitor) error {
	return v.VisitMap(k.mapAccess)
}

func wireEntries[T store.Word](w serdes.Wire[T]) []entry {
	return []entry{
		{serdes.FieldOrder, w.Order},
		{serdes.FieldHead, w.Head},
		{serdes.FieldBits, w.Bits},
		{serdes.FieldData, w.Data},
	}
}

func wireValues[T store.Word](w serdes.Wire[T]) positional {
	return positional{w.Order, w.Head, w.Bits, w.Data}
}
