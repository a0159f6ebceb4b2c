package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/store"
)

func marshalJSON[T store.Word](w serdes.Wire[T]) ([]byte, error) {
	return json.Marshal(toText(w))
}

// jsonDeserializer reads a BitSeq from a JSON object, keyed, or a JSON
// array, positional. A head may be given as {"width":w,"index":i} or [w,i].
type jsonDeserializer struct {
	dec *json.Decoder
}

func newJSONDeserializer(data []byte) *jsonDeserializer {
	return &jsonDeserializer{dec: json.NewDecoder(bytes.NewReader(data))}
}

func (d *jsonDeserializer) DeserializeStruct(name string, _ []string, v serdes.Visitor) error {
	tok, err := d.dec.Token()
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	switch tok {
	case json.Delim('{'):
		if err := v.VisitMap(&jsonMap{dec: d.dec}); err != nil {
			return err
		}
	case json.Delim('['):
		if err := v.VisitSeq(&jsonSeq{dec: d.dec}); err != nil {
			return err
		}
		if d.dec.More() {
			return fmt.Errorf("%w: more than %d elements", serdes.ErrTrailingData, len(serdes.Fields))
		}
		if _, err := d.dec.Token(); err != nil {
			return err
		}
	default:
		return &serdes.TypeError{Found: fmt.Sprintf("%v", tok), Expected: v.Expecting()}
	}

	if _, err := d.dec.Token(); !errors.Is(err, io.EOF) {
		return serdes.ErrTrailingData
	}
	return nil
}

type jsonSeq struct {
	dec *json.Decoder
}

func (s *jsonSeq) NextElement(dst any) (bool, error) {
	if !s.dec.More() {
		return false, nil
	}
	return true, decodeJSON(s.dec, dst)
}

type jsonMap struct {
	dec *json.Decoder
}

func (m *jsonMap) NextKey() (string, bool, error) {
	if !m.dec.More() {
		// Consume the closing brace.
		_, err := m.dec.Token()
		return "", false, err
	}
	tok, err := m.dec.Token()
	if err != nil {
		return "", false, err
	}
	key, ok := tok.(string)
	if !ok {
		return "", false, &serdes.TypeError{Found: fmt.Sprintf("%v", tok), Expected: "a field name"}
	}
	return key, true, nil
}

func (m *jsonMap) NextValue(dst any) error {
	return decodeJSON(m.dec, dst)
}

func (m *jsonMap) SkipValue() error {
	var raw json.RawMessage
	return m.dec.Decode(&raw)
}

// decodeJSON reads one value into dst. Null is rejected for every field,
// where encoding/json would leave the zero value in place.
func decodeJSON(dec *json.Decoder, dst any) error {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return jsonError(err)
	}
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return null(dst)
	}

	switch p := dst.(type) {
	case *serdes.Head:
		return decodeJSONHead(raw, p)
	case *string, *uint64:
		return jsonError(json.Unmarshal(raw, dst))
	}

	if _, ok := wordWidth(dst); !ok {
		if _, ok := dst.(*serdes.Borrowed); !ok {
			return unexpected(dst)
		}
	}
	if raw[0] == '"' {
		// Bytes may also come as base64.
		switch p := dst.(type) {
		case *[]uint8:
			return jsonError(json.Unmarshal(raw, p))
		case *serdes.Borrowed:
			return jsonError(json.Unmarshal(raw, p))
		}
	}
	var elems []*uint64
	if err := json.Unmarshal(raw, &elems); err != nil {
		return jsonError(err)
	}
	words, err := present(elems)
	if err != nil {
		return err
	}
	return storeWords(dst, words)
}

func jsonError(err error) error {
	var terr *json.UnmarshalTypeError
	if errors.As(err, &terr) {
		return &serdes.TypeError{Found: terr.Value, Expected: terr.Type.String()}
	}
	return err
}

func decodeJSONHead(raw json.RawMessage, head *serdes.Head) error {
	if raw[0] == '[' {
		var pair []uint64
		if err := json.Unmarshal(raw, &pair); err != nil {
			return jsonError(err)
		}
		return headFromPair(head, pair)
	}

	var fields struct {
		Width *uint8 `json:"width"`
		Index *uint8 `json:"index"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fields); err != nil {
		return jsonError(err)
	}
	return headFromFields(head, fields.Width, fields.Index)
}
