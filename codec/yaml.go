package codec

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/store"
)

func marshalYAML[T store.Word](w serdes.Wire[T]) ([]byte, error) {
	return yaml.Marshal(toText(w))
}

// yamlDeserializer reads a BitSeq from a YAML mapping, keyed, or a YAML
// sequence, positional.
type yamlDeserializer struct {
	data []byte
}

func (d *yamlDeserializer) DeserializeStruct(name string, _ []string, v serdes.Visitor) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(d.data, &doc); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	node := &doc
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		node = doc.Content[0]
	}

	switch node.Kind {
	case yaml.MappingNode:
		return v.VisitMap(&yamlMap{nodes: node.Content})
	case yaml.SequenceNode:
		seq := &yamlSeq{nodes: node.Content}
		if err := v.VisitSeq(seq); err != nil {
			return err
		}
		if seq.pos < len(seq.nodes) {
			return fmt.Errorf("%w: more than %d elements", serdes.ErrTrailingData, len(serdes.Fields))
		}
		return nil
	}
	return &serdes.TypeError{Found: fmt.Sprintf("yaml node %q", node.Tag), Expected: v.Expecting()}
}

type yamlSeq struct {
	nodes []*yaml.Node
	pos   int
}

func (s *yamlSeq) NextElement(dst any) (bool, error) {
	if s.pos >= len(s.nodes) {
		return false, nil
	}
	node := s.nodes[s.pos]
	s.pos++
	return true, decodeYAML(node, dst)
}

// yamlMap walks the key/value pairs of a mapping node.
type yamlMap struct {
	nodes []*yaml.Node
	pos   int
}

func (m *yamlMap) NextKey() (string, bool, error) {
	if m.pos+1 >= len(m.nodes) {
		return "", false, nil
	}
	key := m.nodes[m.pos]
	if key.Kind != yaml.ScalarNode {
		return "", false, &serdes.TypeError{Found: fmt.Sprintf("yaml node %q", key.Tag), Expected: "a field name"}
	}
	return key.Value, true, nil
}

func (m *yamlMap) NextValue(dst any) error {
	node := m.nodes[m.pos+1]
	m.pos += 2
	return decodeYAML(node, dst)
}

func (m *yamlMap) SkipValue() error {
	m.pos += 2
	return nil
}

// decodeYAML reads node into dst. Null is rejected for every field, where
// yaml.v3 would leave the zero value in place.
func decodeYAML(node *yaml.Node, dst any) error {
	if node.ShortTag() == "!!null" {
		return null(dst)
	}

	switch p := dst.(type) {
	case *serdes.Head:
		return decodeYAMLHead(node, p)
	case *string, *uint64:
		return yamlError(node.Decode(dst), dst)
	}

	if _, ok := wordWidth(dst); !ok {
		if _, ok := dst.(*serdes.Borrowed); !ok {
			return unexpected(dst)
		}
	}
	if node.Kind != yaml.SequenceNode {
		// Bytes may also come as !!binary.
		return yamlError(node.Decode(dst), dst)
	}
	var elems []*uint64
	if err := node.Decode(&elems); err != nil {
		return yamlError(err, dst)
	}
	words, err := present(elems)
	if err != nil {
		return err
	}
	return storeWords(dst, words)
}

func decodeYAMLHead(node *yaml.Node, head *serdes.Head) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var pair []uint64
		if err := node.Decode(&pair); err != nil {
			return yamlError(err, head)
		}
		return headFromPair(head, pair)
	case yaml.MappingNode:
		var width, idx *uint8
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			var slot **uint8
			switch key.Value {
			case "width":
				slot = &width
			case "index":
				slot = &idx
			default:
				return &serdes.TypeError{Found: fmt.Sprintf("head field `%s`", key.Value), Expected: "width, index"}
			}
			if val.ShortTag() == "!!null" {
				continue
			}
			x := new(uint8)
			if err := val.Decode(x); err != nil {
				return yamlError(err, head)
			}
			*slot = x
		}
		return headFromFields(head, width, idx)
	}
	return &serdes.TypeError{Found: fmt.Sprintf("yaml node %q", node.Tag), Expected: "a head"}
}

func yamlError(err error, dst any) error {
	var terr *yaml.TypeError
	if errors.As(err, &terr) {
		return &serdes.TypeError{Found: strings.Join(terr.Errors, "; "), Expected: fmt.Sprintf("%T", dst)}
	}
	return err
}
