package codec_test

import (
	"testing"

	"github.com/spacemeshos/bitseq"
	"github.com/spacemeshos/bitseq/codec"
	"github.com/spacemeshos/bitseq/order"
)

func fuzzFormat(f *testing.F, format codec.Format) {
	for _, s := range []bitseq.Slice[uint8, order.Lsb0]{
		bitseq.View[uint8, order.Lsb0]([]uint8{0x12}).Sub(1, 5),
		bitseq.View[uint8, order.Lsb0]([]uint8{0x3C, 0xA5}),
		bitseq.View[uint8, order.Lsb0](nil),
	} {
		data, err := codec.Marshal(format, s)
		if err != nil {
			f.Fatal(err)
		}
		f.Add(data)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// Untrusted input must fail cleanly, never panic.
		s, err := codec.UnmarshalSlice[order.Lsb0](format, data)
		if err == nil && uint64(len(s.AsWords()))*8 < s.Len() {
			t.Fatalf("%d bits over %d words", s.Len(), len(s.AsWords()))
		}
		_, _ = codec.UnmarshalVec[uint32, order.Lsb0](format, data)
	})
}

func FuzzJSON(f *testing.F)  { fuzzFormat(f, codec.JSON) }
func FuzzYAML(f *testing.F)  { fuzzFormat(f, codec.YAML) }
func FuzzXDR(f *testing.F)   { fuzzFormat(f, codec.XDR) }
func FuzzSCALE(f *testing.F) { fuzzFormat(f, codec.SCALE) }
func FuzzRaw(f *testing.F)   { fuzzFormat(f, codec.Raw) }
