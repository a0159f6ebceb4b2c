package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spacemeshos/bitseq/codec"
	"github.com/spacemeshos/bitseq/config"
	"github.com/spacemeshos/bitseq/order"
	"github.com/spacemeshos/bitseq/ptr"
	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/shared"
)

func engineOf(t *testing.T, modify func(*config.Config)) engine {
	cfg := config.DefaultConfig()
	if modify != nil {
		modify(cfg)
	}
	require.NoError(t, cfg.Validate())
	e, err := newEngine(cfg)
	require.NoError(t, err)
	return e
}

func TestEngine_Encode(t *testing.T) {
	req := require.New(t)
	e := engineOf(t, nil)

	data, err := e.encode(codec.JSON, "1001", 1)
	req.NoError(err)
	req.JSONEq(`{"order":"`+order.NameOf[order.Lsb0]()+`","head":{"width":8,"index":1},"bits":4,"data":[18]}`, string(data))

	_, err = e.encode(codec.JSON, "10x1", 0)
	req.ErrorContains(err, `invalid bit 'x' at offset 2`)

	_, err = e.encode(codec.JSON, "1", 8)
	req.ErrorContains(err, "invalid head; expected: < 8, given: 8")
}

func TestEngine_RoundTrip(t *testing.T) {
	const bits = "1100_1011_0111_0"
	const want = "1100101101110"

	for _, width := range []uint{8, 16, 32, 64} {
		for _, ord := range []string{config.OrderLsb0, config.OrderMsb0} {
			for _, f := range codec.Formats {
				width, ord, f := width, ord, f
				t.Run(fmt.Sprintf("%s/%d/%s", ord, width, f), func(t *testing.T) {
					req := require.New(t)
					e := engineOf(t, func(c *config.Config) {
						c.WordWidth = width
						c.Order = ord
					})

					data, err := e.encode(f, bits, 5)
					req.NoError(err)

					s, err := e.decode(f, data, nil)
					req.NoError(err)
					req.Equal(want, s.Value)
					req.Equal(uint8(width), s.Width)
					req.Equal(uint8(5), s.Head)
					req.Equal(uint64(len(want)), s.Bits)
					req.False(s.Borrowed)
				})
			}
		}
	}
}

func TestEngine_Borrow(t *testing.T) {
	req := require.New(t)
	e := engineOf(t, func(c *config.Config) { c.Borrow = true })

	for _, f := range codec.Formats {
		data, err := e.encode(f, "101", 0)
		req.NoError(err)
		s, err := e.decode(f, data, nil)
		req.NoError(err)
		req.Equal("101", s.Value)
		req.Equal(f.Borrows(), s.Borrowed, f)
	}
}

func TestEngine_EncodeStream(t *testing.T) {
	req := require.New(t)

	lsb := engineOf(t, nil)
	data, err := lsb.encodeStream(codec.Raw, bytes.NewReader([]byte{0x01, 0x80}), 0)
	req.NoError(err)
	s, err := lsb.decode(codec.Raw, data, nil)
	req.NoError(err)
	req.Equal("1000000000000001", s.Value)

	msb := engineOf(t, func(c *config.Config) { c.Order = config.OrderMsb0 })
	data, err = msb.encodeStream(codec.Raw, bytes.NewReader([]byte{0x01, 0x80}), 0)
	req.NoError(err)
	s, err = msb.decode(codec.Raw, data, nil)
	req.NoError(err)
	req.Equal("0000000110000000", s.Value)
}

func TestEngine_Convert(t *testing.T) {
	req := require.New(t)
	e := engineOf(t, func(c *config.Config) {
		c.WordWidth = 32
		c.Order = config.OrderMsb0
	})

	data, err := e.encode(codec.YAML, "0110", 30)
	req.NoError(err)

	out, err := e.convert(codec.YAML, codec.SCALE, data, nil)
	req.NoError(err)

	s, err := e.decode(codec.SCALE, out, nil)
	req.NoError(err)
	req.Equal("0110", s.Value)
	req.Equal(uint8(30), s.Head)
	req.Equal(2, s.Words)
	req.Equal(uint64(8), s.Bytes)
}

func TestEngine_MaxBits(t *testing.T) {
	req := require.New(t)
	cfg := config.DefaultConfig()
	cfg.MaxBits = 3
	e := engineOf(t, func(c *config.Config) { c.MaxBits = 3 })

	data, err := e.encode(codec.XDR, "1111", 0)
	req.NoError(err)

	_, err = e.decode(codec.XDR, data, cfg.DecodeOptions(zaptest.NewLogger(t)))
	req.ErrorIs(err, ptr.ErrLengthOverflow)
}

func TestNewEngine_InvalidWidth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WordWidth = 24

	_, err := newEngine(cfg)
	require.ErrorContains(t, err, "unsupported word width: 24")
}

func TestAttribute(t *testing.T) {
	req := require.New(t)
	lsb8 := engineOf(t, nil)
	data, err := lsb8.encode(codec.JSON, "101", 2)
	req.NoError(err)

	msb8 := engineOf(t, func(c *config.Config) { c.Order = config.OrderMsb0 })
	_, err = msb8.decode(codec.JSON, data, nil)
	err = attribute(err, "seq.json")
	var mismatch *shared.ConfigMismatchError
	req.ErrorAs(err, &mismatch)
	req.Equal("order", mismatch.Param)
	req.Equal(order.NameOf[order.Lsb0](), mismatch.Found)
	req.Equal("seq.json", mismatch.Path)
	req.ErrorIs(err, serdes.ErrInvalidOrder)

	lsb16 := engineOf(t, func(c *config.Config) { c.WordWidth = 16 })
	_, err = lsb16.decode(codec.JSON, data, nil)
	err = attribute(err, "seq.json")
	req.ErrorAs(err, &mismatch)
	req.Equal("word-width", mismatch.Param)
	req.Equal("16", mismatch.Expected)
	req.Equal("8", mismatch.Found)
	req.ErrorIs(err, serdes.ErrInvalidSpan)

	_, err = lsb8.decode(codec.JSON, []byte(`{"bits":2}`), nil)
	req.False(errors.As(attribute(err, "seq.json"), &mismatch))
}

func TestVerifyFiles(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	e := engineOf(t, nil)

	good, err := e.encode(codec.JSON, "10", 0)
	req.NoError(err)

	paths := []string{
		filepath.Join(dir, "good.json"),
		filepath.Join(dir, "bad.json"),
		filepath.Join(dir, "missing.json"),
	}
	req.NoError(os.WriteFile(paths[0], good, 0o600))
	req.NoError(os.WriteFile(paths[1], []byte(`{"bits":2}`), 0o600))

	results, err := verifyFiles(context.Background(), e, codec.JSON, paths, 2, nil)
	req.NoError(err)
	req.Len(results, 3)

	req.NoError(results[0].err)
	req.Equal(uint64(2), results[0].summary.Bits)
	req.Equal(uint64(len(good)), results[0].size)

	req.Error(results[1].err)
	req.ErrorIs(results[2].err, os.ErrNotExist)

	msb := engineOf(t, func(c *config.Config) { c.Order = config.OrderMsb0 })
	results, err = verifyFiles(context.Background(), msb, codec.JSON, paths[:1], 1, nil)
	req.NoError(err)
	var mismatch *shared.ConfigMismatchError
	req.ErrorAs(results[0].err, &mismatch)
	req.Equal(paths[0], mismatch.Path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = verifyFiles(ctx, e, codec.JSON, paths, 1, nil)
	req.ErrorIs(err, context.Canceled)
}
