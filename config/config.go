package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spacemeshos/bitseq/codec"
	"github.com/spacemeshos/bitseq/order"
	"github.com/spacemeshos/bitseq/ptr"
	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/shared"
)

const (
	MinWordWidth = 8
	MaxWordWidth = 64

	MaxWorkers = 256
	MinWorkers = 1
)

const (
	OrderLsb0 = "lsb0"
	OrderMsb0 = "msb0"
)

const (
	DefaultFormat    = string(codec.JSON)
	DefaultOrder     = OrderLsb0
	DefaultWordWidth = 8
	DefaultMaxBits   = ptr.MaxBits
	DefaultWorkers   = 4
)

type Config struct {
	Format    string `mapstructure:"format"`
	Order     string `mapstructure:"order"`
	WordWidth uint   `mapstructure:"word-width"`
	MaxBits   uint64 `mapstructure:"max-bits"`

	// Borrow decodes byte sequences as views into the input where the format
	// allows it. Only valid for 8-bit words.
	Borrow bool `mapstructure:"borrow"`

	// Workers bounds the number of inputs verified concurrently.
	Workers int `mapstructure:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Format:    DefaultFormat,
		Order:     DefaultOrder,
		WordWidth: DefaultWordWidth,
		MaxBits:   DefaultMaxBits,
		Workers:   DefaultWorkers,
	}
}

func (cfg *Config) Validate() error {
	if _, err := codec.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("invalid `Format`: %w", err)
	}

	if _, err := ParseOrder(cfg.Order); err != nil {
		return fmt.Errorf("invalid `Order`: %w", err)
	}

	if !shared.IsPowerOfTwo(uint64(cfg.WordWidth)) {
		return fmt.Errorf("invalid `WordWidth`; expected: a power of 2, given: %d", cfg.WordWidth)
	}

	if cfg.WordWidth > MaxWordWidth {
		return fmt.Errorf("invalid `WordWidth`; expected: <= %d, given: %d", MaxWordWidth, cfg.WordWidth)
	}

	if cfg.WordWidth < MinWordWidth {
		return fmt.Errorf("invalid `WordWidth`; expected: >= %d, given: %d", MinWordWidth, cfg.WordWidth)
	}

	if cfg.MaxBits > ptr.MaxBits {
		return fmt.Errorf("invalid `MaxBits`; expected: <= %d, given: %d", ptr.MaxBits, cfg.MaxBits)
	}

	if cfg.Borrow && cfg.WordWidth != 8 {
		return fmt.Errorf("invalid `Borrow`; expected: `WordWidth` of 8, given: %d", cfg.WordWidth)
	}

	if cfg.Workers > MaxWorkers {
		return fmt.Errorf("invalid `Workers`; expected: <= %d, given: %d", MaxWorkers, cfg.Workers)
	}

	if cfg.Workers < MinWorkers {
		return fmt.Errorf("invalid `Workers`; expected: >= %d, given: %d", MinWorkers, cfg.Workers)
	}

	return nil
}

// ParseOrder resolves an order by its short name or by its full type name.
func ParseOrder(name string) (string, error) {
	switch strings.ToLower(name) {
	case OrderLsb0, strings.ToLower(order.NameOf[order.Lsb0]()):
		return OrderLsb0, nil
	case OrderMsb0, strings.ToLower(order.NameOf[order.Msb0]()):
		return OrderMsb0, nil
	}
	return "", fmt.Errorf("unknown order `%s`; expected one of: %s, %s", name, OrderLsb0, OrderMsb0)
}

// WireFormat returns the configured wire format. The config must be valid.
func (cfg *Config) WireFormat() codec.Format {
	f, _ := codec.ParseFormat(cfg.Format)
	return f
}

// DecodeOptions returns the decoder options for cfg.
func (cfg *Config) DecodeOptions(logger *zap.Logger) []serdes.OptionFunc {
	opts := []serdes.OptionFunc{serdes.WithMaxBits(cfg.MaxBits)}
	if logger != nil {
		opts = append(opts, serdes.WithLogger(logger))
	}
	return opts
}
