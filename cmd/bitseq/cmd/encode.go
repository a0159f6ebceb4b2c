package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/bitseq/shared"
)

var (
	encodeIn    string
	encodeOut   string
	encodeHead  uint8
	encodeForce bool
)

// encodeCmd represents the encode command.
var encodeCmd = &cobra.Command{
	Use:   "encode [bits]",
	Short: "Encode a bit sequence",
	Long: `Encode serializes a bit sequence in the configured format, order and word width.
The bits are given as a string of 0 and 1 characters, first bit first, where '_' and
spaces are ignored. With --in the bits are read from a file of raw bytes instead, each
byte unpacked under the configured order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(cfg)
		if err != nil {
			return err
		}

		var data []byte
		switch {
		case encodeIn != "" && len(args) > 0:
			return fmt.Errorf("bits argument and --in are mutually exclusive")
		case encodeIn != "":
			f, err := os.Open(encodeIn)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()
			data, err = e.encodeStream(cfg.WireFormat(), f, encodeHead)
			if err != nil {
				return err
			}
		case len(args) > 0:
			data, err = e.encode(cfg.WireFormat(), args[0], encodeHead)
			if err != nil {
				return err
			}
		default:
			return shared.ErrNoInput
		}

		logger.Debug("encoded",
			zap.String("format", cfg.Format),
			zap.String("order", cfg.Order),
			zap.Uint("width", cfg.WordWidth),
			zap.Int("size", len(data)),
		)
		return writeOutput(cmd, encodeOut, encodeForce, data)
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVar(&encodeIn, "in", "", "file of raw bytes to encode")
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "output file (default stdout)")
	encodeCmd.Flags().Uint8Var(&encodeHead, "head", 0, "index of the first bit within the first word")
	encodeCmd.Flags().BoolVar(&encodeForce, "force", false, "overwrite the output file if it exists")
}
