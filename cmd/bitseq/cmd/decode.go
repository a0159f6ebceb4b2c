package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var decodeTable bool

// decodeCmd represents the decode command.
var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode a bit sequence",
	Long: `Decode reads a serialized bit sequence from a file, or stdin when no file is given,
and prints its bits. With --table it prints a summary of the sequence instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(cfg)
		if err != nil {
			return err
		}

		var path string
		if len(args) > 0 {
			path = args[0]
		}
		data, err := readInput(cmd, path)
		if err != nil {
			return err
		}

		s, err := e.decode(cfg.WireFormat(), data, cfg.DecodeOptions(logger))
		if err != nil {
			if path == "" {
				path = "-"
			}
			return attribute(err, path)
		}

		if !decodeTable {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), s.Value)
			return err
		}
		rows := append(s.rows(), []string{"input", byteSize(uint64(len(data)))})
		report(cmd.OutOrStdout(), []string{"field", "value"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().BoolVar(&decodeTable, "table", false, "print a summary table instead of the bits")
}
