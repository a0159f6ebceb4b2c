package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spacemeshos/bitseq/codec"
)

var (
	convertTo    string
	convertOut   string
	convertForce bool
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a bit sequence between formats",
	Long: `Convert decodes a bit sequence in the configured format and encodes it again
in the format given by --to. Order and word width are kept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := codec.ParseFormat(convertTo)
		if err != nil {
			return err
		}
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

		out, err := e.convert(cfg.WireFormat(), to, data, cfg.DecodeOptions(logger))
		if err != nil {
			return err
		}
		return writeOutput(cmd, convertOut, convertForce, out)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertTo, "to", string(codec.JSON), "target wire format")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output file (default stdout)")
	convertCmd.Flags().BoolVar(&convertForce, "force", false, "overwrite the output file if it exists")
}
