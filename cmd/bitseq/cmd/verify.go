package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/bitseq/codec"
	"github.com/spacemeshos/bitseq/serdes"
	"github.com/spacemeshos/bitseq/shared"
)

// verifyCmd represents the verify command.
var verifyCmd = &cobra.Command{
	Use:   "verify file...",
	Short: "Verify that files hold valid bit sequences",
	Long: `Verify decodes every given file in the configured format, order and word width
and reports which of them hold a valid bit sequence. Files are checked concurrently,
up to the configured number of workers.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(cfg)
		if err != nil {
			return err
		}

		results, err := verifyFiles(cmd.Context(), e, cfg.WireFormat(), args, cfg.Workers, cfg.DecodeOptions(logger))
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(results))
		var errs []error
		for _, r := range results {
			if r.err != nil {
				rows = append(rows, []string{r.path, "invalid", "-", byteSize(r.size)})
				errs = append(errs, &shared.InputError{Path: r.path, Err: r.err})
				continue
			}
			rows = append(rows, []string{r.path, "ok", strconv.FormatUint(r.summary.Bits, 10), byteSize(r.size)})
		}
		report(cmd.OutOrStdout(), []string{"file", "status", "bits", "size"}, rows)
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

type verifyResult struct {
	path    string
	size    uint64
	summary Summary
	err     error
}

// verifyFiles decodes every path with at most workers running at once. A file
// that fails to decode is reported in its result and does not stop the
// others; only cancellation of ctx does.
func verifyFiles(ctx context.Context, e engine, f codec.Format, paths []string, workers int, opts []serdes.OptionFunc) ([]verifyResult, error) {
	results := make([]verifyResult, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := verifyResult{path: path}
			data, err := os.ReadFile(path)
			if err != nil {
				r.err = fmt.Errorf("read input: %w", err)
				results[i] = r
				return nil
			}
			r.size = uint64(len(data))
			r.summary, err = e.decode(f, data, opts)
			if err != nil {
				r.err = attribute(err, path)
				logger.Debug("verification failed", zap.String("path", path), zap.Error(r.err))
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
