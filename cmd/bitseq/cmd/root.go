package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/bitseq/config"
)

var (
	// Version is the version of the binary.
	Version = "0.0.0"

	// Commit is the commit hash of the binary.
	Commit = ""
)

const envPrefix = "BITSEQ"

var (
	cfgFile     string
	logLevel    string
	printConfig bool

	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bitseq",
	Short: "Encode, decode and verify serialized bit sequences",
	Long: `bitseq reads and writes bit sequences in the BitSeq wire protocol.
A sequence is stored as its bit order, the head of its first bit, its length in bits
and the storage words that cover it. Supported formats are json, yaml, xdr, scale and raw.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if printConfig {
			spew.Fdump(cmd.OutOrStdout(), cfg)
			return nil
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	def := config.DefaultConfig()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "path to a configuration file (yaml, json or toml)")
	flags.StringVar(&logLevel, "log-level", zapcore.InfoLevel.String(), "log level (debug, info, warn, error, dpanic, panic, fatal)")

	flags.String("format", def.Format, "wire format (json, yaml, xdr, scale, raw)")
	flags.String("order", def.Order, "bit order of the storage words (lsb0, msb0)")
	flags.Uint("word-width", def.WordWidth, "bit width of the storage words (8, 16, 32, 64)")
	flags.Uint64("max-bits", def.MaxBits, "largest accepted sequence, in bits")
	flags.Bool("borrow", def.Borrow, "decode 8-bit sequences as views into the input when the format allows it")
	flags.Int("workers", def.Workers, "number of inputs verified concurrently")

	rootCmd.Flags().BoolVar(&printConfig, "print-config", false, "print the used config and exit")
}

// setup loads the config from defaults, the config file, the environment and
// the flags, in increasing priority, and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	vip := viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	if err := vip.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if cfgFile != "" {
		vip.SetConfigFile(cfgFile)
		if err := vip.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	loaded := config.DefaultConfig()
	if err := vip.Unmarshal(loaded); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	l, err := buildLogger(logLevel)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(lvl),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zapCfg.Build()
}
