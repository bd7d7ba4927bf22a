package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/oy3o/ebml"
	"github.com/oy3o/ebml/objects"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const flagVerbose = "verbose"

var (
	logger   = zap.NewNop()
	registry = ebml.NewRegistry()
)

var rootCmd = &cobra.Command{
	Use:           "ebmltool",
	Short:         "Inspects and creates EBML container files.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetBool(flagVerbose)
		if err != nil {
			return err
		}
		l, err := newLogger(verbose, isatty.IsTerminal(os.Stderr.Fd()))
		if err != nil {
			return err
		}
		logger = l
		ebml.SetLogger(l)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	if err := objects.Register(registry); err != nil {
		panic(err)
	}
	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "Log debug output to stderr.")
}

// newLogger logs warnings by default and everything when verbose. Terminals get
// the console encoding, anything else JSON lines.
func newLogger(verbose, terminal bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if terminal {
		cfg.Encoding = "console"
	} else {
		cfg.Encoding = "json"
	}
	return cfg.Build()
}
