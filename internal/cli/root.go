// Package cli implements the paramtest-gen command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paramtest-generator/internal/logger"
)

const version = "0.1.0"

// Execute runs the CLI
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}

// app holds what every subcommand shares.
type app struct {
	dir     string
	verbose bool
	log     *zap.Logger
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "paramtest-gen",
		Short: "paramtest-gen - expands parameterized test directives into Go tests",
		Long: `paramtest-gen - expands parameterized test directives into Go tests

Directive files are test files guarded by the paramtest build tag. Each
paramtest.Create declares a generator: a test body over a binding pattern.
Each Cases directive expands it into a Test<Generator> container with one
subtest per named case, written to <file>_paramtest_test.go.

Examples:
  paramtest-gen gen ./...
  paramtest-gen gen --propagation on ./parser
  paramtest-gen check --verify ./...`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := logger.ConfigFromEnv()
			if a.verbose {
				cfg.Level = logger.DebugLevel
			}

			log, err := logger.New(cfg, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}

			a.log = log

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	cmd.SetVersionTemplate("paramtest-gen version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&a.dir, "dir", "C", "", "Run as if started in this directory")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Log debug output")

	cmd.AddCommand(
		newGenCommand(a),
		newCheckCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "paramtest-gen version "+version)
			return err
		},
	}
}
