package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paramtest-generator/internal/gen"
)

// addOptionFlags registers the flags shared by gen and check.
func addOptionFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file (default: paramtest.yaml of each package, then of the working directory)")
	cmd.Flags().Var(&opts.propagation, "propagation", "Result handling of bodies: off (no results) or on (bodies return error)")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Make every generated case call t.Parallel")
	cmd.Flags().StringSliceVar(&opts.tags, "tags", nil, "Additional build tags to list packages with")
}

// markSet records which option flags were given explicitly.
func markSet(cmd *cobra.Command, opts *options) {
	opts.propagationSet = cmd.Flags().Changed("propagation")
	opts.parallelSet = cmd.Flags().Changed("parallel")
}

func newGenCommand(a *app) *cobra.Command {
	opts := &options{}

	var (
		dryRun bool
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "gen [packages]",
		Short: "Expand directive files into tests",
		Long: `Expand directive files into tests.

Packages are listed with the go tool, test files included and the directive
build tag set. Every directive file with Cases directives gets a generated
file next to it. Generated files whose directives are gone are removed.
Nothing is written when any directive has an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			markSet(cmd, opts)

			p := newPipeline(a, opts, cmd.ErrOrStderr())

			dirs, err := p.prepare(cmd.Context(), args)
			if err != nil {
				return err
			}

			files, err := p.generate(dirs)
			if err != nil {
				return err
			}

			if dryRun {
				return printFiles(cmd.OutOrStdout(), p, files)
			}

			if err := gen.WriteFiles(files, outDir); err != nil {
				return err
			}

			for _, f := range files {
				a.log.Info("generated", zap.String("file", p.rel(f.Path())))
			}

			if outDir != "" {
				return nil
			}

			for _, d := range dirs {
				removed, err := d.gen.RemoveStale(d.files, files)
				if err != nil {
					return err
				}

				for _, path := range removed {
					a.log.Info("removed stale file", zap.String("file", p.rel(path)))
				}
			}

			return nil
		},
	}

	addOptionFlags(cmd, opts)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the generated files instead of writing them")
	cmd.Flags().StringVar(&outDir, "out", "", "Write every generated file to this directory instead of next to its directive file")

	return cmd
}

// printFiles writes files to w, each after a header line with its path.
func printFiles(w io.Writer, p *pipeline, files []gen.GeneratedFile) error {
	for _, f := range files {
		if _, err := fmt.Fprintf(w, "=== %s ===\n%s", p.rel(f.Path()), f.Content); err != nil {
			return err
		}
	}

	return nil
}
