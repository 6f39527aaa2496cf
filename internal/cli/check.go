package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paramtest-generator/internal/gen"
)

func newCheckCommand(a *app) *cobra.Command {
	opts := &options{}

	var verify bool

	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Validate directive files without writing",
		Long: `Validate directive files without writing.

With --verify, the generated files are also expanded and compared with the
files on disk, so a forgotten go generate fails the check. Generated files
that gen would remove count as out of date too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			markSet(cmd, opts)

			p := newPipeline(a, opts, cmd.ErrOrStderr())

			dirs, err := p.prepare(cmd.Context(), args)
			if err != nil {
				return err
			}

			// Expanding finds the problems only visible in the output, such as
			// import conflicts.
			files, err := p.generate(dirs)
			if err != nil {
				return err
			}

			if !verify {
				a.log.Info("directives are valid", zap.Int("packages", len(dirs)))
				return nil
			}

			stale, err := p.verify(dirs, files)
			if err != nil {
				return err
			}

			for _, path := range stale {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "stale: %s\n", path)
			}

			if len(stale) > 0 {
				return fmt.Errorf("%d generated file(s) out of date; run paramtest-gen gen", len(stale))
			}

			a.log.Info("generated files are up to date", zap.Int("files", len(files)))

			return nil
		},
	}

	addOptionFlags(cmd, opts)
	cmd.Flags().BoolVar(&verify, "verify", false, "Also check that generated files on disk are up to date")

	return cmd
}

// verify lists the generated files that differ from the disk or are missing,
// followed by the files gen would remove.
func (p *pipeline) verify(dirs []*pkgDir, files []gen.GeneratedFile) ([]string, error) {
	var stale []string

	for _, f := range files {
		ok, err := upToDate(f)
		if err != nil {
			return nil, err
		}

		if !ok {
			stale = append(stale, p.rel(f.Path()))
		}
	}

	for _, d := range dirs {
		leftover, err := d.gen.Stale(d.files, files)
		if err != nil {
			return nil, err
		}

		for _, path := range leftover {
			stale = append(stale, p.rel(path))
		}
	}

	return stale, nil
}

// upToDate reports whether f matches the file on disk.
func upToDate(f gen.GeneratedFile) (bool, error) {
	content, err := os.ReadFile(f.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("reading %s: %w", f.Path(), err)
	}

	return bytes.Equal(content, f.Content), nil
}
