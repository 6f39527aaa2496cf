package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"paramtest-generator/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "config [dir]",
		Short: "Print the configuration a package directory is expanded with",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markSet(cmd, opts)

			p := newPipeline(a, opts, cmd.ErrOrStderr())
			if err := p.loadRootConfig(); err != nil {
				return err
			}

			dir := p.workDir()
			if len(args) == 1 {
				dir = args[0]
				if !filepath.IsAbs(dir) {
					dir = filepath.Join(p.workDir(), dir)
				}
			}

			c, err := p.configFor(dir)
			if err != nil {
				return err
			}

			out, err := config.Marshal(c)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)

			return err
		},
	}

	addOptionFlags(cmd, opts)

	return cmd
}
