package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"paramtest-generator/internal/config"
	"paramtest-generator/internal/diagnostic"
	"paramtest-generator/internal/directive"
	"paramtest-generator/internal/gen"
	"paramtest-generator/internal/load"
)

// errDirectives is returned when the directives have errors. The
// diagnostics themselves are printed before.
var errDirectives = errors.New("directives have errors")

// options are the settings shared by gen and check.
type options struct {
	configPath  string
	propagation config.Propagation
	parallel    bool
	tags        []string

	// set when the flag was given on the command line
	propagationSet bool
	parallelSet    bool
}

// pkgDir is the directive files of one package directory with the
// configuration they are expanded with.
type pkgDir struct {
	dir     string
	files   []*directive.File
	sources []*directive.File
	config  *config.Config
	gen    *gen.Generator
}

// pipeline loads directive files and expands them.
type pipeline struct {
	app    *app
	opts   *options
	stderr io.Writer

	root  *config.Config
	cache map[string]*config.Config
}

func newPipeline(a *app, opts *options, stderr io.Writer) *pipeline {
	return &pipeline{app: a, opts: opts, stderr: stderr, cache: make(map[string]*config.Config)}
}

// workDir returns the absolute directory the run is resolved in.
func (p *pipeline) workDir() string {
	dir := p.app.dir
	if dir == "" {
		dir = "."
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}

	return abs
}

// loadRootConfig loads --config, or paramtest.yaml of the working
// directory.
func (p *pipeline) loadRootConfig() error {
	if p.opts.configPath != "" {
		path := p.opts.configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.workDir(), path)
		}

		c, err := config.LoadFile(path)
		if err != nil {
			return err
		}

		p.app.log.Debug("loaded config", zap.String("path", path))
		p.root = c

		return nil
	}

	c, path, err := config.Discover(p.workDir())
	if err != nil {
		return err
	}

	if path != "" {
		p.app.log.Debug("loaded config", zap.String("path", path))
	}

	p.root = c

	return nil
}

// configFor resolves the configuration of a package directory: an explicit
// --config wins, then paramtest.yaml of the directory, then the working
// directory's. Flags override all of them.
func (p *pipeline) configFor(dir string) (*config.Config, error) {
	if c, ok := p.cache[dir]; ok {
		return c, nil
	}

	c := *p.root

	if p.opts.configPath == "" {
		local, path, err := config.Discover(dir)
		if err != nil {
			return nil, err
		}

		if path != "" {
			p.app.log.Debug("loaded package config", zap.String("path", path))

			if local.Tag != p.root.Tag {
				p.app.log.Warn("package config sets a different tag; directive files were loaded with the run's tag",
					zap.String("path", path), zap.String("tag", local.Tag), zap.String("run_tag", p.root.Tag))
			}

			c = *local
			c.Tag = p.root.Tag
		}
	}

	if p.opts.propagationSet {
		c.Propagation = p.opts.propagation
	}

	if p.opts.parallelSet {
		c.Parallel = p.opts.parallel
	}

	p.cache[dir] = &c

	return &c, nil
}

// prepare loads the directive files matching patterns and validates them.
// Diagnostics are printed; any error among them fails the whole run.
func (p *pipeline) prepare(ctx context.Context, patterns []string) ([]*pkgDir, error) {
	if err := p.loadRootConfig(); err != nil {
		return nil, err
	}

	loader := load.NewLoader(p.root.Tag, p.app.log)
	loader.Dir = p.app.dir
	loader.BuildTags = p.opts.tags

	res, err := loader.Load(ctx, patterns...)
	if err != nil {
		return nil, err
	}

	p.app.log.Debug("loaded directives",
		zap.Int("packages", res.Packages), zap.Int("files", len(res.Files)))

	diags := &diagnostic.Diagnostics{}
	diags.Merge(res.Diagnostics)

	dirs, err := p.group(res.Files, res.Sources)
	if err != nil {
		return nil, err
	}

	for _, d := range dirs {
		diags.Merge(directive.Link(d.files))
		diags.Merge(d.gen.Check(d.files))
	}

	printDiagnostics(p.stderr, diags, p.workDir())

	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %d error(s)", errDirectives, len(diags.Errors))
	}

	return dirs, nil
}

// group splits files by directory, sorted. Sources are attached to the
// directories holding directive files.
func (p *pipeline) group(files, sources []*directive.File) ([]*pkgDir, error) {
	byDir := make(map[string]*pkgDir)

	var order []string

	for _, f := range files {
		dir := f.Dir()

		d, ok := byDir[dir]
		if !ok {
			c, err := p.configFor(dir)
			if err != nil {
				return nil, err
			}

			d = &pkgDir{dir: dir, config: c, gen: gen.NewGenerator(gen.ConfigFrom(c))}
			byDir[dir] = d
			order = append(order, dir)
		}

		d.files = append(d.files, f)
	}

	for _, f := range sources {
		if d, ok := byDir[f.Dir()]; ok {
			d.sources = append(d.sources, f)
		}
	}

	sort.Strings(order)

	out := make([]*pkgDir, 0, len(order))
	for _, dir := range order {
		d := byDir[dir]
		d.gen.SetSources(d.sources)
		out = append(out, d)
	}

	return out, nil
}

// generate expands every prepared directory.
func (p *pipeline) generate(dirs []*pkgDir) ([]gen.GeneratedFile, error) {
	var out []gen.GeneratedFile

	for _, d := range dirs {
		files, err := d.gen.Generate(d.files)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.rel(d.dir), err)
		}

		p.app.log.Debug("expanded package",
			zap.String("dir", p.rel(d.dir)),
			zap.Stringer("policy", gen.PolicyFor(d.config.Propagation.Enabled())),
			zap.Int("files", len(files)))

		out = append(out, files...)
	}

	return out, nil
}

// rel shortens path for output.
func (p *pipeline) rel(path string) string {
	return relTo(p.workDir(), path)
}

func relTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}

	return rel
}

// printDiagnostics writes errors and warnings, one per line, with file
// names relative to base.
func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics, base string) {
	for _, d := range diags.All() {
		if d.Pos.Filename != "" {
			d.Pos.Filename = relTo(base, d.Pos.Filename)
		}

		_, _ = fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
}
