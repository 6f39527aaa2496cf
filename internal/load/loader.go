// Package load finds the directive files of Go packages.
package load

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"paramtest-generator/internal/diagnostic"
	"paramtest-generator/internal/directive"
	"paramtest-generator/paramtest"
)

// LoadMode specifies what information to load from packages. Directives are
// read from source, so neither syntax nor types are needed.
const LoadMode = packages.NeedName | packages.NeedFiles

// Loader lists packages with the directive build tag set and parses their
// directive files.
type Loader struct {
	// Dir is the directory patterns are resolved in; empty means the
	// working directory.
	Dir string
	// Tag is the build tag guarding directive files.
	Tag string
	// BuildTags are extra tags passed to the go tool.
	BuildTags []string

	log *zap.Logger
}

// NewLoader creates a Loader for directive files guarded by tag.
func NewLoader(tag string, log *zap.Logger) *Loader {
	if tag == "" {
		tag = paramtest.BuildTag
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Loader{Tag: tag, log: log}
}

// Result is the outcome of a Load.
type Result struct {
	// Files are the directive files, sorted by path.
	Files []*directive.File
	// Sources are the other Go files of the packages, sorted by path. They
	// carry no directives, only their declarations.
	Sources []*directive.File
	// Diagnostics holds the problems found while parsing them.
	Diagnostics *diagnostic.Diagnostics
	// Packages counts the packages that were listed.
	Packages int
}

// Load lists the packages matching patterns, test files included, and parses
// their files. Files importing the directive package become Files, the rest
// Sources.
func (l *Loader) Load(ctx context.Context, patterns ...string) (*Result, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Context:    ctx,
		Mode:       LoadMode,
		Dir:        l.Dir,
		Tests:      true,
		BuildFlags: []string{"-tags=" + strings.Join(append([]string{l.Tag}, l.BuildTags...), ",")},
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	res := &Result{Diagnostics: &diagnostic.Diagnostics{}}

	seen := make(map[string]bool)

	var paths []string

	for _, pkg := range pkgs {
		// The synthesized test main holds no user files.
		if strings.HasSuffix(pkg.ID, ".test") {
			continue
		}

		res.Packages++

		l.log.Debug("listed package", zap.String("id", pkg.ID), zap.Int("files", len(pkg.GoFiles)))

		for _, path := range pkg.GoFiles {
			if !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
		}
	}

	sort.Strings(paths)

	for _, path := range paths {
		f, diags, err := directive.LoadFile(path)
		if err != nil {
			return nil, err
		}

		res.Diagnostics.Merge(diags)

		if f == nil {
			continue
		}

		if !f.IsDirective() {
			res.Sources = append(res.Sources, f)
			continue
		}

		l.log.Debug("found directive file",
			zap.String("file", path),
			zap.Int("generators", len(f.Generators)),
			zap.Int("instances", len(f.Instances)))

		res.Files = append(res.Files, f)
	}

	return res, nil
}
