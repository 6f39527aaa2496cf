package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"paramtest-generator/internal/directive"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// generatedHeader starts every file the generator writes.
var generatedHeader = []byte("// Code generated by paramtest-gen. DO NOT EDIT.")

// WriteFiles writes all generated files. Each file goes next to its
// directive file unless outputDir is set.
// It creates the directory if it doesn't exist.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	for _, file := range files {
		dir := file.Dir
		if outputDir != "" {
			dir = outputDir
		}

		err := os.MkdirAll(dir, dirPerm)
		if err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		err = os.WriteFile(filepath.Join(dir, file.Filename), file.Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}

// Stale lists files generated earlier for directive files that no longer
// produce output, e.g. after their last Cases directive was removed. Only
// files carrying the generated header are listed.
func (g *Generator) Stale(files []*directive.File, generated []GeneratedFile) ([]string, error) {
	keep := make(map[string]bool, len(generated))
	for _, f := range generated {
		keep[f.Path()] = true
	}

	var stale []string

	for _, f := range files {
		path := filepath.Join(f.Dir(), g.OutputName(f))
		if keep[path] {
			continue
		}

		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		if bytes.HasPrefix(content, generatedHeader) {
			stale = append(stale, path)
		}
	}

	return stale, nil
}

// RemoveStale deletes the files Stale lists. It returns the removed paths.
func (g *Generator) RemoveStale(files []*directive.File, generated []GeneratedFile) ([]string, error) {
	stale, err := g.Stale(files, generated)
	if err != nil {
		return nil, err
	}

	var removed []string

	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}

		removed = append(removed, path)
	}

	return removed, nil
}
