package gen

import (
	"fmt"
	"go/token"

	"golang.org/x/tools/go/packages"
)

// exportsLoadMode loads a package's type information, read from export data.
const exportsLoadMode = packages.NeedName | packages.NeedTypes

// LoadExports lists the exported package-level names of the package path,
// resolved from dir with the go tool.
func LoadExports(dir, path string) (map[string]bool, error) {
	pkgs, err := packages.Load(&packages.Config{Mode: exportsLoadMode, Dir: dir}, path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if len(pkgs) != 1 {
		return nil, fmt.Errorf("loading %s: got %d packages", path, len(pkgs))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("loading %s: %v", path, pkg.Errors[0])
	}

	if pkg.Types == nil {
		return nil, fmt.Errorf("loading %s: no type information", path)
	}

	names := make(map[string]bool)

	for _, name := range pkg.Types.Scope().Names() {
		if token.IsExported(name) {
			names[name] = true
		}
	}

	return names, nil
}

// exported returns the exports of path as seen from dir, loading each
// package once.
func (g *Generator) exported(dir, path string) (map[string]bool, error) {
	key := dir + "\x00" + path

	if names, ok := g.exports[key]; ok {
		return names, nil
	}

	load := g.config.Exports
	if load == nil {
		load = LoadExports
	}

	names, err := load(dir, path)
	if err != nil {
		return nil, err
	}

	g.exports[key] = names

	return names, nil
}
