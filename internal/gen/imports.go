package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"

	"paramtest-generator/internal/common"
	"paramtest-generator/internal/diagnostic"
	"paramtest-generator/internal/directive"
	"paramtest-generator/paramtest"
)

// importSpec represents an import statement.
type importSpec struct {
	Name string
	Path string
}

// refs records what a piece of Go code refers to.
type refs struct {
	// qualifiers are identifiers used as the left side of a selector, which
	// covers every package reference.
	qualifiers map[string]bool
	// idents are the identifiers other than selected members; a dot import
	// is used when one of them is a name it exports.
	idents map[string]bool
}

func newRefs() *refs {
	return &refs{qualifiers: make(map[string]bool), idents: make(map[string]bool)}
}

// add records the references made by the expressions in exprs.
func (r *refs) add(exprs ...string) error {
	var visit func(n ast.Node) bool

	visit = func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.SelectorExpr:
			if id, ok := n.X.(*ast.Ident); ok {
				r.qualifiers[id.Name] = true
			}

			ast.Inspect(n.X, visit)

			return false
		case *ast.Ident:
			r.idents[n.Name] = true
		}

		return true
	}

	for _, src := range exprs {
		expr, err := parser.ParseExpr(src)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", src, err)
		}

		ast.Inspect(expr, visit)
	}

	return nil
}

// hasExported reports whether any ident could name an exported declaration.
func (r *refs) hasExported() bool {
	for name := range r.idents {
		if token.IsExported(name) {
			return true
		}
	}

	return false
}

// importScope is a directive file together with the references made by the
// code copied from it. Those references resolve against its imports only.
type importScope struct {
	file *directive.File
	refs *refs

	// generator and pos locate the copied code in diagnostics.
	generator string
	pos       token.Position
}

// exportsFunc lists the exported names of the package path as imported from
// dir.
type exportsFunc func(dir, path string) (map[string]bool, error)

// selectImports keeps the imports each scope's code refers to. The directive
// package is always dropped and blank imports are always kept. A dot import
// is kept when the code uses a name the package exports; if the exports
// cannot be listed it is kept, and the compiler reports the import. testing
// is always imported for the generated signatures.
//
// Two scopes that use one local name for different packages cannot share a
// file; that is reported as import_conflict.
func selectImports(scopes []*importScope, exported exportsFunc, res *diagnostic.Diagnostics) []importSpec {
	type origin struct {
		spec  importSpec
		scope *importScope
	}

	testing := importSpec{Path: "testing"}

	byName := map[string]origin{"testing": {spec: testing}}
	seen := map[importSpec]bool{testing: true}
	out := []importSpec{testing}

	add := func(spec importSpec) {
		if !seen[spec] {
			seen[spec] = true
			out = append(out, spec)
		}
	}

	for _, s := range scopes {
		for _, imp := range s.file.Imports {
			if imp.Path == paramtest.ImportPath {
				continue
			}

			spec := importSpec{Name: imp.Name, Path: imp.Path}

			name := imp.Name
			if name == "" {
				name = common.ImportName(imp.Path)
			}

			switch name {
			case "_":
				add(spec)
			case ".":
				if usesDotImport(s, imp.Path, exported) {
					add(spec)
				}
			default:
				if !s.refs.qualifiers[name] {
					continue
				}

				prev, ok := byName[name]
				if !ok {
					byName[name] = origin{spec: spec, scope: s}
					add(spec)

					continue
				}

				if prev.spec.Path == spec.Path {
					continue
				}

				if prev.scope == nil {
					res.AddError("import_conflict",
						fmt.Sprintf("%s refers to %q, but generated tests need it for %q", name, spec.Path, prev.spec.Path),
						s.generator, s.pos)

					continue
				}

				res.AddError("import_conflict",
					fmt.Sprintf("%s refers to %q, but to %q in the code from %s", name, spec.Path, prev.spec.Path, prev.scope.pos),
					s.generator, s.pos)
			}
		}
	}

	return out
}

func usesDotImport(s *importScope, path string, exported exportsFunc) bool {
	if !s.refs.hasExported() {
		return false
	}

	names, err := exported(s.file.Dir(), path)
	if err != nil {
		return true
	}

	for name := range s.refs.idents {
		if names[name] {
			return true
		}
	}

	return false
}

// groupImports splits imports into standard library and the rest, each
// sorted by path.
func groupImports(specs []importSpec) [][]importSpec {
	var std, other []importSpec

	for _, s := range specs {
		if common.IsStdlib(s.Path) {
			std = append(std, s)
		} else {
			other = append(other, s)
		}
	}

	var groups [][]importSpec

	for _, group := range [][]importSpec{std, other} {
		if len(group) == 0 {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			if group[i].Path != group[j].Path {
				return group[i].Path < group[j].Path
			}

			return group[i].Name < group[j].Name
		})

		groups = append(groups, group)
	}

	return groups
}
