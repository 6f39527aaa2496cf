package directive

import (
	"fmt"

	"paramtest-generator/internal/diagnostic"
	"paramtest-generator/internal/match"
)

type pkgKey struct {
	dir string
	pkg string
}

// Link resolves every instance against the generators declared in the same
// package (same directory and package clause) and reports instances of
// unknown generators, generators instantiated twice, and generators never
// instantiated.
func Link(files []*File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	generators := make(map[pkgKey]map[string]*Generator)

	for _, f := range files {
		key := pkgKey{dir: f.Dir(), pkg: f.Package}
		if generators[key] == nil {
			generators[key] = make(map[string]*Generator)
		}

		for _, g := range f.Generators {
			if prev, ok := generators[key][g.Name]; ok {
				res.AddError("duplicate_generator",
					fmt.Sprintf("generator %s redeclared, first declared at %s", g.Name, prev.Pos), g.Name, g.Pos)
				continue
			}

			generators[key][g.Name] = g
		}
	}

	used := make(map[*Generator]*Instance)

	for _, f := range files {
		key := pkgKey{dir: f.Dir(), pkg: f.Package}

		for _, inst := range f.Instances {
			g, ok := generators[key][inst.GeneratorName]
			if !ok {
				msg := fmt.Sprintf("%s is not declared with Create in package %s", inst.GeneratorName, f.Package)
				if near, ok := match.Closest(inst.GeneratorName, names(generators[key])); ok {
					msg += fmt.Sprintf("; did you mean %s?", near)
				}

				res.AddError("unknown_generator", msg, inst.GeneratorName, inst.Pos)
				continue
			}

			if prev, ok := used[g]; ok {
				res.AddError("duplicate_instance",
					fmt.Sprintf("generator %s already instantiated at %s", g.Name, prev.Pos), g.Name, inst.Pos)
				continue
			}

			used[g] = inst
			inst.Generator = g
		}
	}

	for _, f := range files {
		key := pkgKey{dir: f.Dir(), pkg: f.Package}

		for _, g := range f.Generators {
			// redeclarations are already errors
			if generators[key][g.Name] != g {
				continue
			}

			if _, ok := used[g]; !ok {
				res.AddWarning("generator_unused",
					fmt.Sprintf("generator %s is never instantiated with Cases", g.Name), g.Name, g.Pos)
			}
		}
	}

	return res
}

func names(generators map[string]*Generator) []string {
	out := make([]string, 0, len(generators))
	for name := range generators {
		out = append(out, name)
	}

	return out
}
