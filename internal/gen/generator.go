package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"path/filepath"
	"strings"

	"paramtest-generator/internal/config"
	"paramtest-generator/internal/diagnostic"
	"paramtest-generator/internal/directive"
	"paramtest-generator/paramtest"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Policy is the result-handling policy of every generated test.
	Policy Policy
	// Parallel makes every generated case call t.Parallel.
	Parallel bool
	// Suffix replaces ".go" (and "_test.go") of the directive file to name
	// the generated file.
	Suffix string
	// Tag is the build tag guarding directive files; generated files are
	// built without it.
	Tag string
	// DebugDir receives unformatted sources when formatting fails. Defaults
	// to the directive file's directory.
	DebugDir string
	// Exports lists the exported names of an imported package, for deciding
	// whether a dot import is used. Defaults to LoadExports.
	Exports func(dir, path string) (map[string]bool, error)
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Policy: PolicyDirect,
		Suffix: "_paramtest_test.go",
		Tag:    paramtest.BuildTag,
	}
}

// ConfigFrom translates a loaded configuration into a generator
// configuration.
func ConfigFrom(c *config.Config) GeneratorConfig {
	gc := DefaultGeneratorConfig()
	gc.Policy = PolicyFor(c.Propagation.Enabled())
	gc.Parallel = c.Parallel

	if c.Suffix != "" {
		gc.Suffix = c.Suffix
	}

	if c.Tag != "" {
		gc.Tag = c.Tag
	}

	return gc
}

// Generator expands directive files into test files.
type Generator struct {
	config  GeneratorConfig
	sources []*directive.File
	exports map[string]map[string]bool
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config, exports: make(map[string]map[string]bool)}
}

// SetSources sets the other Go files of the package, the ones without
// directives. Generated names are checked against their declarations and
// generated files never overwrite them.
func (g *Generator) SetSources(files []*directive.File) {
	g.sources = files
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the directory of the directive file it was generated from.
	Dir string
	// Filename is the name of the file (e.g., "cases_paramtest_test.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Path returns Dir joined with Filename.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// OutputName returns the name of the file generated for a directive file.
func (g *Generator) OutputName(f *directive.File) string {
	base := strings.TrimSuffix(filepath.Base(f.Filename), ".go")
	base = strings.TrimSuffix(base, "_test")

	return base + g.config.Suffix
}

// Check validates the generators against the configured policy, and the
// generated file and function names against each other and the package.
func (g *Generator) Check(files []*directive.File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	for _, f := range files {
		for _, gen := range f.Generators {
			if err := g.config.Policy.check(gen); err != nil {
				res.AddError("body_results", err.Error(), gen.Name, gen.Pos)
			}
		}
	}

	g.checkOutputs(files, res)
	g.checkNames(files, res)

	return res
}

// checkOutputs reports directive files whose generated files would overwrite
// each other or a file of the package.
func (g *Generator) checkOutputs(files []*directive.File, res *diagnostic.Diagnostics) {
	inputs := make(map[string]bool, len(files)+len(g.sources))

	for _, list := range [][]*directive.File{files, g.sources} {
		for _, f := range list {
			inputs[f.Filename] = true
		}
	}

	outputs := make(map[string]*directive.File)

	for _, f := range files {
		if len(f.Instances) == 0 {
			continue
		}

		inst := f.Instances[0]
		path := filepath.Join(f.Dir(), g.OutputName(f))

		if inputs[path] {
			res.AddError("output_collision",
				fmt.Sprintf("generated file %s would overwrite a source file", filepath.Base(path)),
				inst.GeneratorName, inst.Pos)

			continue
		}

		if prev, ok := outputs[path]; ok {
			res.AddError("output_collision",
				fmt.Sprintf("generated file %s is also generated for %s", filepath.Base(path), prev.Instances[0].Pos),
				inst.GeneratorName, inst.Pos)

			continue
		}

		outputs[path] = f
	}
}

// checkNames reports generated functions whose names clash with each other
// or with a package-level declaration of the package.
func (g *Generator) checkNames(files []*directive.File, res *diagnostic.Diagnostics) {
	type origin struct {
		what string
		pos  token.Position
	}

	byPackage := make(map[string]map[string]origin)

	names := func(pkg string) map[string]origin {
		m, ok := byPackage[pkg]
		if !ok {
			m = make(map[string]origin)
			byPackage[pkg] = m
		}

		return m
	}

	for _, src := range g.sources {
		declared := names(src.Package)

		for _, d := range src.Decls {
			if _, ok := declared[d.Name]; !ok {
				declared[d.Name] = origin{what: "declaration", pos: d.Pos}
			}
		}
	}

	// A second instance of a generator is a duplicate_instance error already.
	instantiated := make(map[string]bool)

	for _, f := range files {
		declared := names(f.Package)

		for _, inst := range f.Instances {
			key := f.Package + "." + inst.GeneratorName
			if instantiated[key] {
				continue
			}

			instantiated[key] = true

			claim := func(name, what string, pos token.Position) {
				if prev, ok := declared[name]; ok {
					res.AddError("name_collision",
						fmt.Sprintf("generated %s %s collides with the %s at %s", what, name, prev.what, prev.pos),
						inst.GeneratorName, pos)

					return
				}

				declared[name] = origin{what: what + " generated", pos: pos}
			}

			claim(testName(inst.GeneratorName), "test", inst.Pos)

			for _, e := range inst.Entries {
				claim(caseFunc(inst.GeneratorName, e.Name), "function", e.Pos)
			}
		}
	}
}

// Generate links the directive files and generates one file for each file
// holding at least one instance. Any error diagnostic aborts generation as a
// whole, so a run either writes every file or none.
func (g *Generator) Generate(files []*directive.File) ([]GeneratedFile, error) {
	res := directive.Link(files)
	res.Merge(g.Check(files))

	if err := res.Error(); err != nil {
		return nil, err
	}

	var out []GeneratedFile

	for _, f := range files {
		if len(f.Instances) == 0 {
			continue
		}

		file, err := g.generateFile(f, res)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", f.Filename, err)
		}

		out = append(out, *file)
	}

	if err := res.Error(); err != nil {
		return nil, err
	}

	return out, nil
}

// generateFile expands every instance of f into a single file. Problems with
// the imports are added to res.
func (g *Generator) generateFile(f *directive.File, res *diagnostic.Diagnostics) (*GeneratedFile, error) {
	filename := g.OutputName(f)

	var (
		decls  []string
		scopes []*importScope
	)

	scopeOf := make(map[*directive.File]*importScope)

	scope := func(file *directive.File, generator string, pos token.Position) *importScope {
		s, ok := scopeOf[file]
		if !ok {
			s = &importScope{file: file, refs: newRefs(), generator: generator, pos: pos}
			scopeOf[file] = s
			scopes = append(scopes, s)
		}

		return s
	}

	for _, inst := range f.Instances {
		values := scope(f, inst.GeneratorName, inst.Pos)
		body := scope(inst.Generator.File, inst.Generator.Name, inst.Generator.Pos)

		def, err := Define(inst.Generator, g.config)
		if err != nil {
			return nil, err
		}

		expanded, err := def.Expand(inst.Entries)
		if err != nil {
			return nil, err
		}

		decls = append(decls, strings.TrimSpace(string(expanded)))

		if err := body.refs.add(inst.Generator.Body); err != nil {
			return nil, err
		}

		for _, e := range inst.Entries {
			if err := values.refs.add(e.Values...); err != nil {
				return nil, err
			}
		}
	}

	data := &fileData{
		Tag:          g.config.Tag,
		PackageName:  f.Package,
		ImportGroups: groupImports(selectImports(scopes, g.exported, res)),
		Decls:        decls,
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort: write unformatted code to a sidecar file to aid debugging.
		g.debug(f, filename, buf.Bytes())

		return nil, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Dir:      f.Dir(),
		Filename: filename,
		Content:  formatted,
	}, nil
}

func (g *Generator) debug(f *directive.File, filename string, content []byte) {
	dir := g.config.DebugDir
	if dir == "" {
		dir = f.Dir()
	}

	_ = writeDebugUnformatted(dir, filename, content)
}
