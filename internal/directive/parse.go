package directive

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"os"
	"strconv"

	"paramtest-generator/internal/common"
	"paramtest-generator/internal/diagnostic"
	"paramtest-generator/paramtest"
)

// LoadFile reads and parses a directive file from the given path.
func LoadFile(path string) (*File, *diagnostic.Diagnostics, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directive file %s: %w", path, err)
	}

	f, res := ParseFile(path, src)

	return f, res, nil
}

// ParseFile parses src and extracts its directives. A file that does not
// import the directive package yields a File without directives. The
// returned File is nil only if src is not valid Go.
func ParseFile(filename string, src []byte) (*File, *diagnostic.Diagnostics) {
	res := &diagnostic.Diagnostics{}

	fset := token.NewFileSet()

	astFile, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		pos := token.Position{Filename: filename}

		var list scanner.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			pos = list[0].Pos
		}

		res.AddError("parse_error", err.Error(), "", pos)

		return nil, res
	}

	p := &fileParser{
		fset: fset,
		src:  src,
		res:  res,
		file: &File{
			Filename: filename,
			Package:  astFile.Name.Name,
		},
	}

	p.collectImports(astFile)
	p.collectDecls(astFile)

	if !p.file.IsDirective() {
		return p.file, res
	}

	for _, decl := range astFile.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.VAR {
			continue
		}

		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			for i, value := range vs.Values {
				var name *ast.Ident
				if len(vs.Names) == len(vs.Values) {
					name = vs.Names[i]
				}

				p.parseValue(name, value)
			}
		}
	}

	return p.file, res
}

type fileParser struct {
	fset *token.FileSet
	src  []byte
	res  *diagnostic.Diagnostics
	file *File

	// testingName is the name the testing package is imported under.
	testingName string
}

func (p *fileParser) collectImports(f *ast.File) {
	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		imp := Import{Path: path}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}

		p.file.Imports = append(p.file.Imports, imp)

		local := imp.Name
		if local == "" {
			local = common.ImportName(path)
		}

		switch path {
		case paramtest.ImportPath:
			p.file.LocalName = local
		case "testing":
			p.testingName = local
		}
	}
}

func (p *fileParser) collectDecls(f *ast.File) {
	add := func(id *ast.Ident) {
		if id.Name == "_" || id.Name == "init" {
			return
		}

		p.file.Decls = append(p.file.Decls, Decl{Name: id.Name, Pos: p.position(id)})
	}

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				add(d.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					for _, id := range s.Names {
						add(id)
					}
				case *ast.TypeSpec:
					add(s.Name)
				}
			}
		}
	}
}

func (p *fileParser) parseValue(name *ast.Ident, value ast.Expr) {
	call, ok := value.(*ast.CallExpr)
	if !ok {
		return
	}

	if p.isDirective(call.Fun, "Create") {
		p.parseCreate(name, call)
		return
	}

	if sel, ok := call.Fun.(*ast.SelectorExpr); ok && sel.Sel.Name == "Cases" {
		if recv, ok := sel.X.(*ast.Ident); ok {
			p.parseCases(recv, call)
		}
	}
}

// isDirective reports whether fun refers to the directive function fn.
func (p *fileParser) isDirective(fun ast.Expr, fn string) bool {
	if p.file.LocalName == "." {
		id, ok := fun.(*ast.Ident)
		return ok && id.Name == fn
	}

	sel, ok := fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != fn {
		return false
	}

	x, ok := sel.X.(*ast.Ident)

	return ok && x.Name == p.file.LocalName
}

func (p *fileParser) parseCreate(name *ast.Ident, call *ast.CallExpr) {
	pos := p.position(call)

	if name == nil {
		p.res.AddError("create_unassigned",
			"Create must be assigned to its own package-level variable", "", pos)
		return
	}

	if name.Name == "_" {
		p.res.AddError("generator_blank_name",
			"Create must be assigned to a named variable; the name names the generated test", "", pos)
		return
	}

	if len(call.Args) != 1 {
		p.res.AddError("create_arity",
			fmt.Sprintf("Create takes exactly one function literal, got %d arguments", len(call.Args)), name.Name, pos)
		return
	}

	lit, ok := call.Args[0].(*ast.FuncLit)
	if !ok {
		p.res.AddError("create_not_func_literal",
			"the body passed to Create must be a function literal", name.Name, p.position(call.Args[0]))
		return
	}

	g := &Generator{
		Name: name.Name,
		Pos:  pos,
		Body: p.text(lit),
		File: p.file,
	}

	params := p.fields(lit.Type.Params)
	if first, ok := common.First(lit.Type.Params.List); ok && p.isTestingT(first.Type) {
		g.HasT = true
		if params[0].Name != "_" {
			g.TParam = params[0].Name
		}

		params = params[1:]
	}

	g.Pattern = params

	for _, r := range p.fields(lit.Type.Results) {
		g.Results = append(g.Results, r.Type)
	}

	p.file.Generators = append(p.file.Generators, g)
}

func (p *fileParser) parseCases(recv *ast.Ident, call *ast.CallExpr) {
	inst := &Instance{
		GeneratorName: recv.Name,
		Pos:           p.position(call),
		File:          p.file,
	}

	seen := make(map[string]token.Position)

	for _, arg := range call.Args {
		c, ok := arg.(*ast.CallExpr)
		if !ok || !p.isDirective(c.Fun, "Case") {
			p.res.AddError("case_not_directive",
				"arguments of Cases must be Case directives", recv.Name, p.position(arg))
			continue
		}

		entry, ok := p.parseEntry(recv.Name, c)
		if !ok {
			continue
		}

		if first, dup := seen[entry.Name]; dup {
			p.res.AddError("duplicate_case",
				fmt.Sprintf("duplicate case %q, first declared at %s", entry.Name, first), recv.Name, entry.Pos)
			continue
		}

		seen[entry.Name] = entry.Pos
		inst.Entries = append(inst.Entries, entry)
	}

	if call.Ellipsis.IsValid() {
		p.res.AddError("case_spread", "cases cannot be spread from a slice", recv.Name, inst.Pos)
	}

	p.file.Instances = append(p.file.Instances, inst)
}

func (p *fileParser) parseEntry(generator string, c *ast.CallExpr) (Entry, bool) {
	pos := p.position(c)

	if len(c.Args) == 0 {
		p.res.AddError("case_name_missing", "Case needs a name", generator, pos)
		return Entry{}, false
	}

	lit, ok := c.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		p.res.AddError("case_name_not_literal", "case name must be a string literal", generator, p.position(c.Args[0]))
		return Entry{}, false
	}

	name, err := strconv.Unquote(lit.Value)
	if err != nil || !token.IsIdentifier(name) || name == "_" {
		p.res.AddError("case_name_not_identifier",
			fmt.Sprintf("case name %s is not a Go identifier", lit.Value), generator, p.position(lit))
		return Entry{}, false
	}

	if c.Ellipsis.IsValid() {
		p.res.AddError("case_spread", "case values cannot be spread from a slice", generator, pos)
		return Entry{}, false
	}

	entry := Entry{Name: name, Pos: pos}
	for _, v := range c.Args[1:] {
		entry.Values = append(entry.Values, p.text(v))
	}

	return entry, true
}

// fields flattens a field list into one Param per declared name.
func (p *fileParser) fields(list *ast.FieldList) []Param {
	if list == nil {
		return nil
	}

	var out []Param

	for _, field := range list.List {
		typ := p.text(field.Type)
		if len(field.Names) == 0 {
			out = append(out, Param{Type: typ})
			continue
		}

		for _, n := range field.Names {
			out = append(out, Param{Name: n.Name, Type: typ})
		}
	}

	return out
}

func (p *fileParser) isTestingT(expr ast.Expr) bool {
	if p.testingName == "" {
		return false
	}

	star, ok := expr.(*ast.StarExpr)
	if !ok {
		return false
	}

	if p.testingName == "." {
		id, ok := star.X.(*ast.Ident)
		return ok && id.Name == "T"
	}

	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "T" {
		return false
	}

	x, ok := sel.X.(*ast.Ident)

	return ok && x.Name == p.testingName
}

func (p *fileParser) position(n ast.Node) token.Position {
	return p.fset.Position(n.Pos())
}

// text returns the source of n as written.
func (p *fileParser) text(n ast.Node) string {
	start := p.fset.Position(n.Pos()).Offset
	end := p.fset.Position(n.End()).Offset

	return string(p.src[start:end])
}
