package directive

import (
	"go/token"
	"path/filepath"
)

// File is a parsed directive file.
type File struct {
	// Filename is the path the file was read from.
	Filename string
	// Package is the package clause name.
	Package string
	// Imports are the file's imports, in source order.
	Imports []Import
	// Generators declared by Create directives.
	Generators []*Generator
	// Instances declared by Cases directives.
	Instances []*Instance
	// LocalName is the name paramtest is imported under; empty if the file
	// does not import it.
	LocalName string
	// Decls are the package-level names the file declares, methods and
	// blank names excluded.
	Decls []Decl
}

// IsDirective reports whether the file imports the directive package.
func (f *File) IsDirective() bool {
	return f.LocalName != ""
}

// Dir returns the directory holding the file.
func (f *File) Dir() string {
	return filepath.Dir(f.Filename)
}

// Import is a single import spec.
type Import struct {
	// Name is the explicit import name, empty if none.
	Name string
	Path string
}

// Decl is a package-level declared name.
type Decl struct {
	Name string
	Pos  token.Position
}

// Generator is a Create directive: a body with its binding pattern.
type Generator struct {
	// Name is the package-level variable holding the directive.
	Name string
	Pos  token.Position
	// Body is the function literal as written.
	Body string
	// TParam is the name of the leading *testing.T parameter, empty if the
	// body has none or leaves it unnamed.
	TParam string
	// HasT reports whether the body takes a leading *testing.T.
	HasT bool
	// Pattern is the binding pattern: the parameters after *testing.T.
	Pattern []Param
	// Results are the body's result types.
	Results []string
	// File is the file the generator is declared in.
	File *File
}

// Param is one parameter of the binding pattern.
type Param struct {
	Name string
	Type string
}

// Instance is a Cases directive.
type Instance struct {
	// GeneratorName is the receiver of Cases as written.
	GeneratorName string
	Pos           token.Position
	Entries       []Entry
	// Generator is set by Link.
	Generator *Generator
	// File is the file the instance is declared in.
	File *File
}

// Entry is a Case directive: a name and the values bound to the pattern.
type Entry struct {
	Name   string
	Pos    token.Position
	Values []string
}
