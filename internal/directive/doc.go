// Package directive finds paramtest directives in Go source files.
//
// A directive file imports paramtest-generator/paramtest and declares, at
// package level:
//
//	var even = paramtest.Create(func(t *testing.T, n int) { ... })
//	var _ = even.Cases(paramtest.Case("two", 2), paramtest.Case("ten", 10))
//
// ParseFile extracts the generators (name, binding pattern and body text) and
// their instances (the named cases with their value expressions) without
// type-checking: bodies and values are kept as source text and copied
// verbatim by the generator. Link resolves instances against the generators
// of the whole package.
//
// Problems with the directives themselves are reported as diagnostics with
// the position of the offending node. Problems with the values, such as a
// case supplying the wrong number of values, are left to the Go compiler on
// the generated code.
package directive
