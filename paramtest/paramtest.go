// Package paramtest provides directives for parameterized test generation.
//
// A parameterized test is one test body written once and run for every named
// argument set. Declare the body with [Create] and the argument sets with
// [Generator.Cases] in a file guarded by the paramtest build tag:
//
//	//go:build paramtest
//
//	package even
//
//	import (
//		"testing"
//
//		"paramtest-generator/paramtest"
//	)
//
//	var even = paramtest.Create(func(t *testing.T, n int) {
//		if n%2 != 0 {
//			t.Fatalf("%d is odd", n)
//		}
//	})
//
//	var _ = even.Cases(
//		paramtest.Case("two", 2),
//		paramtest.Case("ten", 10),
//	)
//
// Then run the generator next to it:
//
//	go run paramtest-generator/cmd/paramtest-gen gen .
//
// It writes cases_paramtest_test.go with a TestEven container test and one
// subtest per case, so TestEven/two and TestEven/ten run and report
// independently:
//
//	// generated: (simplified)
//	func TestEven(t *testing.T) {
//		t.Run("two", even_two)
//		t.Run("ten", even_ten)
//	}
//
//	func even_two(t *testing.T) {
//		func(t *testing.T, n int) {
//			...
//		}(t, 2)
//	}
//
// # Binding
//
// The parameters of the body after an optional leading *testing.T form the
// binding pattern. Each case supplies one value per parameter, so a body
// taking (a, b int) is instantiated with paramtest.Case("x", 10, 5). A case
// with the wrong number or type of values fails to compile in its own
// generated function only.
//
// The body is copied verbatim into the generated file of the same package, so
// it can call any helper visible where it was declared.
//
// # Propagation
//
// With propagation enabled in paramtest.yaml the body returns an error
// instead, and a non-nil error fails the subtest it belongs to:
//
//	var parse = paramtest.Create(func(t *testing.T, s string) error {
//		_, err := strconv.Atoi(s)
//		return err
//	})
package paramtest

// ImportPath is the import path the generator looks for in directive files.
const ImportPath = "paramtest-generator/paramtest"

// BuildTag guards directive files from regular builds.
const BuildTag = "paramtest"

const notGenerated = "paramtest: not generated"

// Generator is a parameterized test body waiting for its cases.
type Generator struct{ _ [0]func() }

// Instance is the result of instantiating a Generator with cases.
type Instance struct{ _ [0]func() }

// Entry is a named argument set for one generated test.
type Entry struct{ _ [0]func() }

// Create declares a parameterized test. The name of the package-level
// variable holding the result names the generated container test.
//
// body must be a function literal. Its first parameter may be a *testing.T
// receiving the generated subtest's t; the remaining parameters are bound to
// each case's values.
func Create(body any) Generator {
	panic(notGenerated)
}

// Cases instantiates the generator with one generated test per entry. A
// generator is instantiated at most once; an empty list yields a container
// test without subtests.
func (Generator) Cases(entries ...Entry) Instance {
	panic(notGenerated)
}

// Case names an argument set. name must be a Go identifier, unique within
// the Cases call.
func Case(name string, values ...any) Entry {
	panic(notGenerated)
}
