package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, filename, body string) *File {
	t.Helper()

	src := "package p\n\nimport \"paramtest-generator/paramtest\"\n\n" + body + "\n"

	f, res := ParseFile(filename, []byte(src))
	require.False(t, res.HasErrors(), res.Error())

	return f
}

func TestLink_AcrossFiles(t *testing.T) {
	defs := parse(t, "/pkg/defs_test.go", `var even = paramtest.Create(func(n int) {})`)
	cases := parse(t, "/pkg/cases_test.go", `var _ = even.Cases(paramtest.Case("two", 2))`)

	res := Link([]*File{defs, cases})
	require.False(t, res.HasErrors(), res.Error())
	assert.Empty(t, res.Warnings)

	require.Len(t, cases.Instances, 1)
	assert.Same(t, defs.Generators[0], cases.Instances[0].Generator)
}

func TestLink_OtherDirectoryIsOtherPackage(t *testing.T) {
	defs := parse(t, "/a/defs_test.go", `var even = paramtest.Create(func(n int) {})`)
	cases := parse(t, "/b/cases_test.go", `var _ = even.Cases()`)

	res := Link([]*File{defs, cases})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "unknown_generator", res.Errors[0].Code)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "generator_unused", res.Warnings[0].Code)
}

func TestLink_DuplicateInstance(t *testing.T) {
	f := parse(t, "/pkg/cases_test.go", `var even = paramtest.Create(func(n int) {})
var _ = even.Cases(paramtest.Case("a", 1))
var _ = even.Cases(paramtest.Case("b", 2))`)

	res := Link([]*File{f})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "duplicate_instance", res.Errors[0].Code)
	assert.Equal(t, "even", res.Errors[0].Generator)
	assert.Same(t, f.Generators[0], f.Instances[0].Generator)
	assert.Nil(t, f.Instances[1].Generator)
}

func TestLink_DuplicateGenerator(t *testing.T) {
	a := parse(t, "/pkg/a_test.go", `var even = paramtest.Create(func(n int) {})`)
	b := parse(t, "/pkg/b_test.go", `var even = paramtest.Create(func(n int) {})
var _ = even.Cases()`)

	res := Link([]*File{a, b})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "duplicate_generator", res.Errors[0].Code)
	assert.Empty(t, res.Warnings)
}

func TestLink_UnknownGeneratorSuggestsClosest(t *testing.T) {
	f := parse(t, "/pkg/cases_test.go", `var even = paramtest.Create(func(n int) {})
var _ = even.Cases()
var _ = evn.Cases(paramtest.Case("a", 1))`)

	res := Link([]*File{f})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "unknown_generator", res.Errors[0].Code)
	assert.Equal(t, "evn is not declared with Create in package p; did you mean even?", res.Errors[0].Message)
}

func TestLink_UnusedGeneratorIsWarning(t *testing.T) {
	f := parse(t, "/pkg/cases_test.go", `var odd = paramtest.Create(func(n int) {})`)

	res := Link([]*File{f})
	assert.False(t, res.HasErrors())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "odd", res.Warnings[0].Generator)
}
