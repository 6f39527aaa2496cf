package gen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"paramtest-generator/internal/common"
	"paramtest-generator/internal/directive"
	"paramtest-generator/internal/hygiene"
)

// Definition is a generator after the first stage: a template that turns a
// list of cases into test functions. It is named after the generator and
// can be expanded any number of times.
type Definition struct {
	// Name is the generator name.
	Name string
	// TestName is the generated container test.
	TestName string

	generator *directive.Generator
	tparam    string
	tmpl      *template.Template
	source    string
}

// Define runs the first stage for g.
func Define(g *directive.Generator, config GeneratorConfig) (*Definition, error) {
	if err := config.Policy.check(g); err != nil {
		return nil, fmt.Errorf("generator %s: %w", g.Name, err)
	}

	d := &Definition{
		Name:      g.Name,
		TestName:  testName(g.Name),
		generator: g,
		tparam:    testParam(g),
	}

	src, err := hygiene.WithSigil(g.Name+".define", defineTemplate, defineData{
		TestName: d.TestName,
		T:        d.tparam,
		Body:     g.Body,
		Parallel: config.Parallel,
	})
	if err != nil {
		return nil, fmt.Errorf("defining %s: %w", g.Name, err)
	}

	tmpl, err := template.New(g.Name).
		Funcs(template.FuncMap{"invoke": config.Policy.invoke}).
		Option("missingkey=error").
		Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing definition of %s: %w", g.Name, err)
	}

	d.tmpl = tmpl
	d.source = src

	return d, nil
}

// Source returns the second-stage template text.
func (d *Definition) Source() string {
	return d.source
}

// Expand runs the second stage: the container test and one function per
// entry. An empty list yields the container alone.
func (d *Definition) Expand(entries []directive.Entry) ([]byte, error) {
	data := expandData{Cases: make([]caseData, 0, len(entries))}

	for _, e := range entries {
		var args []string
		if d.generator.HasT {
			args = append(args, d.tparam)
		}

		args = append(args, e.Values...)

		data.Cases = append(data.Cases, caseData{
			Name:  e.Name,
			Func:  caseFunc(d.Name, e.Name),
			Label: d.TestName + "/" + e.Name,
			T:     d.tparam,
			Args:  strings.Join(args, ", "),
		})
	}

	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("expanding %s: %w", d.Name, err)
	}

	return buf.Bytes(), nil
}

// testName names the container test of a generator.
func testName(generator string) string {
	return "Test" + common.Exported(generator)
}

// caseFunc names the function generated for one entry.
func caseFunc(generator, entry string) string {
	return generator + "_" + entry
}

// testParam names the *testing.T of generated functions after the body's own
// parameter, so messages and Parallel calls read like the body.
func testParam(g *directive.Generator) string {
	if g.TParam != "" {
		return g.TParam
	}

	return "t"
}
