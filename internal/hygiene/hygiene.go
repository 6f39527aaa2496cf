// Package hygiene lets a template emit the source of another template.
//
// A template cannot spell the action delimiters of a template it generates:
// the parser takes every "{{" as one of its own actions. WithSigil binds the
// delimiters to the variables $d and $e of a single-use template and executes
// it right away, so a body writing
//
//	{{$d}}range .Cases{{$e}}
//
// produces
//
//	{{range .Cases}}
package hygiene

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"
)

// Sigil is the pair of action delimiters of the nested template.
type Sigil struct {
	Open  string
	Close string
}

// DefaultSigil is the text/template default.
var DefaultSigil = Sigil{Open: "{{", Close: "}}"}

// Env is the dot of the single-use template. Body data is reached through
// .Data; the sigil through $d and $e.
type Env struct {
	Sigil Sigil
	Data  any
}

const prelude = `{{- $d := .Sigil.Open}}{{- $e := .Sigil.Close}}`

var funcs = template.FuncMap{
	"quote": Quote,
}

// WithSigil expands body with $d and $e bound to DefaultSigil.
func WithSigil(name, body string, data any) (string, error) {
	return WithCustomSigil(name, body, DefaultSigil, data)
}

// WithCustomSigil expands body with $d and $e bound to sigil.
func WithCustomSigil(name, body string, sigil Sigil, data any) (string, error) {
	tmpl, err := template.New(name).
		Funcs(funcs).
		Option("missingkey=error").
		Parse(prelude + body)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, Env{Sigil: sigil, Data: data}); err != nil {
		return "", fmt.Errorf("executing %s: %w", name, err)
	}

	return buf.String(), nil
}

// Quote renders s as a string constant the nested template can evaluate, so
// text containing delimiters survives as data rather than being parsed.
func Quote(s string) string {
	return strconv.Quote(s)
}
