package gen

import "text/template"

// defineTemplate is the first stage. It runs through hygiene.WithSigil, so
// {{$d}} and {{$e}} stand for the delimiters of the second stage, and
// .Data is a defineData. The body is baked in as a quoted constant.
const defineTemplate = `{{$d}}$body := {{quote .Data.Body}} -{{$e}}
func {{.Data.TestName}}(t *testing.T) {
{{$d}}- range .Cases{{$e}}
	t.Run({{$d}}printf "%q" .Name{{$e}}, {{$d}}.Func{{$e}})
{{$d}}- end{{$e}}
}
{{$d}}range .Cases{{$e}}
func {{$d}}.Func{{$e}}({{.Data.T}} *testing.T) {
{{- if .Data.Parallel}}
	{{.Data.T}}.Parallel()
{{- end}}
{{$d}}invoke $body .{{$e}}
}
{{$d}}end{{$e}}
`

// defineData is the input of the first stage.
type defineData struct {
	TestName string
	T        string
	Body     string
	Parallel bool
}

// expandData is the input of the second stage.
type expandData struct {
	Cases []caseData
}

// caseData describes one generated test function.
type caseData struct {
	// Name is the case name, also the subtest name.
	Name string
	// Func is the generated function.
	Func string
	// Label is the full test id, TestX/name.
	Label string
	// T is the name of the generated function's *testing.T.
	T string
	// Args are the arguments of the body call.
	Args string
}

// fileData holds all data needed for the file template.
type fileData struct {
	Tag          string
	PackageName  string
	ImportGroups [][]importSpec
	Decls        []string
}

var fileTemplate = template.Must(
	template.New("file").
		Parse(`// Code generated by paramtest-gen. DO NOT EDIT.

//go:build !{{.Tag}}

package {{.PackageName}}

import (
{{- range $i, $group := .ImportGroups}}{{if $i}}
{{end}}
{{- range $group}}
	{{if .Name}}{{.Name}} {{end}}"{{.Path}}"
{{- end}}
{{- end}}
)
{{range .Decls}}
{{.}}
{{end}}`))
