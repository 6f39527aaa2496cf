// Package gen expands paramtest directives into Go test files.
//
// Expansion runs in two stages, both with text/template:
//
//  1. Define turns a generator (name, binding pattern, body) into a
//     Definition: a second-stage template named after the generator, with
//     the body baked in. The first stage writes the second stage's actions
//     through the hygiene helper.
//  2. Definition.Expand runs that template over the generator's cases and
//     yields a container test plus one function per case.
//
// The result-handling Policy is chosen once per run and only decides how a
// generated function calls the body and reports its outcome.
//
// Generated files are assembled with the directive file's imports, pruned to
// those the expansion uses, and formatted with go/format.
package gen
