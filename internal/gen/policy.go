package gen

import (
	"fmt"
	"strconv"
	"strings"

	"paramtest-generator/internal/directive"
)

//go:generate go tool stringer -type=Policy -linecomment -output=policy_string.go

// Policy decides how a generated test calls its body and turns the outcome
// into the testing package's pass/fail convention.
type Policy int

const (
	// PolicyDirect calls a body without results. t.Fatal and panics inside
	// the body fail the test natively.
	PolicyDirect Policy = iota // direct
	// PolicyPropagating calls a body returning error. A non-nil error fails
	// the test with t.Fatalf, labelled with the case.
	PolicyPropagating // propagating
)

// PolicyFor maps the propagation setting to a policy.
func PolicyFor(propagation bool) Policy {
	if propagation {
		return PolicyPropagating
	}

	return PolicyDirect
}

// check reports why the body of g does not fit the policy.
func (p Policy) check(g *directive.Generator) error {
	switch p {
	case PolicyDirect:
		if len(g.Results) != 0 {
			return fmt.Errorf("body returns (%s); without propagation it must not return values",
				strings.Join(g.Results, ", "))
		}
	case PolicyPropagating:
		if len(g.Results) != 1 || g.Results[0] != "error" {
			return fmt.Errorf("body returns (%s); with propagation it must return error",
				strings.Join(g.Results, ", "))
		}
	default:
		return fmt.Errorf("unknown policy %s", p)
	}

	return nil
}

// invoke renders the statements of a generated test that call body for one
// case. It is bound as a function of every second-stage template.
func (p Policy) invoke(body string, c caseData) string {
	call := body + "(" + c.Args + ")"

	if p == PolicyPropagating {
		return fmt.Sprintf("\tif err := %s; err != nil {\n\t\t%s.Fatalf(%s, err)\n\t}",
			call, c.T, strconv.Quote(c.Label+": %v"))
	}

	return "\t" + call
}
