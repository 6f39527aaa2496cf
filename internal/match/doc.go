// Package match finds the declared name closest to a misspelled one, for
// "did you mean" hints in diagnostics.
package match
