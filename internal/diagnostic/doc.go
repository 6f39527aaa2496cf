// Package diagnostic provides structured errors and warnings for directive
// files, reported at generation time with the position of the offending
// directive.
//
// Key capabilities:
//   - Malformed directive reports (non-literal bodies, bad case names)
//   - Duplicate case and instance reports
//   - Unused generator warnings
package diagnostic
