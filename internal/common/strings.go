package common

import (
	"unicode"
	"unicode/utf8"
)

// UnknownStr is printed for enum values without a name.
const UnknownStr = "unknown"

// Exported upper-cases the first letter of name.
func Exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}
