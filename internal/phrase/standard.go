package phrase

import "strings"

// Standardize returns s in standard form: every run of whitespace
// (including newlines) collapsed to one space, ends trimmed.
func Standardize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsStandard reports whether s is already in standard form.
func IsStandard(s string) bool {
	return s == Standardize(s)
}
