package strcase

import (
	"strings"
	"unicode"
)

// Capitalize upper-cases the first rune of name.
func Capitalize(name string) string {
	if name == "" {
		return name
	}

	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ToIdentifier replaces every rune that cannot appear in a Java identifier
// with an underscore. A leading digit is prefixed with an underscore.
func ToIdentifier(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ToClassName turns a file or directory name into a capitalized identifier.
func ToClassName(s string) string {
	return Capitalize(ToIdentifier(s))
}
