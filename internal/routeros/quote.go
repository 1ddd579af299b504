package routeros

import "strings"

// quote wraps a value in double quotes for the appliance console,
// escaping backslashes, embedded quotes, and dollar signs. The console
// interpolates $var and $(...) inside double-quoted strings, so an
// unescaped $ in a value from an untrusted settings file would execute
// console expressions.
func quote(v string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"', '\\', '$':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
