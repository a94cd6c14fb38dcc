// Package report holds helpers shared by the tabular report renderers.
package report

import "strings"

// asciiReplacements maps characters common in contract text onto ASCII
// equivalents the base-14 PDF fonts can render.
var asciiReplacements = map[rune]string{
	'‘': "'", '’': "'",
	'“': `"`, '”': `"`,
	'–': "-", '—': "-",
	' ': " ",
	'…': "...",
	'§': "S.",
	'é': "e", 'è': "e", 'ê': "e",
	'à': "a", 'ä': "a",
	'ö': "o", 'ü': "u",
}

// ToASCII transliterates to printable ASCII, substituting '?' for anything
// without a known replacement. Both renderers run every field through it so
// the PDF and the spreadsheet carry identical text.
func ToASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteByte(' ')
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		default:
			if repl, ok := asciiReplacements[r]; ok {
				b.WriteString(repl)
			} else {
				b.WriteByte('?')
			}
		}
	}
	return b.String()
}
