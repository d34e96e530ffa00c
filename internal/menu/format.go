package menu

import "strings"

// separatorLine is how [Format] draws separators.
const separatorLine = "────────"

// Format renders entries as an indented text tree, one row per line.
func Format(entries []Entry) string {
	var b strings.Builder

	writeEntries(&b, entries, 0)

	return b.String()
}

func writeEntries(b *strings.Builder, entries []Entry, depth int) {
	indent := strings.Repeat("  ", depth)

	for _, e := range entries {
		b.WriteString(indent)

		if e.IsSeparator() {
			b.WriteString(separatorLine)
		} else {
			b.WriteString(e.Label)
		}

		b.WriteByte('\n')

		writeEntries(b, e.Children, depth+1)
	}
}
