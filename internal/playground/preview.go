package playground

import (
	"strings"

	"github.com/zjrosen/hwt/internal/highlight"
)

// Preview renders text for the terminal with ranges shown as background
// colors, deeper nesting getting a different color. Ranges must not stagger.
func Preview(text string, ranges []highlight.Range) string {
	var out strings.Builder
	depth, pos := 0, 0
	var prev highlight.Boundary

	for i, b := range highlight.Boundaries(ranges) {
		if b.Index > len(text) {
			break
		}
		writeRun(&out, text[pos:b.Index], depth)
		pos = b.Index

		if b.Kind == highlight.Start {
			depth++
		} else {
			depth--
			if i > 0 && prev.Kind == highlight.Start && prev.Index == b.Index {
				out.WriteString(zeroWidthMarker)
			}
		}
		prev = b
	}
	writeRun(&out, text[pos:], depth)
	return out.String()
}

// writeRun styles each line separately so lipgloss does not pad lines to a
// common width.
func writeRun(out *strings.Builder, run string, depth int) {
	if run == "" {
		return
	}
	if depth <= 0 {
		out.WriteString(run)
		return
	}
	style := highlightStyle(depth)
	for i, line := range strings.Split(run, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		if line != "" {
			out.WriteString(style.Render(line))
		}
	}
}
