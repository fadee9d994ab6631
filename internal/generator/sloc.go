package generator

import "strings"

// CountSLOC counts non-blank source lines across one or more rendered
// texts, the metric §4.G's informational SLOC report is built from. A
// line counts if it has any non-whitespace content, comment-only lines
// included — this is a source-line count, not a logical-statement count.
func CountSLOC(texts ...string) int {
	n := 0
	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) != "" {
				n++
			}
		}
	}
	return n
}
