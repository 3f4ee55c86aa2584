package refactor

import "strings"

// parseExposingText extracts the bare names listed in a rendered exposing
// clause's text, e.g. "(foo, Bar, baz)" -> ["foo", "Bar", "baz"]. It
// tolerates the partial, sometimes syntactically invalid text an in-progress
// edit produces (a trailing comma, an unclosed paren) since R4/R5 are the
// two recognizers explicitly allowed to process an edit with an ERROR node
// in it.
func parseExposingText(text string) []string {
	text = strings.Trim(text, "()")
	var out []string
	for _, part := range strings.Split(text, ",") {
		name := strings.TrimSpace(part)
		if name == "" || name == ".." {
			continue
		}
		out = append(out, name)
	}
	return out
}

// setDiff returns the elements of b not present in a.
func setDiff(a, b []string) []string {
	in := make(map[string]bool, len(a))
	for _, n := range a {
		in[n] = true
	}
	var out []string
	for _, n := range b {
		if !in[n] {
			out = append(out, n)
		}
	}
	return out
}

func rangesOverlap(aStart, aEnd, bStart, bEnd uint32) bool {
	return aStart < bEnd && bStart < aEnd
}
