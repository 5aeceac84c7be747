// Package delimiter infers the field separator of a delimited statement file.
package delimiter

import "strings"

// Fallback is returned when the header line contains none of the candidates.
const Fallback = ','

// Detector counts candidate separators on the header line.
// Candidates are ordered: on equal counts the earlier one wins.
type Detector struct {
	Candidates []rune
}

// Default returns a detector for comma, semicolon, tab and pipe.
func Default() Detector {
	return Detector{Candidates: []rune{',', ';', '\t', '|'}}
}

// Detect inspects only the first line of text. Data rows are ignored because
// quoted descriptions often contain separator characters.
func (d Detector) Detect(text string) rune {
	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}

	best := Fallback
	bestCount := 0
	for _, candidate := range d.Candidates {
		count := strings.Count(firstLine, string(candidate))
		if count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

// Parse reads a user-supplied delimiter such as ";", "\t" or "tab".
// An empty string yields 0, meaning "detect".
func Parse(s string) (rune, bool) {
	switch strings.ToLower(s) {
	case "":
		return 0, true
	case "tab", `\t`:
		return '\t', true
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, false
	}
	return r[0], true
}

// Name renders a delimiter for logs and previews.
func Name(r rune) string {
	if r == '\t' {
		return "tab"
	}
	return string(r)
}
