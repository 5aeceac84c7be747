package columnmap

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var separatorRun = regexp.MustCompile(`[\s\-]+`)

// Normalize lowercases a header, strips accents and turns whitespace and hyphen runs into "_".
// "Date de Valeur" and "date-de-valeur" both become "date_de_valeur".
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = stripAccents(name)
	return separatorRun.ReplaceAllString(name, "_")
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
