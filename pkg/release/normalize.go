package release

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romanRe matches II through IX after a space. A leading numeral and the
// single letters I and X are left alone ("VII Days", "I Robot",
// "American History X").
var romanRe = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var romanValues = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
}

// NormalizeRomanNumerals rewrites the numerals II-IX as digits.
func NormalizeRomanNumerals(s string) string {
	return romanRe.ReplaceAllStringFunc(s, func(m string) string {
		if n, ok := romanValues[strings.ToLower(m[1:])]; ok {
			return " " + n
		}
		return m
	})
}

var titlePunct = strings.NewReplacer("&", " and ", "-", " ", "'", "", ".", " ")

// CleanTitle reduces a title to a comparison key: lower case, digits for
// roman numerals, no accents or punctuation, and no leading article in the
// title or in a subtitle after a colon.
func CleanTitle(title string) string {
	s := NormalizeRomanNumerals(strings.ToLower(title))
	s = titlePunct.Replace(stripAccents(s))

	parts := strings.Split(s, ":")
	for i, p := range parts {
		parts[i] = dropArticle(p)
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.Join(parts, " "))
	return strings.Join(strings.Fields(s), " ")
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func dropArticle(s string) string {
	s = strings.TrimSpace(s)
	for _, a := range []string{"the ", "a ", "an "} {
		if rest, ok := strings.CutPrefix(s, a); ok {
			return rest
		}
	}
	return s
}
