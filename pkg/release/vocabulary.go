package release

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// guard restricts where a term may be claimed outside technical blocks.
type guard int

const (
	guardNone     guard = iota
	guardTitle          // collides with title words; must sit past the title boundary
	guardAdjacent       // must touch a technical token
)

// term maps surface aliases to one canonical value.
type term struct {
	value   string
	aliases []string
	rank    int
	guard   guard
}

// vocabulary is a compiled lexical table. It is immutable once built.
type vocabulary struct {
	terms []term
	byKey map[string]*term
	re    *regexp.Regexp
}

const (
	wordStart = `(?:^|[^\pL\pN])`
	wordEnd   = `(?:[^\pL\pN]|$)`
	sepClass  = `[\s._-]?`
)

// newVocabulary compiles terms into one alternation. suffix, when set, is
// matched right after the alias and its groups are reported on the token.
func newVocabulary(terms []term, suffix string) *vocabulary {
	v := &vocabulary{terms: terms, byKey: make(map[string]*term)}
	seen := make(map[string]bool)
	var alts []string
	for i := range v.terms {
		t := &v.terms[i]
		for _, a := range append([]string{t.value}, t.aliases...) {
			if _, ok := v.byKey[lexKey(a)]; !ok {
				v.byKey[lexKey(a)] = t
			}
			p := aliasPattern(a)
			if !seen[p] {
				seen[p] = true
				alts = append(alts, p)
			}
		}
	}
	sort.SliceStable(alts, func(i, j int) bool { return len(alts[i]) > len(alts[j]) })
	v.re = regexp.MustCompile(`(?i)` + wordStart + `((` + strings.Join(alts, "|") + `)` + suffix + `)` + wordEnd)
	v.re.Longest()
	return v
}

// lexKey folds case and drops separators so that "WEB-DL", "web.dl" and
// "WEB DL" compare equal.
func lexKey(s string) string {
	return strings.Map(func(r rune) rune {
		if isSeparator(r) {
			return -1
		}
		return r
	}, cases.Fold().String(s))
}

func isSeparator(r rune) bool {
	return r == '.' || r == '_' || r == '-' || unicode.IsSpace(r)
}

func isSeparatorByte(b byte) bool {
	switch b {
	case ' ', '.', '_', '-', '\t', '\n', '\r':
		return true
	}
	return false
}

// aliasPattern quotes an alias, letting every separator position accept any
// single separator or none.
func aliasPattern(alias string) string {
	words := strings.FieldsFunc(alias, isSeparator)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, sepClass)
}

func (v *vocabulary) lookup(s string) (*term, bool) {
	t, ok := v.byKey[lexKey(s)]
	return t, ok
}

// token is one vocabulary occurrence in a text.
type token struct {
	start, end int
	term       *term
	groups     []string
}

// scan returns the leftmost-longest occurrence at or after from that keep
// accepts. from must not fall inside a word.
func (v *vocabulary) scan(text string, from int, keep func(token) bool) (token, bool) {
	for off := from; off < len(text); {
		loc := v.re.FindStringSubmatchIndex(text[off:])
		if loc == nil {
			break
		}
		tok := token{start: off + loc[2], end: off + loc[3]}
		tok.term, _ = v.lookup(text[off+loc[4] : off+loc[5]])
		for g := 6; g+1 < len(loc); g += 2 {
			if loc[g] < 0 {
				tok.groups = append(tok.groups, "")
				continue
			}
			tok.groups = append(tok.groups, text[off+loc[g]:off+loc[g+1]])
		}
		if tok.term != nil && (keep == nil || keep(tok)) {
			return tok, true
		}
		off = tok.end
	}
	return token{}, false
}
