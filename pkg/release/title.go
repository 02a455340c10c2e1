package release

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emptyPairRe    = regexp.MustCompile(`\[[\s._-]*\]|\([\s._-]*\)|\{[\s._-]*\}`)
	spaceRunRe     = regexp.MustCompile(`\s+`)
	bracketsOnlyRe = regexp.MustCompile(`^[\s._-]*(?:\[[^\[\]]*\][\s._-]*)+$`)
	bracketGroupRe = regexp.MustCompile(`\[([^\[\]]*)\]`)
	latinWordRe    = regexp.MustCompile(`[A-Za-z]{2,}`)

	dotUnderscore = strings.NewReplacer(".", " ", "_", " ")
)

// resolveTitle assigns the unclaimed text to the title fields. For tv with
// an episode or date marker the text before it is the title and the text
// up to the next claimed token is the episode title.
func resolveTitle(w *workspace, r *ParsedRelease) {
	start := w.titleStart()
	if start < 0 {
		return
	}
	view := w.text()
	if w.kind == KindTV && w.marker != nil {
		m := w.marker
		if m.start > start {
			r.Title = titleText(view[start:m.start])
		}
		end := w.nextClaim(m.end)
		r.EpisodeTitle = tidy(view[m.end:end])
		r.TitleExtra = extraText(view[end:])
		return
	}
	end := w.nextClaim(start)
	r.Title = titleText(view[start:end])
	r.TitleExtra = extraText(view[end:])
}

// tidy turns leftover text into display form. It is idempotent.
func tidy(s string) string {
	for {
		t := dotUnderscore.Replace(s)
		t = emptyPairRe.ReplaceAllString(t, "")
		t = spaceRunRe.ReplaceAllString(t, " ")
		t = strings.TrimLeft(t, " -)]}")
		t = strings.TrimRight(t, " -([{")
		if t == s {
			return t
		}
		s = t
	}
}

// titleText picks the title out of names made only of bracket groups, as in
// "[国漫][仙逆][Renegade Immortal]": the first group with two Latin words,
// else the last group with any letters.
func titleText(s string) string {
	if !bracketsOnlyRe.MatchString(s) {
		return tidy(s)
	}
	groups := bracketGroupRe.FindAllStringSubmatch(s, -1)
	for _, g := range groups {
		if len(latinWordRe.FindAllString(g[1], 2)) == 2 {
			return tidy(g[1])
		}
	}
	for i := len(groups) - 1; i >= 0; i-- {
		if strings.IndexFunc(groups[i][1], unicode.IsLetter) >= 0 {
			return tidy(groups[i][1])
		}
	}
	return tidy(s)
}

func extraText(s string) string {
	return tidy(strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '(', ')', '{', '}':
			return ' '
		}
		return r
	}, s))
}
