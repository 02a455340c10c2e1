package release

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Rule names, in precedence order.
const (
	ruleContainer  = "container"
	ruleIDs        = "ids"
	ruleChecksum   = "checksum"
	ruleBrackets   = "brackets"
	ruleFlags      = "flags"
	ruleHDR        = "hdr"
	ruleAudio      = "audio"
	ruleSource     = "source"
	ruleFormat     = "format"
	ruleResolution = "resolution"
	ruleProvider   = "provider"
	ruleLanguage   = "language"
	ruleYearDate   = "year_date"
	ruleEpisode    = "episode"
	ruleGroup      = "group"
	ruleDevice     = "device"
	ruleOS         = "os"
	ruleVersion    = "version"
	ruleDisc       = "disc"
)

// hit is one claimed token and the change it makes to the record.
type hit struct {
	start, end int
	rule       string
	weak       bool // may be ordinary text when seen outside a pure technical block
	apply      func(r *ParsedRelease)
}

// rule claims the tokens it recognizes in the working text.
type rule struct {
	name string
	run  func(w *workspace) []hit
}

// pipeline is the global matcher order. Earlier rules win overlapping text.
var pipeline = []rule{
	{ruleContainer, matchContainer},
	{ruleIDs, matchIDs},
	{ruleChecksum, matchChecksum},
	{ruleBrackets, matchBrackets},
	{ruleFlags, matchFlags},
	{ruleHDR, matchHDR},
	{ruleAudio, matchAudio},
	{ruleSource, matchSource},
	{ruleFormat, matchFormat},
	{ruleResolution, matchResolution},
	{ruleProvider, matchProvider},
	{ruleLanguage, matchLanguage},
	{ruleYearDate, matchYearDate},
	{ruleEpisode, matchEpisode},
	{ruleGroup, matchGroup},
	{ruleDevice, matchDevice},
	{ruleOS, matchOS},
	{ruleVersion, matchVersion},
	{ruleDisc, matchDisc},
}

// blockRules decompose the interior of a technical block.
var blockRules = []rule{
	{ruleFlags, matchFlags},
	{ruleHDR, matchHDR},
	{ruleAudio, matchAudio},
	{ruleSource, matchSource},
	{ruleFormat, matchFormat},
	{ruleResolution, matchResolution},
	{ruleProvider, matchProvider},
	{ruleLanguage, matchLanguage},
}

// Precedence returns the matcher names in the order they run.
func Precedence() []string {
	names := make([]string, len(pipeline))
	for i, r := range pipeline {
		names[i] = r.name
	}
	return names
}

// sweep claims every occurrence of v that the workspace guards accept.
func sweep(w *workspace, name string, v *vocabulary, weak bool, decode func(t token) func(*ParsedRelease)) []hit {
	var hits []hit
	text := w.text()
	for off := 0; off < len(text); {
		tok, ok := v.scan(text, off, w.allows)
		if !ok {
			break
		}
		w.claim(tok.start, tok.end, name)
		hits = append(hits, hit{
			start: tok.start,
			end:   tok.end,
			rule:  name,
			weak:  weak || tok.term.guard != guardNone,
			apply: decode(tok),
		})
		off = tok.end
	}
	return hits
}

// claimEach claims up to limit matches of re (0 means no limit). Group 1 is
// the claimed token; decode returns nil to reject a match.
func claimEach(w *workspace, name string, re *regexp.Regexp, limit int, decode func(m []string, start int) func(*ParsedRelease)) []hit {
	var hits []hit
	text := w.text()
	for off := 0; off < len(text) && (limit == 0 || len(hits) < limit); {
		loc := re.FindStringSubmatchIndex(text[off:])
		if loc == nil {
			break
		}
		m := make([]string, len(loc)/2)
		for g := range m {
			if loc[2*g] >= 0 {
				m[g] = text[off+loc[2*g] : off+loc[2*g+1]]
			}
		}
		start, end := off+loc[2], off+loc[3]
		if apply := decode(m, start); apply != nil {
			w.claim(start, end, name)
			hits = append(hits, hit{start: start, end: end, rule: name, apply: apply})
		}
		off = max(end, off+1)
	}
	return hits
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func intPtr(n int) *int {
	return &n
}

var containerRe = regexp.MustCompile(`(?i)(\.(mkv|mp4|avi|m4v|mov|wmv|flv|webm|mpg|mpeg|m2ts|iso|divx|ogm|rmvb|3gp))$`)

func matchContainer(w *workspace) []hit {
	return claimEach(w, ruleContainer, containerRe, 1, func(m []string, _ int) func(*ParsedRelease) {
		ext := strings.ToLower(m[2])
		return func(r *ParsedRelease) { r.Container = ext }
	})
}

var (
	tmdbRe     = regexp.MustCompile(`(?i)([\[{]tmdb(?:id)?[-=](\d+)[\]}])`)
	tvdbRe     = regexp.MustCompile(`(?i)([\[{]tvdb(?:id)?[-=](\d+)[\]}])`)
	imdbRe     = regexp.MustCompile(`(?i)([\[{]imdb(?:id)?[-=](tt\d+)[\]}])`)
	editionRe  = regexp.MustCompile(`(?i)([\[{]edition-([^\[\]{}]+)[\]}])`)
	editionTag = regexp.MustCompile(`(\[([A-Z][A-Za-z']*(?:[ .][A-Z][A-Za-z']*)*[ .-]Edition)\])`)
)

func matchIDs(w *workspace) []hit {
	set := func(field func(r *ParsedRelease) *string) func(m []string, _ int) func(*ParsedRelease) {
		return func(m []string, _ int) func(*ParsedRelease) {
			v := m[2]
			return func(r *ParsedRelease) {
				if p := field(r); *p == "" {
					*p = v
				}
			}
		}
	}
	var hits []hit
	hits = append(hits, claimEach(w, ruleIDs, tmdbRe, 1, set(func(r *ParsedRelease) *string { return &r.TMDBID }))...)
	hits = append(hits, claimEach(w, ruleIDs, tvdbRe, 1, set(func(r *ParsedRelease) *string { return &r.TVDBID }))...)
	hits = append(hits, claimEach(w, ruleIDs, imdbRe, 1, func(m []string, _ int) func(*ParsedRelease) {
		v := strings.ToLower(m[2])
		return func(r *ParsedRelease) { r.IMDBID = v }
	})...)
	hits = append(hits, claimEach(w, ruleIDs, editionRe, 1, set(func(r *ParsedRelease) *string { return &r.Edition }))...)
	hits = append(hits, claimEach(w, ruleIDs, editionTag, 1, func(m []string, _ int) func(*ParsedRelease) {
		v := m[2]
		if v[1] != '-' { // [U-Edition] keeps its hyphen
			v = strings.NewReplacer(".", " ", "-", " ").Replace(v)
		}
		return func(r *ParsedRelease) {
			if r.Edition == "" {
				r.Edition = v
			}
		}
	})...)
	return hits
}

var checksumRe = regexp.MustCompile(`(\[([0-9A-Fa-f]{8})\])`)

func matchChecksum(w *workspace) []hit {
	return claimEach(w, ruleChecksum, checksumRe, 1, func(m []string, _ int) func(*ParsedRelease) {
		if isCompactDate(m[2]) {
			return nil // [20240101]
		}
		v := strings.ToUpper(m[2])
		return func(r *ParsedRelease) { r.Checksum = v }
	})
}

// isCompactDate reports whether s is a valid YYYYMMDD date.
func isCompactDate(s string) bool {
	if len(s) != 8 || strings.Trim(s, "0123456789") != "" {
		return false
	}
	y := atoi(s[:4])
	_, ok := newDate(y, atoi(s[4:6]), atoi(s[6:]))
	return ok && validYear(y)
}

var blockRe = regexp.MustCompile(`\[([^\[\]]*)\]|\{([^{}]*)\}|\(([^()]*)\)`)

// matchBrackets decomposes each technical block by running the block
// rules over its interior. A block fully explained by its tokens is claimed
// whole; otherwise only its unambiguous tokens are.
func matchBrackets(w *workspace) []hit {
	var hits []hit
	view := w.text()
	for _, m := range blockRe.FindAllStringSubmatchIndex(view, -1) {
		var from, to int
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] >= 0 {
				from, to = m[g], m[g+1]
			}
		}
		sub := newWorkspace(view[from:to], w.kind)
		sub.inBlock = true
		sub.codes = view[m[0]] != '('

		var inner []hit
		for _, rl := range blockRules {
			inner = append(inner, rl.run(sub)...)
		}
		if len(inner) == 0 {
			continue
		}
		if isFiller(sub.text()) {
			w.claim(m[0], m[1], ruleBrackets)
			hits = append(hits, inner...)
			continue
		}
		for _, h := range inner {
			if h.weak {
				continue
			}
			h.start += from
			h.end += from
			w.claim(h.start, h.end, h.rule)
			hits = append(hits, h)
		}
	}
	return hits
}

// isFiller reports whether s holds only separators and list punctuation.
func isFiller(s string) bool {
	for _, r := range s {
		if isSeparator(r) || strings.ContainsRune(",+/&|", r) {
			continue
		}
		return false
	}
	return true
}

func value(t token) string {
	return t.term.value
}

func matchFlags(w *workspace) []hit {
	return sweep(w, ruleFlags, flagVocab, false, func(t token) func(*ParsedRelease) {
		v := value(t)
		return func(r *ParsedRelease) {
			r.addFlag(v)
			if multiSubFlags[v] {
				r.addLanguage("multi", "Multilingual")
			}
		}
	})
}

// first sets a single-valued field unless an earlier token already did.
func first(field func(r *ParsedRelease) *string) func(t token) func(*ParsedRelease) {
	return func(t token) func(*ParsedRelease) {
		v := value(t)
		return func(r *ParsedRelease) {
			if p := field(r); *p == "" {
				*p = v
			}
		}
	}
}

func matchHDR(w *workspace) []hit {
	return sweep(w, ruleHDR, hdrVocab, false, first(func(r *ParsedRelease) *string { return &r.HDR }))
}

func matchAudio(w *workspace) []hit {
	return sweep(w, ruleAudio, audioVocab, false, func(t token) func(*ParsedRelease) {
		v := value(t)
		if len(t.groups) > 0 && t.groups[0] != "" {
			v += " " + t.groups[0]
		}
		return func(r *ParsedRelease) {
			if r.Audio == "" {
				r.Audio = v
			}
		}
	})
}

// matchSource keeps the first source seen unless a later one outranks it,
// so "BluRay ... Remux" reports Remux.
func matchSource(w *workspace) []hit {
	return sweep(w, ruleSource, sourceVocab, false, func(t token) func(*ParsedRelease) {
		v, rank := value(t), t.term.rank
		return func(r *ParsedRelease) {
			if r.Source == "" || rank > sourceRank(r.Source) {
				r.Source = v
			}
		}
	})
}

func matchFormat(w *workspace) []hit {
	return sweep(w, ruleFormat, formatVocab, false, first(func(r *ParsedRelease) *string { return &r.Format }))
}

func matchResolution(w *workspace) []hit {
	return sweep(w, ruleResolution, resolutionVocab, false, first(func(r *ParsedRelease) *string { return &r.Resolution }))
}

func matchProvider(w *workspace) []hit {
	return sweep(w, ruleProvider, providerVocab, true, first(func(r *ParsedRelease) *string { return &r.StreamingProvider }))
}

var countryRe = regexp.MustCompile(`(\(([A-Z]{2})\))`)

func matchLanguage(w *workspace) []hit {
	decode := func(t token) func(*ParsedRelease) {
		name := value(t)
		code := languageCodeByName[name]
		return func(r *ParsedRelease) { r.addLanguage(code, name) }
	}
	var hits []hit
	if w.codes {
		hits = append(hits, sweep(w, ruleLanguage, languageCodeVocab, true, decode)...)
	}
	hits = append(hits, sweep(w, ruleLanguage, languageWordVocab, true, decode)...)
	if !w.codes {
		hits = append(hits, sweep(w, ruleLanguage, languageAlt3Vocab, true, decode)...)
	}
	hits = append(hits, sweep(w, ruleLanguage, dualVocab, true, func(t token) func(*ParsedRelease) {
		v := value(t)
		return func(r *ParsedRelease) { r.addFlag(v) }
	})...)
	if !w.inBlock {
		hits = append(hits, claimEach(w, ruleLanguage, countryRe, 0, func(m []string, _ int) func(*ParsedRelease) {
			name, ok := countries[m[2]]
			if !ok {
				return nil
			}
			code := strings.ToLower(m[2])
			return func(r *ParsedRelease) { r.addLanguage(code, name) }
		})...)
	}
	return hits
}

var (
	dateRe = regexp.MustCompile(wordStart + `((\d{4})[.\-_ ](\d{2})[.\-_ ](\d{2}))` + wordEnd)

	parenYearRe   = regexp.MustCompile(`(\((\d{4})\))`)
	bracketYearRe = regexp.MustCompile(`(\[(\d{4})\])`)
	bareYearRe    = regexp.MustCompile(wordStart + `((\d{4}))` + wordEnd)
)

func validYear(y int) bool {
	return y >= 1900 && y <= 2100
}

// matchYearDate claims an air date and a release year. A date sets the
// episode marker, and its year stands in when no separate year is present.
func matchYearDate(w *workspace) []hit {
	var date *Date
	hits := claimEach(w, ruleYearDate, dateRe, 1, func(m []string, _ int) func(*ParsedRelease) {
		y := atoi(m[2])
		if !validYear(y) {
			return nil
		}
		d, ok := newDate(y, atoi(m[3]), atoi(m[4]))
		if !ok {
			return nil
		}
		date = &d
		return func(r *ParsedRelease) {
			dd := d
			r.Date = &dd
		}
	})
	if date != nil {
		w.marker = &span{start: hits[0].start, end: hits[0].end, rule: ruleYearDate}
	}

	for _, re := range []*regexp.Regexp{parenYearRe, bracketYearRe, bareYearRe} {
		bare := re == bareYearRe
		found := claimEach(w, ruleYearDate, re, 1, func(m []string, start int) func(*ParsedRelease) {
			y := atoi(m[2])
			if !validYear(y) || bare && start == w.titleStart() {
				return nil
			}
			return func(r *ParsedRelease) {
				if r.Year == nil {
					r.Year = intPtr(y)
				}
			}
		})
		if len(found) > 0 {
			return append(hits, found...)
		}
	}
	if date != nil {
		y := date.Year
		hits = append(hits, hit{rule: ruleYearDate, apply: func(r *ParsedRelease) {
			if r.Year == nil {
				r.Year = intPtr(y)
			}
		}})
	}
	return hits
}

// episodeMatch is a decoded season/episode marker.
type episodeMatch struct {
	season   *int
	episodes []int
}

// episodeGrammar pairs a marker pattern with its decoder. decode reports
// false to reject the match.
type episodeGrammar struct {
	re     *regexp.Regexp
	decode func(m []string) (episodeMatch, bool)
}

func word(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + wordStart + `(` + pattern + `)` + wordEnd)
}

// episodeRange expands from..to when it is a plausible range.
func episodeRange(from int, to string) []int {
	if to == "" {
		return []int{from}
	}
	end := atoi(to)
	if end <= from || end-from > 100 {
		return []int{from}
	}
	eps := make([]int, 0, end-from+1)
	for e := from; e <= end; e++ {
		eps = append(eps, e)
	}
	return eps
}

func seasonEpisode(m []string) (episodeMatch, bool) {
	return episodeMatch{season: intPtr(atoi(m[2])), episodes: episodeRange(atoi(m[3]), m[4])}, true
}

func animeEpisode(m []string) (episodeMatch, bool) {
	s, e := atoi(m[2]), atoi(m[3])
	if s < 1 || s > 20 || e < 1 || e > 200 {
		return episodeMatch{}, false
	}
	return episodeMatch{season: intPtr(s), episodes: []int{e}}, true
}

func absoluteEpisode(m []string) (episodeMatch, bool) {
	return episodeMatch{episodes: episodeRange(atoi(m[2]), m[3])}, true
}

func seasonOnly(m []string) (episodeMatch, bool) {
	return episodeMatch{season: intPtr(atoi(m[2]))}, true
}

// episodeGrammars are tried in order; the first that matches wins.
var episodeGrammars = []episodeGrammar{
	{word(`S(\d{1,3})[\s._-]?E(\d{1,4})(?:(?:-?E|-)(\d{1,4}))?`), seasonEpisode},
	{word(`E(\d{1,3})-?E(\d{1,3})`), absoluteEpisode},
	{word(`EP?(\d{2,4})()`), absoluteEpisode},
	{word(`(\d{1,2})x(\d{1,3})()`), seasonEpisode},
	{word(`Season[\s._-]*(\d{1,2})[\s._-]*Episode[\s._-]*(\d{1,4})()`), seasonEpisode},
	{word(`S(\d{1,2})\s*-\s*(\d{1,3})`), animeEpisode},
	{regexp.MustCompile(`(?:^|\s)((\d{1,2})\s+-\s+(\d{1,3}))` + wordEnd), animeEpisode},
	{regexp.MustCompile(`(?:^|\s)-\s*((\d{2,4})(?:-(\d{2,4}))?)(?:\s*-|\s*$|\s+[\[\(])`), absoluteEpisode},
	{regexp.MustCompile(`(\[(\d{1,4})\])()`), func(m []string) (episodeMatch, bool) {
		if len(m[2]) == 4 && validYear(atoi(m[2])) {
			return episodeMatch{}, false
		}
		return absoluteEpisode(m)
	}},
	{word(`Episode[\s._-]*(\d{1,4})()`), absoluteEpisode},
	{word(`S(\d{1,2})`), seasonOnly},
	{word(`Season[\s._-]*(\d{1,2})`), seasonOnly},
}

// matchEpisode claims the first season/episode marker. It only runs for
// tv and never after an air date was found.
func matchEpisode(w *workspace) []hit {
	if w.kind != KindTV || w.marker != nil {
		return nil
	}
	for _, g := range episodeGrammars {
		var em episodeMatch
		hits := claimEach(w, ruleEpisode, g.re, 1, func(m []string, _ int) func(*ParsedRelease) {
			var ok bool
			if em, ok = g.decode(m); !ok {
				return nil
			}
			found := em
			return func(r *ParsedRelease) {
				r.Season = found.season
				r.Episodes = found.episodes
				if len(found.episodes) == 1 {
					r.Episode = intPtr(found.episodes[0])
				}
			}
		})
		if len(hits) > 0 {
			w.marker = &span{start: hits[0].start, end: hits[0].end, rule: ruleEpisode}
			return hits
		}
	}
	return nil
}

var (
	dashGroupRe     = regexp.MustCompile(`-([\pL\pN_@&]+)$`)
	trailBracketRe  = regexp.MustCompile(`(\[([^\[\]]{2,30})\])$`)
	leadBracketRe   = regexp.MustCompile(`^\s*(\[([^\[\]]{3,30})\])`)
	trailingWordRe  = regexp.MustCompile(`\.([A-Z][a-zA-Z0-9]{2,15})$`)
	digitsOnlyRe    = regexp.MustCompile(`^\d+$`)
	groupTrimCutset = " ._"
)

// nameRatio is the share of runes in s that can appear in a group name.
func nameRatio(s string, spaces bool) float64 {
	var n, ok int
	for _, r := range s {
		n++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || spaces && r == ' ' {
			ok++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(ok) / float64(n)
}

func isBracketTag(s string) bool {
	return bracketTags[strings.ToLower(strings.ReplaceAll(s, ".", ""))]
}

// matchGroup finds the release group: a trailing "-GROUP", a trailing or
// leading "[Group]", or a trailing ".Group" after a technical token.
func matchGroup(w *workspace) []hit {
	view := strings.TrimRight(w.text(), groupTrimCutset)
	groupHit := func(start, end int, name string) []hit {
		w.claim(start, end, ruleGroup)
		return []hit{{start: start, end: end, rule: ruleGroup, apply: func(r *ParsedRelease) { r.Group = name }}}
	}

	if m := dashGroupRe.FindStringSubmatchIndex(view); m != nil {
		if name := view[m[2]:m[3]]; len(name) < 50 && w.claimedBefore(m[0]) {
			return groupHit(m[2], m[3], name)
		}
	}
	if m := trailBracketRe.FindStringSubmatchIndex(view); m != nil {
		name := view[m[4]:m[5]]
		if nameRatio(name, false) > 0.7 && !isBracketTag(name) && !digitsOnlyRe.MatchString(name) && w.claimedBefore(m[2]) {
			return groupHit(m[2], m[3], name)
		}
	}
	if m := leadBracketRe.FindStringSubmatchIndex(view); m != nil {
		name := view[m[4]:m[5]]
		if nameRatio(name, true) > 0.7 && !isBracketTag(name) {
			return groupHit(m[2], m[3], strings.TrimSpace(name))
		}
	}
	if m := trailingWordRe.FindStringSubmatchIndex(view); m != nil {
		i := m[0] - 1
		for i >= 0 && !w.claimed(i) && isSeparatorByte(w.src[i]) {
			i--
		}
		if i >= 0 && technicalRules[w.owner[i]] {
			return groupHit(m[2], m[3], view[m[2]:m[3]])
		}
	}
	return nil
}

func matchDevice(w *workspace) []hit {
	return sweep(w, ruleDevice, deviceVocab, true, first(func(r *ParsedRelease) *string { return &r.Device }))
}

func matchOS(w *workspace) []hit {
	return sweep(w, ruleOS, osVocab, true, first(func(r *ParsedRelease) *string { return &r.OS }))
}

var versionRe = word(`v(\d+(?:\.\d+)*)`)

func matchVersion(w *workspace) []hit {
	return claimEach(w, ruleVersion, versionRe, 1, func(m []string, _ int) func(*ParsedRelease) {
		v := m[2]
		return func(r *ParsedRelease) { r.Version = v }
	})
}

var discRe = word(`(?:Disc|Disk|CD|DVD)[\s._-]?(\d{1,2})`)

func matchDisc(w *workspace) []hit {
	return claimEach(w, ruleDisc, discRe, 1, func(m []string, _ int) func(*ParsedRelease) {
		n := atoi(m[2])
		return func(r *ParsedRelease) { r.Disc = intPtr(n) }
	})
}
