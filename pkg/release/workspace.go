package release

import "regexp"

// span is a claimed byte range [start, end) of the input.
type span struct {
	start, end int
	rule       string
}

// workspace is the working text of one parse. Claimed bytes are blanked in
// buf so offsets into it always match offsets into src.
type workspace struct {
	src   string
	buf   []byte
	owner []string
	spans []span

	// marker is the episode or date token the title resolver splits on.
	marker *span

	kind    Kind
	inBlock bool // interior of a technical block
	codes   bool // bare language codes are accepted

	// boundary caches titleBoundary until a claim lands before it.
	boundary   int
	boundaryOK bool
}

func newWorkspace(name string, kind Kind) *workspace {
	return &workspace{
		src:   name,
		buf:   []byte(name),
		owner: make([]string, len(name)),
		kind:  kind,
	}
}

func (w *workspace) text() string {
	return string(w.buf)
}

// claim marks [start, end) as owned by rule. Bytes already owned keep their
// owner, so the recorded spans never overlap.
func (w *workspace) claim(start, end int, rule string) {
	start, end = max(start, 0), min(end, len(w.buf))
	if w.boundaryOK && start < w.boundary {
		w.boundaryOK = false
	}
	for i := start; i < end; {
		if w.owner[i] != "" {
			i++
			continue
		}
		j := i
		for j < end && w.owner[j] == "" {
			w.owner[j] = rule
			w.buf[j] = ' '
			j++
		}
		w.spans = append(w.spans, span{start: i, end: j, rule: rule})
		i = j
	}
}

func (w *workspace) claimed(i int) bool {
	return i >= 0 && i < len(w.owner) && w.owner[i] != ""
}

// titleStart returns the first unclaimed byte that is not a separator, or -1.
func (w *workspace) titleStart() int {
	for i := range w.buf {
		if !w.claimed(i) && !isSeparatorByte(w.buf[i]) {
			return i
		}
	}
	return -1
}

// nextClaim returns the start of the first span at or after pos.
func (w *workspace) nextClaim(pos int) int {
	next := len(w.buf)
	for _, s := range w.spans {
		if s.start >= pos && s.start < next {
			next = s.start
		}
	}
	return next
}

// claimedBefore reports whether any span ends at or before pos.
func (w *workspace) claimedBefore(pos int) bool {
	for _, s := range w.spans {
		if s.end <= pos {
			return true
		}
	}
	return false
}

var boundaryHint = regexp.MustCompile(`(?i)` + wordStart +
	`((?:19|20|21)\d{2}|S\d{1,2}E\d{1,3}|S\d{1,2}|\d{1,2}x\d{1,3}|E\d{2,4}|Season|Episode)` + wordEnd)

// titleBoundary estimates where the title ends: the first claimed span or
// year or episode looking token after the title start. Claims at or past the
// boundary cannot move it.
func (w *workspace) titleBoundary() int {
	if !w.boundaryOK {
		w.boundary, w.boundaryOK = w.findTitleBoundary(), true
	}
	return w.boundary
}

func (w *workspace) findTitleBoundary() int {
	start := w.titleStart()
	if start < 0 {
		return 0
	}
	bound := w.nextClaim(start)
	text := w.text()
	for off := start; off < bound; {
		loc := boundaryHint.FindStringSubmatchIndex(text[off:])
		if loc == nil {
			break
		}
		if s := off + loc[2]; s > start {
			return min(s, bound)
		}
		off += loc[3]
	}
	return bound
}

// technicalRules own tokens that only occur in the technical tail of a name.
var technicalRules = map[string]bool{
	ruleBrackets:   true,
	ruleFlags:      true,
	ruleHDR:        true,
	ruleAudio:      true,
	ruleSource:     true,
	ruleFormat:     true,
	ruleResolution: true,
	ruleProvider:   true,
}

// touchesTechnical reports whether [start, end) has a technical span as its
// neighbour, looking past separators only.
func (w *workspace) touchesTechnical(start, end int) bool {
	i := start - 1
	for i >= 0 && !w.claimed(i) && isSeparatorByte(w.src[i]) {
		i--
	}
	if i >= 0 && technicalRules[w.owner[i]] {
		return true
	}
	j := end
	for j < len(w.src) && !w.claimed(j) && isSeparatorByte(w.src[j]) {
		j++
	}
	return j < len(w.src) && technicalRules[w.owner[j]]
}

// trailingGroupSlot reports whether [start, end) is the "-GROUP" suffix of
// the name.
func (w *workspace) trailingGroupSlot(start, end int) bool {
	if start == 0 || w.src[start-1] != '-' {
		return false
	}
	for j := end; j < len(w.src); j++ {
		if r := w.owner[j]; r == ruleContainer || r == ruleChecksum {
			continue
		}
		if !isSeparatorByte(w.src[j]) {
			return false
		}
	}
	return true
}

// allows applies a term's guard to a token found in the working text.
func (w *workspace) allows(t token) bool {
	if w.inBlock {
		return true
	}
	switch t.term.guard {
	case guardTitle:
		return t.start >= w.titleBoundary() || w.touchesTechnical(t.start, t.end)
	case guardAdjacent:
		return w.touchesTechnical(t.start, t.end) && !w.trailingGroupSlot(t.start, t.end)
	}
	return true
}
