package release

import (
	"fmt"
	"regexp"

	"github.com/hbollon/go-edlib"
)

var numberRe = regexp.MustCompile(`\b(\d+)\b`)

// MatchConfidence grades a title similarity score.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // below 0.70
	ConfidenceLow                           // 0.70 and up
	ConfidenceMedium                        // 0.85 and up
	ConfidenceHigh                          // 0.95 and up
)

var confidenceNames = map[MatchConfidence]string{
	ConfidenceHigh:   "high",
	ConfidenceMedium: "medium",
	ConfidenceLow:    "low",
	ConfidenceNone:   "none",
}

func (c MatchConfidence) String() string {
	if s, ok := confidenceNames[c]; ok {
		return s
	}
	return "none"
}

// MarshalText implements encoding.TextMarshaler.
func (c MatchConfidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *MatchConfidence) UnmarshalText(text []byte) error {
	v, ok := ParseConfidence(string(text))
	if !ok {
		return fmt.Errorf("unknown match confidence %q", text)
	}
	*c = v
	return nil
}

// ParseConfidence converts a confidence name back to its level.
func ParseConfidence(s string) (MatchConfidence, bool) {
	for c, name := range confidenceNames {
		if name == s {
			return c, true
		}
	}
	return ConfidenceNone, false
}

func confidenceFor(score float64) MatchConfidence {
	switch {
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.85:
		return ConfidenceMedium
	case score >= 0.70:
		return ConfidenceLow
	}
	return ConfidenceNone
}

// MatchResult is the best candidate for a parsed title.
type MatchResult struct {
	Title      string          `json:"title"`
	Score      float64         `json:"score"` // 0.0 to 1.0
	Confidence MatchConfidence `json:"confidence"`
}

// MatchTitle scores parsed against every candidate with Jaro-Winkler
// similarity over CleanTitle keys, adjusted for agreement of sequence
// numbers ("Rocky 3" against "Rocky III"). Title is empty when nothing
// reaches ConfidenceLow.
func MatchTitle(parsed string, candidates []string) MatchResult {
	best := MatchResult{Confidence: ConfidenceNone}
	if len(candidates) == 0 {
		return best
	}

	key := CleanTitle(parsed)
	nums := numberRe.FindAllString(key, -1)
	for _, c := range candidates {
		ckey := CleanTitle(c)
		score := float64(edlib.JaroWinklerSimilarity(key, ckey))
		score = numberAgreement(score, nums, numberRe.FindAllString(ckey, -1))
		if score > best.Score {
			best.Title, best.Score = c, score
		}
	}

	best.Confidence = confidenceFor(best.Score)
	if best.Confidence == ConfidenceNone {
		best.Title = ""
	}
	return best
}

// numberAgreement rewards a shared sequence number and penalizes a missing
// or different one. Titles without numbers are unaffected.
func numberAgreement(score float64, parsed, candidate []string) float64 {
	if len(parsed) == 0 {
		return score
	}
	if len(candidate) == 0 {
		return score * 0.85
	}
	have := make(map[string]bool, len(candidate))
	for _, n := range candidate {
		have[n] = true
	}
	for _, n := range parsed {
		if have[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
