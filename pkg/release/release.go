// Package release parses scene and P2P release names into structured records.
//
// A Parser runs an ordered list of token matchers over a working copy of the
// name. Each matcher claims the spans it recognizes so that later matchers and
// the title resolver only see unclaimed text.
package release

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the caller-declared content kind. It is never inferred.
type Kind string

const (
	KindTV     Kind = "tv"
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindTV, KindMovie, KindSeries:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Date is a calendar day without time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// newDate validates the day against the calendar.
func newDate(year, month, day int) (Date, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, true
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse(time.DateOnly, string(b))
	if err != nil {
		return fmt.Errorf("parse date: %w", err)
	}
	*d = Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	return nil
}

// ParsedRelease is the result of parsing one release name.
// String fields are empty when absent; pointer fields are nil when unset.
type ParsedRelease struct {
	Release      string `json:"release"`
	Type         Kind   `json:"type"`
	Title        string `json:"title"`
	TitleExtra   string `json:"title_extra"`
	EpisodeTitle string `json:"episode_title"`
	Group        string `json:"group"`

	Year    *int  `json:"year,omitempty"`
	Date    *Date `json:"date,omitempty"`
	Season  *int  `json:"season,omitempty"`
	Episode *int  `json:"episode,omitempty"` // set only for a single episode
	// Episodes lists every episode found, in ascending order for ranges.
	Episodes []int `json:"episodes,omitempty"`
	Disc     *int  `json:"disc,omitempty"`

	Flags []string `json:"flags,omitempty"`

	Source            string `json:"source"`
	Format            string `json:"format"`
	Resolution        string `json:"resolution"`
	Audio             string `json:"audio"`
	HDR               string `json:"hdr"`
	StreamingProvider string `json:"streaming_provider"`
	Device            string `json:"device"`
	OS                string `json:"os"`
	Version           string `json:"version"`
	Container         string `json:"container,omitempty"`
	Checksum          string `json:"checksum,omitempty"`

	TMDBID  string `json:"tmdb_id,omitempty"`
	TVDBID  string `json:"tvdb_id,omitempty"`
	IMDBID  string `json:"imdb_id,omitempty"`
	Edition string `json:"edition,omitempty"`

	Language map[string]string `json:"language,omitempty"`
}

// IsEpisodic reports whether the record carries any episode or date marker.
func (r *ParsedRelease) IsEpisodic() bool {
	return r.Season != nil || r.Episode != nil || len(r.Episodes) > 0 || r.Date != nil
}

// HasFlag reports whether flag was recognized, ignoring case.
func (r *ParsedRelease) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}

// Directory projects the record onto the fields a directory name can carry.
func (r *ParsedRelease) Directory() DirectoryInfo {
	return DirectoryInfo{
		Release: r.Release,
		Type:    r.Type,
		Title:   r.Title,
		Year:    r.Year,
		TMDBID:  r.TMDBID,
		TVDBID:  r.TVDBID,
		IMDBID:  r.IMDBID,
		Edition: r.Edition,
	}
}

func (r *ParsedRelease) addFlag(flag string) {
	if !r.HasFlag(flag) {
		r.Flags = append(r.Flags, flag)
	}
}

func (r *ParsedRelease) addLanguage(code, name string) {
	if r.Language == nil {
		r.Language = make(map[string]string)
	}
	if _, ok := r.Language[code]; !ok {
		r.Language[code] = name
	}
}

// DirectoryInfo is the subset of a ParsedRelease found in series and movie
// directory names.
type DirectoryInfo struct {
	Release string `json:"release"`
	Type    Kind   `json:"type"`
	Title   string `json:"title"`
	Year    *int   `json:"year,omitempty"`
	TMDBID  string `json:"tmdb_id,omitempty"`
	TVDBID  string `json:"tvdb_id,omitempty"`
	IMDBID  string `json:"imdb_id,omitempty"`
	Edition string `json:"edition,omitempty"`
}

// PathInfo combines the file, season directory and series or movie directory
// of a full path.
type PathInfo struct {
	Path      string         `json:"path"`
	Directory *DirectoryInfo `json:"directory,omitempty"`
	Season    *int           `json:"season,omitempty"`
	File      ParsedRelease  `json:"file"`
}

// TitleAgreement compares the file title with the directory title.
// It returns a zero-confidence result when there is no directory.
func (p *PathInfo) TitleAgreement() MatchResult {
	if p.Directory == nil || p.Directory.Title == "" || p.File.Title == "" {
		return MatchResult{Confidence: ConfidenceNone}
	}
	return MatchTitle(p.File.Title, []string{p.Directory.Title})
}

// Fields lists the names accepted by Get, in display order.
func Fields() []string {
	names := make([]string, len(accessors))
	for i, a := range accessors {
		names[i] = a.name
	}
	return names
}

type accessor struct {
	name string
	get  func(r *ParsedRelease) (string, bool)
}

func str(get func(r *ParsedRelease) string) func(r *ParsedRelease) (string, bool) {
	return func(r *ParsedRelease) (string, bool) { return get(r), true }
}

func optStr(get func(r *ParsedRelease) string) func(r *ParsedRelease) (string, bool) {
	return func(r *ParsedRelease) (string, bool) {
		v := get(r)
		return v, v != ""
	}
}

func optInt(get func(r *ParsedRelease) *int) func(r *ParsedRelease) (string, bool) {
	return func(r *ParsedRelease) (string, bool) {
		v := get(r)
		if v == nil {
			return "", false
		}
		return strconv.Itoa(*v), true
	}
}

var accessors = []accessor{
	{"release", str(func(r *ParsedRelease) string { return r.Release })},
	{"type", str(func(r *ParsedRelease) string { return string(r.Type) })},
	{"title", str(func(r *ParsedRelease) string { return r.Title })},
	{"title_extra", str(func(r *ParsedRelease) string { return r.TitleExtra })},
	{"episode_title", str(func(r *ParsedRelease) string { return r.EpisodeTitle })},
	{"group", str(func(r *ParsedRelease) string { return r.Group })},
	{"year", optInt(func(r *ParsedRelease) *int { return r.Year })},
	{"date", func(r *ParsedRelease) (string, bool) {
		if r.Date == nil {
			return "", false
		}
		return r.Date.String(), true
	}},
	{"season", optInt(func(r *ParsedRelease) *int { return r.Season })},
	{"episode", func(r *ParsedRelease) (string, bool) {
		if len(r.Episodes) == 0 {
			return "", false
		}
		parts := make([]string, len(r.Episodes))
		for i, e := range r.Episodes {
			parts[i] = strconv.Itoa(e)
		}
		return strings.Join(parts, ","), true
	}},
	{"disc", optInt(func(r *ParsedRelease) *int { return r.Disc })},
	{"flags", str(func(r *ParsedRelease) string { return strings.Join(r.Flags, ",") })},
	{"source", str(func(r *ParsedRelease) string { return r.Source })},
	{"format", str(func(r *ParsedRelease) string { return r.Format })},
	{"resolution", str(func(r *ParsedRelease) string { return r.Resolution })},
	{"audio", str(func(r *ParsedRelease) string { return r.Audio })},
	{"hdr", str(func(r *ParsedRelease) string { return r.HDR })},
	{"streaming_provider", str(func(r *ParsedRelease) string { return r.StreamingProvider })},
	{"device", str(func(r *ParsedRelease) string { return r.Device })},
	{"os", str(func(r *ParsedRelease) string { return r.OS })},
	{"version", str(func(r *ParsedRelease) string { return r.Version })},
	{"container", optStr(func(r *ParsedRelease) string { return r.Container })},
	{"checksum", optStr(func(r *ParsedRelease) string { return r.Checksum })},
	{"tmdb_id", optStr(func(r *ParsedRelease) string { return r.TMDBID })},
	{"tvdb_id", optStr(func(r *ParsedRelease) string { return r.TVDBID })},
	{"imdb_id", optStr(func(r *ParsedRelease) string { return r.IMDBID })},
	{"edition", optStr(func(r *ParsedRelease) string { return r.Edition })},
	{"language", func(r *ParsedRelease) (string, bool) {
		if len(r.Language) == 0 {
			return "", false
		}
		return strings.Join(languageCodes(r.Language), ","), true
	}},
}

var accessorIndex = func() map[string]int {
	m := make(map[string]int, len(accessors))
	for i, a := range accessors {
		m[a.name] = i
	}
	return m
}()

// Get returns the string form of the named field. It reports false for
// unknown names and for unset optional fields. Multiple episodes are joined
// with commas, as are flags and sorted language codes.
func (r *ParsedRelease) Get(field string) (string, bool) {
	i, ok := accessorIndex[strings.ToLower(field)]
	if !ok {
		return "", false
	}
	return accessors[i].get(r)
}
