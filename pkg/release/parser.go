package release

import (
	"regexp"
	"strconv"
	"strings"
)

// Parser parses names of one content kind. It holds no mutable state and is
// safe for concurrent use.
type Parser struct {
	kind Kind
}

// New returns a Parser for kind.
func New(kind Kind) (*Parser, error) {
	k, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	return &Parser{kind: k}, nil
}

// MustNew is like New but panics on an unknown kind.
func MustNew(kind Kind) *Parser {
	p, err := New(kind)
	if err != nil {
		panic(err)
	}
	return p
}

// Kind returns the kind the parser was built with.
func (p *Parser) Kind() Kind {
	return p.kind
}

// Parse parses one release name. It never fails: anything it does not
// recognize ends up in the title fields.
func (p *Parser) Parse(name string) ParsedRelease {
	r, _ := run(name, p.kind)
	return r
}

func run(name string, kind Kind) (ParsedRelease, *workspace) {
	r := ParsedRelease{Release: name, Type: kind}
	w := newWorkspace(name, kind)
	for _, rl := range pipeline {
		for _, h := range rl.run(w) {
			h.apply(&r)
		}
	}
	resolveTitle(w, &r)
	return r, w
}

// ParseSeriesDirectory parses a series directory name such as
// "The Series Title! (2010) {tvdb-12345}".
func (p *Parser) ParseSeriesDirectory(name string) DirectoryInfo {
	r, _ := run(name, KindSeries)
	return r.Directory()
}

// ParseMovieDirectory parses a movie directory name.
func (p *Parser) ParseMovieDirectory(name string) DirectoryInfo {
	r, _ := run(name, KindMovie)
	return r.Directory()
}

var (
	seasonDirRe = regexp.MustCompile(`(?i)(?:^|[^[:alnum:]])season[\s_.\-]*(\d+)(?:[^[:alnum:]]|$)`)
	shortDirRe  = regexp.MustCompile(`(?i)^S(\d{1,2})$`)
	specialsRe  = regexp.MustCompile(`(?i)^specials?$`)
)

// ParseSeasonDirectory returns the season number of a season directory name
// ("Season 01", "S02", "Specials").
func (p *Parser) ParseSeasonDirectory(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if m := seasonDirRe.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	if m := shortDirRe.FindStringSubmatch(name); m != nil {
		return atoi(m[1]), true
	}
	if specialsRe.MatchString(name) {
		return 0, true
	}
	return 0, false
}

var driveRe = regexp.MustCompile(`^[A-Za-z]:$`)

// ParsePath parses a full path. Backslashes and slashes are equivalent and
// drive letters are ignored. The last segment is the file; a season
// directory above it and the series or movie directory above that are
// parsed when present. It reports false when the path has no segments.
func (p *Parser) ParsePath(path string) (PathInfo, bool) {
	var segs []string
	for _, s := range strings.Split(strings.ReplaceAll(path, `\`, "/"), "/") {
		if s == "" || s == "." || driveRe.MatchString(s) {
			continue
		}
		segs = append(segs, s)
	}
	if len(segs) == 0 {
		return PathInfo{}, false
	}

	n := len(segs) - 1
	info := PathInfo{Path: strings.Join(segs, "/"), File: p.Parse(segs[n])}
	dirs := segs[:n]
	if len(dirs) > 0 {
		if s, ok := p.ParseSeasonDirectory(dirs[len(dirs)-1]); ok {
			info.Season = intPtr(s)
			dirs = dirs[:len(dirs)-1]
		}
	}
	if len(dirs) > 0 {
		name := dirs[len(dirs)-1]
		var d DirectoryInfo
		if info.Season != nil || info.File.IsEpisodic() {
			d = p.ParseSeriesDirectory(name)
		} else {
			d = p.ParseMovieDirectory(name)
		}
		info.Directory = &d
	}
	return info, true
}
