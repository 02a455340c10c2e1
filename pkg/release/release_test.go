package release

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		input string
		check func(t *testing.T, r ParsedRelease)
	}{
		{
			name:  "german scene episode",
			kind:  KindTV,
			input: "24.S02E02.9.00.Uhr.bis.10.00.Uhr.German.DL.TV.Dubbed.DVDRip.SVCD.READ.NFO-c0nFuSed",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "24", r.Title)
				assert.Equal(t, ptr(2), r.Season)
				assert.Equal(t, ptr(2), r.Episode)
				assert.Equal(t, "9 00 Uhr bis 10 00 Uhr", r.EpisodeTitle)
				assert.Equal(t, "DVDRip", r.Source)
				assert.Equal(t, "SVCD", r.Format)
				assert.Equal(t, "c0nFuSed", r.Group)
				assert.Equal(t, []string{"TV Dubbed", "READNFO", "DL"}, r.Flags)
				assert.Equal(t, map[string]string{"de": "German"}, r.Language)
				assert.Empty(t, r.TitleExtra)
			},
		},
		{
			name:  "movie with tmdb id and technical blocks",
			kind:  KindMovie,
			input: "12.12 The Day (2023) {tmdb-919207} [Remux-1080p][TrueHD 5.1][AVC]-HBO",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "12 12 The Day", r.Title)
				assert.Equal(t, ptr(2023), r.Year)
				assert.Equal(t, "919207", r.TMDBID)
				assert.Equal(t, "Remux", r.Source)
				assert.Equal(t, "1080p", r.Resolution)
				assert.Equal(t, "TrueHD 5.1", r.Audio)
				assert.Equal(t, "AVC", r.Format)
				assert.Equal(t, "HBO", r.Group)
				assert.Empty(t, r.StreamingProvider)
				assert.Empty(t, r.TitleExtra)
			},
		},
		{
			name:  "episode title between marker and blocks",
			kind:  KindTV,
			input: "Arrow (2012) - S05E04 - Penance [Bluray-1080p Remux][DTS-HD MA 5.1][AVC]-EPSiLON",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Arrow", r.Title)
				assert.Equal(t, ptr(2012), r.Year)
				assert.Equal(t, ptr(5), r.Season)
				assert.Equal(t, ptr(4), r.Episode)
				assert.Equal(t, "Penance", r.EpisodeTitle)
				assert.Equal(t, "DTS-HD MA 5.1", r.Audio)
				assert.Equal(t, "Remux", r.Source)
				assert.Equal(t, "1080p", r.Resolution)
				assert.Equal(t, "EPSiLON", r.Group)
				assert.Empty(t, r.StreamingProvider)
			},
		},
		{
			name:  "tvdb id with hdr and proper",
			kind:  KindTV,
			input: "Seinfeld (1989) {tvdb-79169} - S01E01 - The Seinfeld Chronicles [Bluray-2160p Remux Proper][DV HDR10][DTS-HD MA 5.1][HEVC]-NEWMAN",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Seinfeld", r.Title)
				assert.Equal(t, "79169", r.TVDBID)
				assert.Equal(t, "DV HDR10", r.HDR)
				assert.Equal(t, []string{"PROPER"}, r.Flags)
				assert.Equal(t, "The Seinfeld Chronicles", r.EpisodeTitle)
				assert.Equal(t, "Remux", r.Source)
				assert.Equal(t, "2160p", r.Resolution)
				assert.Equal(t, "HEVC", r.Format)
				assert.Equal(t, "NEWMAN", r.Group)
			},
		},
		{
			name:  "streaming provider next to resolution",
			kind:  KindMovie,
			input: "Sharks.of.the.Corn.2021.1080p.AMZN.WEB-DL.DDP2.0.H.264-SQS",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Sharks of the Corn", r.Title)
				assert.Equal(t, ptr(2021), r.Year)
				assert.Equal(t, "AMZN", r.StreamingProvider)
				assert.Equal(t, "WEB-DL", r.Source)
				assert.Equal(t, "DDP 2.0", r.Audio)
				assert.Equal(t, "H.264", r.Format)
				assert.Equal(t, "SQS", r.Group)
			},
		},
		{
			name:  "canonical spellings",
			kind:  KindMovie,
			input: "Dune.Part.Two.2024.2160p.MA.WEBDL.DV.HDR10+.TrueHD.Atmos.7.1.H.265-GROUP",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Dune Part Two", r.Title)
				assert.Equal(t, "MA", r.StreamingProvider)
				assert.Equal(t, "WEB-DL", r.Source)
				assert.Equal(t, "DV HDR10Plus", r.HDR)
				assert.Equal(t, "TrueHD Atmos 7.1", r.Audio)
				assert.Equal(t, "H.265", r.Format)
				assert.Equal(t, "2160p", r.Resolution)
				assert.Equal(t, "GROUP", r.Group)
			},
		},
		{
			name:  "bracketed year and subtitle block",
			kind:  KindMovie,
			input: "Letters.From.Iwo.Jima[2006]DvDrip[Eng.Hard.Sub]-aXXo",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Letters From Iwo Jima", r.Title)
				assert.Equal(t, ptr(2006), r.Year)
				assert.Equal(t, "DVDRip", r.Source)
				assert.Equal(t, []string{"Hard Sub"}, r.Flags)
				assert.Equal(t, map[string]string{"en": "English"}, r.Language)
				assert.Equal(t, "aXXo", r.Group)
			},
		},
		{
			name:  "title from bracket groups",
			kind:  KindTV,
			input: "[GM-Team][国漫][仙逆][Renegade Immortal][2023][119][AVC][GB][1080P]",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Renegade Immortal", r.Title)
				assert.Nil(t, r.Season)
				assert.Equal(t, ptr(119), r.Episode)
				assert.Equal(t, ptr(2023), r.Year)
				assert.Equal(t, "GM-Team", r.Group)
				assert.Equal(t, "AVC", r.Format)
				assert.Equal(t, "1080p", r.Resolution)
			},
		},
		{
			name:  "anime fansub release",
			kind:  KindTV,
			input: "[Erai-raws] Xian Wang de Richang Shenghuo S5 - 01 [1080p CR WEB-DL AVC AAC][MultiSub][2B267646].mkv",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Xian Wang de Richang Shenghuo", r.Title)
				assert.Equal(t, ptr(5), r.Season)
				assert.Equal(t, ptr(1), r.Episode)
				assert.Equal(t, "Erai-raws", r.Group)
				assert.Equal(t, "CR", r.StreamingProvider)
				assert.Equal(t, "WEB-DL", r.Source)
				assert.Equal(t, "AAC", r.Audio)
				assert.Equal(t, []string{"MultiSub"}, r.Flags)
				assert.Equal(t, map[string]string{"multi": "Multilingual"}, r.Language)
				assert.Equal(t, "2B267646", r.Checksum)
				assert.Equal(t, "mkv", r.Container)
				assert.Empty(t, r.EpisodeTitle)
			},
		},
		{
			name:  "country tag",
			kind:  KindTV,
			input: "The.Office.(US).S01E01.720p.HDTV.x264-LOL",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "The Office", r.Title)
				assert.Equal(t, map[string]string{"us": "American"}, r.Language)
				assert.Equal(t, "HDTV", r.Source)
				assert.Equal(t, "x264", r.Format)
				assert.Equal(t, "LOL", r.Group)
			},
		},
		{
			name:  "absolute episode without season",
			kind:  KindTV,
			input: "Running.Man.E780.This.is.the.Romance.of.It.Continues.720p.VIU.WEB-DL.AAC2.0.H.264-MMR",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Running Man", r.Title)
				assert.Nil(t, r.Season)
				assert.Equal(t, ptr(780), r.Episode)
				assert.Equal(t, "This is the Romance of It Continues", r.EpisodeTitle)
				assert.Equal(t, "VIU", r.StreamingProvider)
				assert.Equal(t, "AAC 2.0", r.Audio)
				assert.Equal(t, "MMR", r.Group)
			},
		},
		{
			name:  "hyphenated absolute episode",
			kind:  KindTV,
			input: "Anime Title - 05 [1080p]",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Anime Title", r.Title)
				assert.Nil(t, r.Season)
				assert.Equal(t, ptr(5), r.Episode)
				assert.Equal(t, "1080p", r.Resolution)
			},
		},
		{
			name:  "daily show date",
			kind:  KindTV,
			input: "The.Daily.Show.2024.01.15.Guest.Name.720p.WEB.h264-GRP",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "The Daily Show", r.Title)
				assert.Equal(t, &Date{Year: 2024, Month: time.January, Day: 15}, r.Date)
				assert.Equal(t, ptr(2024), r.Year)
				assert.Nil(t, r.Season)
				assert.Nil(t, r.Episode)
				assert.Equal(t, "Guest Name", r.EpisodeTitle)
				assert.Equal(t, "WEB", r.Source)
				assert.Equal(t, "H.264", r.Format)
			},
		},
		{
			name:  "multi episode range",
			kind:  KindTV,
			input: "Show.Name.S01E01-E03.1080p.WEB-DL.x264-GRP",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Show Name", r.Title)
				assert.Equal(t, ptr(1), r.Season)
				assert.Nil(t, r.Episode)
				assert.Equal(t, []int{1, 2, 3}, r.Episodes)
			},
		},
		{
			name:  "internal is a flag",
			kind:  KindMovie,
			input: "Movie.Title.2019.iNTERNAL.1080p.BluRay.x264-GRP",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Movie Title", r.Title)
				assert.Equal(t, []string{"INTERNAL"}, r.Flags)
				assert.Equal(t, "BluRay", r.Source)
			},
		},
		{
			name:  "bare channel layout is not audio",
			kind:  KindMovie,
			input: "Some.Movie.2010.1080p.BluRay.5.1.x264-GRP",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Some Movie", r.Title)
				assert.Empty(t, r.Audio)
			},
		},
		{
			name:  "title words that look like vocabulary",
			kind:  KindMovie,
			input: "Mad.Max.Fury.Road.2015.1080p.BluRay.x264-GRP",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Mad Max Fury Road", r.Title)
				assert.Empty(t, r.StreamingProvider)
			},
		},
		{
			name:  "imdb id and edition",
			kind:  KindMovie,
			input: "Blade Runner (1982) {imdb-tt0083658} {edition-Final Cut} [Bluray-2160p][HEVC]-GRP",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Blade Runner", r.Title)
				assert.Equal(t, "tt0083658", r.IMDBID)
				assert.Equal(t, "Final Cut", r.Edition)
				assert.Equal(t, "BluRay", r.Source)
			},
		},
		{
			name:  "all-digit crc that is not a date",
			kind:  KindTV,
			input: "[SubsPlease] The Daily Life of the Immortal King S5 - 02 (1080p) [66856162].mkv",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "The Daily Life of the Immortal King", r.Title)
				assert.Equal(t, ptr(5), r.Season)
				assert.Equal(t, ptr(2), r.Episode)
				assert.Equal(t, "1080p", r.Resolution)
				assert.Equal(t, "SubsPlease", r.Group)
				assert.Equal(t, "66856162", r.Checksum)
				assert.Empty(t, r.TitleExtra)
			},
		},
		{
			name:  "bracketed compact date is not a crc",
			kind:  KindTV,
			input: "Show Name [20240101] [1080p].mkv",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Empty(t, r.Checksum)
			},
		},
		{
			name:  "single letter edition keeps hyphen",
			kind:  KindMovie,
			input: "The Movie Title (2019) [U-Edition] [Bluray-1080p][x264]-GRP",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "The Movie Title", r.Title)
				assert.Equal(t, "U-Edition", r.Edition)
			},
		},
		{
			name:  "imax hybrid is one flag",
			kind:  KindMovie,
			input: "The Movie Title (2010) {imdb-tt0066921} {edition-Ultimate Extended Edition} [IMAX HYBRID][Bluray-1080p Remux Proper][3D][DV HDR10][DTS 5.1][x264]-RlsGrp",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Ultimate Extended Edition", r.Edition)
				assert.Contains(t, r.Flags, "IMAX HYBRID")
				assert.NotContains(t, r.Flags, "IMAX")
				assert.NotContains(t, r.Flags, "Hybrid")
				assert.Contains(t, r.Flags, "3D")
				assert.Equal(t, "DV HDR10", r.HDR)
				assert.Equal(t, "Remux", r.Source)
				assert.Equal(t, "x264", r.Format)
			},
		},
		{
			name:  "dual language tag beside web-dl",
			kind:  KindMovie,
			input: "Movie.Title.2020.German.DL.1080p.WEB-DL.h264-GRP",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Movie Title", r.Title)
				assert.Equal(t, "WEB-DL", r.Source)
				assert.Equal(t, "H.264", r.Format)
				assert.Equal(t, []string{"DL"}, r.Flags)
				assert.Equal(t, map[string]string{"de": "German"}, r.Language)
				assert.Empty(t, r.TitleExtra)
			},
		},
		{
			name:  "no season or episode marker under tv",
			kind:  KindTV,
			input: "Some.Documentary.1080p.HDTV.x264-GRP",
			check: func(t *testing.T, r ParsedRelease) {
				assert.Equal(t, "Some Documentary", r.Title)
				assert.Nil(t, r.Season)
				assert.Empty(t, r.Episodes)
				assert.Empty(t, r.EpisodeTitle)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := MustNew(tt.kind).Parse(tt.input)
			assert.Equal(t, tt.input, r.Release)
			assert.Equal(t, tt.kind, r.Type)
			tt.check(t, r)
		})
	}
}

// Resolution tokens must never be read as a bare episode number.
func TestParse_ResolutionBeforeEpisode(t *testing.T) {
	p := MustNew(KindTV)
	for _, name := range []string{
		"Anime Title 2 - 1080p",
		"Anime Title - 1080p",
		"Show 1 - 720p [AAC]",
	} {
		t.Run(name, func(t *testing.T) {
			r := p.Parse(name)
			assert.NotEmpty(t, r.Resolution)
			for _, e := range r.Episodes {
				assert.NotEqual(t, 1080, e)
				assert.NotEqual(t, 720, e)
			}
		})
	}

	r := p.Parse("Anime Title 2 - 1080p")
	assert.Equal(t, "1080p", r.Resolution)
	assert.Nil(t, r.Season)
	assert.Nil(t, r.Episode)
	assert.Equal(t, "Anime Title 2", r.Title)
}

func TestParse_Degenerate(t *testing.T) {
	inputs := []string{"", " ", "\t\n", "....", "---", "[]", "(((", "]]]", "ÄÖÜ 日本語", "\xff\xfe"}
	for _, kind := range []Kind{KindTV, KindMovie, KindSeries} {
		p := MustNew(kind)
		for _, in := range inputs {
			assert.NotPanics(t, func() {
				r := p.Parse(in)
				assert.Equal(t, in, r.Release)
			}, "kind=%s input=%q", kind, in)
		}
	}
}

func TestParse_Deterministic(t *testing.T) {
	p := MustNew(KindTV)
	name := "Seinfeld (1989) {tvdb-79169} - S01E01 - The Seinfeld Chronicles [Bluray-2160p Remux Proper][DV HDR10][DTS-HD MA 5.1][HEVC]-NEWMAN"
	first := p.Parse(name)
	for range 20 {
		assert.Equal(t, first, p.Parse(name))
	}
}

func TestParse_SpansDisjoint(t *testing.T) {
	names := []string{
		"24.S02E02.9.00.Uhr.bis.10.00.Uhr.German.DL.TV.Dubbed.DVDRip.SVCD.READ.NFO-c0nFuSed",
		"12.12 The Day (2023) {tmdb-919207} [Remux-1080p][TrueHD 5.1][AVC]-HBO",
		"[Erai-raws] Xian Wang de Richang Shenghuo S5 - 01 [1080p CR WEB-DL AVC AAC][MultiSub][2B267646].mkv",
	}
	for _, name := range names {
		_, w := run(name, KindTV)
		assertDisjoint(t, w.spans)
	}
}

func assertDisjoint(t *testing.T, spans []span) {
	t.Helper()
	for i, a := range spans {
		assert.Less(t, a.start, a.end, "empty span %+v", a)
		for _, b := range spans[i+1:] {
			assert.True(t, a.end <= b.start || b.end <= a.start, "spans overlap: %+v %+v", a, b)
		}
	}
}

func TestTidy_Idempotent(t *testing.T) {
	for _, s := range []string{
		"The.Matrix.",
		" - Penance  ",
		"[ ] Title ( )",
		"a__b..c",
		"Title - (",
		"already clean",
	} {
		once := tidy(s)
		assert.Equal(t, once, tidy(once), "input %q", s)
	}
	assert.Equal(t, "The Matrix", tidy("The.Matrix."))
	assert.Equal(t, "Penance", tidy(" - Penance  "))
}

func TestPrecedence(t *testing.T) {
	order := Precedence()
	index := make(map[string]int, len(order))
	for i, n := range order {
		index[n] = i
	}
	require.Len(t, index, len(order), "duplicate rule names")

	before := [][2]string{
		{ruleIDs, ruleBrackets},
		{ruleBrackets, ruleFlags},
		{ruleFlags, ruleHDR},
		{ruleHDR, ruleAudio},
		{ruleAudio, ruleSource},
		{ruleSource, ruleFormat},
		{ruleFormat, ruleResolution},
		{ruleResolution, ruleProvider},
		{ruleProvider, ruleLanguage},
		{ruleLanguage, ruleYearDate},
		{ruleYearDate, ruleEpisode},
		{ruleEpisode, ruleGroup},
		{ruleGroup, ruleDevice},
	}
	for _, pair := range before {
		assert.Less(t, index[pair[0]], index[pair[1]], "%s must run before %s", pair[0], pair[1])
	}

	// The returned slice is a copy.
	order[0] = "changed"
	assert.Equal(t, ruleContainer, Precedence()[0])
}

func TestNew(t *testing.T) {
	p, err := New("TV")
	require.NoError(t, err)
	assert.Equal(t, KindTV, p.Kind())

	_, err = New("music")
	require.ErrorIs(t, err, ErrUnknownKind)
	assert.Panics(t, func() { MustNew("music") })
}

func TestParsedRelease_Get(t *testing.T) {
	r := MustNew(KindTV).Parse("Show.Name.S01E01-E03.1080p.AMZN.WEB-DL.DDP5.1.H.264-GRP")

	tests := []struct {
		field string
		want  string
		ok    bool
	}{
		{"title", "Show Name", true},
		{"TITLE", "Show Name", true},
		{"season", "1", true},
		{"episode", "1,2,3", true},
		{"resolution", "1080p", true},
		{"streaming_provider", "AMZN", true},
		{"audio", "DDP 5.1", true},
		{"group", "GRP", true},
		{"type", "tv", true},
		{"episode_title", "", true},
		{"year", "", false},
		{"tmdb_id", "", false},
		{"language", "", false},
		{"no_such_field", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := r.Get(tt.field)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsedRelease_GetMatchesTypedFields(t *testing.T) {
	r := MustNew(KindTV).Parse("The.Daily.Show.2024.01.15.Guest.Name.720p.WEB.h264-GRP")
	date, ok := r.Get("date")
	require.True(t, ok)
	assert.Equal(t, r.Date.String(), date)

	year, ok := r.Get("year")
	require.True(t, ok)
	assert.Equal(t, "2024", year)

	assert.Len(t, Fields(), len(accessors))
	for _, f := range Fields() {
		_, _ = r.Get(f) // every listed field is accepted
	}
}

func TestParsedRelease_JSON(t *testing.T) {
	r := MustNew(KindTV).Parse("The.Daily.Show.2024.01.15.Guest.Name.720p.WEB.h264-GRP")
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":"2024-01-15"`)

	var back ParsedRelease
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"tv", "movie", "series", " Movie "} {
		_, err := ParseKind(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseKind("")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNewDate(t *testing.T) {
	_, ok := newDate(2024, 2, 29)
	assert.True(t, ok)
	_, ok = newDate(2023, 2, 29)
	assert.False(t, ok)
	_, ok = newDate(2023, 13, 1)
	assert.False(t, ok)
}

func TestLexKey(t *testing.T) {
	assert.Equal(t, lexKey("WEB-DL"), lexKey("web.dl"))
	assert.Equal(t, lexKey("WEB DL"), lexKey("webdl"))
	t1, ok := providerVocab.lookup("prime video")
	require.True(t, ok)
	assert.Equal(t, "AMZN", t1.value)
	t2, ok := providerVocab.lookup("Disney+")
	require.True(t, ok)
	assert.Equal(t, "DSNP", t2.value)
}

func TestProviders_LongestAliasWins(t *testing.T) {
	r := MustNew(KindMovie).Parse("Movie.2020.1080p.Disney+.WEB-DL.DDP5.1.H.264-GRP")
	assert.Equal(t, "DSNP", r.StreamingProvider)
}

func TestProviders_TableSize(t *testing.T) {
	n := 0
	for _, p := range providers {
		n += 1 + len(p.aliases)
	}
	assert.GreaterOrEqual(t, n, 200)
}

func FuzzParse(f *testing.F) {
	for _, s := range []string{
		"",
		"24.S02E02.9.00.Uhr.bis.10.00.Uhr.German.DL.TV.Dubbed.DVDRip.SVCD.READ.NFO-c0nFuSed",
		"[GM-Team][国漫][仙逆][Renegade Immortal][2023][119][AVC][GB][1080P]",
		"Anime Title 2 - 1080p",
		"((([[[{{{",
	} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, name string) {
		for _, kind := range []Kind{KindTV, KindMovie, KindSeries} {
			r, w := run(name, kind)
			if r.Release != name {
				t.Fatalf("release changed: %q", r.Release)
			}
			if tidy(r.Title) != r.Title {
				t.Fatalf("title not normalized: %q", r.Title)
			}
			for i, a := range w.spans {
				for _, b := range w.spans[i+1:] {
					if a.end > b.start && b.end > a.start {
						t.Fatalf("spans overlap: %+v %+v", a, b)
					}
				}
			}
		}
	})
}
