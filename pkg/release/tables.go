package release

import "sort"

// Lexical tables. Canonical values come first in each term; aliases are any
// other spelling seen in the wild. Separators inside aliases are matched
// loosely, so "WEB-DL" also covers "WEB.DL", "WEB DL" and "WEBDL".

var sourceTerms = []term{
	{value: "Remux", aliases: []string{"BDRemux", "BD Remux"}, rank: 1},
	{value: "BluRay", aliases: []string{"Blu-Ray", "UHD BluRay", "UHD Blu-Ray"}},
	{value: "BDRip"},
	{value: "BRRip"},
	{value: "WEB-DL", aliases: []string{"Web Download"}},
	{value: "WEBRip"},
	{value: "WEB", guard: guardTitle},
	{value: "Web Capture"},
	{value: "HDTV"},
	{value: "PDTV"},
	{value: "SDTV"},
	{value: "DSR", aliases: []string{"DSRip"}},
	{value: "SATRip"},
	{value: "TVRip"},
	{value: "HDRip"},
	{value: "DVDRip"},
	{value: "DVDR", aliases: []string{"DVD-R"}},
	{value: "DVD5"},
	{value: "DVD9"},
	{value: "DVDSCR", aliases: []string{"DVD-SCR", "DVDScreener"}},
	{value: "DVD", guard: guardTitle},
	{value: "VHSRip"},
	{value: "PPVRip"},
	{value: "VODRip"},
	{value: "HCHDRip", aliases: []string{"HC HD Rip"}},
	{value: "HDCAM"},
	{value: "CAM", aliases: []string{"CAMRip"}, guard: guardTitle},
	{value: "TS", aliases: []string{"TeleSync", "HDTS"}, guard: guardTitle},
	{value: "TC", aliases: []string{"TeleCine", "HDTC"}, guard: guardTitle},
	{value: "SCR", aliases: []string{"Screener"}, guard: guardTitle},
	{value: "R5", guard: guardTitle},
	{value: "DDC", guard: guardTitle},
	{value: "DCP", guard: guardTitle},
	{value: "Workprint", aliases: []string{"WP"}, guard: guardTitle},
	{value: "Theater", aliases: []string{"Theatre"}, guard: guardTitle},
}

var formatTerms = []term{
	{value: "x264"},
	{value: "x265"},
	{value: "H.264", aliases: []string{"AVC1"}},
	{value: "H.265"},
	{value: "HEVC"},
	{value: "AVC"},
	{value: "XviD"},
	{value: "DivX"},
	{value: "SVCD"},
	{value: "VCD"},
	{value: "MPEG2", aliases: []string{"MPEG-2"}},
	{value: "MPEG4", aliases: []string{"MPEG-4"}},
	{value: "AV1"},
	{value: "VP9"},
	{value: "VC-1"},
}

var resolutionTerms = []term{
	{value: "4320p", aliases: []string{"8K"}, guard: guardTitle},
	{value: "2160p", aliases: []string{"2160i", "4K", "UHD"}, guard: guardTitle},
	{value: "1440p"},
	{value: "1080p", aliases: []string{"1080i"}},
	{value: "720p", aliases: []string{"720i"}},
	{value: "576p", aliases: []string{"576i"}},
	{value: "540p"},
	{value: "480p", aliases: []string{"480i"}},
	{value: "360p"},
	{value: "240p"},
}

var audioTerms = []term{
	{value: "TrueHD Atmos"},
	{value: "TrueHD"},
	{value: "DTS-HD MA", aliases: []string{"DTSHD.MA", "DTS-MA"}},
	{value: "DTS-HD", aliases: []string{"DTSHD"}},
	{value: "DTS-X"},
	{value: "DTS-ES"},
	{value: "DTS"},
	{value: "EAC3 Atmos", aliases: []string{"E-AC3 Atmos"}},
	{value: "EAC3", aliases: []string{"E-AC3", "E-AC-3"}},
	{value: "DDP Atmos", aliases: []string{"DD+ Atmos", "DDPA"}},
	{value: "DDP", aliases: []string{"DD+", "DDPlus", "DD Plus", "Dolby Digital Plus"}},
	{value: "DD", aliases: []string{"Dolby Digital"}, guard: guardTitle},
	{value: "AC3", aliases: []string{"AC-3"}},
	{value: "AAC"},
	{value: "MP3"},
	{value: "FLAC"},
	{value: "LPCM"},
	{value: "PCM"},
	{value: "Opus", guard: guardTitle},
	{value: "Atmos", guard: guardTitle},
}

var hdrTerms = []term{
	{value: "DV HDR10Plus", aliases: []string{"DV HDR10+", "DoVi HDR10+", "DoVi HDR10Plus"}},
	{value: "HDR10Plus", aliases: []string{"HDR10+"}},
	{value: "DV HDR10", aliases: []string{"DoVi HDR10"}},
	{value: "HDR10"},
	{value: "DV", aliases: []string{"DoVi", "Dolby Vision"}, guard: guardTitle},
	{value: "HDR", guard: guardTitle},
	{value: "HLG"},
}

var flagTerms = []term{
	{value: "READNFO", aliases: []string{"READ NFO"}},
	{value: "NFOFIX"},
	{value: "PROPER", guard: guardTitle},
	{value: "REPACK"},
	{value: "RERIP"},
	{value: "INTERNAL"},
	{value: "TV Dubbed"},
	{value: "Dubbed", guard: guardTitle},
	{value: "Subbed", guard: guardTitle},
	{value: "Hard Sub", aliases: []string{"Hard Subs"}},
	{value: "MultiSub"},
	{value: "Multi-Subs"},
	{value: "Dual Audio", guard: guardTitle},
	{value: "Uncut", guard: guardTitle},
	{value: "Uncensored", guard: guardTitle},
	{value: "Unrated", guard: guardTitle},
	{value: "Director's Cut", aliases: []string{"Directors Cut"}},
	{value: "Extended", aliases: []string{"Extended Cut", "Extended Edition"}, guard: guardTitle},
	{value: "Special Edition"},
	{value: "Collector's Edition", aliases: []string{"Collectors Edition"}},
	{value: "Ultimate Edition"},
	{value: "Limited", guard: guardTitle},
	{value: "Remastered", guard: guardTitle},
	{value: "IMAX HYBRID", guard: guardTitle},
	{value: "IMAX", guard: guardTitle},
	{value: "Hybrid", guard: guardTitle},
	{value: "Open Matte", guard: guardTitle},
	{value: "Criterion", guard: guardTitle},
	{value: "3D", guard: guardTitle},
	{value: "10bit", aliases: []string{"10-bit", "Hi10P"}},
	{value: "ANiME", guard: guardTitle},
	{value: "COMPLETE", guard: guardTitle},
	{value: "FESTIVAL", guard: guardTitle},
	{value: "RETAIL", guard: guardTitle},
	{value: "NUKED", guard: guardTitle},
	{value: "DUPE", guard: guardTitle},
}

// dualLanguageTerms are swept after sources so WEB-DL is already claimed.
var dualLanguageTerms = []term{
	{value: "DL", aliases: []string{"Dual Language"}, guard: guardTitle},
}

// multiSubFlags also mark the release as multilingual.
var multiSubFlags = map[string]bool{"MultiSub": true, "Multi-Subs": true}

// provider is one streaming platform and every spelling that denotes it.
type provider struct {
	code    string
	aliases []string
}

var providers = []provider{
	{"AMZN", []string{"Amazon", "Amazon Prime", "Prime Video", "Prime"}},
	{"NF", []string{"Netflix", "NFLX"}},
	{"DSNP", []string{"Disney+", "Disney Plus", "DSNY", "DNSP"}},
	{"DSNY", []string{"Disney", "Disney Channel"}},
	{"ATVP", []string{"Apple TV+", "AppleTV+", "Apple TV Plus", "ATV+"}},
	{"iT", []string{"iTunes"}},
	{"HMAX", []string{"HBO Max", "HBOMax"}},
	{"MAX", []string{"Max"}},
	{"HBO", []string{"HBO Go", "HBO Now"}},
	{"HULU", []string{"Hulu"}},
	{"PCOK", []string{"Peacock"}},
	{"PMTP", []string{"Paramount+", "Paramount Plus"}},
	{"PMNT", []string{"Paramount", "Paramount Network"}},
	{"CBS", []string{"CBS All Access", "CBSAA"}},
	{"STAN", []string{"Stan"}},
	{"SHO", []string{"Showtime", "SHOWTIME"}},
	{"STZ", []string{"Starz", "STARZ"}},
	{"CRAV", []string{"Crave"}},
	{"CR", []string{"Crunchyroll"}},
	{"FUNI", []string{"Funimation"}},
	{"HIDI", []string{"HIDIVE"}},
	{"VRV", nil},
	{"ABEMA", []string{"AbemaTV", "Abema"}},
	{"ADN", []string{"Animation Digital Network"}},
	{"B-Global", []string{"Bilibili", "BiliBili Global", "Bstation"}},
	{"iQIYI", []string{"IQ", "iQ"}},
	{"WeTV", nil},
	{"VIKI", []string{"Rakuten Viki", "Viki"}},
	{"VIU", []string{"Viu"}},
	{"KCW", []string{"Kocowa"}},
	{"WAVVE", []string{"Wavve"}},
	{"TVING", []string{"Tving"}},
	{"U-NEXT", []string{"UNEXT"}},
	{"DMM", []string{"DMM TV"}},
	{"NHK", []string{"NHK+"}},
	{"TVER", []string{"TVer"}},
	{"FOD", []string{"Fuji TV On Demand"}},
	{"LEMINO", []string{"Lemino"}},
	{"AT-X", nil},
	{"MX", []string{"Tokyo MX"}},
	{"BS11", nil},
	{"iP", []string{"BBC iPlayer", "iPlayer"}},
	{"BBC", nil},
	{"ITVX", []string{"ITV Hub", "ITV"}},
	{"ALL4", []string{"All 4", "Channel 4"}},
	{"MY5", []string{"My5", "Channel 5"}},
	{"NOW", []string{"NOW TV", "NowTV"}},
	{"SKST", []string{"SkyShowtime"}},
	{"SKY", []string{"Sky Go"}},
	{"BRIT", []string{"BritBox"}},
	{"ACRN", []string{"Acorn TV", "AcornTV"}},
	{"CBC", []string{"CBC Gem", "Gem"}},
	{"CTV", nil},
	{"GLBL", []string{"Global"}},
	{"CRKL", []string{"Crackle"}},
	{"TUBI", []string{"Tubi"}},
	{"PLUTO", []string{"Pluto TV", "PlutoTV"}},
	{"ROKU", []string{"Roku", "The Roku Channel"}},
	{"FREE", []string{"Freevee", "IMDb TV", "IMDbTV"}},
	{"PLAY", []string{"Google Play"}},
	{"MS", []string{"Microsoft Store", "Xbox Video"}},
	{"VUDU", []string{"Vudu"}},
	{"YT", []string{"YouTube", "YouTube Premium", "YouTube Red", "RED"}},
	{"MA", []string{"Movies Anywhere"}},
	{"MUBI", []string{"Mubi"}},
	{"CRIT", []string{"Criterion Channel"}},
	{"KNPY", []string{"Kanopy"}},
	{"SHDR", []string{"Shudder"}},
	{"AMC", []string{"AMC+", "AMC Plus"}},
	{"ANPL", []string{"Animal Planet"}},
	{"DSCP", []string{"Discovery+", "Discovery Plus"}},
	{"DISC", []string{"Discovery"}},
	{"NATG", []string{"National Geographic", "Nat Geo"}},
	{"HIST", []string{"History", "History Channel"}},
	{"A&E", []string{"AE"}},
	{"LIFE", []string{"Lifetime"}},
	{"TLC", nil},
	{"FOOD", []string{"Food Network"}},
	{"HGTV", nil},
	{"CC", []string{"Comedy Central"}},
	{"NICK", []string{"Nickelodeon"}},
	{"CN", []string{"Cartoon Network"}},
	{"AS", []string{"Adult Swim"}},
	{"FOX", []string{"Fox"}},
	{"FXNOW", []string{"FX Now"}},
	{"FX", nil},
	{"NBC", nil},
	{"ABC", nil},
	{"USAN", []string{"USA Network"}},
	{"SYFY", []string{"Syfy"}},
	{"TBS", nil},
	{"TNT", nil},
	{"CW", []string{"The CW"}},
	{"PBS", nil},
	{"ESPN", []string{"ESPN+"}},
	{"DAZN", nil},
	{"UFC", []string{"UFC Fight Pass"}},
	{"WWEN", []string{"WWE Network"}},
	{"CUR", []string{"CuriosityStream", "Curiosity Stream"}},
	{"MTV", nil},
	{"BET", []string{"BET+"}},
	{"EPIX", []string{"MGM+", "MGM Plus"}},
	{"ZEE5", []string{"Zee5"}},
	{"HS", []string{"Hotstar", "Disney+ Hotstar", "JioHotstar"}},
	{"JC", []string{"JioCinema"}},
	{"SNXT", []string{"SunNXT", "Sun NXT"}},
	{"ALTB", []string{"ALTBalaji"}},
	{"SONYLIV", []string{"SonyLIV", "Sony LIV"}},
	{"MX Player", nil},
	{"iFlix", nil},
	{"SHAHID", []string{"Shahid"}},
	{"OSN", []string{"OSN+"}},
	{"BNGE", []string{"Binge"}},
	{"KAYO", []string{"Kayo"}},
	{"9NOW", []string{"9Now"}},
	{"7PLUS", []string{"7plus"}},
	{"10PLUS", []string{"10 Play", "10play"}},
	{"SBS", []string{"SBS On Demand"}},
	{"ABC iview", []string{"iview"}},
	{"TVNZ", []string{"TVNZ+"}},
	{"NPO", []string{"NPO Start", "NPOStart"}},
	{"VTM", []string{"VTM GO"}},
	{"VIAP", []string{"Viaplay"}},
	{"CMOR", []string{"C More"}},
	{"TV2", []string{"TV 2 Play"}},
	{"TV4", []string{"TV4 Play"}},
	{"DRTV", []string{"DR TV"}},
	{"SVT", []string{"SVT Play"}},
	{"NRK", []string{"NRK TV"}},
	{"YLE", []string{"Yle Areena"}},
	{"RTL", []string{"RTL+", "RTL Plus", "TVNOW"}},
	{"JOYN", []string{"Joyn"}},
	{"ZDF", []string{"ZDFmediathek"}},
	{"ARD", []string{"ARD Mediathek"}},
	{"MAGENTA", []string{"MagentaTV"}},
	{"CANAL+", []string{"Canal Plus", "MyCanal"}},
	{"SALTO", []string{"Salto"}},
	{"FTV", []string{"france.tv"}},
	{"ARTE", []string{"Arte"}},
	{"RAIPLAY", []string{"RaiPlay"}},
	{"MEDIASET", []string{"Mediaset Infinity"}},
	{"TIMVISION", []string{"TimVision"}},
	{"ATRES", []string{"Atresplayer"}},
	{"MOVISTAR", []string{"Movistar+"}},
	{"FLMN", []string{"Filmin"}},
	{"GLOBOPLAY", []string{"Globoplay"}},
	{"CLARO", []string{"Claro Video"}},
	{"KPN", nil},
	{"ZIGGO", []string{"Ziggo"}},
	{"HOICHOI", []string{"Hoichoi"}},
	{"AHA", []string{"aha"}},
	{"MGTV", []string{"Mango TV"}},
	{"YOUKU", []string{"Youku"}},
	{"TX", []string{"Tencent Video"}},
	{"LINETV", []string{"LINE TV"}},
	{"FRIDAY", []string{"friDay Video"}},
	{"KKTV", nil},
	{"CATCHPLAY", []string{"CatchPlay+"}},
	{"MYVIDEO", []string{"myVideo"}},
	{"TVB", []string{"TVBAnywhere", "myTV SUPER"}},
	{"VIMEO", []string{"Vimeo"}},
	{"DROPOUT", []string{"Dropout"}},
	{"NEBULA", []string{"Nebula"}},
	{"CRITERION", nil},
	{"PATREON", []string{"Patreon"}},
}

// language is one row of the language table.
type language struct {
	code  string   // ISO 639-1, or "multi"
	alt   []string // three-letter codes
	name  string
	words []string // other spellings of the name
}

var languages = []language{
	{"en", []string{"eng"}, "English", nil},
	{"de", []string{"ger", "deu"}, "German", []string{"Deutsch"}},
	{"fr", []string{"fre", "fra"}, "French", []string{"Francais", "TRUEFRENCH", "VFF", "VFQ"}},
	{"es", []string{"spa"}, "Spanish", []string{"Espanol", "Castellano", "Latino"}},
	{"it", []string{"ita"}, "Italian", []string{"Italiano"}},
	{"pt", []string{"por"}, "Portuguese", []string{"Portugues"}},
	{"ru", []string{"rus"}, "Russian", nil},
	{"ja", []string{"jpn"}, "Japanese", nil},
	{"ko", []string{"kor"}, "Korean", nil},
	{"zh", []string{"chi", "zho"}, "Chinese", []string{"Mandarin", "Cantonese"}},
	{"nl", []string{"dut", "nld"}, "Dutch", []string{"Flemish"}},
	{"sv", []string{"swe"}, "Swedish", nil},
	{"no", []string{"nor"}, "Norwegian", []string{"NORDiC", "Norsk"}},
	{"da", []string{"dan"}, "Danish", nil},
	{"fi", nil, "Finnish", nil},
	{"pl", []string{"pol"}, "Polish", nil},
	{"cs", []string{"cze", "ces"}, "Czech", nil},
	{"hu", []string{"hun"}, "Hungarian", nil},
	{"tr", []string{"tur"}, "Turkish", nil},
	{"el", []string{"gre", "ell"}, "Greek", nil},
	{"he", []string{"heb"}, "Hebrew", nil},
	{"ar", []string{"ara"}, "Arabic", nil},
	{"hi", []string{"hin"}, "Hindi", nil},
	{"th", []string{"tha"}, "Thai", nil},
	{"vi", []string{"vie"}, "Vietnamese", nil},
	{"uk", []string{"ukr"}, "Ukrainian", nil},
	{"ro", []string{"rum", "ron"}, "Romanian", nil},
	{"bg", []string{"bul"}, "Bulgarian", nil},
	{"hr", []string{"hrv"}, "Croatian", nil},
	{"sr", []string{"srp"}, "Serbian", nil},
	{"sk", []string{"slk"}, "Slovak", nil},
	{"sl", []string{"slv"}, "Slovenian", nil},
	{"id", nil, "Indonesian", nil},
	{"fa", nil, "Persian", []string{"Farsi"}},
	{"ta", nil, "Tamil", nil},
	{"te", nil, "Telugu", nil},
	{"multi", nil, "Multilingual", []string{"Multi"}},
}

// countries decodes parenthesized country tags such as "(CA)".
var countries = map[string]string{
	"CA": "Canadian",
	"US": "American",
	"UK": "British",
	"AU": "Australian",
	"NZ": "New Zealand",
	"IE": "Irish",
	"DE": "German",
	"FR": "French",
	"JP": "Japanese",
	"KR": "Korean",
	"IN": "Indian",
	"BR": "Brazilian",
	"MX": "Mexican",
	"ES": "Spanish",
	"IT": "Italian",
	"NL": "Dutch",
}

var deviceTerms = []term{
	{value: "Xbox Series X", aliases: []string{"XSX"}, guard: guardTitle},
	{value: "Xbox 360", aliases: []string{"X360"}, guard: guardTitle},
	{value: "Xbox One", aliases: []string{"XB1"}, guard: guardTitle},
	{value: "Xbox", guard: guardTitle},
	{value: "PS5", guard: guardTitle},
	{value: "PS4", guard: guardTitle},
	{value: "PS3", guard: guardTitle},
	{value: "PS2", guard: guardTitle},
	{value: "PSP", guard: guardTitle},
	{value: "PS Vita", aliases: []string{"PSV"}, guard: guardTitle},
	{value: "Switch", aliases: []string{"NSW"}, guard: guardTitle},
	{value: "Wii U", guard: guardTitle},
	{value: "Wii", guard: guardTitle},
	{value: "3DS", guard: guardTitle},
	{value: "NDS", guard: guardTitle},
	{value: "GameCube", aliases: []string{"NGC"}, guard: guardTitle},
}

var osTerms = []term{
	{value: "Windows", aliases: []string{"WinAll", "Win32", "Win64"}, guard: guardTitle},
	{value: "Windows XP", aliases: []string{"WinXP"}, guard: guardTitle},
	{value: "Windows 7", aliases: []string{"Win7"}, guard: guardTitle},
	{value: "Windows 10", aliases: []string{"Win10"}, guard: guardTitle},
	{value: "Windows 11", aliases: []string{"Win11"}, guard: guardTitle},
	{value: "macOS", aliases: []string{"MacOSX", "Mac OS", "OSX", "OS X"}, guard: guardTitle},
	{value: "Linux", guard: guardTitle},
	{value: "Android", guard: guardTitle},
	{value: "iOS", guard: guardTitle},
	{value: "Unix", guard: guardTitle},
}

// bracketTags are bracket contents that describe subtitles or encodings,
// never a release group.
var bracketTags = map[string]bool{
	"gb": true, "big5": true, "chs": true, "cht": true, "sc": true, "tc": true,
	"raw": true, "raws": true, "multisub": true, "multisubs": true,
	"end": true, "fin": true, "batch": true, "v2": true,
}

var (
	sourceVocab     = newVocabulary(sourceTerms, "")
	formatVocab     = newVocabulary(formatTerms, "")
	resolutionVocab = newVocabulary(resolutionTerms, "")
	audioVocab      = newVocabulary(audioTerms, `(?:[\s._]?(\d\.\d))?`)
	hdrVocab        = newVocabulary(hdrTerms, "")
	flagVocab       = newVocabulary(flagTerms, "")
	dualVocab       = newVocabulary(dualLanguageTerms, "")
	providerVocab   = newVocabulary(providerTerms(), "")
	deviceVocab     = newVocabulary(deviceTerms, "")
	osVocab         = newVocabulary(osTerms, "")

	languageWordVocab  = newVocabulary(languageTerms(func(l language) []string { return l.words }, guardTitle), "")
	languageCodeVocab  = newVocabulary(languageTerms(func(l language) []string { return append([]string{l.code}, append(l.alt, l.words...)...) }, guardNone), "")
	languageAlt3Vocab  = newVocabulary(languageTerms(func(l language) []string { return l.alt }, guardAdjacent), "")
	languageCodeByName = func() map[string]string {
		m := make(map[string]string, len(languages))
		for _, l := range languages {
			m[l.name] = l.code
		}
		return m
	}()
)

func providerTerms() []term {
	terms := make([]term, len(providers))
	for i, p := range providers {
		terms[i] = term{value: p.code, aliases: p.aliases, guard: guardAdjacent}
	}
	return terms
}

// languageTerms builds one term per language, keyed by display name.
func languageTerms(spellings func(language) []string, g guard) []term {
	terms := make([]term, 0, len(languages))
	for _, l := range languages {
		if l.code == "multi" && g == guardAdjacent {
			continue
		}
		terms = append(terms, term{value: l.name, aliases: spellings(l), guard: g})
	}
	return terms
}

// languageCodes returns the keys of a language map in sorted order.
func languageCodes(m map[string]string) []string {
	codes := make([]string, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// sourceRank orders source values when several appear in one name.
func sourceRank(value string) int {
	if t, ok := sourceVocab.lookup(value); ok {
		return t.rank
	}
	return 0
}
