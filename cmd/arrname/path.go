package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrname/pkg/release"
)

var pathCmd = &cobra.Command{
	Use:   "path <path>...",
	Short: "Parse a library file path",
	Long: `Parse a full file path, using the parent directories as season and
series or movie directories. Windows and Unix separators are both accepted.

Examples:
  arrname path "/tv/The Series (2010)/Season 01/The Series (2010) - S01E01 - Pilot [WEBDL-1080p]-GRP.mkv"
  arrname path --kind movie 'D:\Movies\Inception (2010)\Inception.2010.1080p.BluRay.x264-GRP.mkv'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPathCmd,
}

var dirCmd = &cobra.Command{
	Use:   "dir <directory-name>",
	Short: "Parse a series, movie or season directory name",
	Long: `Parse a single directory name.

Examples:
  arrname dir "The Series Title! (2010) {tvdb-12345}"
  arrname dir --type movie "Blade Runner (1982) {imdb-tt0083658} {edition-Final Cut}"
  arrname dir --type season "Season 03"`,
	Args: cobra.ExactArgs(1),
	RunE: runDirCmd,
}

func init() {
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(dirCmd)
	pathCmd.Flags().StringP("kind", "k", "", "Parser kind: tv, movie or series (default from config)")
	dirCmd.Flags().StringP("type", "t", "series", "Directory type: series, movie or season")
	_ = pathCmd.RegisterFlagCompletionFunc("kind", completeKinds)
	_ = dirCmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"series", "movie", "season"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// pathResult adds the title agreement to a PathInfo for output.
type pathResult struct {
	release.PathInfo
	Agreement release.MatchResult `json:"agreement"`
}

func runPathCmd(cmd *cobra.Command, args []string) error {
	kindFlag, _ := cmd.Flags().GetString("kind")
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	if kindFlag == "" {
		kindFlag = cfg.Parser.Kind
	}
	p, err := release.New(release.Kind(kindFlag))
	if err != nil {
		return err
	}

	results := make([]pathResult, 0, len(args))
	for _, arg := range args {
		info, ok := p.ParsePath(arg)
		if !ok {
			return fmt.Errorf("no file name in path %q", arg)
		}
		results = append(results, pathResult{PathInfo: info, Agreement: info.TitleAgreement()})
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, results)
	}
	colorize := shouldColorize(out)
	for i := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		printPath(out, &results[i], colorize)
	}
	return nil
}

func printPath(w io.Writer, r *pathResult, colorize bool) {
	_, _ = fmt.Fprintf(w, "Path:        %s\n", r.Path)
	if d := r.Directory; d != nil {
		_, _ = fmt.Fprintf(w, "Directory:   %s (%s)\n", directoryLabel(d), d.Type)
	}
	if r.Season != nil {
		_, _ = fmt.Fprintf(w, "Season dir:  %d\n", *r.Season)
	}
	if r.Directory != nil {
		_, _ = fmt.Fprintf(w, "Agreement:   %s (%.2f)\n", r.Agreement.Confidence, r.Agreement.Score)
	}
	printRelease(w, &r.File, colorize)
}

func directoryLabel(d *release.DirectoryInfo) string {
	label := valueOrEmpty(d.Title)
	if d.Year != nil {
		label += " (" + strconv.Itoa(*d.Year) + ")"
	}
	return label
}

func runDirCmd(cmd *cobra.Command, args []string) error {
	dirType, _ := cmd.Flags().GetString("type")
	out := cmd.OutOrStdout()
	name := args[0]

	var p *release.Parser
	switch dirType {
	case "series":
		p = release.MustNew(release.KindSeries)
	case "movie":
		p = release.MustNew(release.KindMovie)
	case "season":
		season, ok := release.MustNew(release.KindTV).ParseSeasonDirectory(name)
		if !ok {
			return fmt.Errorf("%q is not a season directory", name)
		}
		if jsonOutput {
			return writeJSON(out, []map[string]int{{"season": season}})
		}
		_, _ = fmt.Fprintf(out, "Season:      %d\n", season)
		return nil
	default:
		return fmt.Errorf("unknown directory type %q (want series, movie or season)", dirType)
	}

	var d release.DirectoryInfo
	if dirType == "movie" {
		d = p.ParseMovieDirectory(name)
	} else {
		d = p.ParseSeriesDirectory(name)
	}
	if jsonOutput {
		return writeJSON(out, []release.DirectoryInfo{d})
	}

	rows := [][]string{{"title", valueOrEmpty(d.Title)}, {"type", string(d.Type)}}
	if d.Year != nil {
		rows = append(rows, []string{"year", strconv.Itoa(*d.Year)})
	}
	for _, kv := range [][2]string{{"tmdb_id", d.TMDBID}, {"tvdb_id", d.TVDBID}, {"imdb_id", d.IMDBID}, {"edition", d.Edition}} {
		if kv[1] != "" {
			rows = append(rows, []string{kv[0], kv[1]})
		}
	}
	_, _ = fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil, shouldColorize(out)))
	return nil
}
