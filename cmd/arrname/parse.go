package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrname/pkg/release"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <release-name>...",
	Short: "Parse release names",
	Long: `Parse one or more release names and print every recognized field.

Examples:
  arrname parse "The.Series.S01E02.1080p.WEB.H264-GRP"
  arrname parse --kind movie "Blade.Runner.1982.Final.Cut.2160p.UHD.BluRay.x265-GRP"
  arrname parse --field resolution "Show.S02E01.720p.HDTV.x264-GRP"
  arrname parse --file releases.txt --json`,
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("kind", "k", "", "Parser kind: tv, movie or series (default from config)")
	parseCmd.Flags().StringP("file", "f", "", "Read release names from file (one per line)")
	parseCmd.Flags().String("field", "", "Print a single field ("+strings.Join(release.Fields(), ", ")+")")
	_ = parseCmd.RegisterFlagCompletionFunc("kind", completeKinds)
	_ = parseCmd.RegisterFlagCompletionFunc("field", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return release.Fields(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	kindFlag, _ := cmd.Flags().GetString("kind")
	inputFile, _ := cmd.Flags().GetString("file")
	field, _ := cmd.Flags().GetString("field")

	names := args
	if inputFile != "" {
		fromFile, err := readReleaseFile(inputFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		names = append(names, fromFile...)
	}
	if len(names) == 0 {
		return fmt.Errorf("usage: arrname parse <release-name> or arrname parse --file <filename>")
	}
	if field != "" && !isField(field) {
		return fmt.Errorf("unknown field %q, available: %s", field, strings.Join(release.Fields(), ", "))
	}

	cfg, logger, err := setup(cmd)
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

	results := make([]release.ParsedRelease, 0, len(names))
	for _, name := range names {
		r := p.Parse(name)
		logger.Debug("parsed", "release", name, "title", r.Title)
		results = append(results, r)
	}

	out := cmd.OutOrStdout()
	switch {
	case field != "":
		for _, r := range results {
			v, _ := r.Get(field)
			_, _ = fmt.Fprintln(out, v)
		}
		return nil
	case jsonOutput:
		return writeJSON(out, results)
	}

	colorize := shouldColorize(out)
	for i, r := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		printRelease(out, &r, colorize)
	}
	return nil
}

// printRelease renders every field that is set, in Fields order.
func printRelease(w io.Writer, r *release.ParsedRelease, colorize bool) {
	_, _ = fmt.Fprintln(w, r.Release)
	_, _ = fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, releaseRows(r), nil, colorize))
}

func releaseRows(r *release.ParsedRelease) [][]string {
	var rows [][]string
	for _, name := range release.Fields() {
		if name == "release" {
			continue
		}
		v, ok := r.Get(name)
		if !ok || (v == "" && name != "title") {
			continue
		}
		rows = append(rows, []string{name, valueOrEmpty(v)})
	}
	return rows
}

func isField(name string) bool {
	for _, f := range release.Fields() {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// readReleaseFile reads release names from a file, one per line. Blank
// lines and lines starting with # are ignored.
func readReleaseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}
