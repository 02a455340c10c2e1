package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/arrname/internal/index"
	"github.com/vmunix/arrname/pkg/release"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect scanned entries",
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed files",
	Args:  cobra.NoArgs,
	RunE:  runIndexList,
}

var indexShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show the stored parse of one file",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexShow,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the index",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

var indexRemoveCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove one entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexRemove,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexListCmd, indexShowCmd, indexStatsCmd, indexRemoveCmd)

	indexListCmd.Flags().StringP("kind", "k", "", "Only entries parsed as this kind")
	indexListCmd.Flags().StringP("title", "t", "", "Title contains")
	indexListCmd.Flags().IntP("season", "s", -1, "Only this season")
	indexListCmd.Flags().String("scan", "", "Only entries from this scan ID")
	indexListCmd.Flags().Bool("mismatch", false, "Only entries whose title disagrees with the directory")
	indexListCmd.Flags().IntP("limit", "n", 50, "Maximum entries (0 for all)")
	indexListCmd.Flags().Int("offset", 0, "Skip this many entries")
}

func runIndexList(cmd *cobra.Command, _ []string) error {
	f := index.Filter{}
	f.Title, _ = cmd.Flags().GetString("title")
	f.ScanID, _ = cmd.Flags().GetString("scan")
	f.Limit, _ = cmd.Flags().GetInt("limit")
	f.Offset, _ = cmd.Flags().GetInt("offset")
	if k, _ := cmd.Flags().GetString("kind"); k != "" {
		kind, err := release.ParseKind(k)
		if err != nil {
			return err
		}
		f.Kind = &kind
	}
	if s, _ := cmd.Flags().GetInt("season"); s >= 0 {
		f.Season = &s
	}

	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	if mismatch, _ := cmd.Flags().GetBool("mismatch"); mismatch {
		// Below the configured threshold.
		threshold, _ := release.ParseConfidence(cfg.Scan.MinAgreement)
		if threshold == release.ConfidenceNone {
			return fmt.Errorf("--mismatch needs scan.min_agreement above none")
		}
		below := threshold - 1
		f.Agreement = &below
	}

	db, store, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	entries, total, err := store.List(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, []listOutput{{Entries: entries, Total: total}})
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No entries.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			valueOrEmpty(e.Title),
			episodeLabel(e),
			e.Resolution,
			e.Source,
			e.Agreement.String(),
			e.Path,
		})
	}
	_, _ = fmt.Fprintln(out, renderTable(
		[]string{"Title", "Episode", "Res", "Source", "Agreement", "Path"},
		rows, nil, shouldColorize(out)))
	_, _ = fmt.Fprintf(out, "%d of %d entries\n", len(entries), total)
	return nil
}

type listOutput struct {
	Entries []*index.Entry `json:"entries"`
	Total   int            `json:"total"`
}

func episodeLabel(e *index.Entry) string {
	var b strings.Builder
	if e.Season != nil {
		fmt.Fprintf(&b, "S%02d", *e.Season)
	}
	for i, ep := range e.Episodes {
		if i > 0 {
			b.WriteByte('-')
		}
		fmt.Fprintf(&b, "E%02d", ep)
	}
	if b.Len() == 0 && e.Year != nil {
		return strconv.Itoa(*e.Year)
	}
	return b.String()
}

func runIndexShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	db, store, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	e, err := store.Get(args[0])
	if errors.Is(err, index.ErrNotFound) {
		return fmt.Errorf("%s is not indexed", args[0])
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, []*index.Entry{e})
	}
	_, _ = fmt.Fprintf(out, "Scan:        %s (%s)\n", e.ScanID, e.IndexedAt.Local().Format("2006-01-02 15:04"))
	printPath(out, &pathResult{PathInfo: e.Info, Agreement: e.Info.TitleAgreement()}, shouldColorize(out))
	return nil
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	db, store, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	st, err := store.Stats()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, []*index.Stats{st})
	}
	_, _ = fmt.Fprintf(out, "Entries:     %d (%d scans, %d without title)\n", st.Total, st.Scans, st.Unidentified)
	colorize := shouldColorize(out)
	for _, group := range []struct {
		name   string
		counts map[string]int
	}{
		{"Kind", st.ByKind},
		{"Source", st.BySource},
		{"Agreement", st.ByAgreement},
	} {
		if len(group.counts) == 0 {
			continue
		}
		rows := make([][]string, 0, len(group.counts))
		for _, k := range slices.Sorted(maps.Keys(group.counts)) {
			rows = append(rows, []string{k, strconv.Itoa(group.counts[k])})
		}
		_, _ = fmt.Fprintln(out, renderTable([]string{group.name, "Count"}, rows, []columnAlignment{alignLeft, alignRight}, colorize))
	}
	return nil
}

func runIndexRemove(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	db, store, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.Delete(args[0]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}
