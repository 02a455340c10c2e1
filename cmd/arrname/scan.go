package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/vmunix/arrname/internal/config"
	"github.com/vmunix/arrname/internal/index"
	"github.com/vmunix/arrname/internal/scan"
	"github.com/vmunix/arrname/pkg/release"
)

var scanCmd = &cobra.Command{
	Use:   "scan <root>",
	Short: "Parse every video file under a directory into the index",
	Long: `Walk a library root, parse each video file path and store the results.

Files whose name disagrees with their series or movie directory are
logged as title mismatches.

Examples:
  arrname scan /media/tv
  arrname scan --kind movie --workers 8 --prune /media/movies`,
	Args: cobra.ExactArgs(1),
	RunE: runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("kind", "k", "", "Parser kind: tv, movie or series (default from config)")
	scanCmd.Flags().IntP("workers", "w", 0, "Parallel parsers (default from config)")
	scanCmd.Flags().Bool("prune", false, "Remove entries under the root not seen by this scan")
	_ = scanCmd.RegisterFlagCompletionFunc("kind", completeKinds)
}

var errScanRunning = errors.New("another scan is already writing to this index")

// scanLockPath is the lock file guarding an index database.
func scanLockPath(dbPath string) string {
	return dbPath + ".lock"
}

// openIndex opens the configured database, creating its directory.
func openIndex(cfg *config.Config) (*sql.DB, *index.Store, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := index.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return db, index.NewStore(db), nil
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	kindFlag, _ := cmd.Flags().GetString("kind")
	workers, _ := cmd.Flags().GetInt("workers")
	prune, _ := cmd.Flags().GetBool("prune")

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	if kindFlag == "" {
		kindFlag = cfg.Parser.Kind
	}
	if workers <= 0 {
		workers = cfg.Scan.Workers
	}
	p, err := release.New(release.Kind(kindFlag))
	if err != nil {
		return err
	}
	minAgreement, _ := release.ParseConfidence(cfg.Scan.MinAgreement)

	db, store, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	lock := flock.New(scanLockPath(cfg.Database.Path))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire scan lock: %w", err)
	}
	if !ok {
		return errScanRunning
	}
	defer func() { _ = lock.Unlock() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := scan.NewScanner(p, store, scan.Options{
		Workers:      workers,
		Extensions:   cfg.Scan.Extensions,
		SkipHidden:   cfg.Scan.SkipHidden,
		MinAgreement: minAgreement,
	}, logger.With("component", "scan"))

	sum, err := scanner.Run(ctx, args[0])
	if err != nil {
		return err
	}

	pruned := 0
	if prune {
		if pruned, err = store.Prune(sum.Root, sum.ScanID); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, []scanOutput{{Summary: sum, Pruned: pruned}})
	}
	_, _ = fmt.Fprintf(out, "Scan %s of %s\n", sum.ScanID, sum.Root)
	rows := [][]string{
		{"files", fmt.Sprint(sum.Files)},
		{"parsed", fmt.Sprint(sum.Parsed)},
		{"skipped", fmt.Sprint(sum.Skipped)},
		{"failed", fmt.Sprint(sum.Failed)},
		{"title mismatches", fmt.Sprint(sum.LowAgreement)},
	}
	if prune {
		rows = append(rows, []string{"pruned", fmt.Sprint(pruned)})
	}
	rows = append(rows, []string{"duration", sum.Duration.Round(time.Millisecond).String()})
	_, _ = fmt.Fprintln(out, renderTable([]string{"", "Count"}, rows, []columnAlignment{alignLeft, alignRight}, shouldColorize(out)))
	return nil
}

type scanOutput struct {
	*scan.Summary
	Pruned int `json:"pruned"`
}
