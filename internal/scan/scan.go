// Package scan walks a media tree, parses every video file path and records
// the results.
package scan

//go:generate mockgen -destination=mocks/mock_sink.go -package=mocks . Sink

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vmunix/arrname/internal/index"
	"github.com/vmunix/arrname/pkg/release"
)

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Sink receives parsed entries. Calls are made from a single goroutine.
type Sink interface {
	Upsert(e *index.Entry) error
}

// Options controls a scan.
type Options struct {
	Workers    int
	Extensions []string // without the leading dot
	SkipHidden bool
	// MinAgreement is the lowest file/directory title confidence that is
	// not reported as a mismatch.
	MinAgreement release.MatchConfidence
}

// Summary reports what a scan did.
type Summary struct {
	ScanID       string        `json:"scan_id"`
	Root         string        `json:"root"`
	Files        int           `json:"files"`
	Parsed       int           `json:"parsed"`
	Skipped      int           `json:"skipped"`
	Failed       int           `json:"failed"`
	LowAgreement int           `json:"low_agreement"`
	Duration     time.Duration `json:"duration"`
}

// Scanner parses the files under a root directory with a bounded worker pool.
type Scanner struct {
	parser *release.Parser
	sink   Sink
	opts   Options
	exts   map[string]bool
	logger *slog.Logger
}

// NewScanner creates a scanner. A nil logger uses slog.Default.
func NewScanner(parser *release.Parser, sink Sink, opts Options, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}
	return &Scanner{
		parser: parser,
		sink:   sink,
		opts:   opts,
		exts:   exts,
		logger: logger,
	}
}

// Run scans root. Sink errors are logged and counted; only a walk error or
// cancellation stops the scan.
func (s *Scanner) Run(ctx context.Context, root string) (*Summary, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("scan %s: %w", root, ErrNotDirectory)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	start := time.Now()
	sum := &Summary{ScanID: uuid.NewString(), Root: filepath.ToSlash(abs)}
	log := s.logger.With("scan_id", sum.ScanID)
	log.Info("scan started", "root", root, "workers", s.opts.Workers)

	var parsed, failed, low atomic.Int64
	paths := make(chan string)
	entries := make(chan *index.Entry)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(paths)
		return s.walk(ctx, root, paths, sum)
	})

	workers, wctx := errgroup.WithContext(ctx)
	workers.SetLimit(s.opts.Workers)
	g.Go(func() error {
		defer close(entries)
		for rel := range paths {
			workers.Go(func() error {
				info, ok := s.parser.ParsePath(rel)
				if !ok {
					failed.Add(1)
					log.Warn("unparseable path", "path", rel)
					return nil
				}
				e := index.NewEntry(s.parser.Kind(), sum.Root, info, sum.ScanID)
				if info.Directory != nil && e.Agreement < s.opts.MinAgreement {
					low.Add(1)
					log.Warn("title mismatch",
						"path", rel,
						"file_title", info.File.Title,
						"dir_title", info.Directory.Title,
						"agreement", e.Agreement)
				}
				select {
				case entries <- e:
					return nil
				case <-wctx.Done():
					return wctx.Err()
				}
			})
		}
		return workers.Wait()
	})

	g.Go(func() error {
		for e := range entries {
			if err := s.sink.Upsert(e); err != nil {
				failed.Add(1)
				log.Error("record entry", "path", e.Path, "error", err)
				continue
			}
			parsed.Add(1)
			log.Debug("parsed", "path", e.Path, "title", e.Title)
		}
		return nil
	})

	err = g.Wait()
	sum.Parsed = int(parsed.Load())
	sum.Failed = int(failed.Load())
	sum.LowAgreement = int(low.Load())
	sum.Duration = time.Since(start)
	if err != nil {
		return sum, fmt.Errorf("scan %s: %w", root, err)
	}

	log.Info("scan complete",
		"files", sum.Files,
		"parsed", sum.Parsed,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
		"low_agreement", sum.LowAgreement,
		"duration", sum.Duration)
	return sum, nil
}

// walk sends the slash-separated path of every accepted file relative to
// root. Files and Skipped are only written here.
func (s *Scanner) walk(ctx context.Context, root string, out chan<- string, sum *Summary) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if s.opts.SkipHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			sum.Skipped++
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !s.accepts(d.Name()) {
			sum.Skipped++
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sum.Files++
		select {
		case out <- filepath.ToSlash(rel):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

func (s *Scanner) accepts(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext != "" && s.exts[ext]
}
