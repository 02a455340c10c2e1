package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/arrname/pkg/release"
)

// Entry is one indexed file.
type Entry struct {
	Path       string                  `json:"path"` // root joined with Info.Path
	Root       string                  `json:"root,omitempty"`
	Kind       release.Kind            `json:"kind"`
	Title      string                  `json:"title"`
	Year       *int                    `json:"year,omitempty"`
	Season     *int                    `json:"season,omitempty"`
	Episodes   []int                   `json:"episodes,omitempty"`
	Source     string                  `json:"source"`
	Resolution string                  `json:"resolution"`
	Group      string                  `json:"group"`
	DirTitle   string                  `json:"dir_title,omitempty"`
	Agreement  release.MatchConfidence `json:"agreement"`
	ScanID     string                  `json:"scan_id"`
	Info       release.PathInfo        `json:"info"`
	IndexedAt  time.Time               `json:"indexed_at"`
}

// NewEntry builds an entry from a path parsed relative to root. The file
// season wins over the season directory.
func NewEntry(kind release.Kind, root string, info release.PathInfo, scanID string) *Entry {
	f := info.File
	root = strings.TrimSuffix(filepath.ToSlash(root), "/")
	p := info.Path
	if root != "" {
		p = root + "/" + p
	}
	e := &Entry{
		Path:       p,
		Root:       root,
		Kind:       kind,
		Title:      f.Title,
		Year:       f.Year,
		Season:     f.Season,
		Episodes:   f.Episodes,
		Source:     f.Source,
		Resolution: f.Resolution,
		Group:      f.Group,
		Agreement:  info.TitleAgreement().Confidence,
		ScanID:     scanID,
		Info:       info,
	}
	if e.Season == nil {
		e.Season = info.Season
	}
	if e.Year == nil && info.Directory != nil {
		e.Year = info.Directory.Year
	}
	if info.Directory != nil {
		e.DirTitle = info.Directory.Title
	}
	return e
}

const entryColumns = `path, root, kind, title, year, season, episode, source, resolution,
	release_group, dir_title, agreement, scan_id, record, indexed_at`

func insertEntry(q querier, e *Entry, upsert bool) error {
	record, err := json.Marshal(e.Info)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if e.IndexedAt.IsZero() {
		e.IndexedAt = time.Now().UTC()
	}

	query := `INSERT INTO entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if upsert {
		query += `
		ON CONFLICT(path) DO UPDATE SET
			root = excluded.root, kind = excluded.kind, title = excluded.title, year = excluded.year,
			season = excluded.season, episode = excluded.episode,
			source = excluded.source, resolution = excluded.resolution,
			release_group = excluded.release_group, dir_title = excluded.dir_title,
			agreement = excluded.agreement, scan_id = excluded.scan_id,
			record = excluded.record, indexed_at = excluded.indexed_at`
	}

	_, err = q.Exec(query,
		e.Path, e.Root, string(e.Kind), e.Title, e.Year, e.Season, joinEpisodes(e.Episodes),
		e.Source, e.Resolution, e.Group, e.DirTitle, e.Agreement.String(),
		e.ScanID, string(record), e.IndexedAt,
	)
	if err != nil {
		return fmt.Errorf("insert entry %s: %w", e.Path, mapSQLiteError(err))
	}
	return nil
}

// Add inserts a new entry. Returns ErrDuplicate if the path is indexed.
func (s *Store) Add(e *Entry) error { return insertEntry(s.db, e, false) }

// Add inserts a new entry within a transaction.
func (t *Tx) Add(e *Entry) error { return insertEntry(t.tx, e, false) }

// Upsert inserts e or replaces the entry with the same path.
func (s *Store) Upsert(e *Entry) error { return insertEntry(s.db, e, true) }

// Upsert inserts or replaces within a transaction.
func (t *Tx) Upsert(e *Entry) error { return insertEntry(t.tx, e, true) }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		e                    Entry
		kind, episode, agree string
		record               string
		year, season         sql.NullInt64
	)
	err := row.Scan(&e.Path, &e.Root, &kind, &e.Title, &year, &season, &episode,
		&e.Source, &e.Resolution, &e.Group, &e.DirTitle, &agree,
		&e.ScanID, &record, &e.IndexedAt)
	if err != nil {
		return nil, err
	}
	e.Kind = release.Kind(kind)
	e.Year = nullInt(year)
	e.Season = nullInt(season)
	if e.Episodes, err = splitEpisodes(episode); err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.Path, err)
	}
	e.Agreement, _ = release.ParseConfidence(agree)
	if err := json.Unmarshal([]byte(record), &e.Info); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", e.Path, err)
	}
	return &e, nil
}

func getEntry(q querier, path string) (*Entry, error) {
	row := q.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE path = ?`, path)
	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", path, mapSQLiteError(err))
	}
	return e, nil
}

// Get retrieves an entry by its normalized path.
func (s *Store) Get(path string) (*Entry, error) { return getEntry(s.db, path) }

// Get retrieves an entry within a transaction.
func (t *Tx) Get(path string) (*Entry, error) { return getEntry(t.tx, path) }

func deleteEntry(q querier, path string) error {
	res, err := q.Exec(`DELETE FROM entries WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", path, mapSQLiteError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", path, err)
	}
	if n == 0 {
		return fmt.Errorf("delete entry %s: %w", path, ErrNotFound)
	}
	return nil
}

// Delete removes an entry. Returns ErrNotFound if it does not exist.
func (s *Store) Delete(path string) error { return deleteEntry(s.db, path) }

// Delete removes an entry within a transaction.
func (t *Tx) Delete(path string) error { return deleteEntry(t.tx, path) }

// Prune removes entries under root that were not touched by scanID and
// returns how many were removed.
func (s *Store) Prune(root, scanID string) (int, error) {
	root = strings.TrimSuffix(filepath.ToSlash(root), "/")
	res, err := s.db.Exec(`DELETE FROM entries WHERE root = ? AND scan_id != ?`, root, scanID)
	if err != nil {
		return 0, fmt.Errorf("prune entries: %w", mapSQLiteError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune entries: %w", err)
	}
	return int(n), nil
}

func joinEpisodes(eps []int) string {
	parts := make([]string, len(eps))
	for i, n := range eps {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func splitEpisodes(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	eps := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad episode list %q", s)
		}
		eps[i] = n
	}
	return eps, nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
