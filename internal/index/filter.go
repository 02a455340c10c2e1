package index

import (
	"fmt"
	"strings"

	"github.com/vmunix/arrname/pkg/release"
)

// Filter narrows List results. Zero values are ignored.
type Filter struct {
	Kind      *release.Kind
	Root      string
	Title     string // substring, case-insensitive
	Season    *int
	ScanID    string
	Agreement *release.MatchConfidence // at most this confidence
	Limit     int
	Offset    int
}

func listEntries(q querier, f Filter) ([]*Entry, int, error) {
	var (
		conditions []string
		args       []any
	)
	if f.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(*f.Kind))
	}
	if f.Root != "" {
		conditions = append(conditions, "root = ?")
		args = append(args, strings.TrimSuffix(f.Root, "/"))
	}
	if f.Title != "" {
		conditions = append(conditions, "title LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(f.Title)+"%")
	}
	if f.Season != nil {
		conditions = append(conditions, "season = ?")
		args = append(args, *f.Season)
	}
	if f.ScanID != "" {
		conditions = append(conditions, "scan_id = ?")
		args = append(args, f.ScanID)
	}
	if f.Agreement != nil {
		names := make([]string, 0, 4)
		for c := release.ConfidenceNone; c <= *f.Agreement; c++ {
			names = append(names, "?")
			args = append(args, c.String())
		}
		conditions = append(conditions, "agreement IN ("+strings.Join(names, ", ")+")")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM entries"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	query := "SELECT " + entryColumns + " FROM entries" + where + " ORDER BY path"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan entry: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate entries: %w", err)
	}
	return results, total, nil
}

// List returns entries matching the filter, ordered by path, along with the
// total count before pagination.
func (s *Store) List(f Filter) ([]*Entry, int, error) { return listEntries(s.db, f) }

// List returns entries within a transaction.
func (t *Tx) List(f Filter) ([]*Entry, int, error) { return listEntries(t.tx, f) }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
