package index

import (
	"fmt"
)

// Stats summarizes the index.
type Stats struct {
	Total        int            `json:"total"`
	ByKind       map[string]int `json:"by_kind"`
	BySource     map[string]int `json:"by_source"`
	ByAgreement  map[string]int `json:"by_agreement"`
	Scans        int            `json:"scans"`
	Unidentified int            `json:"unidentified"` // entries with no title
}

// Stats counts entries by kind, source and agreement.
func (s *Store) Stats() (*Stats, error) {
	st := &Stats{
		ByKind:      map[string]int{},
		BySource:    map[string]int{},
		ByAgreement: map[string]int{},
	}

	err := s.db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT scan_id),
		COALESCE(SUM(CASE WHEN title = '' THEN 1 ELSE 0 END), 0) FROM entries`).
		Scan(&st.Total, &st.Scans, &st.Unidentified)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	for col, into := range map[string]map[string]int{
		"kind":      st.ByKind,
		"source":    st.BySource,
		"agreement": st.ByAgreement,
	} {
		if err := s.countBy(col, into); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// countBy groups on a fixed column name; col is never user input.
func (s *Store) countBy(col string, into map[string]int) error {
	rows, err := s.db.Query(fmt.Sprintf(
		"SELECT %[1]s, COUNT(*) FROM entries WHERE %[1]s != '' GROUP BY %[1]s", col))
	if err != nil {
		return fmt.Errorf("count by %s: %w", col, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("count by %s: %w", col, err)
		}
		into[key] = n
	}
	return rows.Err()
}
