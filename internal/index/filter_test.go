package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/arrname/pkg/release"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(setupTestDB(t))
	for _, e := range []*Entry{
		parsedEntry(t, release.KindTV, seriesPath, "scan-1"),
		parsedEntry(t, release.KindTV, "/tv/Show Name/Season 02/Show.Name.S02E03.720p.HDTV.x264-GRP.mkv", "scan-1"),
		parsedEntry(t, release.KindMovie, moviePath, "scan-2"),
		parsedEntry(t, release.KindMovie, "/movies/Zebra (1999)/Quantum.Physics.1999.720p.WEB-DL.mkv", "scan-2"),
	} {
		require.NoError(t, store.Add(e))
	}
	return store
}

func TestStore_List(t *testing.T) {
	store := seedStore(t)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"kind tv", Filter{Kind: ptr(release.KindTV)}, 2},
		{"kind movie", Filter{Kind: ptr(release.KindMovie)}, 2},
		{"title substring", Filter{Title: "series"}, 1},
		{"title like wildcard is literal", Filter{Title: "%"}, 0},
		{"season", Filter{Season: ptr(2)}, 1},
		{"scan", Filter{ScanID: "scan-2"}, 2},
		{"combined", Filter{Kind: ptr(release.KindTV), Season: ptr(1)}, 1},
		{"low agreement", Filter{Agreement: ptr(release.ConfidenceLow)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, total, err := store.List(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, results, tt.want)
		})
	}
}

func TestStore_ListPagination(t *testing.T) {
	store := seedStore(t)

	page, total, err := store.List(Filter{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 3)

	rest, _, err := store.List(Filter{Limit: 3, Offset: 3})
	require.NoError(t, err)
	require.Len(t, rest, 1)

	// Ordered by path.
	assert.Less(t, page[2].Path, rest[0].Path)
}

func TestStore_Stats(t *testing.T) {
	store := seedStore(t)

	st, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.Scans)
	assert.Equal(t, 0, st.Unidentified)
	assert.Equal(t, map[string]int{"tv": 2, "movie": 2}, st.ByKind)
	assert.Equal(t, 2, st.BySource["WEB-DL"])
	assert.Equal(t, 1, st.BySource["HDTV"])
	assert.Equal(t, 1, st.ByAgreement["none"])
}

func TestStore_StatsEmpty(t *testing.T) {
	st, err := NewStore(setupTestDB(t)).Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, st.Total)
	assert.Empty(t, st.ByKind)
}
