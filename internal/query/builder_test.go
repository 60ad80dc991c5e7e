package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobquery/internal/model"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(DefaultSchema(), DefaultTable)
	require.NoError(t, err)
	return b
}

func terms(m map[string][]string) model.ParsedQuery {
	return model.ParsedQuery{Terms: m}
}

func TestBuild_RoleAndLocation(t *testing.T) {
	b := newTestBuilder(t)

	q, err := b.Build(terms(map[string][]string{
		"role":     {"data engineer"},
		"location": {"Austin"},
	}))
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT * FROM JOBLISTINGS WHERE (SEARCH_QUERY ILIKE '%data engineer%') AND (LOCATION ILIKE '%Austin%')",
		q.String())
}

func TestBuild_IsDeterministic(t *testing.T) {
	b := newTestBuilder(t)
	pq := terms(map[string][]string{
		"skills":   {"spark", "airflow", "kafka"},
		"company":  {"Acme", "Globex"},
		"role":     {"devops", "data engineer"},
		"location": {"Remote", "Austin"},
	})

	first, err := b.Build(pq)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := b.Build(pq)
		require.NoError(t, err)
		assert.Equal(t, first.String(), again.String())

		sql1, args1 := first.SQL(DialectPostgres)
		sql2, args2 := again.SQL(DialectPostgres)
		assert.Equal(t, sql1, sql2)
		assert.Equal(t, args1, args2)
	}
}

func TestBuild_MergesAliasedConcepts(t *testing.T) {
	b := newTestBuilder(t)

	q, err := b.Build(terms(map[string][]string{
		"role": {"data engineer"},
		"job":  {"data engineer", "devops"},
	}))
	require.NoError(t, err)

	require.Len(t, q.Clauses, 1)
	assert.Equal(t, "SEARCH_QUERY", q.Clauses[0].Column)
	assert.Equal(t, []string{"data engineer", "devops"}, q.Clauses[0].Terms)
	assert.Equal(t,
		"SELECT * FROM JOBLISTINGS WHERE (SEARCH_QUERY ILIKE '%data engineer%' OR SEARCH_QUERY ILIKE '%devops%')",
		q.String())
}

func TestBuild_EmptyInputIsUnfiltered(t *testing.T) {
	b := newTestBuilder(t)

	for name, pq := range map[string]model.ParsedQuery{
		"nil terms":   {},
		"empty map":   terms(map[string][]string{}),
		"empty lists": terms(map[string][]string{"role": {}, "location": {}}),
		"blank terms": terms(map[string][]string{"role": {"", "   "}}),
	} {
		t.Run(name, func(t *testing.T) {
			q, err := b.Build(pq)
			require.NoError(t, err)
			assert.True(t, q.Unfiltered())
			assert.Equal(t, "SELECT * FROM JOBLISTINGS", q.String())

			sql, args := q.SQL(DialectSQLite)
			assert.Equal(t, "SELECT * FROM JOBLISTINGS", sql)
			assert.Empty(t, args)
		})
	}
}

func TestBuild_RejectsFailedExtraction(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.Build(model.ExtractionFailure("Parsing error: not a mapping"))
	require.ErrorIs(t, err, ErrExtractionFailed)
}

func TestBuild_IgnoresUnknownConcepts(t *testing.T) {
	b := newTestBuilder(t)

	q, err := b.Build(terms(map[string][]string{"salary": {"100k"}}))
	require.NoError(t, err)
	assert.True(t, q.Unfiltered())
}

func TestBuild_DedupIsCaseSensitive(t *testing.T) {
	b := newTestBuilder(t)

	q, err := b.Build(terms(map[string][]string{"location": {"austin", "Austin", "Austin"}}))
	require.NoError(t, err)
	require.Len(t, q.Clauses, 1)
	assert.Equal(t, []string{"Austin", "austin"}, q.Clauses[0].Terms)
}

func TestBuild_ColumnOrderFollowsSchema(t *testing.T) {
	schema, err := NewSchema([]Concept{
		{Name: "where", Column: "LOCATION"},
		{Name: "what", Column: "TITLE"},
		{Name: "also_where", Column: "LOCATION"},
	})
	require.NoError(t, err)
	b, err := NewBuilder(schema, "LISTINGS")
	require.NoError(t, err)

	q, err := b.Build(terms(map[string][]string{
		"what":       {"engineer"},
		"also_where": {"Denver"},
	}))
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM LISTINGS WHERE (LOCATION ILIKE '%Denver%') AND (TITLE ILIKE '%engineer%')",
		q.String())
}

func TestNewBuilder_RejectsBadTable(t *testing.T) {
	_, err := NewBuilder(DefaultSchema(), "jobs; DROP TABLE users")
	require.Error(t, err)
}
