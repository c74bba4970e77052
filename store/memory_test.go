package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/jobscrape/models"
)

func strPtr(s string) *string { return &s }

func sampleJobs() []models.JobListing {
	return []models.JobListing{
		{Title: "Senior PM", Company: "Acme Corp", Location: "Remote", Experience: "5-8 yrs", Link: strPtr("/job/1")},
		{Title: "N/A", Company: "N/A", Location: "N/A", Experience: "N/A"},
		{Title: "Data Engineer", Company: "Globex 100%", Location: "Pune", Experience: "2-4 yrs", Link: strPtr("/job/3")},
	}
}

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.CreateSchema(ctx))
	require.NoError(t, s.CreateSchema(ctx), "schema creation is idempotent")

	inserted, err := s.InsertBatch(ctx, sampleJobs())
	require.NoError(t, err)
	require.Len(t, inserted, 3)
	for i := 1; i < len(inserted); i++ {
		assert.Greater(t, inserted[i].ID, inserted[i-1].ID, "ids increase in input order")
	}

	all, err := s.Query(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, inserted, all)
	assert.Nil(t, all[1].Link)

	byTitle, err := s.Query(ctx, "senior")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Senior PM", byTitle[0].Title)

	byCompany, err := s.Query(ctx, "ACME")
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	assert.Equal(t, "Acme Corp", byCompany[0].Company)

	literalPercent, err := s.Query(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, literalPercent, 1)
	assert.Equal(t, "Data Engineer", literalPercent[0].Title)

	wildcard, err := s.Query(ctx, "%")
	require.NoError(t, err)
	assert.Len(t, wildcard, 1, "percent is matched literally")

	underscore, err := s.Query(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, underscore)

	none, err := s.Query(ctx, "no such job")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	// Duplicates are kept with new ids.
	again, err := s.InsertBatch(ctx, sampleJobs()[:1])
	require.NoError(t, err)
	assert.Greater(t, again[0].ID, inserted[2].ID)
	dup, err := s.Query(ctx, "Senior PM")
	require.NoError(t, err)
	assert.Len(t, dup, 2)

	require.NoError(t, s.Ping(ctx))
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_SequentialIDs(t *testing.T) {
	m := NewMemory()
	out, err := m.InsertBatch(context.Background(), sampleJobs()[:2])
	require.NoError(t, err)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(2), out[1].ID)
}

func TestMemory_ZeroValueStartsAtOne(t *testing.T) {
	var m Memory
	out, err := m.InsertBatch(context.Background(), sampleJobs()[:2])
	require.NoError(t, err)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(2), out[1].ID)

	all, err := m.Query(context.Background(), "")
	require.NoError(t, err)
	for _, j := range all {
		assert.NotZero(t, j.ID)
	}
}

func TestMemory_EmptyBatch(t *testing.T) {
	m := NewMemory()
	out, err := m.InsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	all, err := m.Query(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemory_ReturnedRowsAreCopies(t *testing.T) {
	m := NewMemory()
	_, err := m.InsertBatch(context.Background(), sampleJobs()[:1])
	require.NoError(t, err)

	rows, _ := m.Query(context.Background(), "")
	*rows[0].Link = "/tampered"

	rows, _ = m.Query(context.Background(), "")
	assert.Equal(t, "/job/1", *rows[0].Link)
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().InsertBatch(ctx, sampleJobs())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%pm%", containsPattern("pm"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\x%`, containsPattern(`c:\x`))
}
