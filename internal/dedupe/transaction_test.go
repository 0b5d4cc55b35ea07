package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPartitionCompleteness(t *testing.T) {
	ds := makeDataset(t, [][4]string{
		{"A", "https://a.com", "u", "p"},
		{"B", "https://b.com", "u", "p"},
		{"C", "https://c.com", "u", "p"},
		{"D", "https://d.com", "u", "p"},
	})

	decisions := []Decision{
		{Pass: PassFullRow, Delete: []int{1}},
		{Pass: PassPartial, Delete: []int{3}},
	}
	res := Apply(ds, decisions)

	assert.Equal(t, ds.Len(), res.Kept.Len()+res.Removed.Len())
	assert.Equal(t, 4, res.Summary.OriginalCount)
	assert.Equal(t, 1, res.Summary.FullDuplicatesRemoved)
	assert.Equal(t, 1, res.Summary.PartialDuplicatesRemoved)
	assert.Equal(t, 2, res.Summary.RemainingCount)
	assert.Equal(t, 2, res.Summary.TotalRemoved())

	// Removed rows keep original content and relative order.
	require.Len(t, res.Removed.Rows, 2)
	assert.Equal(t, 1, res.Removed.Rows[0].Index)
	assert.Equal(t, 3, res.Removed.Rows[1].Index)
	assert.Equal(t, "B", res.Removed.Rows[0].Name())
}

func TestApplyNoDecisions(t *testing.T) {
	ds := makeDataset(t, [][4]string{
		{"A", "https://a.com", "u", "p"},
	})
	res := Apply(ds, nil)
	assert.Equal(t, 1, res.Kept.Len())
	assert.Equal(t, 0, res.Removed.Len())
	assert.Equal(t, 0, res.Summary.TotalRemoved())
}

func TestApplyOverlappingDecisionsCountOnce(t *testing.T) {
	ds := makeDataset(t, [][4]string{
		{"A", "https://a.com", "u", "p"},
		{"B", "https://b.com", "u", "p"},
	})
	decisions := []Decision{
		{Pass: PassFullRow, Delete: []int{1}},
		{Pass: PassPartial, Delete: []int{1}},
	}
	res := Apply(ds, decisions)
	assert.Equal(t, 1, res.Summary.FullDuplicatesRemoved)
	assert.Equal(t, 0, res.Summary.PartialDuplicatesRemoved)
	assert.Equal(t, 1, res.Kept.Len())
}

// Union of kept and removed, ordered by original index, reconstructs the
// input exactly.
func TestUndoRoundTrip(t *testing.T) {
	ds := makeDataset(t, [][4]string{
		{"A", "https://a.com", "u", "p"},
		{"B", "https://b.com", "u", "p"},
		{"C", "https://c.com", "u", "p"},
	})
	res := Apply(ds, []Decision{{Pass: PassPartial, Delete: []int{1}}})

	merged := make([][]string, ds.Len())
	for _, r := range res.Kept.Rows {
		merged[r.Index] = r.Fields
	}
	for _, r := range res.Removed.Rows {
		merged[r.Index] = r.Fields
	}
	for i, r := range ds.Rows {
		assert.Equal(t, r.Fields, merged[i])
	}
}
