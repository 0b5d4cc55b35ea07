package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `name,login_uri,login_username,login_password,notes
Facebook,https://facebook.com/,alice,p1,personal
Facebook (old),facebook.com,alice,p1,
GitHub,https://github.com,bob,p2,work
`

func TestReadParsesSchemaAndRows(t *testing.T) {
	ds, err := Read(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "login_uri", "login_username", "login_password", "notes"}, ds.Schema.Columns)
	assert.Equal(t, 3, ds.Len())

	r := ds.Rows[0]
	assert.Equal(t, 0, r.Index)
	assert.Equal(t, "https://facebook.com/", r.URI())
	assert.Equal(t, "alice", r.Username())
	assert.Equal(t, "p1", r.Password())
	assert.Equal(t, "Facebook", r.Name())
}

func TestReadStripsBOM(t *testing.T) {
	ds, err := Read(strings.NewReader("\xEF\xBB\xBF"+sampleCSV), "sample.csv")
	require.NoError(t, err)
	assert.Equal(t, "name", ds.Schema.Columns[0])
}

func TestReadMissingRequiredColumns(t *testing.T) {
	_, err := Read(strings.NewReader("name,notes\nFacebook,hi\n"), "bad.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestReadEmptyFile(t *testing.T) {
	_, err := Read(strings.NewReader(""), "empty.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyHeader)
}

func TestNewDatasetPadsRaggedRows(t *testing.T) {
	schema, err := NewSchema([]string{"login_uri", "login_username", "notes"})
	require.NoError(t, err)

	ds := NewDataset(schema, [][]string{{"https://a.com"}})
	assert.Equal(t, []string{"https://a.com", "", ""}, ds.Rows[0].Fields)
	assert.Equal(t, "", ds.Rows[0].Username())
}

func TestPartitionPreservesOrderAndCompleteness(t *testing.T) {
	ds, err := Read(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)

	kept, removed := ds.Partition(map[int]bool{1: true})
	assert.Equal(t, ds.Len(), kept.Len()+removed.Len())
	assert.Equal(t, []int{0, 2}, []int{kept.Rows[0].Index, kept.Rows[1].Index})
	assert.Equal(t, "facebook.com", removed.Rows[0].URI())
}

func TestRowsExcept(t *testing.T) {
	ds, err := Read(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)

	live := ds.RowsExcept(map[int]bool{0: true, 2: true})
	require.Len(t, live, 1)
	assert.Equal(t, 1, live[0].Index)
}

func TestSaveRoundTrip(t *testing.T) {
	ds, err := Read(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Save(ds, path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ds.Len(), reloaded.Len())
	assert.True(t, ds.Schema.Equal(reloaded.Schema))
	for i, r := range ds.Rows {
		assert.Equal(t, r.Fields, reloaded.Rows[i].Fields)
	}

	// No leftover temp files.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSchemaEqual(t *testing.T) {
	a, err := NewSchema([]string{"login_uri", "login_username"})
	require.NoError(t, err)
	b, err := NewSchema([]string{"login_uri", "login_username"})
	require.NoError(t, err)
	c, err := NewSchema([]string{"login_uri", "login_username", "name"})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
