package cleaner

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adigandhi/BitVault-Pass-cleaner/internal/config"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/dedupe"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/vault"
)

func load(t *testing.T, csv string) *vault.Dataset {
	t.Helper()
	ds, err := vault.Read(strings.NewReader(csv), "test.csv")
	require.NoError(t, err)
	return ds
}

func newCleaner(mode config.Mode) *Cleaner {
	return &Cleaner{
		Options: &config.Options{File: "test.csv", Mode: mode},
		Log:     zerolog.Nop(),
	}
}

// Ten rows: one exact duplicate pair, a three-row facebook cluster sharing
// credentials across m./www./bare variants of the domain, and a github pair
// sharing only the URL.
const endToEndCSV = `name,login_uri,login_username,login_password
TW,https://twitter.com,alice,t1
TW,https://twitter.com,alice,t1
FB m,https://m.facebook.com,carol,p2
FB www,https://www.facebook.com,carol,p2
FB bare,https://facebook.com,carol,p2
GH,https://github.com,bob,g1
GH work,https://github.com,bob-work,g2
Bank,https://bank.example.com,carol,b1
Mail,https://mail.example.org,dave,m1
Shop,https://shop.example.net,erin,s1
`

func TestRunEndToEndAuto(t *testing.T) {
	ds := load(t, endToEndCSV)
	out, err := newCleaner(config.ModeAuto).Run(ds)
	require.NoError(t, err)

	// Exact pass removes the second twitter row.
	assert.Equal(t, 1, out.Result.Summary.FullDuplicatesRemoved)

	// Domain collapse merges the three p2 rows (m./www./bare share the
	// registrable domain) and keeps the bare-domain entry. The github pair
	// differs in username, so it survives.
	assert.Equal(t, 2, out.Result.Summary.PartialDuplicatesRemoved)
	assert.Equal(t, 10, out.Result.Summary.OriginalCount)
	assert.Equal(t, 7, out.Result.Summary.RemainingCount)
	assert.Equal(t, 3, out.Result.Removed.Len())

	kept := map[int]bool{}
	for _, r := range out.Result.Kept.Rows {
		kept[r.Index] = true
	}
	assert.True(t, kept[4], "bare-domain row survives the collapse")
	assert.False(t, kept[2])
	assert.False(t, kept[3])
	assert.True(t, kept[5])
	assert.True(t, kept[6])
}

func TestRunAutoCollapsesSharedLogins(t *testing.T) {
	// One exact pair plus three rows with the same URL and username but
	// distinct passwords; the first automatic pass keeps one of the three.
	csv := `name,login_uri,login_username,login_password
GH,https://github.com,bob,g1
GH,https://github.com,bob,g1
FB,https://facebook.com,alice,p1
FB,https://facebook.com,alice,p2
FB,https://facebook.com,alice,p3
GL,https://gitlab.com,bob,x1
Bank,https://bank.example.com,carol,b1
Mail,https://mail.example.org,dave,m1
Shop,https://shop.example.net,erin,s1
News,https://news.example.com,frank,n1
`
	ds := load(t, csv)
	out, err := newCleaner(config.ModeAuto).Run(ds)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Result.Summary.FullDuplicatesRemoved)
	assert.Equal(t, 2, out.Result.Summary.PartialDuplicatesRemoved)
	assert.Equal(t, 7, out.Result.Summary.RemainingCount)
	assert.Equal(t, 3, out.Result.Removed.Len())

	kept := map[int]bool{}
	for _, r := range out.Result.Kept.Rows {
		kept[r.Index] = true
	}
	assert.True(t, kept[2], "first-seen login survives")
	assert.False(t, kept[3])
	assert.False(t, kept[4])
}

func TestRunAnalyzeChangesNothing(t *testing.T) {
	ds := load(t, endToEndCSV)
	out, err := newCleaner(config.ModeAnalyze).Run(ds)
	require.NoError(t, err)

	// The exact pass is unconditional; analyze only skips the partial passes.
	assert.Equal(t, 1, out.Result.Summary.FullDuplicatesRemoved)
	assert.Equal(t, 0, out.Result.Summary.PartialDuplicatesRemoved)
	assert.Equal(t, 1, out.Analysis.FullRowGroups)
	assert.Equal(t, 1, out.Analysis.DomainCredGroups)
	assert.GreaterOrEqual(t, out.Analysis.URIGroups, 1)
}

func TestRunInteractiveCommitsPartialProgressOnAbort(t *testing.T) {
	csv := `name,login_uri,login_username,login_password
A,https://a.com,u1,p
A,https://a.com,u2,p
B,https://b.com,u1,p
B,https://b.com,u2,p
`
	ds := load(t, csv)
	c := newCleaner(config.ModeInteractive)
	c.Prompter = &scriptedPrompter{selections: []dedupe.Selection{
		{Delete: []int{1}},
		{Abort: true},
	}}

	out, err := c.Run(ds)
	require.NoError(t, err)
	assert.True(t, out.Aborted)
	assert.Equal(t, 1, out.Result.Summary.PartialDuplicatesRemoved)
	assert.Equal(t, 3, out.Result.Summary.RemainingCount)
}

func TestRunInteractiveWithoutPrompterFails(t *testing.T) {
	ds := load(t, endToEndCSV)
	_, err := newCleaner(config.ModeInteractive).Run(ds)
	assert.Error(t, err)
}

func TestRunCleansNamesAndAnnotates(t *testing.T) {
	csv := `name,login_uri,login_username,login_password
Facebook (imported),https://www.facebook.com/,alice,p
GitHub,github.com,bob,p
`
	ds := load(t, csv)
	_, err := newCleaner(config.ModeAnalyze).Run(ds)
	require.NoError(t, err)

	assert.Equal(t, "Facebook", ds.Rows[0].Name())
	assert.Equal(t, "https://www.facebook.com", ds.Rows[0].NormalizedURI)
	assert.Equal(t, "facebook.com", ds.Rows[0].Domain)
	assert.Equal(t, "github.com", ds.Rows[1].NormalizedURI)
}

func TestRunProgressCallback(t *testing.T) {
	ds := load(t, endToEndCSV)
	c := newCleaner(config.ModeAnalyze)
	var calls int
	c.Progress = func(done, total int) {
		calls++
		assert.Equal(t, 10, total)
	}
	_, err := c.Run(ds)
	require.NoError(t, err)
	assert.Equal(t, 10, calls)
}

type scriptedPrompter struct {
	selections []dedupe.Selection
	calls      int
}

func (p *scriptedPrompter) Select(g dedupe.Group, attempt int) (dedupe.Selection, error) {
	sel := p.selections[p.calls]
	p.calls++
	return sel, nil
}

func (p *scriptedPrompter) Reject(g dedupe.Group, reason string) {}
