// Package cleaner wires the cleaning pipeline: exact-duplicate pass,
// normalization, partial-duplicate grouping, policy resolution and the final
// in-memory transaction. It performs no file I/O, so callers can run the
// whole pipeline in dry-run and discard the result.
package cleaner

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adigandhi/BitVault-Pass-cleaner/internal/config"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/dedupe"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/normalize"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/vault"
)

// Cleaner runs the pipeline for one dataset.
type Cleaner struct {
	Options  *config.Options
	Log      zerolog.Logger
	Prompter dedupe.Prompter
	// Progress, when set, is called once per row during the normalization
	// pass so the caller can render a bar.
	Progress func(done, total int)
}

// Analysis counts the duplicate surface of the dataset after the exact pass,
// for reporting.
type Analysis struct {
	FullRowGroups    int `json:"full_row_groups"`
	URIGroups        int `json:"uri_groups"`
	URIUserGroups    int `json:"uri_user_groups"`
	DomainCredGroups int `json:"domain_credential_groups"`
}

// GroupOutcome records how one partial-duplicate group was resolved, for the
// run report.
type GroupOutcome struct {
	Key     string `json:"key"`
	Size    int    `json:"size"`
	Deleted []int  `json:"deleted_rows,omitempty"`
}

// Outcome is everything one run produced, still uncommitted to disk.
type Outcome struct {
	Result   dedupe.Result
	Analysis Analysis
	Groups   []GroupOutcome
	// Aborted reports an interactive early abandon; decisions confirmed
	// before the abort are included in Result and must still be committed.
	Aborted bool
}

// Run executes the pipeline over ds. The dataset's rows are annotated with
// normalized keys and cleaned names as a side effect; original URI, username
// and password values are never touched.
func (c *Cleaner) Run(ds *vault.Dataset) (Outcome, error) {
	var out Outcome

	// Pass 1: byte-identical rows, keyed before any normalization so the
	// exact pass sees the export as it arrived.
	fullGroups := dedupe.GroupRows(ds.Rows, dedupe.KeyFullRow)
	out.Analysis.FullRowGroups = len(fullGroups)

	decisions := make([]dedupe.Decision, 0, len(fullGroups))
	fullDeleted := make(map[int]bool)
	for _, g := range fullGroups {
		del := make([]int, 0, len(g.Rows)-1)
		for _, r := range g.Rows[1:] {
			del = append(del, r.Index)
			fullDeleted[r.Index] = true
		}
		d, err := dedupe.NewDecision(g, dedupe.PassFullRow, del)
		if err != nil {
			return out, fmt.Errorf("exact-duplicate pass: %w", err)
		}
		decisions = append(decisions, d)
	}
	c.Log.Debug().Int("groups", len(fullGroups)).Int("rows", len(fullDeleted)).
		Msg("exact duplicate pass complete")

	c.annotate(ds)

	live := ds.RowsExcept(fullDeleted)
	out.Analysis.URIGroups = len(dedupe.GroupRows(live, dedupe.KeyURIOnly))
	out.Analysis.URIUserGroups = len(dedupe.GroupRows(live, dedupe.KeyURIAndUser))
	out.Analysis.DomainCredGroups = len(dedupe.GroupRows(live, dedupe.KeyDomainCredentials))

	// Pass 2: mode-dependent partial duplicates over the survivors.
	switch c.Options.Mode {
	case config.ModeAnalyze:
		// Nothing to resolve; the analysis is the output.

	case config.ModeAuto:
		// Two automatic passes: same login on the same URL first, then the
		// coarser domain-credential collapse over whatever survives.
		autoDeleted := make(map[int]bool)
		for _, g := range dedupe.GroupRows(live, dedupe.KeyURIAndUser) {
			d := dedupe.ResolveAuto(g)
			decisions = append(decisions, d)
			out.Groups = append(out.Groups, GroupOutcome{Key: g.Key, Size: len(g.Rows), Deleted: d.Delete})
			for _, idx := range d.Delete {
				autoDeleted[idx] = true
			}
		}
		survivors := make([]*vault.Row, 0, len(live))
		for _, r := range live {
			if !autoDeleted[r.Index] {
				survivors = append(survivors, r)
			}
		}
		for _, g := range dedupe.GroupRows(survivors, dedupe.KeyDomainCredentials) {
			d := dedupe.ResolveAuto(g)
			decisions = append(decisions, d)
			out.Groups = append(out.Groups, GroupOutcome{Key: g.Key, Size: len(g.Rows), Deleted: d.Delete})
		}

	case config.ModeInteractive:
		if c.Prompter == nil {
			return out, fmt.Errorf("interactive mode needs a prompt collaborator")
		}
		groups := dedupe.GroupRows(live, dedupe.KeyURIOnly)
		manual, aborted, err := dedupe.ResolveManual(groups, c.Prompter)
		if err != nil {
			return out, err
		}
		out.Aborted = aborted
		decisions = append(decisions, manual...)
		byKey := make(map[string][]int, len(manual))
		for _, d := range manual {
			for _, g := range groups {
				if len(d.Delete) > 0 && g.Contains(d.Delete[0]) {
					byKey[g.Key] = d.Delete
					break
				}
			}
		}
		for _, g := range groups {
			out.Groups = append(out.Groups, GroupOutcome{Key: g.Key, Size: len(g.Rows), Deleted: byKey[g.Key]})
		}
	}

	out.Result = dedupe.Apply(ds, decisions)
	c.Log.Info().
		Int("original", out.Result.Summary.OriginalCount).
		Int("full_duplicates", out.Result.Summary.FullDuplicatesRemoved).
		Int("partial_duplicates", out.Result.Summary.PartialDuplicatesRemoved).
		Int("remaining", out.Result.Summary.RemainingCount).
		Msg("cleaning pipeline finished")
	return out, nil
}

// annotate fills the derived comparison fields of every row and cleans entry
// names. It runs after the exact pass so cleaned names never mask
// byte-identical duplicates.
func (c *Cleaner) annotate(ds *vault.Dataset) {
	total := ds.Len()
	for i, r := range ds.Rows {
		r.NormalizedURI, r.Domain = normalize.URL(r.URI())
		if ds.Schema.HasName() {
			r.SetName(normalize.Name(r.Name()))
		}
		if c.Progress != nil {
			c.Progress(i+1, total)
		}
	}
}
