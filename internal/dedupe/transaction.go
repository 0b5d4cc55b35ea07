package dedupe

import "github.com/adigandhi/BitVault-Pass-cleaner/internal/vault"

// Summary carries the counters reported after a run.
type Summary struct {
	OriginalCount            int `json:"original_count"`
	FullDuplicatesRemoved    int `json:"fully_duplicate_removed"`
	PartialDuplicatesRemoved int `json:"partial_duplicate_removed"`
	RemainingCount           int `json:"remaining_count"`
}

// TotalRemoved is the number of rows deleted across all passes.
func (s Summary) TotalRemoved() int {
	return s.FullDuplicatesRemoved + s.PartialDuplicatesRemoved
}

// Result is the terminal artifact of a cleaning run: the kept/removed
// partition of the original dataset plus its counters. Removed rows keep
// their original content and relative order, so the pre-cleaning union stays
// reconstructable.
type Result struct {
	Kept    *vault.Dataset
	Removed *vault.Dataset
	Summary Summary
}

// Apply merges all approved decisions into one delete set and commits it
// against the in-memory dataset. Decisions from distinct groups are disjoint,
// so the merge needs no conflict resolution. No file I/O happens here: this
// is the single point separating "decide" from "commit", which is what makes
// dry-run possible.
func Apply(ds *vault.Dataset, decisions []Decision) Result {
	deleteSet := make(map[int]bool)
	fullCount, partialCount := 0, 0
	for _, d := range decisions {
		for _, idx := range d.Delete {
			if deleteSet[idx] {
				continue
			}
			deleteSet[idx] = true
			switch d.Pass {
			case PassFullRow:
				fullCount++
			case PassPartial:
				partialCount++
			}
		}
	}

	kept, removed := ds.Partition(deleteSet)
	return Result{
		Kept:    kept,
		Removed: removed,
		Summary: Summary{
			OriginalCount:            ds.Len(),
			FullDuplicatesRemoved:    fullCount,
			PartialDuplicatesRemoved: partialCount,
			RemainingCount:           kept.Len(),
		},
	}
}
