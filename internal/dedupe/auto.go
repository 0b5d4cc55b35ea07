package dedupe

import (
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/normalize"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/vault"
)

// ResolveAuto collapses one domain-credentials group down to a single
// representative without interaction. The survivor is chosen by a total,
// deterministic tie-break:
//
//  1. a bare-domain entry wins (host equals the registrable domain, so
//     "facebook.com" beats "m.facebook.com" and "www.facebook.com");
//  2. otherwise the first-seen row (lowest original index) wins.
//
// Groups are non-empty and the survivor is always kept, so the returned
// decision can never trip the delete-all guard.
func ResolveAuto(g Group) Decision {
	keep := g.Rows[0]
	for _, r := range g.Rows[1:] {
		if betterRepresentative(r, keep) {
			keep = r
		}
	}

	deleteIdx := make([]int, 0, len(g.Rows)-1)
	for _, r := range g.Rows {
		if r.Index != keep.Index {
			deleteIdx = append(deleteIdx, r.Index)
		}
	}
	return Decision{Pass: PassPartial, Delete: deleteIdx}
}

// betterRepresentative reports whether candidate should replace current as
// the kept row. Group order follows dataset order, so index ties resolve to
// the earlier row by never replacing on equal rank.
func betterRepresentative(candidate, current *vault.Row) bool {
	cBare, curBare := isBareDomain(candidate), isBareDomain(current)
	if cBare != curBare {
		return cBare
	}
	return candidate.Index < current.Index
}

// isBareDomain reports whether the row's URI host is exactly the registrable
// domain, with no subdomain label in front.
func isBareDomain(r *vault.Row) bool {
	if r.Domain == "" {
		return false
	}
	return normalize.Host(r.NormalizedURI) == normalize.Registrable(r.Domain)
}
