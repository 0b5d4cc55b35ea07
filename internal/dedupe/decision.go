package dedupe

import (
	"errors"
	"fmt"
)

var (
	// ErrDeleteAll is the guard against wiping a whole group: every decision
	// must keep at least one member.
	ErrDeleteAll = errors.New("decision would delete every row in the group")
	// ErrOutsideGroup rejects decisions referencing rows the group does not
	// contain.
	ErrOutsideGroup = errors.New("decision references a row outside the group")
)

// Pass tags which cleaning pass produced a decision, so the final summary can
// tell exact duplicates apart from policy-driven removals.
type Pass int

const (
	PassFullRow Pass = iota
	PassPartial
)

// Decision is the outcome of resolving one duplicate group: the original row
// indices to delete. Decisions from distinct groups of one pass are disjoint
// by construction, so they merge without conflict.
type Decision struct {
	Pass   Pass
	Delete []int
}

// NewDecision validates a delete selection against its group. Deleting every
// member is refused, not honored: a group must never vanish wholesale.
func NewDecision(g Group, pass Pass, deleteIdx []int) (Decision, error) {
	seen := make(map[int]bool, len(deleteIdx))
	for _, idx := range deleteIdx {
		if !g.Contains(idx) {
			return Decision{}, fmt.Errorf("%w: row %d", ErrOutsideGroup, idx)
		}
		seen[idx] = true
	}
	if len(seen) >= len(g.Rows) {
		return Decision{}, ErrDeleteAll
	}
	unique := make([]int, 0, len(seen))
	for _, idx := range deleteIdx {
		if seen[idx] {
			unique = append(unique, idx)
			seen[idx] = false
		}
	}
	return Decision{Pass: pass, Delete: unique}, nil
}
