package dedupe

import "fmt"

// Selection is what the prompt collaborator hands back for one group.
type Selection struct {
	// Delete holds the original indices of the rows picked for deletion.
	Delete []int
	// KeepAll confirms the group untouched.
	KeepAll bool
	// Skip leaves the group unresolved and moves on.
	Skip bool
	// Abort ends the whole sequence; decisions confirmed so far stay valid.
	Abort bool
}

// Prompter is the injected collaborator the manual policy asks for
// selections. Implementations own all terminal I/O; the policy owns the
// rules.
type Prompter interface {
	// Select presents a group and returns the user's choice. attempt starts
	// at 1 and increments on re-prompts after a rejected selection.
	Select(g Group, attempt int) (Selection, error)
	// Reject reports a refused selection (e.g. the delete-all guard) before
	// the group is presented again.
	Reject(g Group, reason string)
}

// groupState is the explicit per-group progression of the interactive
// sequence.
type groupState int

const (
	statePresenting groupState = iota
	stateConfirmed
	stateSkipped
	stateAborted
)

const maxRejectedAttempts = 5

// ResolveManual walks every group through the prompt collaborator and
// collects validated decisions. A selection that would delete every member
// of a group is refused and the group is presented again; after too many
// refusals the group is skipped rather than looping forever. Abort stops the
// sequence immediately while preserving decisions already confirmed; partial
// completion is a valid outcome and must be committed by the caller.
func ResolveManual(groups []Group, p Prompter) (decisions []Decision, aborted bool, err error) {
	for _, g := range groups {
		state := statePresenting
		attempt := 0
		for state == statePresenting {
			attempt++
			sel, err := p.Select(g, attempt)
			if err != nil {
				return decisions, false, fmt.Errorf("prompt for group %q: %w", g.Key, err)
			}

			switch {
			case sel.Abort:
				state = stateAborted
			case sel.Skip, sel.KeepAll:
				state = stateSkipped
			default:
				d, derr := NewDecision(g, PassPartial, sel.Delete)
				if derr != nil {
					p.Reject(g, derr.Error())
					if attempt >= maxRejectedAttempts {
						state = stateSkipped
					}
					continue
				}
				if len(d.Delete) > 0 {
					decisions = append(decisions, d)
				}
				state = stateConfirmed
			}
		}
		if state == stateAborted {
			return decisions, true, nil
		}
	}
	return decisions, false, nil
}
