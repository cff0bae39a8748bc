package bbcode

import (
	"fmt"
)

// Warning describes a markup problem recovered during the parsing.
type Warning struct {

	// Issue defines the type of the problem.
	Issue Issue `json:"issue"`

	// Pos defines the character position in the raw text at which the problem occured.
	Pos int `json:"pos"`

	// Description is a human-readable story of what went wrong.
	Description string `json:"description"`
}

// WarningOverflowPolicy determines what happends when the maximum Warning capacity is reached.
type WarningOverflowPolicy int

const (
	// WarnOverflowNoCap means no limit for Warning recording.
	WarnOverflowNoCap WarningOverflowPolicy = iota

	// WarnOverflowNoRec means adding new Warning is a no-op.
	WarnOverflowNoRec

	// WarnOverflowDrop means all Warnings, after the overflow reached, will be simply discarded.
	WarnOverflowDrop

	// WarnOverflowTrunc means all Warnings, after the overflow reached, will be discarded, but
	// the number of dropped ones will be recorded and an additional Warning, signalling the overflow,
	// added.
	WarnOverflowTrunc
)

// Warnings maintains the list of issues occured during the parsing.
// The list can have maximum capacity, after which all further Warnings will be discarded,
// with only number of discarded ones available.
type Warnings struct {
	policy WarningOverflowPolicy

	list []Warning

	// maxWarnings protects the parser from huge broken inputs producing a warning per bracket.
	maxWarnings int

	overflowed bool

	// droppedCount is the number of the discarded Warnings after the overflow
	droppedCount int

	// firstDropPos is the position from which the Warnings are discarded
	firstDropPos int
}

func (w *Warnings) IsOverflow() bool {
	return w.overflowed
}

// DroppedCount is a number of Warnings discarded after the overflow.
func (w *Warnings) DroppedCount() int {
	return w.droppedCount
}

// FirstDropPos is the position from which the Warnings are discarded.
func (w *Warnings) FirstDropPos() int {
	return w.firstDropPos
}

func (w *Warnings) List() []Warning {
	return w.list
}

// Add appends new [Warning] item to the inner list.
// If the policy is [WarnOverflowNoRec], this is no-op.
func (w *Warnings) Add(item Warning) {
	switch w.policy {
	case WarnOverflowNoRec:
		return
	case WarnOverflowNoCap:
		w.list = append(w.list, item)
		return
	}

	if w.overflowed {
		if w.policy == WarnOverflowTrunc {
			w.droppedCount++
		}
		return
	}

	limit := w.maxWarnings
	if w.policy == WarnOverflowTrunc {
		// the last slot belongs to the truncation marker
		limit = max(w.maxWarnings-1, 0)
	}

	if len(w.list) < limit {
		w.list = append(w.list, item)
		return
	}

	w.overflowed = true
	w.firstDropPos = item.Pos

	if w.policy == WarnOverflowTrunc {
		w.droppedCount = 1
		if w.maxWarnings > 0 {
			w.list = append(w.list, Warning{
				Issue:       IssueWarningsTruncated,
				Pos:         w.firstDropPos,
				Description: "too many warnings; further warnings suppressed",
			})
		}
	}
}

// Reset forgets all recorded Warnings but keeps the policy and the capacity.
func (w *Warnings) Reset() {
	w.list = w.list[:0]
	w.overflowed = false
	w.droppedCount = 0
	w.firstDropPos = 0
}

// NewWarnings creates a Warnings collector with the given overflow policy and capacity.
// It returns an *Error if cap is negative.
func NewWarnings(policy WarningOverflowPolicy, cap int) (Warnings, error) {
	if cap < 0 {
		return Warnings{}, NewError(
			IssueNegativeWarningsCap,
			fmt.Errorf("warnings cap must be non-negative, got %d", cap),
		)
	}

	return Warnings{
		policy:      policy,
		list:        make([]Warning, 0, min(cap, 64)),
		maxWarnings: cap,
	}, nil
}
