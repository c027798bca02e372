package dedupe

import "fmt"

// ActionKind is the kind of filesystem operation an Action performs.
// The zero value is not a valid kind.
type ActionKind int

const (
	// ActionMove relocates Src to Dst, replacing Dst if it exists.
	ActionMove ActionKind = iota + 1
)

func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is a single planned filesystem operation for a non-keeper member
// of a duplicate group. Reason is informational and ignored by the executor.
type Action struct {
	Src    string
	Dst    string
	Kind   ActionKind
	Reason string
}

// Report lists the actions an executor applied, in order.
type Report struct {
	Applied []Action
}

// Count returns the number of applied actions.
func (r Report) Count() int {
	return len(r.Applied)
}
