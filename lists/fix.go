package lists

import "fmt"

// Action is what a Fix did to a tag.
type Action int

const (
	// Insert means a synthesized tag was added to the output.
	Insert Action = iota
	// Drop means a source tag was left out of the output.
	Drop
	// Rewrite means a source tag was written with a different name spelling.
	Rewrite
)

func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Drop:
		return "drop"
	case Rewrite:
		return "rewrite"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	for _, v := range []Action{Insert, Drop, Rewrite} {
		if v.String() == string(text) {
			*a = v
			return nil
		}
	}
	return fmt.Errorf("unknown fix action %q", text)
}

// Reasons reported with fixes.
const (
	ReasonOrphanItems     = "items without a list"
	ReasonMissingOpen     = "closing tag without opening tag"
	ReasonNestedList      = "list directly inside a list"
	ReasonUnclosedItem    = "unclosed item"
	ReasonUnclosedList    = "unclosed list"
	ReasonMismatchedClose = "closing tag does not match the list"
	ReasonStrayClose      = "closing tag without open element"
	ReasonEmptyItem       = "empty item"
	ReasonEmptyList       = "list without items"
	ReasonCaseMismatch    = "closing tag spelled differently"
)

// Fix records one change the repair made to the fragment.
type Fix struct {
	Action Action `json:"action"`

	// Tag is the tag text inserted, dropped or written.
	Tag string `json:"tag"`

	// Offset is the source byte offset of the token that triggered the change.
	Offset int `json:"offset"`

	Reason string `json:"reason"`
}

func (f Fix) String() string {
	return fmt.Sprintf("%d: %s %s (%s)", f.Offset, f.Action, f.Tag, f.Reason)
}
