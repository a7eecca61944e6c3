package dashboard

import (
	"fmt"

	domain "user-dashboard/internal/domain/user"
)

// Branch identifies which of the mutually exclusive views is shown.
type Branch int

const (
	// BranchLoading shows the progress indicator while the fetch is outstanding.
	BranchLoading Branch = iota
	// BranchError shows the load failure message instead of any data.
	BranchError
	// BranchReady shows the controls and the derived rows.
	BranchReady
)

// String returns the lowercase name of the branch.
func (b Branch) String() string {
	switch b {
	case BranchLoading:
		return "loading"
	case BranchError:
		return "error"
	case BranchReady:
		return "ready"
	default:
		return fmt.Sprintf("branch(%d)", int(b))
	}
}

// State is the dashboard view state. Users is written only by the loader;
// FilterLetter and SortAscending only by interaction handlers.
type State struct {
	Users         []domain.User
	Loading       bool
	Error         string
	FilterLetter  Letter
	SortAscending bool
}

// NewState returns the state of a dashboard that has not loaded anything yet.
func NewState() State {
	return State{
		Users:         []domain.User{},
		FilterLetter:  LetterAll,
		SortAscending: true,
	}
}

// Branch reports the active view. Loading takes precedence over an error,
// and an error takes precedence over previously loaded users.
func (s State) Branch() Branch {
	switch {
	case s.Loading:
		return BranchLoading
	case s.Error != "":
		return BranchError
	default:
		return BranchReady
	}
}

// Snapshot is an immutable read model of the dashboard handed to presenters.
type Snapshot struct {
	Revision      uint64        // Revision increases with every applied batch
	Branch        Branch        // Branch is the active view
	Error         string        // Error is the load failure message, if any
	FilterLetter  Letter        // FilterLetter is the selected filter control
	SortAscending bool          // SortAscending is the current sort direction
	Total         int           // Total is the number of loaded users before filtering
	Rows          []domain.User // Rows is the filtered and sorted view
}

// Empty reports whether the derived view has no rows.
func (s Snapshot) Empty() bool {
	return len(s.Rows) == 0
}
