package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the dashboard view.
type KeyMap struct {
	// Filter letters.
	All     key.Binding
	LetterA key.Binding
	LetterB key.Binding
	LetterC key.Binding
	LetterD key.Binding

	// Cycle through the filter letters.
	NextLetter key.Binding
	PrevLetter key.Binding

	SortToggle key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	All: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "all"),
	),
	LetterA: key.NewBinding(
		key.WithKeys("a", "A"),
		key.WithHelp("a-d", "filter"),
	),
	LetterB: key.NewBinding(
		key.WithKeys("b", "B"),
	),
	LetterC: key.NewBinding(
		key.WithKeys("c", "C"),
	),
	LetterD: key.NewBinding(
		key.WithKeys("d", "D"),
	),
	NextLetter: key.NewBinding(
		key.WithKeys("right", "l", "tab"),
		key.WithHelp("←/→", "cycle"),
	),
	PrevLetter: key.NewBinding(
		key.WithKeys("left", "h", "shift+tab"),
	),
	SortToggle: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpBindings lists the bindings shown in the help line, in order.
func (keys KeyMap) helpBindings() []key.Binding {
	return []key.Binding{keys.All, keys.LetterA, keys.NextLetter, keys.SortToggle, keys.Quit}
}
