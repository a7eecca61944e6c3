package dashboard

import "fmt"

// Letter is a first-letter filter applied to user names.
type Letter string

// Filter letters offered by the dashboard
const (
	LetterAll Letter = "All"
	LetterA   Letter = "A"
	LetterB   Letter = "B"
	LetterC   Letter = "C"
	LetterD   Letter = "D"
)

// Letters is the fixed, ordered set of filter controls.
var Letters = []Letter{LetterAll, LetterA, LetterB, LetterC, LetterD}

// ParseLetter returns the Letter named by s. Only the values in Letters are accepted.
func ParseLetter(s string) (Letter, error) {
	for _, l := range Letters {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid filter letter %q", s)
}

// Next returns the letter after l in Letters, wrapping around.
func (l Letter) Next() Letter {
	return l.offset(1)
}

// Prev returns the letter before l in Letters, wrapping around.
func (l Letter) Prev() Letter {
	return l.offset(-1)
}

func (l Letter) offset(delta int) Letter {
	for i, candidate := range Letters {
		if candidate == l {
			n := len(Letters)
			return Letters[((i+delta)%n+n)%n]
		}
	}
	return LetterAll
}
