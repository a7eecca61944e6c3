package dashboard

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	domain "user-dashboard/internal/domain/user"
)

// collationTag selects the collation used to order names.
var collationTag = language.English

// Filter returns the users whose name starts with letter, in input order.
// LetterAll keeps every user. The input slice is never modified.
func Filter(users []domain.User, letter Letter) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if letter == LetterAll || strings.HasPrefix(u.Name, string(letter)) {
			out = append(out, u)
		}
	}
	return out
}

// Sort returns a copy of users ordered by name using locale-aware collation.
// Users with equal names keep their relative input order in both directions.
func Sort(users []domain.User, ascending bool) []domain.User {
	out := slices.Clone(users)
	if out == nil {
		out = []domain.User{}
	}

	// Collators keep internal buffers and must not be shared across goroutines.
	c := collate.New(collationTag)
	slices.SortStableFunc(out, func(a, b domain.User) int {
		if ascending {
			return c.CompareString(a.Name, b.Name)
		}
		return c.CompareString(b.Name, a.Name)
	})
	return out
}

// Derive computes the rows shown for users under the given controls: filter first, then sort.
func Derive(users []domain.User, letter Letter, ascending bool) []domain.User {
	return Sort(Filter(users, letter), ascending)
}
