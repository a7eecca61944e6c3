package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLetter(t *testing.T) {
	for _, letter := range Letters {
		got, err := ParseLetter(string(letter))
		require.NoError(t, err)
		assert.Equal(t, letter, got)
	}

	for _, bad := range []string{"", "E", "a", "all", "AB"} {
		_, err := ParseLetter(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestLetter_NextPrev(t *testing.T) {
	assert.Equal(t, LetterA, LetterAll.Next())
	assert.Equal(t, LetterAll, LetterD.Next())
	assert.Equal(t, LetterD, LetterAll.Prev())
	assert.Equal(t, LetterB, LetterC.Prev())
	assert.Equal(t, LetterAll, Letter("Z").Next())
}
