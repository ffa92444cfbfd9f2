package stringhelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeduplicate(t *testing.T) {
	run := func(input []string, expected []string) func(t *testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, expected, Deduplicate(input))
		}
	}
	t.Run("empty", run([]string{}, []string{}))
	t.Run("one", run([]string{"a"}, []string{"a"}))
	t.Run("two", run([]string{"a", "b"}, []string{"a", "b"}))
	t.Run("dup keeps first", run([]string{"a", "b", "a"}, []string{"a", "b"}))
}

func TestFirstWord(t *testing.T) {
	assert.Equal(t, "patch", FirstWord("Patch: backwards-compatible bug fixes"))
	assert.Equal(t, "minor", FirstWord("  Minor  "))
	assert.Equal(t, "fixed", FirstWord("Fixed"))
	assert.Equal(t, "", FirstWord("   "))
}
