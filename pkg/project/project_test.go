package project_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordbookapp/wordbook/pkg/project"
)

func TestSplitLines(t *testing.T) {
	lines := project.SplitLines("alpha | a\r\n\nbeta | b\n   \ngamma | c\n")
	assert.Equal(t, []string{"alpha | a", "beta | b", "gamma | c"}, lines)

	assert.Empty(t, project.SplitLines(""))
	assert.Empty(t, project.SplitLines("\n \n\t\n"))
}

func TestProjectNaturalOrder(t *testing.T) {
	lines := []string{"apple", "banana", "cherry", "date"}

	t.Run("NoFilterNoShuffle", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2, 3}, project.Project(lines, "", nil))
	})

	t.Run("FilterIsCaseInsensitive", func(t *testing.T) {
		assert.Equal(t, []int{1, 3}, project.Project(lines, "AN", nil))
	})

	t.Run("BlankQueryMeansNoFilter", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2, 3}, project.Project(lines, "   ", nil))
	})

	t.Run("FilterMatchesRawLineNotWordField", func(t *testing.T) {
		raw := []string{
			"apple | https://fruit.example/apple | 2026-01-01T00:00:00Z | 1",
			"banana | https://veg.example/banana | 2026-01-02T00:00:00Z | 2",
		}
		// Matches inside the link field, never shown as the display word.
		assert.Equal(t, []int{1}, project.Project(raw, "veg.example", nil))
	})
}

func TestProjectShuffle(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}

	t.Run("ShuffleOrderPreserved", func(t *testing.T) {
		assert.Equal(t, []int{2, 0, 3, 1}, project.Project(lines, "", []int{2, 0, 3, 1}))
	})

	t.Run("FilteredEntriesDropped", func(t *testing.T) {
		// Only positions 0 and 3 match; shuffle order among survivors holds.
		raw := []string{"cat one", "dog", "bird", "cat two"}
		assert.Equal(t, []int{0, 3}, project.Project(raw, "cat", []int{2, 0, 3, 1}))
	})

	t.Run("AppendedLinesFollowInNaturalOrder", func(t *testing.T) {
		grown := []string{"a", "b", "c", "d"}
		order := project.Project(grown, "", []int{2, 0, 1})
		assert.Equal(t, []int{2, 0, 1, 3}, order)
	})

	t.Run("OutOfRangeAndDuplicatesSkipped", func(t *testing.T) {
		order := project.Project(lines, "", []int{9, 2, 2, -1, 0})
		assert.Equal(t, []int{2, 0, 1, 3}, order)
	})
}

func TestProjectIsDeterministicAndValid(t *testing.T) {
	lines := []string{"one", "two", "three", "four", "five", "six"}
	queries := []string{"", "o", "e", "zzz"}
	shuffles := [][]int{nil, {5, 3, 1}, {0, 1, 2, 3, 4, 5}, {7, 7, -2}}

	for _, q := range queries {
		for _, sh := range shuffles {
			first := project.Project(lines, q, sh)
			second := project.Project(lines, q, sh)
			require.Equal(t, first, second, "same inputs must project identically")

			seen := map[int]bool{}
			for _, i := range first {
				require.GreaterOrEqual(t, i, 0)
				require.Less(t, i, len(lines))
				require.False(t, seen[i], "duplicate position %d", i)
				seen[i] = true
			}
		}
	}
}

func TestShuffle(t *testing.T) {
	base := []int{0, 1, 2, 3, 4, 5, 6, 7}

	r := project.NewSeededRand(1, 2)
	got := project.Shuffle(base, r)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, base, "input must not be mutated")
	sorted := append([]int(nil), got...)
	sort.Ints(sorted)
	assert.Equal(t, base, sorted, "output must be a permutation of the input")

	again := project.Shuffle(base, project.NewSeededRand(1, 2))
	assert.Equal(t, got, again, "seeded source must be deterministic")

	assert.Empty(t, project.Shuffle(nil, r))
}
