package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceHelpers(t *testing.T) {
	s := []string{"a", "b", "a"}
	require.Equal(t, 1, FindIndex(s, "b"))
	require.Equal(t, -1, FindIndex(s, "z"))
	require.True(t, Contains(s, "a"))
	require.False(t, Contains(s, "z"))

	require.Equal(t, []string{"b", "a"}, Remove(s, "a"))
	require.Equal(t, []string{"a", "b", "a"}, Remove(s, "z"))
	require.Equal(t, []string{"a", "b", "a"}, s, "input is untouched")
}

func TestSortedKeys(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 3, "a": 1, "b": 2}))
	require.Empty(t, SortedKeys(map[string]int{}))
}
