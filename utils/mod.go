package utils

import "sort"

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

func Contains[T comparable](slice []T, item T) bool {
	return FindIndex(slice, item) >= 0
}

// Remove returns a copy of slice without the first occurrence of item.
func Remove[T comparable](slice []T, item T) []T {
	i := FindIndex(slice, item)
	out := make([]T, 0, len(slice))
	out = append(out, slice[:max(i, 0)]...)
	if i >= 0 {
		return append(out, slice[i+1:]...)
	}
	return append(out, slice...)
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
