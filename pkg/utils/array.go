package utils

import (
	"golang.org/x/exp/constraints"
)

// Generates a sequence of n elements given a generation function
func Iota[T any](n int, gen func(int) T) []T {
	values := make([]T, n)

	for i := range values {
		values[i] = gen(i)
	}

	return values
}

// Returns a map from each item of a sequence to its index
func InvertedArray[T comparable](input []T) map[T]int {
	output := make(map[T]int, len(input))

	for i, value := range input {
		output[value] = i
	}

	return output
}

// Returns the items of a sequence for which a predicate holds
func Filter[T any](input []T, predicate func(T) bool) []T {
	output := make([]T, 0, len(input))

	for _, value := range input {
		if predicate(value) {
			output = append(output, value)
		}
	}

	return output
}

// Returns the biggest item of a sequence, or the zero value if it is empty
func Max[T constraints.Ordered](input []T) T {
	var max T

	for i, item := range input {
		if i == 0 || item > max {
			max = item
		}
	}

	return max
}
