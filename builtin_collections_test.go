package jcl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Builtin_length_and_contains(t *testing.T) {
	wantValue(t, `length([1, 2, 3])`, "3")
	wantValue(t, `length((a = 1, b = 2))`, "2")
	wantValue(t, `length("héllo")`, "5")
	wantValue(t, `contains([1, 2], 2)`, "true")
	wantValue(t, `contains([[1], [2]], [2])`, "true") // deep equality
	wantValue(t, `contains((a = 1), "a")`, "true")
	wantValue(t, `contains("haystack", "stack")`, "true")
	wantValue(t, `contains("haystack", "needle")`, "false")

	ee := evalFail(t, `x = length(42)`)
	require.Contains(t, ee.Msg, "length expects a list, map or string")
}

func Test_Builtin_keys_values_merge_lookup(t *testing.T) {
	wantValue(t, `keys((b = 1, a = 2))`, `["b", "a"]`) // insertion order
	wantValue(t, `values((b = 1, a = 2))`, "[1, 2]")
	// Later maps win on key conflicts; first insertion keeps its slot.
	wantValue(t, `merge((a = 1, b = 2), (b = 20, c = 3))`, "(a = 1, b = 20, c = 3)")
	wantValue(t, `lookup((a = 1), "a", 0)`, "1")
	wantValue(t, `lookup((a = 1), "z", 0)`, "0")
	wantValue(t, `lookup((a = 1), "z")`, "null")
}

func Test_Builtin_list_shaping(t *testing.T) {
	wantValue(t, `flatten([1, [2, [3, 4]], 5])`, "[1, 2, 3, 4, 5]")
	wantValue(t, `distinct([1, 2, 1, 3, 2])`, "[1, 2, 3]")
	wantValue(t, `compact([1, null, "", "x", null])`, `[1, "x"]`)
	wantValue(t, `zipmap(["a", "b"], [1, 2])`, "(a = 1, b = 2)")
	wantValue(t, `coalesce(null, null, 3, 4)`, "3")
	wantValue(t, `coalesce(null, null)`, "null")
	wantValue(t, `sort(["pear", "apple", "fig"])`, `["apple", "fig", "pear"]`)
	wantValue(t, `sort([3, 1.5, 2])`, "[1.5, 2, 3]")
	wantValue(t, `reverse([1, 2, 3])`, "[3, 2, 1]")

	ee := evalFail(t, `x = zipmap(["a"], [1, 2])`)
	require.Contains(t, ee.Msg, "lists of equal length")
	ee = evalFail(t, `x = sort([1, "a"])`)
	require.Contains(t, ee.Msg, "all numbers or all strings")
}

func Test_Builtin_range_function(t *testing.T) {
	wantValue(t, `range(3)`, "[0, 1, 2]")
	wantValue(t, `range(1, 4)`, "[1, 2, 3]")
	wantValue(t, `range(10, 0, -3)`, "[10, 7, 4, 1]")
	wantValue(t, `range(5, 1)`, "[]") // half-open, wrong direction is empty

	ee := evalFail(t, `x = range(0, 5, 0)`)
	require.Contains(t, ee.Msg, "step cannot be zero")
}

func Test_Builtin_higher_order(t *testing.T) {
	wantValue(t, `map([1, 2, 3], x => x * x)`, "[1, 4, 9]")
	wantValue(t, `filter([1, 2, 3, 4], x => x % 2 == 1)`, "[1, 3]")
	wantValue(t, `reduce([1, 2, 3, 4], (acc, x) => acc + x)`, "10")
	wantValue(t, `reduce([1, 2, 3], (acc, x) => acc + x, 100)`, "106")
	wantValue(t, `reduce([], (acc, x) => acc, "seed")`, `"seed"`)
	// Named functions work as callbacks too.
	wantValue(t, "fn double(n) = n * 2\nmap([1, 2], double)", "[2, 4]")

	ee := evalFail(t, `x = reduce([], (acc, v) => acc)`)
	require.Contains(t, ee.Msg, "needs an initial value")
}
