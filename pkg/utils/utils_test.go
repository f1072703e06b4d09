package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumns_Empty(t *testing.T) {
	assert.Equal(t, "", Columns(nil, 2))
}

func TestColumns_SingleColumn(t *testing.T) {
	actual := Columns([]Column{{Header: "# a", Rows: []string{"x", "longer"}}}, 2)

	assert.Equal(t, ""+
		"# a   \n"+
		"x     \n"+
		"longer\n",
		actual)
}

func TestColumns_UnevenHeights(t *testing.T) {
	actual := Columns([]Column{
		{Header: "L", Rows: []string{"a", "b", "c"}},
		{Header: "RR", Rows: []string{"z"}},
	}, 3)

	assert.Equal(t, ""+
		"L   RR\n"+
		"a   z \n"+
		"b     \n"+
		"c     \n",
		actual)
}

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no tabs", input: "movq %rax, %rbx", expected: "movq %rax, %rbx"},
		{name: "leading tab", input: "\tret", expected: "        ret"},
		{name: "tab stop alignment", input: "abc\td", expected: "abc     d"},
		{name: "two tabs", input: "\t\tx", expected: "                x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandTabs(tt.input, 8))
		})
	}
}

func TestMax(t *testing.T) {
	assert.Equal(t, 0, Max([]int{}))
	assert.Equal(t, -1, Max([]int{-3, -1, -2}))
	assert.Equal(t, "pa", Max([]string{"lwhile", "pa", "ar"}))
}

func TestFilter(t *testing.T) {
	assert.Equal(t, []int{2, 4}, Filter([]int{1, 2, 3, 4}, func(i int) bool { return i%2 == 0 }))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}

func TestMakeError(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := MakeError(sentinel, "file %v line %v", "x.src", 3)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "sentinel: file x.src line 3", err.Error())
}
