package utils

import (
	"strings"
)

// A column of text rows rendered by Columns
type Column struct {
	// Header row printed above the column body
	Header string

	// Body rows, without trailing newlines
	Rows []string
}

func (c *Column) height() int {
	return len(c.Rows) + 1
}

func (c *Column) row(i int) string {
	switch {
	case i == 0:
		return c.Header
	case i-1 < len(c.Rows):
		return c.Rows[i-1]
	default:
		return ""
	}
}

func (c *Column) width() int {
	return Max(append(Map(c.Rows, func(row string) int { return len(row) }), len(c.Header)))
}

// Renders columns of text side by side. Each column is padded to its own
// widest row and columns are separated by gutter spaces. When a column runs
// out of rows it is filled with blanks.
func Columns(columns []Column, gutter int) string {
	if len(columns) == 0 {
		return ""
	}

	widths := Map(columns, func(c Column) int { return c.width() })
	height := Max(Map(columns, func(c Column) int { return c.height() }))
	separator := strings.Repeat(" ", gutter)

	var result strings.Builder

	for i := 0; i < height; i++ {
		for j := range columns {
			if j > 0 {
				result.WriteString(separator)
			}

			result.WriteString(PadRight(columns[j].row(i), widths[j]))
		}

		result.WriteString("\n")
	}

	return result.String()
}
