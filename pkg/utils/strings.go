package utils

import (
	"strings"
)

// Replaces tabs by spaces, respecting tab stops
func ExpandTabs(s string, tabstop int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}

	var builder strings.Builder
	column := 0

	for _, c := range s {
		if c == '\t' {
			builder.WriteByte(' ')
			column++

			for column%tabstop != 0 {
				builder.WriteByte(' ')
				column++
			}
		} else {
			builder.WriteRune(c)
			column++
		}
	}

	return builder.String()
}

// Pads text with spaces on the right up to the given width
func PadRight(text string, width int) string {
	if len(text) >= width {
		return text
	}

	return text + strings.Repeat(" ", width-len(text))
}
