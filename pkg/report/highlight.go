package report

import (
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// Line kinds of the default diff output format
var (
	// 3c3, 5,6d4, 7a8,9
	diffHunkPattern    = regexp.MustCompile(`^\d+(,\d+)?[acd]\d+(,\d+)?$`)
	diffRemovedPattern = regexp.MustCompile(`^< `)
	diffAddedPattern   = regexp.MustCompile(`^> `)
	diffRulePattern    = regexp.MustCompile(`^---$`)
)

type diffRule struct {
	pattern *regexp.Regexp
	color   *color.Color
}

// highlighter colors diff output line by line. The first matching rule wins.
type highlighter struct {
	rules []diffRule
}

func newHighlighter(enabled bool) *highlighter {
	h := &highlighter{
		rules: []diffRule{
			{pattern: diffHunkPattern, color: color.New(color.FgCyan)},
			{pattern: diffRemovedPattern, color: color.New(color.FgRed)},
			{pattern: diffAddedPattern, color: color.New(color.FgGreen)},
			{pattern: diffRulePattern, color: color.New(color.FgHiBlack)},
		},
	}

	for _, rule := range h.rules {
		if enabled {
			rule.color.EnableColor()
		} else {
			rule.color.DisableColor()
		}
	}

	return h
}

// Highlight returns diff with each recognized line colored. Line breaks are
// kept as they are.
func (h *highlighter) Highlight(diff string) string {
	if diff == "" {
		return ""
	}

	lines := strings.SplitAfter(diff, "\n")
	var result strings.Builder

	for _, line := range lines {
		body := strings.TrimSuffix(line, "\n")
		result.WriteString(h.line(body))
		result.WriteString(line[len(body):])
	}

	return result.String()
}

func (h *highlighter) line(line string) string {
	for _, rule := range h.rules {
		if rule.pattern.MatchString(line) {
			return rule.color.Sprint(line)
		}
	}

	return line
}
