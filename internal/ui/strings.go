package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// truncate shortens a plain string to limit cells, ending with an ellipsis.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	if ansi.StringWidth(value) <= limit {
		return value
	}
	if limit <= 1 {
		return ansi.Truncate(value, limit, "")
	}
	return ansi.Truncate(value, limit, "…")
}

// fit cuts a rendered (styled) line to width cells without breaking escape
// sequences.
func fit(rendered string, width int) string {
	if width <= 0 || ansi.StringWidth(rendered) <= width {
		return rendered
	}
	return ansi.Truncate(rendered, width, "")
}

// padRight pads a string with spaces to the given cell width.
func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if width <= 0 || w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// cell truncates and pads value to exactly width cells.
func cell(value string, width int) string {
	return padRight(truncate(value, width), width)
}

// orDash returns value, or a dash when it is blank.
func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// titleCase upper-cases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
