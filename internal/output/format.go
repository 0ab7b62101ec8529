// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todocli/internal/api"
	"todocli/internal/tasksync"
)

const (
	titleWidth = 24
	descWidth  = 32
)

// TaskHeader writes the column header for a task table.
func TaskHeader(w io.Writer) {
	fmt.Fprintf(w, "%4s  %-4s  %-*s  %-*s  %s\n", "NUM", "DONE", titleWidth, "TITLE", descWidth, "DESCRIPTION", "CREATED")
}

// TaskRow formats a single task row.
// Format: 4-wide right-aligned number, done marker, fixed-width title and
// description columns, creation timestamp.
func TaskRow(w io.Writer, task api.Task) {
	mark := "[ ]"
	if task.Status {
		mark = "[x]"
	}
	fmt.Fprintf(w, "%4d  %-4s  %-*s  %-*s  %s\n",
		task.Num,
		mark,
		titleWidth, truncate(normalizeTitle(task.Title), titleWidth),
		descWidth, truncate(flatten(task.Description), descWidth),
		task.CreatedAt,
	)
}

// StateMessage returns the informational line for a non-loaded view.
// Loaded views render rows instead and return the empty string here.
func StateMessage(v tasksync.View) string {
	switch v.State {
	case tasksync.ViewUnauthenticated:
		return "not authorized"
	case tasksync.ViewLoading:
		return "loading tasks..."
	case tasksync.ViewFailed:
		if v.Code == 0 {
			return "task fetch failed: network error"
		}
		return fmt.Sprintf("task fetch failed: status %d", v.Code)
	default:
		return ""
	}
}

// normalizeTitle normalizes a task title for display.
// Empty or whitespace-only titles become "(untitled)"; newlines become spaces.
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// flatten replaces newlines with spaces.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// truncate shortens s to max runes, ellipsized.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
