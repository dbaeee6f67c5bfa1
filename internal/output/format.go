// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tasktracker/internal/notify"
	"tasktracker/internal/service"
)

// EmptyList is printed when the collection has no tasks.
const EmptyList = "no tasks found"

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  {TITLE}  ({ID})\n" (4-wide right-aligned number, two spaces, title, id)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s  (%s)\n", num, NormalizeTitle(task.Title), task.ID)
}

// FormatTasks formats every task, numbering from 1, or EmptyList.
func FormatTasks(w io.Writer, tasks []service.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, EmptyList)
		return
	}
	for i, task := range tasks {
		FormatTask(w, i+1, task)
	}
}

// FormatNotification formats a notification as a single line.
// Failures are prefixed with "error: ".
func FormatNotification(w io.Writer, n notify.Notification) {
	if n.Level == notify.LevelError {
		fmt.Fprintf(w, "error: %s\n", n.Message)
		return
	}
	fmt.Fprintln(w, n.Message)
}

// NormalizeTitle normalizes a task title for single-line display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
