package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"tasktracker/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	ID         string // task id, when ByPosition is false
	Position   int    // 1-based row number, when ByPosition is true
	ByPosition bool
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from the first argument and returns
// the remaining arguments.
//
// Parsing rules:
// 1. "#N" with N all digits → row N of the current listing
// 2. "#" followed by anything else → error: invalid task reference
// 3. Anything else non-blank → a task id, taken verbatim
func ParseTaskRef(args []string) (TaskRef, []string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, nil, ErrTaskRefRequired
	}

	first, rest := args[0], args[1:]
	if num, ok := strings.CutPrefix(first, "#"); ok {
		if !isAllDigits(num) {
			return TaskRef{}, nil, fmt.Errorf("invalid task reference: %s", first)
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return TaskRef{}, nil, fmt.Errorf("invalid task reference: %s", first)
		}
		return TaskRef{Position: n, ByPosition: true}, rest, nil
	}
	return TaskRef{ID: first}, rest, nil
}

// Resolve returns the id the reference names within tasks.
// Id references are returned as given; the controller checks they exist.
func (r TaskRef) Resolve(tasks []service.Task) (string, error) {
	if !r.ByPosition {
		return r.ID, nil
	}
	if r.Position < 1 || r.Position > len(tasks) {
		return "", fmt.Errorf("task number out of range: %d", r.Position)
	}
	return tasks[r.Position-1].ID, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
