// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single task item.
type Task struct {
	ID    string // server-assigned, opaque
	Title string
}
