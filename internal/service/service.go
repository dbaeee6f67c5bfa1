// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Store defines the interface for the remote task store.
// All remote calls go through this interface.
// Commands, the controller and the view never import the HTTP client directly.
type Store interface {
	// ListTasks returns the full task collection in store order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns the identifier the store assigned.
	CreateTask(ctx context.Context, title, description string) (string, error)

	// UpdateTask replaces the title and description of a task.
	UpdateTask(ctx context.Context, id, title, description string) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error
}
