// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"tasktracker/internal/service"
)

// Polling bounds for assert.Eventually in asynchronous tests.
const (
	WaitFor = 2 * time.Second
	Tick    = 5 * time.Millisecond
)

// ErrNotFound is returned when a task id is unknown to the store.
var ErrNotFound = errors.New("not found")

// Call names recorded by FakeStore.
const (
	CallList   = "list"
	CallCreate = "create"
	CallUpdate = "update"
	CallDelete = "delete"
)

// Call is one recorded store invocation.
type Call struct {
	Op          string
	ID          string
	Title       string
	Description string
}

// FakeStore is an in-memory implementation of service.Store for testing.
type FakeStore struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int
	calls  []Call

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// NextIDs, when non-empty, supplies the ids returned by CreateTask in order.
	NextIDs []string
}

// NewFakeStore creates an empty FakeStore. Generated ids start at 1.
func NewFakeStore() *FakeStore {
	return &FakeStore{nextID: 1}
}

// AddTask seeds a task without recording a call.
func (f *FakeStore) AddTask(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title})
	if n, err := strconv.Atoi(id); err == nil && n >= f.nextID {
		f.nextID = n + 1
	}
}

// Tasks returns the store's current contents.
func (f *FakeStore) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns every recorded call in order.
func (f *FakeStore) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many calls of the given op were made.
func (f *FakeStore) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// ListTasks implements service.Store.
func (f *FakeStore) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: CallList})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// CreateTask implements service.Store.
func (f *FakeStore) CreateTask(ctx context.Context, title, description string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: CallCreate, Title: title, Description: description})
	if f.CreateErr != nil {
		return "", f.CreateErr
	}

	var id string
	if len(f.NextIDs) > 0 {
		id = f.NextIDs[0]
		f.NextIDs = f.NextIDs[1:]
	} else {
		id = strconv.Itoa(f.nextID)
		f.nextID++
	}
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title})
	return id, nil
}

// UpdateTask implements service.Store.
func (f *FakeStore) UpdateTask(ctx context.Context, id, title, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: CallUpdate, ID: id, Title: title, Description: description})
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Title = title
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Store.
func (f *FakeStore) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: CallDelete, ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
