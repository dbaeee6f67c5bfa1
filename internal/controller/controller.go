// Package controller owns the local task collection and mediates every
// mutation through the remote store.
//
// The local collection mirrors the last confirmed store state. Nothing is
// changed locally until the store has acknowledged the request: each
// operation sends, waits, then applies its own result. Operations may
// overlap; each applies its result under the controller's lock when its
// response arrives, so the last response to arrive wins.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/service"
)

// User-facing notification texts.
const (
	MsgEmptyTitle   = "Task name cannot be empty"
	MsgAdded        = "Task added"
	MsgUpdated      = "Task updated"
	MsgDeleted      = "Task deleted"
	MsgLoadFailed   = "Failed to load tasks."
	MsgAddFailed    = "Failed to add task."
	MsgUpdateFailed = "Failed to update task."
	MsgDeleteFailed = "Failed to delete task."
	MsgNotFound     = "Task not found"
)

// Notifier receives one-shot user notifications.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

// selector names at most one row.
type selector struct {
	id  string
	set bool
}

func (s *selector) is(id string) bool { return s.set && s.id == id }
func (s *selector) clear()            { *s = selector{} }
func (s *selector) choose(id string)  { *s = selector{id: id, set: true} }

// TaskListController is the single authority for the task collection shown
// to the user. Safe for concurrent use.
type TaskListController struct {
	store  service.Store
	notify Notifier
	log    *slog.Logger

	mu        sync.Mutex
	tasks     []service.Task
	draft     string
	editing   selector
	editTitle string
	options   selector
}

// New creates a controller with an empty collection.
func New(store service.Store, notify Notifier, logger *slog.Logger) *TaskListController {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskListController{
		store:  store,
		notify: notify,
		log:    logger.With("component", "controller"),
	}
}

// Load replaces the local collection with the store's listing.
// On failure the collection keeps its previous contents.
func (c *TaskListController) Load(ctx context.Context) error {
	tasks, err := c.store.ListTasks(ctx)
	if err != nil {
		return c.fail(ctx, MsgLoadFailed, "load", err)
	}

	seen := make(map[string]bool, len(tasks))
	fresh := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			c.log.WarnContext(ctx, "store listed duplicate task id", "id", t.ID)
			continue
		}
		seen[t.ID] = true
		fresh = append(fresh, t)
	}

	c.mu.Lock()
	c.tasks = fresh
	if c.editing.set && !c.hasLocked(c.editing.id) {
		c.editing.clear()
		c.editTitle = ""
	}
	if c.options.set && !c.hasLocked(c.options.id) {
		c.options.clear()
	}
	c.mu.Unlock()

	c.log.DebugContext(ctx, "tasks loaded", "count", len(fresh))
	return nil
}

// Add creates a task with the given title and appends it to the collection.
// Blank titles are rejected without contacting the store.
func (c *TaskListController) Add(ctx context.Context, title string) (service.Task, error) {
	if isBlank(title) {
		return service.Task{}, c.reject(apperrors.ValidationError(MsgEmptyTitle))
	}

	id, err := c.store.CreateTask(ctx, title, "")
	if err != nil {
		return service.Task{}, c.fail(ctx, MsgAddFailed, "add", err)
	}

	task := service.Task{ID: id, Title: title}
	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 {
		c.log.WarnContext(ctx, "store reused an existing task id", "id", id)
		c.tasks[i] = task
	} else {
		c.tasks = append(c.tasks, task)
	}
	c.draft = ""
	c.mu.Unlock()

	c.notify.Success(MsgAdded)
	return task, nil
}

// Rename changes the title of a task present in the collection.
// On success an edit in progress on that row ends; on failure it stays open.
func (c *TaskListController) Rename(ctx context.Context, id, title string) error {
	if isBlank(title) {
		return c.reject(apperrors.ValidationError(MsgEmptyTitle))
	}
	if _, ok := c.Find(id); !ok {
		return c.reject(apperrors.NotFoundError(MsgNotFound).WithContext("id", id))
	}

	if err := c.store.UpdateTask(ctx, id, title, ""); err != nil {
		return c.fail(ctx, MsgUpdateFailed, "rename", err)
	}

	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 {
		c.tasks[i].Title = title
	}
	if c.editing.is(id) {
		c.editing.clear()
		c.editTitle = ""
	}
	c.mu.Unlock()

	c.notify.Success(MsgUpdated)
	return nil
}

// Remove deletes a task present in the collection.
func (c *TaskListController) Remove(ctx context.Context, id string) error {
	if _, ok := c.Find(id); !ok {
		return c.reject(apperrors.NotFoundError(MsgNotFound).WithContext("id", id))
	}

	if err := c.store.DeleteTask(ctx, id); err != nil {
		return c.fail(ctx, MsgDeleteFailed, "remove", err)
	}

	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 {
		c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
	}
	if c.editing.is(id) {
		c.editing.clear()
		c.editTitle = ""
	}
	if c.options.is(id) {
		c.options.clear()
	}
	c.mu.Unlock()

	c.notify.Success(MsgDeleted)
	return nil
}

// Tasks returns a copy of the collection in display order.
func (c *TaskListController) Tasks() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]service.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Len returns the number of tasks in the collection.
func (c *TaskListController) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// Find returns the task with the given id.
func (c *TaskListController) Find(id string) (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.tasks[i], true
	}
	return service.Task{}, false
}

// SetDraft stores the add-input text.
func (c *TaskListController) SetDraft(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = s
}

// Draft returns the add-input text.
func (c *TaskListController) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SubmitDraft adds a task titled with the current draft.
func (c *TaskListController) SubmitDraft(ctx context.Context) (service.Task, error) {
	return c.Add(ctx, c.Draft())
}

// StartEdit puts the row into edit mode, seeding the buffer with its title.
// Any other row leaves edit mode and the options menu closes.
func (c *TaskListController) StartEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return apperrors.NotFoundError(MsgNotFound).WithContext("id", id)
	}
	c.editing.choose(id)
	c.editTitle = c.tasks[i].Title
	c.options.clear()
	return nil
}

// SetEditTitle updates the edit buffer.
func (c *TaskListController) SetEditTitle(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editTitle = s
}

// Editing returns the row in edit mode and its buffer.
func (c *TaskListController) Editing() (id, title string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing.id, c.editTitle, c.editing.set
}

// SaveEdit renames the editing row to the buffer contents.
func (c *TaskListController) SaveEdit(ctx context.Context) error {
	id, title, ok := c.Editing()
	if !ok {
		return apperrors.ValidationError("no task is being edited")
	}
	return c.Rename(ctx, id, title)
}

// CancelEdit leaves edit mode without changes.
func (c *TaskListController) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing.clear()
	c.editTitle = ""
}

// ToggleOptions opens the options menu on a row, or closes it if it is
// already open there. At most one row has its menu open.
func (c *TaskListController) ToggleOptions(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.options.is(id) {
		c.options.clear()
		return
	}
	c.options.choose(id)
}

// CloseOptions closes any open options menu.
func (c *TaskListController) CloseOptions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options.clear()
}

// OptionsOpen returns the row whose options menu is open.
func (c *TaskListController) OptionsOpen() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options.id, c.options.set
}

// reject reports a local rejection. No store call has been made.
func (c *TaskListController) reject(err *apperrors.Error) error {
	c.notify.Failure(err.Message)
	return err
}

// fail reports a remote failure and returns it for the caller.
func (c *TaskListController) fail(ctx context.Context, msg, op string, err error) error {
	c.log.DebugContext(ctx, "store call failed", "op", op, "error", err)
	c.notify.Failure(msg)

	var e *apperrors.Error
	if errors.As(err, &e) {
		return e
	}
	return apperrors.TransportError(op, err)
}

func (c *TaskListController) indexLocked(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (c *TaskListController) hasLocked(id string) bool {
	return c.indexLocked(id) >= 0
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
