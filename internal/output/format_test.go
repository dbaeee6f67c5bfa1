package output_test

import (
	"bytes"
	"testing"

	"tasktracker/internal/notify"
	"tasktracker/internal/output"
	"tasktracker/internal/service"
	"tasktracker/internal/testutil"
)

func TestFormatTasks_Golden(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTasks(&buf, []service.Task{
		{ID: "1", Title: "Buy milk"},
		{ID: "2", Title: "Walk the dog"},
		{ID: "x-3", Title: "  "},
		{ID: "4", Title: "two\nlines"},
	})
	testutil.Golden(t, "tasks", buf.Bytes())
}

func TestFormatTasks_Empty(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTasks(&buf, nil)
	if buf.String() != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", buf.String())
	}
}

func TestFormatNotification(t *testing.T) {
	var buf bytes.Buffer
	output.FormatNotification(&buf, notify.Notification{Level: notify.LevelSuccess, Message: "Task added"})
	output.FormatNotification(&buf, notify.Notification{Level: notify.LevelError, Message: "Failed to add task."})

	expected := "Task added\nerror: Failed to add task.\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}
