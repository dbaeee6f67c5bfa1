package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"tasktracker/internal/commands"
	"tasktracker/internal/config"
	"tasktracker/internal/controller"
	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/exitcode"
	"tasktracker/internal/logging"
	"tasktracker/internal/notify"
	"tasktracker/internal/testutil"
)

// runCommand is a helper to run a command against a FakeStore.
// A nil store runs the command without a session.
func runCommand(t *testing.T, cmd commands.Command, store *testutil.FakeStore, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var session *commands.Session
	if store != nil {
		notes := notify.NewCenter(nil, 0)
		session = &commands.Session{
			Tasks: controller.New(store, notes, logging.Discard()),
			Notes: notes,
		}
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, session, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func expectCode(t *testing.T, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "tasktracker 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "tasktracker add <title...>", "tasktracker rm <id|#n>", "--base-url"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask("1", "Buy milk")
	store.AddTask("7", "Buy eggs")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, store, nil, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "   1  Buy milk  (1)\n   2  Buy eggs  (7)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	store := testutil.NewFakeStore()

	stdout, _, code := runCommand(t, &commands.ListCmd{}, store, nil, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	store := testutil.NewFakeStore()

	stdout, _, code := runCommand(t, &commands.ListCmd{}, store, nil, true)

	expectCode(t, exitcode.Success, code)
	// Quiet mode should suppress "no tasks found"
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_StoreFailure(t *testing.T) {
	store := testutil.NewFakeStore()
	store.ListErr = apperrors.StatusError("GET /tasks", 500)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, store, nil, false)

	expectCode(t, exitcode.RemoteError, code)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "error: "+controller.MsgLoadFailed) {
		t.Errorf("expected load failure message, got %q", stderr)
	}
	if !strings.Contains(stderr, "unexpected status 500") {
		t.Errorf("expected cause in stderr, got %q", stderr)
	}
}

func TestListCommand_RejectsArguments(t *testing.T) {
	store := testutil.NewFakeStore()

	_, stderr, code := runCommand(t, &commands.ListCmd{}, store, []string{"extra"}, false)

	expectCode(t, exitcode.UserError, code)
	if stderr != "error: unexpected argument: extra\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := store.CallCount(testutil.CallList); n != 0 {
		t.Errorf("expected no store calls, got %d", n)
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	store := testutil.NewFakeStore()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, store, []string{"Buy", "milk"}, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "Task added (1)\n" {
		t.Errorf("expected %q, got %q", "Task added (1)\n", stdout)
	}

	calls := store.Calls()
	if len(calls) != 1 || calls[0].Op != testutil.CallCreate {
		t.Fatalf("expected a single create call, got %+v", calls)
	}
	if calls[0].Title != "Buy milk" || calls[0].Description != "" {
		t.Errorf("unexpected create call %+v", calls[0])
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	store := testutil.NewFakeStore()

	stdout, _, code := runCommand(t, &commands.AddCmd{}, store, []string{"Buy milk"}, true)

	expectCode(t, exitcode.Success, code)
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_Blank(t *testing.T) {
	for _, args := range [][]string{nil, {"   "}, {"", "\t"}} {
		store := testutil.NewFakeStore()

		_, stderr, code := runCommand(t, &commands.AddCmd{}, store, args, false)

		expectCode(t, exitcode.UserError, code)
		if stderr != "error: "+controller.MsgEmptyTitle+"\n" {
			t.Errorf("args %q: unexpected stderr %q", args, stderr)
		}
		if n := len(store.Calls()); n != 0 {
			t.Errorf("args %q: expected no store calls, got %d", args, n)
		}
	}
}

func TestAddCommand_StoreFailure(t *testing.T) {
	store := testutil.NewFakeStore()
	store.CreateErr = errors.New("connection refused")

	_, stderr, code := runCommand(t, &commands.AddCmd{}, store, []string{"Buy milk"}, false)

	expectCode(t, exitcode.RemoteError, code)
	if !strings.HasPrefix(stderr, "error: "+controller.MsgAddFailed) {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if !strings.Contains(stderr, "connection refused") {
		t.Errorf("expected cause in stderr, got %q", stderr)
	}
}

// Tests for rename command
func TestRenameCommand_ByID(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask("1", "Buy milk")
	store.AddTask("2", "Walk the dog")

	stdout, stderr, code := runCommand(t, &commands.RenameCmd{}, store, []string{"2", "Walk", "the", "cat"}, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != controller.MsgUpdated+"\n" {
		t.Errorf("expected %q, got %q", controller.MsgUpdated+"\n", stdout)
	}
	if got := store.Tasks()[1].Title; got != "Walk the cat" {
		t.Errorf("expected renamed task, got %q", got)
	}
}

func TestRenameCommand_ByPosition(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask("10", "Buy milk")
	store.AddTask("20", "Walk the dog")

	_, _, code := runCommand(t, &commands.RenameCmd{}, store, []string{"#1", "Buy oat milk"}, true)

	expectCode(t, exitcode.Success, code)
	calls := store.Calls()
	last := calls[len(calls)-1]
	if last.Op != testutil.CallUpdate || last.ID != "10" || last.Title != "Buy oat milk" {
		t.Errorf("unexpected update call %+v", last)
	}
}

func TestRenameCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"no reference", nil, exitcode.UserError, "error: task reference required\n"},
		{"bad reference", []string{"#x", "title"}, exitcode.UserError, "error: invalid task reference: #x\n"},
		{"out of range", []string{"#5", "title"}, exitcode.UserError, "error: task number out of range: 5\n"},
		{"unknown id", []string{"42", "title"}, exitcode.UserError, "error: " + controller.MsgNotFound + ": 42\n"},
		{"blank title", []string{"1", "  "}, exitcode.UserError, "error: " + controller.MsgEmptyTitle + "\n"},
		{"missing title", []string{"1"}, exitcode.UserError, "error: " + controller.MsgEmptyTitle + "\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := testutil.NewFakeStore()
			store.AddTask("1", "Buy milk")

			_, stderr, code := runCommand(t, &commands.RenameCmd{}, store, tc.args, false)

			expectCode(t, tc.wantCode, code)
			if stderr != tc.wantErr {
				t.Errorf("expected %q, got %q", tc.wantErr, stderr)
			}
			if n := store.CallCount(testutil.CallUpdate); n != 0 {
				t.Errorf("expected no update calls, got %d", n)
			}
		})
	}
}

func TestRenameCommand_StoreFailure(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask("1", "Buy milk")
	store.UpdateErr = apperrors.StatusError("PUT /tasks/1", 404)

	_, stderr, code := runCommand(t, &commands.RenameCmd{}, store, []string{"1", "Buy eggs"}, false)

	expectCode(t, exitcode.RemoteError, code)
	if !strings.HasPrefix(stderr, "error: "+controller.MsgUpdateFailed) {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if got := store.Tasks()[0].Title; got != "Buy milk" {
		t.Errorf("expected title unchanged, got %q", got)
	}
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask("1", "Buy milk")
	store.AddTask("2", "Walk the dog")

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, store, []string{"#2"}, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != controller.MsgDeleted+"\n" {
		t.Errorf("expected %q, got %q", controller.MsgDeleted+"\n", stdout)
	}
	if tasks := store.Tasks(); len(tasks) != 1 || tasks[0].ID != "1" {
		t.Errorf("unexpected remaining tasks %+v", tasks)
	}
}

func TestRmCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no reference", nil, "error: task reference required\n"},
		{"extra argument", []string{"1", "2"}, "error: unexpected argument: 2\n"},
		{"unknown id", []string{"9"}, "error: " + controller.MsgNotFound + ": 9\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := testutil.NewFakeStore()
			store.AddTask("1", "Buy milk")

			_, stderr, code := runCommand(t, &commands.RmCmd{}, store, tc.args, false)

			expectCode(t, exitcode.UserError, code)
			if stderr != tc.wantErr {
				t.Errorf("expected %q, got %q", tc.wantErr, stderr)
			}
			if n := store.CallCount(testutil.CallDelete); n != 0 {
				t.Errorf("expected no delete calls, got %d", n)
			}
		})
	}
}

func TestRmCommand_StoreFailure(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask("1", "Buy milk")
	store.DeleteErr = errors.New("connection reset")

	_, stderr, code := runCommand(t, &commands.RmCmd{}, store, []string{"1"}, false)

	expectCode(t, exitcode.RemoteError, code)
	if !strings.HasPrefix(stderr, "error: "+controller.MsgDeleteFailed) {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := len(store.Tasks()); n != 1 {
		t.Errorf("expected task to remain, got %d tasks", n)
	}
}

// Tests for the registry
func TestRegistry_DuplicateAlias(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&commands.ListCmd{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if cmd, ok := r.Find("ls"); !ok || cmd.Name() != "list" {
		t.Error("expected alias lookup to find list")
	}
}

func TestDefaultRegistry_Commands(t *testing.T) {
	var names []string
	for _, cmd := range commands.DefaultRegistry.All() {
		names = append(names, cmd.Name())
	}
	expected := "add help list rename rm ui version"
	if got := strings.Join(names, " "); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
