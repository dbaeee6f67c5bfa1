package cli_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"tasktracker/internal/cli"
	"tasktracker/internal/commands"
	"tasktracker/internal/config"
	"tasktracker/internal/exitcode"
	"tasktracker/internal/service"
	"tasktracker/internal/testutil"
)

// testFactory creates a store factory that returns the given FakeStore.
func testFactory(store *testutil.FakeStore) cli.StoreFactory {
	return func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Store, error) {
		return store, nil
	}
}

// run dispatches args against an isolated config directory.
func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	for _, name := range []string{"TASKTRACKER_BASE_URL", "TASKTRACKER_TIMEOUT", "TASKTRACKER_LOG_LEVEL", "TASKTRACKER_LOG_FORMAT"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	_, stderr, code := run(t, dispatcher, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	_, stderr, code := run(t, dispatcher, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	for _, args := range [][]string{{"help"}, {"--help"}, {"-h"}} {
		stdout, stderr, code := run(t, dispatcher, args...)

		if code != exitcode.Success {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.Success, code)
		}
		if stderr != "" {
			t.Errorf("%v: expected no stderr, got %q", args, stderr)
		}
		if !strings.HasPrefix(stdout, "Usage:") {
			t.Errorf("%v: expected help output to start with 'Usage:'", args)
		}
	}
}

func TestDispatcher_CommandHelpFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	stdout, _, code := run(t, dispatcher, "add", "--help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "tasktracker add <title...>") {
		t.Errorf("expected add usage, got %q", stdout)
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	stdout, stderr, code := run(t, dispatcher, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "tasktracker 0.1.0\n" {
		t.Errorf("expected 'tasktracker 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	_, stderr, code := run(t, dispatcher, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: --unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	_, stderr, code := run(t, dispatcher, "list", "--base-url")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "flag needs an argument") {
		t.Errorf("expected missing argument error, got %q", stderr)
	}
}

func TestDispatcher_DefaultCommand(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask("1", "Buy milk")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(store))

	stdout, stderr, code := run(t, dispatcher)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "   1  Buy milk  (1)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestDispatcher_SetDefaultCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))
	dispatcher.SetDefaultCommand("version")

	stdout, _, code := run(t, dispatcher)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "tasktracker 0.1.0\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestDispatcher_AddThenList(t *testing.T) {
	store := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(store))

	if _, _, code := run(t, dispatcher, "add", "-q", "Buy", "milk"); code != exitcode.Success {
		t.Fatalf("add failed with exit code %d", code)
	}
	stdout, _, code := run(t, dispatcher, "ls")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "   1  Buy milk  (1)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestDispatcher_FlagOverridesReachFactory(t *testing.T) {
	var got *config.Config
	factory := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Store, error) {
		got = cfg
		return testutil.NewFakeStore(), nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	_, _, code := run(t, dispatcher, "list", "--base-url", "http://localhost:5000", "--timeout", "2s")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got.BaseURL != "http://localhost:5000" {
		t.Errorf("expected base url override, got %q", got.BaseURL)
	}
	if got.Timeout.String() != "2s" {
		t.Errorf("expected timeout override, got %s", got.Timeout)
	}
}

func TestDispatcher_InvalidBaseURL(t *testing.T) {
	store := testutil.NewFakeStore()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(store))

	_, stderr, code := run(t, dispatcher, "list", "--base-url", "not a url")

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid base url") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := len(store.Calls()); n != 0 {
		t.Errorf("expected no store calls, got %d", n)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Store, error) {
		return nil, errors.New("no route to store")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	_, stderr, code := run(t, dispatcher, "list")

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if stderr != "error: no route to store\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_RemoteFailureExitCode(t *testing.T) {
	store := testutil.NewFakeStore()
	store.ListErr = errors.New("connection refused")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(store))

	_, stderr, code := run(t, dispatcher, "list")

	if code != exitcode.RemoteError {
		t.Errorf("expected exit code %d, got %d", exitcode.RemoteError, code)
	}
	if !strings.HasPrefix(stderr, "error: Failed to load tasks.") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
