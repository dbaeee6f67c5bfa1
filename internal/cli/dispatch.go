// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"tasktracker/internal/commands"
	"tasktracker/internal/config"
	"tasktracker/internal/controller"
	"tasktracker/internal/exitcode"
	"tasktracker/internal/logging"
	"tasktracker/internal/notify"
	"tasktracker/internal/service"
)

// StoreFactory creates the task store from config.
// Used to inject the backend during dispatch.
type StoreFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Store, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry   *commands.Registry
	factory    StoreFactory
	defaultCmd string
}

// NewDispatcher creates a new dispatcher with the given registry and store factory.
// Without arguments it runs "list"; see SetDefaultCommand.
func NewDispatcher(registry *commands.Registry, factory StoreFactory) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		factory:    factory,
		defaultCmd: "list",
	}
}

// SetDefaultCommand sets the command run when no arguments are given.
func (d *Dispatcher) SetDefaultCommand(name string) {
	d.defaultCmd = name
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return d.dispatch(ctx, d.defaultCmd, nil, out, errOut)
	}

	cmdName := args[0]
	switch cmdName {
	case "-h", "--help":
		return d.dispatch(ctx, "help", nil, out, errOut)
	}

	// Flags require a command.
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Common flags
	var (
		configDir string
		quiet     bool
		debug     bool
		baseURL   string
		timeout   time.Duration
	)
	fs.StringVar(&configDir, "config", "", "override config directory")
	fs.BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	fs.BoolVar(&debug, "debug", false, "print debug logs")
	fs.StringVar(&baseURL, "base-url", "", "task store address")
	fs.DurationVar(&timeout, "timeout", 0, "per-request timeout")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(out, "Usage: %s\n  %s\n", cmd.Usage(), cmd.Synopsis())
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if fs.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if fs.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}

	logger, closeLog, err := newLogger(cmd, cfg, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	defer closeLog()

	var session *commands.Session
	if cmd.NeedsStore() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no task store configured")
			return exitcode.ConfigError
		}
		store, err := d.factory(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.ConfigError
		}
		notes := notify.NewCenter(nil, 0)
		session = &commands.Session{
			Tasks: controller.New(store, notes, logger),
			Notes: notes,
		}
	}

	logger.Debug("dispatching command", "command", cmd.Name(), "base_url", cfg.BaseURL)
	return cmd.Run(ctx, cfg, session, fs.Args(), out, errOut)
}

// newLogger picks the log destination. Commands that own the terminal log
// to a file under the config directory, and only with --debug.
func newLogger(cmd commands.Command, cfg *config.Config, errOut io.Writer) (*slog.Logger, func(), error) {
	noop := func() {}

	if owner, ok := cmd.(commands.TerminalOwner); ok && owner.OwnsTerminal() {
		if !cfg.Debug {
			logger := logging.Discard()
			slog.SetDefault(logger)
			return logger, noop, nil
		}
		if err := cfg.EnsureDir(); err != nil {
			return nil, noop, fmt.Errorf("failed to create config directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open log file: %w", err)
		}
		return logging.InitLogger(f, "debug", cfg.LogFormat), func() { f.Close() }, nil
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	return logging.InitLogger(errOut, level, cfg.LogFormat), noop, nil
}
