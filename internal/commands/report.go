package commands

import (
	"fmt"
	"io"

	"tasktracker/internal/config"
	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/exitcode"
	"tasktracker/internal/notify"
	"tasktracker/internal/output"
)

// reportSuccess prints the notification the last operation produced.
func reportSuccess(cfg *config.Config, s *Session, out io.Writer) int {
	if cfg.Quiet {
		return exitcode.Success
	}
	if n, ok := s.Notes.Last(); ok && n.Level == notify.LevelSuccess {
		output.FormatNotification(out, n)
	}
	return exitcode.Success
}

// reportFailure prints a failed operation and maps it to an exit code.
// Remote failures show the notification the user would see plus the cause.
func reportFailure(s *Session, err error, errOut io.Writer) int {
	e := apperrors.AsStructuredError(err)
	switch e.Type {
	case apperrors.TypeValidation:
		fmt.Fprintf(errOut, "error: %s\n", e.Message)
		return exitcode.UserError
	case apperrors.TypeNotFound:
		fmt.Fprintf(errOut, "error: %s: %v\n", e.Message, e.Context["id"])
		return exitcode.UserError
	}

	msg := e.Message
	if n, ok := s.Notes.Last(); ok && n.Level == notify.LevelError {
		msg = n.Message
	}
	fmt.Fprintf(errOut, "error: %s (%v)\n", msg, err)
	return exitcode.RemoteError
}
