// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, blank title, unknown task).
	UserError = 1

	// ConfigError indicates an unusable configuration.
	ConfigError = 2

	// RemoteError indicates a failed call to the task store.
	RemoteError = 3
)
