package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"tasktracker/internal/config"
	"tasktracker/internal/exitcode"
)

func init() {
	Register(&RenameCmd{})
}

// RenameCmd implements the rename command.
type RenameCmd struct{}

func (c *RenameCmd) Name() string      { return "rename" }
func (c *RenameCmd) Aliases() []string { return []string{"edit"} }
func (c *RenameCmd) Synopsis() string  { return "Change a task's title" }
func (c *RenameCmd) Usage() string     { return "tasktracker rename <id|#n> <title...>" }
func (c *RenameCmd) NeedsStore() bool  { return true }

func (c *RenameCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RenameCmd) Run(ctx context.Context, cfg *config.Config, s *Session, args []string, out, errOut io.Writer) int {
	ref, rest, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	// The task must be in the local collection before it can be edited.
	if err := s.Tasks.Load(ctx); err != nil {
		return reportFailure(s, err, errOut)
	}
	id, err := ref.Resolve(s.Tasks.Tasks())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := s.Tasks.StartEdit(id); err != nil {
		return reportFailure(s, err, errOut)
	}
	s.Tasks.SetEditTitle(strings.Join(rest, " "))
	if err := s.Tasks.SaveEdit(ctx); err != nil {
		return reportFailure(s, err, errOut)
	}
	return reportSuccess(cfg, s, out)
}
