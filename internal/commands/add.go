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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "tasktracker add <title...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, s *Session, args []string, out, errOut io.Writer) int {
	// Blank titles are rejected by the controller before any request.
	s.Tasks.SetDraft(strings.Join(args, " "))
	task, err := s.Tasks.SubmitDraft(ctx)
	if err != nil {
		return reportFailure(s, err, errOut)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "Task added (%s)\n", task.ID)
	}
	return exitcode.Success
}
