package commands

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"tasktracker/internal/config"
	"tasktracker/internal/exitcode"
	"tasktracker/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the interactive task view.
type UICmd struct {
	inline bool
}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return nil }
func (c *UICmd) Synopsis() string   { return "Open the interactive task view" }
func (c *UICmd) Usage() string      { return "tasktracker ui [--inline]" }
func (c *UICmd) NeedsStore() bool   { return true }
func (c *UICmd) OwnsTerminal() bool { return true }

func (c *UICmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.inline, "inline", false, "render below the prompt instead of the alternate screen")
}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, s *Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	model := tui.New(ctx, s.Tasks, s.Notes)
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if !c.inline {
		opts = append(opts, tea.WithAltScreen())
	}

	if _, err := tea.NewProgram(model, opts...).Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
