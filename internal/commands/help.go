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
	Register(&HelpCmd{registry: DefaultRegistry})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasktracker help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, s *Session, args []string, out, errOut io.Writer) int {
	registry := c.registry
	if registry == nil {
		registry = DefaultRegistry
	}
	fmt.Fprint(out, HelpText(registry))
	return exitcode.Success
}

// HelpText renders usage for every registered command.
func HelpText(registry *Registry) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  tasktracker                          Open the task view (list when not a terminal)\n")
	for _, cmd := range registry.All() {
		fmt.Fprintf(&b, "  %-36s %s", cmd.Usage(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(&b, " (alias: %s)", strings.Join(aliases, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString(commonFlagsHelp)
	return b.String()
}

const commonFlagsHelp = `
Task references:
  <id>             A task id as shown in parentheses by list
  #<n>             The n-th task of the current listing

Common flags:
  --config <dir>     Override config directory
  --base-url <url>   Task store address (default ` + config.DefaultBaseURL + `)
  --timeout <dur>    Per-request timeout, 0 for none
  -q, --quiet        Suppress informational output
  --debug            Print debug logs
`
