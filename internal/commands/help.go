package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todocli/internal/config"
	"todocli/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todocli help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, backend Backend, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todocli                                            List tasks
  todocli list [common flags]                        List tasks
  todocli watch [common flags]                       Interactive task view (auto-refresh)
  todocli edit [common flags] [--title <text>] [--desc <text>] [--done|--undone] <task-id>
  todocli rm [common flags] <task-id>
  todocli login [common flags] <email> <password>
  todocli register [common flags] <email> <password> [confirm-password]
  todocli whoami [common flags]
  todocli logout [common flags]
  todocli help
  todocli version

Common flags:
  --config <dir>   Override config directory
  --api <domain>   Override API domain (default $TODOCLI_API_DOMAIN or localhost)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
