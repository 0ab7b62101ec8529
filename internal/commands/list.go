package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todocli/internal/config"
	"todocli/internal/exitcode"
	"todocli/internal/output"
	"todocli/internal/tasksync"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd performs a single poll and renders the task table.
// Also handles `todocli` with no arguments.
type ListCmd struct{}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "todocli list [common flags]" }
func (c *ListCmd) NeedsAuth() bool   { return false }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, backend Backend, args []string, out, errOut io.Writer) int {
	engine := newEngine(cfg, backend)
	view := engine.Poll(ctx)

	switch view.State {
	case tasksync.ViewLoaded:
		if len(view.Tasks) == 0 {
			if !cfg.Quiet {
				fmt.Fprintln(out, "no tasks found")
			}
			return exitcode.Success
		}
		output.TaskHeader(out)
		for _, task := range view.Tasks {
			output.TaskRow(out, task)
		}
		return exitcode.Success
	case tasksync.ViewUnauthenticated:
		fmt.Fprintln(errOut, "error: not authorized (run: todocli login)")
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: %s\n", output.StateMessage(view))
		return exitcode.BackendError
	}
}
