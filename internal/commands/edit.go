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
	Register(&EditCmd{})
}

// EditCmd performs a one-shot write-through edit: the current record is
// fetched, the edited fields are merged in, and the full record is sent.
type EditCmd struct {
	title   string
	desc    string
	done    bool
	undone  bool
	hasEdit bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task field" }
func (c *EditCmd) Usage() string {
	return "todocli edit [common flags] [--title <text>] [--desc <text>] [--done|--undone] <task-id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.desc, "desc", "", "")
	fs.BoolVar(&c.done, "done", false, "")
	fs.BoolVar(&c.undone, "undone", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, backend Backend, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	if c.done && c.undone {
		fmt.Fprintln(errOut, "error: cannot use both --done and --undone")
		return exitcode.UserError
	}

	patch := tasksync.FieldPatch{}
	if c.title != "" {
		patch.Title = &c.title
	}
	if c.desc != "" {
		patch.Description = &c.desc
	}
	if c.done || c.undone {
		status := c.done
		patch.Status = &status
	}
	if patch.Title == nil && patch.Description == nil && patch.Status == nil {
		fmt.Fprintln(errOut, "error: nothing to edit (use --title, --desc, --done or --undone)")
		return exitcode.UserError
	}

	id := args[0]

	// The engine merges the patch into the record from its current view,
	// so a poll has to land first.
	engine := newEngine(cfg, backend)
	view := engine.Poll(ctx)
	if view.State != tasksync.ViewLoaded {
		if view.State == tasksync.ViewUnauthenticated {
			fmt.Fprintln(errOut, "error: not authorized (run: todocli login)")
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: %s\n", output.StateMessage(view))
		return exitcode.BackendError
	}

	if err := engine.UpdateField(ctx, id, patch); err != nil {
		return writeError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
