package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todocli/internal/config"
	"todocli/internal/exitcode"
	"todocli/internal/tui"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd runs the interactive task view. The poll loop lives only as
// long as the view: quitting cancels the context, which stops the ticker
// and any in-flight request.
type WatchCmd struct{}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Interactive task view with auto-refresh" }
func (c *WatchCmd) Usage() string     { return "todocli watch [common flags]" }
func (c *WatchCmd) NeedsAuth() bool   { return false }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, backend Backend, args []string, out, errOut io.Writer) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := newEngine(cfg, backend)
	if err := tui.Run(ctx, engine, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
