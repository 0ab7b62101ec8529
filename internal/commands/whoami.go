package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todocli/internal/config"
	"todocli/internal/exitcode"
	"todocli/internal/session"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd rehydrates the session from the stored cookie and prints the
// profile email.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the logged-in account" }
func (c *WhoamiCmd) Usage() string     { return "todocli whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, backend Backend, args []string, out, errOut io.Writer) int {
	ctl := newController(cfg, backend)
	if err := ctl.Rehydrate(ctx); err != nil {
		return writeError(errOut, err)
	}

	snap := ctl.State()
	if snap.State != session.StateAuthenticated {
		fmt.Fprintln(errOut, "error: not logged in (run: todocli login)")
		return exitcode.AuthError
	}

	fmt.Fprintln(out, snap.Profile.Email)
	return exitcode.Success
}
