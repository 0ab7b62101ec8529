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
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct{}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and log in" }
func (c *RegisterCmd) Usage() string {
	return "todocli register [common flags] <email> <password> [confirm-password]"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, backend Backend, args []string, out, errOut io.Writer) int {
	email, password, code := credentialArgs(args, errOut)
	if code != exitcode.Success {
		return code
	}
	if len(args) > 2 && args[2] != password {
		fmt.Fprintln(errOut, "error: passwords do not match")
		return exitcode.UserError
	}

	// Registration chains into login; a successful run leaves a session
	// cookie behind exactly like the login command.
	ctl := newController(cfg, backend)
	if err := ctl.Register(ctx, email, password); err != nil {
		return writeError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered and logged in as %s\n", email)
	}
	return exitcode.Success
}
