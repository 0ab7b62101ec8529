package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todocli/internal/config"
	"todocli/internal/exitcode"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate and store the session cookie" }
func (c *LoginCmd) Usage() string     { return "todocli login [common flags] <email> <password>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, backend Backend, args []string, out, errOut io.Writer) int {
	email, password, code := credentialArgs(args, errOut)
	if code != exitcode.Success {
		return code
	}

	ctl := newController(cfg, backend)
	if err := ctl.Login(ctx, email, password); err != nil {
		return writeError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", email)
	}
	return exitcode.Success
}

// credentialArgs validates the shared <email> <password> argument pair.
// The checks mirror the original sign-in form: the email must contain "@"
// and the password must be at least six characters.
func credentialArgs(args []string, errOut io.Writer) (email, password string, code int) {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: email and password required")
		return "", "", exitcode.UserError
	}

	email = strings.TrimSpace(args[0])
	password = args[1]

	if !strings.Contains(email, "@") {
		fmt.Fprintf(errOut, "error: invalid email: %s\n", email)
		return "", "", exitcode.UserError
	}
	if len(password) < 6 {
		fmt.Fprintln(errOut, "error: password must be at least 6 characters")
		return "", "", exitcode.UserError
	}
	return email, password, exitcode.Success
}
