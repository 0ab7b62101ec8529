// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"todocli/internal/config"
	"todocli/internal/session"
	"todocli/internal/tasksync"
)

// Backend is the API surface commands operate on. The real implementation
// is api.Client; tests substitute testutil.FakeAPI.
type Backend interface {
	session.API
	tasksync.API
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session
	// cookie. The dispatcher rejects such commands up front when no
	// cookie is present.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command. backend is nil only for commands that
	// never touch the API (help, version). Returns the exit code.
	Run(ctx context.Context, cfg *config.Config, backend Backend, args []string, out, errOut io.Writer) int
}

// newController wires a session controller over the config's cookie store.
func newController(cfg *config.Config, backend Backend) *session.Controller {
	return session.NewController(backend, cookieStore(cfg))
}

// newEngine wires a sync engine over the config's cookie store.
func newEngine(cfg *config.Config, backend Backend) *tasksync.Engine {
	return tasksync.NewEngine(backend, cookieStore(cfg))
}
